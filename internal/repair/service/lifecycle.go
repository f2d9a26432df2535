package service

import (
	"fmt"
	"strings"

	"github.com/bitfantasy/repairtrack/internal/repair/entity"
)

// ValidationError 保存前校验失败，Message 直接展示给用户
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func checkDate(field, label, value string) error {
	if value == "" {
		return nil
	}
	if _, err := entity.ParseDate(value); err != nil {
		return invalid(field, "%s must be a date in YYYY-MM-DD format", label)
	}
	return nil
}

// ValidateRepairTicket 维修工单保存规则。状态可任意切换，
// 但 Returned 状态必须填写返还日期和寄送方式。
func ValidateRepairTicket(t *entity.RepairTicket) error {
	if blank(t.CustomerID) {
		return invalid("customer_id", "customer is required")
	}
	if blank(t.DeviceType) {
		return invalid("device_type", "device type is required")
	}
	if !entity.IsValidDeviceType(t.DeviceType) {
		return invalid("device_type", "unknown device type %q", t.DeviceType)
	}
	if blank(t.ReceiveDate) {
		return invalid("receive_date", "receive date is required")
	}
	if err := checkDate("receive_date", "receive date", t.ReceiveDate); err != nil {
		return err
	}
	if !entity.IsValidRepairStatus(t.Status) {
		return invalid("status", "unknown status %q", t.Status)
	}
	if t.Status == entity.RepairStatusReturned {
		if blank(t.ReturnDate) {
			return invalid("return_date", "return date is required when the device is returned")
		}
		if blank(t.ShippingMethod) {
			return invalid("shipping_method", "shipping method is required when the device is returned")
		}
	}
	return checkDate("return_date", "return date", t.ReturnDate)
}

// ValidateWarrantyTicket 保修工单保存规则，Done / Cannot-Fix 不要求额外字段
func ValidateWarrantyTicket(w *entity.WarrantyTicket) error {
	if blank(w.OrganizationID) {
		return invalid("organization_id", "service center is required")
	}
	if blank(w.DeviceType) {
		return invalid("device_type", "device type is required")
	}
	if !entity.IsValidDeviceType(w.DeviceType) {
		return invalid("device_type", "unknown device type %q", w.DeviceType)
	}
	if blank(w.SentDate) {
		return invalid("sent_date", "sent date is required")
	}
	if err := checkDate("sent_date", "sent date", w.SentDate); err != nil {
		return err
	}
	if !entity.IsValidWarrantyStatus(w.Status) {
		return invalid("status", "unknown status %q", w.Status)
	}
	if err := checkDate("return_date", "return date", w.ReturnDate); err != nil {
		return err
	}
	if w.Cost.Valid && w.Cost.Decimal.IsNegative() {
		return invalid("cost", "cost cannot be negative")
	}
	return nil
}

// ValidateCustomer 客户保存规则
func ValidateCustomer(c *entity.Customer) error {
	if blank(c.FullName) {
		return invalid("full_name", "customer name is required")
	}
	if blank(c.OrganizationID) {
		return invalid("organization_id", "organization is required")
	}
	return nil
}

// ValidateOrganization 组织保存规则
func ValidateOrganization(o *entity.Organization) error {
	if blank(o.Name) {
		return invalid("name", "organization name is required")
	}
	return nil
}
