package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarrantyStatus 保修工单状态（Done 与 Cannot-Fix 均为终态）
const (
	WarrantyStatusSent      = "Sent"
	WarrantyStatusFixing    = "Fixing"
	WarrantyStatusDone      = "Done"
	WarrantyStatusCannotFix = "Cannot-Fix"
)

// WarrantyStatuses 保修状态（流程顺序）
var WarrantyStatuses = []string{
	WarrantyStatusSent,
	WarrantyStatusFixing,
	WarrantyStatusDone,
	WarrantyStatusCannotFix,
}

// IsValidWarrantyStatus 是否为合法保修状态
func IsValidWarrantyStatus(s string) bool {
	return contains(WarrantyStatuses, s)
}

// WarrantyTicket 保修工单（送外部维修中心）
type WarrantyTicket struct {
	ID               string              `json:"id" gorm:"primaryKey;size:36"`
	OrganizationID   string              `json:"organization_id" gorm:"size:36;not null;index"`
	DeviceType       string              `json:"device_type" gorm:"size:20;not null"`
	SerialNumber     string              `json:"serial_number" gorm:"size:100;index"`
	FaultDescription string              `json:"fault_description" gorm:"type:text"`
	SentDate         string              `json:"sent_date" gorm:"size:10;not null"`
	Status           string              `json:"status" gorm:"size:20;not null;default:Sent"`
	ReturnDate       string              `json:"return_date" gorm:"size:10"`
	Cost             decimal.NullDecimal `json:"cost" gorm:"type:decimal(12,2)"`
	Note             string              `json:"note" gorm:"type:text"`
	ShippingMethod   string              `json:"shipping_method" gorm:"size:50"`
	TrackingNumber   string              `json:"tracking_number" gorm:"size:100"`
	CreatedAt        time.Time           `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time           `json:"updated_at"`

	Organization *Organization `json:"-" gorm:"foreignKey:OrganizationID;constraint:OnDelete:RESTRICT"`
}

func (WarrantyTicket) TableName() string {
	return "warranties"
}

func (w WarrantyTicket) GetID() string           { return w.ID }
func (w WarrantyTicket) GetCreatedAt() time.Time { return w.CreatedAt }
