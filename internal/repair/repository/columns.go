package repository

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
)

// fieldKeys Go 字段与可接受的列名，按优先级排列（蛇形优先，驼峰其次）
type fieldKeys struct {
	field string
	keys  []string
}

func col(field string, keys ...string) fieldKeys {
	return fieldKeys{field: field, keys: keys}
}

var organizationColumns = []fieldKeys{
	col("ID", "id"),
	col("Name", "name"),
	col("Address", "address"),
	col("CreatedAt", "created_at", "createdAt"),
}

var customerColumns = []fieldKeys{
	col("ID", "id"),
	col("FullName", "full_name", "fullName"),
	col("OrganizationID", "organization_id", "organizationId"),
	col("Phone", "phone"),
	col("Address", "address"),
	col("CreatedAt", "created_at", "createdAt"),
}

var ticketColumns = []fieldKeys{
	col("ID", "id"),
	col("CustomerID", "customer_id", "customerId"),
	col("DeviceType", "device_type", "deviceType"),
	col("SerialNumber", "serial_number", "serialNumber"),
	col("DeviceCondition", "device_condition", "deviceCondition"),
	col("ReceiveDate", "receive_date", "receiveDate"),
	col("Status", "status"),
	col("ReturnDate", "return_date", "returnDate"),
	col("ReturnNote", "return_note", "returnNote"),
	col("ShippingMethod", "shipping_method", "shippingMethod"),
	col("CreatedAt", "created_at", "createdAt"),
	col("UpdatedAt", "updated_at", "updatedAt"),
}

var warrantyColumns = []fieldKeys{
	col("ID", "id"),
	col("OrganizationID", "organization_id", "organizationId"),
	col("DeviceType", "device_type", "deviceType"),
	col("SerialNumber", "serial_number", "serialNumber"),
	col("FaultDescription", "fault_description", "faultDescription"),
	col("SentDate", "sent_date", "sentDate"),
	col("Status", "status"),
	col("ReturnDate", "return_date", "returnDate"),
	col("Cost", "cost"),
	col("Note", "note"),
	col("ShippingMethod", "shipping_method", "shippingMethod"),
	col("TrackingNumber", "tracking_number", "trackingNumber"),
	col("CreatedAt", "created_at", "createdAt"),
	col("UpdatedAt", "updated_at", "updatedAt"),
}

// timeLayouts 存储层可能返回的时间格式
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var (
	timeType        = reflect.TypeOf(time.Time{})
	nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})
)

// decodeRecord 按列映射表将一行数据解码为实体
func decodeRecord[T any](row map[string]interface{}, mapping []fieldKeys) (T, error) {
	var out T

	normalized := make(map[string]interface{}, len(mapping))
	for _, fk := range mapping {
		for _, key := range fk.keys {
			if v, ok := row[key]; ok && v != nil {
				normalized[fk.field] = v
				break
			}
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToTimeHook,
			toNullDecimalHook,
		),
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(normalized); err != nil {
		return out, err
	}
	return out, nil
}

func stringToTimeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != timeType {
		return data, nil
	}
	switch v := data.(type) {
	case time.Time:
		return v, nil
	case []byte:
		return parseTime(string(v))
	case string:
		return parseTime(v)
	}
	return data, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time value %q", s)
}

func toNullDecimalHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != nullDecimalType {
		return data, nil
	}
	switch v := data.(type) {
	case decimal.NullDecimal:
		return v, nil
	case decimal.Decimal:
		return decimal.NewNullDecimal(v), nil
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(v)), nil
	case float32:
		return decimal.NewNullDecimal(decimal.NewFromFloat32(v)), nil
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(v)), nil
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(v))), nil
	case []byte:
		return parseNullDecimal(string(v))
	case string:
		return parseNullDecimal(v)
	}
	return data, nil
}

func parseNullDecimal(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return decimal.NewNullDecimal(d), nil
}
