package entity

import (
	"time"

	"gorm.io/gorm"
)

// Record 所有集合记录实现的接口
type Record interface {
	GetID() string
	GetCreatedAt() time.Time
}

// AutoMigrate 自动迁移维修相关表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Organization{},
		&Customer{},
		&RepairTicket{},
		&WarrantyTicket{},
	)
}

// DateLayout 日期格式（接收/寄出/返还日期）
const DateLayout = "2006-01-02"

// ParseDate 解析 YYYY-MM-DD 日期
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DeviceType 设备类型
const (
	DeviceCodec       = "Codec"
	DeviceMic         = "Mic"
	DeviceCamera      = "Camera"
	DeviceSourcePower = "Source/Power"
	DeviceControl     = "Control"
	DeviceOther       = "Other"
)

// DeviceTypes 设备类型（展示顺序）
var DeviceTypes = []string{
	DeviceCodec,
	DeviceMic,
	DeviceCamera,
	DeviceSourcePower,
	DeviceControl,
	DeviceOther,
}

// IsValidDeviceType 是否为合法设备类型
func IsValidDeviceType(t string) bool {
	return contains(DeviceTypes, t)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
