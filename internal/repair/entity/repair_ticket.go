package entity

import "time"

// RepairStatus 维修工单状态
const (
	RepairStatusReceived   = "Received"
	RepairStatusProcessing = "Processing"
	RepairStatusReturned   = "Returned"
)

// RepairStatuses 维修状态（流程顺序）
var RepairStatuses = []string{
	RepairStatusReceived,
	RepairStatusProcessing,
	RepairStatusReturned,
}

// IsValidRepairStatus 是否为合法维修状态
func IsValidRepairStatus(s string) bool {
	return contains(RepairStatuses, s)
}

// RepairTicket 维修工单
type RepairTicket struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	CustomerID      string    `json:"customer_id" gorm:"size:36;not null;index"`
	DeviceType      string    `json:"device_type" gorm:"size:20;not null"`
	SerialNumber    string    `json:"serial_number" gorm:"size:100;index"`
	DeviceCondition string    `json:"device_condition" gorm:"type:text"`
	ReceiveDate     string    `json:"receive_date" gorm:"size:10;not null"`
	Status          string    `json:"status" gorm:"size:20;not null;default:Received"`
	ReturnDate      string    `json:"return_date" gorm:"size:10"`
	ReturnNote      string    `json:"return_note" gorm:"type:text"`
	ShippingMethod  string    `json:"shipping_method" gorm:"size:50"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time `json:"updated_at"`

	Customer *Customer `json:"-" gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
}

func (RepairTicket) TableName() string {
	return "tickets"
}

func (t RepairTicket) GetID() string           { return t.ID }
func (t RepairTicket) GetCreatedAt() time.Time { return t.CreatedAt }
