package entity

import "time"

// Organization 组织（客户所属单位，也作为保修送修的外部维修中心）
type Organization struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	Address   string    `json:"address" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (Organization) TableName() string {
	return "organizations"
}

func (o Organization) GetID() string           { return o.ID }
func (o Organization) GetCreatedAt() time.Time { return o.CreatedAt }
