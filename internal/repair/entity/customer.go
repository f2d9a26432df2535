package entity

import "time"

// Customer 客户，隶属于一个组织
type Customer struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	FullName       string    `json:"full_name" gorm:"size:200;not null"`
	OrganizationID string    `json:"organization_id" gorm:"size:36;not null;index"`
	Phone          string    `json:"phone" gorm:"size:50"`
	Address        string    `json:"address" gorm:"size:500"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`

	Organization *Organization `json:"-" gorm:"foreignKey:OrganizationID;constraint:OnDelete:RESTRICT"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c Customer) GetID() string           { return c.ID }
func (c Customer) GetCreatedAt() time.Time { return c.CreatedAt }
