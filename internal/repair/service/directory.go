package service

import "github.com/bitfantasy/repairtrack/internal/repair/entity"

// 名称解析的兜底值
const (
	UnknownCustomer     = "Unknown"
	UnknownOrganization = "Unknown Org"
)

// Directory 基于快照的 ID -> 名称解析
type Directory struct {
	customers     map[string]entity.Customer
	organizations map[string]string
}

func NewDirectory(customers []entity.Customer, organizations []entity.Organization) *Directory {
	d := &Directory{
		customers:     make(map[string]entity.Customer, len(customers)),
		organizations: make(map[string]string, len(organizations)),
	}
	for _, c := range customers {
		d.customers[c.ID] = c
	}
	for _, o := range organizations {
		d.organizations[o.ID] = o.Name
	}
	return d
}

// CustomerName 客户姓名，找不到时返回 Unknown
func (d *Directory) CustomerName(customerID string) string {
	if c, ok := d.customers[customerID]; ok {
		return c.FullName
	}
	return UnknownCustomer
}

// CustomerOrganization 客户所属组织名称，任一环节缺失时返回 fallback
func (d *Directory) CustomerOrganization(customerID, fallback string) string {
	c, ok := d.customers[customerID]
	if !ok {
		return fallback
	}
	return d.OrganizationName(c.OrganizationID, fallback)
}

func (d *Directory) OrganizationName(organizationID, fallback string) string {
	if name, ok := d.organizations[organizationID]; ok {
		return name
	}
	return fallback
}
