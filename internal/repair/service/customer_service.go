package service

import (
	"context"
	"strings"
	"time"

	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"github.com/bitfantasy/repairtrack/internal/repair/repository"
	"github.com/google/uuid"
)

// CustomerService 客户服务
type CustomerService struct {
	store *repository.Store
	now   func() time.Time
}

func NewCustomerService(store *repository.Store) *CustomerService {
	return &CustomerService{store: store, now: time.Now}
}

// SaveCustomerRequest 创建/更新客户请求
type SaveCustomerRequest struct {
	FullName       string `json:"full_name"`
	OrganizationID string `json:"organization_id"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
}

func (r *SaveCustomerRequest) toCustomer(id string, createdAt time.Time) *entity.Customer {
	return &entity.Customer{
		ID:             id,
		FullName:       strings.TrimSpace(r.FullName),
		OrganizationID: r.OrganizationID,
		Phone:          strings.TrimSpace(r.Phone),
		Address:        r.Address,
		CreatedAt:      createdAt,
	}
}

// CustomerRow 客户列表行
type CustomerRow struct {
	entity.Customer
	OrganizationName string `json:"organization_name"`
	TicketCount      int    `json:"ticket_count"`
}

// CustomerFilter 客户筛选条件
type CustomerFilter struct {
	OrganizationID string
	Search         string
}

// List 获取客户列表，search 匹配姓名和电话
func (s *CustomerService) List(ctx context.Context, filter CustomerFilter) []CustomerRow {
	customers := s.store.Customers.List(ctx)
	dir := NewDirectory(customers, s.store.Organizations.List(ctx))

	ticketCount := make(map[string]int)
	for _, t := range s.store.Tickets.List(ctx) {
		ticketCount[t.CustomerID]++
	}

	rows := make([]CustomerRow, 0)
	for _, c := range customers {
		if filter.OrganizationID != "" && c.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.Search != "" && !containsFold(c.FullName, filter.Search) && !containsFold(c.Phone, filter.Search) {
			continue
		}
		rows = append(rows, CustomerRow{
			Customer:         c,
			OrganizationName: dir.OrganizationName(c.OrganizationID, ""),
			TicketCount:      ticketCount[c.ID],
		})
	}
	return rows
}

// Get 获取客户
func (s *CustomerService) Get(ctx context.Context, id string) (*entity.Customer, error) {
	return s.store.Customers.Get(ctx, id)
}

// Create 创建客户
func (s *CustomerService) Create(ctx context.Context, req *SaveCustomerRequest) (*entity.Customer, error) {
	customer := req.toCustomer(uuid.New().String(), s.now())
	if err := ValidateCustomer(customer); err != nil {
		return nil, err
	}
	if err := requireOrganization(ctx, s.store, customer.OrganizationID); err != nil {
		return nil, err
	}
	if err := s.store.Customers.Add(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Update 更新客户
func (s *CustomerService) Update(ctx context.Context, id string, req *SaveCustomerRequest) (*entity.Customer, error) {
	existing, err := s.store.Customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	customer := req.toCustomer(id, existing.CreatedAt)
	if err := ValidateCustomer(customer); err != nil {
		return nil, err
	}
	if err := requireOrganization(ctx, s.store, customer.OrganizationID); err != nil {
		return nil, err
	}
	if err := s.store.Customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete 删除客户，仍有维修工单引用时返回 ErrReferenced
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	return s.store.Customers.Delete(ctx, id)
}
