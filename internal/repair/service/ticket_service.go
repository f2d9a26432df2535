package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"github.com/bitfantasy/repairtrack/internal/repair/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TicketService 维修工单服务
type TicketService struct {
	store  *repository.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewTicketService(store *repository.Store, logger *zap.Logger) *TicketService {
	return &TicketService{store: store, logger: logger, now: time.Now}
}

// SaveTicketRequest 创建/更新维修工单请求，更新时整体替换。
// NewCustomer 非空时先创建该客户再关联到工单。
type SaveTicketRequest struct {
	CustomerID      string               `json:"customer_id"`
	NewCustomer     *SaveCustomerRequest `json:"new_customer"`
	DeviceType      string               `json:"device_type"`
	SerialNumber    string               `json:"serial_number"`
	DeviceCondition string               `json:"device_condition"`
	ReceiveDate     string               `json:"receive_date"`
	Status          string               `json:"status"`
	ReturnDate      string               `json:"return_date"`
	ReturnNote      string               `json:"return_note"`
	ShippingMethod  string               `json:"shipping_method"`
}

func (r *SaveTicketRequest) toTicket() *entity.RepairTicket {
	t := &entity.RepairTicket{
		CustomerID:      r.CustomerID,
		DeviceType:      r.DeviceType,
		SerialNumber:    strings.TrimSpace(r.SerialNumber),
		DeviceCondition: r.DeviceCondition,
		ReceiveDate:     strings.TrimSpace(r.ReceiveDate),
		Status:          r.Status,
		ReturnDate:      strings.TrimSpace(r.ReturnDate),
		ReturnNote:      r.ReturnNote,
		ShippingMethod:  r.ShippingMethod,
	}
	if t.Status == "" {
		t.Status = entity.RepairStatusReceived
	}
	return t
}

// TicketRow 维修工单列表行（附客户与组织名称）
type TicketRow struct {
	entity.RepairTicket
	CustomerName     string `json:"customer_name"`
	OrganizationName string `json:"organization_name"`
}

// TicketFilter 维修工单筛选条件
type TicketFilter struct {
	Status     string
	DeviceType string
	CustomerID string
	Search     string
}

func (f TicketFilter) match(t entity.RepairTicket, customerName string) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.DeviceType != "" && t.DeviceType != f.DeviceType {
		return false
	}
	if f.CustomerID != "" && t.CustomerID != f.CustomerID {
		return false
	}
	if f.Search != "" && !containsFold(customerName, f.Search) && !containsFold(t.SerialNumber, f.Search) {
		return false
	}
	return true
}

func ticketRows(tickets []entity.RepairTicket, dir *Directory) []TicketRow {
	rows := make([]TicketRow, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, TicketRow{
			RepairTicket:     t,
			CustomerName:     dir.CustomerName(t.CustomerID),
			OrganizationName: dir.CustomerOrganization(t.CustomerID, ""),
		})
	}
	return rows
}

func (s *TicketService) directory(ctx context.Context) *Directory {
	return NewDirectory(s.store.Customers.List(ctx), s.store.Organizations.List(ctx))
}

// List 获取维修工单列表（分页）
func (s *TicketService) List(ctx context.Context, filter TicketFilter, page, pageSize int) ([]TicketRow, int) {
	dir := s.directory(ctx)

	matched := make([]entity.RepairTicket, 0)
	for _, t := range s.store.Tickets.List(ctx) {
		if filter.match(t, dir.CustomerName(t.CustomerID)) {
			matched = append(matched, t)
		}
	}
	return ticketRows(paginate(matched, page, pageSize), dir), len(matched)
}

// Get 获取维修工单详情
func (s *TicketService) Get(ctx context.Context, id string) (*TicketRow, error) {
	ticket, err := s.store.Tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	row := ticketRows([]entity.RepairTicket{*ticket}, s.directory(ctx))[0]
	return &row, nil
}

// History 与该工单同一设备的全部维修记录
func (s *TicketService) History(ctx context.Context, id string) ([]TicketRow, error) {
	all := s.store.Tickets.List(ctx)
	var source *entity.RepairTicket
	for i := range all {
		if all[i].ID == id {
			source = &all[i]
			break
		}
	}
	if source == nil {
		return nil, repository.ErrNotFound
	}
	return ticketRows(RepairHistory(*source, all), s.directory(ctx)), nil
}

// prepareNewCustomer 校验新客户，返回待写入的客户
func (s *TicketService) prepareNewCustomer(ctx context.Context, req *SaveCustomerRequest, now time.Time) (*entity.Customer, error) {
	customer := req.toCustomer(uuid.New().String(), now)
	if err := ValidateCustomer(customer); err != nil {
		return nil, err
	}
	if err := requireOrganization(ctx, s.store, customer.OrganizationID); err != nil {
		return nil, err
	}
	return customer, nil
}

// save 校验后写入；新客户先写入，工单写入失败时删除该客户
func (s *TicketService) save(ctx context.Context, ticket *entity.RepairTicket, newCustomer *SaveCustomerRequest, write func(context.Context, *entity.RepairTicket) error) error {
	var customer *entity.Customer
	if newCustomer != nil {
		var err error
		if customer, err = s.prepareNewCustomer(ctx, newCustomer, ticket.UpdatedAt); err != nil {
			return err
		}
		ticket.CustomerID = customer.ID
	}

	if err := ValidateRepairTicket(ticket); err != nil {
		return err
	}

	if customer == nil {
		_, err := s.store.Customers.Get(ctx, ticket.CustomerID)
		if errors.Is(err, repository.ErrNotFound) {
			return invalid("customer_id", "customer not found")
		}
		if err != nil {
			return fmt.Errorf("check customer: %w", err)
		}
	} else if err := s.store.Customers.Add(ctx, customer); err != nil {
		return fmt.Errorf("save customer: %w", err)
	}

	if err := write(ctx, ticket); err != nil {
		if customer != nil {
			if derr := s.store.Customers.Delete(ctx, customer.ID); derr != nil {
				s.logger.Warn("failed to remove customer after ticket save failed",
					zap.String("customer_id", customer.ID),
					zap.Error(derr))
			}
		}
		return err
	}
	return nil
}

// Create 创建维修工单
func (s *TicketService) Create(ctx context.Context, req *SaveTicketRequest) (*entity.RepairTicket, error) {
	now := s.now()
	ticket := req.toTicket()
	ticket.ID = uuid.New().String()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	if err := s.save(ctx, ticket, req.NewCustomer, s.store.Tickets.Add); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Update 更新维修工单，保留原 created_at；编辑时不支持新建客户
func (s *TicketService) Update(ctx context.Context, id string, req *SaveTicketRequest) (*entity.RepairTicket, error) {
	if req.NewCustomer != nil {
		return nil, invalid("new_customer", "new customer can only be created with a new ticket")
	}

	existing, err := s.store.Tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ticket := req.toTicket()
	ticket.ID = id
	ticket.CreatedAt = existing.CreatedAt
	ticket.UpdatedAt = s.now()

	if err := s.save(ctx, ticket, nil, s.store.Tickets.Update); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Delete 删除维修工单
func (s *TicketService) Delete(ctx context.Context, id string) error {
	return s.store.Tickets.Delete(ctx, id)
}
