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
)

// paginate 对快照做内存分页
func paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return items
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// requireOrganization 引用的组织必须存在
func requireOrganization(ctx context.Context, store *repository.Store, id string) error {
	_, err := store.Organizations.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return invalid("organization_id", "organization not found")
	}
	if err != nil {
		return fmt.Errorf("check organization: %w", err)
	}
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// OrganizationService 组织服务
type OrganizationService struct {
	store *repository.Store
	now   func() time.Time
}

func NewOrganizationService(store *repository.Store) *OrganizationService {
	return &OrganizationService{store: store, now: time.Now}
}

// SaveOrganizationRequest 创建/更新组织请求
type SaveOrganizationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// OrganizationRow 组织列表行
type OrganizationRow struct {
	entity.Organization
	CustomerCount int `json:"customer_count"`
	WarrantyCount int `json:"warranty_count"`
}

// List 获取组织列表，search 匹配名称
func (s *OrganizationService) List(ctx context.Context, search string) []OrganizationRow {
	customers := s.store.Customers.List(ctx)
	warranties := s.store.Warranties.List(ctx)

	customerCount := make(map[string]int)
	for _, c := range customers {
		customerCount[c.OrganizationID]++
	}
	warrantyCount := make(map[string]int)
	for _, w := range warranties {
		warrantyCount[w.OrganizationID]++
	}

	rows := make([]OrganizationRow, 0)
	for _, o := range s.store.Organizations.List(ctx) {
		if search != "" && !containsFold(o.Name, search) {
			continue
		}
		rows = append(rows, OrganizationRow{
			Organization:  o,
			CustomerCount: customerCount[o.ID],
			WarrantyCount: warrantyCount[o.ID],
		})
	}
	return rows
}

// Get 获取组织
func (s *OrganizationService) Get(ctx context.Context, id string) (*entity.Organization, error) {
	return s.store.Organizations.Get(ctx, id)
}

// Create 创建组织
func (s *OrganizationService) Create(ctx context.Context, req *SaveOrganizationRequest) (*entity.Organization, error) {
	org := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Address:   req.Address,
		CreatedAt: s.now(),
	}
	if err := ValidateOrganization(org); err != nil {
		return nil, err
	}
	if err := s.store.Organizations.Add(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// Update 更新组织
func (s *OrganizationService) Update(ctx context.Context, id string, req *SaveOrganizationRequest) (*entity.Organization, error) {
	existing, err := s.store.Organizations.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	org := &entity.Organization{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Address:   req.Address,
		CreatedAt: existing.CreatedAt,
	}
	if err := ValidateOrganization(org); err != nil {
		return nil, err
	}
	if err := s.store.Organizations.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// Delete 删除组织，仍有客户或保修工单引用时返回 ErrReferenced
func (s *OrganizationService) Delete(ctx context.Context, id string) error {
	return s.store.Organizations.Delete(ctx, id)
}
