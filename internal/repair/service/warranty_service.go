package service

import (
	"context"
	"strings"
	"time"

	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"github.com/bitfantasy/repairtrack/internal/repair/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarrantyService 保修工单服务
type WarrantyService struct {
	store    *repository.Store
	tracking *TrackingService
	now      func() time.Time
}

func NewWarrantyService(store *repository.Store, tracking *TrackingService) *WarrantyService {
	return &WarrantyService{store: store, tracking: tracking, now: time.Now}
}

// SaveWarrantyRequest 创建/更新保修工单请求，更新时整体替换
type SaveWarrantyRequest struct {
	OrganizationID   string              `json:"organization_id"`
	DeviceType       string              `json:"device_type"`
	SerialNumber     string              `json:"serial_number"`
	FaultDescription string              `json:"fault_description"`
	SentDate         string              `json:"sent_date"`
	Status           string              `json:"status"`
	ReturnDate       string              `json:"return_date"`
	Cost             decimal.NullDecimal `json:"cost"`
	Note             string              `json:"note"`
	ShippingMethod   string              `json:"shipping_method"`
	TrackingNumber   string              `json:"tracking_number"`
}

func (r *SaveWarrantyRequest) toWarranty() *entity.WarrantyTicket {
	w := &entity.WarrantyTicket{
		OrganizationID:   r.OrganizationID,
		DeviceType:       r.DeviceType,
		SerialNumber:     strings.TrimSpace(r.SerialNumber),
		FaultDescription: r.FaultDescription,
		SentDate:         strings.TrimSpace(r.SentDate),
		Status:           r.Status,
		ReturnDate:       strings.TrimSpace(r.ReturnDate),
		Cost:             r.Cost,
		Note:             r.Note,
		ShippingMethod:   r.ShippingMethod,
		TrackingNumber:   strings.TrimSpace(r.TrackingNumber),
	}
	if w.Status == "" {
		w.Status = entity.WarrantyStatusSent
	}
	return w
}

// WarrantyRow 保修工单列表行
type WarrantyRow struct {
	entity.WarrantyTicket
	OrganizationName string `json:"organization_name"`
	Trackable        bool   `json:"trackable"`
}

// WarrantyFilter 保修工单筛选条件
type WarrantyFilter struct {
	Status         string
	DeviceType     string
	OrganizationID string
	Search         string
}

func (f WarrantyFilter) match(w entity.WarrantyTicket, orgName string) bool {
	if f.Status != "" && w.Status != f.Status {
		return false
	}
	if f.DeviceType != "" && w.DeviceType != f.DeviceType {
		return false
	}
	if f.OrganizationID != "" && w.OrganizationID != f.OrganizationID {
		return false
	}
	if f.Search != "" &&
		!containsFold(orgName, f.Search) &&
		!containsFold(w.SerialNumber, f.Search) &&
		!containsFold(w.TrackingNumber, f.Search) {
		return false
	}
	return true
}

func warrantyRows(warranties []entity.WarrantyTicket, dir *Directory) []WarrantyRow {
	rows := make([]WarrantyRow, 0, len(warranties))
	for _, w := range warranties {
		rows = append(rows, WarrantyRow{
			WarrantyTicket:   w,
			OrganizationName: dir.OrganizationName(w.OrganizationID, ""),
			Trackable:        entity.IsTrackableCarrier(w.ShippingMethod) && w.TrackingNumber != "",
		})
	}
	return rows
}

func (s *WarrantyService) directory(ctx context.Context) *Directory {
	return NewDirectory(nil, s.store.Organizations.List(ctx))
}

// List 获取保修工单列表（分页）
func (s *WarrantyService) List(ctx context.Context, filter WarrantyFilter, page, pageSize int) ([]WarrantyRow, int) {
	dir := s.directory(ctx)

	matched := make([]entity.WarrantyTicket, 0)
	for _, w := range s.store.Warranties.List(ctx) {
		if filter.match(w, dir.OrganizationName(w.OrganizationID, "")) {
			matched = append(matched, w)
		}
	}
	return warrantyRows(paginate(matched, page, pageSize), dir), len(matched)
}

// Get 获取保修工单详情
func (s *WarrantyService) Get(ctx context.Context, id string) (*WarrantyRow, error) {
	w, err := s.store.Warranties.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	row := warrantyRows([]entity.WarrantyTicket{*w}, s.directory(ctx))[0]
	return &row, nil
}

// History 与该工单同一设备的全部保修记录
func (s *WarrantyService) History(ctx context.Context, id string) ([]WarrantyRow, error) {
	all := s.store.Warranties.List(ctx)
	var source *entity.WarrantyTicket
	for i := range all {
		if all[i].ID == id {
			source = &all[i]
			break
		}
	}
	if source == nil {
		return nil, repository.ErrNotFound
	}
	return warrantyRows(WarrantyHistory(*source, all), s.directory(ctx)), nil
}

// TrackingResult 保修工单物流查询结果，Trackable 为 false 时 Shipment 为空
type TrackingResult struct {
	Carrier        string               `json:"carrier"`
	TrackingNumber string               `json:"tracking_number"`
	Trackable      bool                 `json:"trackable"`
	Shipment       *entity.ShipmentInfo `json:"shipment"`
}

// Track 查询保修工单的寄送物流
func (s *WarrantyService) Track(ctx context.Context, id string) (*TrackingResult, error) {
	w, err := s.store.Warranties.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &TrackingResult{
		Carrier:        w.ShippingMethod,
		TrackingNumber: w.TrackingNumber,
		Trackable:      s.tracking.IsTrackable(w.ShippingMethod),
	}
	if !result.Trackable {
		return result, nil
	}
	result.Shipment, err = s.tracking.Track(ctx, w.ShippingMethod, w.TrackingNumber)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *WarrantyService) validate(ctx context.Context, w *entity.WarrantyTicket) error {
	if err := ValidateWarrantyTicket(w); err != nil {
		return err
	}
	return requireOrganization(ctx, s.store, w.OrganizationID)
}

// Create 创建保修工单
func (s *WarrantyService) Create(ctx context.Context, req *SaveWarrantyRequest) (*entity.WarrantyTicket, error) {
	now := s.now()
	w := req.toWarranty()
	w.ID = uuid.New().String()
	w.CreatedAt = now
	w.UpdatedAt = now

	if err := s.validate(ctx, w); err != nil {
		return nil, err
	}
	if err := s.store.Warranties.Add(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Update 更新保修工单，保留原 created_at
func (s *WarrantyService) Update(ctx context.Context, id string, req *SaveWarrantyRequest) (*entity.WarrantyTicket, error) {
	existing, err := s.store.Warranties.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	w := req.toWarranty()
	w.ID = id
	w.CreatedAt = existing.CreatedAt
	w.UpdatedAt = s.now()

	if err := s.validate(ctx, w); err != nil {
		return nil, err
	}
	if err := s.store.Warranties.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Delete 删除保修工单
func (s *WarrantyService) Delete(ctx context.Context, id string) error {
	return s.store.Warranties.Delete(ctx, id)
}
