package service

import (
	"context"
	"sort"
	"strings"

	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"github.com/bitfantasy/repairtrack/internal/repair/repository"
)

// RepairHistory 设备维修历史：有序列号时按序列号匹配（跨客户），
// 否则匹配同一客户的同类设备。结果按接收日期倒序。
func RepairHistory(source entity.RepairTicket, all []entity.RepairTicket) []entity.RepairTicket {
	serial := strings.TrimSpace(source.SerialNumber)
	out := make([]entity.RepairTicket, 0)
	for _, t := range all {
		if serial != "" {
			if strings.TrimSpace(t.SerialNumber) == serial {
				out = append(out, t)
			}
			continue
		}
		if t.CustomerID == source.CustomerID && t.DeviceType == source.DeviceType {
			out = append(out, t)
		}
	}
	sortTicketsByReceiveDate(out)
	return out
}

// WarrantyHistory 同 RepairHistory，以组织代替客户
func WarrantyHistory(source entity.WarrantyTicket, all []entity.WarrantyTicket) []entity.WarrantyTicket {
	serial := strings.TrimSpace(source.SerialNumber)
	out := make([]entity.WarrantyTicket, 0)
	for _, w := range all {
		if serial != "" {
			if strings.TrimSpace(w.SerialNumber) == serial {
				out = append(out, w)
			}
			continue
		}
		if w.OrganizationID == source.OrganizationID && w.DeviceType == source.DeviceType {
			out = append(out, w)
		}
	}
	sortWarrantiesBySentDate(out)
	return out
}

// DeviceHistoryResult 单个序列号的维修与保修记录
type DeviceHistoryResult struct {
	SerialNumber string                  `json:"serial_number"`
	Tickets      []entity.RepairTicket   `json:"tickets"`
	Warranties   []entity.WarrantyTicket `json:"warranties"`
}

// DeviceHistory 按序列号汇总两类工单，序列号为空时返回空结果
func DeviceHistory(serial string, tickets []entity.RepairTicket, warranties []entity.WarrantyTicket) DeviceHistoryResult {
	serial = strings.TrimSpace(serial)
	result := DeviceHistoryResult{
		SerialNumber: serial,
		Tickets:      []entity.RepairTicket{},
		Warranties:   []entity.WarrantyTicket{},
	}
	if serial == "" {
		return result
	}
	result.Tickets = RepairHistory(entity.RepairTicket{SerialNumber: serial}, tickets)
	result.Warranties = WarrantyHistory(entity.WarrantyTicket{SerialNumber: serial}, warranties)
	return result
}

func sortTicketsByReceiveDate(tickets []entity.RepairTicket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		if tickets[i].ReceiveDate != tickets[j].ReceiveDate {
			return tickets[i].ReceiveDate > tickets[j].ReceiveDate
		}
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
}

func sortWarrantiesBySentDate(warranties []entity.WarrantyTicket) {
	sort.SliceStable(warranties, func(i, j int) bool {
		if warranties[i].SentDate != warranties[j].SentDate {
			return warranties[i].SentDate > warranties[j].SentDate
		}
		return warranties[i].CreatedAt.After(warranties[j].CreatedAt)
	})
}

// DeviceService 按设备序列号查询
type DeviceService struct {
	store *repository.Store
}

func NewDeviceService(store *repository.Store) *DeviceService {
	return &DeviceService{store: store}
}

// DeviceHistoryView 设备历史（附客户、组织名称）
type DeviceHistoryView struct {
	SerialNumber string        `json:"serial_number"`
	Tickets      []TicketRow   `json:"tickets"`
	Warranties   []WarrantyRow `json:"warranties"`
}

// History 查询序列号对应的全部维修与保修记录
func (s *DeviceService) History(ctx context.Context, serial string) *DeviceHistoryView {
	customers := s.store.Customers.List(ctx)
	dir := NewDirectory(customers, s.store.Organizations.List(ctx))

	result := DeviceHistory(serial, s.store.Tickets.List(ctx), s.store.Warranties.List(ctx))
	return &DeviceHistoryView{
		SerialNumber: result.SerialNumber,
		Tickets:      ticketRows(result.Tickets, dir),
		Warranties:   warrantyRows(result.Warranties, dir),
	}
}
