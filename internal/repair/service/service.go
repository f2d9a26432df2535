package service

import (
	"github.com/bitfantasy/repairtrack/internal/config"
	"github.com/bitfantasy/repairtrack/internal/repair/repository"
	"go.uber.org/zap"
)

// Services 服务集合
type Services struct {
	Organization *OrganizationService
	Customer     *CustomerService
	Ticket       *TicketService
	Warranty     *WarrantyService
	Dashboard    *DashboardService
	Device       *DeviceService
	Tracking     *TrackingService
	Export       *ExportService
	Session      *SessionService
}

// NewServices 创建服务集合；kv 保存会话，archiver 可为 nil
func NewServices(store *repository.Store, kv repository.KV, archiver Archiver, cfg *config.Config, logger *zap.Logger) *Services {
	tracking := NewTrackingService(cfg.Tracking.Delay)

	return &Services{
		Organization: NewOrganizationService(store),
		Customer:     NewCustomerService(store),
		Ticket:       NewTicketService(store, logger),
		Warranty:     NewWarrantyService(store, tracking),
		Dashboard:    NewDashboardService(store),
		Device:       NewDeviceService(store),
		Tracking:     tracking,
		Export:       NewExportService(store, archiver, logger),
		Session:      NewSessionService(kv, cfg.Local.Namespace, cfg, store.Backend(), logger),
	}
}
