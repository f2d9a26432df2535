package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"github.com/bitfantasy/repairtrack/internal/repair/repository"
)

// 设备故障占比等级
const (
	LevelCritical = "critical"
	LevelWarning  = "warning"
	LevelSafe     = "safe"
)

var levelRecommendations = map[string]string{
	LevelCritical: "Failure share is high. Review this device line with the vendor and keep spare units on hand.",
	LevelWarning:  "Failure share is rising. Watch new tickets for recurring faults.",
	LevelSafe:     "Failure share is within the normal range.",
}

// TrendMonths 趋势图保留的月份数
const TrendMonths = 6

// StatusCount 单个状态的数量
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusHistogram 状态分布，Counts 按流程顺序且包含数量为 0 的状态
type StatusHistogram struct {
	Total      int           `json:"total"`
	Counts     []StatusCount `json:"counts"`
	Completed  int           `json:"completed"`
	Completion float64       `json:"completion"`
}

// DeviceTypeStat 设备类型故障占比
type DeviceTypeStat struct {
	DeviceType     string  `json:"device_type"`
	Count          int     `json:"count"`
	Percentage     float64 `json:"percentage"`
	Level          string  `json:"level"`
	Recommendation string  `json:"recommendation"`
}

// TrendPoint 月度接收量
type TrendPoint struct {
	Label string `json:"label"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Count int    `json:"count"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func histogram(statuses []string, order []string, completed map[string]bool) StatusHistogram {
	counts := make(map[string]int, len(order))
	for _, s := range statuses {
		counts[s]++
	}

	h := StatusHistogram{Total: len(statuses), Counts: make([]StatusCount, 0, len(order))}
	for _, s := range order {
		h.Counts = append(h.Counts, StatusCount{Status: s, Count: counts[s]})
		if completed[s] {
			h.Completed += counts[s]
		}
	}
	if h.Total > 0 {
		h.Completion = round1(float64(h.Completed) / float64(h.Total) * 100)
	}
	return h
}

// RepairStatusHistogram 维修工单状态分布，Returned 计为完成
func RepairStatusHistogram(tickets []entity.RepairTicket) StatusHistogram {
	statuses := make([]string, len(tickets))
	for i, t := range tickets {
		statuses[i] = t.Status
	}
	return histogram(statuses, entity.RepairStatuses, map[string]bool{entity.RepairStatusReturned: true})
}

// WarrantyStatusHistogram 保修工单状态分布，Done 与 Cannot-Fix 计为完成
func WarrantyStatusHistogram(warranties []entity.WarrantyTicket) StatusHistogram {
	statuses := make([]string, len(warranties))
	for i, w := range warranties {
		statuses[i] = w.Status
	}
	return histogram(statuses, entity.WarrantyStatuses, map[string]bool{
		entity.WarrantyStatusDone:      true,
		entity.WarrantyStatusCannotFix: true,
	})
}

// DeviceLevel 按占比划分等级
func DeviceLevel(percentage float64) string {
	switch {
	case percentage >= 30:
		return LevelCritical
	case percentage >= 15:
		return LevelWarning
	default:
		return LevelSafe
	}
}

// DeviceTypeStats 按设备类型统计维修工单，按数量倒序，数量相同按类型顺序
func DeviceTypeStats(tickets []entity.RepairTicket) []DeviceTypeStat {
	counts := make(map[string]int)
	for _, t := range tickets {
		counts[t.DeviceType]++
	}

	rank := make(map[string]int, len(entity.DeviceTypes))
	for i, dt := range entity.DeviceTypes {
		rank[dt] = i
	}

	stats := make([]DeviceTypeStat, 0, len(counts))
	total := float64(len(tickets))
	for dt, n := range counts {
		pct := round1(float64(n) / total * 100)
		level := DeviceLevel(pct)
		stats = append(stats, DeviceTypeStat{
			DeviceType:     dt,
			Count:          n,
			Percentage:     pct,
			Level:          level,
			Recommendation: levelRecommendations[level],
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		ri, iok := rank[stats[i].DeviceType]
		rj, jok := rank[stats[j].DeviceType]
		if iok != jok {
			return iok
		}
		if iok && ri != rj {
			return ri < rj
		}
		return stats[i].DeviceType < stats[j].DeviceType
	})
	return stats
}

// MonthlyTrend 按接收月份统计，时间顺序排列后保留最近 months 个月。
// 无法解析的日期忽略。
func MonthlyTrend(tickets []entity.RepairTicket, months int) []TrendPoint {
	type bucket struct{ year, month int }
	counts := make(map[bucket]int)
	for _, t := range tickets {
		d, err := entity.ParseDate(t.ReceiveDate)
		if err != nil {
			continue
		}
		counts[bucket{d.Year(), int(d.Month())}]++
	}

	points := make([]TrendPoint, 0, len(counts))
	for b, n := range counts {
		points = append(points, TrendPoint{
			Label: fmt.Sprintf("%d/%d", b.month, b.year),
			Year:  b.year,
			Month: b.month,
			Count: n,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Month < points[j].Month
	})

	if months > 0 && len(points) > months {
		points = points[len(points)-months:]
	}
	return points
}

// DashboardService 看板服务
type DashboardService struct {
	store *repository.Store
}

func NewDashboardService(store *repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

// DashboardSummary 看板概览
type DashboardSummary struct {
	Backend        string          `json:"backend"`
	Organizations  int             `json:"organizations"`
	Customers      int             `json:"customers"`
	RepairStatus   StatusHistogram `json:"repair_status"`
	WarrantyStatus StatusHistogram `json:"warranty_status"`
	OpenRepairs    int             `json:"open_repairs"`
	OpenWarranties int             `json:"open_warranties"`
}

// GetSummary 获取看板概览
func (s *DashboardService) GetSummary(ctx context.Context) *DashboardSummary {
	repairs := RepairStatusHistogram(s.store.Tickets.List(ctx))
	warranties := WarrantyStatusHistogram(s.store.Warranties.List(ctx))
	return &DashboardSummary{
		Backend:        s.store.Backend(),
		Organizations:  len(s.store.Organizations.List(ctx)),
		Customers:      len(s.store.Customers.List(ctx)),
		RepairStatus:   repairs,
		WarrantyStatus: warranties,
		OpenRepairs:    repairs.Total - repairs.Completed,
		OpenWarranties: warranties.Total - warranties.Completed,
	}
}

// GetDeviceStats 获取设备类型统计
func (s *DashboardService) GetDeviceStats(ctx context.Context) []DeviceTypeStat {
	return DeviceTypeStats(s.store.Tickets.List(ctx))
}

// GetTrend 获取月度趋势
func (s *DashboardService) GetTrend(ctx context.Context) []TrendPoint {
	return MonthlyTrend(s.store.Tickets.List(ctx), TrendMonths)
}
