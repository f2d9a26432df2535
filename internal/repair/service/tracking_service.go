package service

import (
	"context"
	"strings"
	"time"

	"github.com/bitfantasy/repairtrack/internal/metrics"
	"github.com/bitfantasy/repairtrack/internal/repair/entity"
)

// trackingBase 模拟物流节点的固定起始时间
var trackingBase = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

const trackingTimeLayout = "2006-01-02 15:04"

// TrackingService 物流查询（模拟实现，结果只由单号决定）
type TrackingService struct {
	delay time.Duration
}

func NewTrackingService(delay time.Duration) *TrackingService {
	return &TrackingService{delay: delay}
}

// IsTrackable 承运商是否支持查询
func (s *TrackingService) IsTrackable(carrier string) bool {
	return entity.IsTrackableCarrier(carrier)
}

// Track 查询物流。单号为空返回 nil；单号长度大于 5 追加运输中节点，
// 包含 "done"（不区分大小写）追加已签收节点。Steps 按时间倒序。
func (s *TrackingService) Track(ctx context.Context, carrier, code string) (*entity.ShipmentInfo, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			metrics.TrackingLookupsTotal.WithLabelValues(carrier, "canceled").Inc()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	steps := []entity.ShipmentStep{{
		Status:      entity.ShipmentStatusReceived,
		Description: "Parcel received by " + carrier,
		Location:    "Origin sorting center",
		Timestamp:   trackingBase.Format(trackingTimeLayout),
	}}
	if len(code) > 5 {
		steps = append(steps, entity.ShipmentStep{
			Status:      entity.ShipmentStatusInTransit,
			Description: "Parcel in transit",
			Location:    "Regional hub",
			Timestamp:   trackingBase.Add(26 * time.Hour).Format(trackingTimeLayout),
		})
	}
	if strings.Contains(strings.ToLower(code), "done") {
		steps = append(steps, entity.ShipmentStep{
			Status:      entity.ShipmentStatusDelivered,
			Description: "Parcel delivered",
			Location:    "Destination",
			Timestamp:   trackingBase.Add(50 * time.Hour).Format(trackingTimeLayout),
		})
	}

	latest := steps[len(steps)-1]
	info := &entity.ShipmentInfo{
		Carrier:        carrier,
		TrackingNumber: code,
		CurrentStatus:  latest.Status,
		LastUpdate:     latest.Timestamp,
		Steps:          make([]entity.ShipmentStep, 0, len(steps)),
	}
	for i := len(steps) - 1; i >= 0; i-- {
		info.Steps = append(info.Steps, steps[i])
	}

	metrics.TrackingLookupsTotal.WithLabelValues(carrier, "ok").Inc()
	return info, nil
}
