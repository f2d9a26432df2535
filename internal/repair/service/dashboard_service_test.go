package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"github.com/bitfantasy/repairtrack/internal/repair/repository"
	"github.com/bitfantasy/repairtrack/internal/repair/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticketsOf(deviceCounts map[string]int) []entity.RepairTicket {
	var out []entity.RepairTicket
	n := 0
	for device, count := range deviceCounts {
		for i := 0; i < count; i++ {
			n++
			out = append(out, ticket(fmt.Sprintf("t%d", n), "c", device, "", "2024-01-01"))
		}
	}
	return out
}

func TestDeviceTypeStats_SumsToTotal(t *testing.T) {
	cases := []map[string]int{
		{entity.DeviceCodec: 1, entity.DeviceMic: 1, entity.DeviceCamera: 1},
		{entity.DeviceCodec: 7, entity.DeviceMic: 3, entity.DeviceCamera: 2, entity.DeviceControl: 1},
		{entity.DeviceSourcePower: 1},
		{entity.DeviceCodec: 2, entity.DeviceMic: 2, entity.DeviceCamera: 2, entity.DeviceSourcePower: 2, entity.DeviceControl: 2, entity.DeviceOther: 1},
	}

	for i, counts := range cases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			tickets := ticketsOf(counts)
			stats := DeviceTypeStats(tickets)

			total := 0
			pct := 0.0
			for _, s := range stats {
				total += s.Count
				pct += s.Percentage
			}
			assert.Equal(t, len(tickets), total)
			assert.LessOrEqual(t, math.Abs(pct-100), 0.5)
		})
	}
}

func TestDeviceTypeStats_LevelsAndOrder(t *testing.T) {
	// 20 tickets: Codec 8 (40%), Mic 4 (20%), Camera 4 (20%), Other 3 (15%), Control 1 (5%)
	tickets := ticketsOf(map[string]int{
		entity.DeviceCodec:   8,
		entity.DeviceMic:     4,
		entity.DeviceCamera:  4,
		entity.DeviceOther:   3,
		entity.DeviceControl: 1,
	})

	stats := DeviceTypeStats(tickets)
	require.Len(t, stats, 5)

	assert.Equal(t, entity.DeviceCodec, stats[0].DeviceType)
	assert.Equal(t, 40.0, stats[0].Percentage)
	assert.Equal(t, LevelCritical, stats[0].Level)

	// equal counts keep device type order
	assert.Equal(t, entity.DeviceMic, stats[1].DeviceType)
	assert.Equal(t, entity.DeviceCamera, stats[2].DeviceType)
	assert.Equal(t, LevelWarning, stats[1].Level)

	assert.Equal(t, entity.DeviceOther, stats[3].DeviceType)
	assert.Equal(t, LevelWarning, stats[3].Level)
	assert.Equal(t, LevelSafe, stats[4].Level)

	for _, s := range stats {
		assert.NotEmpty(t, s.Recommendation)
	}
}

func TestDeviceTypeStats_RoundsToOneDecimal(t *testing.T) {
	stats := DeviceTypeStats(ticketsOf(map[string]int{entity.DeviceCodec: 1, entity.DeviceMic: 2}))
	require.Len(t, stats, 2)
	assert.Equal(t, 66.7, stats[0].Percentage)
	assert.Equal(t, 33.3, stats[1].Percentage)
	assert.Empty(t, DeviceTypeStats(nil))
}

func TestDeviceLevel(t *testing.T) {
	assert.Equal(t, LevelCritical, DeviceLevel(30))
	assert.Equal(t, LevelWarning, DeviceLevel(29.9))
	assert.Equal(t, LevelWarning, DeviceLevel(15))
	assert.Equal(t, LevelSafe, DeviceLevel(14.9))
}

func TestStatusHistograms(t *testing.T) {
	tickets := []entity.RepairTicket{
		{Status: entity.RepairStatusReceived},
		{Status: entity.RepairStatusReturned},
		{Status: entity.RepairStatusReturned},
		{Status: entity.RepairStatusReturned},
	}
	h := RepairStatusHistogram(tickets)
	assert.Equal(t, 4, h.Total)
	assert.Equal(t, []StatusCount{
		{Status: entity.RepairStatusReceived, Count: 1},
		{Status: entity.RepairStatusProcessing, Count: 0},
		{Status: entity.RepairStatusReturned, Count: 3},
	}, h.Counts)
	assert.Equal(t, 3, h.Completed)
	assert.Equal(t, 75.0, h.Completion)

	w := WarrantyStatusHistogram([]entity.WarrantyTicket{
		{Status: entity.WarrantyStatusDone},
		{Status: entity.WarrantyStatusCannotFix},
		{Status: entity.WarrantyStatusFixing},
	})
	assert.Len(t, w.Counts, 4)
	assert.Equal(t, 2, w.Completed)
	assert.Equal(t, 66.7, w.Completion)

	empty := RepairStatusHistogram(nil)
	assert.Len(t, empty.Counts, 3)
	assert.Equal(t, 0.0, empty.Completion)
}

func TestMonthlyTrend_ChronologicalLastSix(t *testing.T) {
	dates := []string{
		"2024-03-10", "2023-11-02", "2024-01-15", "2024-03-01",
		"2023-10-20", "2023-12-24", "2024-02-29", "2023-09-01",
		"not-a-date", "",
	}
	var tickets []entity.RepairTicket
	for i, d := range dates {
		tickets = append(tickets, ticket(fmt.Sprint(i), "c", entity.DeviceMic, "", d))
	}

	trend := MonthlyTrend(tickets, TrendMonths)
	require.Len(t, trend, 6)

	labels := make([]string, len(trend))
	for i, p := range trend {
		labels[i] = p.Label
	}
	assert.Equal(t, []string{"10/2023", "11/2023", "12/2023", "1/2024", "2/2024", "3/2024"}, labels)
	assert.Equal(t, 2, trend[5].Count)
}

func TestDashboardService(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.SetupLocalStore(t)
	org := testutil.SeedOrganization(t, store, "Acme")
	customer := testutil.SeedCustomer(t, store, org.ID, "Jane")
	testutil.SeedTicket(t, store, customer.ID, entity.DeviceMic, "", "2024-01-01")
	testutil.SeedTicket(t, store, customer.ID, entity.DeviceCodec, "", "2024-02-01")
	testutil.SeedWarranty(t, store, org.ID, entity.DeviceMic, "", "2024-02-03")

	svc := NewDashboardService(store)
	summary := svc.GetSummary(ctx)
	assert.Equal(t, repository.BackendLocal, summary.Backend)
	assert.Equal(t, 1, summary.Organizations)
	assert.Equal(t, 1, summary.Customers)
	assert.Equal(t, 2, summary.RepairStatus.Total)
	assert.Equal(t, 2, summary.OpenRepairs)
	assert.Equal(t, 1, summary.OpenWarranties)

	assert.Len(t, svc.GetDeviceStats(ctx), 2)
	assert.Len(t, svc.GetTrend(ctx), 2)
}
