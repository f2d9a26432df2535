package service

import (
	"context"
	"testing"
	"time"

	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"github.com/bitfantasy/repairtrack/internal/repair/repository"
	"github.com/bitfantasy/repairtrack/internal/repair/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_Fallbacks(t *testing.T) {
	dir := NewDirectory(
		[]entity.Customer{
			{ID: "c1", FullName: "Jane", OrganizationID: "o1"},
			{ID: "c2", FullName: "Orphan", OrganizationID: "gone"},
		},
		[]entity.Organization{{ID: "o1", Name: "Acme"}},
	)

	assert.Equal(t, "Jane", dir.CustomerName("c1"))
	assert.Equal(t, UnknownCustomer, dir.CustomerName("nope"))
	assert.Equal(t, "Acme", dir.CustomerOrganization("c1", ""))
	assert.Equal(t, "", dir.CustomerOrganization("c2", ""))
	assert.Equal(t, UnknownOrganization, dir.CustomerOrganization("nope", UnknownOrganization))
	assert.Equal(t, "Acme", dir.OrganizationName("o1", ""))
}

func TestOrganizationService_CRUD(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.SetupLocalStore(t)
	svc := NewOrganizationService(store)

	_, err := svc.Create(ctx, &SaveOrganizationRequest{Name: " "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	org, err := svc.Create(ctx, &SaveOrganizationRequest{Name: "Acme", Address: "1 Main St"})
	require.NoError(t, err)

	svc.now = func() time.Time { return org.CreatedAt.Add(time.Hour) }
	updated, err := svc.Update(ctx, org.ID, &SaveOrganizationRequest{Name: "Acme Ltd"})
	require.NoError(t, err)
	assert.Equal(t, org.CreatedAt, updated.CreatedAt)

	testutil.SeedCustomer(t, store, org.ID, "Jane")
	rows := svc.List(ctx, "ltd")
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme Ltd", rows[0].Name)
	assert.Equal(t, 1, rows[0].CustomerCount)
	assert.Empty(t, svc.List(ctx, "zzz"))

	assert.ErrorIs(t, svc.Delete(ctx, org.ID), repository.ErrReferenced)
	_, err = svc.Update(ctx, "missing", &SaveOrganizationRequest{Name: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCustomerService_CRUD(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.SetupLocalStore(t)
	org := testutil.SeedOrganization(t, store, "Acme")
	other := testutil.SeedOrganization(t, store, "Beta")
	svc := NewCustomerService(store)

	_, err := svc.Create(ctx, &SaveCustomerRequest{FullName: "Jane", OrganizationID: "missing"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "organization_id", verr.Field)

	jane, err := svc.Create(ctx, &SaveCustomerRequest{FullName: "Jane Doe", OrganizationID: org.ID, Phone: "081-111"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &SaveCustomerRequest{FullName: "John Roe", OrganizationID: other.ID})
	require.NoError(t, err)

	rows := svc.List(ctx, CustomerFilter{OrganizationID: org.ID})
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme", rows[0].OrganizationName)

	rows = svc.List(ctx, CustomerFilter{Search: "081"})
	require.Len(t, rows, 1)
	assert.Equal(t, jane.ID, rows[0].ID)

	moved, err := svc.Update(ctx, jane.ID, &SaveCustomerRequest{FullName: "Jane Doe", OrganizationID: other.ID})
	require.NoError(t, err)
	assert.Equal(t, jane.CreatedAt, moved.CreatedAt)
	assert.Equal(t, other.ID, moved.OrganizationID)

	testutil.SeedTicket(t, store, jane.ID, entity.DeviceMic, "", "2024-01-01")
	assert.ErrorIs(t, svc.Delete(ctx, jane.ID), repository.ErrReferenced)
}

func TestWarrantyService_SaveAndTrack(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.SetupLocalStore(t)
	org := testutil.SeedOrganization(t, store, "Service Co")
	svc := NewWarrantyService(store, NewTrackingService(0))

	w, err := svc.Create(ctx, &SaveWarrantyRequest{
		OrganizationID: org.ID,
		DeviceType:     entity.DeviceCamera,
		SentDate:       "2024-04-01",
		ShippingMethod: entity.CarrierKerry,
		TrackingNumber: "KEX123done",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.WarrantyStatusSent, w.Status)

	result, err := svc.Track(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, result.Trackable)
	require.NotNil(t, result.Shipment)
	assert.Equal(t, entity.ShipmentStatusDelivered, result.Shipment.CurrentStatus)

	req := &SaveWarrantyRequest{
		OrganizationID: org.ID,
		DeviceType:     entity.DeviceCamera,
		SentDate:       "2024-04-01",
		Status:         entity.WarrantyStatusCannotFix,
		ShippingMethod: entity.CarrierMessenger,
	}
	updated, err := svc.Update(ctx, w.ID, req)
	require.NoError(t, err)
	assert.Equal(t, w.CreatedAt, updated.CreatedAt)

	result, err = svc.Track(ctx, w.ID)
	require.NoError(t, err)
	assert.False(t, result.Trackable)
	assert.Nil(t, result.Shipment)

	rows, total := svc.List(ctx, WarrantyFilter{Status: entity.WarrantyStatusCannotFix}, 1, 20)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Service Co", rows[0].OrganizationName)

	_, err = svc.Create(ctx, &SaveWarrantyRequest{OrganizationID: "missing", DeviceType: entity.DeviceMic, SentDate: "2024-04-01"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, svc.Delete(ctx, w.ID))
	_, err = svc.Track(ctx, w.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
