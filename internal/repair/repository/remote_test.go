package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"github.com/bitfantasy/repairtrack/internal/repair/repository"
	"github.com/bitfantasy/repairtrack/internal/repair/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRemoteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupRemoteStore(t)
	assert.Equal(t, repository.BackendRemote, store.Backend())

	org := testutil.SeedOrganization(t, store, "Acme")
	customer := testutil.SeedCustomer(t, store, org.ID, "Jane Doe")
	ticket := testutil.SeedTicket(t, store, customer.ID, entity.DeviceCamera, "CAM-001", "2024-02-01")

	got, err := store.Tickets.Get(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, got.CustomerID)
	assert.Equal(t, entity.DeviceCamera, got.DeviceType)
	assert.Equal(t, "CAM-001", got.SerialNumber)
	assert.Equal(t, "2024-02-01", got.ReceiveDate)
	assert.Equal(t, entity.RepairStatusReceived, got.Status)
	assert.WithinDuration(t, ticket.CreatedAt, got.CreatedAt, time.Millisecond)

	updated := *got
	updated.DeviceCondition = "lens cracked"
	require.NoError(t, store.Tickets.Update(ctx, &updated))

	again, err := store.Tickets.Get(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "lens cracked", again.DeviceCondition)
	assert.Equal(t, got.SerialNumber, again.SerialNumber)
	assert.Equal(t, got.ReceiveDate, again.ReceiveDate)
	assert.WithinDuration(t, ticket.CreatedAt, again.CreatedAt, time.Millisecond)
}

func TestRemoteStore_WarrantyCost(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupRemoteStore(t)

	org := testutil.SeedOrganization(t, store, "Service Center")
	warranty := testutil.SeedWarranty(t, store, org.ID, entity.DeviceSourcePower, "PSU-9", "2024-04-01")

	priced := *warranty
	priced.Cost = decimal.NewNullDecimal(decimal.RequireFromString("150.50"))
	priced.Status = entity.WarrantyStatusDone
	require.NoError(t, store.Warranties.Update(ctx, &priced))

	got, err := store.Warranties.Get(ctx, warranty.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WarrantyStatusDone, got.Status)
	assert.True(t, got.Cost.Valid)
	assert.True(t, got.Cost.Decimal.Equal(decimal.RequireFromString("150.5")), "cost %s", got.Cost.Decimal)

	fresh, err := store.Warranties.Get(ctx, testutil.SeedWarranty(t, store, org.ID, entity.DeviceMic, "", "2024-04-02").ID)
	require.NoError(t, err)
	assert.False(t, fresh.Cost.Valid)
}

func TestRemoteStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupRemoteStore(t)

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		org := &entity.Organization{ID: name, Name: name, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, store.Organizations.Add(ctx, org))
	}

	orgs := store.Organizations.List(ctx)
	require.Len(t, orgs, 3)
	assert.Equal(t, "third", orgs[0].ID)
	assert.Equal(t, "first", orgs[2].ID)
}

func TestRemoteStore_MissingRecord(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupRemoteStore(t)

	err := store.Organizations.Update(ctx, &entity.Organization{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, store.Organizations.Delete(ctx, "missing"), repository.ErrNotFound)

	_, err = store.Customers.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRemoteStore_ReadFailureDegradesToEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repository.NewRemoteStore(db, zap.NewNop())
	org := testutil.SeedOrganization(t, store, "Acme")

	require.NoError(t, db.Exec("DROP TABLE warranties").Error)
	assert.Empty(t, store.Warranties.List(context.Background()))
	assert.Len(t, store.Organizations.List(context.Background()), 1)

	// lookups surface the failure instead of reporting a missing record
	_, err := store.Warranties.Get(context.Background(), org.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestRemoteStore_CamelCaseColumns(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE organizations (id TEXT PRIMARY KEY, name TEXT, address TEXT, "createdAt" TEXT)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE customers (id TEXT PRIMARY KEY, "fullName" TEXT, "organizationId" TEXT, phone TEXT, address TEXT, "createdAt" TEXT)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO organizations (id, name, address, "createdAt") VALUES
		('old', 'Old Co', '1 Main St', '2023-05-01T08:00:00Z'),
		('new', 'New Co', '', '2024-05-01T08:00:00Z')`).Error)
	require.NoError(t, db.Exec(`INSERT INTO customers (id, "fullName", "organizationId", phone, address, "createdAt") VALUES
		('c1', 'Jane Doe', 'old', '081-111', '', '2024-01-01 10:00:00')`).Error)

	store := repository.NewRemoteStore(db, zap.NewNop())

	orgs := store.Organizations.List(ctx)
	require.Len(t, orgs, 2)
	assert.Equal(t, "new", orgs[0].ID)
	assert.Equal(t, "old", orgs[1].ID)
	assert.Equal(t, "1 Main St", orgs[1].Address)
	assert.True(t, orgs[1].CreatedAt.Equal(time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC)))

	got, err := store.Customers.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.FullName)
	assert.Equal(t, "old", got.OrganizationID)
	assert.Equal(t, 2024, got.CreatedAt.Year())
}
