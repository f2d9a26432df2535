package repository_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bitfantasy/repairtrack/internal/repair/repository"
	"github.com/bitfantasy/repairtrack/internal/repair/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisKV(t *testing.T) (*repository.RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return repository.NewRedisKV(client), mr
}

func TestRedisKV_GetSetDel(t *testing.T) {
	ctx := context.Background()
	kv, mr := newRedisKV(t)

	_, err := kv.Get(ctx, "absent")
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "k", []byte("v")))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	assert.True(t, mr.Exists("k"))

	require.NoError(t, kv.Del(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()

	value := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestLocalStore_OnRedisSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	kv, mr := newRedisKV(t)

	store := repository.NewLocalStore(kv, "shop", zap.NewNop())
	org := testutil.SeedOrganization(t, store, "Acme")
	testutil.SeedCustomer(t, store, org.ID, "Jane Doe")

	assert.True(t, mr.Exists("shop:organizations"))
	assert.True(t, mr.Exists("shop:customers"))

	restarted := repository.NewLocalStore(kv, "shop", zap.NewNop())
	customers := restarted.Customers.List(ctx)
	require.Len(t, customers, 1)
	assert.Equal(t, "Jane Doe", customers[0].FullName)
	assert.Equal(t, org.ID, customers[0].OrganizationID)
}
