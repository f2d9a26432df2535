package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bitfantasy/repairtrack/internal/metrics"
	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"go.uber.org/zap"
)

// 错误定义
var (
	ErrNotFound   = errors.New("record not found")
	ErrReferenced = errors.New("record is still referenced")
)

// 存储后端名称
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// Backend 单个集合的存储后端
type Backend[T entity.Record] interface {
	// List 按 created_at 倒序返回全部记录
	List(ctx context.Context) ([]T, error)
	Add(ctx context.Context, item *T) error
	// Update 按 ID 整体替换，记录不存在时返回 ErrNotFound
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
}

// Collection 集合门面：读失败降级为空列表，写失败向上返回
type Collection[T entity.Record] struct {
	name    string
	backend string
	impl    Backend[T]
	logger  *zap.Logger
}

func newCollection[T entity.Record](name, backend string, impl Backend[T], logger *zap.Logger) *Collection[T] {
	return &Collection[T]{name: name, backend: backend, impl: impl, logger: logger}
}

// Name 集合名称
func (c *Collection[T]) Name() string {
	return c.name
}

// List 查询全部记录，读取失败时记录日志并返回空列表
func (c *Collection[T]) List(ctx context.Context) []T {
	items, err := c.impl.List(ctx)
	c.observe("list", err)
	if err != nil {
		c.logger.Warn("failed to load collection",
			zap.String("collection", c.name),
			zap.String("backend", c.backend),
			zap.Error(err))
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Get 根据ID查找记录；读取失败时返回错误，不降级
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	items, err := c.impl.List(ctx)
	c.observe("get", err)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.name, err)
	}
	for _, item := range items {
		if item.GetID() == id {
			found := item
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (c *Collection[T]) Add(ctx context.Context, item *T) error {
	err := c.impl.Add(ctx, item)
	c.observe("add", err)
	return err
}

func (c *Collection[T]) Update(ctx context.Context, item *T) error {
	err := c.impl.Update(ctx, item)
	c.observe("update", err)
	return err
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	err := c.impl.Delete(ctx, id)
	c.observe("delete", err)
	return err
}

// sortNewestFirst 按 created_at 倒序，相同时按 ID
func sortNewestFirst[T entity.Record](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := items[i].GetCreatedAt(), items[j].GetCreatedAt()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return items[i].GetID() < items[j].GetID()
	})
}

func (c *Collection[T]) observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.StoreOperationsTotal.WithLabelValues(c.backend, c.name, op, result).Inc()
}

// Store 实体存储（组织、客户、维修工单、保修工单）
type Store struct {
	Organizations *Collection[entity.Organization]
	Customers     *Collection[entity.Customer]
	Tickets       *Collection[entity.RepairTicket]
	Warranties    *Collection[entity.WarrantyTicket]

	backend string
}

func newStore(
	backend string,
	organizations Backend[entity.Organization],
	customers Backend[entity.Customer],
	tickets Backend[entity.RepairTicket],
	warranties Backend[entity.WarrantyTicket],
	logger *zap.Logger,
) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		Organizations: newCollection(entity.Organization{}.TableName(), backend, organizations, logger),
		Customers:     newCollection(entity.Customer{}.TableName(), backend, customers, logger),
		Tickets:       newCollection(entity.RepairTicket{}.TableName(), backend, tickets, logger),
		Warranties:    newCollection(entity.WarrantyTicket{}.TableName(), backend, warranties, logger),
		backend:       backend,
	}
}

// Backend 当前使用的后端名称（remote / local）
func (s *Store) Backend() string {
	return s.backend
}
