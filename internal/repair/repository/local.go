package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"go.uber.org/zap"
)

// NewLocalStore 创建本地降级存储，每个集合以 JSON 数组保存在 <namespace>:<collection>
func NewLocalStore(kv KV, namespace string, logger *zap.Logger) *Store {
	// 所有集合共用一把写锁，引用检查与写入之间不会插入其他写操作
	writeMu := &sync.Mutex{}
	organizations := newLocalBackend[entity.Organization](kv, writeMu, namespace, entity.Organization{}.TableName(), organizationColumns)
	customers := newLocalBackend[entity.Customer](kv, writeMu, namespace, entity.Customer{}.TableName(), customerColumns)
	tickets := newLocalBackend[entity.RepairTicket](kv, writeMu, namespace, entity.RepairTicket{}.TableName(), ticketColumns)
	warranties := newLocalBackend[entity.WarrantyTicket](kv, writeMu, namespace, entity.WarrantyTicket{}.TableName(), warrantyColumns)

	// 与数据库外键保持一致：被引用的组织、客户不可删除
	organizations.deleteGuard = func(ctx context.Context, id string) error {
		list, err := customers.List(ctx)
		if err != nil {
			return err
		}
		for _, c := range list {
			if c.OrganizationID == id {
				return fmt.Errorf("%w: organization %s has customers", ErrReferenced, id)
			}
		}
		wl, err := warranties.List(ctx)
		if err != nil {
			return err
		}
		for _, w := range wl {
			if w.OrganizationID == id {
				return fmt.Errorf("%w: organization %s has warranty tickets", ErrReferenced, id)
			}
		}
		return nil
	}
	customers.deleteGuard = func(ctx context.Context, id string) error {
		list, err := tickets.List(ctx)
		if err != nil {
			return err
		}
		for _, t := range list {
			if t.CustomerID == id {
				return fmt.Errorf("%w: customer %s has repair tickets", ErrReferenced, id)
			}
		}
		return nil
	}

	// 写入时校验被引用记录存在，与数据库外键一致
	customers.refGuard = func(ctx context.Context, c entity.Customer) error {
		return requireRecord(ctx, organizations, "organization", c.OrganizationID)
	}
	tickets.refGuard = func(ctx context.Context, t entity.RepairTicket) error {
		return requireRecord(ctx, customers, "customer", t.CustomerID)
	}
	warranties.refGuard = func(ctx context.Context, w entity.WarrantyTicket) error {
		return requireRecord(ctx, organizations, "organization", w.OrganizationID)
	}

	return newStore(BackendLocal, organizations, customers, tickets, warranties, logger)
}

func requireRecord[P entity.Record](ctx context.Context, parents *localBackend[P], kind, id string) error {
	list, err := parents.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range list {
		if p.GetID() == id {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s does not exist", ErrReferenced, kind, id)
}

// StoreKey 集合在 KV 中的键
func StoreKey(namespace, collection string) string {
	return namespace + ":" + collection
}

type localBackend[T entity.Record] struct {
	writeMu *sync.Mutex
	mu      sync.RWMutex
	kv      KV
	key     string
	columns []fieldKeys
	items   map[string]T

	deleteGuard func(ctx context.Context, id string) error
	refGuard    func(ctx context.Context, item T) error
}

func newLocalBackend[T entity.Record](kv KV, writeMu *sync.Mutex, namespace, collection string, columns []fieldKeys) *localBackend[T] {
	return &localBackend[T]{
		writeMu: writeMu,
		kv:      kv,
		key:     StoreKey(namespace, collection),
		columns: columns,
	}
}

// load 首次访问时从 KV 加载，调用方需持有写锁
func (l *localBackend[T]) load(ctx context.Context) error {
	if l.items != nil {
		return nil
	}

	data, err := l.kv.Get(ctx, l.key)
	if errors.Is(err, ErrKeyNotFound) {
		l.items = make(map[string]T)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", l.key, err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("parse %s: %w", l.key, err)
	}
	items := make(map[string]T, len(rows))
	for _, row := range rows {
		item, err := decodeRecord[T](row, l.columns)
		if err != nil {
			return fmt.Errorf("decode %s: %w", l.key, err)
		}
		items[item.GetID()] = item
	}
	l.items = items
	return nil
}

// sorted 按 created_at 倒序，调用方需持有锁
func (l *localBackend[T]) sorted() []T {
	out := make([]T, 0, len(l.items))
	for _, item := range l.items {
		out = append(out, item)
	}
	sortNewestFirst(out)
	return out
}

func (l *localBackend[T]) persist(ctx context.Context) error {
	data, err := json.Marshal(l.sorted())
	if err != nil {
		return fmt.Errorf("encode %s: %w", l.key, err)
	}
	if err := l.kv.Set(ctx, l.key, data); err != nil {
		return fmt.Errorf("write %s: %w", l.key, err)
	}
	return nil
}

func (l *localBackend[T]) List(ctx context.Context) ([]T, error) {
	l.mu.RLock()
	if l.items != nil {
		out := l.sorted()
		l.mu.RUnlock()
		return out, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	return l.sorted(), nil
}

func (l *localBackend[T]) Add(ctx context.Context, item *T) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	if l.refGuard != nil {
		if err := l.refGuard(ctx, *item); err != nil {
			return err
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(ctx); err != nil {
		return err
	}

	id := (*item).GetID()
	if _, exists := l.items[id]; exists {
		return fmt.Errorf("duplicate id %s in %s", id, l.key)
	}
	l.items[id] = *item
	if err := l.persist(ctx); err != nil {
		delete(l.items, id)
		return err
	}
	return nil
}

func (l *localBackend[T]) Update(ctx context.Context, item *T) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	if l.refGuard != nil {
		if err := l.refGuard(ctx, *item); err != nil {
			return err
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(ctx); err != nil {
		return err
	}

	id := (*item).GetID()
	prev, exists := l.items[id]
	if !exists {
		return ErrNotFound
	}
	l.items[id] = *item
	if err := l.persist(ctx); err != nil {
		l.items[id] = prev
		return err
	}
	return nil
}

func (l *localBackend[T]) Delete(ctx context.Context, id string) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	// 引用检查只读其他集合，不获取本集合锁
	if l.deleteGuard != nil {
		if err := l.deleteGuard(ctx, id); err != nil {
			return err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(ctx); err != nil {
		return err
	}

	prev, exists := l.items[id]
	if !exists {
		return ErrNotFound
	}
	delete(l.items, id)
	if err := l.persist(ctx); err != nil {
		l.items[id] = prev
		return err
	}
	return nil
}
