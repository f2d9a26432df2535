package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bitfantasy/repairtrack/internal/repair/entity"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewRemoteStore 创建基于数据库的远程存储
func NewRemoteStore(db *gorm.DB, logger *zap.Logger) *Store {
	return newStore(BackendRemote,
		newRemoteBackend[entity.Organization](db, entity.Organization{}.TableName(), organizationColumns),
		newRemoteBackend[entity.Customer](db, entity.Customer{}.TableName(), customerColumns),
		newRemoteBackend[entity.RepairTicket](db, entity.RepairTicket{}.TableName(), ticketColumns),
		newRemoteBackend[entity.WarrantyTicket](db, entity.WarrantyTicket{}.TableName(), warrantyColumns),
		logger,
	)
}

type remoteBackend[T entity.Record] struct {
	db      *gorm.DB
	table   string
	columns []fieldKeys
}

func newRemoteBackend[T entity.Record](db *gorm.DB, table string, columns []fieldKeys) *remoteBackend[T] {
	return &remoteBackend[T]{db: db, table: table, columns: columns}
}

// List 以 map 读取行，再经列映射表解码，兼容新旧两套列名。
// 排序在解码后进行，SQL 中不引用任何具体列名
func (r *remoteBackend[T]) List(ctx context.Context) ([]T, error) {
	var rows []map[string]interface{}
	err := r.db.WithContext(ctx).
		Table(r.table).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table, err)
	}

	items := make([]T, 0, len(rows))
	for _, row := range rows {
		item, err := decodeRecord[T](row, r.columns)
		if err != nil {
			return nil, fmt.Errorf("decode %s row: %w", r.table, err)
		}
		items = append(items, item)
	}
	sortNewestFirst(items)
	return items, nil
}

func (r *remoteBackend[T]) Add(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *remoteBackend[T]) Update(ctx context.Context, item *T) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(item)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *remoteBackend[T]) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// translateError 外键冲突统一转换为 ErrReferenced
func translateError(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) || isForeignKeyMessage(err.Error()) {
		return fmt.Errorf("%w: %v", ErrReferenced, err)
	}
	return err
}

func isForeignKeyMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "foreign key constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint")
}
