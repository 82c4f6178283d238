package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rentkojo-api/internal/core/database"
	"rentkojo-api/internal/domain"
	"rentkojo-api/pkg/utils"
)

// Gorm 通用仓储：每个实体一个实例，按构造参数区分唯一列与预加载
type Gorm[T any, P domain.Record[T]] struct {
	db         *gorm.DB
	entity     string   // 错误信息中的实体名，如 "Category"
	nameColumn string   // FindByName 使用的列；为空则 FindByName 恒返回 nil
	preload    []string // FindByID 时预加载的关联
}

type Option func(*options)

type options struct {
	preload []string
}

func WithPreload(assoc ...string) Option {
	return func(o *options) { o.preload = append(o.preload, assoc...) }
}

func NewGorm[T any, P domain.Record[T]](db *gorm.DB, entity, nameColumn string, opts ...Option) *Gorm[T, P] {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return &Gorm[T, P]{db: db, entity: entity, nameColumn: nameColumn, preload: o.preload}
}

func (r *Gorm[T, P]) Entity() string { return r.entity }

func (r *Gorm[T, P]) DB() *gorm.DB { return r.db }

func (r *Gorm[T, P]) Create(ctx context.Context, m *T) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
	return r.translate(err)
}

func (r *Gorm[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	q := r.db.WithContext(ctx)
	for _, p := range r.preload {
		q = q.Preload(p)
	}
	var m T
	err := q.First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound(r.entity, id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByName 仅用于唯一性检查：查不到返回 (nil, nil)
func (r *Gorm[T, P]) FindByName(ctx context.Context, name string) (*T, error) {
	if r.nameColumn == "" {
		return nil, nil
	}
	return r.findOne(ctx, r.nameColumn, name)
}

func (r *Gorm[T, P]) findOne(ctx context.Context, column, value string) (*T, error) {
	var m T
	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List page/pageSize 均为 1-based 正整数
func (r *Gorm[T, P]) List(ctx context.Context, page, pageSize int) ([]T, int64, error) {
	items := make([]T, 0, pageSize)
	tx := r.db.WithContext(ctx).Model(new(T))
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Order("created_at desc").Order("id").
		Offset(utils.Offset(page, pageSize)).Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update 整行覆盖（保留 createdAt），不级联写关联
func (r *Gorm[T, P]) Update(ctx context.Context, m *T) error {
	b := P(m).Base()
	var existing T
	err := r.db.WithContext(ctx).Select("id", "created_at").First(&existing, "id = ?", b.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(r.entity, b.ID)
	}
	if err != nil {
		return err
	}
	b.CreatedAt = P(&existing).Base().CreatedAt
	b.DeletedAt = gorm.DeletedAt{}
	err = r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error
	return r.translate(err)
}

// Delete 物理删除（绕过软删），子表由外键 CASCADE 处理
func (r *Gorm[T, P]) Delete(ctx context.Context, id string) error {
	var existing T
	err := r.db.WithContext(ctx).Select("id").First(&existing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(r.entity, id)
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Unscoped().Delete(P(&existing)).Error
}

// Exists 父记录校验；软删记录视为不存在
func (r *Gorm[T, P]) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *Gorm[T, P]) translate(err error) error {
	if err == nil {
		return nil
	}
	if database.IsDupKey(err) {
		return &domain.ConflictError{Entity: r.entity}
	}
	return err
}
