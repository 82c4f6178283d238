package service

import (
	"context"
	"time"

	"rentkojo-api/internal/core/cache"
	"rentkojo-api/internal/domain"
	"rentkojo-api/pkg/utils"
)

// Repository 单实体数据访问契约（repo.Gorm 实现）
type Repository[T any] interface {
	Create(ctx context.Context, m *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	FindByName(ctx context.Context, name string) (*T, error)
	List(ctx context.Context, page, pageSize int) ([]T, int64, error)
	Update(ctx context.Context, m *T) error
	Delete(ctx context.Context, id string) error
}

type Exister interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type parentRef[T any] struct {
	entity string
	ref    func(*T) *string
}

type settings[T any] struct {
	keyOf   func(*T) string
	keyName string
	prepare []func(*T) error
	checks  []func(context.Context, *T) error
	merge   func(existing, in *T)
	cache   *cache.Cache
	ttl     time.Duration
	// 缓存里内嵌本记录的父实体，写本记录时一并失效
	parents []parentRef[T]
	// 级联删除或内嵌本记录的实体，更新/删除时按前缀失效
	dependents []string
}

type Option[T any] func(*settings[T])

// WithUniqueKey 创建/更新前按该值调用 FindByName 做唯一性检查
func WithUniqueKey[T any](fn func(*T) string) Option[T] {
	return func(s *settings[T]) { s.keyOf = fn }
}

// WithUniqueField 同 WithUniqueKey，冲突信息带上字段名
func WithUniqueField[T any](field string, fn func(*T) string) Option[T] {
	return func(s *settings[T]) { s.keyOf, s.keyName = fn, field }
}

// WithPrepare 写入前的规范化（slug、密码哈希等），创建与更新都会执行
func WithPrepare[T any](fn func(*T) error) Option[T] {
	return func(s *settings[T]) { s.prepare = append(s.prepare, fn) }
}

// WithCheck 业务校验（父记录存在性等）
func WithCheck[T any](fn func(context.Context, *T) error) Option[T] {
	return func(s *settings[T]) { s.checks = append(s.checks, fn) }
}

// WithMerge 更新时从旧记录带过来不允许客户端覆盖的字段
func WithMerge[T any](fn func(existing, in *T)) Option[T] {
	return func(s *settings[T]) { s.merge = fn }
}

func WithCache[T any](c *cache.Cache, ttl time.Duration) Option[T] {
	return func(s *settings[T]) { s.cache, s.ttl = c, ttl }
}

// WithParentCache 父记录缓存里预加载了本实体（Store.Branches 等）
func WithParentCache[T any](entity string, ref func(*T) *string) Option[T] {
	return func(s *settings[T]) { s.parents = append(s.parents, parentRef[T]{entity, ref}) }
}

// WithDependents 本实体更新或删除后，这些实体的缓存整体失效
func WithDependents[T any](entities ...string) Option[T] {
	return func(s *settings[T]) { s.dependents = append(s.dependents, entities...) }
}

// CRUD 通用用例：唯一性检查 → 仓储
type CRUD[T any, P domain.Record[T]] struct {
	repo   Repository[T]
	entity string
	settings[T]
}

func NewCRUD[T any, P domain.Record[T]](repo Repository[T], entity string, opts ...Option[T]) *CRUD[T, P] {
	s := &CRUD[T, P]{repo: repo, entity: entity}
	for _, fn := range opts {
		fn(&s.settings)
	}
	return s
}

func (s *CRUD[T, P]) Entity() string { return s.entity }

func (s *CRUD[T, P]) Create(ctx context.Context, m *T) (*T, error) {
	b := P(m).Base()
	if b.ID == "" {
		b.ID = utils.NewID()
	}
	if err := s.validate(ctx, m); err != nil {
		return nil, err
	}
	// 唯一约束兜底并发创建：repo 把冲突映射成 ConflictError
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.invalidateParents(ctx, m)
	return m, nil
}

func (s *CRUD[T, P]) GetAll(ctx context.Context, page, pageSize int) ([]T, int64, error) {
	return s.repo.List(ctx, page, pageSize)
}

func (s *CRUD[T, P]) GetByID(ctx context.Context, id string) (*T, error) {
	if s.cache == nil {
		return s.repo.FindByID(ctx, id)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, s.cache.Key(s.entity, id), s.ttl, func(ctx context.Context) (*T, error) {
		return s.repo.FindByID(ctx, id)
	})
}

func (s *CRUD[T, P]) Update(ctx context.Context, m *T) (*T, error) {
	existing, err := s.beforeUpdate(ctx, m)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, existing, m)
	return m, nil
}

func (s *CRUD[T, P]) Delete(ctx context.Context, id string) error {
	var existing *T
	if s.cache != nil && len(s.parents) > 0 {
		// 删除后就拿不到外键了，先读出来
		existing, _ = s.repo.FindByID(ctx, id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	if existing != nil {
		s.invalidateParents(ctx, existing)
	}
	s.invalidateDependents(ctx)
	return nil
}

// beforeUpdate 不存在先报 NotFound，再合并、规范化、校验；返回旧记录
func (s *CRUD[T, P]) beforeUpdate(ctx context.Context, m *T) (*T, error) {
	existing, err := s.repo.FindByID(ctx, P(m).Base().ID)
	if err != nil {
		return nil, err
	}
	if s.merge != nil {
		s.merge(existing, m)
	}
	return existing, s.validate(ctx, m)
}

// afterWrite 更新成功后：自身、新旧父记录、依赖实体
func (s *CRUD[T, P]) afterWrite(ctx context.Context, existing, m *T) {
	s.invalidate(ctx, P(m).Base().ID)
	s.invalidateParents(ctx, existing, m)
	s.invalidateDependents(ctx)
}

func (s *CRUD[T, P]) validate(ctx context.Context, m *T) error {
	for _, fn := range s.prepare {
		if err := fn(m); err != nil {
			return err
		}
	}
	for _, fn := range s.checks {
		if err := fn(ctx, m); err != nil {
			return err
		}
	}
	if s.keyOf == nil {
		return nil
	}
	found, err := s.repo.FindByName(ctx, s.keyOf(m))
	if err != nil {
		return err
	}
	if found != nil && P(found).Base().ID != P(m).Base().ID {
		if s.keyName != "" {
			return domain.ConflictOn(s.entity, s.keyName)
		}
		return domain.Conflict(s.entity)
	}
	return nil
}

func (s *CRUD[T, P]) invalidate(ctx context.Context, ids ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.cache.Key(s.entity, id))
	}
	s.cache.Invalidate(ctx, keys...)
}

func (s *CRUD[T, P]) invalidateParents(ctx context.Context, rows ...*T) {
	if s.cache == nil {
		return
	}
	var keys []string
	for _, p := range s.parents {
		for _, m := range rows {
			if m == nil {
				continue
			}
			if id := p.ref(m); id != nil && *id != "" {
				keys = append(keys, s.cache.Key(p.entity, *id))
			}
		}
	}
	s.cache.Invalidate(ctx, keys...)
}

func (s *CRUD[T, P]) invalidateDependents(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateEntity(ctx, s.dependents...)
}

// Parent 可选外键校验：引用非空时父记录必须存在且未软删
func Parent[T any](entity string, parents Exister, ref func(*T) *string) func(context.Context, *T) error {
	return func(ctx context.Context, m *T) error {
		id := ref(m)
		if id == nil || *id == "" {
			return nil
		}
		ok, err := parents.Exists(ctx, *id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound(entity, *id)
		}
		return nil
	}
}
