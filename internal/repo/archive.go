package repo

import (
	"context"
	"reflect"
	"sort"

	"gorm.io/gorm"

	"rentkojo-api/internal/domain"
)

type tabler interface{ TableName() string }

// Archive 后台软删/恢复/清理；公开 API 只做物理删除
type Archive struct {
	db     *gorm.DB
	models map[string]reflect.Type
}

func NewArchive(db *gorm.DB) *Archive {
	a := &Archive{db: db, models: map[string]reflect.Type{}}
	for _, m := range domain.All() {
		if t, ok := m.(tabler); ok {
			a.models[t.TableName()] = reflect.TypeOf(m).Elem()
		}
	}
	return a
}

func (a *Archive) Tables() []string {
	out := make([]string, 0, len(a.models))
	for k := range a.models {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Entity 表名对应的实体名（与缓存 key、错误信息一致），未知表返回空串
func (a *Archive) Entity(table string) string {
	if t, ok := a.models[table]; ok {
		return t.Name()
	}
	return ""
}

func (a *Archive) model(table string) (any, error) {
	t, ok := a.models[table]
	if !ok {
		return nil, domain.NotFound("Table", table)
	}
	return reflect.New(t).Interface(), nil
}

// SoftDelete 设置 deleted_at；已删除或不存在返回 NotFound
func (a *Archive) SoftDelete(ctx context.Context, table, id string) error {
	m, err := a.model(table)
	if err != nil {
		return err
	}
	res := a.db.WithContext(ctx).Where("id = ?", id).Delete(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(table, id)
	}
	return nil
}

func (a *Archive) Restore(ctx context.Context, table, id string) error {
	m, err := a.model(table)
	if err != nil {
		return err
	}
	res := a.db.WithContext(ctx).Unscoped().Model(m).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(table, id)
	}
	return nil
}

// Purge 物理删除某表所有已软删的行
func (a *Archive) Purge(ctx context.Context, table string) (int64, error) {
	m, err := a.model(table)
	if err != nil {
		return 0, err
	}
	res := a.db.WithContext(ctx).Unscoped().Where("deleted_at IS NOT NULL").Delete(m)
	return res.RowsAffected, res.Error
}
