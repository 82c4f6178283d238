package domain

import (
	"time"

	"gorm.io/gorm"
)

// Model 所有实体共用的主键与时间戳（软删由 gorm.DeletedAt 驱动）
type Model struct {
	ID        string         `gorm:"primaryKey;size:20" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Model) Base() *Model { return m }

// Entity 任何嵌入 Model 的结构体指针都满足
type Entity interface {
	Base() *Model
}

// Record 泛型约束：*T 且实现 Entity
type Record[T any] interface {
	*T
	Entity
}

// All 自动迁移顺序（父表在前）
func All() []any {
	return []any{
		&Role{}, &User{}, &UserDoc{}, &Review{},
		&Category{}, &SubCategory{}, &Tag{},
		&Store{}, &Branch{}, &Product{}, &ProductImage{},
	}
}
