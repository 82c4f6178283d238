package domain

type Category struct {
	Model
	Name          string        `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Slug          string        `gorm:"uniqueIndex;size:128;not null" json:"slug"`
	Description   string        `gorm:"type:text;not null" json:"description"`
	SubCategories []SubCategory `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"subCategories,omitempty"`
}

func (Category) TableName() string { return "categories" }

type SubCategory struct {
	Model
	CategoryID  *string `gorm:"size:20;index" json:"categoryId"`
	Name        string  `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Slug        string  `gorm:"uniqueIndex;size:128;not null" json:"slug"`
	Description string  `gorm:"type:text" json:"description"`
}

func (SubCategory) TableName() string { return "sub_categories" }

type Tag struct {
	Model
	Name string `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;size:50;not null" json:"slug"`
}

func (Tag) TableName() string { return "tags" }
