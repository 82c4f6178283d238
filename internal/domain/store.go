package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Store struct {
	Model
	Name           string   `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Slug           string   `gorm:"uniqueIndex;size:128;not null" json:"slug"`
	Location       string   `gorm:"size:255;not null" json:"location"`
	ImageBannerURL string   `gorm:"column:image_banner_url;size:255;not null" json:"imageBannerUrl"`
	Branches       []Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"branches,omitempty"`
}

func (Store) TableName() string { return "stores" }

type Branch struct {
	Model
	StoreID *string `gorm:"size:20;index" json:"storeId"`
	Name    string  `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Address string  `gorm:"size:255;not null" json:"address"`
}

func (Branch) TableName() string { return "branches" }

// Product 可出租商品；金额用 decimal 避免浮点误差
type Product struct {
	Model
	StoreID               *string         `gorm:"size:20;index" json:"storeId"`
	Name                  string          `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Amount                decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	Description           string          `gorm:"size:255;not null" json:"description"`
	LongDescription       string          `gorm:"type:text;not null" json:"longDescription"`
	DurationOfRentage     int             `gorm:"not null;default:0" json:"durationOfRentage"`
	Condition             string          `gorm:"size:255;not null" json:"condition"`
	AvailabilityStartDate *time.Time      `json:"availabilityStartDate"`
	AvailabilityEndDate   *time.Time      `json:"availabilityEndDate"`
	AvailabilityStartTime *time.Time      `json:"availabilityStartTime"`
	AvailabilityEndTime   *time.Time      `json:"availabilityEndTime"`

	Store  *Store         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"store,omitempty"`
	Images []ProductImage `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"images,omitempty"`
}

func (Product) TableName() string { return "products" }

type ProductImage struct {
	Model
	ProductID   *string `gorm:"size:20;index" json:"productId"`
	ProductName string  `gorm:"size:255;not null" json:"productName"`
	ImageURL    string  `gorm:"column:image_url;uniqueIndex;size:255;not null" json:"imageUrl"`
}

func (ProductImage) TableName() string { return "product_images" }
