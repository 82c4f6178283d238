package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"rentkojo-api/internal/domain"
	"rentkojo-api/internal/service"
	"rentkojo-api/internal/transport/http/ez"
)

type storeIn struct {
	Name           string `json:"name"           binding:"required,max=50"`
	Location       string `json:"location"       binding:"required,max=255"`
	ImageBannerURL string `json:"imageBannerUrl" binding:"required,max=255"`
}

func (in storeIn) ToModel() *domain.Store {
	return &domain.Store{Name: in.Name, Location: in.Location, ImageBannerURL: in.ImageBannerURL}
}

type branchIn struct {
	StoreID *string `json:"storeId" binding:"omitempty,max=20"`
	Name    string  `json:"name"    binding:"required,max=128"`
	Address string  `json:"address" binding:"required,max=255"`
}

func (in branchIn) ToModel() *domain.Branch {
	return &domain.Branch{StoreID: in.StoreID, Name: in.Name, Address: in.Address}
}

// amount 接受数字或字符串（"12.50"）；日期可写 YYYY-MM-DD，时段可写 HH:MM
type productIn struct {
	StoreID               *string         `json:"storeId"               binding:"omitempty,max=20"`
	Name                  string          `json:"name"                  binding:"required,max=128"`
	Amount                decimal.Decimal `json:"amount"`
	Description           string          `json:"description"           binding:"required,max=255"`
	LongDescription       string          `json:"longDescription"`
	DurationOfRentage     int             `json:"durationOfRentage"     binding:"gte=0"`
	Condition             string          `json:"condition"             binding:"required,max=255"`
	AvailabilityStartDate *flexTime       `json:"availabilityStartDate"`
	AvailabilityEndDate   *flexTime       `json:"availabilityEndDate"`
	AvailabilityStartTime *flexTime       `json:"availabilityStartTime"`
	AvailabilityEndTime   *flexTime       `json:"availabilityEndTime"`
}

func (in productIn) ToModel() *domain.Product {
	return &domain.Product{
		StoreID:               in.StoreID,
		Name:                  in.Name,
		Amount:                in.Amount,
		Description:           in.Description,
		LongDescription:       in.LongDescription,
		DurationOfRentage:     in.DurationOfRentage,
		Condition:             in.Condition,
		AvailabilityStartDate: in.AvailabilityStartDate.ptr(),
		AvailabilityEndDate:   in.AvailabilityEndDate.ptr(),
		AvailabilityStartTime: in.AvailabilityStartTime.ptr(),
		AvailabilityEndTime:   in.AvailabilityEndTime.ptr(),
	}
}

type productImageIn struct {
	ProductID   *string `json:"productId"   binding:"omitempty,max=20"`
	ProductName string  `json:"productName" binding:"required,max=255"`
	ImageURL    string  `json:"imageUrl"    binding:"required,max=255"`
}

func (in productImageIn) ToModel() *domain.ProductImage {
	return &domain.ProductImage{ProductID: in.ProductID, ProductName: in.ProductName, ImageURL: in.ImageURL}
}

// Stores 店铺 / 分店 / 商品 / 商品图片
type Stores struct {
	svc    *service.Services
	paging ez.Paging
}

func NewStores(svc *service.Services, paging ez.Paging) *Stores {
	return &Stores{svc: svc, paging: paging}
}

func (h *Stores) Priority() int { return 20 }

func (h *Stores) MountAPI(api *gin.RouterGroup) {
	ez.Crud(ez.CrudConfig[domain.Store, *domain.Store, storeIn]{
		Group: api, Path: "/stores", Entity: "Store", Service: h.svc.Stores, Paging: h.paging,
	})
	ez.Crud(ez.CrudConfig[domain.Branch, *domain.Branch, branchIn]{
		Group: api, Path: "/branches", Entity: "Branch", Service: h.svc.Branches, Paging: h.paging,
	})
	ez.Crud(ez.CrudConfig[domain.Product, *domain.Product, productIn]{
		Group: api, Path: "/products", Entity: "Product", Service: h.svc.Products, Paging: h.paging,
	})
	ez.Crud(ez.CrudConfig[domain.ProductImage, *domain.ProductImage, productImageIn]{
		Group: api, Path: "/product-images", Entity: "ProductImage", Service: h.svc.ProductImages, Paging: h.paging,
	})
}
