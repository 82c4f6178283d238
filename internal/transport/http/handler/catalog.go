package handler

import (
	"github.com/gin-gonic/gin"

	"rentkojo-api/internal/domain"
	"rentkojo-api/internal/service"
	"rentkojo-api/internal/transport/http/ez"
)

type categoryIn struct {
	Name        string `json:"name"        binding:"required,max=128"`
	Description string `json:"description" binding:"required"`
}

func (in categoryIn) ToModel() *domain.Category {
	return &domain.Category{Name: in.Name, Description: in.Description}
}

type subCategoryIn struct {
	CategoryID  *string `json:"categoryId"  binding:"omitempty,max=20"`
	Name        string  `json:"name"        binding:"required,max=128"`
	Description string  `json:"description"`
}

func (in subCategoryIn) ToModel() *domain.SubCategory {
	return &domain.SubCategory{CategoryID: in.CategoryID, Name: in.Name, Description: in.Description}
}

type tagIn struct {
	Name string `json:"name" binding:"required,max=50"`
}

func (in tagIn) ToModel() *domain.Tag { return &domain.Tag{Name: in.Name} }

// Catalog 分类 / 子分类 / 标签
type Catalog struct {
	svc    *service.Services
	paging ez.Paging
}

func NewCatalog(svc *service.Services, paging ez.Paging) *Catalog {
	return &Catalog{svc: svc, paging: paging}
}

func (h *Catalog) Priority() int { return 10 }

func (h *Catalog) MountAPI(api *gin.RouterGroup) {
	ez.Crud(ez.CrudConfig[domain.Category, *domain.Category, categoryIn]{
		Group: api, Path: "/categories", Entity: "Category", Service: h.svc.Categories, Paging: h.paging,
	})
	ez.Crud(ez.CrudConfig[domain.SubCategory, *domain.SubCategory, subCategoryIn]{
		Group: api, Path: "/sub-categories", Entity: "SubCategory", Service: h.svc.SubCategories, Paging: h.paging,
	})
	ez.Crud(ez.CrudConfig[domain.Tag, *domain.Tag, tagIn]{
		Group: api, Path: "/tags", Entity: "Tag", Service: h.svc.Tags, Paging: h.paging,
	})
}
