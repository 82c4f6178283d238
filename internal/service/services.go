package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rentkojo-api/internal/core/cache"
	"rentkojo-api/internal/domain"
	"rentkojo-api/internal/repo"
	"rentkojo-api/pkg/utils"
)

var ErrInvalid = errors.New("invalid input")

type (
	Roles         = CRUD[domain.Role, *domain.Role]
	Categories    = CRUD[domain.Category, *domain.Category]
	SubCategories = CRUD[domain.SubCategory, *domain.SubCategory]
	Tags          = CRUD[domain.Tag, *domain.Tag]
	Stores        = CRUD[domain.Store, *domain.Store]
	Branches      = CRUD[domain.Branch, *domain.Branch]
	Products      = CRUD[domain.Product, *domain.Product]
	ProductImages = CRUD[domain.ProductImage, *domain.ProductImage]
	Reviews       = CRUD[domain.Review, *domain.Review]
)

// Services 所有用例的集合，供 handler 注入
type Services struct {
	Users         *UserService
	UserDocs      *UserDocService
	Roles         *Roles
	Categories    *Categories
	SubCategories *SubCategories
	Tags          *Tags
	Stores        *Stores
	Branches      *Branches
	Products      *Products
	ProductImages *ProductImages
	Reviews       *Reviews
}

// New c 为 nil 时不启用缓存
func New(db *gorm.DB, c *cache.Cache, ttl time.Duration) *Services {
	users := repo.NewUserRepo(db)
	roles := repo.NewGorm[domain.Role](db, "Role", "name")
	categories := repo.NewGorm[domain.Category](db, "Category", "name", repo.WithPreload("SubCategories"))
	stores := repo.NewGorm[domain.Store](db, "Store", "name", repo.WithPreload("Branches"))
	products := repo.NewGorm[domain.Product](db, "Product", "name", repo.WithPreload("Store", "Images"))

	s := &Services{}
	s.Users = NewUserService(users,
		WithCache[domain.User](c, ttl),
		WithDependents[domain.User]("UserDoc", "Review"),
	)
	s.UserDocs = NewUserDocService(repo.NewUserDocRepo(db), s.Users, WithCache[domain.UserDoc](c, ttl))
	s.Roles = NewCRUD[domain.Role](roles, "Role",
		WithUniqueKey(func(r *domain.Role) string { return r.Name }),
		WithPrepare(func(r *domain.Role) error { return slugInto(&r.Slug, r.Name) }),
		WithCache[domain.Role](c, ttl),
		WithDependents[domain.Role]("User"),
	)
	s.Categories = NewCRUD[domain.Category](categories, "Category",
		WithUniqueKey(func(m *domain.Category) string { return m.Name }),
		WithPrepare(func(m *domain.Category) error { return slugInto(&m.Slug, m.Name) }),
		WithCache[domain.Category](c, ttl),
		WithDependents[domain.Category]("SubCategory"),
	)
	s.SubCategories = NewCRUD[domain.SubCategory](repo.NewGorm[domain.SubCategory](db, "SubCategory", "name"), "SubCategory",
		WithUniqueKey(func(m *domain.SubCategory) string { return m.Name }),
		WithPrepare(func(m *domain.SubCategory) error { return slugInto(&m.Slug, m.Name) }),
		WithCheck(Parent("Category", categories, func(m *domain.SubCategory) *string { return m.CategoryID })),
		WithCache[domain.SubCategory](c, ttl),
		WithParentCache("Category", func(m *domain.SubCategory) *string { return m.CategoryID }),
	)
	s.Tags = NewCRUD[domain.Tag](repo.NewGorm[domain.Tag](db, "Tag", "name"), "Tag",
		WithUniqueKey(func(m *domain.Tag) string { return m.Name }),
		WithPrepare(func(m *domain.Tag) error { return slugInto(&m.Slug, m.Name) }),
		WithCache[domain.Tag](c, ttl),
	)
	s.Stores = NewCRUD[domain.Store](stores, "Store",
		WithUniqueKey(func(m *domain.Store) string { return m.Name }),
		WithPrepare(func(m *domain.Store) error { return slugInto(&m.Slug, m.Name) }),
		WithCache[domain.Store](c, ttl),
		WithDependents[domain.Store]("Branch", "Product", "ProductImage"),
	)
	s.Branches = NewCRUD[domain.Branch](repo.NewGorm[domain.Branch](db, "Branch", "name"), "Branch",
		WithUniqueKey(func(m *domain.Branch) string { return m.Name }),
		WithCheck(Parent("Store", stores, func(m *domain.Branch) *string { return m.StoreID })),
		WithCache[domain.Branch](c, ttl),
		WithParentCache("Store", func(m *domain.Branch) *string { return m.StoreID }),
	)
	s.Products = NewCRUD[domain.Product](products, "Product",
		WithUniqueKey(func(m *domain.Product) string { return m.Name }),
		WithCheck(Parent("Store", stores, func(m *domain.Product) *string { return m.StoreID })),
		WithCheck(checkProduct),
		WithCache[domain.Product](c, ttl),
		WithDependents[domain.Product]("ProductImage"),
	)
	s.ProductImages = NewCRUD[domain.ProductImage](repo.NewGorm[domain.ProductImage](db, "ProductImage", "image_url"), "ProductImage",
		WithUniqueField("imageUrl", func(m *domain.ProductImage) string { return m.ImageURL }),
		WithCheck(Parent("Product", products, func(m *domain.ProductImage) *string { return m.ProductID })),
		WithCache[domain.ProductImage](c, ttl),
		WithParentCache("Product", func(m *domain.ProductImage) *string { return m.ProductID }),
	)
	s.Reviews = NewCRUD[domain.Review](repo.NewGorm[domain.Review](db, "Review", ""), "Review",
		WithCheck(Parent("User", users, func(m *domain.Review) *string { return m.UserID })),
		WithCheck(checkReview),
		WithCache[domain.Review](c, ttl),
	)
	return s
}

// slugInto 名称必须能生成非空 slug
func slugInto(dst *string, name string) error {
	s := utils.Slugify(name)
	if s == "" {
		return fmt.Errorf("%w: name must contain letters or digits", ErrInvalid)
	}
	*dst = s
	return nil
}

func checkProduct(_ context.Context, p *domain.Product) error {
	if p.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalid)
	}
	if p.AvailabilityStartDate != nil && p.AvailabilityEndDate != nil &&
		p.AvailabilityEndDate.Before(*p.AvailabilityStartDate) {
		return fmt.Errorf("%w: availability end date is before start date", ErrInvalid)
	}
	return nil
}

func checkReview(_ context.Context, r *domain.Review) error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalid)
	}
	return nil
}
