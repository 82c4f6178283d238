package ez

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentkojo-api/internal/domain"
	resp "rentkojo-api/internal/transport/http/response"
	"rentkojo-api/pkg/utils"
)

// Service 控制器依赖的用例契约（service.CRUD 实现）
type Service[T any] interface {
	Create(ctx context.Context, m *T) (*T, error)
	GetAll(ctx context.Context, page, pageSize int) ([]T, int64, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, m *T) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Input 请求 DTO：带 binding 校验 tag，转换成实体
type Input[T any] interface {
	ToModel() *T
}

type Paging struct {
	DefaultSize int
	MaxSize     int
}

func (p Paging) parse(c *gin.Context) (page, size int) {
	def := p.DefaultSize
	if def <= 0 {
		def = 10
	}
	page = utils.AtoiDefault(c.Query("page"), 1)
	size = utils.AtoiDefault(c.Query("pageSize"), def)
	if p.MaxSize > 0 && size > p.MaxSize {
		size = p.MaxSize
	}
	return page, size
}

type CrudConfig[T any, P domain.Record[T], In Input[T]] struct {
	Group   *gin.RouterGroup
	Path    string // 例："/categories"
	Entity  string // 提示语中的实体名
	Service Service[T]
	Paging  Paging

	AllowCreate bool
	AllowList   bool
	AllowGet    bool
	AllowUpdate bool
	AllowDelete bool
}

// Crud 注册 POST/GET 列表、GET/PUT/DELETE 单条
func Crud[T any, P domain.Record[T], In Input[T]](cfg CrudConfig[T, P, In]) {
	SetupValidator()
	// 默认放开所有操作
	if !cfg.AllowCreate && !cfg.AllowGet && !cfg.AllowList && !cfg.AllowUpdate && !cfg.AllowDelete {
		cfg.AllowCreate, cfg.AllowList, cfg.AllowGet, cfg.AllowUpdate, cfg.AllowDelete = true, true, true, true, true
	}
	svc := cfg.Service

	// Create
	if cfg.AllowCreate {
		cfg.Group.POST(cfg.Path, func(c *gin.Context) {
			var in In
			if err := c.ShouldBindJSON(&in); err != nil {
				Fail(c, err)
				return
			}
			m, err := svc.Create(c.Request.Context(), in.ToModel())
			if err != nil {
				Fail(c, err)
				return
			}
			c.JSON(http.StatusCreated, resp.OK(m, resp.Created(cfg.Entity)))
		})
	}

	// List
	if cfg.AllowList {
		cfg.Group.GET(cfg.Path, func(c *gin.Context) {
			page, size := cfg.Paging.parse(c)
			items, total, err := svc.GetAll(c.Request.Context(), page, size)
			if err != nil {
				Fail(c, err)
				return
			}
			c.JSON(http.StatusOK, resp.Paged(items, page, utils.TotalPages(total, size)))
		})
	}

	// Get
	if cfg.AllowGet {
		cfg.Group.GET(cfg.Path+"/:id", func(c *gin.Context) {
			m, err := svc.GetByID(c.Request.Context(), c.Param("id"))
			if err != nil {
				Fail(c, err)
				return
			}
			c.JSON(http.StatusOK, resp.OK(m, resp.MsgSuccess))
		})
	}

	// Update：整条覆盖，ID 以路径为准
	if cfg.AllowUpdate {
		cfg.Group.PUT(cfg.Path+"/:id", func(c *gin.Context) {
			var in In
			if err := c.ShouldBindJSON(&in); err != nil {
				Fail(c, err)
				return
			}
			m := in.ToModel()
			P(m).Base().ID = c.Param("id")
			out, err := svc.Update(c.Request.Context(), m)
			if err != nil {
				Fail(c, err)
				return
			}
			c.JSON(http.StatusOK, resp.OK(out, resp.Updated(cfg.Entity)))
		})
	}

	// Delete：204 无响应体
	if cfg.AllowDelete {
		cfg.Group.DELETE(cfg.Path+"/:id", func(c *gin.Context) {
			if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
				Fail(c, err)
				return
			}
			c.Status(http.StatusNoContent)
		})
	}
}
