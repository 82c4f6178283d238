package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rentkojo-api/internal/core/cache"
	"rentkojo-api/internal/domain"
	"rentkojo-api/internal/repo"
	"rentkojo-api/internal/transport/http/ez"
	resp "rentkojo-api/internal/transport/http/response"
)

// Admin 后台：用户检索、封禁（软删）、恢复、清理归档
type Admin struct {
	db      *gorm.DB
	archive *repo.Archive
	cache   *cache.Cache // 可为 nil
}

func NewAdmin(db *gorm.DB, c *cache.Cache) *Admin {
	return &Admin{db: db, archive: repo.NewArchive(db), cache: c}
}

func (h *Admin) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin)

	// --- GET /admin/v1/users  用户列表 ---
	type listQ struct {
		Offset      int    `form:"offset,default=0"  binding:"gte=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`           // 按 email/username 模糊搜
		WithDeleted bool   `form:"withDeleted"` // 是否包含软删
	}
	type row struct {
		ID        string     `json:"id"`
		Username  string     `json:"username"`
		Email     string     `json:"email"`
		Verified  bool       `json:"verified"`
		CreatedAt time.Time  `json:"createdAt"`
		DeletedAt *time.Time `json:"deletedAt"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}

	ez.RegisterAction(e, h.db, ez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, tx *gorm.DB, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			q := tx.Model(&domain.User{})
			if in.WithDeleted {
				q = q.Unscoped()
			}
			if s := strings.TrimSpace(in.Q); s != "" {
				like := "%" + s + "%"
				q = q.Where("email LIKE ? OR username LIKE ?", like, like)
			}

			var total int64
			if err := q.Count(&total).Error; err != nil {
				return listOut{}, ez.Internal("count users failed", err)
			}

			var us []domain.User
			if err := q.Order("created_at DESC").Limit(in.Limit).Offset(in.Offset).Find(&us).Error; err != nil {
				return listOut{}, ez.Internal("list users failed", err)
			}

			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				r := row{ID: u.ID, Username: u.Username, Email: u.Email, Verified: u.Verified, CreatedAt: u.CreatedAt}
				if u.DeletedAt.Valid {
					t := u.DeletedAt.Time
					r.DeletedAt = &t
				}
				out.Items = append(out.Items, r)
			}
			return out, nil
		},
	})

	// --- POST /admin/v1/users/:id/ban  封禁（软删） ---
	ez.RegisterAction(e, nil, ez.Action[struct{}, gin.H]{
		Method:  http.MethodPost,
		Path:    "/users/:id/ban",
		Binder:  ez.BindNone,
		Message: resp.MsgDone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.archive.SoftDelete(c.Request.Context(), "users", id); err != nil {
				return nil, adminErr(err)
			}
			h.invalidate(c, "users", id)
			return gin.H{"id": id}, nil
		},
	})

	// --- POST /admin/v1/:table/:id/restore ---
	ez.RegisterAction(e, nil, ez.Action[struct{}, gin.H]{
		Method:  http.MethodPost,
		Path:    "/:table/:id/restore",
		Binder:  ez.BindNone,
		Message: resp.MsgDone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			table, id := c.Param("table"), c.Param("id")
			if err := h.archive.Restore(c.Request.Context(), table, id); err != nil {
				return nil, adminErr(err)
			}
			// 恢复的行可能被父记录预加载，整体清掉
			h.clearCache(c)
			return gin.H{"table": table, "id": id}, nil
		},
	})

	// --- DELETE /admin/v1/:table/archived  清理已软删的行 ---
	ez.RegisterAction(e, nil, ez.Action[struct{}, gin.H]{
		Method:  http.MethodDelete,
		Path:    "/:table/archived",
		Binder:  ez.BindNone,
		Message: resp.MsgDone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			table := c.Param("table")
			n, err := h.archive.Purge(c.Request.Context(), table)
			if err != nil {
				return nil, adminErr(err)
			}
			// 物理删除会级联子表
			h.clearCache(c)
			return gin.H{"table": table, "purged": n}, nil
		},
	})

	// --- GET /admin/v1/tables ---
	ez.RegisterAction(e, nil, ez.Action[struct{}, []string]{
		Method: http.MethodGet,
		Path:   "/tables",
		Binder: ez.BindNone,
		Handler: func(*gin.Context, *gorm.DB, *struct{}) ([]string, error) {
			return h.archive.Tables(), nil
		},
	})
}

func (h *Admin) invalidate(c *gin.Context, table, id string) {
	if h.cache == nil {
		return
	}
	h.cache.Invalidate(c.Request.Context(), h.cache.Key(h.archive.Entity(table), id))
}

func (h *Admin) clearCache(c *gin.Context) {
	if h.cache != nil {
		h.cache.Clear(c.Request.Context())
	}
}

// 后台接口用真实状态码
func adminErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ez.NotFound(err.Error())
	}
	return ez.Internal("archive operation failed", err)
}
