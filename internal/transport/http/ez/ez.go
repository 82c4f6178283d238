package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	resp "rentkojo-api/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ {
	SetupValidator()
	return EZ{g: g}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/users/:id/ban"
	Binder  Binder
	UseTx   bool   // 是否包事务（gorm.Transaction）
	Status  int    // 成功状态码，默认 200
	Message string // 成功提示，默认 "Success"
	Handler func(c *gin.Context, db *gorm.DB, in *I) (O, error)
}

// RegisterAction 非 CRUD 接口一行注册
func RegisterAction[I any, O any](e EZ, db *gorm.DB, a Action[I, O]) {
	if a.Status == 0 {
		a.Status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default:
		}
		if bindErr != nil {
			Fail(c, bindErr)
			return
		}

		// 2) 执行（可选事务）
		run := func(tx *gorm.DB) (O, error) { return a.Handler(c, tx, &in) }
		var out O
		var err error
		if a.UseTx && db != nil {
			err = db.WithContext(c).Transaction(func(tx *gorm.DB) error {
				o, e := run(tx)
				out = o
				return e
			})
		} else {
			tx := db
			if tx != nil {
				tx = tx.WithContext(c)
			}
			out, err = run(tx)
		}

		// 3) 统一错误映射
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(a.Status, resp.OK(out, a.Message))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}
