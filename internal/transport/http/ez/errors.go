package ez

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"rentkojo-api/internal/domain"
	resp "rentkojo-api/internal/transport/http/response"
	"rentkojo-api/internal/service"
)

// 统一错误对象（admin 动作用，带真实 HTTP 状态码）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func NotFound(msg string) error   { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

var setupOnce sync.Once

// SetupValidator 校验错误里的字段名用 json tag（没有则用 form tag）
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	})
}

// Fail 把任意错误写成统一响应。
// 业务错误（冲突/不存在/非法输入）和数据库错误一律 400；NotFound 也是 400，客户端依赖这一点。
func Fail(c *gin.Context, err error) {
	var (
		ve  validator.ValidationErrors
		ae  *AErr
		mbe *http.MaxBytesError
		ute *json.UnmarshalTypeError
		se  *json.SyntaxError
	)
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusBadRequest, resp.Invalid(translate(ve)))
	case errors.As(err, &mbe):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(resp.MsgTooLarge))
	case errors.As(err, &ute) && ute.Field != "":
		c.AbortWithStatusJSON(http.StatusBadRequest, resp.Invalid([]resp.ValidationError{typeError(ute)}))
	case errors.As(err, &ute), errors.As(err, &se),
		errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// 请求体不是合法 JSON 对象，不回显解码器原文
		c.AbortWithStatusJSON(http.StatusBadRequest, resp.Invalid([]resp.ValidationError{
			{Field: "body", Rule: "json", Message: "request body must be a valid JSON object"},
		}))
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, resp.Error(resp.MsgTimeout))
	case errors.As(err, &ae):
		if ae.Code >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		c.AbortWithStatusJSON(ae.Code, resp.Error(ae.Error()))
	default:
		if !isBusiness(err) {
			_ = c.Error(err)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, resp.Error(err.Error()))
	}
}

func isBusiness(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrAlreadyExists) ||
		errors.Is(err, service.ErrInvalid)
}

func translate(ve validator.ValidationErrors) []resp.ValidationError {
	out := make([]resp.ValidationError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, resp.ValidationError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func typeError(ute *json.UnmarshalTypeError) resp.ValidationError {
	return resp.ValidationError{
		Field:   ute.Field,
		Rule:    "type",
		Message: ute.Field + " must be " + jsonKind(ute.Type),
	}
}

// jsonKind Go 类型 → 客户端能看懂的 JSON 类型名
func jsonKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == reflect.TypeOf(time.Time{}) {
		return "a date (YYYY-MM-DD), a time of day (HH:MM) or an RFC3339 timestamp"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}

func message(fe validator.FieldError) string {
	f, p := fe.Field(), fe.Param()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return f + " must be a valid email"
	case "url":
		return f + " must be a valid URL"
	case "min", "gte":
		return f + " must be at least " + p + unit
	case "max", "lte":
		return f + " must be at most " + p + unit
	case "len":
		return f + " must be exactly " + p + unit
	case "oneof":
		return f + " must be one of [" + p + "]"
	case "numeric", "number":
		return f + " must be numeric"
	default:
		return f + " is invalid"
	}
}
