package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rentkojo-api/internal/core/config"
	"rentkojo-api/internal/core/database/dbtest"
	"rentkojo-api/internal/service"
	resp "rentkojo-api/internal/transport/http/response"
)

type envelope struct {
	Data             json.RawMessage        `json:"data"`
	Message          string                 `json:"message"`
	Success          bool                   `json:"success"`
	ValidationErrors []resp.ValidationError `json:"validationErrors"`
	CurrentPage      int                    `json:"currentPage"`
	TotalPages       int                    `json:"totalPages"`
}

func newAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	return NewAPIEngine(Deps{
		Logger:     zap.NewNop(),
		DB:         db,
		Services:   service.New(db, nil, 0),
		Pagination: config.Pagination{DefaultPageSize: 10, MaxPageSize: 100},
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func dataOf[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type idSlug struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func TestCategoryLifecycle(t *testing.T) {
	r := newAPI(t)

	w, env := do(t, r, http.MethodPost, "/api/categories", `{"name":"Electronics","description":"d"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)
	assert.Equal(t, "Category created Successfully!", env.Message)
	assert.NotNil(t, env.ValidationErrors)
	cat := dataOf[idSlug](t, env)
	assert.Equal(t, "electronics", cat.Slug)
	assert.NotEmpty(t, cat.ID)

	w, env = do(t, r, http.MethodPost, "/api/categories", `{"name":"Electronics","description":"d"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Category already exists", env.Message)
	assert.Equal(t, "null", string(env.Data))

	w, env = do(t, r, http.MethodGet, "/api/categories/"+cat.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Success", env.Message)

	w, env = do(t, r, http.MethodPut, "/api/categories/"+cat.ID, `{"name":"Home Electronics","description":"x"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Category Updated Successfully!", env.Message)
	assert.Equal(t, "home-electronics", dataOf[idSlug](t, env).Slug)

	w, _ = do(t, r, http.MethodDelete, "/api/categories/"+cat.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, env = do(t, r, http.MethodGet, "/api/categories/"+cat.ID, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, fmt.Sprintf("Category with id %s not found!", cat.ID), env.Message)

	w, env = do(t, r, http.MethodDelete, "/api/categories/"+cat.ID, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "not found!")

	w, env = do(t, r, http.MethodPut, "/api/categories/missing", `{"name":"Other","description":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Category with id missing not found!", env.Message)
}

func TestValidationErrors(t *testing.T) {
	r := newAPI(t)

	w, env := do(t, r, http.MethodPost, "/api/users", `{"username":"ab","email":"nope"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Attention!", env.Message)
	assert.False(t, env.Success)

	byField := map[string]resp.ValidationError{}
	for _, ve := range env.ValidationErrors {
		byField[ve.Field] = ve
	}
	assert.Equal(t, "min", byField["username"].Rule)
	assert.Equal(t, "username must be at least 4 characters", byField["username"].Message)
	assert.Equal(t, "email", byField["email"].Rule)
	assert.Equal(t, "required", byField["password"].Rule)
	assert.Equal(t, "required", byField["whatsappNumber"].Rule)

	w, env = do(t, r, http.MethodPost, "/api/reviews", `{"comment":"ok","rating":9}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, env.ValidationErrors, 1)
	assert.Equal(t, "rating", env.ValidationErrors[0].Field)
	assert.Equal(t, "max", env.ValidationErrors[0].Rule)

	// 类型不对也按字段校验错误返回，不泄露内部结构名
	w, env = do(t, r, http.MethodPost, "/api/tags", `{"name":123}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Attention!", env.Message)
	assert.Equal(t, []resp.ValidationError{{Field: "name", Rule: "type", Message: "name must be a string"}}, env.ValidationErrors)
	assert.NotContains(t, w.Body.String(), "tagIn")

	w, env = do(t, r, http.MethodPost, "/api/reviews", `{"comment":"x","rating":"five"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, env.ValidationErrors, 1)
	assert.Equal(t, "rating", env.ValidationErrors[0].Field)
	assert.Equal(t, "type", env.ValidationErrors[0].Rule)
	assert.Equal(t, "rating must be an integer", env.ValidationErrors[0].Message)

	w, env = do(t, r, http.MethodPost, "/api/tags", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Attention!", env.Message)
	require.Len(t, env.ValidationErrors, 1)
	assert.Equal(t, "body", env.ValidationErrors[0].Field)
}

func TestPagination(t *testing.T) {
	r := newAPI(t)
	for i := 0; i < 12; i++ {
		w, _ := do(t, r, http.MethodPost, "/api/tags", fmt.Sprintf(`{"name":"tag %02d"}`, i))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	tests := []struct {
		query      string
		page       int
		totalPages int
		n          int
	}{
		{"", 1, 2, 10},
		{"?page=2", 2, 2, 2},
		{"?page=abc&pageSize=xyz", 1, 2, 10},
		{"?pageSize=5", 1, 3, 5},
		{"?page=3&pageSize=5", 3, 3, 2},
		{"?page=9", 9, 2, 0},
		{"?pageSize=1000", 1, 1, 12},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w, env := do(t, r, http.MethodGet, "/api/tags"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.page, env.CurrentPage)
			assert.Equal(t, tt.totalPages, env.TotalPages)
			assert.Len(t, dataOf[[]idSlug](t, env), tt.n)
		})
	}
}

func TestUserRolesAndDocs(t *testing.T) {
	r := newAPI(t)

	w, env := do(t, r, http.MethodPost, "/api/users", `{
		"username":"kofi","firstname":"Kofi","lastname":"Mensah",
		"email":"kofi@example.com","whatsappNumber":"233555000","password":"secret-pass"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, string(env.Data), "password")
	user := dataOf[idSlug](t, env)

	w, env = do(t, r, http.MethodPost, "/api/roles", `{"name":"Store Owner"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	role := dataOf[idSlug](t, env)
	assert.Equal(t, "store-owner", role.Slug)

	w, env = do(t, r, http.MethodPost, "/api/users/"+user.ID+"/roles/"+role.ID, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), role.ID)

	w, _ = do(t, r, http.MethodDelete, "/api/users/"+user.ID+"/roles/"+role.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodPost, "/api/users/"+user.ID+"/roles/nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Role with id nope not found!", env.Message)

	w, env = do(t, r, http.MethodPost, "/api/user-documents",
		`{"userId":"`+user.ID+`","idCard1":"a.png","idCard2":"b.png","passportPhoto":"c.png"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "UserDoc created Successfully!", env.Message)
	doc := dataOf[idSlug](t, env)

	w, _ = do(t, r, http.MethodPost, "/api/user-documents/"+doc.ID+"/verify", "")
	require.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/users/"+user.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, dataOf[struct {
		Verified bool `json:"verified"`
	}](t, env).Verified)
}

func TestProductAmount(t *testing.T) {
	r := newAPI(t)

	w, env := do(t, r, http.MethodPost, "/api/products",
		`{"name":"Tent","amount":"12.50","description":"two person","condition":"new"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := dataOf[struct {
		ID     string `json:"id"`
		Amount string `json:"amount"`
	}](t, env)
	assert.Equal(t, "12.5", p.Amount)

	w, env = do(t, r, http.MethodPost, "/api/products",
		`{"name":"Stove","amount":-3,"description":"gas","condition":"used"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "amount must not be negative")

	w, env = do(t, r, http.MethodPost, "/api/product-images",
		`{"productId":"`+p.ID+`","productName":"Tent","imageUrl":"tent.png"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = do(t, r, http.MethodPost, "/api/branches", `{"storeId":"ghost","name":"Main","address":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Store with id ghost not found!", env.Message)
}

func TestProductAvailability(t *testing.T) {
	r := newAPI(t)

	w, env := do(t, r, http.MethodPost, "/api/products", `{"name":"Kayak","amount":40,"description":"single","condition":"good",
		"availabilityStartDate":"2026-06-01","availabilityEndDate":"2026-08-31",
		"availabilityStartTime":"09:30","availabilityEndTime":"18:00"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := dataOf[struct {
		StartDate time.Time `json:"availabilityStartDate"`
		StartTime time.Time `json:"availabilityStartTime"`
		EndTime   time.Time `json:"availabilityEndTime"`
	}](t, env)
	assert.Equal(t, "2026-06-01", p.StartDate.UTC().Format(time.DateOnly))
	assert.Equal(t, "09:30", p.StartTime.UTC().Format("15:04"))
	assert.Equal(t, "18:00", p.EndTime.UTC().Format("15:04"))

	w, env = do(t, r, http.MethodPost, "/api/products", `{"name":"Canoe","description":"double","condition":"good",
		"availabilityStartTime":"half past nine"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, env.ValidationErrors, 1)
	assert.Equal(t, "availabilityStartTime", env.ValidationErrors[0].Field)
	assert.Equal(t, "type", env.ValidationErrors[0].Rule)
}

func TestFallbacks(t *testing.T) {
	r := newAPI(t)
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w, env := do(t, r, http.MethodGet, "/api/nothing-here", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", env.Message)
	assert.False(t, env.Success)

	w, env = do(t, r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", env.Message)

	w, env = do(t, r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
