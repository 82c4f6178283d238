package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rentkojo-api/internal/domain"
	"rentkojo-api/internal/service"
	"rentkojo-api/internal/transport/http/ez"
	resp "rentkojo-api/internal/transport/http/response"
)

// userIn 创建和更新共用；password 总是必填，更新时会重新哈希
type userIn struct {
	Username       string `json:"username"       binding:"required,min=4,max=25"`
	Firstname      string `json:"firstname"      binding:"required,min=4,max=25"`
	Lastname       string `json:"lastname"       binding:"required,min=4,max=25"`
	Email          string `json:"email"          binding:"required,email,max=50"`
	PhoneNumber    string `json:"phoneNumber"    binding:"omitempty,min=9,max=13"`
	WhatsappNumber string `json:"whatsappNumber" binding:"required,min=9,max=13"`
	Password       string `json:"password"       binding:"required,min=8,max=72"`
	City           string `json:"city"           binding:"max=100"`
	Country        string `json:"country"        binding:"max=100"`
	Address        string `json:"address"        binding:"max=255"`
}

func (in userIn) ToModel() *domain.User {
	return &domain.User{
		Username:       in.Username,
		Firstname:      in.Firstname,
		Lastname:       in.Lastname,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		WhatsappNumber: in.WhatsappNumber,
		Password:       in.Password,
		City:           in.City,
		Country:        in.Country,
		Address:        in.Address,
	}
}

type roleIn struct {
	Name string `json:"name" binding:"required,max=128"`
}

func (in roleIn) ToModel() *domain.Role { return &domain.Role{Name: in.Name} }

// 文件只存名字，上传不在本服务
type userDocIn struct {
	UserID        string `json:"userId"        binding:"required,max=20"`
	IDCard1       string `json:"idCard1"       binding:"required,max=128"`
	IDCard2       string `json:"idCard2"       binding:"required,max=128"`
	PassportPhoto string `json:"passportPhoto" binding:"required,max=128"`
}

func (in userDocIn) ToModel() *domain.UserDoc {
	return &domain.UserDoc{UserID: in.UserID, IDCard1: in.IDCard1, IDCard2: in.IDCard2, PassportPhoto: in.PassportPhoto}
}

type reviewIn struct {
	UserID  *string `json:"userId"  binding:"omitempty,max=20"`
	Comment string  `json:"comment" binding:"required"`
	Rating  int     `json:"rating"  binding:"required,min=1,max=5"`
}

func (in reviewIn) ToModel() *domain.Review {
	return &domain.Review{UserID: in.UserID, Comment: in.Comment, Rating: in.Rating}
}

// Users 用户 / 角色 / 实名材料 / 评价
type Users struct {
	svc    *service.Services
	paging ez.Paging
}

func NewUsers(svc *service.Services, paging ez.Paging) *Users {
	return &Users{svc: svc, paging: paging}
}

func (h *Users) Priority() int { return 30 }

func (h *Users) MountAPI(api *gin.RouterGroup) {
	ez.Crud(ez.CrudConfig[domain.User, *domain.User, userIn]{
		Group: api, Path: "/users", Entity: "User", Service: h.svc.Users, Paging: h.paging,
	})
	ez.Crud(ez.CrudConfig[domain.Role, *domain.Role, roleIn]{
		Group: api, Path: "/roles", Entity: "Role", Service: h.svc.Roles, Paging: h.paging,
	})
	ez.Crud(ez.CrudConfig[domain.UserDoc, *domain.UserDoc, userDocIn]{
		Group: api, Path: "/user-documents", Entity: "UserDoc", Service: h.svc.UserDocs, Paging: h.paging,
	})
	ez.Crud(ez.CrudConfig[domain.Review, *domain.Review, reviewIn]{
		Group: api, Path: "/reviews", Entity: "Review", Service: h.svc.Reviews, Paging: h.paging,
	})

	e := ez.New(api)

	// --- POST /api/users/:id/roles/:roleId ---
	ez.RegisterAction(e, nil, ez.Action[struct{}, *domain.User]{
		Method:  http.MethodPost,
		Path:    "/users/:id/roles/:roleId",
		Binder:  ez.BindNone,
		Message: resp.MsgDone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.User, error) {
			return h.svc.Users.AddRole(c.Request.Context(), c.Param("id"), c.Param("roleId"))
		},
	})

	// --- DELETE /api/users/:id/roles/:roleId ---
	ez.RegisterAction(e, nil, ez.Action[struct{}, *domain.User]{
		Method:  http.MethodDelete,
		Path:    "/users/:id/roles/:roleId",
		Binder:  ez.BindNone,
		Message: resp.MsgDone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.User, error) {
			return h.svc.Users.RemoveRole(c.Request.Context(), c.Param("id"), c.Param("roleId"))
		},
	})

	// --- POST /api/user-documents/:id/verify  认证材料所属用户 ---
	ez.RegisterAction(e, nil, ez.Action[struct{}, *domain.UserDoc]{
		Method:  http.MethodPost,
		Path:    "/user-documents/:id/verify",
		Binder:  ez.BindNone,
		Message: resp.MsgDone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.UserDoc, error) {
			return h.svc.UserDocs.Verify(c.Request.Context(), c.Param("id"))
		},
	})
}
