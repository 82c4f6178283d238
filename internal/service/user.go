package service

import (
	"context"

	"rentkojo-api/internal/domain"
	"rentkojo-api/internal/repo"
	"rentkojo-api/pkg/utils"
)

// UserService 用户名唯一由 CRUD 处理，邮箱唯一在这里单独检查
type UserService struct {
	*CRUD[domain.User, *domain.User]
	users *repo.UserRepo
}

func NewUserService(users *repo.UserRepo, opts ...Option[domain.User]) *UserService {
	s := &UserService{users: users}
	opts = append([]Option[domain.User]{
		WithUniqueKey(func(u *domain.User) string { return u.Username }),
		WithPrepare(prepareUser),
		WithCheck(s.checkEmail),
		WithMerge(mergeUser),
	}, opts...)
	s.CRUD = NewCRUD[domain.User](users, "User", opts...)
	return s
}

func prepareUser(u *domain.User) error {
	if u.AuthStrategy == "" {
		u.AuthStrategy = "local"
	}
	if u.Password == "" || utils.IsHashed(u.Password) {
		return nil
	}
	h, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = h
	return nil
}

// mergeUser 认证状态、头像、登录方式不由资料更新接口修改；密码留空表示不改
func mergeUser(existing, in *domain.User) {
	in.Verified = existing.Verified
	in.Avatar = existing.Avatar
	if in.AuthStrategy == "" {
		in.AuthStrategy = existing.AuthStrategy
	}
	if in.Password == "" {
		in.Password = existing.Password
	}
}

func (s *UserService) checkEmail(ctx context.Context, u *domain.User) error {
	found, err := s.users.FindByEmail(ctx, u.Email)
	if err != nil {
		return err
	}
	if found != nil && found.ID != u.ID {
		return domain.ConflictOn("User", "email")
	}
	return nil
}

func (s *UserService) AddRole(ctx context.Context, userID, roleID string) (*domain.User, error) {
	if err := s.users.AddRole(ctx, userID, roleID); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return s.users.FindByID(ctx, userID)
}

func (s *UserService) RemoveRole(ctx context.Context, userID, roleID string) (*domain.User, error) {
	if err := s.users.RemoveRole(ctx, userID, roleID); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return s.users.FindByID(ctx, userID)
}

// UserDocService 每个用户一份材料；更新材料即认证用户
type UserDocService struct {
	*CRUD[domain.UserDoc, *domain.UserDoc]
	docs  *repo.UserDocRepo
	users *UserService
}

func NewUserDocService(docs *repo.UserDocRepo, users *UserService, opts ...Option[domain.UserDoc]) *UserDocService {
	opts = append([]Option[domain.UserDoc]{
		WithUniqueKey(func(d *domain.UserDoc) string { return d.UserID }),
		WithCheck(requireUser(users.users)),
	}, opts...)
	return &UserDocService{
		CRUD:  NewCRUD[domain.UserDoc](docs, "UserDoc", opts...),
		docs:  docs,
		users: users,
	}
}

func requireUser(users Exister) func(context.Context, *domain.UserDoc) error {
	parent := Parent("User", users, func(d *domain.UserDoc) *string { return &d.UserID })
	return func(ctx context.Context, d *domain.UserDoc) error {
		if d.UserID == "" {
			return domain.NotFound("User", "")
		}
		return parent(ctx, d)
	}
}

func (s *UserDocService) Update(ctx context.Context, d *domain.UserDoc) (*domain.UserDoc, error) {
	existing, err := s.beforeUpdate(ctx, d)
	if err != nil {
		return nil, err
	}
	if err := s.docs.UpdateAndVerify(ctx, d); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, existing, d)
	s.users.invalidate(ctx, existing.UserID, d.UserID)
	return d, nil
}

func (s *UserDocService) Verify(ctx context.Context, id string) (*domain.UserDoc, error) {
	d, err := s.docs.Verify(ctx, id)
	if err != nil {
		return nil, err
	}
	s.users.invalidate(ctx, d.UserID)
	return d, nil
}
