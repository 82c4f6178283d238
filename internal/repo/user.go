package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rentkojo-api/internal/domain"
)

type UserRepo struct {
	*Gorm[domain.User, *domain.User]
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{Gorm: NewGorm[domain.User](db, "User", "username", WithPreload("Roles"))}
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *UserRepo) AddRole(ctx context.Context, userID, roleID string) error {
	u, role, err := r.userAndRole(ctx, userID, roleID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(u).Association("Roles").Append(role)
}

func (r *UserRepo) RemoveRole(ctx context.Context, userID, roleID string) error {
	u, role, err := r.userAndRole(ctx, userID, roleID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(u).Association("Roles").Delete(role)
}

func (r *UserRepo) userAndRole(ctx context.Context, userID, roleID string) (*domain.User, *domain.Role, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.NotFound("User", userID)
		}
		return nil, nil, err
	}
	var role domain.Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.NotFound("Role", roleID)
		}
		return nil, nil, err
	}
	return &u, &role, nil
}

type UserDocRepo struct {
	*Gorm[domain.UserDoc, *domain.UserDoc]
}

func NewUserDocRepo(db *gorm.DB) *UserDocRepo {
	return &UserDocRepo{Gorm: NewGorm[domain.UserDoc](db, "UserDoc", "user_id")}
}

// Verify 在同一事务内确认材料并把所属用户标记为已认证
func (r *UserDocRepo) Verify(ctx context.Context, docID string) (*domain.UserDoc, error) {
	var doc domain.UserDoc
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&doc, "id = ?", docID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("UserDoc", docID)
			}
			return err
		}
		res := tx.Model(&domain.User{}).Where("id = ?", doc.UserID).Update("verified", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("User", doc.UserID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateAndVerify 覆盖材料并认证用户，一个事务
func (r *UserDocRepo) UpdateAndVerify(ctx context.Context, doc *domain.UserDoc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &Gorm[domain.UserDoc, *domain.UserDoc]{db: tx, entity: r.entity, nameColumn: r.nameColumn}
		if err := txRepo.Update(ctx, doc); err != nil {
			return err
		}
		res := tx.Model(&domain.User{}).Where("id = ?", doc.UserID).Update("verified", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("User", doc.UserID)
		}
		return nil
	})
}
