// Package identity 把请求方的学号解析为用户身份与角色，并维护 token 撤销名单
package identity

import (
	"context"
	"errors"
	"time"

	"campus-activity/internal/global/logger"
	"campus-activity/internal/global/response"
	"campus-activity/internal/model"

	"gorm.io/gorm"
)

var log = logger.New("Identity")

// Identity 已解析的调用方
type Identity struct {
	UserID    uint
	StudentID string
	NickName  string
	Role      model.Role
}

func (i *Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// Owns 是否为资源所有者
func (i *Identity) Owns(ownerID uint) bool {
	return i.UserID == ownerID
}

// Directory 身份目录，所有业务模块通过它解析调用方
type Directory struct {
	db          *gorm.DB
	revocations Revocations
}

func NewDirectory(db *gorm.DB, revocations Revocations) *Directory {
	if revocations == nil {
		revocations = NewMemoryRevocations()
	}
	return &Directory{db: db, revocations: revocations}
}

// Resolve 按学号查找用户，找不到时返回 ErrUnauthorized
func (d *Directory) Resolve(ctx context.Context, handle string) (*Identity, error) {
	if handle == "" {
		return nil, response.ErrUnauthorized
	}
	var user model.User
	err := d.db.WithContext(ctx).Where("student_id = ?", handle).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "student_id", handle)
		return nil, response.ErrUnauthorized.WithTips("用户不存在")
	case err != nil:
		log.Error("查询用户失败", "error", err, "student_id", handle)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &Identity{
		UserID:    user.ID,
		StudentID: user.StudentID,
		NickName:  user.NickName,
		Role:      user.RoleID,
	}, nil
}

// Revoke 将 token 加入撤销名单直到其过期
func (d *Directory) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := d.revocations.Revoke(ctx, tokenID, expiresAt); err != nil {
		log.Error("撤销 token 失败", "error", err, "token_id", tokenID)
		return response.ErrServerInternal.WithOrigin(err)
	}
	return nil
}

func (d *Directory) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	revoked, err := d.revocations.IsRevoked(ctx, tokenID)
	if err != nil {
		log.Error("查询撤销名单失败", "error", err, "token_id", tokenID)
		return false, response.ErrServerInternal.WithOrigin(err)
	}
	return revoked, nil
}

// RequireRole 角色守卫，在每个操作开头调用
func RequireRole(caller *Identity, allowed ...model.Role) error {
	if caller == nil {
		return response.ErrUnauthorized
	}
	for _, role := range allowed {
		if caller.Role == role {
			return nil
		}
	}
	return response.ErrForbidden.WithTips("需要角色", rolesString(allowed))
}

// RequireOwnerOrAdmin 资源所有者或管理员
func RequireOwnerOrAdmin(caller *Identity, ownerID uint) error {
	if caller == nil {
		return response.ErrUnauthorized
	}
	if caller.Owns(ownerID) || caller.IsAdmin() {
		return nil
	}
	return response.ErrForbidden
}

func rolesString(roles []model.Role) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += "/"
		}
		s += r.String()
	}
	return s
}
