package user

import (
	"errors"
	"unicode"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/jwt"
	"campus-activity/internal/global/response"
	"campus-activity/internal/model"
	"campus-activity/internal/module/identity"
	"campus-activity/tools"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoginReq 登录请求
type LoginReq struct {
	StudentID string `json:"student_id" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// Login 校验学号密码，签发 token
func Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定登录请求失败", "error", err, "student_id", req.StudentID)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var user model.User
	err := database.DB.Where("student_id = ?", req.StudentID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "student_id", req.StudentID)
		response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "student_id", req.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !tools.PasswordCompare(req.Password, user.Password) {
		log.Warn("密码错误", "student_id", req.StudentID)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	log.Info("用户登录成功", "student_id", user.StudentID, "role", user.RoleID.String())
	response.Success(c, gin.H{
		"token": jwt.CreateToken(jwt.Payload{
			StudentID: user.StudentID,
			RoleID:    int(user.RoleID),
		}),
		"student_id": user.StudentID,
		"role_id":    user.RoleID,
	})
}

// RegisterReq 注册请求，新用户一律为普通用户
type RegisterReq struct {
	StudentID string `json:"student_id" binding:"required,max=20"`
	Password  string `json:"password" binding:"required"`
	NickName  string `json:"nick_name" binding:"required,max=20"`
}

func Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定注册请求失败", "error", err, "student_id", req.StudentID)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if err := validatePasswordStrength(req.Password); err != nil {
		log.Warn("密码强度验证失败", "error", err, "student_id", req.StudentID)
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}

	user := model.User{
		StudentID: req.StudentID,
		Password:  tools.PasswordEncrypt(req.Password),
		NickName:  req.NickName,
		RoleID:    model.RoleStudent,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		if database.IsDuplicateKey(err) {
			log.Warn("用户已存在", "student_id", req.StudentID)
			response.Fail(c, response.ErrConflict.WithTips("学号已注册"))
			return
		}
		log.Error("创建用户失败", "error", err, "student_id", req.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户注册成功", "student_id", user.StudentID, "nick_name", user.NickName)
	response.Success(c)
}

// ChangePasswordReq 修改密码请求
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func ChangePassword(c *gin.Context) {
	studentID := jwt.GetStudentID(c)
	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定修改密码请求失败", "error", err, "student_id", studentID)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if err := validatePasswordStrength(req.NewPassword); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}

	user, err := findUser(studentID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !tools.PasswordCompare(req.OldPassword, user.Password) {
		log.Warn("旧密码错误", "student_id", studentID)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	if err := database.DB.Model(user).Update("password", tools.PasswordEncrypt(req.NewPassword)).Error; err != nil {
		log.Error("更新密码失败", "error", err, "student_id", studentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("用户修改密码成功", "student_id", studentID)
	response.Success(c)
}

func Me(c *gin.Context) {
	user, err := findUser(jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, user)
}

// Logout 当前 token 进入撤销名单，直到原定过期时间
func Logout(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	if err := identity.Default.Revoke(c.Request.Context(), payload.TokenID(), payload.ExpiresTime()); err != nil {
		response.Fail(c, err)
		return
	}
	log.Info("用户注销", "student_id", payload.StudentID)
	response.Success(c)
}

// SetRoleReq 管理员调整角色
type SetRoleReq struct {
	StudentID string     `json:"student_id" binding:"required"`
	RoleID    model.Role `json:"role_id"`
}

func SetRole(c *gin.Context) {
	var req SetRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if req.RoleID < model.RoleStudent || req.RoleID > model.RoleAdmin {
		response.Fail(c, response.ErrInvalidRequest.WithTips("未知角色"))
		return
	}

	user, err := findUser(req.StudentID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if err := database.DB.Model(user).Update("role_id", req.RoleID).Error; err != nil {
		log.Error("更新角色失败", "error", err, "student_id", req.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("角色已更新", "student_id", req.StudentID, "role", req.RoleID.String(), "operator", jwt.GetStudentID(c))
	response.Success(c)
}

func findUser(studentID string) (*model.User, error) {
	var user model.User
	err := database.DB.Where("student_id = ?", studentID).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("查询用户失败", "error", err, "student_id", studentID)
		}
		return nil, database.NotFoundOr(err, response.ErrNotFound.WithTips("用户不存在"))
	}
	return &user, nil
}

// validatePasswordStrength 至少 8 位，同时包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("密码长度至少为 8 位")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("密码必须同时包含字母和数字")
	}
	return nil
}
