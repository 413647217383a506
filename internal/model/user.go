package model

// Role 用户角色，数值越大权限越高
type Role int

const (
	RoleStudent   Role = 0 // 普通用户
	RoleOrganizer Role = 1 // 活动组织者
	RoleAdmin     Role = 2 // 管理员
)

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "STUDENT"
	case RoleOrganizer:
		return "ORGANIZER"
	case RoleAdmin:
		return "ADMIN"
	default:
		return "UNKNOWN"
	}
}

type User struct {
	Model
	StudentID string `gorm:"type:varchar(20);uniqueIndex;not null" json:"student_id"`
	Password  string `gorm:"type:varchar(255);not null" json:"-"`
	RoleID    Role   `gorm:"default:0;not null" json:"role_id"`
	NickName  string `gorm:"type:varchar(20);not null" json:"nick_name"`
	Avatar    string `gorm:"type:varchar(255);" json:"avatar"`
}
