package model

import "fmt"

type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "REGISTERED"
	RegistrationCancelled  RegistrationStatus = "CANCELLED"
)

type Registration struct {
	Model
	ActivityID      uint               `gorm:"not null;index" json:"activity_id"`
	UserID          uint               `gorm:"not null;index" json:"user_id"`
	ParticipantName string             `gorm:"type:varchar(50)" json:"participant_name"`
	ContactPhone    string             `gorm:"type:varchar(20)" json:"contact_phone"`
	Remarks         string             `gorm:"type:varchar(255)" json:"remarks"`
	Status          RegistrationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	// RegisteredKey 仅在 REGISTERED 时非空，唯一索引保证同一用户同一活动至多一条有效报名
	RegisteredKey *string `gorm:"type:varchar(50);uniqueIndex" json:"-"`

	Activity Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	User     User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// RegisteredKeyOf 生成有效报名的唯一键
func RegisteredKeyOf(activityID, userID uint) *string {
	key := fmt.Sprintf("%d:%d", activityID, userID)
	return &key
}
