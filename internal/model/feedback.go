package model

type Feedback struct {
	Model
	ActivityID uint   `gorm:"not null;uniqueIndex:idx_feedback_user" json:"activity_id"`
	UserID     uint   `gorm:"not null;uniqueIndex:idx_feedback_user" json:"user_id"`
	Rating     int    `gorm:"not null" json:"rating"` // 1-5
	Content    string `gorm:"type:varchar(500)" json:"content"`
}
