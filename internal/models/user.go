package models

import "time"

// User is the persisted identity record. Password and secret answer are only
// ever stored as opaque bcrypt digests.
type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Username         string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash     string     `gorm:"size:255;not null" json:"-"`
	SecretQuestion   string     `gorm:"size:255;not null" json:"secret_question"`
	SecretAnswerHash string     `gorm:"size:255;not null" json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	AuditLogs        []AuditLog `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// TableName pins the users table name.
func (User) TableName() string { return "users" }
