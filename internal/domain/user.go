package domain

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string  `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Email        string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string  `gorm:"size:100;not null" json:"-"`
	FirstName    string  `gorm:"size:64;not null" json:"firstName"`
	LastName     string  `gorm:"size:64;not null" json:"lastName"`
	Role         Role    `gorm:"size:16;not null;default:guest" json:"role"`
	ImagePath    string  `gorm:"size:255" json:"imagePath,omitempty"`
	EmployeeID   *string `gorm:"type:varchar(32);index" json:"employeeId,omitempty"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// ResetToken 每个用户至多一条存活记录，消费即删
type ResetToken struct {
	ID        string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	UserID    string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"userId"`
	Token     string    `gorm:"size:512;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (ResetToken) TableName() string { return "reset_tokens" }

func (t *ResetToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }
