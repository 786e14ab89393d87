package domain

import (
	"time"

	"gorm.io/gorm"
)

type Employee struct {
	ID         string     `gorm:"primaryKey;type:varchar(32)" json:"id"`
	FirstName  string     `gorm:"size:64;not null" json:"firstName"`
	LastName   string     `gorm:"size:64;not null" json:"lastName"`
	Department Department `gorm:"size:32" json:"department"`
	Salary     float64    `json:"salary"`
	Currency   Currency   `gorm:"size:3" json:"currency"`
	TechStack  TechStack  `gorm:"type:text" json:"techStack"`
	ImagePath  string     `gorm:"size:255" json:"imagePath,omitempty"`

	// EmployedSince 记录 IsEmployed 上次翻转的时间
	IsEmployed    bool      `json:"isEmployed"`
	EmployedSince time.Time `json:"employedSince"`

	// json 可见：employee 的缓存副本要带上项目关系
	Assignments []ProjectAssignment `gorm:"foreignKey:EmployeeID" json:"assignments,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Employee) TableName() string { return "employees" }
