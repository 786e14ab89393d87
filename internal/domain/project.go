package domain

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID   string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Name string `gorm:"size:128;not null" json:"name"`

	Assignments []ProjectAssignment `gorm:"foreignKey:ProjectID" json:"-"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }

// ProjectAssignment 项目-员工关联，附带兼职标记
type ProjectAssignment struct {
	ProjectID  string `gorm:"primaryKey;type:varchar(32)" json:"projectId"`
	EmployeeID string `gorm:"primaryKey;type:varchar(32)" json:"employeeId"`
	PartTime   bool   `json:"partTime"`

	Project  *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (ProjectAssignment) TableName() string { return "project_assignments" }
