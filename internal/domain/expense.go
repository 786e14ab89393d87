package domain

import (
	"time"

	"gorm.io/gorm"
)

type Expense struct {
	ID          string          `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Amount      float64         `gorm:"not null" json:"amount"`
	Currency    Currency        `gorm:"size:3;not null" json:"currency"`
	Category    ExpenseCategory `gorm:"size:32;not null" json:"category"`
	Description string          `gorm:"size:255" json:"description"`
	EmployeeID  *string         `gorm:"type:varchar(32);index" json:"employeeId,omitempty"`
	IncurredOn  time.Time       `json:"incurredOn"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"-"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Expense) TableName() string { return "expenses" }
