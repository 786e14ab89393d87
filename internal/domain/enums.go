package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleGuest }

type Department string

const (
	DeptEngineering Department = "engineering"
	DeptSales       Department = "sales"
	DeptMarketing   Department = "marketing"
	DeptHR          Department = "hr"
	DeptFinance     Department = "finance"
	DeptOperations  Department = "operations"
)

func (d Department) Valid() bool {
	switch d {
	case DeptEngineering, DeptSales, DeptMarketing, DeptHR, DeptFinance, DeptOperations:
		return true
	}
	return false
}

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

func (c Currency) Valid() bool {
	return c == CurrencyUSD || c == CurrencyEUR || c == CurrencyGBP
}

type TechTag string

const (
	TechGo         TechTag = "go"
	TechTypeScript TechTag = "typescript"
	TechPython     TechTag = "python"
	TechJava       TechTag = "java"
	TechRust       TechTag = "rust"
	TechSQL        TechTag = "sql"
	TechReact      TechTag = "react"
	TechKubernetes TechTag = "kubernetes"
)

func (t TechTag) Valid() bool {
	switch t {
	case TechGo, TechTypeScript, TechPython, TechJava, TechRust, TechSQL, TechReact, TechKubernetes:
		return true
	}
	return false
}

// TechStack 以逗号串存库，便于跨库 LIKE 过滤
type TechStack []TechTag

func (s TechStack) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(s))
	for _, t := range s {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ","), nil
}

func (s *TechStack) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("tech stack: unsupported column type %T", src)
	}
	if raw == "" {
		*s = nil
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make(TechStack, 0, len(parts))
	for _, p := range parts {
		out = append(out, TechTag(p))
	}
	*s = out
	return nil
}

// ParseTechStack 解析逗号列表，拒绝未知 tag
func ParseTechStack(raw string) (TechStack, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make(TechStack, 0, len(parts))
	for _, p := range parts {
		t := TechTag(strings.ToLower(strings.TrimSpace(p)))
		if !t.Valid() {
			return nil, fmt.Errorf("unknown tech tag %q", p)
		}
		out = append(out, t)
	}
	return out, nil
}

type ExpenseCategory string

const (
	ExpenseTravel    ExpenseCategory = "travel"
	ExpenseEquipment ExpenseCategory = "equipment"
	ExpenseMeals     ExpenseCategory = "meals"
	ExpenseSoftware  ExpenseCategory = "software"
	ExpenseOther     ExpenseCategory = "other"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseTravel, ExpenseEquipment, ExpenseMeals, ExpenseSoftware, ExpenseOther:
		return true
	}
	return false
}
