package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"orgdesk/internal/domain"
)

type EmployeeRepo struct{ db *gorm.DB }

func NewEmployeeRepo(db *gorm.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

type EmployeeQuery struct {
	Search     string
	Currency   *domain.Currency
	Department *domain.Department
	Tech       *domain.TechTag
	IsEmployed *bool
	SortBy     string
	SortDir    string
	Page       int
	PageSize   int
}

type EmployeePage struct {
	Items       []domain.Employee
	Total       int64
	CurrentPage int
	LastPage    int
	PageSize    int
}

// 排序字段白名单，未知字段回落到自然顺序
var sortColumns = map[string]string{
	"firstName":     "first_name",
	"lastName":      "last_name",
	"salary":        "salary",
	"department":    "department",
	"employedSince": "employed_since",
}

const DefaultPageSize = 10

// Search 搜索/过滤/排序/分页一体的列表查询。
// 搜索词不区分大小写地匹配 first_name 或 last_name 的子串；
// 含空格时额外按 (名, 姓) 词对联合匹配。过滤条件逐个 AND。
// 先 Count 再取页：offset 超界时不加 offset（退回第一页数据），
// 元数据 currentPage 单独钳到 1。
func (r *EmployeeRepo) Search(ctx context.Context, q EmployeeQuery) (*EmployeePage, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Employee{})

	if term := strings.TrimSpace(q.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		if i := strings.IndexByte(term, ' '); i > 0 {
			first := "%" + strings.ToLower(term[:i]) + "%"
			last := "%" + strings.ToLower(strings.TrimSpace(term[i+1:])) + "%"
			tx = tx.Where(
				"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR (LOWER(first_name) LIKE ? AND LOWER(last_name) LIKE ?)",
				like, like, first, last,
			)
		} else {
			tx = tx.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like)
		}
	}

	if q.Currency != nil {
		tx = tx.Where("currency = ?", *q.Currency)
	}
	if q.Department != nil {
		tx = tx.Where("department = ?", *q.Department)
	}
	if q.Tech != nil {
		tx = tx.Where("tech_stack LIKE ?", "%"+string(*q.Tech)+"%")
	}
	if q.IsEmployed != nil {
		tx = tx.Where("is_employed = ?", *q.IsEmployed)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	size := q.PageSize
	if size <= 0 || size > 100 {
		size = DefaultPageSize
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	offset := (page - 1) * size
	current := page
	if int64(offset) >= total {
		offset = 0
		current = 1
	}

	lastPage := int((total + int64(size) - 1) / int64(size))
	if lastPage < 1 {
		lastPage = 1
	}

	// 排序需字段+方向同时给出，且字段在白名单内
	if col, ok := sortColumns[q.SortBy]; ok {
		dir := strings.ToLower(q.SortDir)
		if dir == "asc" || dir == "desc" {
			tx = tx.Order(col + " " + dir)
		}
	}

	var items []domain.Employee
	if err := tx.Preload("Assignments.Project").
		Limit(size).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}

	return &EmployeePage{
		Items:       items,
		Total:       total,
		CurrentPage: current,
		LastPage:    lastPage,
		PageSize:    size,
	}, nil
}

func (r *EmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EmployeeRepo) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	var e domain.Employee
	err := r.db.WithContext(ctx).Preload("Assignments.Project").First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Employee{}).Error
}

// DeleteCascade 删员工同时清理项目成员关系并解除用户挂接
func (r *EmployeeRepo) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&domain.ProjectAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.User{}).Where("employee_id = ?", id).
			Update("employee_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Employee{}).Error
	})
}
