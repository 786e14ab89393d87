package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgdesk/internal/domain"
	"orgdesk/internal/repo"
	"orgdesk/internal/service"
	"orgdesk/pkg/apperrors"
)

func boolp(b bool) *bool { return &b }

func TestEmployeeSearchMatchesEitherName(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewEmployeeService(repo.NewEmployeeRepo(db), nil)
	ctx := context.Background()

	seedEmployee(t, db, "Jane", "Doe")
	seedEmployee(t, db, "John", "Janeway")
	seedEmployee(t, db, "Alice", "Smith")

	// 子串命中 first_name 或 last_name，大小写无关
	page, err := svc.List(ctx, repo.EmployeeQuery{Search: "JANE"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = svc.List(ctx, repo.EmployeeQuery{Search: "smith"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Alice", page.Items[0].FirstName)
}

func TestEmployeeSearchFullNameTerm(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewEmployeeService(repo.NewEmployeeRepo(db), nil)
	ctx := context.Background()

	seedEmployee(t, db, "Jane", "Doe")
	seedEmployee(t, db, "Jane", "Smith")
	seedEmployee(t, db, "Bob", "Doe")
	// 整串就是 first_name 的情况也要命中
	seedEmployee(t, db, "Jane Doe", "Johnson")

	// "jane doe" 按 (名, 姓) 词对联合命中，或整串单列命中
	page, err := svc.List(ctx, repo.EmployeeQuery{Search: "jane doe"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, e := range page.Items {
		assert.Contains(t, e.FirstName, "Jane")
	}
}

func TestEmployeeFiltersAreANDed(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewEmployeeService(repo.NewEmployeeRepo(db), nil)
	ctx := context.Background()

	seedEmployee(t, db, "Jane", "Doe", func(e *domain.Employee) {
		e.Department = domain.DeptEngineering
		e.Currency = domain.CurrencyEUR
		e.TechStack = domain.TechStack{domain.TechGo}
	})
	seedEmployee(t, db, "John", "Smith", func(e *domain.Employee) {
		e.Department = domain.DeptEngineering
		e.Currency = domain.CurrencyUSD
		e.TechStack = domain.TechStack{domain.TechGo}
	})
	seedEmployee(t, db, "Alice", "Brown", func(e *domain.Employee) {
		e.Department = domain.DeptSales
		e.Currency = domain.CurrencyEUR
		e.IsEmployed = false
	})

	dept := domain.DeptEngineering
	cur := domain.CurrencyEUR
	page, err := svc.List(ctx, repo.EmployeeQuery{Department: &dept, Currency: &cur})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Jane", page.Items[0].FirstName)

	tech := domain.TechGo
	page, err = svc.List(ctx, repo.EmployeeQuery{Tech: &tech})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = svc.List(ctx, repo.EmployeeQuery{IsEmployed: boolp(false)})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Alice", page.Items[0].FirstName)
}

func TestEmployeeSortWhitelist(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewEmployeeService(repo.NewEmployeeRepo(db), nil)
	ctx := context.Background()

	seedEmployee(t, db, "Low", "Pay", func(e *domain.Employee) { e.Salary = 100 })
	seedEmployee(t, db, "High", "Pay", func(e *domain.Employee) { e.Salary = 900 })
	seedEmployee(t, db, "Mid", "Pay", func(e *domain.Employee) { e.Salary = 500 })

	page, err := svc.List(ctx, repo.EmployeeQuery{SortBy: "salary", SortDir: "desc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, 900.0, page.Items[0].Salary)
	assert.Equal(t, 100.0, page.Items[2].Salary)

	// 方向缺失或字段不在白名单：不排序也不报错
	_, err = svc.List(ctx, repo.EmployeeQuery{SortBy: "salary"})
	assert.NoError(t, err)
	_, err = svc.List(ctx, repo.EmployeeQuery{SortBy: "password_hash", SortDir: "asc"})
	assert.NoError(t, err)
}

func TestEmployeePaginationBeyondLastPage(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewEmployeeService(repo.NewEmployeeRepo(db), nil)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		seedEmployee(t, db, fmt.Sprintf("Emp%d", i), "Test")
	}

	first, err := svc.List(ctx, repo.EmployeeQuery{Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, first.Items, 5)
	assert.Equal(t, int64(7), first.Total)
	assert.Equal(t, 1, first.CurrentPage)
	assert.Equal(t, 2, first.LastPage)

	second, err := svc.List(ctx, repo.EmployeeQuery{Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.Equal(t, 2, second.CurrentPage)

	// 页码超界：回落到第一页数据，currentPage 钳到 1
	beyond, err := svc.List(ctx, repo.EmployeeQuery{Page: 9, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, beyond.Items, 5)
	assert.Equal(t, 1, beyond.CurrentPage)
	assert.Equal(t, 2, beyond.LastPage)
}

func TestEmployeeEmployedSinceRestampOnlyOnFlip(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewEmployeeService(repo.NewEmployeeRepo(db), nil)
	ctx := context.Background()

	past := time.Now().Add(-48 * time.Hour)
	e := seedEmployee(t, db, "Jane", "Doe", func(e *domain.Employee) { e.EmployedSince = past })

	// 同值写入不动时间戳
	got, err := svc.Update(ctx, e.ID, service.EmployeePatch{IsEmployed: boolp(true)})
	require.NoError(t, err)
	assert.WithinDuration(t, past, got.EmployedSince, time.Second)

	// 真翻转才重置
	got, err = svc.Update(ctx, e.ID, service.EmployeePatch{IsEmployed: boolp(false)})
	require.NoError(t, err)
	assert.False(t, got.IsEmployed)
	assert.WithinDuration(t, time.Now(), got.EmployedSince, 5*time.Second)
}

func TestEmployeeCreateDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewEmployeeService(repo.NewEmployeeRepo(db), nil)
	ctx := context.Background()

	e, err := svc.Create(ctx, service.EmployeeCreate{FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)
	assert.True(t, e.IsEmployed)
	assert.WithinDuration(t, time.Now(), e.EmployedSince, 5*time.Second)

	_, err = svc.Create(ctx, service.EmployeeCreate{FirstName: "  ", LastName: "Doe"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadInput))
}

func TestEmployeeDeleteCascade(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewEmployeeService(repo.NewEmployeeRepo(db), nil)
	ctx := context.Background()

	e := seedEmployee(t, db, "Jane", "Doe")
	seedUser(t, db, "jane@example.com", domain.RoleGuest, func(u *domain.User) { u.EmployeeID = &e.ID })
	require.NoError(t, db.Create(&domain.Project{ID: "p1", Name: "Apollo"}).Error)
	require.NoError(t, db.Create(&domain.ProjectAssignment{ProjectID: "p1", EmployeeID: e.ID}).Error)

	require.NoError(t, svc.Delete(ctx, e.ID))

	var asg int64
	require.NoError(t, db.Model(&domain.ProjectAssignment{}).Count(&asg).Error)
	assert.Zero(t, asg)

	// 用户留下，但挂接被解除
	var u domain.User
	require.NoError(t, db.First(&u, "email = ?", "jane@example.com").Error)
	assert.Nil(t, u.EmployeeID)

	_, err := svc.Get(ctx, e.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
