package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgdesk/internal/domain"
	"orgdesk/internal/repo"
	"orgdesk/internal/service"
	"orgdesk/pkg/apperrors"
)

func strp(s string) *string { return &s }

func TestUserJSONNeverExposesPasswordHash(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "jane@example.com", domain.RoleGuest)

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "PasswordHash")
	assert.NotContains(t, string(b), u.PasswordHash)
}

func TestUserGetNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewUserService(repo.NewUserRepo(db))
	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUserUpdateSelfOrAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewUserService(repo.NewUserRepo(db))
	ctx := context.Background()

	admin := seedUser(t, db, "admin@example.com", domain.RoleAdmin)
	guest := seedUser(t, db, "guest@example.com", domain.RoleGuest)
	other := seedUser(t, db, "other@example.com", domain.RoleGuest)

	// 本人可以改自己
	u, err := svc.Update(ctx, guest.ID, domain.RoleGuest, guest.ID, service.UserPatch{FirstName: strp("Janet")})
	require.NoError(t, err)
	assert.Equal(t, "Janet", u.FirstName)

	// admin 可以改 guest
	u, err = svc.Update(ctx, admin.ID, domain.RoleAdmin, guest.ID, service.UserPatch{LastName: strp("Smith")})
	require.NoError(t, err)
	assert.Equal(t, "Smith", u.LastName)

	// guest 不能改别人
	_, err = svc.Update(ctx, guest.ID, domain.RoleGuest, other.ID, service.UserPatch{FirstName: strp("Nope")})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	// admin 账号只有本人能改，别的 admin 也不行
	_, err = svc.Update(ctx, other.ID, domain.RoleAdmin, admin.ID, service.UserPatch{FirstName: strp("Nope")})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestUserUpdateEmailValidationAndConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewUserService(repo.NewUserRepo(db))
	ctx := context.Background()

	a := seedUser(t, db, "a@example.com", domain.RoleGuest)
	seedUser(t, db, "b@example.com", domain.RoleGuest)

	_, err := svc.Update(ctx, a.ID, domain.RoleGuest, a.ID, service.UserPatch{Email: strp("not-an-email")})
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadInput))

	_, err = svc.Update(ctx, a.ID, domain.RoleGuest, a.ID, service.UserPatch{Email: strp("b@example.com")})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	u, err := svc.Update(ctx, a.ID, domain.RoleGuest, a.ID, service.UserPatch{Email: strp("A2@Example.com")})
	require.NoError(t, err)
	assert.Equal(t, "a2@example.com", u.Email)
}

func TestUserRoleChangeRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewUserService(repo.NewUserRepo(db))
	ctx := context.Background()

	admin := seedUser(t, db, "admin@example.com", domain.RoleAdmin)
	guest := seedUser(t, db, "guest@example.com", domain.RoleGuest)

	// guest 给自己升 admin：拒
	_, err := svc.Update(ctx, guest.ID, domain.RoleGuest, guest.ID, service.UserPatch{Role: strp("admin")})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	// 未知角色：400
	_, err = svc.Update(ctx, admin.ID, domain.RoleAdmin, guest.ID, service.UserPatch{Role: strp("superuser")})
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadInput))

	// admin 提升 guest：允许
	u, err := svc.Update(ctx, admin.ID, domain.RoleAdmin, guest.ID, service.UserPatch{Role: strp("admin")})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestUserDeleteAdminAlwaysForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewUserService(repo.NewUserRepo(db))
	ctx := context.Background()

	admin := seedUser(t, db, "admin@example.com", domain.RoleAdmin)
	admin2 := seedUser(t, db, "admin2@example.com", domain.RoleAdmin)

	// 谁来都不行，本人也不行
	err := svc.Delete(ctx, admin.ID, domain.RoleAdmin, admin.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	err = svc.Delete(ctx, admin2.ID, domain.RoleAdmin, admin.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestUserDeleteCascadesEmployeeAndAssignments(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewUserService(repo.NewUserRepo(db))
	ctx := context.Background()

	emp := seedEmployee(t, db, "Jane", "Doe")
	guest := seedUser(t, db, "jane@example.com", domain.RoleGuest, func(u *domain.User) {
		u.EmployeeID = &emp.ID
	})
	p := &domain.Project{ID: "p1", Name: "Apollo"}
	require.NoError(t, db.Create(p).Error)
	require.NoError(t, db.Create(&domain.ProjectAssignment{ProjectID: p.ID, EmployeeID: emp.ID}).Error)

	require.NoError(t, svc.Delete(ctx, guest.ID, domain.RoleGuest, guest.ID))

	var users, emps, asg int64
	require.NoError(t, db.Model(&domain.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&domain.Employee{}).Count(&emps).Error)
	require.NoError(t, db.Model(&domain.ProjectAssignment{}).Count(&asg).Error)
	assert.Zero(t, users)
	assert.Zero(t, emps)
	assert.Zero(t, asg)
}

func TestUserDeleteOtherGuestForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewUserService(repo.NewUserRepo(db))
	ctx := context.Background()

	a := seedUser(t, db, "a@example.com", domain.RoleGuest)
	b := seedUser(t, db, "b@example.com", domain.RoleGuest)

	err := svc.Delete(ctx, a.ID, domain.RoleGuest, b.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	// admin 删 guest 可以
	admin := seedUser(t, db, "admin@example.com", domain.RoleAdmin)
	require.NoError(t, svc.Delete(ctx, admin.ID, domain.RoleAdmin, b.ID))
}
