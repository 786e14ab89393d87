package service_test

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"orgdesk/internal/core/auth"
	"orgdesk/internal/domain"
	"orgdesk/internal/repo"
	"orgdesk/internal/service"
	"orgdesk/pkg/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.ResetToken{},
		&domain.Employee{},
		&domain.Project{},
		&domain.ProjectAssignment{},
		&domain.Expense{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testJWTer() *auth.JWTer {
	return &auth.JWTer{
		Secret:      []byte("test-secret"),
		Issuer:      "orgdesk-test",
		TTL:         time.Hour,
		RememberTTL: 7 * 24 * time.Hour,
		ResetTTL:    time.Hour,
	}
}

type sentMail struct {
	to, firstName, userID, token string
}

type mailStub struct {
	sent []sentMail
	fail error
}

func (m *mailStub) SendPasswordReset(to, firstName, userID, token string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{to: to, firstName: firstName, userID: userID, token: token})
	return nil
}

type authEnv struct {
	db     *gorm.DB
	users  *repo.UserRepo
	emps   *repo.EmployeeRepo
	tokens *repo.TokenRepo
	mail   *mailStub
	svc    *service.AuthService
}

func setupAuth(t *testing.T) *authEnv {
	t.Helper()
	db := setupTestDB(t)
	env := &authEnv{
		db:     db,
		users:  repo.NewUserRepo(db),
		emps:   repo.NewEmployeeRepo(db),
		tokens: repo.NewTokenRepo(db),
		mail:   &mailStub{},
	}
	env.svc = service.NewAuthService(env.users, env.emps, env.tokens, testJWTer(), env.mail, zap.NewNop())
	return env
}

func seedEmployee(t *testing.T, db *gorm.DB, first, last string, mut ...func(*domain.Employee)) *domain.Employee {
	t.Helper()
	e := &domain.Employee{
		ID:            utils.NewID(),
		FirstName:     first,
		LastName:      last,
		Department:    domain.DeptEngineering,
		Salary:        1000,
		Currency:      domain.CurrencyUSD,
		IsEmployed:    true,
		EmployedSince: time.Now(),
	}
	for _, f := range mut {
		f(e)
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return e
}

func seedUser(t *testing.T, db *gorm.DB, email string, role domain.Role, mut ...func(*domain.User)) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: utils.HashPassword("secret123"),
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
	}
	for _, f := range mut {
		f(u)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}
