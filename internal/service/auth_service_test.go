package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgdesk/internal/domain"
	"orgdesk/internal/service"
	"orgdesk/pkg/apperrors"
)

func registerInput(email string) service.RegisterInput {
	dept := domain.DeptEngineering
	salary := 4200.0
	cur := domain.CurrencyEUR
	return service.RegisterInput{
		Email:      email,
		Password:   "secret123",
		FirstName:  "Jane",
		LastName:   "Doe",
		Department: &dept,
		Salary:     &salary,
		Currency:   &cur,
		TechStack:  domain.TechStack{domain.TechGo, domain.TechSQL},
	}
}

func TestRegisterCreatesUserWithLinkedEmployee(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()

	u, sess, err := env.svc.Register(ctx, registerInput("jane@example.com"))
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.Token)

	assert.Equal(t, domain.RoleGuest, u.Role)
	require.NotNil(t, u.EmployeeID)
	require.NotNil(t, u.Employee)
	assert.Equal(t, "Jane", u.Employee.FirstName)
	assert.Equal(t, domain.DeptEngineering, u.Employee.Department)
	assert.Equal(t, 4200.0, u.Employee.Salary)
	assert.True(t, u.Employee.IsEmployed)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	claims, err := testJWTer().Parse(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UID)
	assert.Equal(t, string(domain.RoleGuest), claims.Role)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	env := setupAuth(t)
	in := registerInput("jane@example.com")
	in.Password = ""
	_, _, err := env.svc.Register(context.Background(), in)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadInput))
}

func TestRegisterDuplicateEmailLeavesNoOrphan(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()

	_, _, err := env.svc.Register(ctx, registerInput("jane@example.com"))
	require.NoError(t, err)

	var before int64
	require.NoError(t, env.db.Model(&domain.Employee{}).Count(&before).Error)

	_, _, err = env.svc.Register(ctx, registerInput("JANE@example.com"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict), "got %v", err)

	var after int64
	require.NoError(t, env.db.Model(&domain.Employee{}).Count(&after).Error)
	assert.Equal(t, before, after, "failed registration must not leave an employee behind")
}

// 邮箱预检查不到、但唯一索引仍然命中（软删用户占着邮箱）：
// 用户落库失败后必须回删刚建的员工。
func TestRegisterCompensatesEmployeeOnUserInsertFailure(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()

	u := seedUser(t, env.db, "taken@example.com", domain.RoleGuest)
	require.NoError(t, env.db.Delete(u).Error)

	_, _, err := env.svc.Register(ctx, registerInput("taken@example.com"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict), "got %v", err)

	var live int64
	require.NoError(t, env.db.Model(&domain.Employee{}).Count(&live).Error)
	assert.Zero(t, live)
}

func TestLoginSameMessageForUnknownEmailAndWrongPassword(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()
	_, _, err := env.svc.Register(ctx, registerInput("jane@example.com"))
	require.NoError(t, err)

	_, _, errUnknown := env.svc.Login(ctx, "nobody@example.com", "whatever", false)
	_, _, errWrongPw := env.svc.Login(ctx, "jane@example.com", "not-the-password", false)

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.True(t, apperrors.IsKind(errUnknown, apperrors.KindUnauthorized))
	assert.True(t, apperrors.IsKind(errWrongPw, apperrors.KindUnauthorized))
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error(), "messages must not reveal which part failed")
}

func TestLoginRememberMeExtendsSession(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()
	_, _, err := env.svc.Register(ctx, registerInput("jane@example.com"))
	require.NoError(t, err)

	_, short, err := env.svc.Login(ctx, "jane@example.com", "secret123", false)
	require.NoError(t, err)
	_, long, err := env.svc.Login(ctx, "jane@example.com", "secret123", true)
	require.NoError(t, err)

	assert.True(t, long.ExpiresAt.After(short.ExpiresAt))
}

func TestPasswordResetFlow(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()
	u, _, err := env.svc.Register(ctx, registerInput("jane@example.com"))
	require.NoError(t, err)

	msg, err := env.svc.RequestPasswordReset(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, msg)
	require.Len(t, env.mail.sent, 1)
	assert.Equal(t, "jane@example.com", env.mail.sent[0].to)
	assert.Equal(t, u.ID, env.mail.sent[0].userID)

	token := env.mail.sent[0].token
	require.NoError(t, env.svc.ResetPassword(ctx, u.ID, token, "newpass456"))

	_, _, err = env.svc.Login(ctx, "jane@example.com", "newpass456", false)
	assert.NoError(t, err)
	_, _, err = env.svc.Login(ctx, "jane@example.com", "secret123", false)
	assert.Error(t, err)

	// token 消费即删，二次使用无效
	err = env.svc.ResetPassword(ctx, u.ID, token, "thirdpass789")
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadInput))
}

func TestPasswordResetRequestDoesNotRevealUnknownEmail(t *testing.T) {
	env := setupAuth(t)
	msg, err := env.svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, msg)
	assert.Empty(t, env.mail.sent)
}

func TestPasswordResetRequestReusesLiveToken(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()
	_, _, err := env.svc.Register(ctx, registerInput("jane@example.com"))
	require.NoError(t, err)

	_, err = env.svc.RequestPasswordReset(ctx, "jane@example.com")
	require.NoError(t, err)
	_, err = env.svc.RequestPasswordReset(ctx, "jane@example.com")
	require.NoError(t, err)

	require.Len(t, env.mail.sent, 2)
	assert.Equal(t, env.mail.sent[0].token, env.mail.sent[1].token)
}

func TestPasswordResetExpiredTokenReplaced(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()
	u, _, err := env.svc.Register(ctx, registerInput("jane@example.com"))
	require.NoError(t, err)

	expired := &domain.ResetToken{
		ID:        "tok-expired",
		UserID:    u.ID,
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, env.tokens.Create(ctx, expired))

	err = env.svc.ResetPassword(ctx, u.ID, "stale-token", "newpass456")
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadInput))

	_, err = env.svc.RequestPasswordReset(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Len(t, env.mail.sent, 1)
	assert.NotEqual(t, "stale-token", env.mail.sent[0].token)
}
