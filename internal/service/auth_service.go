package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"orgdesk/internal/core/auth"
	"orgdesk/internal/core/mail"
	"orgdesk/internal/domain"
	"orgdesk/internal/repo"
	"orgdesk/pkg/apperrors"
	"orgdesk/pkg/utils"
)

// 未知邮箱和密码错误必须同文案，防账号枚举
const msgBadCredentials = "invalid email or password"

const msgResetRequested = "if the email is registered, a reset link has been sent"

type AuthService struct {
	users  *repo.UserRepo
	emps   *repo.EmployeeRepo
	tokens *repo.TokenRepo
	jwt    *auth.JWTer
	mailer mail.Sender
	log    *zap.Logger
}

func NewAuthService(users *repo.UserRepo, emps *repo.EmployeeRepo, tokens *repo.TokenRepo,
	jwt *auth.JWTer, mailer mail.Sender, log *zap.Logger) *AuthService {
	return &AuthService{users: users, emps: emps, tokens: tokens, jwt: jwt, mailer: mailer, log: log}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string

	// 可选员工属性
	Department *domain.Department
	Salary     *float64
	Currency   *domain.Currency
	TechStack  domain.TechStack
	IsEmployed *bool
	ImagePath  string
}

type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Register 先建员工再建用户；用户落库失败时回删员工，保证无孤儿记录
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, *Session, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.Password == "" || strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, nil, apperrors.BadInput("email, password, first name and last name are required")
	}
	if in.Department != nil && !in.Department.Valid() {
		return nil, nil, apperrors.BadInput("unknown department")
	}
	if in.Currency != nil && !in.Currency.Valid() {
		return nil, nil, apperrors.BadInput("unknown currency")
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, nil, apperrors.Internal("lookup email failed", err)
	}
	if existing != nil {
		return nil, nil, apperrors.Conflict("email is already registered")
	}

	emp := &domain.Employee{
		ID:            utils.NewID(),
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		TechStack:     in.TechStack,
		ImagePath:     in.ImagePath,
		IsEmployed:    true,
		EmployedSince: time.Now(),
	}
	if in.Department != nil {
		emp.Department = *in.Department
	}
	if in.Salary != nil {
		emp.Salary = *in.Salary
	}
	if in.Currency != nil {
		emp.Currency = *in.Currency
	}
	if in.IsEmployed != nil {
		emp.IsEmployed = *in.IsEmployed
	}
	if err := s.emps.Create(ctx, emp); err != nil {
		return nil, nil, apperrors.Internal("create employee failed", err)
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Email:        in.Email,
		PasswordHash: utils.HashPassword(in.Password),
		FirstName:    emp.FirstName,
		LastName:     emp.LastName,
		Role:         domain.RoleGuest,
		ImagePath:    in.ImagePath,
		EmployeeID:   &emp.ID,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 补偿：用户没建成，员工也不能留下
		if derr := s.emps.Delete(ctx, emp.ID); derr != nil {
			s.log.Error("orphan employee cleanup failed",
				zap.String("employee_id", emp.ID), zap.Error(derr))
		}
		if isDupKey(err) {
			return nil, nil, apperrors.Conflict("email is already registered")
		}
		return nil, nil, apperrors.Internal("create user failed", err)
	}
	u.Employee = emp

	tok, exp, err := s.jwt.Issue(u.ID, string(u.Role), false)
	if err != nil {
		return nil, nil, apperrors.Internal("issue token failed", err)
	}
	return u, &Session{Token: tok, ExpiresAt: exp}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string, remember bool) (*domain.User, *Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperrors.Internal("lookup email failed", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, nil, apperrors.Unauthorized(msgBadCredentials)
	}
	tok, exp, err := s.jwt.Issue(u.ID, string(u.Role), remember)
	if err != nil {
		return nil, nil, apperrors.Internal("issue token failed", err)
	}
	return u, &Session{Token: tok, ExpiresAt: exp}, nil
}

// RequestPasswordReset 邮箱未注册也返回同一句话，不暴露注册状态
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", apperrors.BadInput("email is required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", apperrors.Internal("lookup email failed", err)
	}
	if u == nil {
		return msgResetRequested, nil
	}

	now := time.Now()
	t, err := s.tokens.FindByUser(ctx, u.ID)
	if err != nil {
		return "", apperrors.Internal("lookup reset token failed", err)
	}
	if t != nil && t.Expired(now) {
		if err := s.tokens.Delete(ctx, t.ID); err != nil {
			return "", apperrors.Internal("drop expired token failed", err)
		}
		t = nil
	}
	if t == nil {
		raw, exp, err := s.jwt.IssueReset(u.ID)
		if err != nil {
			return "", apperrors.Internal("issue reset token failed", err)
		}
		t = &domain.ResetToken{ID: utils.NewID(), UserID: u.ID, Token: raw, ExpiresAt: exp}
		if err := s.tokens.Create(ctx, t); err != nil {
			return "", apperrors.Internal("store reset token failed", err)
		}
	}

	if err := s.mailer.SendPasswordReset(u.Email, u.FirstName, u.ID, t.Token); err != nil {
		s.log.Error("reset mail send failed", zap.String("user_id", u.ID), zap.Error(err))
		return "", apperrors.Internal("could not send reset email", err)
	}
	return msgResetRequested, nil
}

// ResetPassword 校验 (userId, token) 精确匹配；token 消费即删，只能用一次
func (s *AuthService) ResetPassword(ctx context.Context, userID, token, newPassword string) error {
	if newPassword == "" {
		return apperrors.BadInput("password is required")
	}
	t, err := s.tokens.FindByUserAndToken(ctx, userID, token)
	if err != nil {
		return apperrors.Internal("lookup reset token failed", err)
	}
	if t == nil {
		return apperrors.BadInput("invalid or expired reset token")
	}
	if t.Expired(time.Now()) {
		_ = s.tokens.Delete(ctx, t.ID)
		return apperrors.BadInput("invalid or expired reset token")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return apperrors.Internal("lookup user failed", err)
	}
	if u == nil {
		return apperrors.BadInput("invalid or expired reset token")
	}

	u.PasswordHash = utils.HashPassword(newPassword)
	if err := s.users.Update(ctx, u); err != nil {
		return apperrors.Internal("update password failed", err)
	}
	if err := s.tokens.Delete(ctx, t.ID); err != nil {
		return apperrors.Internal("consume reset token failed", err)
	}
	return nil
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免驱动差异
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "unique failed") ||
		strings.Contains(msg, "duplicate key")
}
