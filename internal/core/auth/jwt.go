package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role"` // "guest" or "admin"
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret      []byte
	Issuer      string
	TTL         time.Duration // 默认会话
	RememberTTL time.Duration // remember me
	ResetTTL    time.Duration // 密码重置 token
}

// Issue 签发会话 token；remember=true 用长有效期
func (j *JWTer) Issue(uid, role string, remember bool) (string, time.Time, error) {
	ttl := j.TTL
	if remember {
		ttl = j.RememberTTL
	}
	return j.sign(uid, role, ttl)
}

// IssueReset 签发密码重置 token（subject 为用户 id）
func (j *JWTer) IssueReset(uid string) (string, time.Time, error) {
	return j.sign(uid, "", j.ResetTTL)
}

func (j *JWTer) sign(uid, role string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := Claims{
		UID:  uid,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(j.Secret)
	return s, exp, err
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}
