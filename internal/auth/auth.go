// Package auth 签发与校验访问令牌。账号来自配置，密码以 bcrypt 哈希保存。
package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/blog-admin/config"
)

var (
	ErrBadCredentials = errors.New("bad credentials")
	ErrInvalidToken   = errors.New("invalid token")
)

// Claims 令牌载荷，Auth 为权限列表
type Claims struct {
	Auth []string `json:"auth"`
	jwt.RegisteredClaims
}

func (c *Claims) HasAuthority(name string) bool {
	return slices.Contains(c.Auth, name)
}

type Authenticator struct {
	secret []byte
	ttl    time.Duration
	issuer string
	users  map[string]config.UserConfig
	now    func() time.Time
}

func NewAuthenticator(cfg config.JWTConfig, users []config.UserConfig) *Authenticator {
	a := &Authenticator{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		users:  make(map[string]config.UserConfig, len(users)),
		now:    time.Now,
	}
	if a.ttl <= 0 {
		a.ttl = 24 * time.Hour
	}
	for _, u := range users {
		a.users[u.Username] = u
	}
	return a
}

// Authenticate 校验用户名密码并签发令牌
func (a *Authenticator) Authenticate(username, password string) (string, error) {
	u, ok := a.users[username]
	if !ok {
		// 用户不存在也做一次比较，响应耗时一致
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrBadCredentials
	}
	return a.Issue(u.Username, u.Authorities)
}

func (a *Authenticator) Issue(subject string, authorities []string) (string, error) {
	now := a.now()
	claims := &Claims{
		Auth: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

func (a *Authenticator) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return a.secret, nil }, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// HashPassword 生成配置文件里使用的密码哈希
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.MinCost)
