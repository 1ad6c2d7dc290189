package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/d60-Lab/blog-platform/config"
	"github.com/d60-Lab/blog-platform/internal/model"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims 自定义 JWT 载荷
type Claims struct {
	UserID string     `json:"uid"`
	Role   model.Role `json:"role"`
	Type   string     `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair 一次登录签发的令牌
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// TokenManager signs and verifies access/refresh tokens with separate secrets.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	sessionSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

func NewTokenManager(jwtCfg config.JWTConfig, sessionCfg config.SessionConfig) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(jwtCfg.AccessSecret),
		refreshSecret: []byte(jwtCfg.RefreshSecret),
		sessionSecret: []byte(sessionCfg.Secret),
		accessTTL:     jwtCfg.AccessTTL,
		refreshTTL:    jwtCfg.RefreshTTL,
		issuer:        jwtCfg.Issuer,
		now:           time.Now,
	}
}

// Issue 签发 access + refresh
func (m *TokenManager) Issue(userID string, role model.Role) (*TokenPair, error) {
	now := m.now()
	access, accessExp, err := m.sign(userID, role, tokenTypeAccess, m.accessSecret, now, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := m.sign(userID, role, tokenTypeRefresh, m.refreshSecret, now, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (m *TokenManager) sign(userID string, role model.Role, typ string, secret []byte, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := Claims{
		UserID: userID,
		Role:   role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return s, exp, nil
}

// ParseAccess 校验 access token
func (m *TokenManager) ParseAccess(token string) (*Claims, error) {
	return m.parse(token, m.accessSecret, tokenTypeAccess)
}

// ParseRefresh 校验 refresh token
func (m *TokenManager) ParseRefresh(token string) (*Claims, error) {
	return m.parse(token, m.refreshSecret, tokenTypeRefresh)
}

func (m *TokenManager) parse(token string, secret []byte, typ string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if claims.Type != typ || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}

// HashRefresh 刷新令牌落库前做 HMAC，数据库泄露时无法直接复用
func (m *TokenManager) HashRefresh(token string) string {
	mac := hmac.New(sha256.New, m.sessionSecret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// RefreshMatches compares a presented refresh token against a stored hash.
func (m *TokenManager) RefreshMatches(token, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return hmac.Equal([]byte(m.HashRefresh(token)), []byte(storedHash))
}

// AccessTTL and RefreshTTL expose cookie lifetimes.
func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }
