package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/justkurama/django2024-tsis2/config"
)

func newTestManager(accessTTL, refreshTTL time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-tests",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager(15*time.Minute, 7*24*time.Hour)

	token, err := m.GenerateAccessToken("acc-1", "teacher")
	if err != nil {
		t.Fatalf("生成 Access Token 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.UserID != "acc-1" {
		t.Errorf("UserID 错误: %s", claims.UserID)
	}
	if claims.Role != "teacher" {
		t.Errorf("Role 错误: %s", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType 错误: %s", claims.TokenType)
	}
	if claims.ID == "" {
		t.Error("jti 不应为空")
	}
	if claims.Issuer != "student-management" {
		t.Errorf("Issuer 错误: %s", claims.Issuer)
	}
}

func TestGenerateRefreshTokenType(t *testing.T) {
	m := newTestManager(15*time.Minute, 7*24*time.Hour)

	token, err := m.GenerateRefreshToken("acc-1", "student")
	if err != nil {
		t.Fatalf("生成 Refresh Token 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("TokenType 错误: %s", claims.TokenType)
	}
}

func TestParseExpiredToken(t *testing.T) {
	m := newTestManager(-time.Minute, 7*24*time.Hour)

	token, err := m.GenerateAccessToken("acc-1", "student")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("过期 Token 期望 ErrTokenExpired, 实际: %v", err)
	}
}

func TestParseGarbageToken(t *testing.T) {
	m := newTestManager(15*time.Minute, 7*24*time.Hour)

	if _, err := m.ParseToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("非法 Token 期望 ErrTokenInvalid, 实际: %v", err)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	m := newTestManager(15*time.Minute, 7*24*time.Hour)
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, err := other.GenerateAccessToken("acc-1", "student")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("签名不匹配期望 ErrTokenInvalid, 实际: %v", err)
	}
}

func TestTokenJTIUnique(t *testing.T) {
	m := newTestManager(15*time.Minute, 7*24*time.Hour)

	t1, err := m.GenerateRefreshToken("acc-1", "student")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}
	t2, err := m.GenerateRefreshToken("acc-1", "student")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	c1, err := m.ParseToken(t1)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	c2, err := m.ParseToken(t2)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if c1.ID == c2.ID {
		t.Error("两次签发的 jti 不应相同")
	}
}
