package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer = "group_chat"

	SubjectAccess  = "access_token"
	SubjectRefresh = "refresh_token"
)

// ErrWrongSubject Token 类型不符，例如拿 Refresh Token 访问接口
var ErrWrongSubject = errors.New("token subject mismatch")

// JWTConfig JWT 配置
type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration // Access Token 有效期
	RefreshTokenExpiry time.Duration // Refresh Token 有效期
}

// 全局配置，由 Init 函数初始化
var jwtConfig *JWTConfig

// Init 初始化 JWT 配置
func Init(secret string, accessExpiryMinutes, refreshExpiryHours int) {
	jwtConfig = &JWTConfig{
		Secret:             secret,
		AccessTokenExpiry:  time.Duration(accessExpiryMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshExpiryHours) * time.Hour,
	}
}

// Claims 自定义 JWT 声明
type Claims struct {
	UserID  uint   `json:"user_id"`
	TokenID string `json:"token_id,omitempty"` // 仅 Refresh Token 使用，登录时写入 Redis
	jwt.RegisteredClaims
}

func sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.Secret))
}

func registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   subject,
	}
}

// GenerateAccessToken 生成 Access Token (短期，用于接口认证)
func GenerateAccessToken(userID uint) (string, error) {
	return sign(Claims{
		UserID:           userID,
		RegisteredClaims: registered(SubjectAccess, jwtConfig.AccessTokenExpiry),
	})
}

// GenerateRefreshToken 生成 Refresh Token (长期，用于刷新 Access Token)
// 返回 token 字符串和 tokenID，新登录会覆盖旧的 tokenID
func GenerateRefreshToken(userID uint) (tokenString string, tokenID string, err error) {
	tokenID = uuid.NewString()
	tokenString, err = sign(Claims{
		UserID:           userID,
		TokenID:          tokenID,
		RegisteredClaims: registered(SubjectRefresh, jwtConfig.RefreshTokenExpiry),
	})
	return
}

// ParseToken 解析并验证 Token
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtConfig.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// ParseAccessToken 解析并要求为 Access Token
func ParseAccessToken(tokenString string) (*Claims, error) {
	return parseSubject(tokenString, SubjectAccess)
}

// ParseRefreshToken 解析并要求为 Refresh Token
func ParseRefreshToken(tokenString string) (*Claims, error) {
	return parseSubject(tokenString, SubjectRefresh)
}

func parseSubject(tokenString, subject string) (*Claims, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Subject != subject {
		return nil, ErrWrongSubject
	}
	return claims, nil
}
