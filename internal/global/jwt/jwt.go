package jwt

import (
	"time"

	"campus-activity/config"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

// Payload 写入 token 的用户信息
type Payload struct {
	StudentID string `json:"student_id"`
	RoleID    int    `json:"role_id"`
}

type Claims struct {
	Payload
	jwt.StandardClaims
}

// TokenID 用于撤销名单
func (c *Claims) TokenID() string {
	return c.Id
}

// ExpiresTime token 过期时间
func (c *Claims) ExpiresTime() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

func CreateToken(payload Payload) string {
	now := time.Now()
	claims := Claims{
		Payload: payload,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Duration(config.Get().JWT.AccessExpire) * time.Second).Unix(),
			Issuer:    "campus-activity",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.Get().JWT.AccessSecret))
	if err != nil {
		panic(err)
	}
	return token
}

// ParseToken 校验签名与过期时间
func ParseToken(token string) (*Claims, bool) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}
	return claims, true
}
