package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Token constants shared by the HTML session cookie and the JSON API.
const (
	TokenIssuer   = "postboard-api"
	TokenAudience = "postboard-client"
	SessionCookie = "session"
	TokenTTL      = 7 * 24 * time.Hour
)

var (
	ErrMissingToken = errors.New("authorization required")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// TokenClaims is the validated subset of a session token.
type TokenClaims struct {
	UserID    uint
	Username  string
	JTI       string
	ExpiresAt time.Time
}

// IssueToken signs an HS256 token for the user.
func IssueToken(secret string, userID uint, username string, ttl time.Duration) (string, TokenClaims, error) {
	now := time.Now()
	tc := TokenClaims{
		UserID:    userID,
		Username:  username,
		JTI:       uuid.NewString(),
		ExpiresAt: now.Add(ttl),
	}

	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      TokenIssuer,
		"aud":      TokenAudience,
		"exp":      tc.ExpiresAt.Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      tc.JTI,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", TokenClaims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, tc, nil
}

// ParseToken validates signature, expiry, issuer and audience.
func ParseToken(secret, raw string) (*TokenClaims, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	tc := &TokenClaims{UserID: uint(userID)}
	tc.Username, _ = claims["username"].(string)
	tc.JTI, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tc.ExpiresAt = exp.Time
	}
	return tc, nil
}

// TokenFromRequest returns the bearer token if present, otherwise the session cookie.
func TokenFromRequest(c *fiber.Ctx) string {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Cookies(SessionCookie)
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}

// IsTokenRevoked checks the Redis blacklist. A nil client or lookup error counts as not revoked.
func IsTokenRevoked(ctx context.Context, rdb *redis.Client, jti string) bool {
	if rdb == nil || jti == "" {
		return false
	}
	n, err := rdb.Exists(ctx, blacklistKey(jti)).Result()
	return err == nil && n > 0
}

// RevokeToken blacklists the token until it would have expired anyway.
func RevokeToken(ctx context.Context, rdb *redis.Client, tc *TokenClaims) error {
	if rdb == nil || tc == nil || tc.JTI == "" {
		return nil
	}
	ttl := time.Until(tc.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, blacklistKey(tc.JTI), "1", ttl).Err()
}

// Authenticate resolves the caller from the request token and stores the ids in locals.
// It never rejects a request; handlers decide whether a user is required.
func Authenticate(secret string, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tc, err := ParseToken(secret, TokenFromRequest(c))
		if err == nil && !IsTokenRevoked(c.UserContext(), rdb, tc.JTI) {
			c.Locals("userID", tc.UserID)
			c.Locals("username", tc.Username)
			c.Locals("claims", tc)
			c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, tc.UserID))
		}
		return c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by Authenticate.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	uid, ok := c.Locals("userID").(uint)
	return uid, ok && uid != 0
}

// CurrentClaims returns the token claims set by Authenticate.
func CurrentClaims(c *fiber.Ctx) *TokenClaims {
	tc, _ := c.Locals("claims").(*TokenClaims)
	return tc
}
