package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"learnit/config"
	"learnit/database"
	"learnit/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateJWT generates a JWT token for the user
func GenerateJWT(userID uint, name, role, email string) (string, error) {
	ttl := time.Duration(config.AppConfig.JWTTTL) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	claims := jwt.MapClaims{
		"userId": userID,
		"name":   name,
		"role":   role,
		"email":  email,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// BlacklistKey is the Redis key a revoked token is stored under
func BlacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "jwt:blacklist:" + hex.EncodeToString(sum[:])
}

// JWTMiddleware checks for a valid bearer token and stores userId, role and the token
// expiry in the request context. Unknown users get 401 and blocked users 403.
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Authorization header format", nil)
	}

	tokenString := strings.TrimSpace(authHeader[len("Bearer "):])

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
	}
	// MapClaims only checks exp when present
	if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	userID, ok := claims["userId"].(float64) // numeric claims decode as float64
	if !ok || userID <= 0 {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
	}
	role, _ := claims["role"].(string)

	if database.Redis != nil {
		revoked, err := database.Redis.Exists(c.UserContext(), BlacklistKey(tokenString)).Result()
		if err == nil && revoked > 0 {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Token has been revoked", nil)
		}
	}

	// The stored role wins over the claim so role changes and blocks apply to live tokens
	if database.Database.Db != nil {
		var user models.User
		if err := database.Database.Db.Select("id", "role", "is_blocked").First(&user, uint(userID)).Error; err != nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}
		if user.IsBlocked {
			return JsonResponse(c, fiber.StatusForbidden, false, "Your account has been blocked!", nil)
		}
		role = user.Role
	}

	c.Locals("userId", uint(userID))
	c.Locals("role", role)
	c.Locals("token", tokenString)
	if exp, ok := claims["exp"].(float64); ok {
		c.Locals("tokenExp", time.Unix(int64(exp), 0))
	}

	return c.Next()
}
