package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// serviceAuthMiddleware guards the endpoints only the bot front-end may call
// (access-code registration, profile pictures). The bot authenticates with an
// HMAC token carrying a "service" claim.
func serviceAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		service, _ := claims["service"].(string)
		if service == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not a service token"})
			c.Abort()
			return
		}
		c.Set("service", service)
		c.Next()
	}
}

// makeServiceToken mints a token for a front-end service. Used by tests and
// by the migrate-time helper that prints the bot's token.
func makeServiceToken(service string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"service": service,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret)
}
