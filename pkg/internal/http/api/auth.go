package api

import (
	"strconv"
	"strings"

	"github.com/amoria/calling/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

func authMiddleware(c *fiber.Ctx) error {
	tk := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if len(tk) == 0 {
		tk = c.Query("tk")
	}
	if len(tk) == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "missing access token")
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tk, &claims, func(token *jwt.Token) (any, error) {
		return []byte(viper.GetString("security.jwt_secret")), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	userId, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "malformed subject claim")
	}

	user, err := services.GetAccount(uint(userId))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "account not found")
	}

	c.Locals("user", user)

	return c.Next()
}
