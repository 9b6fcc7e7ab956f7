package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// BearerAuth 校验 Authorization: Bearer <secret>
// 缺少凭证返回 401，凭证错误返回 403
func BearerAuth(validate func(secret string) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, bearerPrefix) {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Authorization required",
				})
			}

			if !validate(strings.TrimPrefix(auth, bearerPrefix)) {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "Invalid credentials",
				})
			}
			return next(c)
		}
	}
}
