package middleware

import (
	"strings"

	"tripstore/internal/delivery/api/response"
	"tripstore/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const (
	contextKeySubject = "subject"
	contextKeyRoles   = "roles"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer access token and stores its subject and roles.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}
		if claims.Subject == "" {
			return response.Unauthorized(c, "INVALID_TOKEN", "Subject missing from token")
		}

		c.Set(contextKeySubject, claims.Subject)
		c.Set(contextKeyRoles, claims.Roles)

		return next(c)
	}
}

// RequireRole checks that the authenticated caller holds role.
// It must be used after Authenticate.
func (m *AuthMiddleware) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, ok := c.Get(contextKeyRoles).([]string)
			if !ok {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: role information missing")
			}

			claims := service.Claims{Roles: roles}
			if !claims.HasRole(role) {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: require '"+role+"' role")
			}

			return next(c)
		}
	}
}

// GetSubject returns the authenticated subject, if any.
func GetSubject(c echo.Context) (string, bool) {
	subject, ok := c.Get(contextKeySubject).(string)

	return subject, ok && subject != ""
}
