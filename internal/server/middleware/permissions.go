package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// Graph permissions. kg.edit covers the administration routes (manual
// entity changes, extraction requests) and implies kg.view.
const (
	PermissionView = "kg.view"
	PermissionEdit = "kg.edit"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

var rolePermissions = map[string][]string{
	RoleAdmin:  {PermissionView, PermissionEdit},
	RoleEditor: {PermissionView, PermissionEdit},
	RoleViewer: {PermissionView},
}

// PermissionsForRole returns what a role grants when the token carries no
// permissions claim. Unknown roles grant nothing.
func PermissionsForRole(role string) []string {
	return slices.Clone(rolePermissions[role])
}

// Can reports whether user holds permission, directly or through kg.edit.
func Can(user *AppUser, permission string) bool {
	if user == nil {
		return false
	}
	if slices.Contains(user.Permissions, permission) {
		return true
	}
	return permission == PermissionView && slices.Contains(user.Permissions, PermissionEdit)
}

// Require guards a route with a graph permission.
func Require(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := c.(*AppContext).User
			if user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			if !Can(user, permission) {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error":    "Forbidden",
					"required": permission,
				})
			}
			return next(c)
		}
	}
}
