package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys hydrated by the auth_school middleware.
const (
	LocSchoolID = "school_id"
	LocUserID   = "user_id"
	LocRoles    = "roles"
)

func uuidFromLocals(c *fiber.Ctx, key string) (uuid.UUID, error) {
	v := c.Locals(key)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" missing from token")
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" missing from token")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+key+" in token")
	}
	return id, nil
}

// ResolveSchoolIDFromContext returns the active school of the authenticated
// session. Every billing query is scoped by this id.
func ResolveSchoolIDFromContext(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidFromLocals(c, LocSchoolID)
}

// GetUserIDFromContext returns the acting user (receivedBy/recordedBy fields).
func GetUserIDFromContext(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidFromLocals(c, LocUserID)
}

// HasRole reports whether the token carries the given role claim.
func HasRole(c *fiber.Ctx, role string) bool {
	v := c.Locals(LocRoles)
	switch t := v.(type) {
	case []string:
		for _, r := range t {
			if strings.EqualFold(r, role) {
				return true
			}
		}
	case []any:
		for _, r := range t {
			if s, ok := r.(string); ok && strings.EqualFold(s, role) {
				return true
			}
		}
	case string:
		return strings.EqualFold(t, role)
	}
	return false
}

// EnsureStaffSchool guards mutating finance endpoints: the session must carry a
// staff-grade role (admin or bursar).
func EnsureStaffSchool(c *fiber.Ctx) error {
	if HasRole(c, "admin") || HasRole(c, "bursar") || HasRole(c, "owner") {
		return nil
	}
	return fiber.NewError(fiber.StatusForbidden, "staff role required")
}
