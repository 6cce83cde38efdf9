package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolbill_backend/internals/configs"
	authMw "schoolbill_backend/internals/middlewares/auth_school"
	"schoolbill_backend/internals/route/details"
)

// SetupRoutes wires the /api/a group: everything billing is school-scoped and
// sits behind the JWT middleware that hydrates (school_id, user_id, roles).
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	a := api.Group("/a", authMw.AuthJWT(authMw.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	}))

	details.AllFinanceRoutes(a, db)
}
