package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/school/students/controller"
)

func StudentRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewStudentController(db)

	students := r.Group("/students")
	students.Get("/", ctrl.List)
	students.Get("/:id", ctrl.GetByID)
}
