package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/finance/expenses/controller"
)

func ExpenseRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewExpenseController(db)

	expenses := r.Group("/expenses")
	expenses.Get("/", ctrl.List)
	expenses.Post("/", ctrl.Create)
	expenses.Delete("/:id", ctrl.Delete)
}
