package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/finance/invoices/controller"
)

func InvoiceRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewInvoiceController(db)

	invoices := r.Group("/invoices")
	invoices.Get("/", ctrl.List)
	invoices.Post("/generate", ctrl.Generate)
	invoices.Post("/remind-all", ctrl.BulkRemind)
	invoices.Get("/:id", ctrl.GetByID)
	invoices.Patch("/:id", ctrl.Update)
	invoices.Post("/:id/remind", ctrl.Remind)
}
