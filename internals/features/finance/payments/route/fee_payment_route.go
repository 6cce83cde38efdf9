package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/finance/payments/controller"
)

func FeePaymentRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewFeePaymentController(db)

	payments := r.Group("/payments")
	payments.Get("/", ctrl.List)
	payments.Post("/", ctrl.Record)
	payments.Get("/students/:studentId", ctrl.StudentHistory)
	payments.Post("/:id/void", ctrl.Void)
}
