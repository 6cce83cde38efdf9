package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/finance/paymentplans/controller"
)

func PaymentPlanRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPaymentPlanController(db)

	plans := r.Group("/payment-plans")
	plans.Get("/", ctrl.List)
	plans.Post("/", ctrl.Create)
	plans.Get("/:id", ctrl.GetByID)
	plans.Post("/:id/installments/:installmentId/pay", ctrl.PayInstallment)
}
