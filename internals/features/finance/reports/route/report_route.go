package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/finance/reports/controller"
)

func ReportRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewReportController(db)

	reports := r.Group("/reports")
	reports.Get("/debtors", ctrl.Debtorlist)
	reports.Get("/summary", ctrl.FinancialSummary)
	reports.Get("/hub", ctrl.HubStats)
}
