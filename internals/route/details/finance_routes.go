package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	expenseRoute "schoolbill_backend/internals/features/finance/expenses/route"
	feeRoute "schoolbill_backend/internals/features/finance/feestructures/route"
	invoiceRoute "schoolbill_backend/internals/features/finance/invoices/route"
	planRoute "schoolbill_backend/internals/features/finance/paymentplans/route"
	paymentRoute "schoolbill_backend/internals/features/finance/payments/route"
	reportRoute "schoolbill_backend/internals/features/finance/reports/route"
	studentRoute "schoolbill_backend/internals/features/school/students/route"
)

// AllFinanceRoutes mounts every billing feature under the authenticated group.
func AllFinanceRoutes(r fiber.Router, db *gorm.DB) {
	studentRoute.StudentRoutes(r, db)
	feeRoute.FeeStructureRoutes(r, db)
	invoiceRoute.InvoiceRoutes(r, db)
	paymentRoute.FeePaymentRoutes(r, db)
	planRoute.PaymentPlanRoutes(r, db)
	expenseRoute.ExpenseRoutes(r, db)
	reportRoute.ReportRoutes(r, db)
}
