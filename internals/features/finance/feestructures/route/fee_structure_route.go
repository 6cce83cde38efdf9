package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/finance/feestructures/controller"
)

// FeeStructureRoutes mounts the fee catalog, per-student overrides and
// scholarship endpoints under the authenticated school scope.
func FeeStructureRoutes(r fiber.Router, db *gorm.DB) {
	feeCtrl := controller.NewFeeStructureController(db)
	schCtrl := controller.NewScholarshipController(db)

	fees := r.Group("/fee-structures")
	fees.Get("/", feeCtrl.List)
	fees.Post("/", feeCtrl.Create)
	fees.Patch("/:id", feeCtrl.Update)
	fees.Delete("/:id", feeCtrl.Delete)

	overrides := r.Group("/fee-overrides")
	overrides.Get("/", feeCtrl.ListOverrides)
	overrides.Post("/", feeCtrl.CreateOverride)
	overrides.Delete("/:id", feeCtrl.DeleteOverride)

	scholarships := r.Group("/scholarships")
	scholarships.Get("/", schCtrl.List)
	scholarships.Post("/", schCtrl.Create)
	scholarships.Post("/:id/assign", schCtrl.Assign)
}
