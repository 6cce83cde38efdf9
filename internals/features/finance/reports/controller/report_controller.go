package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolbill_backend/internals/features/finance/reports/service"
	helper "schoolbill_backend/internals/helpers"
	helperAuth "schoolbill_backend/internals/helpers/auth"
)

type ReportController struct {
	DB      *gorm.DB
	Debtors *service.Debtors
	Stats   *service.Stats
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{
		DB:      db,
		Debtors: service.NewDebtors(db),
		Stats:   service.NewStats(db),
	}
}

func queryInt16(c *fiber.Ctx, name string) *int16 {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	out := int16(n)
	return &out
}

// =========================================================
// GET /api/a/reports/debtors
// =========================================================
func (ctrl *ReportController) Debtorlist(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "balance", "desc", helper.DefaultOpts)

	params := service.ListDebtorsParams{
		SchoolID: schoolID,
		Term:     queryInt16(c, "term"),
		Year:     queryInt16(c, "year"),
		Limit:    p.Limit(),
		Offset:   p.Offset(),
	}
	if v := strings.TrimSpace(c.Query("class_level")); v != "" {
		params.ClassLevel = &v
	}

	rows, summary, total, err := ctrl.Debtors.ListDebtors(c.Context(), params)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to build debtor report")
	}

	return helper.JsonListEx(c, "debtors fetched", rows, helper.BuildMeta(total, p), fiber.Map{
		"aging_summary": summary,
	})
}

// =========================================================
// GET /api/a/reports/summary
// =========================================================
func (ctrl *ReportController) FinancialSummary(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	summary, err := ctrl.Stats.FinancialSummary(c.Context(), schoolID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to build financial summary")
	}

	return helper.JsonOK(c, "financial summary fetched", summary)
}

// =========================================================
// GET /api/a/reports/hub
// =========================================================
func (ctrl *ReportController) HubStats(c *fiber.Ctx) error {
	schoolID, err := helperAuth.ResolveSchoolIDFromContext(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	stats, err := ctrl.Stats.HubStats(c.Context(), schoolID, queryInt16(c, "term"), queryInt16(c, "year"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to build hub stats")
	}

	return helper.JsonOK(c, "hub stats fetched", stats)
}
