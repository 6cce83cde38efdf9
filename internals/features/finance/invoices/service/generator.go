package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	feemodel "schoolbill_backend/internals/features/finance/feestructures/model"
	"schoolbill_backend/internals/features/finance/invoices/model"
	studentmodel "schoolbill_backend/internals/features/school/students/model"
)

// Generator bulk-creates one invoice per (student, term, year) from the fee
// catalog, per-student overrides and assigned scholarships.
type Generator struct {
	DB *gorm.DB
}

func NewGenerator(db *gorm.DB) *Generator {
	return &Generator{DB: db}
}

type GenerateParams struct {
	SchoolID   uuid.UUID
	Term       int16
	Year       int16
	ClassLevel *string
	DueDate    *time.Time
}

type GenerateResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// overrideKey indexes overrides by (student, fee type).
type overrideKey struct {
	StudentID uuid.UUID
	FeeType   string
}

// Generate walks the active roster, prices each student against the catalog
// and writes one invoice + line items per student, each in its own
// transaction. Students that already hold an invoice for the period count as
// skipped; students no catalog entry applies to are passed over silently.
func (g *Generator) Generate(ctx context.Context, p GenerateParams) (*GenerateResult, error) {
	db := g.DB.WithContext(ctx)

	var students []studentmodel.Student
	q := db.Where("student_school_id = ? AND student_is_active = ?", p.SchoolID, true)
	if p.ClassLevel != nil && strings.TrimSpace(*p.ClassLevel) != "" {
		q = q.Where("student_class_level = ?", strings.TrimSpace(*p.ClassLevel))
	}
	if err := q.Order("student_full_name ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	var structures []feemodel.FeeStructure
	if err := db.
		Where("fee_structure_school_id = ? AND fee_structure_is_active = ?", p.SchoolID, true).
		Where("fee_structure_year = ?", p.Year).
		Where("fee_structure_term IS NULL OR fee_structure_term = ?", p.Term).
		Find(&structures).Error; err != nil {
		return nil, err
	}

	overrides, err := g.loadOverrides(db, p)
	if err != nil {
		return nil, err
	}
	scholarships, err := g.loadScholarships(db, p)
	if err != nil {
		return nil, err
	}

	// existing invoices for the period, keyed by student
	var existing []model.Invoice
	if err := db.
		Where("invoice_school_id = ? AND invoice_term = ? AND invoice_year = ?", p.SchoolID, p.Term, p.Year).
		Find(&existing).Error; err != nil {
		return nil, err
	}
	hasInvoice := make(map[uuid.UUID]bool, len(existing))
	for _, inv := range existing {
		hasInvoice[inv.InvoiceStudentID] = true
	}

	res := &GenerateResult{}
	for i := range students {
		st := &students[i]
		if hasInvoice[st.StudentID] {
			res.Skipped++
			continue
		}

		items := g.priceStudent(st, structures, overrides, scholarships)
		if len(items) == 0 {
			continue
		}

		if err := g.createInvoice(db, p, st, items); err != nil {
			return res, err
		}
		res.Created++
	}
	return res, nil
}

func (g *Generator) loadOverrides(db *gorm.DB, p GenerateParams) (map[overrideKey]int, error) {
	var rows []feemodel.StudentFeeOverride
	if err := db.
		Where("student_fee_override_school_id = ? AND student_fee_override_is_active = ?", p.SchoolID, true).
		Where("student_fee_override_year = ?", p.Year).
		Where("student_fee_override_term IS NULL OR student_fee_override_term = ?", p.Term).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[overrideKey]int, len(rows))
	for _, r := range rows {
		out[overrideKey{r.StudentFeeOverrideStudentID, r.StudentFeeOverrideFeeType}] = r.StudentFeeOverrideCustomAmount
	}
	return out, nil
}

// loadScholarships joins active assignments to active scholarship rules and
// groups them per student in a deterministic composition order: percentage
// discounts first, then fixed, ties broken by creation time. Mixed
// percentage/fixed composition is order-sensitive, so the order is pinned here
// rather than left to query ordering.
func (g *Generator) loadScholarships(db *gorm.DB, p GenerateParams) (map[uuid.UUID][]feemodel.Scholarship, error) {
	var assignments []feemodel.StudentScholarship
	if err := db.
		Where("student_scholarship_school_id = ? AND student_scholarship_status = ?", p.SchoolID, feemodel.StudentScholarshipStatusActive).
		Where("student_scholarship_year = ?", p.Year).
		Where("student_scholarship_term IS NULL OR student_scholarship_term = ?", p.Term).
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return map[uuid.UUID][]feemodel.Scholarship{}, nil
	}

	ids := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.StudentScholarshipScholarshipID)
	}
	var rules []feemodel.Scholarship
	if err := db.
		Where("scholarship_id IN ? AND scholarship_is_active = ?", ids, true).
		Find(&rules).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]feemodel.Scholarship, len(rules))
	for _, r := range rules {
		byID[r.ScholarshipID] = r
	}

	out := make(map[uuid.UUID][]feemodel.Scholarship)
	for _, a := range assignments {
		if rule, ok := byID[a.StudentScholarshipScholarshipID]; ok {
			out[a.StudentScholarshipStudentID] = append(out[a.StudentScholarshipStudentID], rule)
		}
	}
	for studentID := range out {
		list := out[studentID]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].ScholarshipDiscountType != list[j].ScholarshipDiscountType {
				return list[i].ScholarshipDiscountType == feemodel.DiscountTypePercentage
			}
			return list[i].ScholarshipCreatedAt.Before(list[j].ScholarshipCreatedAt)
		})
		out[studentID] = list
	}
	return out, nil
}

// priceStudent resolves line items for one student: catalog amount, replaced
// by an active override for (student, fee type), then discounted by every
// applicable scholarship in order.
func (g *Generator) priceStudent(
	st *studentmodel.Student,
	structures []feemodel.FeeStructure,
	overrides map[overrideKey]int,
	scholarships map[uuid.UUID][]feemodel.Scholarship,
) []model.InvoiceItem {
	var items []model.InvoiceItem
	for i := range structures {
		fs := &structures[i]
		if !fs.AppliesTo(st.StudentClassLevel, string(st.StudentBoardingStatus)) {
			continue
		}

		amount := fs.FeeStructureAmount
		if custom, ok := overrides[overrideKey{st.StudentID, fs.FeeStructureFeeType}]; ok {
			amount = custom
		}
		amount = applyScholarships(amount, fs.FeeStructureFeeType, scholarships[st.StudentID])

		items = append(items, model.InvoiceItem{
			InvoiceItemFeeType:     fs.FeeStructureFeeType,
			InvoiceItemDescription: fmt.Sprintf("%s - %s", fs.FeeStructureFeeType, fs.FeeStructureClassLevel),
			InvoiceItemAmount:      amount,
		})
	}
	return items
}

// applyScholarships composes discounts sequentially: percentage discounts
// multiply, fixed discounts subtract, floored at zero.
func applyScholarships(amount int, feeType string, rules []feemodel.Scholarship) int {
	for i := range rules {
		r := &rules[i]
		if !r.CoversFeeType(feeType) {
			continue
		}
		switch r.ScholarshipDiscountType {
		case feemodel.DiscountTypePercentage:
			amount = int(math.Round(float64(amount) * float64(100-r.ScholarshipDiscountValue) / 100))
		case feemodel.DiscountTypeFixed:
			amount -= r.ScholarshipDiscountValue
		}
		if amount < 0 {
			amount = 0
		}
	}
	return amount
}

func (g *Generator) createInvoice(db *gorm.DB, p GenerateParams, st *studentmodel.Student, items []model.InvoiceItem) error {
	total := 0
	for _, it := range items {
		total += it.InvoiceItemAmount
	}

	return db.Transaction(func(tx *gorm.DB) error {
		inv := model.Invoice{
			InvoiceSchoolID:    p.SchoolID,
			InvoiceStudentID:   st.StudentID,
			InvoiceNumber:      InvoiceNumber(p.Year, p.Term, p.SchoolID, st.StudentID),
			InvoiceTerm:        p.Term,
			InvoiceYear:        p.Year,
			InvoiceTotalAmount: total,
			InvoiceAmountPaid:  0,
			InvoiceBalance:     total,
			InvoiceDueDate:     p.DueDate,
			InvoiceStatus:      model.InvoiceStatusUnpaid,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceItemInvoiceID = inv.InvoiceID
		}
		return tx.Create(&items).Error
	})
}

// InvoiceNumber builds the deterministic invoice number
// INV-{year}-T{term}-{school}-{student}. School and student ids are UUIDs, so
// their leading hex segments stand in for the numeric ids of older receipt
// books; the period/school/student tuple keeps the scheme naturally
// idempotent.
func InvoiceNumber(year, term int16, schoolID, studentID uuid.UUID) string {
	school := strings.ReplaceAll(schoolID.String(), "-", "")[:8]
	student := strings.ReplaceAll(studentID.String(), "-", "")[:12]
	return fmt.Sprintf("INV-%d-T%d-%s-%s", year, term, strings.ToUpper(school), strings.ToUpper(student))
}
