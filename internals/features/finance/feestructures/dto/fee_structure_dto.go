package dto

import (
	"github.com/google/uuid"

	"schoolbill_backend/internals/features/finance/feestructures/model"
)

// ========================== FEE STRUCTURES ==========================

type FeeStructureCreateDTO struct {
	FeeStructureClassLevel     string `json:"fee_structure_class_level" validate:"required,max=20"`
	FeeStructureFeeType        string `json:"fee_structure_fee_type" validate:"required,max=60"`
	FeeStructureAmount         int    `json:"fee_structure_amount" validate:"required,min=1"`
	FeeStructureTerm           *int16 `json:"fee_structure_term,omitempty" validate:"omitempty,min=1,max=3"`
	FeeStructureYear           int16  `json:"fee_structure_year" validate:"required,min=2020,max=2100"`
	FeeStructureBoardingStatus string `json:"fee_structure_boarding_status" validate:"omitempty,oneof=all day boarding"`
}

func (in FeeStructureCreateDTO) ToModel(schoolID uuid.UUID) model.FeeStructure {
	boarding := in.FeeStructureBoardingStatus
	if boarding == "" {
		boarding = "all"
	}
	return model.FeeStructure{
		FeeStructureSchoolID:       schoolID,
		FeeStructureClassLevel:     in.FeeStructureClassLevel,
		FeeStructureFeeType:        in.FeeStructureFeeType,
		FeeStructureAmount:         in.FeeStructureAmount,
		FeeStructureTerm:           in.FeeStructureTerm,
		FeeStructureYear:           in.FeeStructureYear,
		FeeStructureBoardingStatus: boarding,
		FeeStructureIsActive:       true,
	}
}

// Update (partial)
type FeeStructureUpdateDTO struct {
	FeeStructureClassLevel     *string `json:"fee_structure_class_level,omitempty" validate:"omitempty,max=20"`
	FeeStructureFeeType        *string `json:"fee_structure_fee_type,omitempty" validate:"omitempty,max=60"`
	FeeStructureAmount         *int    `json:"fee_structure_amount,omitempty" validate:"omitempty,min=1"`
	FeeStructureTerm           *int16  `json:"fee_structure_term,omitempty" validate:"omitempty,min=1,max=3"`
	FeeStructureYear           *int16  `json:"fee_structure_year,omitempty" validate:"omitempty,min=2020,max=2100"`
	FeeStructureBoardingStatus *string `json:"fee_structure_boarding_status,omitempty" validate:"omitempty,oneof=all day boarding"`
	FeeStructureIsActive       *bool   `json:"fee_structure_is_active,omitempty"`
}

func (in FeeStructureUpdateDTO) Apply(m *model.FeeStructure) {
	if in.FeeStructureClassLevel != nil {
		m.FeeStructureClassLevel = *in.FeeStructureClassLevel
	}
	if in.FeeStructureFeeType != nil {
		m.FeeStructureFeeType = *in.FeeStructureFeeType
	}
	if in.FeeStructureAmount != nil {
		m.FeeStructureAmount = *in.FeeStructureAmount
	}
	if in.FeeStructureTerm != nil {
		m.FeeStructureTerm = in.FeeStructureTerm
	}
	if in.FeeStructureYear != nil {
		m.FeeStructureYear = *in.FeeStructureYear
	}
	if in.FeeStructureBoardingStatus != nil {
		m.FeeStructureBoardingStatus = *in.FeeStructureBoardingStatus
	}
	if in.FeeStructureIsActive != nil {
		m.FeeStructureIsActive = *in.FeeStructureIsActive
	}
}

// ========================== OVERRIDES ==========================

type StudentFeeOverrideCreateDTO struct {
	StudentFeeOverrideStudentID    uuid.UUID `json:"student_fee_override_student_id" validate:"required"`
	StudentFeeOverrideFeeType      string    `json:"student_fee_override_fee_type" validate:"required,max=60"`
	StudentFeeOverrideCustomAmount int       `json:"student_fee_override_custom_amount" validate:"min=0"`
	StudentFeeOverrideTerm         *int16    `json:"student_fee_override_term,omitempty" validate:"omitempty,min=1,max=3"`
	StudentFeeOverrideYear         int16     `json:"student_fee_override_year" validate:"required,min=2020,max=2100"`
	StudentFeeOverrideReason       string    `json:"student_fee_override_reason" validate:"required"`
}

func (in StudentFeeOverrideCreateDTO) ToModel(schoolID uuid.UUID) model.StudentFeeOverride {
	return model.StudentFeeOverride{
		StudentFeeOverrideSchoolID:     schoolID,
		StudentFeeOverrideStudentID:    in.StudentFeeOverrideStudentID,
		StudentFeeOverrideFeeType:      in.StudentFeeOverrideFeeType,
		StudentFeeOverrideCustomAmount: in.StudentFeeOverrideCustomAmount,
		StudentFeeOverrideTerm:         in.StudentFeeOverrideTerm,
		StudentFeeOverrideYear:         in.StudentFeeOverrideYear,
		StudentFeeOverrideReason:       in.StudentFeeOverrideReason,
		StudentFeeOverrideIsActive:     true,
	}
}

// ========================== SCHOLARSHIPS ==========================

type ScholarshipCreateDTO struct {
	ScholarshipName          string   `json:"scholarship_name" validate:"required,max=120"`
	ScholarshipDiscountType  string   `json:"scholarship_discount_type" validate:"required,oneof=percentage fixed"`
	ScholarshipDiscountValue int      `json:"scholarship_discount_value" validate:"required,min=1"`
	ScholarshipFeeTypes      []string `json:"scholarship_fee_types,omitempty"`
}

func (in ScholarshipCreateDTO) ToModel(schoolID uuid.UUID) (model.Scholarship, error) {
	m := model.Scholarship{
		ScholarshipSchoolID:      schoolID,
		ScholarshipName:          in.ScholarshipName,
		ScholarshipDiscountType:  model.DiscountType(in.ScholarshipDiscountType),
		ScholarshipDiscountValue: in.ScholarshipDiscountValue,
		ScholarshipIsActive:      true,
	}
	if err := m.SetFeeTypes(in.ScholarshipFeeTypes); err != nil {
		return m, err
	}
	return m, nil
}

type StudentScholarshipAssignDTO struct {
	StudentScholarshipStudentID uuid.UUID `json:"student_scholarship_student_id" validate:"required"`
	StudentScholarshipTerm      *int16    `json:"student_scholarship_term,omitempty" validate:"omitempty,min=1,max=3"`
	StudentScholarshipYear      int16     `json:"student_scholarship_year" validate:"required,min=2020,max=2100"`
}
