package enrollment

import (
	"encoding/json"
	"fmt"
)

// legacyForm is the single-student flat shape an earlier revision of the
// form submitted. It carries one implicit fee line.
type legacyForm struct {
	ParentFirstName string  `json:"parentFirstName"`
	ParentLastName  string  `json:"parentLastName"`
	ParentEmail     string  `json:"parentEmail"`
	ParentPhone     string  `json:"parentPhone"`
	StudentFirst    string  `json:"studentFirstName"`
	StudentLast     string  `json:"studentLastName"`
	StudentDob      string  `json:"studentDob"`
	StudentGender   string  `json:"studentGender"`
	GradeLevel      string  `json:"gradeLevel"`
	AcademicYear    string  `json:"academicYear"`
	Term            string  `json:"term"`
	FeeType         string  `json:"feeType"`
	Amount          float64 `json:"amount"`
	AdditionalInfo  string  `json:"additionalInfo"`
}

func (l legacyForm) upgrade() Form {
	return Form{
		ShapeVersion:    ShapeMultiStudent,
		ParentFirstName: l.ParentFirstName,
		ParentLastName:  l.ParentLastName,
		ParentEmail:     l.ParentEmail,
		ParentPhone:     l.ParentPhone,
		AcademicYear:    l.AcademicYear,
		Term:            l.Term,
		AdditionalInfo:  l.AdditionalInfo,
		Students: []StudentRecord{
			{
				FirstName:  l.StudentFirst,
				LastName:   l.StudentLast,
				DOB:        l.StudentDob,
				Gender:     l.StudentGender,
				GradeLevel: l.GradeLevel,
				Fees: []FeeLine{
					{Type: l.FeeType, Amount: l.Amount},
				},
			},
		},
	}
}

// DecodeForm parses a form payload of either shape and returns the
// canonical multi-student form. Payloads without a students array are
// treated as the legacy single-student shape.
func DecodeForm(data []byte) (Form, error) {
	var probe struct {
		ShapeVersion ShapeVersion    `json:"shapeVersion"`
		Students     json.RawMessage `json:"students"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Form{}, fmt.Errorf("decode form: %w", err)
	}

	if probe.ShapeVersion == ShapeSingleStudent ||
		(probe.ShapeVersion == 0 && len(probe.Students) == 0) {
		var legacy legacyForm
		if err := json.Unmarshal(data, &legacy); err != nil {
			return Form{}, fmt.Errorf("decode legacy form: %w", err)
		}
		return legacy.upgrade(), nil
	}

	var form Form
	if err := json.Unmarshal(data, &form); err != nil {
		return Form{}, fmt.Errorf("decode form: %w", err)
	}
	form.ShapeVersion = ShapeMultiStudent
	return form, nil
}
