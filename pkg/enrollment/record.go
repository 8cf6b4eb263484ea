package enrollment

import (
	"encoding/json"
	"time"
)

const (
	paymentMethodPaystack  = "paystack"
	paymentStatusCompleted = "completed"
)

// flatFee is one fee line annotated with the student it belongs to, for the
// flattened fees column of the stored row.
type flatFee struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	StudentName string  `json:"studentName"`
}

// BuildRecord flattens a validated form plus its payment reference into the
// row appended to remote storage. Students with SameAsParent set inherit the
// parent's address, state and LGA.
func BuildRecord(form Form, reference string, now time.Time) Record {
	students := make([]StudentRecord, len(form.Students))
	copy(students, form.Students)
	for i := range students {
		if students[i].SameAsParent {
			students[i].StudentAddress = form.Address
			students[i].StudentState = form.State
			students[i].StudentLga = form.Lga
		}
	}

	var fees []flatFee
	for _, student := range students {
		for _, fee := range student.Fees {
			fees = append(fees, flatFee{
				Type:        fee.Type,
				Amount:      fee.Amount,
				StudentName: student.FullName(),
			})
		}
	}

	total := TotalAmount(form.Students)
	timestamp := now.UTC().Format(time.RFC3339)

	studentsJSON, _ := json.Marshal(students)
	feesJSON, _ := json.Marshal(fees)

	return Record{
		ParentPrefix:        form.ParentPrefix,
		ParentFirstName:     form.ParentFirstName,
		ParentLastName:      form.ParentLastName,
		ParentEmail:         form.ParentEmail,
		ParentPhone:         form.ParentPhone,
		RelationshipToChild: form.RelationshipToChild,
		Address:             form.Address,
		State:               form.State,
		Lga:                 form.Lga,
		AcademicYear:        form.AcademicYear,
		Term:                form.Term,
		FeeType:             FeeTypeSummary(form.Students),
		PaymentMethod:       paymentMethodPaystack,
		Amount:              total,
		AmountInKobo:        AmountInKobo(total),
		PaymentReference:    reference,
		PaymentStatus:       paymentStatusCompleted,
		AdditionalInfo:      form.AdditionalInfo,
		Students:            string(studentsJSON),
		Fees:                string(feesJSON),
		CreatedAt:           timestamp,
		UpdatedAt:           timestamp,
	}
}
