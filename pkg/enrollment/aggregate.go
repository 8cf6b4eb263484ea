package enrollment

import (
	"fmt"
	"math"
	"strings"
)

// TotalAmount sums every fee line across all students. Zero-valued amounts
// contribute nothing, and the result does not depend on student or fee
// ordering.
func TotalAmount(students []StudentRecord) float64 {
	var total float64
	for _, student := range students {
		for _, fee := range student.Fees {
			total += fee.Amount
		}
	}
	return total
}

// FeeTypeSummary joins the distinct non-empty fee type labels across all
// students, in order of first appearance, duplicates removed.
func FeeTypeSummary(students []StudentRecord) string {
	seen := make(map[string]struct{})
	var types []string
	for _, student := range students {
		for _, fee := range student.Fees {
			if fee.Type == "" {
				continue
			}
			if _, ok := seen[fee.Type]; ok {
				continue
			}
			seen[fee.Type] = struct{}{}
			types = append(types, fee.Type)
		}
	}
	return strings.Join(types, ", ")
}

// AmountInKobo converts a naira amount to the processor's minor currency
// unit.
func AmountInKobo(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ParentName builds the parent display name from prefix and name parts.
func (f Form) ParentName() string {
	return strings.TrimSpace(strings.Join(nonEmpty(
		f.ParentPrefix,
		f.ParentFirstName,
		f.ParentLastName,
	), " "))
}

// FullName builds the student display name including an optional middle
// name.
func (s StudentRecord) FullName() string {
	return strings.TrimSpace(strings.Join(nonEmpty(
		s.FirstName,
		s.MiddleName,
		s.LastName,
	), " "))
}

// SessionMetadata is the metadata bag passed opaquely to the checkout.
func (f Form) SessionMetadata() map[string]string {
	return map[string]string{
		"parent_name":   f.ParentName(),
		"student_count": fmt.Sprintf("%d", len(f.Students)),
		"fee_type":      FeeTypeSummary(f.Students),
	}
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
