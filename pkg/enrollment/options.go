package enrollment

import (
	"fmt"
	"time"
)

// Option catalogs backing the form selects. Fee types are suggestions only;
// the fee line label itself stays free text.

var PrefixOptions = []string{"Mr", "Mrs", "Miss", "Ms"}

var GenderOptions = []string{"male", "female", "other"}

var GradeLevelOptions = []string{
	"Kindergarten",
	"Nursery 1",
	"Nursery 2",
	"Nursery 3",
	"Primary 1",
	"Primary 2",
	"Primary 3",
	"Primary 4",
	"Primary 5",
	"Primary 6",
	"JSS1",
	"JSS2",
	"JSS3",
	"SS1",
	"SS2",
	"SS3",
}

var StudentTypeOptions = []string{"returning", "new", "transfer"}

var TermOptions = []string{"First term", "Second term", "Third Term"}

var FeeTypeSuggestions = []string{
	"Tuition Fee",
	"Registration Fee",
	"Library & Books Fee",
	"Full Package",
}

// AcademicYears lists the five academic years selectable from the given
// point in time.
func AcademicYears(now time.Time) []string {
	years := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		start := now.Year() + i
		years = append(years, fmt.Sprintf("%d-%d", start, start+1))
	}
	return years
}

// Catalog bundles every option set for the options endpoint.
type Catalog struct {
	Prefixes      []string `json:"prefixes"`
	Genders       []string `json:"genders"`
	GradeLevels   []string `json:"gradeLevels"`
	StudentTypes  []string `json:"studentTypes"`
	Terms         []string `json:"terms"`
	FeeTypes      []string `json:"feeTypes"`
	AcademicYears []string `json:"academicYears"`
}

func OptionsCatalog(now time.Time) Catalog {
	return Catalog{
		Prefixes:      PrefixOptions,
		Genders:       GenderOptions,
		GradeLevels:   GradeLevelOptions,
		StudentTypes:  StudentTypeOptions,
		Terms:         TermOptions,
		FeeTypes:      FeeTypeSuggestions,
		AcademicYears: AcademicYears(now),
	}
}
