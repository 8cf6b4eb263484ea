package enrollment

// ShapeVersion tags which revision of the enrollment form a payload uses.
// The multi-student shape with nested fee lines is canonical; the legacy
// single-student flat shape is upgraded on ingest.
type ShapeVersion int

const (
	ShapeSingleStudent ShapeVersion = 1
	ShapeMultiStudent  ShapeVersion = 2
)

// FeeLine is one (type, amount) pair attached to a student. An amount must
// be greater than zero for the line to count toward the payable total.
type FeeLine struct {
	Type   string  `json:"type" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0"`
}

type StudentRecord struct {
	FirstName  string `json:"firstName" validate:"required"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName" validate:"required"`
	DOB        string `json:"dob" validate:"required"`
	Gender     string `json:"gender" validate:"required"`
	GradeLevel string `json:"gradeLevel" validate:"required"`

	StudentType string `json:"studentType,omitempty"`

	// Student address; when SameAsParent is set the parent's address,
	// state and LGA override these at record-build time.
	StudentAddress string `json:"studentAddress,omitempty"`
	StudentState   string `json:"studentState,omitempty"`
	StudentLga     string `json:"studentLga,omitempty"`
	SameAsParent   bool   `json:"sameAsParent,omitempty"`

	PreviousSchool string `json:"previousSchool,omitempty"`
	TransferReason string `json:"transferReason,omitempty"`

	Allergies             string `json:"allergies,omitempty"`
	MedicalConditions     string `json:"medicalConditions,omitempty"`
	EmergencyContactName  string `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string `json:"emergencyContactPhone,omitempty"`

	Fees []FeeLine `json:"fees" validate:"required,min=1,dive"`
}

type Form struct {
	ShapeVersion ShapeVersion `json:"shapeVersion,omitempty"`

	ParentPrefix        string `json:"parentPrefix,omitempty"`
	ParentFirstName     string `json:"parentFirstName" validate:"required,min=2"`
	ParentLastName      string `json:"parentLastName" validate:"required,min=2"`
	ParentEmail         string `json:"parentEmail" validate:"required,email"`
	ParentPhone         string `json:"parentPhone" validate:"required,min=10"`
	RelationshipToChild string `json:"relationshipToChild,omitempty"`
	Address             string `json:"address,omitempty"`
	State               string `json:"state,omitempty"`
	Lga                 string `json:"lga,omitempty"`

	AcademicYear string `json:"academicYear" validate:"required"`
	Term         string `json:"term" validate:"required"`

	AdditionalInfo string `json:"additionalInfo,omitempty"`

	Students []StudentRecord `json:"students" validate:"required,min=1,dive"`
}

// IsEmpty reports whether nothing has been entered yet, covering every
// field a user can touch. A draft is only ever rehydrated into an entirely
// empty form.
func (f Form) IsEmpty() bool {
	return f.ParentPrefix == "" &&
		f.ParentFirstName == "" &&
		f.ParentLastName == "" &&
		f.ParentEmail == "" &&
		f.ParentPhone == "" &&
		f.RelationshipToChild == "" &&
		f.Address == "" &&
		f.State == "" &&
		f.Lga == "" &&
		f.AcademicYear == "" &&
		f.Term == "" &&
		f.AdditionalInfo == "" &&
		len(f.Students) == 0
}

// PaymentSession is what a single checkout attempt is opened with. A fresh
// reference is generated per attempt and regenerated afterwards regardless
// of outcome.
type PaymentSession struct {
	Reference  string
	Email      string
	AmountKobo int64
	Metadata   map[string]string
}

// Record is the flattened submission persisted to remote storage after
// payment. Students and fee lines are carried as JSON-serialized strings
// because the storage backend is a spreadsheet row.
type Record struct {
	ParentPrefix        string `json:"parentPrefix"`
	ParentFirstName     string `json:"parentFirstName"`
	ParentLastName      string `json:"parentLastName"`
	ParentEmail         string `json:"parentEmail"`
	ParentPhone         string `json:"parentPhone"`
	RelationshipToChild string `json:"relationship_to_child"`
	Address             string `json:"address"`
	State               string `json:"State"`
	Lga                 string `json:"Lga"`

	AcademicYear string `json:"academicYear"`
	Term         string `json:"term"`

	FeeType          string  `json:"feeType"`
	PaymentMethod    string  `json:"paymentMethod"`
	Amount           float64 `json:"amount"`
	AmountInKobo     int64   `json:"amountInKobo"`
	PaymentReference string  `json:"paymentReference"`
	PaymentStatus    string  `json:"paymentStatus"`

	AdditionalInfo string `json:"additionalInfo"`

	Students string `json:"students"`
	Fees     string `json:"fees"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Status string

const (
	StatusSucceeded    Status = "succeeded"
	StatusInvalidInput Status = "invalid_input"
	StatusCancelled    Status = "cancelled"
	StatusTimedOut     Status = "timed_out"
	StatusCommitFailed Status = "commit_failed"
)

// Result is the user-facing outcome of one submission attempt.
type Result struct {
	Success     bool              `json:"success"`
	Status      Status            `json:"status"`
	Message     string            `json:"message"`
	Reference   string            `json:"reference,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}
