package paystack

type CustomField struct {
	DisplayName  string `json:"display_name"`
	VariableName string `json:"variable_name"`
	Value        string `json:"value"`
}

type Metadata struct {
	CustomFields []CustomField `json:"custom_fields"`
}

type InitializeRequest struct {
	Email string `json:"email"`
	// Amount in kobo (lowest currency unit).
	Amount      int64     `json:"amount"`
	Reference   string    `json:"reference,omitempty"`
	Metadata    *Metadata `json:"metadata,omitempty"`
	CallbackURL string    `json:"callback_url,omitempty"`
}

type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type initializeResponse struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Data    InitializeData `json:"data"`
}

// Transaction states Paystack reports from verification.
const (
	TransactionSuccess   = "success"
	TransactionFailed    = "failed"
	TransactionAbandoned = "abandoned"
	TransactionOngoing   = "ongoing"
	TransactionPending   = "pending"
)

type VerifyData struct {
	Status          string `json:"status"`
	Reference       string `json:"reference"`
	Amount          int64  `json:"amount"`
	GatewayResponse string `json:"gateway_response"`
	PaidAt          string `json:"paid_at"`
	Channel         string `json:"channel"`
	Currency        string `json:"currency"`
}

type verifyResponse struct {
	Status  bool       `json:"status"`
	Message string     `json:"message"`
	Data    VerifyData `json:"data"`
}

// Terminal reports whether a verified transaction has reached an end state.
func (d VerifyData) Terminal() bool {
	switch d.Status {
	case TransactionSuccess, TransactionFailed, TransactionAbandoned:
		return true
	}
	return false
}
