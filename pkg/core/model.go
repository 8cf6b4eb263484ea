package core

import "time"

type Config struct {
	Environment string
	Port        int
	SkipAuth    bool
	Otel        OtelConfig
	Redis       RedisConfig
	Paystack    PaystackConfig
	SheetDB     SheetDBConfig
	Identity    IdentityConfig
	States      StatesConfig
	Enrollment  EnrollmentConfig
}

type OtlpConfig struct {
	Endpoint string
	Insecure bool
}

type OtelConfig struct {
	OtlpExporter OtlpConfig
	Disable      bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PaystackConfig carries the checkout processor credentials. PublicKey is
// what the hosted checkout is initialized with; SecretKey authenticates the
// server-side initialize/verify calls.
type PaystackConfig struct {
	BaseURL   string
	PublicKey string
	SecretKey string
}

// SheetDBConfig points at the spreadsheet-backed storage API that enrollment
// records are appended to.
type SheetDBConfig struct {
	APIURL      string
	BearerToken string
}

type IdentityConfig struct {
	BaseURL   string
	APIKey    string
	ProjectID string
	JWKSURL   string
}

type StatesConfig struct {
	BaseURL  string
	CacheTTL time.Duration
}

type EnrollmentConfig struct {
	// How long the workflow waits for a terminal checkout outcome before
	// abandoning the attempt locally.
	CheckoutFailsafe time.Duration
	// Interval between transaction verification polls.
	VerifyInterval time.Duration
	// How long a saved draft survives without being touched.
	DraftTTL time.Duration
}
