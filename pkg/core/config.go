package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	defaultConfigEnvironment = "development"
	defaultConfigPort        = 8000
	defaultSkipAuth          = false

	defaultOtelDisable          = false
	defaultOTLPExporterEndpoint = "localhost:4317"
	defaultOTLPInsecure         = false

	defaultRedisAddr     = "localhost:6379"
	defaultRedisPassword = ""
	defaultRedisDB       = 0

	defaultPaystackBaseURL = "https://api.paystack.co"

	defaultSheetDBAPIURL = "https://sheetdb.io/api/v1/ll7yrru73p0vm"

	defaultIdentityBaseURL = "https://identitytoolkit.googleapis.com/v1"
	defaultIdentityJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

	defaultStatesBaseURL  = "https://states-and-cities.com/api/v1"
	defaultStatesCacheTTL = 24 * time.Hour

	defaultCheckoutFailsafe = 60 * time.Second
	defaultVerifyInterval   = 3 * time.Second
	defaultDraftTTL         = 7 * 24 * time.Hour
)

func DefaultConfig() Config {
	return Config{
		Environment: defaultConfigEnvironment,
		Port:        defaultConfigPort,
		SkipAuth:    defaultSkipAuth,
		Otel: OtelConfig{
			Disable: defaultOtelDisable,
			OtlpExporter: OtlpConfig{
				Endpoint: defaultOTLPExporterEndpoint,
				Insecure: defaultOTLPInsecure,
			},
		},
		Redis: RedisConfig{
			Addr:     defaultRedisAddr,
			Password: defaultRedisPassword,
			DB:       defaultRedisDB,
		},
		Paystack: PaystackConfig{
			BaseURL: defaultPaystackBaseURL,
		},
		SheetDB: SheetDBConfig{
			APIURL: defaultSheetDBAPIURL,
		},
		Identity: IdentityConfig{
			BaseURL: defaultIdentityBaseURL,
			JWKSURL: defaultIdentityJWKSURL,
		},
		States: StatesConfig{
			BaseURL:  defaultStatesBaseURL,
			CacheTTL: defaultStatesCacheTTL,
		},
		Enrollment: EnrollmentConfig{
			CheckoutFailsafe: defaultCheckoutFailsafe,
			VerifyInterval:   defaultVerifyInterval,
			DraftTTL:         defaultDraftTTL,
		},
	}
}

func NewConfig(options ...func(*Config)) Config {
	config := DefaultConfig()
	for _, opt := range options {
		opt(&config)
	}
	return config
}

func NewConfigFromEnv(options ...func(*Config)) (Config, error) {
	config := DefaultConfig()
	err := errors.Join(
		setFromEnv(&config.Environment, "ENVIRONMENT"),
		setFromEnv(&config.Port, "PORT"),
		setFromEnv(&config.SkipAuth, "SKIP_AUTH"),
		setFromEnv(&config.Otel.Disable, "OTEL_DISABLE"),
		setFromEnv(&config.Otel.OtlpExporter.Endpoint, "OTEL_OTLP_EXPORTER_ENDPOINT"),
		setFromEnv(&config.Otel.OtlpExporter.Insecure, "OTEL_OTLP_EXPORTER_INSECURE"),
		setFromEnv(&config.Redis.Addr, "REDIS_ADDR"),
		setFromEnv(&config.Redis.Password, "REDIS_PASSWORD"),
		setFromEnv(&config.Redis.DB, "REDIS_DB"),
		setFromEnv(&config.Paystack.BaseURL, "PAYSTACK_BASE_URL"),
		setFromEnv(&config.Paystack.PublicKey, "PAYSTACK_PUBLIC_KEY"),
		setFromEnv(&config.Paystack.SecretKey, "PAYSTACK_SECRET_KEY"),
		setFromEnv(&config.SheetDB.APIURL, "SHEETDB_API_URL"),
		setFromEnv(&config.SheetDB.BearerToken, "SHEETDB_BEARER_TOKEN"),
		setFromEnv(&config.Identity.BaseURL, "IDENTITY_BASE_URL"),
		setFromEnv(&config.Identity.APIKey, "IDENTITY_API_KEY"),
		setFromEnv(&config.Identity.ProjectID, "IDENTITY_PROJECT_ID"),
		setFromEnv(&config.Identity.JWKSURL, "IDENTITY_JWKS_URL"),
		setFromEnv(&config.States.BaseURL, "STATES_BASE_URL"),
		setFromEnv(&config.States.CacheTTL, "STATES_CACHE_TTL"),
		setFromEnv(&config.Enrollment.CheckoutFailsafe, "CHECKOUT_FAILSAFE"),
		setFromEnv(&config.Enrollment.VerifyInterval, "CHECKOUT_VERIFY_INTERVAL"),
		setFromEnv(&config.Enrollment.DraftTTL, "DRAFT_TTL"),
	)

	for _, opt := range options {
		opt(&config)
	}

	return config, err
}

func LoadEnv(environment ...string) error {
	filenames := []string{
		".env.local",
		".env",
	}

	env := getEnv("ENVIRONMENT", DefaultConfig().Environment)
	if len(environment) > 0 {
		env = environment[0]
	}

	if env != "" {
		file := ".env." + env + ".local"
		filenames = append([]string{file}, filenames...)
	}

	var errs error

	for _, filename := range filenames {
		err := loadEnvFile(filename)
		if err != nil {
			errs = errors.Join(
				errs,
				fmt.Errorf("error loading %s: %w", filename, err),
			)
		}
	}

	return errs
}
