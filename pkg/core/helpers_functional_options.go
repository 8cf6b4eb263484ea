package core

import "time"

func WithEnvironment(environment string) func(*Config) {
	return func(c *Config) {
		c.Environment = environment
	}
}

func WithPort(port int) func(*Config) {
	return func(c *Config) {
		c.Port = port
	}
}

func WithSkipAuth(value ...bool) func(*Config) {
	val := true
	if len(value) > 0 {
		val = value[0]
	}

	return func(c *Config) {
		c.SkipAuth = val
	}
}

func WithOtlpEndpoint(endpoint string) func(*Config) {
	return func(c *Config) {
		c.Otel.OtlpExporter.Endpoint = endpoint
	}
}

func WithOtelDisable(value ...bool) func(*Config) {
	val := true
	if len(value) > 0 {
		val = value[0]
	}

	return func(c *Config) {
		c.Otel.Disable = val
	}
}

func WithRedisAddr(addr string) func(*Config) {
	return func(c *Config) {
		c.Redis.Addr = addr
	}
}

func WithRedisPassword(pw string) func(*Config) {
	return func(c *Config) {
		c.Redis.Password = pw
	}
}

func WithRedisDB(db int) func(*Config) {
	return func(c *Config) {
		c.Redis.DB = db
	}
}

func WithPaystackKeys(publicKey, secretKey string) func(*Config) {
	return func(c *Config) {
		c.Paystack.PublicKey = publicKey
		c.Paystack.SecretKey = secretKey
	}
}

func WithPaystackBaseURL(baseURL string) func(*Config) {
	return func(c *Config) {
		c.Paystack.BaseURL = baseURL
	}
}

func WithSheetDBAPIURL(apiURL string) func(*Config) {
	return func(c *Config) {
		c.SheetDB.APIURL = apiURL
	}
}

func WithIdentityProject(projectID, apiKey string) func(*Config) {
	return func(c *Config) {
		c.Identity.ProjectID = projectID
		c.Identity.APIKey = apiKey
	}
}

func WithStatesBaseURL(baseURL string) func(*Config) {
	return func(c *Config) {
		c.States.BaseURL = baseURL
	}
}

func WithCheckoutFailsafe(d time.Duration) func(*Config) {
	return func(c *Config) {
		c.Enrollment.CheckoutFailsafe = d
	}
}

func WithVerifyInterval(d time.Duration) func(*Config) {
	return func(c *Config) {
		c.Enrollment.VerifyInterval = d
	}
}

func WithDraftTTL(d time.Duration) func(*Config) {
	return func(c *Config) {
		c.Enrollment.DraftTTL = d
	}
}
