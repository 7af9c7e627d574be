package config

import (
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SESSION_SECRET", "test-secret")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_SessionSecretRequired(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SESSION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without SESSION_SECRET")
	}
}

func TestLoad_SecureCookiesDefaultByEnv(t *testing.T) {
	t.Run("prod defaults to secure cookies", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SESSION_SECURE_COOKIES", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SecureCookies {
			t.Fatalf("expected SecureCookies=true in prod by default")
		}
	})

	t.Run("dev defaults to insecure cookies", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("SESSION_SECURE_COOKIES", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SecureCookies {
			t.Fatalf("expected SecureCookies=false in dev by default")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_SERVICE_NAME", "teamstats-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "teamstats-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	setBaseEnv(t)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	setBaseEnv(t)

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_AppBaseURLTrimsTrailingSlash(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_BASE_URL", "https://app.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppBaseURL != "https://app.example.com" {
		t.Fatalf("unexpected app base url: %q", cfg.AppBaseURL)
	}
}

func TestLoad_MailgunConfigParsing(t *testing.T) {
	setBaseEnv(t)

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("MAILGUN_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.MailgunEnabled {
			t.Fatalf("expected MailgunEnabled=false by default")
		}
	})

	t.Run("enabled requires domain key and sender", func(t *testing.T) {
		t.Setenv("MAILGUN_ENABLED", "true")
		t.Setenv("MAILGUN_DOMAIN", "")
		t.Setenv("MAILGUN_API_KEY", "")
		t.Setenv("MAILGUN_SENDER", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when MAILGUN_ENABLED=true without required env")
		}
	})

	t.Run("enabled with required values", func(t *testing.T) {
		t.Setenv("MAILGUN_ENABLED", "true")
		t.Setenv("MAILGUN_DOMAIN", "mg.example.com")
		t.Setenv("MAILGUN_API_KEY", "key-123")
		t.Setenv("MAILGUN_SENDER", "TeamStats <no-reply@mg.example.com>")
		t.Setenv("MAILGUN_TIMEOUT", "7s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.MailgunEnabled {
			t.Fatalf("expected MailgunEnabled=true")
		}
		if cfg.MailgunDomain != "mg.example.com" {
			t.Fatalf("unexpected mailgun domain: %q", cfg.MailgunDomain)
		}
		if cfg.MailgunTimeout != 7*time.Second {
			t.Fatalf("unexpected mailgun timeout: %s", cfg.MailgunTimeout)
		}
		if cfg.MailgunCircuitFailureCount != 5 {
			t.Fatalf("unexpected default circuit failure count: %d", cfg.MailgunCircuitFailureCount)
		}
	})
}

func TestLoad_StorageConfigParsing(t *testing.T) {
	setBaseEnv(t)

	t.Run("enabled requires bucket and public base url", func(t *testing.T) {
		t.Setenv("STORAGE_ENABLED", "true")
		t.Setenv("STORAGE_BUCKET", "")
		t.Setenv("STORAGE_PUBLIC_BASE_URL", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when STORAGE_ENABLED=true without bucket")
		}
	})

	t.Run("enabled with required values", func(t *testing.T) {
		t.Setenv("STORAGE_ENABLED", "true")
		t.Setenv("STORAGE_BUCKET", "teamstats-media")
		t.Setenv("STORAGE_PUBLIC_BASE_URL", "https://media.example.com")
		t.Setenv("STORAGE_REGION", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageBucket != "teamstats-media" {
			t.Fatalf("unexpected bucket: %q", cfg.StorageBucket)
		}
		if cfg.StorageRegion != "auto" {
			t.Fatalf("expected default region auto, got %q", cfg.StorageRegion)
		}
	})
}

func TestLoad_BillingConfigParsing(t *testing.T) {
	setBaseEnv(t)

	t.Run("enabled requires api key and webhook secret", func(t *testing.T) {
		t.Setenv("BILLING_ENABLED", "true")
		t.Setenv("STRIPE_API_KEY", "")
		t.Setenv("STRIPE_WEBHOOK_SECRET", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when BILLING_ENABLED=true without stripe env")
		}
	})

	t.Run("enabled with required values", func(t *testing.T) {
		t.Setenv("BILLING_ENABLED", "true")
		t.Setenv("STRIPE_API_KEY", "sk_test_123")
		t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
		t.Setenv("BILLING_TEAM_PRODUCT_ID", "prod_team")
		t.Setenv("STRIPE_WEBHOOK_TOLERANCE", "2m")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.BillingTeamProductID != "prod_team" {
			t.Fatalf("unexpected product id: %q", cfg.BillingTeamProductID)
		}
		if cfg.StripeWebhookTolerance != 2*time.Minute {
			t.Fatalf("unexpected webhook tolerance: %s", cfg.StripeWebhookTolerance)
		}
	})
}

func TestLoad_ParserConfigParsing(t *testing.T) {
	setBaseEnv(t)

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("PARSER_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.ParserEnabled {
			t.Fatalf("expected ParserEnabled=false by default")
		}
		if cfg.OpenAIModel != "gpt-4o-mini" {
			t.Fatalf("unexpected default model: %q", cfg.OpenAIModel)
		}
	})

	t.Run("enabled requires api key", func(t *testing.T) {
		t.Setenv("PARSER_ENABLED", "true")
		t.Setenv("OPENAI_API_KEY", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when PARSER_ENABLED=true without OPENAI_API_KEY")
		}
	})
}

func TestLoad_TaskConfigParsing(t *testing.T) {
	setBaseEnv(t)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("TASK_WORKER_COUNT", "")
		t.Setenv("TASK_TIMEOUT", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.TaskWorkerCount != 4 {
			t.Fatalf("unexpected default worker count: %d", cfg.TaskWorkerCount)
		}
		if cfg.TaskTimeout != 30*time.Second {
			t.Fatalf("unexpected default task timeout: %s", cfg.TaskTimeout)
		}
	})

	t.Run("invalid worker count", func(t *testing.T) {
		t.Setenv("TASK_WORKER_COUNT", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for TASK_WORKER_COUNT=0")
		}
	})
}
