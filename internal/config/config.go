package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"optin-webhook-service/internal/optin/adapters/heroku"
	"optin-webhook-service/internal/optin/core/usecase"
)

type Config struct {
	Port          string
	VerifyToken   string
	WebhookSecret string
	HerokuAPIKey  string
	HerokuAPIURL  string
	PostgresDSN   string

	// OptinLabels maps a normalized action label to a campaign key.
	OptinLabels map[string]string

	// CampaignDynos maps a campaign key to the one-off dyno it starts.
	CampaignDynos map[string]heroku.Dyno
}

// Load reads the configuration from the environment. VERIFY_TOKEN and
// HEROKU_API_KEY are required; POSTGRES_DSN is optional (without it the
// service falls back to the in-process consent ledger). OPTIN_LABELS and
// CAMPAIGN_DYNOS accept JSON objects replacing the built-in tables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		VerifyToken:   os.Getenv("VERIFY_TOKEN"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		HerokuAPIKey:  os.Getenv("HEROKU_API_KEY"),
		HerokuAPIURL:  getenv("HEROKU_API_URL", heroku.DefaultBaseURL),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
	}

	if cfg.VerifyToken == "" {
		return nil, errors.New("VERIFY_TOKEN is not set")
	}
	if cfg.HerokuAPIKey == "" {
		return nil, errors.New("HEROKU_API_KEY is not set")
	}

	labels := defaultOptinLabels()
	if raw := os.Getenv("OPTIN_LABELS"); raw != "" {
		labels = map[string]string{}
		if err := json.Unmarshal([]byte(raw), &labels); err != nil {
			return nil, fmt.Errorf("OPTIN_LABELS: %w", err)
		}
	}

	// Table keys are matched against normalized action labels, so they
	// are normalized here once instead of on every lookup.
	cfg.OptinLabels = make(map[string]string, len(labels))
	for label, key := range labels {
		cfg.OptinLabels[usecase.NormalizeLabel(label)] = key
	}

	cfg.CampaignDynos = defaultCampaignDynos()
	if raw := os.Getenv("CAMPAIGN_DYNOS"); raw != "" {
		cfg.CampaignDynos = map[string]heroku.Dyno{}
		if err := json.Unmarshal([]byte(raw), &cfg.CampaignDynos); err != nil {
			return nil, fmt.Errorf("CAMPAIGN_DYNOS: %w", err)
		}
	}

	for label, key := range cfg.OptinLabels {
		if _, ok := cfg.CampaignDynos[key]; !ok {
			return nil, fmt.Errorf("label %q points at campaign %q with no dyno configured", label, key)
		}
	}

	return cfg, nil
}

func defaultOptinLabels() map[string]string {
	return map[string]string{
		"update email prefs": "email-updates",
		"yes, send updates":  "email-updates",
		"adjust edtech":      "edtech-updates",
		"edtech information": "edtech-updates",
	}
}

func defaultCampaignDynos() map[string]heroku.Dyno {
	return map[string]heroku.Dyno{
		"email-updates":  {App: "ai-email-bot", Command: "node src/index.js"},
		"edtech-updates": {App: "edtech-scraper", Command: "node src/index.js"},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
