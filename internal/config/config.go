package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// SiteCreds holds one WordPress installation's URL and WooCommerce keys.
type SiteCreds struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
}

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// Portal session tokens and the WordPress login-token shared secret.
	AuthHMACSecret string
	WPTokenSecret  string

	// bcrypt hash of the purchase-webhook shared secret.
	WebhookSecretHash string

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	// Commerce proxy targets, keyed by site name ("certempire", "staging").
	Sites       map[string]SiteCreds
	DefaultSite string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	sites := map[string]SiteCreds{}
	if u := os.Getenv("CERTEMPIRE_WP_SITE_URL"); u != "" {
		sites["certempire"] = SiteCreds{
			BaseURL:        strings.TrimSuffix(u, "/"),
			ConsumerKey:    os.Getenv("CERTEMPIRE_WC_CONSUMER_KEY"),
			ConsumerSecret: os.Getenv("CERTEMPIRE_WC_CONSUMER_SECRET"),
		}
	}
	if u := os.Getenv("STAGING_SITE_URL"); u != "" {
		sites["staging"] = SiteCreds{
			BaseURL:        strings.TrimSuffix(u, "/"),
			ConsumerKey:    os.Getenv("STAGING_CONSUMER_KEY"),
			ConsumerSecret: os.Getenv("STAGING_SECRET_KEY"),
		}
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           addr,
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		AuthHMACSecret:     envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		WPTokenSecret:      envOr("WP_TOKEN_SECRET", "supersecret-dev-key"),
		WebhookSecretHash:  envOr("WEBHOOK_SECRET_HASH", ""),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://portal.certempire.com"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
		Sites:              sites,
		DefaultSite:        envOr("DEFAULT_SITE", "certempire"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
