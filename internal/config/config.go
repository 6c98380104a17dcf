// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"buzzugc/internal/domain/model"
)

type RuntimeConfig struct {
	Dev bool
}

// Duration accepts Go duration strings ("2s", "90s") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SupabaseConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// VideoConfig wires the transport chain: two relay endpoints plus the
// provider's own direct/queue surfaces. Relay entries left empty are skipped.
type VideoConfig struct {
	PrimaryRelayURL   string        `yaml:"primary_relay_url"`
	SecondaryRelayURL string        `yaml:"secondary_relay_url"`
	FalAPIKey         string        `yaml:"fal_api_key"`
	FalSyncURL        string   `yaml:"fal_sync_url"`
	FalQueueURL       string   `yaml:"fal_queue_url"`
	PollInterval      Duration `yaml:"poll_interval"`
	PollTimeout       Duration `yaml:"poll_timeout"`
	ConcurrentLimit   int      `yaml:"concurrent_limit"` // max concurrent provider calls
}

type StripeConfig struct {
	SecretKey     string                  `yaml:"secret_key"`
	WebhookSecret string                  `yaml:"webhook_secret"`
	SuccessPath   string                  `yaml:"success_path"`
	CancelPath    string                  `yaml:"cancel_path"`
	PriceIDs      map[model.PlanID]string `yaml:"price_ids"` // plan -> Stripe price id
}

// GrantsConfig is the legacy allow-list of grandfathered users (ids or
// emails) resolved to the professional tier when no subscription exists.
type GrantsConfig struct {
	Plan    model.PlanID `yaml:"plan"`
	Members []string     `yaml:"members"`
}

type RateLimitConfig struct {
	GeneratePerMinute int `yaml:"generate_per_minute"`
}

type Config struct {
	Server    ServerConfig       `yaml:"server"`
	Log       LogConfig          `yaml:"log"`
	Database  DatabaseConfig     `yaml:"database"`
	Redis     RedisConfig        `yaml:"redis"`
	Supabase  SupabaseConfig     `yaml:"supabase"`
	Video     VideoConfig        `yaml:"video"`
	Stripe    StripeConfig       `yaml:"stripe"`
	Grants    GrantsConfig       `yaml:"grants"`
	RateLimit RateLimitConfig    `yaml:"rate_limit"`
	Plans     []model.PlanLimits `yaml:"plans"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Video.FalSyncURL == "" {
		cfg.Video.FalSyncURL = "https://api.fal.ai/fal-ai/veo3/fast/image-to-video"
	}
	if cfg.Video.FalQueueURL == "" {
		cfg.Video.FalQueueURL = "https://queue.fal.ai/fal-ai/veo3/fast/image-to-video"
	}
	if cfg.Video.PollInterval <= 0 {
		cfg.Video.PollInterval = Duration(2 * time.Second)
	}
	if cfg.Video.PollTimeout <= 0 {
		cfg.Video.PollTimeout = Duration(90 * time.Second)
	}
	if cfg.Video.ConcurrentLimit <= 0 {
		cfg.Video.ConcurrentLimit = 16
	}
	if cfg.Stripe.SuccessPath == "" {
		cfg.Stripe.SuccessPath = "/?success=true&session_id={CHECKOUT_SESSION_ID}"
	}
	if cfg.Stripe.CancelPath == "" {
		cfg.Stripe.CancelPath = "/"
	}
	if cfg.Grants.Plan == "" {
		cfg.Grants.Plan = model.PlanProfessional
	}
	if cfg.RateLimit.GeneratePerMinute <= 0 {
		cfg.RateLimit.GeneratePerMinute = 5
	}
}

// PlanTable folds configured plan overrides over the shipped defaults, so a
// partial plans section only replaces the tiers it names.
func (cfg *Config) PlanTable() map[model.PlanID]model.PlanLimits {
	table := model.DefaultPlanTable()
	for _, p := range cfg.Plans {
		if p.Plan == "" {
			continue
		}
		table[p.Plan] = p
	}
	return table
}
