// Load envs from .env, load the YAML config, apply env overrides and
// defaults, then validate required fields.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so values like "1h" or "30s" can be written
// directly in the YAML file.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	ServerPort string `yaml:"server_port"`

	// Zalo OA
	ZaloBaseURL     string `yaml:"zalo_base_url"`
	ZaloAccessToken string `yaml:"-"` // secret, env only
	HRChannelID     string `yaml:"hr_channel_id"`

	// External collaborators
	DirectoryBaseURL string `yaml:"directory_base_url"`
	AnalyzerBaseURL  string `yaml:"analyzer_base_url"`
	AgentBaseURL     string `yaml:"agent_base_url"`

	// Storage
	UploadDir string `yaml:"upload_dir"`

	// Processing
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`

	// Timeouts and windows
	SendTimeout     Duration `yaml:"send_timeout"`
	ExternalTimeout Duration `yaml:"external_timeout"`
	DedupTTL        Duration `yaml:"dedup_ttl"`
	// PendingRegistrationTTL of 0 keeps unresolved registrations forever.
	PendingRegistrationTTL Duration `yaml:"pending_registration_ttl"`

	// Filename pattern tables for the attachment classifier. Kept as
	// configuration data so they can be tested and tuned independently of
	// the dispatch logic.
	CVPatterns  []string `yaml:"cv_patterns"`
	WBSPatterns []string `yaml:"wbs_patterns"`
}

// Load reads the YAML file at path (missing file is not an error), applies
// environment overrides and defaults, and validates required fields.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// Override with env vars
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.ServerPort = port
	}
	if base := os.Getenv("ZALO_BASE_URL"); base != "" {
		cfg.ZaloBaseURL = base
	}
	cfg.ZaloAccessToken = os.Getenv("ZALO_ACCESS_TOKEN")
	if hr := os.Getenv("HR_CHANNEL_ID"); hr != "" {
		cfg.HRChannelID = hr
	}
	if dir := os.Getenv("USER_DIRECTORY_URL"); dir != "" {
		cfg.DirectoryBaseURL = dir
	}
	if analyzer := os.Getenv("CV_ANALYZER_URL"); analyzer != "" {
		cfg.AnalyzerBaseURL = analyzer
	}
	if agent := os.Getenv("CHATBOT_AGENT_URL"); agent != "" {
		cfg.AgentBaseURL = agent
	}
	if workers := os.Getenv("WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return nil, fmt.Errorf("invalid WORKERS: %w", err)
		}
		cfg.Workers = n
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
	if c.ZaloBaseURL == "" {
		c.ZaloBaseURL = "https://openapi.zalo.me"
	}
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.Workers <= 0 {
		c.Workers = 5
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 100
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = Duration(10 * time.Second)
	}
	if c.ExternalTimeout <= 0 {
		c.ExternalTimeout = Duration(30 * time.Second)
	}
	if c.DedupTTL <= 0 {
		c.DedupTTL = Duration(time.Hour)
	}
	if len(c.CVPatterns) == 0 {
		c.CVPatterns = []string{"cv", "resume", "curriculum", "ho so"}
	}
	if len(c.WBSPatterns) == 0 {
		c.WBSPatterns = []string{"wbs", "work breakdown", "project plan", "ke hoach"}
	}
}

func (c *Config) validate() error {
	if c.ZaloAccessToken == "" {
		return fmt.Errorf("ZALO_ACCESS_TOKEN is required")
	}
	if c.HRChannelID == "" {
		return fmt.Errorf("HR_CHANNEL_ID is required")
	}
	return nil
}
