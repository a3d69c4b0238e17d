package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend call modes.
const (
	ModeCompletion = "completion" // stateless structured completion
	ModeAgent      = "agent"      // stateful thread + run + poll
)

// Coding stage modes.
const (
	CodingModel      = "model"      // ICD and CPT both derived by the backend
	CodingDictionary = "dictionary" // CPT candidates built from dictionary matches
)

// Config holds all runtime configuration for the service. There are no
// package-level globals; a Config is constructed once in main and passed into
// each component explicitly.
type Config struct {
	ListenAddr string
	LogFormat  string // "text" or "json"

	// APIKey is the inbound shared secret checked on every request.
	APIKey string

	// Generative backend settings.
	BackendBaseURL string
	BackendAPIKey  string
	BackendModel   string
	BackendMode    string // ModeCompletion or ModeAgent

	// TranscribeModel names the speech-to-text model.
	TranscribeModel string

	// Per-stage agent identifiers, opaque, used only in agent mode.
	ICDAgentID string
	CPTAgentID string
	LCDAgentID string

	CodingMode     string
	DictionaryPath string

	// RedactPII enables the best-effort transcript scrub before extraction.
	RedactPII bool

	// Bounds on outbound calls. Every external wait in the pipeline is
	// limited by one of these; there are no unbounded loops.
	RequestTimeout time.Duration
	PollInterval   time.Duration
	PollTimeout    time.Duration
	MaxRetries     int
}

// yamlConfig is the on-disk YAML structure. Only pipeline tuning lives in the
// file; secrets and addresses come from flags or the environment.
type yamlConfig struct {
	ICDAgentID     string `yaml:"icd_agent_id"`
	CPTAgentID     string `yaml:"cpt_agent_id"`
	LCDAgentID     string `yaml:"lcd_agent_id"`
	CodingMode     string `yaml:"coding_mode"`
	DictionaryPath string `yaml:"dictionary_path"`
	RedactPII      *bool  `yaml:"redact_pii"`
	RequestTimeout string `yaml:"request_timeout"`
	PollInterval   string `yaml:"poll_interval"`
	PollTimeout    string `yaml:"poll_timeout"`
	MaxRetries     *int   `yaml:"max_retries"`
}

// LoadFromFile reads a YAML config file and merges non-zero values into c.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.ICDAgentID != "" {
		c.ICDAgentID = yc.ICDAgentID
	}
	if yc.CPTAgentID != "" {
		c.CPTAgentID = yc.CPTAgentID
	}
	if yc.LCDAgentID != "" {
		c.LCDAgentID = yc.LCDAgentID
	}
	if yc.CodingMode != "" {
		c.CodingMode = yc.CodingMode
	}
	if yc.DictionaryPath != "" {
		c.DictionaryPath = yc.DictionaryPath
	}
	if yc.RedactPII != nil {
		c.RedactPII = *yc.RedactPII
	}
	if err := setDuration(&c.RequestTimeout, yc.RequestTimeout, "request_timeout"); err != nil {
		return err
	}
	if err := setDuration(&c.PollInterval, yc.PollInterval, "poll_interval"); err != nil {
		return err
	}
	if err := setDuration(&c.PollTimeout, yc.PollTimeout, "poll_timeout"); err != nil {
		return err
	}
	if yc.MaxRetries != nil {
		c.MaxRetries = *yc.MaxRetries
	}
	return nil
}

// setDuration parses a "60s"-style value into dst when present.
func setDuration(dst *time.Duration, raw, field string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", field, err)
	}
	*dst = d
	return nil
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8000"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.BackendModel == "" {
		c.BackendModel = "gpt-4o"
	}
	if c.BackendMode == "" {
		c.BackendMode = ModeCompletion
	}
	if c.TranscribeModel == "" {
		c.TranscribeModel = "whisper-1"
	}
	if c.CodingMode == "" {
		c.CodingMode = CodingModel
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 60 * time.Second
	}
	if c.PollInterval == 0 {
		c.PollInterval = time.Second
	}
	if c.PollTimeout == 0 {
		c.PollTimeout = 2 * time.Minute
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
}

// Validate checks required fields and enum values.
func (c *Config) Validate() error {
	if c.BackendAPIKey == "" {
		return fmt.Errorf("backend API key is required (set SCRIBE_BACKEND_API_KEY)")
	}
	switch c.BackendMode {
	case ModeCompletion, ModeAgent:
	default:
		return fmt.Errorf("unknown backend mode %q", c.BackendMode)
	}
	switch c.CodingMode {
	case CodingModel, CodingDictionary:
	default:
		return fmt.Errorf("unknown coding mode %q", c.CodingMode)
	}
	if c.BackendMode == ModeAgent {
		if c.ICDAgentID == "" || c.LCDAgentID == "" {
			return fmt.Errorf("agent mode requires icd_agent_id and lcd_agent_id")
		}
		if c.CodingMode == CodingModel && c.CPTAgentID == "" {
			return fmt.Errorf("agent mode with model coding requires cpt_agent_id")
		}
	}
	return nil
}

// ValidateServe additionally checks fields the HTTP gateway needs.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("inbound API key is required (set SCRIBE_API_KEY)")
	}
	return nil
}
