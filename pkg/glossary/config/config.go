package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/glossary/pkg/glossary/internalerr"
)

// Config is the run configuration of the glossary engine
type Config struct {
	Database       Database       `yaml:"database"`
	Logging        Logging        `yaml:"logging"`
	Embedding      Embedding      `yaml:"embedding"`
	Completion     Completion     `yaml:"completion"`
	Extraction     Extraction     `yaml:"extraction"`
	Selection      Selection      `yaml:"selection"`
	Contexts       Contexts       `yaml:"contexts"`
	Classification Classification `yaml:"classification"`
	Enrichment     Enrichment     `yaml:"enrichment"`
	Document       Document       `yaml:"document"`
}

// Database selects the glossary store
type Database struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite memory"`
	Path   string `yaml:"path" validate:"required_if=Driver sqlite"`
}

// Logging configures logrus
type Logging struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Embedding selects the embedding backend
type Embedding struct {
	Provider   string `yaml:"provider" validate:"oneof=openai hashing"`
	Model      string `yaml:"model" validate:"required_if=Provider openai"`
	BaseURL    string `yaml:"base_url"`
	APIKeyEnv  string `yaml:"api_key_env"`
	Dimensions int    `yaml:"dimensions" validate:"gte=0"`
	CacheSize  int    `yaml:"cache_size" validate:"gte=0"`
	ChunkSize  int    `yaml:"chunk_size" validate:"gt=0"`
}

// Completion configures the enrichment service
type Completion struct {
	Model       string        `yaml:"model" validate:"required"`
	BaseURL     string        `yaml:"base_url"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	Temperature float32       `yaml:"temperature" validate:"gte=0,lte=2"`
	Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
}

// Extraction tunes both generators and the merge
type Extraction struct {
	TopN           int      `yaml:"top_n" validate:"gt=0"`
	MaxModifiers   int      `yaml:"max_modifiers" validate:"gt=0"`
	Stopwords      []string `yaml:"stopwords"`
	MergeThreshold float64  `yaml:"merge_threshold" validate:"gt=0,lte=1"`
	AlwaysInclude  int      `yaml:"always_include" validate:"gte=0"`
	Prefilter      bool     `yaml:"prefilter"`
}

// Selection holds the reference filter and score thresholds
type Selection struct {
	ReferenceThreshold float64 `yaml:"reference_threshold" validate:"gt=0,lte=1"`
	MinFinalScore      float64 `yaml:"min_final_score" validate:"gte=0,lte=1"`
}

// Contexts tunes context retrieval
type Contexts struct {
	TopK      int     `yaml:"top_k" validate:"gt=0"`
	Threshold float64 `yaml:"threshold" validate:"gt=0,lte=1"`
}

// Classification tunes the domain classifier
type Classification struct {
	Threshold float64 `yaml:"threshold" validate:"gt=0,lte=1"`
}

// Enrichment tunes batching, pacing and retries
type Enrichment struct {
	MaxTerms    int           `yaml:"max_terms" validate:"gte=0"`
	Concurrency int           `yaml:"concurrency" validate:"gt=0"`
	Pacing      time.Duration `yaml:"pacing" validate:"gte=0"`
	MaxAttempts int           `yaml:"max_attempts" validate:"gt=0"`
	BackoffBase time.Duration `yaml:"backoff_base" validate:"gte=0"`
	MaxJitter   time.Duration `yaml:"max_jitter" validate:"gte=0"`
	Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
}

// Document tunes text extraction
type Document struct {
	RepeatThreshold float64 `yaml:"repeat_threshold" validate:"gt=0,lte=1"`
	MinLineLength   int     `yaml:"min_line_length" validate:"gte=0"`
	Translate       bool    `yaml:"translate"`
}

// Default returns the standard configuration
func Default() *Config {
	return &Config{
		Database: Database{Driver: "sqlite", Path: "glossary.db"},
		Logging:  Logging{Level: "info", Format: "text"},
		Embedding: Embedding{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			CacheSize: 4096,
			ChunkSize: 256,
		},
		Completion: Completion{
			Model:       "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			Temperature: 0.4,
			Timeout:     60 * time.Second,
		},
		Extraction: Extraction{
			TopN:           100,
			MaxModifiers:   3,
			MergeThreshold: 0.75,
			AlwaysInclude:  10,
			Prefilter:      true,
		},
		Selection:      Selection{ReferenceThreshold: 0.65, MinFinalScore: 0.15},
		Contexts:       Contexts{TopK: 3, Threshold: 0.5},
		Classification: Classification{Threshold: 0.6},
		Enrichment: Enrichment{
			MaxTerms:    10,
			Concurrency: 5,
			Pacing:      20 * time.Second,
			MaxAttempts: 3,
			BackoffBase: 15 * time.Second,
			MaxJitter:   time.Second,
		},
		Document: Document{RepeatThreshold: 0.6, MinLineLength: 5, Translate: true},
	}
}

// Load reads a YAML config file over the defaults and validates it
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and wraps violations in
// internalerr.ErrInvalidConfig.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: rule %q (value %v)", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, strings.Join(msgs, "; "))
}

// APIKey reads the key named by APIKeyEnv.
func (e Embedding) APIKey() string {
	return os.Getenv(e.APIKeyEnv)
}

// APIKey reads the key named by APIKeyEnv.
func (c Completion) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// Stoplist represents an extra stopword list file
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// DomainSeed is one business domain in a seed file
type DomainSeed struct {
	Name        string   `yaml:"name" validate:"required"`
	Category    string   `yaml:"category"`
	Synonyms    []string `yaml:"synonyms"`
	Description string   `yaml:"description"`
	Source      string   `yaml:"source"`
}

type domainFile struct {
	Domains []DomainSeed `yaml:"domains" validate:"dive"`
}

// LoadDomains loads business domain seeds from a YAML file
func LoadDomains(path string) ([]DomainSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f domainFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, err)
	}
	return f.Domains, nil
}
