// Package config loads carriersync runtime settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// Defaults.
const (
	DefaultIncludeProperty      = "Include in GPT"
	DefaultLastVerifiedProperty = "Last Verified"
	DefaultSectionLabel         = "Carrier Page"
	DefaultChunkTokens          = 1000
	DefaultNotionRPS            = 3.0
)

// Settings application settings
type Settings struct {
	NotionToken   string `mapstructure:"notion_token"`
	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	CarriersDBID  string `mapstructure:"carriers_db_id"`
	VectorStoreID string `mapstructure:"vector_store_id"`

	// OpenAIBaseURL overrides the API endpoint. Empty uses the public API.
	OpenAIBaseURL string `mapstructure:"openai_base_url"`

	SectionsFile         string  `mapstructure:"sections_file"`
	DataDir              string  `mapstructure:"data_dir"`
	IncludeProperty      string  `mapstructure:"include_property"`
	LastVerifiedProperty string  `mapstructure:"last_verified_property"`
	SectionLabel         string  `mapstructure:"section_label"`
	ChunkTokens          int     `mapstructure:"chunk_tokens"`
	NotionRPS            float64 `mapstructure:"notion_rps"`
}

// envBindings maps settings keys to their environment variables.
// The credentials and identifiers keep their conventional unprefixed names.
var envBindings = []struct{ key, env string }{
	{"notion_token", "NOTION_TOKEN"},
	{"openai_api_key", "OPENAI_API_KEY"},
	{"carriers_db_id", "NOTION_CARRIERS_DB_ID"},
	{"vector_store_id", "VECTOR_STORE_ID"},
	{"openai_base_url", "CARRIERSYNC_OPENAI_BASE_URL"},
	{"sections_file", "CARRIERSYNC_SECTIONS_FILE"},
	{"data_dir", "CARRIERSYNC_DATA_DIR"},
	{"include_property", "CARRIERSYNC_INCLUDE_PROPERTY"},
	{"last_verified_property", "CARRIERSYNC_LAST_VERIFIED_PROPERTY"},
	{"section_label", "CARRIERSYNC_SECTION_LABEL"},
	{"chunk_tokens", "CARRIERSYNC_CHUNK_TOKENS"},
	{"notion_rps", "CARRIERSYNC_NOTION_RPS"},
}

// flagBindings maps settings keys to CLI flags.
var flagBindings = []struct{ key, flag string }{
	{"sections_file", "config"},
	{"data_dir", "data-dir"},
	{"chunk_tokens", "chunk-tokens"},
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// Flags that are not registered on the set are ignored.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault("include_property", DefaultIncludeProperty)
	v.SetDefault("last_verified_property", DefaultLastVerifiedProperty)
	v.SetDefault("section_label", DefaultSectionLabel)
	v.SetDefault("chunk_tokens", DefaultChunkTokens)
	v.SetDefault("notion_rps", DefaultNotionRPS)

	for _, b := range envBindings {
		_ = v.BindEnv(b.key, b.env)
	}

	if flags != nil {
		for _, b := range flagBindings {
			if f := flags.Lookup(b.flag); f != nil {
				_ = v.BindPFlag(b.key, f)
			}
		}
	}

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	// Keys in .env are the environment variable names, not the settings keys.
	// They rank below the environment and flags, so they replace the defaults.
	for _, b := range envBindings {
		if name := strings.ToLower(b.env); v.InConfig(name) {
			v.SetDefault(b.key, v.Get(name))
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	settings.SectionsFile = expandHomeDir(strings.TrimSpace(settings.SectionsFile))
	settings.DataDir = expandHomeDir(strings.TrimSpace(settings.DataDir))

	return &settings, nil
}

// Validate checks that every required credential and identifier is set
// and that the tuning values are usable.
func (s *Settings) Validate() error {
	if err := s.require(append(s.sourceKeys(), s.indexKeys()...)...); err != nil {
		return err
	}
	return s.validateTuning()
}

// ValidateSource checks the settings needed to read the source workspace.
func (s *Settings) ValidateSource() error {
	if err := s.require(s.sourceKeys()...); err != nil {
		return err
	}
	return s.validateTuning()
}

// ValidateIndex checks the settings needed to reach the vector store.
func (s *Settings) ValidateIndex() error {
	return s.require(s.indexKeys()...)
}

type requiredKey struct {
	env   string
	value string
}

func (s *Settings) sourceKeys() []requiredKey {
	return []requiredKey{
		{"NOTION_TOKEN", s.NotionToken},
		{"NOTION_CARRIERS_DB_ID", s.CarriersDBID},
	}
}

func (s *Settings) indexKeys() []requiredKey {
	return []requiredKey{
		{"OPENAI_API_KEY", s.OpenAIAPIKey},
		{"VECTOR_STORE_ID", s.VectorStoreID},
	}
}

// require returns domain.ErrConfigMissing naming every empty key.
func (s *Settings) require(keys ...requiredKey) error {
	var missing []string
	for _, k := range keys {
		if strings.TrimSpace(k.value) == "" {
			missing = append(missing, k.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrConfigMissing, strings.Join(missing, ", "))
	}
	return nil
}

func (s *Settings) validateTuning() error {
	if s.ChunkTokens <= 0 {
		return fmt.Errorf("%w: chunk tokens must be positive, got %d", domain.ErrInvalidInput, s.ChunkTokens)
	}
	if s.NotionRPS <= 0 {
		return fmt.Errorf("%w: notion rate must be positive, got %g", domain.ErrInvalidInput, s.NotionRPS)
	}
	return nil
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}
