// Package config resolves command settings from flags, environment
// variables and an optional YAML config file, and validates them.
//
// A config file groups settings per command:
//
//	extract:
//	  strip_currency: true
//	  container_class: table-scrollable
//	catalog:
//	  title_field: 0
//	  price_field: 4
//
// Environment variables use the POSBRIDGE_ prefix with dots replaced by
// underscores, e.g. POSBRIDGE_EXTRACT_STRIP_CURRENCY=true.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "POSBRIDGE"

// Keys under which command settings live.
const (
	ExtractInput          = "extract.input"
	ExtractOutput         = "extract.output"
	ExtractStripCurrency  = "extract.strip_currency"
	ExtractCurrencyColumn = "extract.currency_column"
	ExtractContainerClass = "extract.container_class"
	ExtractFormat         = "extract.format"
	ExtractDelimiter      = "extract.delimiter"
	ExtractFlexible       = "extract.flexible"
	ExtractMaxInputSize   = "extract.max_input_size"
	ExtractTimeout        = "extract.timeout"
	ExtractUserAgent      = "extract.user_agent"

	CatalogInput       = "catalog.input"
	CatalogOutput      = "catalog.output"
	CatalogTitleField  = "catalog.title_field"
	CatalogPriceField  = "catalog.price_field"
	CatalogPrefixField = "catalog.prefix_field"
	CatalogFormat      = "catalog.format"
)

// Extract holds the settings of an HTML-to-records run.
type Extract struct {
	Input          string        `validate:"required"`
	Output         string        `validate:"required"`
	StripCurrency  bool
	CurrencyColumn int           `validate:"gte=0"`
	ContainerClass string        `validate:"required"`
	Format         string        `validate:"oneof=csv json jsonl yaml"`
	Delimiter      string        `validate:"delimiter"`
	Flexible       bool
	MaxInputSize   string
	Timeout        time.Duration `validate:"gte=0"`
	UserAgent      string
}

// DelimiterRune returns the delimiter as a rune, or 0 for the default.
func (e Extract) DelimiterRune() rune {
	if e.Delimiter == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(e.Delimiter)
	return r
}

// Catalog holds the settings of a records-to-catalog run.
type Catalog struct {
	Input       string `validate:"required"`
	Output      string `validate:"required"`
	TitleField  int    `validate:"gte=0"`
	PriceField  int    `validate:"gte=0"`
	PrefixField *int   `validate:"omitempty,gte=0"`
	Format      string `validate:"oneof=yaml json"`
}

// SetDefaults registers the built-in value of every setting that has one.
// Flag defaults bound later take precedence only when the flag is set.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(ExtractOutput, "-")
	v.SetDefault(ExtractCurrencyColumn, 4)
	v.SetDefault(ExtractContainerClass, "table-scrollable")
	v.SetDefault(ExtractFormat, "csv")
	v.SetDefault(ExtractMaxInputSize, "0")
	v.SetDefault(ExtractTimeout, 30*time.Second)

	v.SetDefault(CatalogOutput, "-")
	v.SetDefault(CatalogPriceField, 1)
	v.SetDefault(CatalogFormat, "yaml")
}

// Init points v at a config file and the environment. With an empty
// cfgFile it looks for .posbridge.yaml in the home and working
// directories. A missing default file is not an error; a missing or
// unreadable explicit file is.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
		return nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigName(".posbridge")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// LoadExtract resolves and validates extract settings.
func LoadExtract(v *viper.Viper) (Extract, error) {
	cfg := Extract{
		Input:          v.GetString(ExtractInput),
		Output:         v.GetString(ExtractOutput),
		StripCurrency:  v.GetBool(ExtractStripCurrency),
		CurrencyColumn: v.GetInt(ExtractCurrencyColumn),
		ContainerClass: v.GetString(ExtractContainerClass),
		Format:         strings.ToLower(v.GetString(ExtractFormat)),
		Delimiter:      v.GetString(ExtractDelimiter),
		Flexible:       v.GetBool(ExtractFlexible),
		MaxInputSize:   v.GetString(ExtractMaxInputSize),
		Timeout:        v.GetDuration(ExtractTimeout),
		UserAgent:      v.GetString(ExtractUserAgent),
	}
	return cfg, Validate(cfg)
}

// LoadCatalog resolves and validates catalog settings.
func LoadCatalog(v *viper.Viper) (Catalog, error) {
	cfg := Catalog{
		Input:      v.GetString(CatalogInput),
		Output:     v.GetString(CatalogOutput),
		TitleField: v.GetInt(CatalogTitleField),
		PriceField: v.GetInt(CatalogPriceField),
		Format:     strings.ToLower(v.GetString(CatalogFormat)),
	}
	if raw := strings.TrimSpace(v.GetString(CatalogPrefixField)); raw != "" {
		prefix, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, &ValidationError{Problems: []string{fmt.Sprintf("prefix-field must be a column index, got %q", raw)}}
		}
		cfg.PrefixField = &prefix
	}
	return cfg, Validate(cfg)
}
