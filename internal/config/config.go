package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/cafeteria-insights/internal/analysis"
	"github.com/KaramelBytes/cafeteria-insights/internal/dashboard"
	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
	"github.com/KaramelBytes/cafeteria-insights/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultDataPath is the survey file read when nothing else is configured.
const DefaultDataPath = "university_cafeteria_survey_dataset1.csv"

// Global configuration structure.
type Global struct {
	// Input file
	DataPath           string   `mapstructure:"data_path" yaml:"data_path" validate:"required"`
	SheetName          string   `mapstructure:"sheet_name" yaml:"sheet_name,omitempty"`
	SheetIndex         int      `mapstructure:"sheet_index" yaml:"sheet_index" validate:"gte=1"`
	Delimiter          string   `mapstructure:"delimiter" yaml:"delimiter,omitempty" validate:"omitempty,max=3"`
	DecimalSeparator   string   `mapstructure:"decimal_separator" yaml:"decimal_separator,omitempty" validate:"omitempty,len=1"`
	ThousandsSeparator string   `mapstructure:"thousands_separator" yaml:"thousands_separator,omitempty" validate:"omitempty,len=1"`
	MissingTokens      []string `mapstructure:"missing_tokens" yaml:"missing_tokens"`
	MaxRows            int      `mapstructure:"max_rows" yaml:"max_rows" validate:"gte=0"`

	// Dashboard
	Layout            string             `mapstructure:"layout" yaml:"layout" validate:"oneof=split combined"`
	Labels            map[string]string  `mapstructure:"labels" yaml:"labels,omitempty"`
	PreviewRows       int                `mapstructure:"preview_rows" yaml:"preview_rows" validate:"gte=1"`
	Target            string             `mapstructure:"target" yaml:"target" validate:"required"`
	Ratings           []string           `mapstructure:"ratings" yaml:"ratings" validate:"min=1,dive,required"`
	SatisfactionScale map[string]float64 `mapstructure:"satisfaction_scale" yaml:"satisfaction_scale,omitempty"`

	// HTTP server
	ListenAddr         string `mapstructure:"listen_addr" yaml:"listen_addr" validate:"required"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec" validate:"gte=1"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=json console"`
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := delimiterRune(c.Delimiter); err != nil {
		return err
	}
	return nil
}

// DatasetOptions converts the input settings for the loader.
func (c *Global) DatasetOptions() (dataset.Options, error) {
	delim, err := delimiterRune(c.Delimiter)
	if err != nil {
		return dataset.Options{}, err
	}
	opt := dataset.DefaultOptions()
	opt.Delimiter = delim
	opt.DecimalSeparator = firstRune(c.DecimalSeparator)
	opt.ThousandsSeparator = firstRune(c.ThousandsSeparator)
	opt.MaxRows = c.MaxRows
	opt.SheetName = c.SheetName
	if c.SheetIndex > 0 {
		opt.SheetIndex = c.SheetIndex
	}
	if c.MissingTokens != nil {
		opt.MissingTokens = c.MissingTokens
	}
	return opt, nil
}

// DashboardSettings converts the column settings for the views.
func (c *Global) DashboardSettings() dashboard.Settings {
	s := dashboard.DefaultSettings()
	if c.PreviewRows > 0 {
		s.PreviewRows = c.PreviewRows
	}
	if c.Target != "" {
		s.Target = c.Target
	}
	if len(c.Ratings) > 0 {
		s.Ratings = append([]string(nil), c.Ratings...)
	}
	if len(c.SatisfactionScale) > 0 {
		s.Scale = analysis.Scale(c.SatisfactionScale)
	}
	return s
}

// ShutdownTimeout returns the graceful shutdown window.
func (c *Global) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

func delimiterRune(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "\\t", "tab", "\t":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: use a single character or \\t", s)
	}
	return r[0], nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".cafeteria"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.cafeteria/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from .env, environment, file and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is applied to the environment first without overriding it.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("CAFETERIA")
	v.AutomaticEnv()

	v.SetDefault("data_path", DefaultDataPath)
	v.SetDefault("sheet_index", 1)
	v.SetDefault("max_rows", 0)
	v.SetDefault("missing_tokens", dataset.DefaultMissingTokens)
	v.SetDefault("layout", dashboard.LayoutSplit)
	v.SetDefault("preview_rows", 5)
	v.SetDefault("target", dashboard.DefaultTarget)
	v.SetDefault("ratings", dashboard.DefaultRatings)
	v.SetDefault("listen_addr", "127.0.0.1:8501")
	v.SetDefault("shutdown_timeout_sec", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	// Keys without a default are unknown to AutomaticEnv until bound.
	for _, key := range []string{"sheet_name", "delimiter", "decimal_separator", "thousands_separator", "labels", "satisfaction_scale"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		stringToPairsHook,
	))
	if err := v.Unmarshal(&c, hooks); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Set assigns one key from its string form. Lists are comma-separated and maps
// are comma-separated key=value pairs. c is left unchanged on error.
func (c *Global) Set(key, val string) error {
	n := *c
	switch key {
	case "data_path":
		n.DataPath = val
	case "sheet_name":
		n.SheetName = val
	case "sheet_index":
		i, err := strconv.Atoi(val)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid sheet_index: %v (use a 1-based number)", val)
		}
		n.SheetIndex = i
	case "delimiter":
		if _, err := delimiterRune(val); err != nil {
			return err
		}
		n.Delimiter = val
	case "decimal_separator":
		n.DecimalSeparator = val
	case "thousands_separator":
		n.ThousandsSeparator = val
	case "missing_tokens":
		n.MissingTokens = splitList(val)
	case "max_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for max_rows: %v", val)
		}
		n.MaxRows = i
	case "layout":
		switch strings.ToLower(val) {
		case dashboard.LayoutSplit, dashboard.LayoutCombined:
			n.Layout = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid layout: %s (use split or combined)", val)
		}
	case "labels":
		m, err := splitPairs(val, func(s string) (string, error) { return s, nil })
		if err != nil {
			return err
		}
		n.Labels = m
	case "preview_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid int for preview_rows: %v", val)
		}
		n.PreviewRows = i
	case "target":
		n.Target = val
	case "ratings":
		n.Ratings = splitList(val)
	case "satisfaction_scale":
		m, err := splitPairs(val, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
		if err != nil {
			return err
		}
		n.SatisfactionScale = m
	case "listen_addr":
		n.ListenAddr = val
	case "shutdown_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid int for shutdown_timeout_sec: %v", val)
		}
		n.ShutdownTimeoutSec = i
	case "log_level":
		n.LogLevel = strings.ToLower(val)
	case "log_format":
		n.LogFormat = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := n.Validate(); err != nil {
		return err
	}
	*c = n
	return nil
}

// stringToPairsHook decodes "k=v,k=v" (the environment form) into the map fields.
func stringToPairsHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Map || to.Key().Kind() != reflect.String {
		return data, nil
	}
	raw := data.(string)
	switch to.Elem().Kind() {
	case reflect.String:
		return splitPairs(raw, func(s string) (string, error) { return s, nil })
	case reflect.Float64:
		return splitPairs(raw, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
	}
	return data, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitPairs[V any](s string, parse func(string) (V, error)) (map[string]V, error) {
	out := map[string]V{}
	for _, pair := range splitList(s) {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q: use key=value", pair)
		}
		pv, err := parse(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid value in %q: %w", pair, err)
		}
		out[strings.TrimSpace(k)] = pv
	}
	return out, nil
}
