package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Loading
	RequireFixedWindow      bool   `mapstructure:"require_fixed_window" yaml:"require_fixed_window"`
	WindowStart             string `mapstructure:"window_start" yaml:"window_start" validate:"required,isodate"`
	WindowEnd               string `mapstructure:"window_end" yaml:"window_end" validate:"required,isodate"`
	RecomputeSentiment      bool   `mapstructure:"recompute_sentiment" yaml:"recompute_sentiment"`
	RequireSentimentColumns bool   `mapstructure:"require_sentiment_columns" yaml:"require_sentiment_columns"`
	Sheet                   string `mapstructure:"sheet" yaml:"sheet"`
	LexiconFile             string `mapstructure:"lexicon_file" yaml:"lexicon_file"`

	// Report sizes
	TopN         int  `mapstructure:"top_n" yaml:"top_n" validate:"gte=1,lte=100"`
	WordCount    int  `mapstructure:"word_count" yaml:"word_count" validate:"gte=1,lte=500"`
	HashtagCount int  `mapstructure:"hashtag_count" yaml:"hashtag_count" validate:"gte=1,lte=100"`
	Stopwords    bool `mapstructure:"stopwords" yaml:"stopwords"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
}

const dateLayout = "2006-01-02"

// Defaults returns the built-in configuration.
func Defaults() *Global {
	return &Global{
		WindowStart:  "2024-07-01",
		WindowEnd:    "2024-07-31",
		TopN:         5,
		WordCount:    20,
		HashtagCount: 10,
		Stopwords:    true,
		LogLevel:     "warn",
		LogFormat:    "text",
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("require_fixed_window", d.RequireFixedWindow)
	v.SetDefault("window_start", d.WindowStart)
	v.SetDefault("window_end", d.WindowEnd)
	v.SetDefault("recompute_sentiment", d.RecomputeSentiment)
	v.SetDefault("require_sentiment_columns", d.RequireSentimentColumns)
	v.SetDefault("sheet", d.Sheet)
	v.SetDefault("lexicon_file", d.LexiconFile)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("word_count", d.WordCount)
	v.SetDefault("hashtag_count", d.HashtagCount)
	v.SetDefault("stopwords", d.Stopwords)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".socialdash"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.socialdash/config.yaml, creating the directory if necessary.
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
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A missing config file is not an error.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SOCIALDASH")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})
	// report keys as they appear in the config file
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("mapstructure")
	})
	return v
}

// Validate checks field constraints and that the window is ordered.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	start, end, err := c.Window()
	if err != nil {
		return err
	}
	if start.After(end) {
		return fmt.Errorf("invalid config: window_start %s is after window_end %s", c.WindowStart, c.WindowEnd)
	}
	return nil
}

// Window parses the configured window bounds.
func (c *Global) Window() (start, end time.Time, err error) {
	if start, err = time.Parse(dateLayout, c.WindowStart); err != nil {
		return start, end, fmt.Errorf("window_start: %w", err)
	}
	if end, err = time.Parse(dateLayout, c.WindowEnd); err != nil {
		return start, end, fmt.Errorf("window_end: %w", err)
	}
	return start, end, nil
}

// Keys lists the settable configuration keys.
var Keys = []string{
	"require_fixed_window", "window_start", "window_end", "recompute_sentiment",
	"require_sentiment_columns", "sheet", "lexicon_file", "top_n", "word_count",
	"hashtag_count", "stopwords", "log_level", "log_format",
}

// Get renders one key in the string form Set accepts.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "require_fixed_window":
		return strconv.FormatBool(c.RequireFixedWindow), nil
	case "window_start":
		return c.WindowStart, nil
	case "window_end":
		return c.WindowEnd, nil
	case "recompute_sentiment":
		return strconv.FormatBool(c.RecomputeSentiment), nil
	case "require_sentiment_columns":
		return strconv.FormatBool(c.RequireSentimentColumns), nil
	case "sheet":
		return c.Sheet, nil
	case "lexicon_file":
		return c.LexiconFile, nil
	case "top_n":
		return strconv.Itoa(c.TopN), nil
	case "word_count":
		return strconv.Itoa(c.WordCount), nil
	case "hashtag_count":
		return strconv.Itoa(c.HashtagCount), nil
	case "stopwords":
		return strconv.FormatBool(c.Stopwords), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set assigns one key from its string form and re-validates.
func (c *Global) Set(key, val string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown key: %s (known: %s)", key, strings.Join(Keys, ", "))
	}
	next := *c
	switch key {
	case "require_fixed_window", "recompute_sentiment", "require_sentiment_columns", "stopwords":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		switch key {
		case "require_fixed_window":
			next.RequireFixedWindow = b
		case "recompute_sentiment":
			next.RecomputeSentiment = b
		case "require_sentiment_columns":
			next.RequireSentimentColumns = b
		case "stopwords":
			next.Stopwords = b
		}
	case "top_n", "word_count", "hashtag_count":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "top_n":
			next.TopN = i
		case "word_count":
			next.WordCount = i
		case "hashtag_count":
			next.HashtagCount = i
		}
	case "window_start":
		next.WindowStart = val
	case "window_end":
		next.WindowEnd = val
	case "sheet":
		next.Sheet = val
	case "lexicon_file":
		next.LexiconFile = val
	case "log_level":
		next.LogLevel = strings.ToLower(val)
	case "log_format":
		next.LogFormat = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
