package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Metrics  MetricsConfig  `yaml:"metrics" envconfig:"METRICS"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// InputConfig names the sheet and the columns read from a timecard workbook.
type InputConfig struct {
	Sheet          string `yaml:"sheet" envconfig:"SHEET"`
	EmployeeColumn string `yaml:"employee_column" envconfig:"EMPLOYEE_COLUMN" validate:"required"`
	TimeOutColumn  string `yaml:"time_out_column" envconfig:"TIME_OUT_COLUMN" validate:"required"`
	TimeColumn     string `yaml:"time_column" envconfig:"TIME_COLUMN" validate:"required"`
	HoursColumn    string `yaml:"hours_column" envconfig:"HOURS_COLUMN" validate:"required"`
}

// AnalysisConfig holds the compliance thresholds.
type AnalysisConfig struct {
	ConsecutiveDays int           `yaml:"consecutive_days" envconfig:"CONSECUTIVE_DAYS" validate:"min=2"`
	MinRestGap      time.Duration `yaml:"min_rest_gap" envconfig:"MIN_REST_GAP" validate:"gte=0"`
	MaxRestGap      time.Duration `yaml:"max_rest_gap" envconfig:"MAX_REST_GAP" validate:"gtfield=MinRestGap"`
	MaxShift        time.Duration `yaml:"max_shift" envconfig:"MAX_SHIFT" validate:"gt=0"`
	SortRows        bool          `yaml:"sort_rows" envconfig:"SORT_ROWS"`
}

// OutputConfig selects the report sinks.
type OutputConfig struct {
	TextPath  string `yaml:"text_path" envconfig:"TEXT_PATH" validate:"required"`
	CSVPath   string `yaml:"csv_path" envconfig:"CSV_PATH"`
	HistoryDB string `yaml:"history_db" envconfig:"HISTORY_DB"`
	Console   bool   `yaml:"console" envconfig:"CONSOLE"`
}

// MetricsConfig controls the Prometheus textfile export
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path" envconfig:"TEXTFILE_PATH"`
}

// TracingConfig controls OpenTelemetry span export
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled" envconfig:"ENABLED"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load loads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is applied to the environment first. configFile may be empty, in
// which case TIMECARD_CONFIG and the usual locations are searched.
func Load(configFile string) (*Config, error) {
	// Missing .env is normal
	_ = godotenv.Load()

	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields carry no default tags, so unset variables leave file values alone
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalises the logging level.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		return path
	}

	locations := []string{
		"timecard.yaml",
		"configs/timecard.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Input: InputConfig{
			EmployeeColumn: DefaultEmployeeColumn,
			TimeOutColumn:  DefaultTimeOutColumn,
			TimeColumn:     DefaultTimeColumn,
			HoursColumn:    DefaultHoursColumn,
		},
		Analysis: AnalysisConfig{
			ConsecutiveDays: DefaultConsecutiveDays,
			MinRestGap:      DefaultMinRestGap,
			MaxRestGap:      DefaultMaxRestGap,
			MaxShift:        DefaultMaxShift,
		},
		Output: OutputConfig{
			TextPath: DefaultOutputPath,
			Console:  true,
		},
	}
}
