// Package config is used to configure the application settings.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// DefaultExt is appended to data file names given without an extension.
const DefaultExt = ".json"

// Config - application configuration structure.
type Config struct {
	// DataFile: name of the JSON file holding the cashback document. Prompted for when empty.
	DataFile string `json:"data_file"`
	// FallbackFile: file used when writing DataFile fails in lenient mode.
	FallbackFile string `json:"fallback_file"`
	// StrictLoad: abort startup when the data file exists but cannot be read or parsed.
	StrictLoad bool `json:"strict_load"`
	// Lenient: log write and remove failures instead of reporting them.
	Lenient bool `json:"lenient"`
	// Memory: keep the document in memory only; nothing is written to disk.
	Memory bool `json:"memory"`
	// LogLevel: zap level name (debug, info, warn, error).
	LogLevel string `json:"log_level"`
	// NoColor: disable colored menu output.
	NoColor bool `json:"no_color"`
	// ConfigPath: path to configuration file.
	ConfigPath string `json:"-"`
}

var cfgDefault = Config{
	DataFile:     "",
	FallbackFile: "my_cashbacks.json",
	StrictLoad:   false,
	Lenient:      false,
	Memory:       false,
	LogLevel:     "warn",
	NoColor:      false,
	ConfigPath:   "",
}

// NewConfig creates and returns a new instance of the Config structure with predefined values.
func NewConfig() *Config {
	c := cfgDefault
	return &c
}

// ErrReadConfig - error reading json config.
var ErrReadConfig = errors.New("reading json config")

// ErrParseConfig - error parsing json config.
var ErrParseConfig = errors.New("parse json config")

// Init initializes the application configuration from an optional .env file,
// environment variables, a json config file and command-line flags.
func Init(c *Config) error {
	LoadEnvFile()
	return Parse(c, flag.CommandLine, os.Args[1:])
}

// LoadEnvFile loads .env from the working directory. A missing file is ignored.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Parse applies environment variables, then the json config file, then the flags in args.
func Parse(c *Config, fs *flag.FlagSet, args []string) error {
	applyEnv(c)

	var flagCfg Config
	fs.StringVar(&flagCfg.DataFile, "f", "", "name of the JSON file with cashbacks")
	fs.StringVar(&flagCfg.FallbackFile, "b", "", "fallback file used when saving fails in lenient mode")
	fs.BoolVar(&flagCfg.StrictLoad, "s", false, "fail at startup if the data file is unreadable or malformed")
	fs.BoolVar(&flagCfg.Lenient, "l", false, "log save and delete failures instead of reporting them")
	fs.BoolVar(&flagCfg.Memory, "m", false, "keep cashbacks in memory only")
	fs.StringVar(&flagCfg.LogLevel, "v", "", "log level (debug, info, warn, error)")
	fs.BoolVar(&flagCfg.NoColor, "no-color", false, "disable colored output")
	fs.StringVar(&flagCfg.ConfigPath, "c", "", "path to config file (json)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flagCfg.ConfigPath != "" {
		file, err := os.ReadFile(flagCfg.ConfigPath)
		if err != nil {
			return ErrReadConfig
		}
		if err := json.Unmarshal(file, c); err != nil {
			return ErrParseConfig
		}
		c.ConfigPath = flagCfg.ConfigPath
	}

	// override
	if flagCfg.DataFile != "" {
		c.DataFile = flagCfg.DataFile
	}
	if flagCfg.FallbackFile != "" {
		c.FallbackFile = flagCfg.FallbackFile
	}
	if flagCfg.StrictLoad {
		c.StrictLoad = true
	}
	if flagCfg.Lenient {
		c.Lenient = true
	}
	if flagCfg.Memory {
		c.Memory = true
	}
	if flagCfg.LogLevel != "" {
		c.LogLevel = flagCfg.LogLevel
	}
	if flagCfg.NoColor {
		c.NoColor = true
	}

	return c.Validate()
}

func applyEnv(c *Config) {
	if val, exist := os.LookupEnv("CASHBACK_FILE"); exist {
		c.DataFile = val
	}
	if val, exist := os.LookupEnv("CASHBACK_FALLBACK_FILE"); exist {
		c.FallbackFile = val
	}
	if val, exist := os.LookupEnv("CASHBACK_LOG_LEVEL"); exist {
		c.LogLevel = val
	}
	lookupBool("CASHBACK_STRICT_LOAD", &c.StrictLoad)
	lookupBool("CASHBACK_LENIENT", &c.Lenient)
	lookupBool("CASHBACK_MEMORY", &c.Memory)
	if _, exist := os.LookupEnv("NO_COLOR"); exist {
		c.NoColor = true
	}
}

func lookupBool(key string, dst *bool) {
	if val, exist := os.LookupEnv(key); exist {
		valBool, err := strconv.ParseBool(val)
		if err == nil {
			*dst = valBool
		}
	}
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	var errs []string

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level %q", c.LogLevel))
	}
	if c.FallbackFile != "" && FileName(c.FallbackFile) == c.StoragePath() {
		errs = append(errs, fmt.Sprintf("fallback file %q is the data file", c.FallbackFile))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// StoragePath returns the data file name with the default extension applied.
func (c *Config) StoragePath() string {
	return FileName(c.DataFile)
}

// FileName appends DefaultExt to name when it has no extension.
func FileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if filepath.Ext(name) == "" {
		return name + DefaultExt
	}
	return name
}
