// File: internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "CONTA"

type Config struct {
	DB  DBConfig  `mapstructure:"DB"`
	Log LogConfig `mapstructure:"LOG"`
}

// DBConfig describes the single PostgreSQL target every operation connects to.
type DBConfig struct {
	Host     string `mapstructure:"HOST" validate:"required"`
	Port     int    `mapstructure:"PORT" validate:"min=1,max=65535"`
	Name     string `mapstructure:"NAME" validate:"required"`
	User     string `mapstructure:"USER" validate:"required"`
	Password string `mapstructure:"PASSWORD"`
	SSL      bool   `mapstructure:"SSL"`

	ConnectTimeout time.Duration `mapstructure:"CONNECT_TIMEOUT" validate:"min=0"`
	// Zero leaves statements unbounded.
	StatementTimeout time.Duration `mapstructure:"STATEMENT_TIMEOUT" validate:"min=0"`
}

type LogConfig struct {
	Level string `mapstructure:"LEVEL" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

func (c *Config) Validate() error {
	return validate.Struct(c)
}

func Load() (*Config, error) {
	return LoadFrom(".env")
}

var defaults = map[string]interface{}{
	"DB.HOST":              "localhost",
	"DB.PORT":              5432,
	"DB.NAME":              "banco",
	"DB.USER":              "postgres",
	"DB.PASSWORD":          "postgres",
	"DB.SSL":               false,
	"DB.CONNECT_TIMEOUT":   time.Duration(0),
	"DB.STATEMENT_TIMEOUT": time.Duration(0),
	"LOG.LEVEL":            "info",
}

// LoadFrom reads defaults, then the optional env file at path, then
// CONTA_-prefixed environment variables (CONTA_DB_HOST, CONTA_LOG_LEVEL, ...).
// The file accepts the same names as the environment, with or without the
// CONTA_ prefix.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Error reading config file, %s. Using defaults and environment variables.\n", err)
			}
		} else if err := nestFileKeys(v); err != nil {
			return nil, fmt.Errorf("unable to merge config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// nestFileKeys moves flat env-file keys such as conta_db_host onto the nested
// keys (db.host) that Unmarshal reads. A prefixed name wins over the bare one;
// dotted keys in the file already match.
func nestFileKeys(v *viper.Viper) error {
	byEnvName := make(map[string]string, len(defaults))
	for key := range defaults {
		nested := strings.ToLower(key)
		byEnvName[strings.ReplaceAll(nested, ".", "_")] = nested
	}

	prefix := strings.ToLower(envPrefix) + "_"
	merged := map[string]interface{}{}
	prefixed := map[string]bool{}
	for _, key := range v.AllKeys() {
		name, hasPrefix := strings.CutPrefix(key, prefix)
		nested, ok := byEnvName[name]
		if !ok || (!hasPrefix && prefixed[nested]) {
			continue
		}
		prefixed[nested] = prefixed[nested] || hasPrefix

		section, field, _ := strings.Cut(nested, ".")
		fields, _ := merged[section].(map[string]interface{})
		if fields == nil {
			fields = map[string]interface{}{}
			merged[section] = fields
		}
		fields[field] = v.Get(key)
	}

	if len(merged) == 0 {
		return nil
	}
	return v.MergeConfigMap(merged)
}
