// Package cfgloader loads and validates configuration at the start of an application.
package cfgloader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"
)

const (
	// CodeInvalidConfig is returned when the config file cannot be read, parsed or validated.
	CodeInvalidConfig = "INVALID_CONFIG"

	defaultConfigDir = "./config"
)

// MustLoad is like Load but exits the process when the configuration is not usable.
//
// The configuration struct should use `yaml` struct tags to map fields to the YAML file structure.
// Defaults come from `default` tags and are applied before validation.
//
// Example:
//
//	type Config struct {
//	    Host     string `yaml:"host" validate:"required"`  // required
//	    Port     int    `yaml:"port" default:"8080"`       // defaults to 8080
//	    LogLevel string `yaml:"log_level" default:"info"`  // defaults to "info"
//	}
func MustLoad[T any](opts ...Option) T {
	config, err := Load[T](opts...)
	if err != nil {
		slog.Error(fmt.Sprintf("[cfgloader]: %s", err.Error()), "details", errx.AsErrorX(err).Details())
		os.Exit(1)
	}
	return config
}

// Load reads ${ENVIRONMENT}.yaml from the config directory, expands ${VAR}
// references, applies defaults and validates the result.
func Load[T any](opts ...Option) (T, error) {
	var config T

	o := Options{ConfigDir: defaultConfigDir}
	for _, opt := range opts {
		opt(&o)
	}

	if reflect.ValueOf(config).Kind() == reflect.Ptr {
		return config, newError("config type must not be a pointer", nil)
	}

	_ = godotenv.Load()

	env := o.Environment
	if env == "" {
		env = os.Getenv("ENVIRONMENT")
	}
	if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
		return config, newError(
			"ENVIRONMENT env variable is not set or invalid. Choices are: production, staging, dev, local, test",
			errx.D{"environment": env},
		)
	}

	path := filepath.Join(o.ConfigDir, env+".yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		return config, errx.Wrap(err,
			errx.WithCode(CodeInvalidConfig),
			errx.WithDetails(errx.D{"path": path}),
		)
	}

	if err = yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &config); err != nil {
		return config, errx.Wrap(err,
			errx.WithCode(CodeInvalidConfig),
			errx.WithDetails(errx.D{"path": path}),
		)
	}

	if err = defaults.Set(&config); err != nil {
		return config, errx.Wrap(err, errx.WithCode(CodeInvalidConfig))
	}

	if err = validateConfig(&config); err != nil {
		return config, errx.Wrap(err, errx.WithDetails(errx.D{"environment": env}))
	}

	if !o.Silent {
		printConfig(config)
	}

	return config, nil
}

func validateConfig(config any) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(config)

	failedFields := make([]string, 0)
	if errs, ok := err.(validator.ValidationErrors); ok { //nolint: errorlint // Using type assertion for validator errors handling
		for _, err := range errs {
			tagErr := err.Tag()
			if err.Param() != "" {
				tagErr += fmt.Sprintf("=%s", err.Param())
			}
			failedFields = append(failedFields, fmt.Sprintf("%s: %s", err.Namespace(), tagErr))
		}
	}

	if len(failedFields) > 0 {
		return newError(
			fmt.Sprintf("invalid config fields -> %s", strings.Join(failedFields, ",  ")),
			nil,
		)
	}
	return nil
}

func newError(msg string, details errx.D) error {
	return errx.New(msg,
		errx.WithCode(CodeInvalidConfig),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(details),
	)
}
