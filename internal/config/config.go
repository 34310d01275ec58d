// Package config loads the gateway settings once at startup.
//
// Sources are layered with koanf, lowest priority first: built-in defaults,
// an optional YAML file, then environment variables. The result is validated
// and treated as read-only for the rest of the process lifetime.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/toyamagu-2021/argocd-gateway/internal/errors"
)

// PathEnvVar overrides the config file location.
const PathEnvVar = "CONFIG_PATH"

// DefaultPaths lists config file locations searched in order.
var DefaultPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/argocd-gateway/config.yaml",
}

// Config is the full gateway configuration.
type Config struct {
	ArgoCD ArgoCDConfig `koanf:"argocd"`
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
}

// ArgoCDConfig describes the upstream ArgoCD API and the credential used for it.
type ArgoCDConfig struct {
	Server    string `koanf:"server" validate:"required,url"`
	AuthToken string `koanf:"auth_token" validate:"required"`
	// Insecure disables TLS certificate verification toward ArgoCD.
	Insecure bool          `koanf:"insecure"`
	Timeout  time.Duration `koanf:"timeout" validate:"min=1ms"`
}

// ServerConfig describes the inbound HTTP listener.
type ServerConfig struct {
	Host        string   `koanf:"host"`
	Port        int      `koanf:"port" validate:"min=1,max=65535"`
	Name        string   `koanf:"name" validate:"required"`
	CORSOrigins []string `koanf:"cors_origins" validate:"dive,url"`
}

// LogConfig controls the shared logrus logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn warning error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// String renders the config with the auth token redacted.
func (c *Config) String() string {
	token := ""
	if c.ArgoCD.AuthToken != "" {
		token = "[REDACTED]"
	}
	return fmt.Sprintf(
		"argocd.server=%s argocd.auth_token=%s argocd.insecure=%t argocd.timeout=%s server.addr=%s server.name=%s server.cors_origins=%v log.level=%s log.format=%s",
		c.ArgoCD.Server, token, c.ArgoCD.Insecure, c.ArgoCD.Timeout,
		c.Server.Addr(), c.Server.Name, c.Server.CORSOrigins,
		c.Log.Level, c.Log.Format,
	)
}

func defaultConfig() *Config {
	return &Config{
		ArgoCD: ArgoCDConfig{
			Server:   "https://localhost",
			Insecure: false,
			Timeout:  30 * time.Second,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        9000,
			Name:        "argocd-gateway",
			CORSOrigins: []string{},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads defaults, the first config file found and the environment.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// ARGOCD_TOKEN is only honoured when ARGOCD_AUTH_TOKEN is unset.
	if cfg.ArgoCD.AuthToken == "" {
		cfg.ArgoCD.AuthToken = k.String("argocd.legacy_token")
	}

	// The client appends absolute API paths verbatim.
	cfg.ArgoCD.Server = strings.TrimSuffix(cfg.ArgoCD.Server, "/")
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks the struct tags and returns a validation AppError whose
// details map each failing field to the rule it broke.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewValidationError(err.Error(), nil)
	}

	details := make(map[string]interface{}, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details[fe.Namespace()] = fe.Tag()
		fields = append(fields, fe.Namespace())
	}
	return errors.NewValidationError("invalid configuration: "+strings.Join(fields, ", "), details)
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"argocd_server":     "argocd.server",
	"argocd_auth_token": "argocd.auth_token",
	"argocd_token":      "argocd.legacy_token",
	"argocd_insecure":   "argocd.insecure",
	"argocd_timeout":    "argocd.timeout",
	"gateway_host":      "server.host",
	"port":              "server.port",
	"service_name":      "server.name",
	"backend_origins":   "server.cors_origins",
	"log_level":         "log.level",
	"log_format":        "log.format",
}

// envTransformFunc maps known environment variables to koanf paths. Unknown
// and empty variables are dropped so they never shadow a default.
func envTransformFunc(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return envMappings[strings.ToLower(key)], value
}
