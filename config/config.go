package config

import (
	"bytes"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"ttconvert/transform"
)

const (
	KeyProjectDataAreaID = "dynamics.project_data_area_id"
	KeyProjectID         = "dynamics.project_id"
	KeyWorkActivity      = "dynamics.work_activity"
	KeyLunchActivity     = "dynamics.lunch_activity"
	KeyServerPort        = "server.port"
	KeyServerMaxUploadMB = "server.max_upload_mb"
	KeyServerMaxSessions = "server.max_sessions"
	KeyLogLevel          = "log.level"
)

type Config struct {
	Dynamics DynamicsConfig `mapstructure:"dynamics" validate:"required"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// DynamicsConfig holds the identifiers stamped on every exported row.
type DynamicsConfig struct {
	ProjectDataAreaID string `mapstructure:"project_data_area_id" validate:"required"`
	ProjectID         string `mapstructure:"project_id" validate:"required"`
	WorkActivity      string `mapstructure:"work_activity" validate:"required"`
	LunchActivity     string `mapstructure:"lunch_activity" validate:"required,nefield=WorkActivity"`
}

type ServerConfig struct {
	Port        int `mapstructure:"port" validate:"min=1,max=65535"`
	MaxUploadMB int `mapstructure:"max_upload_mb" validate:"min=1,max=512"`
	MaxSessions int `mapstructure:"max_sessions" validate:"min=1"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

func (d DynamicsConfig) Metadata() transform.Metadata {
	return transform.Metadata{
		ProjectDataAreaID: d.ProjectDataAreaID,
		ProjectID:         d.ProjectID,
		WorkActivity:      d.WorkActivity,
		LunchActivity:     d.LunchActivity,
	}
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# ttconvert configuration
dynamics:
  project_data_area_id: "100"
  project_id: "INTERNAL"
  work_activity: "WORK"
  lunch_activity: "LUNCH"

server:
  port: 8080
  max_upload_mb: 32
  max_sessions: 64

log:
  level: "info"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyProjectDataAreaID, "100")
	v.SetDefault(KeyProjectID, "INTERNAL")
	v.SetDefault(KeyWorkActivity, "WORK")
	v.SetDefault(KeyLunchActivity, "LUNCH")
	v.SetDefault(KeyServerPort, 8080)
	v.SetDefault(KeyServerMaxUploadMB, 32)
	v.SetDefault(KeyServerMaxSessions, 64)
	v.SetDefault(KeyLogLevel, "info")
}
