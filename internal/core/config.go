// Package core contains the business logic of the task list: configuration,
// ordering rules, and the add, list, delete, complete and report operations.
package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/valter-silva-au/task-cli/pkg/models"
)

// ConfigFileName is the optional YAML configuration file in the base path.
const ConfigFileName = ".taskconfig"

// ConfigurationManager defines the interface for loading and validating
// configuration from the .taskconfig file.
type ConfigurationManager interface {
	LoadConfig() (*models.Config, error)
	ValidateConfig(cfg *models.Config) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files and TASK_ environment overrides.
type viperConfigManager struct {
	// basePath is the directory holding .taskconfig and, by default, the task files.
	basePath string
	validate *validator.Validate
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath, validate: validator.New()}
}

// DefaultConfig returns the configuration used when no .taskconfig exists.
// Paths are relative to the base path.
func DefaultConfig() *models.Config {
	return &models.Config{
		PendingFile:    "task.txt",
		CompletedFile:  "completed.txt",
		DeleteIndexing: models.IndexSorted,
		Events: models.EventsConfig{
			Enabled: false,
			Path:    ".task_events.jsonl",
		},
	}
}

// LoadConfig reads .taskconfig from the base path. A missing file yields the
// defaults. Relative file paths are resolved against the base path.
func (cm *viperConfigManager) LoadConfig() (*models.Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetEnvPrefix("TASK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("files.pending", cfg.PendingFile)
	v.SetDefault("files.completed", cfg.CompletedFile)
	v.SetDefault("indexing.delete", string(cfg.DeleteIndexing))
	v.SetDefault("events.enabled", cfg.Events.Enabled)
	v.SetDefault("events.path", cfg.Events.Path)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	cfg.PendingFile = cm.resolve(v.GetString("files.pending"))
	cfg.CompletedFile = cm.resolve(v.GetString("files.completed"))
	cfg.DeleteIndexing = models.IndexMode(strings.ToLower(strings.TrimSpace(v.GetString("indexing.delete"))))
	cfg.Events.Enabled = v.GetBool("events.enabled")
	cfg.Events.Path = cm.resolve(v.GetString("events.path"))

	if err := cm.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cm *viperConfigManager) resolve(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cm.basePath, p)
}

// ValidateConfig checks the configuration for invalid values and returns a
// clear error message identifying every problem.
func (cm *viperConfigManager) ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	err := cm.validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating configuration: %w", err)
	}

	errs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, describeFieldError(cfg, fe))
	}
	return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
}

// configKeys maps struct namespaces to their .taskconfig keys.
var configKeys = map[string]string{
	"Config.PendingFile":    "files.pending",
	"Config.CompletedFile":  "files.completed",
	"Config.DeleteIndexing": "indexing.delete",
	"Config.Events.Path":    "events.path",
}

func describeFieldError(cfg *models.Config, fe validator.FieldError) string {
	key, ok := configKeys[fe.StructNamespace()]
	if !ok {
		key = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return key + " must not be empty"
	case "required_if":
		return key + " must not be empty when events are enabled"
	case "nefield":
		return fmt.Sprintf("files.pending and files.completed must differ, both are %q", cfg.PendingFile)
	case "oneof":
		return fmt.Sprintf("%s %q is invalid, must be one of: %s", key, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", key, fe.Tag())
	}
}
