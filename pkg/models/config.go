package models

// IndexMode selects which ordering a delete index refers to.
type IndexMode string

const (
	// IndexSorted addresses the priority-sorted view shown by ls.
	IndexSorted IndexMode = "sorted"
	// IndexRaw addresses the literal line order of the pending file.
	IndexRaw IndexMode = "raw"
)

// EventsConfig controls the optional JSONL event log.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path" validate:"required_if=Enabled true"`
}

// Config holds settings read from .taskconfig via Viper. File paths are
// absolute once returned by the configuration manager.
type Config struct {
	PendingFile    string       `yaml:"pending_file" mapstructure:"pending_file" validate:"required,nefield=CompletedFile"`
	CompletedFile  string       `yaml:"completed_file" mapstructure:"completed_file" validate:"required"`
	DeleteIndexing IndexMode    `yaml:"delete_indexing" mapstructure:"delete_indexing" validate:"oneof=sorted raw"`
	Events         EventsConfig `yaml:"events" mapstructure:"events"`
}
