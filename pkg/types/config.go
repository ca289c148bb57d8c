package types

import "errors"

// Config holds the settings for one build.
type Config struct {
	ContentDir  string `json:"content_dir" yaml:"content_dir"`
	OutputDir   string `json:"output_dir" yaml:"output_dir"`
	CatalogPath string `json:"catalog" yaml:"catalog"`
	Include     string `json:"include" yaml:"include"`
	Workers     int    `json:"workers" yaml:"workers"`
	DataDir     string `json:"data_dir" yaml:"data_dir"`
}

// Defaults applied by the CLI when config.yaml leaves a key unset.
const (
	DefaultContentDir  = "content"
	DefaultOutputDir   = "public"
	DefaultCatalogPath = "options.yaml"
	DefaultInclude     = "**/*.md"
	DefaultWorkers     = 4
)

// Config validation errors.
var (
	ErrContentDirEmpty  = errors.New("content directory must not be empty")
	ErrOutputDirEmpty   = errors.New("output directory must not be empty")
	ErrCatalogPathEmpty = errors.New("catalog path must not be empty")
	ErrIncludeEmpty     = errors.New("include pattern must not be empty")
	ErrWorkersInvalid   = errors.New("workers must be positive")
)

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.ContentDir == "" {
		return ErrContentDirEmpty
	}
	if c.OutputDir == "" {
		return ErrOutputDirEmpty
	}
	if c.CatalogPath == "" {
		return ErrCatalogPathEmpty
	}
	if c.Include == "" {
		return ErrIncludeEmpty
	}
	if c.Workers <= 0 {
		return ErrWorkersInvalid
	}
	return nil
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c Config) WithDefaults() Config {
	if c.ContentDir == "" {
		c.ContentDir = DefaultContentDir
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.CatalogPath == "" {
		c.CatalogPath = DefaultCatalogPath
	}
	if c.Include == "" {
		c.Include = DefaultInclude
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	return c
}
