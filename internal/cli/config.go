package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/swatch/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "SWATCH"

	cfgKeyContentDir = "content_dir"
	cfgKeyOutputDir  = "output_dir"
	cfgKeyCatalog    = "catalog"
	cfgKeyInclude    = "include"
	cfgKeyWorkers    = "workers"
	cfgKeyDataDir    = "data_dir"

	flagContentDir = "content-dir"
	flagOutputDir  = "output-dir"
	flagCatalog    = "catalog"
	flagInclude    = "include"
	flagWorkers    = "workers"
)

// flagKeys binds command-line flags to config keys.
var flagKeys = map[string]string{
	flagContentDir: cfgKeyContentDir,
	flagOutputDir:  cfgKeyOutputDir,
	flagCatalog:    cfgKeyCatalog,
	flagInclude:    cfgKeyInclude,
	flagWorkers:    cfgKeyWorkers,
}

// loadConfig reads config.yaml from configDir using Viper. Values resolve as
// flag > SWATCH_* env > config.yaml > default. A missing config.yaml is not
// an error.
func loadConfig(configDir string, fs *pflag.FlagSet) (types.Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyContentDir, types.DefaultContentDir)
	v.SetDefault(cfgKeyOutputDir, types.DefaultOutputDir)
	v.SetDefault(cfgKeyCatalog, types.DefaultCatalogPath)
	v.SetDefault(cfgKeyInclude, types.DefaultInclude)
	v.SetDefault(cfgKeyWorkers, types.DefaultWorkers)
	v.SetDefault(cfgKeyDataDir, "")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if f := fs.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return types.Config{}, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read %s: %w", filepath.Join(configDir, configFileExt), err)
		}
	}

	cfg := types.Config{
		ContentDir:  v.GetString(cfgKeyContentDir),
		OutputDir:   v.GetString(cfgKeyOutputDir),
		CatalogPath: v.GetString(cfgKeyCatalog),
		Include:     v.GetString(cfgKeyInclude),
		Workers:     v.GetInt(cfgKeyWorkers),
		DataDir:     v.GetString(cfgKeyDataDir),
	}.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
