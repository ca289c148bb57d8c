package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/swatch/internal/paths"
	"github.com/mesh-intelligence/swatch/internal/sqlite"
	"github.com/mesh-intelligence/swatch/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	ContentDir string `yaml:"content_dir"`
	OutputDir  string `yaml:"output_dir"`
	Catalog    string `yaml:"catalog"`
	Include    string `yaml:"include"`
	Workers    int    `yaml:"workers"`
	DataDir    string `yaml:"data_dir,omitempty"`
}

const sampleCatalog = `# Option sets referenced by the preferences in content frontmatter.
# Each set lists its options in display order; exactly one is the default.
color_options:
  - {id: blue, name: Blue, default: true}
  - {id: red, name: Red}
finish_options:
  - {id: eggshell, name: Eggshell, default: true}
  - {id: matte, name: Matte}
eggshell_blue_paint_options:
  - {id: elegant_royal, name: Elegant Royal, default: true}
  - {id: navy_classic, name: Navy Classic}
eggshell_red_paint_options:
  - {id: brick, name: Brick, default: true}
matte_blue_paint_options:
  - {id: slate, name: Slate, default: true}
matte_red_paint_options:
  - {id: rust, name: Rust, default: true}
`

const samplePage = `---
title: Choosing a paint
preferences:
  - {id: color, name: Color, options: color_options}
  - {id: finish, name: Finish, options: finish_options}
  - {id: paint, name: Paint, options: <FINISH>_<COLOR>_paint_options}
---
The paint list follows the color and finish you pick.
`

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a site configuration, a sample catalog and a sample page",
		Long: "Init writes config.yaml, an option catalog and one content page when they do\n" +
			"not exist yet, then creates the report database. Existing files are kept.",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := initConfigDir(a.flags.configDir)
			if err != nil {
				return sysError(err)
			}
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				return sysError(fmt.Errorf("create config directory: %w", err))
			}

			cfg := a.cfg
			if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), cfg); err != nil {
				return sysError(fmt.Errorf("write config: %w", err))
			}
			if err := writeIfMissing(cfg.CatalogPath, sampleCatalog); err != nil {
				return sysError(fmt.Errorf("write catalog: %w", err))
			}
			if err := writeIfMissing(filepath.Join(cfg.ContentDir, "index.md"), samplePage); err != nil {
				return sysError(fmt.Errorf("write sample page: %w", err))
			}

			store := sqlite.NewBackend()
			if err := store.Attach(cfg); err != nil {
				return sysError(fmt.Errorf("initialize report store: %w", err))
			}
			dataDir := store.DataDir()
			if err := store.Detach(); err != nil {
				return sysError(fmt.Errorf("finalize report store: %w", err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Swatch initialized in %s\n", configDir)
			fmt.Fprintf(out, "Report store: %s\n", dataDir)
			return nil
		},
	}
}

// initConfigDir picks where init writes config.yaml. Unlike other commands it
// never falls back to the user-level directory: a new site is initialized in
// the working directory.
func initConfigDir(flag string) (string, error) {
	if flag != "" || os.Getenv(paths.EnvConfigDir) != "" {
		return paths.ResolveConfigDir(flag)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, paths.DefaultConfigDirName), nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. If it already exists, the function returns nil (idempotent).
func writeConfigIfMissing(path string, cfg types.Config) error {
	data, err := yaml.Marshal(&configFile{
		ContentDir: cfg.ContentDir,
		OutputDir:  cfg.OutputDir,
		Catalog:    cfg.CatalogPath,
		Include:    cfg.Include,
		Workers:    cfg.Workers,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return writeIfMissing(path, string(data))
}

func writeIfMissing(path, content string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
