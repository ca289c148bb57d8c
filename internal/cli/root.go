// Package cli implements the swatch command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/swatch/internal/ctxlog"
	"github.com/mesh-intelligence/swatch/internal/paths"
	"github.com/mesh-intelligence/swatch/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// ErrFilesFailed is returned by check and build when at least one content
// file did not pass.
var ErrFilesFailed = errors.New("one or more files failed")

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps an error returned by the root command to a process exit code.
// Errors without an explicit code are usage errors from cobra.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by the subcommands of one root command.
type app struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
}

// NewRootCmd creates the top-level "swatch" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "swatch",
		Short: "Validate and render reader preferences for a static site",
		Long: "Swatch checks the preferences declared in content frontmatter against an\n" +
			"option catalog, derives their defaults and renders the pages that pass.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.swatch)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "report database directory (default: $(CWD)/.swatch-db)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug detail to stderr")
	pf.String(flagContentDir, "", "content directory (default: content)")
	pf.String(flagOutputDir, "", "output directory (default: public)")
	pf.String(flagCatalog, "", "option catalog file (default: options.yaml)")
	pf.String(flagInclude, "", "content file pattern (default: **/*.md)")
	pf.Int(flagWorkers, 0, "files evaluated in parallel (default: 4)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newCheckCmd(a),
		newBuildCmd(a),
		newDefaultsCmd(a),
		newReportCmd(a),
		newWatchCmd(a),
	)
	return root
}

// setup resolves directories, loads configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	cfg, err := loadConfig(configDir, cmd.Flags())
	if err != nil {
		return userError(err)
	}
	cfg.DataDir, err = paths.ResolveDataDir(a.flags.dataDir, cfg.DataDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	a.cfg = cfg

	logger := ctxlog.New(cmd.ErrOrStderr(), a.flags.verbose)
	logger.Debug("Config loaded.", "config_dir", configDir, "content", cfg.ContentDir,
		"catalog", cfg.CatalogPath, "data_dir", cfg.DataDir)
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	return nil
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, NewRootCmd(), os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrFilesFailed) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}
