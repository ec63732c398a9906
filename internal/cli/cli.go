// Package cli implements the spacemap command-line interface.
//
// # Commands
//
//   - view: open the treemap in a window (the default)
//   - tui: draw the treemap in the terminal
//   - render: lay out and draw a folder to PNG without a window
//   - serve: run the HTTP layout provider
//   - scan: print the largest entries of a folder
//
// Every command reads the configuration once in the root's pre-run and
// finds it, with the logger, in the command context.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/spacemap/internal/config"
	"github.com/lumipallolabs/spacemap/internal/logging"
	"github.com/lumipallolabs/spacemap/internal/provider"
)

// appName is used for the window title and help text
const appName = "spacemap"

// Execute runs the CLI with ctx as the root context
func Execute(ctx context.Context, version string, window WindowFunc) error {
	return NewRootCommand(version, window).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. Running it without a subcommand
// opens the window.
func NewRootCommand(version string, window WindowFunc) *cobra.Command {
	var (
		verbose    bool
		configFile string
	)

	root := &cobra.Command{
		Use:          appName + " [path]",
		Short:        "spacemap shows disk usage as a squarified treemap",
		Long:         `spacemap scans a folder and draws it as nested rectangles sized by disk usage. Click to select, double-click to zoom, right-click a folder to open it in the file manager.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := logging.New(cmd.ErrOrStderr(), level)

			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger.Debug("config loaded", "remote", cfg.Remote, "free_space", cfg.ShowFreeSpace)

			ctx := withLogger(cmd.Context(), logger)
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), args, version, window)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVarP(&configFile, "config", "c", "", "config file (default ~/.config/spacemap/config.yaml)")
	flags.String("remote", "", "layout provider URL, e.g. http://host:8731 (default: scan locally)")
	flags.Bool("free-space", true, "show free disk space at mount roots")
	flags.Bool("skip-hidden", false, "skip dot files and folders")
	flags.StringSlice("exclude", nil, "absolute paths to skip while scanning")
	flags.Int("workers", 0, "scanner goroutines")

	root.AddCommand(newViewCmd(version, window))
	root.AddCommand(newTUICmd(version))
	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newScanCmd())

	return root
}

// newProvider returns a Remote provider when one is configured and a Local
// one otherwise
func newProvider(cfg config.Config, logger *log.Logger) provider.Provider {
	if cfg.Remote != "" {
		logger.Debug("using remote provider", "url", cfg.Remote)
		return provider.NewRemote(cfg.Remote, nil)
	}
	return newLocal(cfg, logger)
}

func newLocal(cfg config.Config, logger *log.Logger) *provider.Local {
	return provider.NewLocal(provider.LocalOptions{
		Profile: cfg.Profile(),
		Workers: cfg.Scan.Workers,
		Layout:  cfg.LayoutOptions(),
		Logger:  logger,
	})
}

// scanPath picks the argument or the configured default. Local paths are
// made absolute; remote ones are passed through for the server to resolve.
func scanPath(cfg config.Config, args []string) (string, error) {
	path := cfg.Path
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return "", fmt.Errorf("%w: no path to scan", config.ErrInvalid)
	}
	if cfg.Remote != "" {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", err
	}
	return abs, nil
}
