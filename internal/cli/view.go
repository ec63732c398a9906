package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/lumipallolabs/spacemap/internal/core"
	"github.com/lumipallolabs/spacemap/internal/logging"
	"github.com/lumipallolabs/spacemap/internal/ui"
	"github.com/lumipallolabs/spacemap/internal/ui/tui"
)

var errNoWindow = errors.New("this build has no window support")

// WindowFunc opens a window of width x height showing sess and blocks until
// it closes. It is injected so the command tree builds without a graphics
// stack.
type WindowFunc func(sess *core.Session, path, title string, width, height int) error

func newViewCmd(version string, window WindowFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "view [path]",
		Short: "Open the treemap in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), args, version, window)
		},
	}
}

func runView(ctx context.Context, args []string, version string, window WindowFunc) error {
	if window == nil {
		return errNoWindow
	}
	cfg := configFromContext(ctx)
	logger := loggerFromContext(ctx)

	path, err := scanPath(cfg, args)
	if err != nil {
		return err
	}

	w, h := ui.WindowCanvas(cfg.Window.Width, cfg.Window.Height)
	sess := core.New(core.Options{
		Provider:       newProvider(cfg, logger),
		Width:          w,
		Height:         h,
		ShowFreeSpace:  cfg.ShowFreeSpace,
		ResizeDebounce: cfg.ResizeDebounce,
		Logger:         logger,
	})

	logger.Debug("opening window", "path", path, "version", version)
	return window(sess, path, appName, cfg.Window.Width, cfg.Window.Height)
}

func newTUICmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [path]",
		Short: "Draw the treemap in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)

			path, err := scanPath(cfg, args)
			if err != nil {
				return err
			}

			// stderr belongs to the terminal UI, so log to debug.log only
			logger := logging.Debug
			w, h := tui.CanvasSize(80, 24)
			sess := core.New(core.Options{
				Provider:       newProvider(cfg, logger),
				Style:          tui.Style(),
				Width:          w,
				Height:         h,
				LayoutScale:    tui.LayoutScale,
				ShowFreeSpace:  cfg.ShowFreeSpace,
				ResizeDebounce: cfg.ResizeDebounce,
				Logger:         logger,
			})
			defer sess.Close()

			return tui.Run(tui.NewApp(sess, version, path))
		},
	}
}
