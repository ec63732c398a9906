package cli

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/fogleman/gg"
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/spacemap/internal/core"
)

const (
	defaultWidth  = 1200 // default canvas width in logical pixels
	defaultHeight = 800  // default canvas height in logical pixels
)

// renderOpts holds the flags of the render command
type renderOpts struct {
	output  string  // visible surface PNG
	picking string  // optional picking surface PNG
	width   float64 // logical canvas width
	height  float64 // logical canvas height
	scale   float64 // device pixel ratio
	timeout time.Duration
}

func newRenderCmd() *cobra.Command {
	opts := renderOpts{
		width:   defaultWidth,
		height:  defaultHeight,
		scale:   1,
		timeout: 10 * time.Minute,
	}

	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Scan a folder and draw its treemap to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.width <= 0 || opts.height <= 0 || opts.scale <= 0 {
				return fmt.Errorf("width, height and scale must be positive")
			}
			return runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "treemap.png", "output PNG")
	cmd.Flags().StringVar(&opts.picking, "picking", "", "also write the picking surface to this PNG")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "device pixel ratio")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "give up after this long")

	return cmd
}

func runRender(ctx context.Context, args []string, opts renderOpts) error {
	cfg := configFromContext(ctx)
	logger := loggerFromContext(ctx)

	path, err := scanPath(cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	sess := core.New(core.Options{
		Provider:      newProvider(cfg, logger),
		Width:         opts.width,
		Height:        opts.height,
		Scale:         opts.scale,
		ShowFreeSpace: cfg.ShowFreeSpace,
		Logger:        logger,
	})
	defer sess.Close()

	start := time.Now()
	sess.Analyze(path)
	if err := sess.Settle(ctx); err != nil {
		return err
	}
	st := sess.Status()
	if st.LastError != nil {
		return st.LastError
	}
	logger.Info("rendered", "path", path, "rects", st.Rects, "took", time.Since(start).Round(time.Millisecond))

	if err := savePNG(opts.output, sess.Image()); err != nil {
		return err
	}
	if opts.picking != "" {
		return savePNG(opts.picking, sess.PickingImage())
	}
	return nil
}

func savePNG(path string, img image.Image) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
