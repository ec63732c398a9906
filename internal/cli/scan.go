package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/spacemap/internal/model"
	"github.com/lumipallolabs/spacemap/internal/render"
)

func newScanCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Scan a folder and print its largest entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)

			// summaries need the node tree, so always scan in process
			cfg.Remote = ""
			path, err := scanPath(cfg, args)
			if err != nil {
				return err
			}

			local := newLocal(cfg, logger)
			info, err := local.Scan(ctx, path)
			if err != nil {
				return err
			}
			logger.Info("scanned", "path", info.Path, "files", info.FileCount, "folders", info.DirCount)

			writeSummary(cmd.OutOrStdout(), local.Root(), top)
			return nil
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", 20, "number of entries to print")
	return cmd
}

// writeSummary prints root's largest children, which a finished scan keeps
// sorted by size
func writeSummary(w io.Writer, root *model.Node, top int) {
	total := root.TotalSize()
	header := lipgloss.NewStyle().Bold(true)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "SIZE", "SHARE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			if col > 0 {
				return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for i, c := range root.Children {
		if top > 0 && i >= top {
			break
		}
		name := c.Name
		if c.IsContainer() {
			name += "/"
		}
		share := "-"
		if total > 0 {
			share = strconv.FormatFloat(100*float64(c.TotalSize())/float64(total), 'f', 1, 64) + "%"
		}
		t.Row(name, render.FormatSize(c.TotalSize()), share)
	}

	if root.HasDiskInfo() {
		fmt.Fprintf(w, "%s  %s  (disk %s used of %s)\n", root.Path, render.FormatSize(total),
			render.FormatSize(root.UsedBytes()), render.FormatSize(root.DiskTotal))
	} else {
		fmt.Fprintf(w, "%s  %s\n", root.Path, render.FormatSize(total))
	}
	fmt.Fprintln(w, t.Render())
}
