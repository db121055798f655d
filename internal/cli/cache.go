package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jamestrimble/maximal-clique/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
		Long: `Manage the file cache of counted results and drawings.

These commands act on the file backend only; Redis and MongoDB entries
expire on their own.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())

	return cmd
}

// fileCacheDir returns the configured file cache directory.
func (c *CLI) fileCacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo(c.Out, "Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, _, err := fc.Stats()
			if err != nil {
				return err
			}
			if err := fc.Clear(); err != nil {
				return err
			}

			printSuccess(c.Out, "Cleared %d cached entries", count)
			printDetail(c.Out, "Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, dir)
			return nil
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the number and size of cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			var entries int
			var size int64
			if _, err := os.Stat(dir); err == nil {
				fc, err := cache.NewFileCache(dir)
				if err != nil {
					return err
				}
				if entries, size, err = fc.Stats(); err != nil {
					return err
				}
			}

			t := table.New().
				Border(lipgloss.HiddenBorder()).
				Rows(
					[]string{"backend", c.Config.Cache.Backend},
					[]string{"directory", dir},
					[]string{"entries", formatCount(int64(entries))},
					[]string{"size", formatBytes(size)},
				).
				StyleFunc(func(row, col int) lipgloss.Style {
					if col == 0 {
						return styleKey
					}
					return StyleValue
				})
			fmt.Fprintln(c.Out, t.Render())
			return nil
		},
	}
}

// formatBytes renders n in B, KiB, MiB or GiB.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMG"[exp])
}
