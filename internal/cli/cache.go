package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beaconnet/pkg/cache"
	"github.com/matzehuels/beaconnet/pkg/errors"
	"github.com/matzehuels/beaconnet/pkg/pipeline"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It clears whichever
// backend the config file selects, optionally only one view or only expired
// file entries.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var (
		view    string
		expired bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached renders",
		Example: `  beaconnet cache clear
  beaconnet cache clear --view beams
  beaconnet cache clear --expired`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			backend := c.Config.Cache.Backend
			if backend == cache.BackendNone {
				printInfo(out, "Caching is disabled")
				return nil
			}
			if view != "" && expired {
				return errors.New(errors.ErrCodeInvalidInput, "--view and --expired cannot be combined")
			}
			if view != "" {
				if err := pipeline.ValidateView(view); err != nil {
					return err
				}
			}

			cc, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cc.Close()
			ctx := cmd.Context()

			switch {
			case expired:
				fc, ok := cc.(*cache.FileCache)
				if !ok {
					return errors.New(errors.ErrCodeUnsupported, "the %s cache expires entries itself", backend)
				}
				n, err := fc.Prune(ctx)
				if err != nil {
					return errors.Wrap(errors.ErrCodeCacheBackend, err, "prune %s cache", backend)
				}
				printSuccess(out, "Removed %d expired renders", n)
			case view != "":
				vc, ok := cc.(cache.ViewClearer)
				if !ok {
					return errors.New(errors.ErrCodeUnsupported, "the %s cache cannot be cleared per view", backend)
				}
				if err := vc.ClearView(ctx, view); err != nil {
					return errors.Wrap(errors.ErrCodeCacheBackend, err, "clear %s view in %s cache", view, backend)
				}
				printSuccess(out, "Cleared %s renders from %s cache", StyleHighlight.Render(view), backend)
			default:
				clearer, ok := cc.(cache.Clearer)
				if !ok {
					return errors.New(errors.ErrCodeUnsupported, "the %s cache cannot be cleared", backend)
				}
				if err := clearer.Clear(ctx); err != nil {
					return errors.Wrap(errors.ErrCodeCacheBackend, err, "clear %s cache", backend)
				}
				printSuccess(out, "Cleared %s cache", backend)
			}

			if fc, ok := cc.(*cache.FileCache); ok {
				printDetail(out, "Directory: %s", fc.Dir())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", "", "only clear renders of this view (network or beams)")
	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired renders (file cache)")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand, which lists the
// cached renders per view and format.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cached renders per view and format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.fileCacheDir(); err != nil {
				return err
			}
			cc, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cc.Close()
			fc, ok := cc.(*cache.FileCache)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "no cache directory is available")
			}

			usage, err := fc.Usage(cmd.Context())
			if err != nil {
				return errors.Wrap(errors.ErrCodeCacheBackend, err, "read file cache")
			}
			out := cmd.OutOrStdout()
			if len(usage) == 0 {
				printInfo(out, "The render cache is empty")
				printDetail(out, "Directory: %s", fc.Dir())
				return nil
			}

			var entries int
			var bytes int64
			rows := make([][]string, len(usage))
			for i, u := range usage {
				rows[i] = []string{u.View, u.Format, strconv.Itoa(u.Entries), strconv.Itoa(u.Expired), formatBytes(u.Bytes)}
				entries += u.Entries
				bytes += u.Bytes
			}
			printTable(out, []string{"View", "Format", "Renders", "Expired", "Size"}, rows)
			printSuccess(out, "%d renders, %s", entries, formatBytes(bytes))
			printDetail(out, "Directory: %s", fc.Dir())
			return nil
		},
	}
}

// fileCacheDir returns the configured file cache directory, or UNSUPPORTED
// when another backend is selected.
func (c *CLI) fileCacheDir() (string, error) {
	if b := c.Config.Cache.Backend; b != cache.BackendFile {
		return "", errors.New(errors.ErrCodeUnsupported, "the %s cache has no directory", b)
	}
	if dir := c.Config.Cache.Dir; dir != "" {
		return dir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}

// formatBytes renders a size such as "12.4 KiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
