package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/exprtree/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// localCacheDir returns the file cache directory from the config, falling
// back to the XDG location.
func (c *CLI) localCacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached tree, layout and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Cache.RedisAddr != "" {
				printWarning("Cache is on Redis at %s; entries expire on their own", c.Config.Cache.RedisAddr)
				return nil
			}
			dir, err := c.localCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
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
			dir, err := c.localCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
