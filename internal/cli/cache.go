package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fourcolor/pkg/cache"
	"github.com/matzehuels/fourcolor/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the preview cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached previews",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newCache(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			var count int
			var where string
			switch s := store.(type) {
			case *cache.FileCache:
				count, err = s.Clear()
				where = "Directory: " + s.Dir()
			case *cache.RedisCache:
				count, err = s.Clear(cmd.Context())
				where = "Redis: " + c.Config.Cache.RedisAddr
			default:
				printInfo("Caching is disabled")
				return nil
			}
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			if count == 0 {
				printInfo("Cache is empty")
			} else {
				printSuccess("Cleared %d cached entries", count)
			}
			printDetail("%s", where)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where previews are cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.Config.Cache.Backend {
			case config.BackendRedis:
				fmt.Printf("redis://%s/%d\n", c.Config.Cache.RedisAddr, c.Config.Cache.RedisDB)
				return nil
			case config.BackendNone:
				printInfo("Caching is disabled")
				return nil
			}
			dir, err := c.cacheDirectory()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
