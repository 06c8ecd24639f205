package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegen/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the HTTP response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached HTTP responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == cache.BackendNone {
				printInfo("Cache is disabled")
				return nil
			}

			lock, err := acquireLock(cfg.Cache.Dir)
			if err != nil {
				return err
			}
			defer lock.Unlock()

			cch, err := openCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cch.Close()

			clearer, ok := cch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("the %s cache cannot be cleared", cfg.Cache.Backend)
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Backend: %s", cfg.Cache.Backend)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached responses are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(cfg.Cache.Backend, cfg.Cache.Dir, cfg.Cache.URL))
			return nil
		},
	}
}

// cacheLocation describes where a backend keeps its entries.
func cacheLocation(backend, dir, url string) string {
	switch backend {
	case cache.BackendNone:
		return "(disabled)"
	case cache.BackendSQLite:
		if url != "" {
			return url
		}
		return cache.SQLitePath(dir)
	case cache.BackendRedis, cache.BackendMongo:
		return url
	default:
		return dir
	}
}
