package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/rankplot/internal/server"
	"github.com/matzehuels/rankplot/pkg/cache"
	"github.com/matzehuels/rankplot/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, redisURL string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Example: `  rankplot serve --addr :8080
  rankplot serve --redis redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg()
			if !cmd.Flags().Changed("addr") && cfg.Server.Addr != "" {
				addr = cfg.Server.Addr
			}
			if cmd.Flags().Changed("redis") {
				cfg.Server.RedisURL = redisURL
			}

			ch, err := c.newCache(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, appName+":"), c.Logger)
			defer runner.Close()

			printInfo("Serving on %s", StyleHighlight.Render(addr))
			printDetail("cache: %s", cacheName(ch))
			return server.New(runner, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for a shared cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func cacheName(ch cache.Cache) string {
	switch v := ch.(type) {
	case *cache.RedisCache:
		return "redis"
	case *cache.FileCache:
		return v.Dir()
	}
	return "disabled"
}
