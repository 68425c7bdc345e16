package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/exprtree/pkg/observability/prom"
	"github.com/matzehuels/exprtree/pkg/server"
	"github.com/matzehuels/exprtree/pkg/session"
)

// sessionCleanupInterval is how often expired sessions are purged from
// stores that don't expire them on their own.
const sessionCleanupInterval = 5 * time.Minute

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		backend   string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve compiler sessions over HTTP",
		Long: `Serve compiler sessions over HTTP.

Each session holds one compiled expression. Sessions are kept in the store
selected by the [session] section of the config file (memory, file, redis or
mongo), so several instances can share them.

Prometheus metrics are exposed at /metrics unless disabled.`,
		Example: `  exprtree serve --addr :8080
  exprtree serve --sessions file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			if backend != "" {
				c.Config.Session.Backend = backend
			}
			if noMetrics {
				c.Config.Server.Metrics = false
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, then :8080)")
	cmd.Flags().StringVar(&backend, "sessions", "", "session backend: memory, file, redis, mongo")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	if err := c.Config.Validate(); err != nil {
		return err
	}

	store, err := session.Open(ctx, c.Config.Session)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	sessions := session.NewManager(store, c.Config.Session.TTL)
	defer sessions.Close()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var metrics http.Handler
	if c.Config.Server.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prom.NewHooks(reg).Register()
		metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	go c.cleanupSessions(ctx, sessions)

	handler := server.NewHandler(server.Config{
		Sessions: sessions,
		Runner:   runner,
		Logger:   c.Logger,
		Metrics:  metrics,
	})
	c.Logger.Info("session store", "backend", c.Config.Session.Backend, "ttl", c.Config.Session.TTL)
	return server.Serve(ctx, c.Config.Server.Addr, handler, c.Logger)
}

func (c *CLI) cleanupSessions(ctx context.Context, m *session.Manager) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Cleanup(ctx); err != nil {
				c.Logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
