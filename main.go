//
// ARTICLEFRONT
// ============
// Server-rendered front end for the upstream article API. Pages are built
// from two upstream calls, a paginated list and a single article by id,
// with slugs and short author names derived locally.
//
// Boot the server:
// ----------------
// $ API_BASE_URL=https://articles.example.com API_KEY=... go run .
//
// Print the route docs:
// ---------------------
// $ go run . -routes
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/
// $ curl http://localhost:3333/GetArticles/2?search=golang
// $ curl -i http://localhost:3333/article/42/wrong-slug
// HTTP/1.1 301 Moved Permanently
// Location: /article/42/hello-world
//
// $ curl http://localhost:9999/metrics
//
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SergeyParamoshkin/articlefront/client"
	"github.com/SergeyParamoshkin/articlefront/internal/article"
	"github.com/SergeyParamoshkin/articlefront/internal/config"
	"github.com/SergeyParamoshkin/articlefront/internal/logger"
	"github.com/SergeyParamoshkin/articlefront/internal/metrics"
	"github.com/SergeyParamoshkin/articlefront/internal/sanitize"
	"github.com/SergeyParamoshkin/articlefront/internal/view"
	"github.com/SergeyParamoshkin/articlefront/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/docgen"
	"go.opentelemetry.io/otel/metric/global"
	"go.uber.org/zap"
)

const ServiceName = "articlefront"

type App struct {
	sugarLogger *zap.SugaredLogger
	config      *config.Config
	metrics     *metrics.Metrics
	articles    *article.Handler
}

// NewApp wires the upstream client, renderer and handlers for cfg.
func NewApp(cfg *config.Config, sugar *zap.SugaredLogger, m *metrics.Metrics, opts ...client.Option) (*App, error) {
	opts = append([]client.Option{client.WithLogger(sugar), client.WithMetrics(m)}, opts...)

	c, err := client.New(cfg.APIBaseURL, cfg.APIKey, cfg.UpstreamTimeout, opts...)
	if err != nil {
		return nil, err
	}

	v, err := view.New(web.FS, cfg.MinifyHTML)
	if err != nil {
		return nil, err
	}

	return &App{
		sugarLogger: sugar,
		config:      cfg,
		metrics:     m,
		articles: article.NewHandler(c, v, sanitize.New(), article.Options{
			PageSize:     cfg.PageSize,
			SlugMismatch: cfg.SlugMismatch,
		}),
	}, nil
}

// nolint
func main() {
	config.LoadEnvFiles(".env", ".env.local")

	var (
		routes   = flag.Bool("routes", config.GetEnvBool("ARTICLEFRONT_ROUTES", false), "Generate router documentation")
		addr     = flag.String("addr", config.GetEnv("ARTICLEFRONT_ADDR", ":3333"), "application port")
		diagPort = flag.String("diag_addr", config.GetEnv("ARTICLEFRONT_DIAG_ADDR", ":9999"), "diag port")
	)

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: config: %v\n", ServiceName, err)
		os.Exit(1)
	}

	sugar, err := logger.New(ServiceName, cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: logger: %v\n", ServiceName, err)
		os.Exit(1)
	}
	defer sugar.Sync() // flushes buffer, if any

	exporter, err := metrics.NewExporter()
	if err != nil {
		sugar.Fatalf("failed to initialize prometheus exporter %v", err)
	}

	a, err := NewApp(cfg, sugar, metrics.New(global.Meter(ServiceName)))
	if err != nil {
		sugar.Fatalw("init app", "err", err)
	}

	r := a.Routes()

	// Passing -routes prints the route docs for the router above.
	if *routes {
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/articlefront",
			Intro:       "Routes of the article front end.",
		}))

		return
	}

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	servers := []*http.Server{
		{Addr: *addr, Handler: r, ReadHeaderTimeout: 5 * time.Second, WriteTimeout: cfg.UpstreamTimeout + 5*time.Second},
		{Addr: *diagPort, Handler: diagRouter, ReadHeaderTimeout: 5 * time.Second},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	for _, srv := range servers {
		srv := srv
		go func() {
			sugar.Infow("server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				sugar.Errorw("server stopped", "addr", srv.Addr, "err", err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	sugar.Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("server shutdown", "addr", srv.Addr, "err", err)
		}
	}
}
