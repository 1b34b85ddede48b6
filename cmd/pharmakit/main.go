package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/pharmakit/internal/shell"
	"github.com/dmitrymomot/pharmakit/pkg/apiclient"
	"github.com/dmitrymomot/pharmakit/pkg/cart"
	"github.com/dmitrymomot/pharmakit/pkg/config"
	"github.com/dmitrymomot/pharmakit/pkg/logger"
	"github.com/dmitrymomot/pharmakit/pkg/telemetry"
	"github.com/dmitrymomot/pharmakit/pkg/tokenstore"
	"github.com/dmitrymomot/pharmakit/svc/auth"
	"github.com/dmitrymomot/pharmakit/svc/catalog"
	"github.com/dmitrymomot/pharmakit/svc/guard"
	"github.com/dmitrymomot/pharmakit/svc/orders"
	"github.com/dmitrymomot/pharmakit/svc/session"
	"github.com/dmitrymomot/pharmakit/svc/users"
)

func main() {
	envFile := flag.String("env", "", "additional .env file to load")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []config.Option
	if *envFile != "" {
		opts = append(opts, config.WithEnvFiles(*envFile))
	}

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr, opts...); err != nil {
		fmt.Fprintf(os.Stderr, "pharmakit: %v\n", err)
		os.Exit(1)
	}
}

// telemetryFlushTimeout bounds the final span export on exit.
const telemetryFlushTimeout = 5 * time.Second

func run(ctx context.Context, in io.Reader, out, logOut io.Writer, opts ...config.Option) error {
	cfg, err := loadConfigs(opts...)
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.app.Env, "pharmakit"),
		logger.WithLevelName(cfg.app.LogLevel),
		logger.WithOutput(logOut),
		logger.WithContextExtractors(logger.RequestIDExtractor(), logger.RoleExtractor()),
	)

	tel, err := telemetry.Setup(ctx, cfg.tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryFlushTimeout)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			log.WarnContext(ctx, "failed to flush traces", logger.Component("main"), logger.Error(err))
		}
	}()

	routes := guard.DefaultRoutes()
	if cfg.app.RoutesFile != "" {
		if routes, err = guard.LoadRoutes(cfg.app.RoutesFile); err != nil {
			return err
		}
	}

	store, err := tokenstore.Open(ctx, cfg.store)
	if err != nil {
		return err
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	// The session reads the token the API client sends, and the auth service
	// that backs the session sends through an API client. Break the loop with
	// a token source bound after the manager exists.
	var mgr *session.Manager
	tokens := apiclient.TokenFunc(func() (string, bool) {
		if mgr == nil {
			return "", false
		}
		return mgr.Token()
	})

	api, err := apiclient.New(cfg.api,
		apiclient.WithTokenSource(tokens),
		apiclient.WithLogger(log),
		apiclient.WithTracing(tel.TracerProvider(), tel.Propagator()),
	)
	if err != nil {
		return err
	}

	authSvc := auth.NewService(api, auth.WithLogger(log))
	defer authSvc.Wait()
	mgr = session.NewManager(authSvc, store, session.WithConfig(cfg.session), session.WithLogger(log))

	if mgr.Restore(ctx) {
		log.InfoContext(ctx, "restored previous session", logger.Component("main"))
	}
	mgr.Start(ctx)
	defer mgr.Stop()

	sh := shell.New(shell.Deps{
		Session: mgr,
		Routes:  routes,
		Auth:    authSvc,
		Catalog: catalog.NewService(api, catalog.WithConfig(cfg.catalog), catalog.WithLogger(log)),
		Orders:  orders.NewService(api, orders.WithLogger(log)),
		Users:   users.NewService(api, users.WithLogger(log)),
		Cart:    cart.New(),
		Logger:  log,
	}, out)

	return sh.Run(ctx, in)
}
