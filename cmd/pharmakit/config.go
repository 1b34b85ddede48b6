package main

import (
	"github.com/dmitrymomot/pharmakit/pkg/apiclient"
	"github.com/dmitrymomot/pharmakit/pkg/config"
	"github.com/dmitrymomot/pharmakit/pkg/telemetry"
	"github.com/dmitrymomot/pharmakit/pkg/tokenstore"
	"github.com/dmitrymomot/pharmakit/svc/catalog"
	"github.com/dmitrymomot/pharmakit/svc/session"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`

	// RoutesFile overrides the built-in route table with a YAML file.
	RoutesFile string `env:"ROUTES_FILE"`
}

type configs struct {
	app     appConfig
	api     apiclient.Config
	store   tokenstore.Config
	session session.Config
	catalog catalog.Config
	tracing telemetry.Config
}

func loadConfigs(opts ...config.Option) (configs, error) {
	var c configs
	for _, load := range []func() error{
		func() error { return config.Load(&c.app, opts...) },
		func() error { return config.Load(&c.api, opts...) },
		func() error { return config.Load(&c.store, opts...) },
		func() error { return config.Load(&c.session, opts...) },
		func() error { return config.Load(&c.catalog, opts...) },
		func() error { return config.Load(&c.tracing, opts...) },
	} {
		if err := load(); err != nil {
			return configs{}, err
		}
	}
	return c, nil
}
