package main

import (
	"fmt"
	"strings"

	"github.com/localrivet/storefront/assets"
	"github.com/localrivet/storefront/catalog"
	"github.com/localrivet/storefront/config"
	"github.com/localrivet/storefront/hooks"
	"github.com/localrivet/storefront/prefix"
	"github.com/localrivet/storefront/server"
	"github.com/localrivet/storefront/shop"
	"github.com/localrivet/storefront/storefront"
	"github.com/localrivet/storefront/types"
)

// app is a fully wired storefront server.
type app struct {
	server   *server.Server
	sessions *shop.Sessions
}

// loadCountries builds the country index from the configured file or the
// built-in list. An unreadable or empty source is fatal.
func loadCountries(cfg *config.Config) (*prefix.Index, error) {
	if cfg.Store.CountriesFile != "" {
		return prefix.LoadFile(cfg.Store.CountriesFile)
	}
	return prefix.Load(strings.NewReader(assets.Countries))
}

func shopSettings(cfg *config.Config) shop.Settings {
	return shop.Settings{Currency: cfg.Store.Currency, ImagesServerURL: cfg.Store.ImagesServerURL}
}

func newApp(cfg *config.Config, logger types.Logger) (*app, error) {
	countries, err := loadCountries(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded %d countries (%d prefixes)", countries.Len(), countries.Keys())

	cat := catalog.Default()
	sessions := shop.NewSessions(cat, shopSettings(cfg))
	store, err := storefront.New(storefront.Options{
		Catalog:         cat,
		Sessions:        sessions,
		Countries:       countries,
		ImagesServerURL: cfg.Store.ImagesServerURL,
		MCPURLImages:    cfg.Store.MCPURLImages,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	srv := server.NewServer(cfg.Server.Name,
		server.WithLogger(logger),
		server.WithVersion(cfg.Server.Version),
		server.WithInstructions(cfg.Server.Instructions),
		server.WithToolHooks(hooks.LogToolCalls(logger)),
	)
	if err := store.Register(srv); err != nil {
		return nil, fmt.Errorf("failed to register storefront: %w", err)
	}
	return &app{server: srv, sessions: sessions}, nil
}
