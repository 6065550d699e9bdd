// Package storefront exposes the Brand Z Sports Store as MCP tools, prompts,
// completions and resources on a server.Server.
package storefront

import (
	"context"
	"errors"
	"math/rand"

	"github.com/localrivet/storefront/catalog"
	"github.com/localrivet/storefront/logx"
	"github.com/localrivet/storefront/markdown"
	"github.com/localrivet/storefront/prefix"
	"github.com/localrivet/storefront/server"
	"github.com/localrivet/storefront/shop"
	"github.com/localrivet/storefront/types"
)

// MCPResourcePrefix replaces the images server URL when MCPURLImages is set.
const MCPResourcePrefix = "mcp://resource/"

// Options holds the collaborators of a Store. Catalog, Sessions and
// Countries are required.
type Options struct {
	Catalog   *catalog.Catalog
	Sessions  *shop.Sessions
	Countries *prefix.Index

	ImagesServerURL string
	MCPURLImages    bool

	// StoreCount reports how many stores exist in a country. It defaults
	// to a random number below 10.
	StoreCount func(country string) int

	Logger types.Logger
}

// Store registers the storefront on a server. Cart state is looked up per
// MCP session, so each connected client has its own cart and order history.
type Store struct {
	catalog    *catalog.Catalog
	sessions   *shop.Sessions
	countries  *prefix.Index
	imagesURL  string
	mcpURLs    bool
	storeCount func(string) int
	logger     types.Logger
	markdown   markdown.Renderer
}

// New validates opts and builds a Store.
func New(opts Options) (*Store, error) {
	if opts.Catalog == nil {
		return nil, errors.New("storefront: catalog is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("storefront: sessions registry is required")
	}
	if opts.Countries == nil || opts.Countries.Len() == 0 {
		return nil, errors.New("storefront: country index is required")
	}
	s := &Store{
		catalog:    opts.Catalog,
		sessions:   opts.Sessions,
		countries:  opts.Countries,
		imagesURL:  opts.ImagesServerURL,
		mcpURLs:    opts.MCPURLImages,
		storeCount: opts.StoreCount,
		logger:     opts.Logger,
	}
	if s.storeCount == nil {
		s.storeCount = func(string) int { return rand.Intn(10) }
	}
	if s.logger == nil {
		s.logger = logx.NewNop()
	}
	s.markdown.OnFieldError = func(field string, err error) {
		s.logger.Warn("markdown field %q not rendered: %v", field, err)
	}
	return s, nil
}

// Register adds every tool, prompt, completion and resource to srv.
// Prompts must be registered before their completions.
func (s *Store) Register(srv *server.Server) error {
	for _, register := range []func(*server.Server) error{
		s.registerTools,
		s.registerPrompts,
		s.registerCompletions,
		s.registerResources,
	} {
		if err := register(srv); err != nil {
			return err
		}
	}
	return nil
}

// session returns the cart owner for the request in ctx.
func (s *Store) session(ctx context.Context) *shop.Session {
	return s.sessions.Get(server.SessionIDFromContext(ctx))
}

// imageURL returns the address a client should use for an item image.
func (s *Store) imageURL(it catalog.Item) string {
	if s.mcpURLs {
		return MCPResourcePrefix + it.ImageFile()
	}
	return s.imagesURL + it.ImageFile()
}
