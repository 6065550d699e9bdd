package storefront

import (
	"context"
	"fmt"

	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/server"
)

// Resource URIs.
const (
	RulesURI = "mcp://brandz/store/rules"
	FAQsURI  = "mcp://brandz/store/faqs"
)

const textPlain = "text/plain"

func (s *Store) registerResources(srv *server.Server) error {
	resources := []struct {
		res  protocol.Resource
		text string
	}{
		{protocol.Resource{URI: RulesURI, Name: "store_rules", Description: "return content of store rules in plain text", MimeType: textPlain}, "norules"},
		{protocol.Resource{URI: FAQsURI, Name: "store_faqs", Description: "content of store faqs in plain text", MimeType: textPlain}, "placeholder faq"},
	}
	for _, r := range resources {
		if err := srv.RegisterResource(r.res, staticText(r.text)); err != nil {
			return fmt.Errorf("storefront: %w", err)
		}
	}
	return nil
}

func staticText(text string) server.ResourceHandlerFunc {
	return func(_ context.Context, uri string) ([]protocol.TextResourceContents, error) {
		return []protocol.TextResourceContents{{URI: uri, MimeType: textPlain, Text: text}}, nil
	}
}
