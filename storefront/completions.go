package storefront

import (
	"context"
	"fmt"
	"strings"

	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/server"
)

var (
	greetingStyles = []string{"formal", "casual", "friendly"}
	sports         = []string{"tennis", "football", "badminton", "cricket", "hockey", "swimming", "cycling", "running"}
)

func (s *Store) registerCompletions(srv *server.Server) error {
	completions := []struct {
		prompt, argument string
		handler          server.CompletionHandlerFunc
	}{
		{PromptCountryStatus, ArgCountryName, s.completeCountry},
		{PromptGenerateGreeting, ArgGreetingStyle, fixedList(greetingStyles)},
		{PromptFun, ArgSportsName, fixedList(sports)},
	}
	for _, c := range completions {
		ref := protocol.CompletionReference{Type: protocol.RefTypePrompt, Name: c.prompt}
		if err := srv.RegisterCompletion(ref, c.argument, c.handler); err != nil {
			return fmt.Errorf("storefront: %w", err)
		}
	}
	return nil
}

// completeCountry queries the prefix index. A blank value lists every
// country; the server caps the reply and reports the total.
func (s *Store) completeCountry(_ context.Context, value string) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return s.countries.Names(), nil
	}
	return s.countries.Complete(value), nil
}

// fixedList completes against a short lowercase list by case-insensitive
// prefix. A blank value returns the whole list.
func fixedList(values []string) server.CompletionHandlerFunc {
	return func(_ context.Context, value string) ([]string, error) {
		p := strings.ToLower(strings.TrimSpace(value))
		out := make([]string, 0, len(values))
		for _, v := range values {
			if strings.HasPrefix(v, p) {
				out = append(out, v)
			}
		}
		return out, nil
	}
}
