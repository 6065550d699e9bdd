package storefront

import (
	"context"
	"fmt"
	"strings"

	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/server"
)

// Prompt names.
const (
	PromptGreeting         = "brandz-greeting"
	PromptCountryStatus    = "country-status"
	PromptGenerateGreeting = "generate_greeting_prompt"
	PromptFun              = "fun_prompt"
)

// Prompt argument names.
const (
	ArgName          = "name"
	ArgCountryName   = "country-name"
	ArgGreetingStyle = "greeting-style"
	ArgSportsName    = "sports-name"
)

func (s *Store) registerPrompts(srv *server.Server) error {
	prompts := []struct {
		prompt  protocol.Prompt
		handler server.PromptHandlerFunc
	}{
		{protocol.Prompt{
			Name:        PromptGreeting,
			Description: "Greets the user visiting Brand Z Sports Store",
			Arguments:   []protocol.PromptArgument{{Name: ArgName, Description: "The name of the user", Required: true}},
		}, s.greeting},
		{protocol.Prompt{
			Name:        PromptCountryStatus,
			Description: "Gives information on how many stores are there in the input country name",
			Arguments:   []protocol.PromptArgument{{Name: ArgCountryName, Description: "The name of the country", Required: true}},
		}, s.countryStatus},
		{protocol.Prompt{
			Name:        PromptGenerateGreeting,
			Description: "Generate a greeting prompt",
			Arguments: []protocol.PromptArgument{
				{Name: ArgName, Description: "The name of the person to greet", Required: true},
				{Name: ArgGreetingStyle, Description: "The style of the greeting: formal, casual, or friendly", Required: true},
			},
		}, s.generateGreeting},
		{protocol.Prompt{
			Name:        PromptFun,
			Description: "Generate a fun prompt",
			Arguments:   []protocol.PromptArgument{{Name: ArgSportsName, Description: "name of the sport", Required: true}},
		}, s.funPrompt},
	}
	for _, p := range prompts {
		if err := srv.RegisterPrompt(p.prompt, p.handler); err != nil {
			return fmt.Errorf("storefront: %w", err)
		}
	}
	return nil
}

func single(description, role, text string) *protocol.GetPromptResult {
	return &protocol.GetPromptResult{
		Description: description,
		Messages:    []protocol.PromptMessage{{Role: role, Content: protocol.Text(text)}},
	}
}

func (s *Store) greeting(_ context.Context, args map[string]string) (*protocol.GetPromptResult, error) {
	msg := "Hi " + args[ArgName] + "! 👋 Welcome to Brand Z Sports Store."
	s.logger.Debug("%s generated prompt = %s", PromptGreeting, msg)
	return single("Brand Z Greeting", "assistant", msg), nil
}

// countryStatus answers with a placeholder for a blank or unknown country.
func (s *Store) countryStatus(_ context.Context, args map[string]string) (*protocol.GetPromptResult, error) {
	country := strings.TrimSpace(args[ArgCountryName])
	var msg string
	switch canonical, ok := s.countries.Canonical(country); {
	case country == "":
		msg = "Enter a country"
	case !ok:
		msg = "Enter a valid country"
	default:
		msg = fmt.Sprintf("%s has %d stores", canonical, s.storeCount(canonical))
	}
	s.logger.Debug("%s generated prompt = %s", PromptCountryStatus, msg)
	return single("Number of stores in the country", "assistant", msg), nil
}

func (s *Store) generateGreeting(_ context.Context, args map[string]string) (*protocol.GetPromptResult, error) {
	var prompt string
	switch args[ArgGreetingStyle] {
	case "formal":
		prompt = "Please write a formal, professional greeting"
	case "casual":
		prompt = "Please write a casual, relaxed greeting"
	default:
		prompt = "Please write a warm, friendly greeting"
	}
	prompt += " for someone named " + args[ArgName] + "."
	s.logger.Debug("%s generated prompt = %s", PromptGenerateGreeting, prompt)
	return single("Generate a greeting prompt", "user", prompt), nil
}

func (s *Store) funPrompt(_ context.Context, args map[string]string) (*protocol.GetPromptResult, error) {
	prompt := fmt.Sprintf("Which planets or moons in the Solar System would be suitable for playing %s on, and why?", args[ArgSportsName])
	s.logger.Debug("%s generated prompt = %s", PromptFun, prompt)
	return single("Generate a fun prompt", "user", prompt), nil
}
