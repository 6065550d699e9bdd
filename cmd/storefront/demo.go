package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/localrivet/storefront/client"
	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/server"
	"github.com/localrivet/storefront/storefront"
	"github.com/localrivet/storefront/transport/stdio"
	"github.com/localrivet/storefront/types"
)

var (
	demoPlain     bool
	demoInProcess bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted client session against the server",
	Long: `demo starts "storefront serve" as a child process, walks through the
tools, resources, prompts and completions it offers and prints a report.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().BoolVar(&demoPlain, "plain", false, "print raw markdown instead of styled output")
	demoCmd.Flags().BoolVar(&demoInProcess, "in-process", false, "serve over in-memory pipes instead of a child process")
}

func runDemo(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	var report strings.Builder

	if demoInProcess {
		if err := demoInMemory(ctx, &report); err != nil {
			return err
		}
	} else {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("cannot locate storefront binary: %w", err)
		}
		args := []string{"serve"}
		if configPath != "" {
			args = append(args, "--config", configPath)
		}
		proc, err := client.NewStdioClient(ctx, exe, args)
		if err != nil {
			return err
		}
		scriptErr := runScript(ctx, proc.Client, &report)
		if err := proc.Close(); err != nil && scriptErr == nil {
			scriptErr = fmt.Errorf("server exited: %w", err)
		}
		if scriptErr != nil {
			return scriptErr
		}
	}
	return printMarkdown(cmd.OutOrStdout(), report.String(), demoPlain)
}

// demoInMemory runs the server and the script side by side, joined by pipes.
func demoInMemory(ctx context.Context, report *strings.Builder) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	c2sR, c2sW := io.Pipe()
	s2cR, s2cW := io.Pipe()
	serverSide := stdio.NewStdioTransportWithReadWriter(c2sR, s2cW, types.TransportOptions{Logger: logger})
	c := client.New(stdio.NewStdioTransportWithReadWriter(s2cR, c2sW, types.TransportOptions{Logger: logger}))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer serverSide.Close()
		return server.Serve(gctx, a.server, serverSide, a.sessions.Release)
	})
	g.Go(func() error {
		defer c.Close()
		return runScript(gctx, c, report)
	})
	return g.Wait()
}

func printMarkdown(w io.Writer, md string, plain bool) error {
	if plain {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// runScript exercises the server and writes a markdown report.
func runScript(ctx context.Context, c *client.Client, out *strings.Builder) error {
	info, err := c.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	fmt.Fprintf(out, "# %s %s\n\n", info.ServerInfo.Name, info.ServerInfo.Version)
	if info.Instructions != "" {
		fmt.Fprintf(out, "%s\n\n", info.Instructions)
	}

	tools, err := c.ListTools(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "## Tools (%d)\n\n", len(tools))
	for _, t := range tools {
		schema, err := json.Marshal(t.InputSchema)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "- **%s**: %s\n  - schema: `%s`\n", t.Name, t.Description, schema)
	}

	resources, err := c.ListResources(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n## Resources (%d)\n\n", len(resources))
	for _, r := range resources {
		fmt.Fprintf(out, "- `%s` %s: %s\n", r.URI, r.Name, r.Description)
	}
	contents, err := c.ReadResource(ctx, storefront.RulesURI)
	if err != nil {
		return err
	}
	for _, content := range contents {
		fmt.Fprintf(out, "\nStore rules: %s\n", content.Text)
	}

	prompts, err := c.ListPrompts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n## Prompts (%d)\n\n", len(prompts))
	for _, p := range prompts {
		fmt.Fprintf(out, "- **%s**: %s\n", p.Name, p.Description)
	}

	for _, call := range []struct {
		name string
		args map[string]string
	}{
		{storefront.PromptGreeting, map[string]string{storefront.ArgName: "Doe"}},
		{storefront.PromptGenerateGreeting, map[string]string{storefront.ArgName: "Doe", storefront.ArgGreetingStyle: "friendly"}},
	} {
		res, err := c.GetPrompt(ctx, call.name, call.args)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n### %s\n\n", call.name)
		for _, m := range res.Messages {
			if text, ok := m.Content.(protocol.TextContent); ok {
				fmt.Fprintf(out, "> **%s**: %s\n", m.Role, text.Text)
			}
		}
	}

	comp, err := c.CompletePrompt(ctx, storefront.PromptCountryStatus, storefront.ArgCountryName, "a")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n## Countries starting with \"a\"\n\n%s\n", strings.Join(comp.Values, ", "))

	if _, err := c.CallTool(ctx, "add_to_cart_item", map[string]interface{}{"itemName": "Football", "quantity": 2}); err != nil {
		return err
	}
	res, err := c.CallTool(ctx, "get_cart_content_in_markdown", nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n## Sample cart\n\n")
	for _, content := range res.Content {
		if text, ok := content.(protocol.TextContent); ok {
			out.WriteString(strings.Replace(text.Text, "## ", "### ", 1))
		}
	}
	return nil
}
