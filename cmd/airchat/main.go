// README: airchat CLI; runs single messages through the resolver or the full chat pipeline.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"airchat/internal/ai"
	"airchat/internal/app"
	"airchat/internal/config"
	"airchat/internal/logger"
	"airchat/internal/modules/airline"
	"airchat/internal/modules/chat"
	"airchat/internal/modules/dispatch"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "airchat",
		Short:         "Talk to the airline API in plain language",
		SilenceUsage:  true,
		Long: `airchat resolves a free-text message into an airline action and runs it.

Configuration is read from config.yaml, .env and AIRCHAT_* environment
variables, the same way the API server reads it.`,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "ask <message>",
		Short: "Run one message through the full chat pipeline and print the JSON reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), logLevel, func(ctx context.Context, a *app.App) error {
				return runAsk(ctx, cmd.OutOrStdout(), a.Chat, strings.Join(args, " "))
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "resolve <message>",
		Short: "Print the intent resolved for a message and the airline request it maps to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), logLevel, func(ctx context.Context, a *app.App) error {
				return runResolve(ctx, cmd.OutOrStdout(), a.Resolver, a.Dispatcher, strings.Join(args, " "))
			})
		},
	})

	return root
}

func withApp(parent context.Context, logLevel string, fn func(context.Context, *app.App) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	lg, err := logger.New(logLevel, "console")
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

type chatHandler interface {
	Handle(ctx context.Context, message string) chat.Reply
}

type planner interface {
	Plan(intent ai.Intent) (airline.Request, error)
}

func runAsk(ctx context.Context, w io.Writer, svc chatHandler, message string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(svc.Handle(ctx, message))
}

type resolveOutput struct {
	Intent  *ai.Intent       `json:"intent"`
	Request *airline.Request `json:"request,omitempty"`
	Problem string           `json:"problem,omitempty"`
}

func runResolve(ctx context.Context, w io.Writer, resolver ai.IntentResolver, p planner, message string) error {
	intent, err := resolver.ResolveIntent(ctx, message)
	if err != nil {
		return fmt.Errorf("resolve intent: %w", err)
	}
	if intent == nil {
		return errors.New("resolve intent: no intent returned")
	}

	out := resolveOutput{Intent: intent}
	req, err := p.Plan(*intent)
	switch {
	case err == nil:
		out.Request = &req
	case errors.Is(err, dispatch.ErrUnrecognizedIntent), errors.Is(err, dispatch.ErrMalformedRequest):
		out.Problem = err.Error()
	default:
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
