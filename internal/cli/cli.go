package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"example.com/finance-advisor/internal/ai"
	"example.com/finance-advisor/internal/config"
)

type app struct {
	httpClient *http.Client
	cfg        config.Config
	service    *ai.Service
}

// NewRootCommand собирает дерево команд CLI. httpClient nil означает клиент по умолчанию.
func NewRootCommand(httpClient *http.Client) *cobra.Command {
	a := &app{httpClient: httpClient}

	rootCmd := &cobra.Command{
		Use:           "advisor",
		Short:         "Personal finance advice from AI providers with a local fallback",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	rootCmd.AddCommand(a.askCommand(), a.fallbackCommand(), a.providersCommand())
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func (a *app) init(logOutput io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: cfg.LogLevel}))
	a.cfg = cfg
	a.service = ai.NewService(ai.NewClients(cfg.AI.Providers(), a.httpClient), logger)
	return nil
}

func (a *app) askCommand() *cobra.Command {
	var (
		provider    string
		contextPath string
		noFallback  bool
	)

	cmd := &cobra.Command{
		Use:   "ask MESSAGE",
		Short: "Ask an AI provider for advice, falling back to local templates on failure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			selected, err := ai.ParseProvider(provider)
			if err != nil {
				return err
			}

			financial, err := readContext(contextPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.AI.RequestTimeout)
			defer cancel()

			advice, err := a.service.GetFinancialAdvice(ctx, ai.AdviceRequest{
				Message:  message,
				Context:  financial,
				Provider: selected,
			})
			if err == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "provider: %s\n", advice.Provider)
				fmt.Fprintln(cmd.OutOrStdout(), advice.Text)
				return nil
			}

			var providerErr *ai.ProviderError
			if noFallback || !(errors.Is(err, ai.ErrNoProviderConfigured) || errors.As(err, &providerErr)) {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "falling back to local advice: %v\n", err)
			fmt.Fprintln(cmd.OutOrStdout(), ai.GenerateFallback(message, financial))
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", string(ai.ProviderAuto), "provider to use: auto, gemini, huggingface or openai")
	cmd.Flags().StringVarP(&contextPath, "context", "c", "", "path to a JSON file with the financial context")
	cmd.Flags().BoolVar(&noFallback, "no-fallback", false, "return provider errors instead of local advice")
	return cmd
}

func (a *app) fallbackCommand() *cobra.Command {
	var contextPath string

	cmd := &cobra.Command{
		Use:   "fallback MESSAGE",
		Short: "Print local template advice without calling any provider",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			financial, err := readContext(contextPath)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ai.GenerateFallback(strings.Join(args, " "), financial))
			return nil
		},
	}

	cmd.Flags().StringVarP(&contextPath, "context", "c", "", "path to a JSON file with the financial context")
	return cmd
}

func (a *app) providersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Show configured providers and the auto selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, status := range a.service.Providers() {
				fmt.Fprintf(out, "%-12s configured=%-5t free=%t\n", status.Provider, status.Configured, status.IsFree)
			}

			auto, err := a.service.Select(ai.ProviderAuto)
			if err != nil {
				fmt.Fprintln(out, "auto: none")
				return nil
			}
			fmt.Fprintf(out, "auto: %s\n", auto)
			return nil
		},
	}
}

func readContext(path string) (ai.FinancialContext, error) {
	var financial ai.FinancialContext
	if path == "" {
		return financial, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return financial, fmt.Errorf("read context file: %w", err)
	}

	if err := json.Unmarshal(raw, &financial); err != nil {
		return financial, fmt.Errorf("parse context file %s: %w", path, err)
	}

	return financial, nil
}
