// Package main is the ReportKeeper terminal client. It works directly on
// the configured storage backend, without a server.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/atinyakov/ReportKeeper/internal/client/shell"
	"github.com/atinyakov/ReportKeeper/internal/config"
	"github.com/atinyakov/ReportKeeper/internal/generate"
	"github.com/atinyakov/ReportKeeper/internal/logger"
	"github.com/atinyakov/ReportKeeper/internal/reports"
	"github.com/atinyakov/ReportKeeper/internal/service"
	"github.com/atinyakov/ReportKeeper/internal/session"
	"github.com/atinyakov/ReportKeeper/internal/storage"
)

var (
	version   string
	buildDate string
)

// app bundles the services a command runs against.
type app struct {
	auth    *service.AuthService
	reports *service.ReportService
	backend storage.Backend
	log     *logger.Logger
}

func (a *app) Close() {
	_ = a.backend.Close()
	_ = a.log.Log.Sync()
}

func newApp(ctx context.Context, options *config.Options) (*app, error) {
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	backend, err := storage.Open(storage.Kind(options.StorageKind), options.StorageDSN)
	if err != nil {
		return nil, err
	}
	store, err := reports.New(ctx, backend, log.Log)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	var gen generate.Client
	switch {
	case options.GeneratorFixture != "":
		gen = generate.NewFixtureClient(options.GeneratorFixture)
	case options.GeneratorURL != "":
		c := generate.NewHTTPClient(options.GeneratorURL, options.GeneratorModel, &http.Client{Timeout: 30 * time.Second})
		c.Token = options.GeneratorToken
		gen = c
	}

	sess := session.New()
	return &app{
		auth:    service.NewAuthService(sess, log.Log, nil),
		reports: service.NewReportService(store, sess, gen, log.Log, nil),
		backend: backend,
		log:     log,
	}, nil
}

func newRootCmd(options *config.Options) *cobra.Command {
	root := &cobra.Command{
		Use:   "reportkeeper",
		Short: "Manage reports from the terminal",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return config.Load(options, os.Getenv)
		},
	}

	goFlags := flag.NewFlagSet("reportkeeper", flag.ContinueOnError)
	config.RegisterFlags(goFlags, options)
	root.PersistentFlags().AddGoFlagSet(goFlags)

	root.Version = cmp.Or(version, "N/A")
	root.SetVersionTemplate(fmt.Sprintf("ReportKeeper Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A")))

	root.AddCommand(newShellCmd(options), newListCmd(options))
	return root
}

func newShellCmd(options *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Sign in and manage reports interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), options)
			if err != nil {
				return err
			}
			defer a.Close()
			return shell.New(cmd.InOrStdin(), cmd.OutOrStdout(), a.auth, a.reports).Run(cmd.Context())
		},
	}
}

func newListCmd(options *config.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print reports in order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			query, _ := cmd.Flags().GetString("search")

			a, err := newApp(cmd.Context(), options)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.auth.Login(username, password); err != nil {
				return err
			}
			list, err := a.reports.List(cmd.Context(), query)
			if err != nil {
				return err
			}
			for _, r := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d. %s\n", r.Index+1, r.Title)
			}
			return nil
		},
	}
	cmd.Flags().String("search", "", "only list reports whose title contains this text")
	cmd.Flags().String("username", "user", "username to sign in with")
	cmd.Flags().String("password", "user123", "password to sign in with")
	return cmd
}

func main() {
	options := config.Default()
	options.LogLevel = "warn"

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(options).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
