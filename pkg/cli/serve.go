package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/23blocks-OS/platform-sync/pkg/cli/config"
	httpctrl "github.com/23blocks-OS/platform-sync/pkg/controller/http"
	"github.com/23blocks-OS/platform-sync/pkg/usecase"
	"github.com/23blocks-OS/platform-sync/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var apiToken string
	var platform string
	var repoCfg config.Repository
	var notifierCfg config.Notifier
	var scheduleCfg config.Schedule

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PLATFORM_SYNC_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "api-token",
			Usage:       "Static bearer token for the sync API (unauthenticated when empty)",
			Sources:     cli.EnvVars("PLATFORM_SYNC_API_TOKEN"),
			Destination: &apiToken,
		},
		&cli.StringFlag{
			Name:        "platform-name",
			Usage:       "Upstream platform identifier recorded on sync runs",
			Value:       "platform",
			Sources:     cli.EnvVars("PLATFORM_SYNC_PLATFORM_NAME"),
			Destination: &platform,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, notifierCfg.Flags()...)
	flags = append(flags, scheduleCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			notifiers, err := notifierCfg.Configure(c)
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifiers")
			}

			scheduleTmpl, err := scheduleCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load schedule template")
			}

			ucOpts := []usecase.Option{
				usecase.WithScheduleTemplate(scheduleTmpl),
				usecase.WithPlatformName(platform),
			}
			for _, n := range notifiers {
				ucOpts = append(ucOpts, usecase.WithNotifier(n))
			}
			uc := usecase.New(repo, ucOpts...)

			var srvOpts []httpctrl.Options
			if apiToken != "" {
				srvOpts = append(srvOpts, httpctrl.WithAPIToken(apiToken))
			} else {
				logging.Default().Warn("API token not configured, sync API is unauthenticated")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, srvOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
