package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/23blocks-OS/platform-sync/pkg/cli/config"
	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/usecase"
	"github.com/23blocks-OS/platform-sync/pkg/utils/logging"
	"github.com/23blocks-OS/platform-sync/pkg/utils/safe"
)

func cmdSync() *cli.Command {
	var input string
	var platform string
	var repoCfg config.Repository
	var notifierCfg config.Notifier
	var scheduleCfg config.Schedule

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Usage:       "Input file with a JSON array of sync records (local path or gs:// URL)",
			Required:    true,
			Sources:     cli.EnvVars("PLATFORM_SYNC_INPUT"),
			Destination: &input,
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
		Name:  "sync",
		Usage: "Run one bulk user sync batch and exit",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			records, err := loadRecords(ctx, input)
			if err != nil {
				return err
			}

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

			outcome, err := uc.Sync.RunBatch(ctx, records)
			if err != nil {
				return goerr.Wrap(err, "bulk sync failed")
			}

			printOutcome(outcome)
			return nil
		},
	}
}

// loadRecords reads a JSON array of sync records from a local file or a
// Cloud Storage object (gs://bucket/path)
func loadRecords(ctx context.Context, input string) ([]model.SyncRecord, error) {
	var r io.ReadCloser

	if strings.HasPrefix(input, "gs://") {
		bucket, object, ok := strings.Cut(strings.TrimPrefix(input, "gs://"), "/")
		if !ok || object == "" {
			return nil, goerr.New("invalid gs:// URL, expected gs://bucket/object", goerr.V("input", input))
		}

		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create storage client")
		}
		defer safe.Close(ctx, client)

		reader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open input object",
				goerr.V("bucket", bucket), goerr.V("object", object))
		}
		r = reader
	} else {
		// #nosec G304 - path is expected to be provided by CLI argument
		f, err := os.Open(input)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open input file", goerr.V("path", input))
		}
		r = f
	}
	defer safe.Close(ctx, r)

	var records []model.SyncRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, goerr.Wrap(err, "failed to parse input records", goerr.V("input", input))
	}

	return records, nil
}

func printOutcome(outcome *model.BatchOutcome) {
	created := 0
	updated := 0
	for _, result := range outcome.Successful {
		if result.Outcome == model.ReconcileOutcomeCreated {
			created++
		} else {
			updated++
		}
	}

	fmt.Printf("Processed %d records\n", outcome.Total)
	color.Green("  created: %d", created)
	color.Cyan("  updated: %d", updated)
	if len(outcome.Failed) > 0 {
		color.Red("  failed:  %d", len(outcome.Failed))
		for _, failure := range outcome.Failed {
			color.Red("    %s: %s", failure.ExternalID, failure.Error)
		}
	}
}
