package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/23blocks-OS/platform-sync/pkg/domain/interfaces"
	"github.com/23blocks-OS/platform-sync/pkg/service/slack"
	"github.com/23blocks-OS/platform-sync/pkg/service/webhook"
	"github.com/23blocks-OS/platform-sync/pkg/utils/logging"
)

// Notifier holds CLI flags for outcome event delivery
type Notifier struct {
	webhookSecret string
	slackToken    string
	slackChannel  string
}

// Flags returns CLI flags for notifier configuration
func (n *Notifier) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "webhook-endpoint",
			Usage:   "Webhook endpoint URL for sync events (repeatable)",
			Sources: cli.EnvVars("PLATFORM_SYNC_WEBHOOK_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:        "webhook-secret",
			Usage:       "Shared secret for webhook payload signatures",
			Sources:     cli.EnvVars("PLATFORM_SYNC_WEBHOOK_SECRET"),
			Destination: &n.webhookSecret,
		},
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for sync event notifications",
			Sources:     cli.EnvVars("PLATFORM_SYNC_SLACK_BOT_TOKEN"),
			Destination: &n.slackToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID to post sync events to",
			Sources:     cli.EnvVars("PLATFORM_SYNC_SLACK_CHANNEL_ID"),
			Destination: &n.slackChannel,
		},
	}
}

// Configure builds notifiers from the provided flags. Returns an empty slice
// when no delivery target is configured.
func (n *Notifier) Configure(c *cli.Command) ([]interfaces.Notifier, error) {
	var notifiers []interfaces.Notifier

	endpoints := c.StringSlice("webhook-endpoint")
	if len(endpoints) > 0 {
		wh, err := webhook.New(endpoints, n.webhookSecret)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure webhook notifier")
		}
		notifiers = append(notifiers, wh)
		logging.Default().Info("Webhook notifier enabled",
			"endpoints", len(endpoints),
			"signed", n.webhookSecret != "",
		)
	}

	if n.slackToken != "" || n.slackChannel != "" {
		if n.slackToken == "" || n.slackChannel == "" {
			return nil, goerr.New("slack-bot-token and slack-channel-id must be set together")
		}
		sl, err := slack.New(n.slackToken, n.slackChannel)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure slack notifier")
		}
		notifiers = append(notifiers, sl)
		logging.Default().Info("Slack notifier enabled", "channel", n.slackChannel)
	}

	return notifiers, nil
}
