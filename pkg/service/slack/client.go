package slack

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	slackapi "github.com/slack-go/slack"

	"github.com/23blocks-OS/platform-sync/pkg/domain/interfaces"
)

// api is the subset of the Slack client used by the notifier
type api interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Client posts sync outcome events to a Slack channel
type Client struct {
	api     api
	channel string
}

var _ interfaces.Notifier = &Client{}

type Option func(*Client)

// WithAPI overrides the Slack API client, used in tests
func WithAPI(a api) Option {
	return func(c *Client) {
		c.api = a
	}
}

func New(token, channelID string, opts ...Option) (*Client, error) {
	if channelID == "" {
		return nil, goerr.New("slack channel ID is required")
	}

	c := &Client{
		api:     slackapi.New(token),
		channel: channelID,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Notify posts one message per event
func (c *Client) Notify(ctx context.Context, event string, payload map[string]any) error {
	text := FormatEvent(event, payload)

	if _, _, err := c.api.PostMessageContext(ctx, c.channel, slackapi.MsgOptionText(text, false)); err != nil {
		return goerr.Wrap(err, "failed to post slack message",
			goerr.V("channel", c.channel), goerr.V("event", event))
	}

	return nil
}

// FormatEvent renders an event as a single Slack message line with sorted
// payload fields for stable output
func FormatEvent(event string, payload map[string]any) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, payload[k]))
	}

	if len(parts) == 0 {
		return fmt.Sprintf(":arrows_counterclockwise: *%s*", event)
	}
	return fmt.Sprintf(":arrows_counterclockwise: *%s* %s", event, strings.Join(parts, " "))
}
