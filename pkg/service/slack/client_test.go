package slack_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	slackapi "github.com/slack-go/slack"

	"github.com/23blocks-OS/platform-sync/pkg/service/slack"
)

type mockAPI struct {
	channels []string
	err      error
}

func (m *mockAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.channels = append(m.channels, channelID)
	return channelID, "", m.err
}

func TestNotifyPostsToChannel(t *testing.T) {
	api := &mockAPI{}
	client, err := slack.New("xoxb-test", "C012345", slack.WithAPI(api))
	gt.NoError(t, err).Required()

	gt.NoError(t, client.Notify(context.Background(), "user.created", map[string]any{"userId": "u-1"}))

	gt.Array(t, api.channels).Length(1)
	gt.Value(t, api.channels[0]).Equal("C012345")
}

func TestNewRequiresChannel(t *testing.T) {
	_, err := slack.New("xoxb-test", "")
	gt.Value(t, err).NotNil()
}

func TestFormatEvent(t *testing.T) {
	text := slack.FormatEvent("user.deactivated", map[string]any{
		"userId":            "u-9",
		"cancelledBookings": 3,
	})

	// Payload keys are sorted for stable output
	gt.Value(t, text).Equal(":arrows_counterclockwise: *user.deactivated* cancelledBookings=3 userId=u-9")
}

func TestFormatEventEmptyPayload(t *testing.T) {
	text := slack.FormatEvent("user.created", nil)
	gt.Value(t, text).Equal(":arrows_counterclockwise: *user.created*")
}
