package webhook_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/23blocks-OS/platform-sync/pkg/service/webhook"
)

type delivery struct {
	Event     string
	Signature string
	Body      []byte
}

func newCaptureServer(t *testing.T) (*httptest.Server, func() []delivery) {
	t.Helper()

	var mu sync.Mutex
	var deliveries []delivery

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		gt.NoError(t, err)

		mu.Lock()
		deliveries = append(deliveries, delivery{
			Event:     r.Header.Get(webhook.HeaderEvent),
			Signature: r.Header.Get(webhook.HeaderSignature),
			Body:      body,
		})
		mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []delivery {
		mu.Lock()
		defer mu.Unlock()
		return append([]delivery{}, deliveries...)
	}
}

func TestNotifyDeliversSignedEnvelope(t *testing.T) {
	srv, received := newCaptureServer(t)

	client, err := webhook.New([]string{srv.URL}, "s3cret")
	gt.NoError(t, err).Required()

	payload := map[string]any{"userId": "u-1", "externalId": "plt-1"}
	gt.NoError(t, client.Notify(context.Background(), "user.created", payload))

	deliveries := received()
	gt.Array(t, deliveries).Length(1)
	gt.Value(t, deliveries[0].Event).Equal("user.created")
	gt.Value(t, deliveries[0].Signature).Equal(webhook.Sign("s3cret", deliveries[0].Body))

	var envelope struct {
		Event string         `json:"event"`
		Data  map[string]any `json:"data"`
	}
	gt.NoError(t, json.Unmarshal(deliveries[0].Body, &envelope))
	gt.Value(t, envelope.Event).Equal("user.created")
	gt.Value(t, envelope.Data["externalId"]).Equal("plt-1")
}

func TestNotifyWithoutSecretOmitsSignature(t *testing.T) {
	srv, received := newCaptureServer(t)

	client, err := webhook.New([]string{srv.URL}, "")
	gt.NoError(t, err).Required()

	gt.NoError(t, client.Notify(context.Background(), "user.updated", map[string]any{"userId": "u-2"}))

	deliveries := received()
	gt.Array(t, deliveries).Length(1)
	gt.Value(t, deliveries[0].Signature).Equal("")
}

func TestNotifyFansOutToAllEndpoints(t *testing.T) {
	srvA, receivedA := newCaptureServer(t)
	srvB, receivedB := newCaptureServer(t)

	client, err := webhook.New([]string{srvA.URL, srvB.URL}, "s3cret")
	gt.NoError(t, err).Required()

	gt.NoError(t, client.Notify(context.Background(), "user.deactivated", map[string]any{"userId": "u-3"}))

	gt.Array(t, receivedA()).Length(1)
	gt.Array(t, receivedB()).Length(1)
}

func TestNotifyReportsEndpointFailure(t *testing.T) {
	okSrv, received := newCaptureServer(t)
	failSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(failSrv.Close)

	client, err := webhook.New([]string{okSrv.URL, failSrv.URL}, "")
	gt.NoError(t, err).Required()

	err = client.Notify(context.Background(), "user.created", map[string]any{"userId": "u-4"})
	gt.Value(t, err).NotNil()

	// The healthy endpoint still received its delivery
	gt.Array(t, received()).Length(1)
}

func TestNewRequiresEndpoints(t *testing.T) {
	_, err := webhook.New(nil, "s3cret")
	gt.Value(t, err).NotNil()
}
