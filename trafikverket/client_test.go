package trafikverket

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordrail/traintrips/config"
)

const envelope = `{"RESPONSE":{"RESULT":[{"TrainAnnouncement":[
	{"ActivityId":"a1","ActivityType":"Avgang","AdvertisedTrainIdent":"421",
	 "AdvertisedTimeAtLocation":"2024-03-01T08:00:00","LocationSignature":"Cst"}
]}]}}`

func newTestClient(url string, retries int) *Client {
	c := NewClient(config.APIConfig{
		URL:        url,
		Key:        "k",
		TimeoutSec: 5,
		MaxRetries: retries,
		BackoffSec: 0.001,
	}, slog.New(slog.DiscardHandler))
	c.sleep = func(time.Duration) {}
	return c
}

func TestFetchWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "TrainAnnouncement")
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(envelope))
	}))
	defer srv.Close()

	anns, err := newTestClient(srv.URL, 3).FetchWindow(context.Background(),
		time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, "421", anns[0].AdvertisedTrainIdent)
}

func TestFetchWindowRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(envelope))
	}))
	defer srv.Close()

	anns, err := newTestClient(srv.URL, 3).FetchWindow(context.Background(),
		time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, anns, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchWindowExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).FetchWindow(context.Background(),
		time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchPlannedRawKeepsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `<EQ name="ActivityType" value="Ankomst"/>`)
		_, _ = w.Write([]byte(envelope))
	}))
	defer srv.Close()

	body, count, err := newTestClient(srv.URL, 3).FetchPlannedRaw(context.Background(),
		"Ankomst", "2024-03-01T23:00:00Z", "2024-03-02T23:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.JSONEq(t, envelope, string(body))
}
