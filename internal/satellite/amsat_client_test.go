package satellite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n0sat/satbot/internal/httpclient"
)

func TestScrapeSatelliteNamesSkipsEmptyAndPlaceholder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><select name="SatName">
			<option value="">Select Satellite</option>
			<option value="ISS-FM">ISS FM Voice</option>
			<option value="AO-91">AO-91</option>
			<option value="Select Satellite">Select Satellite</option>
		</select></body></html>`))
	}))
	defer server.Close()

	client := httpclient.WrapClient(server.Client())
	names, err := ScrapeSatelliteNames(context.Background(), client, server.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"ISS-FM", "AO-91"}, names)
}

func TestFetchReportsDecodesAndParsesTimestamps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ISS-FM", r.URL.Query().Get("name"))
		assert.Equal(t, "1", r.URL.Query().Get("hours"))
		w.Write([]byte(`[
			{"name":"ISS-FM","reported_time":"2026-07-30 12:00:00","callsign":"W1AW","report":"Heard","grid_square":"FN31"},
			{"name":"ISS-FM","reported_time":"not-a-time","callsign":"K1ABC","report":"Not Heard","grid_square":"FN42"}
		]`))
	}))
	defer server.Close()

	client := httpclient.WrapClient(server.Client())
	reports, err := FetchReports(context.Background(), client, server.URL, "ISS-FM", time.Hour)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "W1AW", reports[0].Callsign)
	assert.Equal(t, StatusBlue, reports[0].Report)
}

func TestFetchReportsNonSuccessStatus(t *testing.T) {
	restoreBackoff := useShortAmsatFetchBackoff(t)
	defer restoreBackoff()

	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := httpclient.WrapClient(server.Client())
	_, err := FetchReports(context.Background(), client, server.URL, "ISS-FM", time.Hour)
	assert.Error(t, err)
	assert.Equal(t, amsatFetchMaxAttempts, attempts)
}

func TestFetchReportsRetriesThenSucceeds(t *testing.T) {
	restoreBackoff := useShortAmsatFetchBackoff(t)
	defer restoreBackoff()

	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < amsatFetchMaxAttempts {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"name":"ISS-FM","reported_time":"2026-07-30 12:00:00","callsign":"W1AW","report":"Heard","grid_square":"FN31"}]`))
	}))
	defer server.Close()

	client := httpclient.WrapClient(server.Client())
	reports, err := FetchReports(context.Background(), client, server.URL, "ISS-FM", time.Hour)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, amsatFetchMaxAttempts, attempts)
}

// useShortAmsatFetchBackoff shrinks the retry backoff for the duration of a
// test and returns a func restoring the original value.
func useShortAmsatFetchBackoff(t *testing.T) func() {
	t.Helper()
	original := amsatFetchBackoffUnit
	amsatFetchBackoffUnit = time.Millisecond
	return func() { amsatFetchBackoffUnit = original }
}

func TestBatchFetchIsolatesFailures(t *testing.T) {
	restoreBackoff := useShortAmsatFetchBackoff(t)
	defer restoreBackoff()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "BAD-SAT" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"name":"` + name + `","reported_time":"2026-07-30 12:00:00","callsign":"W1AW","report":"Heard","grid_square":"FN31"}]`))
	}))
	defer server.Close()

	client := httpclient.WrapClient(server.Client())
	outcomes := BatchFetch(context.Background(), client, server.URL, []string{"ISS-FM", "BAD-SAT", "AO-91"}, time.Hour, 0)

	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].Success)
	assert.False(t, outcomes[1].Success)
	assert.True(t, outcomes[2].Success)
}
