package satellite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n0sat/satbot/internal/httpclient"
)

const csvFixture = `name,norad_id,uplink,downlink,beacon,mode,callsign,satnogs_id
ISS FM Voice,25544,145.990,145.800,,FM,RS0ISS,
ISS SSTV,25544,,145.800,,SSTV,RS0ISS,
AO-91,43017,435.250-435.260,145.960,435.350,FM,AO-91,
`

func TestLoadFrequencyCSV(t *testing.T) {
	fs, err := LoadFrequencyCSV(strings.NewReader(csvFixture))
	require.NoError(t, err)
	assert.Equal(t, 2, fs.Len())

	iss := fs.Lookup(25544)
	require.Len(t, iss, 2)
	assert.Equal(t, "ISS FM Voice", iss[0].Label)
	assert.Equal(t, "145.990", iss[0].Uplink)
	assert.Equal(t, "", iss[1].Uplink)

	ao91 := fs.Lookup(43017)
	require.Len(t, ao91, 1)
	assert.Equal(t, "435.250-435.260", ao91[0].Uplink)
}

func TestLoadFrequencyCSVMissingColumn(t *testing.T) {
	_, err := LoadFrequencyCSV(strings.NewReader("name,norad_id\nISS,25544\n"))
	assert.Error(t, err)
}

func TestLoadFrequencyCSVSkipsMalformedRows(t *testing.T) {
	data := csvFixture + "BAD-ROW,not-a-number,,,,,,\n"
	fs, err := LoadFrequencyCSV(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, fs.Len())
}

func TestEnsureFrequencyCSVDownloadsOnlyWhenMissing(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(csvFixture))
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "frequencies.csv")
	client := httpclient.WrapClient(server.Client())

	fs, err := EnsureFrequencyCSV(context.Background(), client, server.URL, path)
	require.NoError(t, err)
	assert.Equal(t, 2, fs.Len())
	assert.Equal(t, 1, requests)

	_, err = os.Stat(path)
	require.NoError(t, err)

	fs2, err := EnsureFrequencyCSV(context.Background(), client, server.URL, path)
	require.NoError(t, err)
	assert.Equal(t, 2, fs2.Len())
	assert.Equal(t, 1, requests, "second call must not re-download an existing file")
}
