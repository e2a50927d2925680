package facade

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n0sat/satbot/internal/render"
	"github.com/n0sat/satbot/internal/satellite"
)

type fakeRasterizer struct{}

func (fakeRasterizer) RasterizeSVG(ctx context.Context, svg string) ([]byte, error) {
	return []byte("fake-png"), nil
}

func newTestFacade(t *testing.T) (*Facade, string) {
	t.Helper()
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "template.svg")
	require.NoError(t, os.WriteFile(templatePath, []byte("<svg>{{rows}}</svg>"), 0o644))

	tmpl, err := render.LoadTemplate(templatePath)
	require.NoError(t, err)
	engine := render.NewEngine(tmpl, fakeRasterizer{})

	store := satellite.NewStore(time.Now)
	store.Upsert("ISS-FM")

	imageDir := filepath.Join(dir, "images")
	f := New(Options{
		SatStore: store,
		Engine:   engine,
		ImageDir: imageDir,
	})
	return f, imageDir
}

func TestHandleUnknownCommand(t *testing.T) {
	f, _ := newTestFacade(t)
	resp := f.Handle(context.Background(), Message{Content: "hello there"})
	assert.False(t, resp.Success)
	assert.Equal(t, "Unknown command", resp.Message)
	assert.Equal(t, ContentText, resp.ContentType)
	assert.NotEmpty(t, resp.MessageID)
}

func TestHandleQueryRendersImage(t *testing.T) {
	f, _ := newTestFacade(t)
	resp := f.Handle(context.Background(), Message{Content: "/q iss"})
	require.True(t, resp.Success)
	assert.Equal(t, ContentImage, resp.ContentType)
	assert.Contains(t, resp.Message, "file://")
}

func TestHandleQueryNoMatches(t *testing.T) {
	f, _ := newTestFacade(t)
	resp := f.Handle(context.Background(), Message{Content: "/q zzzznotreal"})
	assert.False(t, resp.Success)
	assert.Equal(t, ContentText, resp.ContentType)
}

func TestHandleFeedNotYetPublished(t *testing.T) {
	f, _ := newTestFacade(t)
	resp := f.Handle(context.Background(), Message{Content: "/lotw"})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "No lotw data available yet")
}
