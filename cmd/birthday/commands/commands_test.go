package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/birthday/internal/config"
	"git.home.luguber.info/inful/birthday/internal/gallery"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("birthday"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cli, ctx
}

func TestParse(t *testing.T) {
	cli, ctx := parse(t, "-c", "site.yaml", "-v", "list", "collage", "--server", "http://localhost:3000")
	assert.Equal(t, "list <category>", ctx.Command())
	assert.Equal(t, "site.yaml", cli.Config)
	assert.True(t, cli.Verbose)
	assert.Equal(t, "collage", cli.List.Category)
	assert.Equal(t, "http://localhost:3000", cli.List.Server)

	cli, ctx = parse(t, "play", "--local", "--metrics-addr", ":9100")
	assert.Equal(t, "play", ctx.Command())
	assert.True(t, cli.Play.Local)
	assert.Equal(t, ":9100", cli.Play.MetricsAddr)
	assert.Equal(t, "http://localhost:3000", cli.Play.Server)

	cli, _ = parse(t, "serve", "--site-port", "8080", "--no-watch")
	assert.Equal(t, 8080, cli.Serve.SitePort)
	assert.True(t, cli.Serve.NoWatch)
}

func TestParse_RejectsUnknownCategory(t *testing.T) {
	parser, err := kong.New(&CLI{}, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"list", "thumbnails"})
	assert.Error(t, err)
}

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	var out bytes.Buffer

	require.NoError(t, RunInit(&out, path, false))
	assert.Contains(t, out.String(), "initialized successfully")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Gallery.Watch)

	out.Reset()
	assert.Error(t, RunInit(&out, path, false), "refuses to overwrite")
	assert.Contains(t, out.String(), "Initialization failed")
	assert.NoError(t, RunInit(&out, path, true))
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestServeApply(t *testing.T) {
	cfg := config.Default()
	cfg.Gallery.Watch = true
	require.NoError(t, (&ServeCmd{SitePort: 8080, AdminPort: 8081, NoWatch: true}).apply(cfg))
	assert.Equal(t, 8080, cfg.Server.SitePort)
	assert.Equal(t, 8081, cfg.Server.AdminPort)
	assert.False(t, cfg.Gallery.Watch)

	assert.Error(t, (&ServeCmd{SitePort: 9000, AdminPort: 9000}).apply(config.Default()))
}

func TestRunList(t *testing.T) {
	cfg := config.Default()
	cfg.Gallery.Carousel.Directory = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Gallery.Carousel.Directory, "cake.png"), []byte("x"), 0o600))

	var out bytes.Buffer
	require.NoError(t, RunList(t.Context(), &out, gallery.NewDirSource(cfg.Gallery), gallery.Carousel))
	assert.JSONEq(t, `{"images":[{"src":"/photos/cake.png","alt":"Beautiful memory - cake"}]}`, out.String())
}

func TestRunList_FailurePrintsEmptyListing(t *testing.T) {
	cfg := config.Default()
	cfg.Gallery.Collage.Directory = filepath.Join(t.TempDir(), "missing")

	var out bytes.Buffer
	assert.Error(t, RunList(t.Context(), &out, gallery.NewDirSource(cfg.Gallery), gallery.Collage))
	assert.JSONEq(t, `{"images":[]}`, out.String())
}

func TestRunPlay_QuitKey(t *testing.T) {
	cfg := config.Default()
	cfg.Gallery.Carousel.Directory = t.TempDir()
	cfg.Gallery.Collage.Directory = t.TempDir()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()
	err := RunPlay(ctx, gallery.NewDirSource(cfg.Gallery), nil,
		SessionOptions(cfg, nil, nil),
		tea.WithInput(strings.NewReader("q")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
	)
	require.NoError(t, err)
	assert.NoError(t, ctx.Err(), "quit by key, not by timeout")
}

func TestLocalFeed(t *testing.T) {
	cfg := config.Default()
	cfg.Gallery.Carousel.Directory = t.TempDir()
	cfg.Gallery.Collage.Directory = t.TempDir()
	ready := make(chan struct{})
	feed := localFeed{
		source:   gallery.NewDirSource(cfg.Gallery),
		debounce: 10 * time.Millisecond,
		ready:    func() { close(ready) },
	}

	var (
		mu      sync.Mutex
		changes []gallery.Change
	)
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- feed.Run(ctx, func(c gallery.Change) {
			mu.Lock()
			defer mu.Unlock()
			changes = append(changes, c)
		})
	}()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("feed never became ready")
	}
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Gallery.Collage.Directory, "new.gif"), []byte("x"), 0o600))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(changes) > 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, gallery.Collage, changes[0].Category)
	assert.Equal(t, 1, changes[0].Count)
}
