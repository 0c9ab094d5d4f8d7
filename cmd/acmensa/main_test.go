package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/acmensa/internal/config"
	"github.com/John-Robertt/acmensa/internal/domain"
	"github.com/John-Robertt/acmensa/internal/provider"
)

type fakeSource struct {
	mu    sync.Mutex
	html  string
	err   error
	calls []string
}

func (f *fakeSource) Fetch(_ context.Context, mensa string, nextWeek bool, loc domain.Locale) (provider.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := "http://stub/" + mensa + "/" + loc.String()
	if nextWeek {
		u += "/next"
	}
	f.calls = append(f.calls, u)
	if f.err != nil {
		return provider.Page{URL: u}, f.err
	}
	return provider.Page{URL: u, HTML: f.html}, nil
}

type harness struct {
	src    *fakeSource
	eff    config.EffectiveConfig
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// 2024-03-13 是周三。
var wednesday = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "acmensa.toml")
	require.NoError(t, os.WriteFile(cfg, nil, 0o644))
	t.Setenv(config.EnvConfigPath, cfg)
	t.Setenv("ACMENSA_LOG", "error")
	t.Setenv("CLICOLOR_FORCE", "")

	b, err := os.ReadFile(filepath.Join("..", "..", "internal", "scrape", "testdata", "week.html"))
	require.NoError(t, err)
	return &harness{src: &fakeSource{html: string(b)}}
}

func (h *harness) run(now time.Time, args ...string) int {
	d := deps{
		now: func() time.Time { return now },
		newSource: func(eff config.EffectiveConfig) (provider.Source, error) {
			h.eff = eff
			return h.src, nil
		},
		isTTY: func(io.Writer) bool { return false },
	}
	return run(context.Background(), args, &h.stdout, &h.stderr, d)
}

func TestRun_MenuJSON(t *testing.T) {
	h := newHarness(t)
	code := h.run(wednesday, "menu", "--json", "--date", "2024-03-11", "-m", "vita")
	require.Equal(t, 0, code, "stderr: %s", h.stderr.String())

	var got domain.DayView
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &got))
	require.Len(t, got.MainDishes, 4)
	assert.Equal(t, domain.Klassiker, got.MainDishes[0].Type)
	assert.Equal(t, "Schweineschnitzel", got.MainDishes[0].Text)
	assert.Equal(t, domain.Tellergericht, got.MainDishes[1].Type)
	assert.Len(t, got.SideDishes, 2)

	assert.Equal(t, "vita", h.eff.Mensa)
	assert.Equal(t, []string{"http://stub/vita/de"}, h.src.calls)
}

func TestRun_DefaultCommandRendersToday(t *testing.T) {
	h := newHarness(t)
	code := h.run(wednesday, "--english", "--short")
	require.Equal(t, 0, code, "stderr: %s", h.stderr.String())

	out := h.stdout.String()
	assert.Contains(t, out, "Rinderbraten")
	assert.NotContains(t, out, "Linseneintopf")
	assert.Equal(t, []string{"http://stub/ahornstrasse/en"}, h.src.calls)
}

func TestRun_NextOnFridayFetchesNextWeek(t *testing.T) {
	h := newHarness(t)
	friday := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	code := h.run(friday, "menu", "--day", "next", "--json")
	require.Equal(t, 0, code, "stderr: %s", h.stderr.String())
	assert.Equal(t, []string{"http://stub/ahornstrasse/de/next"}, h.src.calls)
}

func TestRun_WeekendFails(t *testing.T) {
	h := newHarness(t)
	saturday := time.Date(2024, 3, 16, 10, 0, 0, 0, time.UTC)
	code := h.run(saturday, "menu")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "weekend")
	assert.Contains(t, h.stderr.String(), "--day next")
	assert.Empty(t, h.src.calls)
}

func TestRun_DateOutOfRange(t *testing.T) {
	h := newHarness(t)
	code := h.run(wednesday, "menu", "--date", "2024-04-01")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "本周一到下周五")
}

func TestRun_InvalidFlags(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"bad date", []string{"menu", "--date", "13.03.2024"}, "YYYY-MM-DD"},
		{"bad day", []string{"menu", "--day", "tomorrow"}, "--day"},
		{"bad only", []string{"menu", "--only", "Suppe"}, "--only"},
		{"unknown mensa", []string{"menu", "-m", "nowhere"}, "acmensa mensen"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			assert.Equal(t, 1, h.run(wednesday, tc.args...))
			assert.Contains(t, h.stderr.String(), tc.want)
			assert.Empty(t, h.src.calls)
		})
	}
}

func TestRun_NotPublishedHint(t *testing.T) {
	h := newHarness(t)
	h.src.err = &provider.HTTPStatusError{URL: "http://stub", StatusCode: 404}
	assert.Equal(t, 1, h.run(wednesday, "menu"))
	assert.Contains(t, h.stderr.String(), "尚未发布")
}

func TestRun_Export(t *testing.T) {
	h := newHarness(t)
	out := filepath.Join(t.TempDir(), "menus")
	code := h.run(wednesday, "export", "-o", out)
	require.Equal(t, 0, code, "stderr: %s", h.stderr.String())
	assert.Len(t, h.src.calls, 2)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 2*domain.OpenDays)
	assert.Equal(t, "20240311.json", entries[0].Name())
	assert.Equal(t, "20240322.json", entries[len(entries)-1].Name())

	b, err := os.ReadFile(filepath.Join(out, "20240311.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Schweineschnitzel"`)
}

func TestRun_SchemaSkipsConfig(t *testing.T) {
	h := newHarness(t)
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.toml"))
	code := h.run(wednesday, "schema")
	require.Equal(t, 0, code, "stderr: %s", h.stderr.String())

	var m map[string]any
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &m))
	assert.Equal(t, "DayData", m["title"])
}

func TestRun_Mensen(t *testing.T) {
	h := newHarness(t)
	code := h.run(wednesday, "mensen", "-m", "vita")
	require.Equal(t, 0, code, "stderr: %s", h.stderr.String())

	out := h.stdout.String()
	assert.Contains(t, out, "* vita")
	assert.Contains(t, out, "  ahornstrasse")
	assert.Contains(t, out, "juelich")
}

func TestRun_Version(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run(wednesday, "version"))
	assert.Equal(t, "acmensa version dev\n", h.stdout.String())

	h.stdout.Reset()
	require.Equal(t, 0, h.run(wednesday, "--version"))
	assert.Equal(t, "acmensa version dev\n", h.stdout.String())
}

func TestRun_ExportProgressOnTTY(t *testing.T) {
	h := newHarness(t)
	out := t.TempDir()
	d := deps{
		now:       func() time.Time { return wednesday },
		newSource: func(config.EffectiveConfig) (provider.Source, error) { return h.src, nil },
		isTTY:     func(w io.Writer) bool { return w == &h.stderr },
	}
	code := run(context.Background(), []string{"export", "--output", out}, &h.stdout, &h.stderr, d)
	require.Equal(t, 0, code, "stderr: %s", h.stderr.String())

	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "[10/10] "+filepath.Join(out, "20240322.json"))
	assert.Contains(t, h.stderr.String(), "完成：10 个文件")
}
