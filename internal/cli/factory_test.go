package cli_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/excursion/internal/cli"
	"github.com/aretw0/excursion/internal/config"
	"github.com/aretw0/excursion/internal/logging"
	"github.com/aretw0/excursion/internal/testutils"
	"github.com/aretw0/excursion/pkg/adapters/file"
	"github.com/aretw0/excursion/pkg/dispatch"
)

func TestBuild_FileJournal(t *testing.T) {
	cfg := testConfig(t, testutils.ContractFixture())
	transport := testutils.NewTransport()

	svc, err := cli.Build(cfg, transport, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	ctx := context.Background()
	in := dispatch.Interaction{UserID: 5, ChatID: 50, FirstName: "Ada", Payload: "start_excursion"}
	require.NoError(t, svc.Dispatcher.Handle(ctx, in))

	text, ok := transport.Last("text")
	require.True(t, ok)
	assert.Contains(t, text.Text.Body, "Welcome to Alpha")

	_, err = os.Stat(filepath.Join(cfg.Journal.Path, "5", file.LogName))
	assert.NoError(t, err)

	entries, err := svc.Actions.Entries(ctx, 5, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "start_excursion", entries[0].Details)
}

func TestBuild_RedisBackends(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, testutils.ContractFixture())
	cfg.Redis.Addr = mr.Addr()
	cfg.Journal.Backend = config.JournalRedis

	svc, err := cli.Build(cfg, testutils.NewTransport(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	ctx := context.Background()
	require.NoError(t, svc.Dispatcher.Handle(ctx, dispatch.Interaction{UserID: 9, ChatID: 9, Command: "help"}))

	entries, err := svc.Actions.Entries(ctx, 9, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/help", entries[0].Details)
	assert.True(t, mr.Exists(cfg.Redis.Prefix+"journal:"+strconv.Itoa(9)))
}

func TestBuild_NoJournal(t *testing.T) {
	cfg := testConfig(t, testutils.ContractFixture())
	cfg.Journal.Backend = config.JournalNone

	svc, err := cli.Build(cfg, testutils.NewTransport(), logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, svc.Actions)

	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/sessions/1/actions")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBuild_ServesMetrics(t *testing.T) {
	cfg := testConfig(t, testutils.ContractFixture())
	svc, err := cli.Build(cfg, testutils.NewTransport(), logging.NewNop())
	require.NoError(t, err)

	require.NoError(t, svc.Dispatcher.Handle(context.Background(),
		dispatch.Interaction{UserID: 1, ChatID: 1, Payload: "start_excursion"}))

	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "excursion_location_visits_total")
}

func TestBuild_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, testutils.ContractFixture())
	cfg.Variant = "spiral"

	_, err := cli.Build(cfg, testutils.NewTransport(), logging.NewNop())
	assert.Error(t, err)
}

func TestBuild_UnresolvedTopology(t *testing.T) {
	cfg := testConfig(t, testutils.ContractFixture())
	cfg.Variant = "graph"
	cfg.Routes = filepath.Join(t.TempDir(), "routes.yaml")
	testutils.WriteFile(t, cfg.Routes, "start: Alpha\nend: Omega\nAlpha: Omega\n")

	_, err := cli.Build(cfg, testutils.NewTransport(), logging.NewNop())
	assert.ErrorContains(t, err, "Omega")
}

func TestBuild_EncryptedJournal(t *testing.T) {
	cfg := testConfig(t, testutils.ContractFixture())
	cfg.Journal.Key = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	svc, err := cli.Build(cfg, testutils.NewTransport(), logging.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.Dispatcher.Handle(ctx, dispatch.Interaction{UserID: 3, ChatID: 3, Text: "mail me: ada@example.com"}))

	raw, err := os.ReadFile(filepath.Join(cfg.Journal.Path, "3", file.LogName))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "mail me")

	entries, err := svc.Actions.Entries(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mail me: ***", entries[0].Details)
}

func TestBuild_InvalidJournalKey(t *testing.T) {
	cfg := testConfig(t, testutils.ContractFixture())
	cfg.Journal.Key = "c2hvcnQ="

	_, err := cli.Build(cfg, testutils.NewTransport(), logging.NewNop())
	assert.ErrorContains(t, err, "32 bytes")
}
