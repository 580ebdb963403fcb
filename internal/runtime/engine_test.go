package runtime_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/excursion/internal/runtime"
	"github.com/aretw0/excursion/internal/testutils"
	"github.com/aretw0/excursion/pkg/adapters/memory"
	"github.com/aretw0/excursion/pkg/domain"
	"github.com/aretw0/excursion/pkg/route"
	"github.com/aretw0/excursion/pkg/session"
)

var user = domain.Target{UserID: 7, ChatID: 70}

func graphRepo(t *testing.T) *memory.Repository {
	t.Helper()
	repo, err := memory.NewRepository(
		domain.Location{ID: "A", Text: "Square", Images: []string{"a1.jpg", "a2.jpg"}, Audio: "a.mp3"},
		domain.Location{ID: "B", Text: "Bridge"},
		domain.Location{ID: "C", Text: "Church", Images: []string{"c.jpg"}},
		domain.Location{ID: "D", Text: "Dock"},
	)
	require.NoError(t, err)
	return repo
}

func diamond() *route.Graph {
	return route.NewGraph("A", "D", map[string][]string{
		"A": {"B", "C"},
		"B": {"D"},
		"C": {"D"},
		"D": {},
	})
}

func newGraphEngine(t *testing.T, opts ...runtime.EngineOption) (*runtime.Engine, *testutils.Transport) {
	t.Helper()
	transport := testutils.NewTransport()
	e := runtime.NewEngine(graphRepo(t), diamond(), transport, session.NewRegistry(true), opts...)
	return e, transport
}

func payloads(controls []domain.Control) []string {
	out := make([]string, 0, len(controls))
	for _, c := range controls {
		out = append(out, c.Payload)
	}
	return out
}

func TestEngine_GraphForwardOptions(t *testing.T) {
	ctx := context.Background()
	e, transport := newGraphEngine(t)

	view, err := e.Start(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "A", view.LocationID)
	assert.Equal(t, []string{"B", "C"}, view.Options)
	assert.False(t, view.CanGoBack)
	assert.False(t, view.Terminal)

	text, ok := transport.Last("text")
	require.True(t, ok)
	assert.Equal(t, "Square", text.Text.Body)
	assert.Equal(t, []string{"location_B", "location_C"}, payloads(text.Controls))

	view, err = e.Select(ctx, user, "B")
	require.NoError(t, err)
	assert.Equal(t, "B", view.LocationID)
	assert.True(t, view.CanGoBack)
	assert.Equal(t, []string{"D"}, view.Options)
	text, _ = transport.Last("text")
	assert.Equal(t, []string{"location_D", domain.PayloadBackNavigation}, payloads(text.Controls))

	view, err = e.Select(ctx, user, "D")
	require.NoError(t, err)
	assert.True(t, view.Terminal)
	assert.Empty(t, view.Options)
	text, _ = transport.Last("text")
	assert.Equal(t, []string{domain.PayloadBackNavigation, domain.PayloadStartExcursion}, payloads(text.Controls))
}

func TestEngine_BackUnwindsToStart(t *testing.T) {
	ctx := context.Background()
	e, _ := newGraphEngine(t)

	_, err := e.Start(ctx, user)
	require.NoError(t, err)
	_, err = e.Select(ctx, user, "B")
	require.NoError(t, err)
	_, err = e.Select(ctx, user, "D")
	require.NoError(t, err)

	view, err := e.Back(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "B", view.LocationID)

	view, err = e.Back(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "A", view.LocationID)
	assert.False(t, view.CanGoBack)

	_, err = e.Back(ctx, user)
	assert.ErrorIs(t, err, domain.ErrNoPreviousLocation)

	snap, err := e.Inspect(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "A", snap.Current)
	assert.Equal(t, []string{"A"}, snap.BackStack)
}

func TestEngine_LinearWalkOffersRestartAtEnd(t *testing.T) {
	ctx := context.Background()
	repo, err := memory.NewRepository(
		domain.Location{ID: "Gamma", Text: "g"},
		domain.Location{ID: "Alpha", Text: "a"},
		domain.Location{ID: "Beta", Text: "b"},
	)
	require.NoError(t, err)
	ids, _ := repo.ListAll()
	transport := testutils.NewTransport()
	e := runtime.NewEngine(repo, route.NewLinear(ids), transport, session.NewRegistry(false))

	view, err := e.Start(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", view.LocationID)
	assert.Equal(t, []string{"Beta"}, view.Options)
	assert.False(t, view.Terminal)

	_, err = e.Select(ctx, user, "Beta")
	require.NoError(t, err)
	view, err = e.Select(ctx, user, "Gamma")
	require.NoError(t, err)
	assert.True(t, view.Terminal)
	assert.Empty(t, view.Options)
	assert.False(t, view.CanGoBack, "linear mode never offers back")

	text, _ := transport.Last("text")
	assert.Equal(t, []string{domain.PayloadStartExcursion}, payloads(text.Controls))

	_, err = e.Back(ctx, user)
	assert.ErrorIs(t, err, domain.ErrNoPreviousLocation)
}

func TestEngine_ContentMissingChangesNothing(t *testing.T) {
	ctx := context.Background()
	repo, err := memory.NewRepository(
		domain.Location{ID: "Alpha", Text: "a"},
		domain.Location{ID: "Beta", Images: []string{"b.jpg"}},
	)
	require.NoError(t, err)
	transport := testutils.NewTransport()

	var failed atomic.Int32
	hooks := domain.LifecycleHooks{
		OnRenderFailed: func(context.Context, *domain.FailureEvent) { failed.Add(1) },
	}
	e := runtime.NewEngine(repo, route.NewLinear([]string{"Alpha", "Beta"}), transport,
		session.NewRegistry(false), runtime.WithLifecycleHooks(hooks))

	_, err = e.Start(ctx, user)
	require.NoError(t, err)
	before, err := e.Inspect(ctx, user.UserID)
	require.NoError(t, err)
	transport.Reset()

	_, err = e.Select(ctx, user, "Beta")
	var missing *domain.ContentMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Beta", missing.LocationID)

	assert.Empty(t, transport.Sent(), "nothing is sent")
	assert.Empty(t, transport.Deleted(), "nothing is deleted")
	after, err := e.Inspect(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, int32(1), failed.Load())
}

func TestEngine_SwapInvariant(t *testing.T) {
	ctx := context.Background()
	e, transport := newGraphEngine(t)

	_, err := e.Start(ctx, user)
	require.NoError(t, err)
	first, _ := e.Inspect(ctx, user.UserID)
	// Two images, text and audio.
	require.Len(t, first.History, 4)
	assert.Empty(t, transport.Deleted())

	_, err = e.Select(ctx, user, "C")
	require.NoError(t, err)
	assert.Equal(t, first.History, transport.Deleted(), "exactly the previous batch is reclaimed")

	second, _ := e.Inspect(ctx, user.UserID)
	assert.Len(t, second.History, 2)
	assert.ElementsMatch(t, second.History, transport.Live(), "only the current step stays visible")

	transport.Reset()
	_, err = e.Select(ctx, user, "D")
	require.NoError(t, err)
	assert.Equal(t, second.History, transport.Deleted())
}

func TestEngine_StartReclaimsPreviousStep(t *testing.T) {
	ctx := context.Background()
	e, transport := newGraphEngine(t)

	_, err := e.Start(ctx, user)
	require.NoError(t, err)
	_, err = e.Select(ctx, user, "B")
	require.NoError(t, err)

	_, err = e.Start(ctx, user)
	require.NoError(t, err)
	snap, _ := e.Inspect(ctx, user.UserID)
	assert.ElementsMatch(t, snap.History, transport.Live())
}

func TestEngine_RestartIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e, _ := newGraphEngine(t)

	_, err := e.Start(ctx, user)
	require.NoError(t, err)
	_, err = e.Select(ctx, user, "C")
	require.NoError(t, err)
	_, err = e.Select(ctx, user, "D")
	require.NoError(t, err)

	for range 3 {
		view, err := e.Restart(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, "A", view.LocationID)
		assert.False(t, view.CanGoBack)

		snap, _ := e.Inspect(ctx, user.UserID)
		assert.Equal(t, []string{"A"}, snap.BackStack)
		_, err = e.Back(ctx, user)
		assert.ErrorIs(t, err, domain.ErrNoPreviousLocation)
	}
}

func TestEngine_JumpSeedsBackStack(t *testing.T) {
	ctx := context.Background()
	var transitions []string
	var mu sync.Mutex
	hooks := domain.LifecycleHooks{
		OnLocationEnter: func(_ context.Context, ev *domain.LocationEvent) {
			mu.Lock()
			defer mu.Unlock()
			transitions = append(transitions, ev.Transition)
		},
	}
	e, _ := newGraphEngine(t, runtime.WithLifecycleHooks(hooks))

	_, err := e.Start(ctx, user)
	require.NoError(t, err)
	view, err := e.Select(ctx, user, "D")
	require.NoError(t, err)
	assert.True(t, view.CanGoBack)

	view, err = e.Back(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "A", view.LocationID)

	assert.Equal(t, []string{runtime.TransitionStart, runtime.TransitionJump, runtime.TransitionBack}, transitions)
}

func TestEngine_SelectFromIdleSeedsStart(t *testing.T) {
	ctx := context.Background()
	e, _ := newGraphEngine(t)

	view, err := e.Select(ctx, user, "B")
	require.NoError(t, err)
	assert.True(t, view.CanGoBack)

	snap, err := e.Inspect(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, snap.BackStack)

	_, err = e.Select(ctx, user, "D")
	require.NoError(t, err)

	view, err = e.Back(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "B", view.LocationID)

	view, err = e.Back(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "A", view.LocationID)

	_, err = e.Back(ctx, user)
	assert.ErrorIs(t, err, domain.ErrNoPreviousLocation)
}

func TestEngine_SelectStartFromIdle(t *testing.T) {
	ctx := context.Background()
	e, _ := newGraphEngine(t)

	view, err := e.Select(ctx, user, "A")
	require.NoError(t, err)
	assert.False(t, view.CanGoBack)

	snap, err := e.Inspect(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, snap.BackStack)
}

func TestEngine_SelectUnknown(t *testing.T) {
	ctx := context.Background()
	e, transport := newGraphEngine(t)

	_, err := e.Select(ctx, user, "Nowhere")
	assert.ErrorIs(t, err, domain.ErrUnknownLocation)
	assert.Empty(t, transport.Sent())
}

func TestEngine_DegradedImages(t *testing.T) {
	ctx := context.Background()
	var degraded atomic.Bool
	hooks := domain.LifecycleHooks{
		OnLocationEnter: func(_ context.Context, ev *domain.LocationEvent) { degraded.Store(ev.Degraded) },
	}
	e, transport := newGraphEngine(t, runtime.WithLifecycleHooks(hooks))
	transport.FailImages = errors.New("too large")
	transport.FailAudio = errors.New("bad codec")

	view, err := e.Start(ctx, user)
	require.NoError(t, err)
	assert.True(t, view.Degraded)
	assert.True(t, degraded.Load())

	text, ok := transport.Last("text")
	require.True(t, ok)
	assert.Equal(t, []string{"location_B", "location_C"}, payloads(text.Controls), "controls survive degradation")

	snap, _ := e.Inspect(ctx, user.UserID)
	assert.Len(t, snap.History, 1)
}

func TestEngine_TextFailureStillReclaims(t *testing.T) {
	ctx := context.Background()
	e, transport := newGraphEngine(t)

	_, err := e.Start(ctx, user)
	require.NoError(t, err)
	old, _ := e.Inspect(ctx, user.UserID)

	transport.FailText = errors.New("flood wait")
	_, err = e.Select(ctx, user, "B")
	var terr *domain.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "send_text", terr.Op)
	assert.Equal(t, old.History, transport.Deleted())

	snap, _ := e.Inspect(ctx, user.UserID)
	assert.Equal(t, "B", snap.Current)
	assert.Empty(t, snap.History)
}

func TestEngine_DeleteFailureDoesNotAbort(t *testing.T) {
	ctx := context.Background()
	var deleteFailures atomic.Int32
	hooks := domain.LifecycleHooks{
		OnDeleteFailed: func(context.Context, *domain.FailureEvent) { deleteFailures.Add(1) },
	}
	e, transport := newGraphEngine(t, runtime.WithLifecycleHooks(hooks), runtime.WithDeleteConcurrency(1))

	_, err := e.Start(ctx, user)
	require.NoError(t, err)
	old, _ := e.Inspect(ctx, user.UserID)
	transport.FailDelete = map[int]bool{old.History[0].MessageID: true}

	view, err := e.Select(ctx, user, "B")
	require.NoError(t, err)
	assert.Equal(t, "B", view.LocationID)
	assert.Equal(t, int32(1), deleteFailures.Load())
	assert.Len(t, transport.Deleted(), len(old.History)-1)
}

func TestEngine_SilentDelivery(t *testing.T) {
	ctx := context.Background()
	e, transport := newGraphEngine(t)
	_, err := e.Start(ctx, user)
	require.NoError(t, err)
	for _, s := range transport.Sent() {
		assert.True(t, s.Silent, s.Op)
	}

	e, transport = newGraphEngine(t, runtime.WithSilent(false))
	_, err = e.Start(ctx, user)
	require.NoError(t, err)
	text, _ := transport.Last("text")
	assert.False(t, text.Silent)
}

func TestEngine_WelcomeReturnsToIdle(t *testing.T) {
	ctx := context.Background()
	e, transport := newGraphEngine(t)

	_, err := e.Start(ctx, user)
	require.NoError(t, err)

	require.NoError(t, e.Welcome(ctx, user, domain.Text{Body: "Hello, Ana!"}))
	text, _ := transport.Last("text")
	assert.Equal(t, "Hello, Ana!", text.Text.Body)
	assert.Equal(t, []string{domain.PayloadStartExcursion}, payloads(text.Controls))

	snap, _ := e.Inspect(ctx, user.UserID)
	assert.Empty(t, snap.Current)
	assert.Empty(t, snap.BackStack)
	assert.Equal(t, snap.History, transport.Live())
}

func TestEngine_ShowAllJoinsCurrentStep(t *testing.T) {
	ctx := context.Background()
	e, transport := newGraphEngine(t)

	_, err := e.Start(ctx, user)
	require.NoError(t, err)
	before, _ := e.Inspect(ctx, user.UserID)

	require.NoError(t, e.ShowAll(ctx, user, domain.Text{Body: "All locations"}))
	list, _ := transport.Last("text")
	assert.Equal(t, []string{"location_A", "location_B", "location_C", "location_D"}, payloads(list.Controls))

	during, _ := e.Inspect(ctx, user.UserID)
	assert.Len(t, during.History, len(before.History)+1)

	_, err = e.Select(ctx, user, "C")
	require.NoError(t, err)
	assert.Contains(t, transport.Deleted(), list.Handles[0], "the list is removed by the next render")
}

func TestEngine_ShowMap(t *testing.T) {
	ctx := context.Background()

	e, _ := newGraphEngine(t)
	assert.ErrorIs(t, e.ShowMap(ctx, user), domain.ErrMapUnavailable)

	e, _ = newGraphEngine(t, runtime.WithMapFile(filepath.Join(t.TempDir(), "missing.jpg")))
	assert.ErrorIs(t, e.ShowMap(ctx, user), domain.ErrMapUnavailable)

	mapFile := filepath.Join(t.TempDir(), "map.jpg")
	require.NoError(t, os.WriteFile(mapFile, []byte("jpg"), 0o644))
	e, transport := newGraphEngine(t, runtime.WithMapFile(mapFile))
	require.NoError(t, e.ShowMap(ctx, user))

	sent, ok := transport.Last("media_group")
	require.True(t, ok)
	assert.Equal(t, []string{mapFile}, sent.Assets)
	snap, _ := e.Inspect(ctx, user.UserID)
	assert.Equal(t, sent.Handles, snap.History)
}

func TestEngine_UsersDoNotShareState(t *testing.T) {
	ctx := context.Background()
	e, _ := newGraphEngine(t)
	other := domain.Target{UserID: 8, ChatID: 80}

	var wg sync.WaitGroup
	for _, target := range []domain.Target{user, other} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.Start(ctx, target)
			_, _ = e.Select(ctx, target, "B")
		}()
	}
	wg.Wait()

	for _, target := range []domain.Target{user, other} {
		snap, err := e.Inspect(ctx, target.UserID)
		require.NoError(t, err)
		assert.Equal(t, "B", snap.Current)
		assert.Equal(t, []string{"A", "B"}, snap.BackStack)
		for _, h := range snap.History {
			assert.Equal(t, target.ChatID, h.ChatID)
		}
	}
}
