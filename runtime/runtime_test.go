package runtime

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataui/strata/errors"
	"github.com/strataui/strata/layer"
	"github.com/strataui/strata/metric"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartAndQuery(t *testing.T) {
	defs := []layer.Definition{
		{
			Name:  "config",
			Props: map[string]any{"env": "test"},
			Provides: map[string]func() any{
				"config.values": func() any { return map[string]string{"region": "eu"} },
			},
		},
		{
			Name:         "api",
			Dependencies: []string{"config"},
			Components: map[string]layer.ComponentRef{
				"ApiStatus": "api-status-component",
			},
		},
	}

	rt, err := Start(context.Background(), defs, WithLogger(discardLogger()))
	require.NoError(t, err)
	require.NotNil(t, rt)
	defer rt.Dispose(context.Background())

	assert.NotEmpty(t, rt.ID())

	def, ok := rt.Layer("api")
	require.True(t, ok)
	assert.Equal(t, []string{"config"}, def.Dependencies)

	props, ok := rt.Props("config")
	require.True(t, ok)
	assert.Equal(t, "test", props["env"])

	svc, ok := rt.Service("config.values")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"region": "eu"}, svc)

	values, ok := ServiceAs[map[string]string](rt, "config.values")
	require.True(t, ok)
	assert.Equal(t, "eu", values["region"])

	_, ok = ServiceAs[int](rt, "config.values")
	assert.False(t, ok)

	comp, ok := rt.Component("ApiStatus")
	require.True(t, ok)
	assert.Equal(t, layer.ComponentRef("api-status-component"), comp)

	assert.Equal(t, []string{"api", "config"}, rt.Layers())

	state, ok := rt.State("api")
	require.True(t, ok)
	assert.Equal(t, layer.StateReady, state)
}

func TestStartBuildsInLevelsDisposesInReverse(t *testing.T) {
	var cleaned []string
	record := func(name string) layer.Cleanup {
		return func(context.Context) error {
			cleaned = append(cleaned, name)
			return nil
		}
	}

	defs := []layer.Definition{
		{
			Name: "config",
			Setup: func(context.Context, *layer.SetupContext) (layer.Cleanup, error) {
				return record("config"), nil
			},
		},
		{
			Name:         "api",
			Dependencies: []string{"config"},
			Setup: func(_ context.Context, sc *layer.SetupContext) (layer.Cleanup, error) {
				_, ok := sc.Dep("config")
				require.True(t, ok)
				return record("api"), nil
			},
		},
	}

	rt, err := Start(context.Background(), defs, WithLogger(discardLogger()))
	require.NoError(t, err)

	m := rt.BuildMetrics()
	assert.Equal(t, 2, m.Layers)
	assert.Equal(t, 2, m.Levels)
	assert.Equal(t, 1, m.MaxParallelism)

	status := rt.Status()
	require.Len(t, status, 2)
	assert.Equal(t, "config", status[0].Name)
	assert.Equal(t, 0, status[0].Level)
	assert.Equal(t, "api", status[1].Name)
	assert.Equal(t, 1, status[1].Level)

	rt.Dispose(context.Background())
	assert.Equal(t, []string{"api", "config"}, cleaned,
		"the dependent layer's cleanup must run before its dependency's")
}

func TestStartValidationFailure(t *testing.T) {
	defs := []layer.Definition{{Name: ""}}

	rt, err := Start(context.Background(), defs, WithLogger(discardLogger()))
	require.Error(t, err)
	require.NotNil(t, rt)
	assert.ErrorIs(t, err, errors.ErrEmptyLayerName)
	assert.Contains(t, err.Error(), "validate definitions")

	_, ok := rt.Layer("anything")
	assert.False(t, ok)
}

func TestStartCycleFailure(t *testing.T) {
	defs := []layer.Definition{
		{Name: "a", Dependencies: []string{"b"}},
		{Name: "b", Dependencies: []string{"a"}},
	}

	rt, err := Start(context.Background(), defs, WithLogger(discardLogger()))
	require.Error(t, err)
	require.NotNil(t, rt)
	assert.True(t, errors.IsCycle(err))

	// Nothing built, nothing queryable.
	assert.Nil(t, rt.Layers())
	assert.Empty(t, rt.Status())
}

func TestStartPartialFailure(t *testing.T) {
	buildErr := stderrors.New("no upstream")
	readyRan := false
	defs := []layer.Definition{
		{Name: "base"},
		{
			Name:         "broken",
			Dependencies: []string{"base"},
			Setup: func(ctx context.Context, sc *layer.SetupContext) (layer.Cleanup, error) {
				return nil, buildErr
			},
		},
		{
			Name:         "never",
			Dependencies: []string{"broken"},
		},
		{
			Name:         "sibling",
			Dependencies: []string{"base"},
			OnReady: func(ctx context.Context, sc *layer.SetupContext, all []layer.Definition) error {
				readyRan = true
				return nil
			},
		},
	}

	rt, err := Start(context.Background(), defs, WithLogger(discardLogger()))
	require.Error(t, err)
	require.NotNil(t, rt)
	assert.ErrorIs(t, err, buildErr)

	// The view never opened and no ready work ran.
	_, ok := rt.Layer("base")
	assert.False(t, ok)
	assert.False(t, readyRan)
	assert.Zero(t, rt.Uptime())

	byName := map[string]LayerStatus{}
	for _, st := range rt.Status() {
		byName[st.Name] = st
	}
	require.Len(t, byName, 4)

	assert.Equal(t, layer.StateBuilt, byName["base"].State)
	assert.GreaterOrEqual(t, byName["base"].BuildOrder, 0)

	assert.Equal(t, layer.StateFailed, byName["broken"].State)
	assert.ErrorIs(t, byName["broken"].Err, buildErr)

	assert.Equal(t, layer.StateNotBuilt, byName["never"].State)
	assert.Equal(t, -1, byName["never"].BuildOrder)

	// The failing layer's level sibling still built.
	assert.Equal(t, layer.StateBuilt, byName["sibling"].State)

	// Disposal of the partial build is the caller's call.
	rt.Dispose(context.Background())
	state, ok := rt.State("base")
	require.True(t, ok)
	assert.Equal(t, layer.StateDisposed, state)
}

func TestDisposeReverseCompletionOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	track := func(name string) func(context.Context, *layer.SetupContext) (layer.Cleanup, error) {
		return func(ctx context.Context, sc *layer.SetupContext) (layer.Cleanup, error) {
			return func(ctx context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
				return nil
			}, nil
		}
	}

	// Single-layer levels pin completion order to a, b, c.
	defs := []layer.Definition{
		{Name: "a", Setup: track("a")},
		{Name: "b", Dependencies: []string{"a"}, Setup: track("b")},
		{Name: "c", Dependencies: []string{"b"}, Setup: track("c")},
	}

	rt, err := Start(context.Background(), defs, WithLogger(discardLogger()))
	require.NoError(t, err)

	rt.Dispose(context.Background())
	assert.Equal(t, []string{"c", "b", "a"}, order)
}

func TestDisposeIdempotent(t *testing.T) {
	cleanups := 0
	defs := []layer.Definition{
		{
			Name: "once",
			Setup: func(ctx context.Context, sc *layer.SetupContext) (layer.Cleanup, error) {
				return func(ctx context.Context) error {
					cleanups++
					return nil
				}, nil
			},
		},
	}

	rt, err := Start(context.Background(), defs, WithLogger(discardLogger()))
	require.NoError(t, err)

	rt.Dispose(context.Background())
	rt.Dispose(context.Background())
	assert.Equal(t, 1, cleanups)
	assert.True(t, rt.Disposed())
}

func TestDisposeClosesView(t *testing.T) {
	defs := []layer.Definition{
		{
			Name: "core",
			Provides: map[string]func() any{
				"core.svc": func() any { return 42 },
			},
		},
	}

	rt, err := Start(context.Background(), defs, WithLogger(discardLogger()))
	require.NoError(t, err)

	_, ok := rt.Service("core.svc")
	require.True(t, ok)

	rt.Dispose(context.Background())

	_, ok = rt.Service("core.svc")
	assert.False(t, ok)
	assert.Nil(t, rt.Layers())

	state, ok := rt.State("core")
	require.True(t, ok)
	assert.Equal(t, layer.StateDisposed, state)
}

func TestReadyPhase(t *testing.T) {
	t.Run("runs before Start returns", func(t *testing.T) {
		ready := false
		defs := []layer.Definition{
			{
				Name: "app",
				OnReady: func(ctx context.Context, sc *layer.SetupContext, all []layer.Definition) error {
					ready = true
					return nil
				},
			},
		}

		rt, err := Start(context.Background(), defs, WithLogger(discardLogger()))
		require.NoError(t, err)
		defer rt.Dispose(context.Background())

		assert.True(t, ready)
	})

	t.Run("failures are discarded", func(t *testing.T) {
		errorHookCalled := false
		defs := []layer.Definition{
			{
				Name: "eager",
				OnReady: func(ctx context.Context, sc *layer.SetupContext, all []layer.Definition) error {
					return stderrors.New("warmup failed")
				},
				OnError: func(err error, sc *layer.SetupContext) { errorHookCalled = true },
			},
		}

		rt, err := Start(context.Background(), defs, WithLogger(discardLogger()))
		require.NoError(t, err)
		defer rt.Dispose(context.Background())

		// A failed ready hook is not an error, not even to OnError.
		assert.False(t, errorHookCalled)

		state, ok := rt.State("eager")
		require.True(t, ok)
		assert.Equal(t, layer.StateReady, state)
	})
}

func TestUptime(t *testing.T) {
	clk := clockwork.NewFakeClock()
	defs := []layer.Definition{{Name: "solo"}}

	rt, err := Start(context.Background(), defs, WithLogger(discardLogger()), WithClock(clk))
	require.NoError(t, err)

	clk.Advance(3 * time.Second)
	assert.Equal(t, 3*time.Second, rt.Uptime())

	rt.Dispose(context.Background())
	assert.Zero(t, rt.Uptime())
}

func TestStatusLevels(t *testing.T) {
	defs := []layer.Definition{
		{Name: "config"},
		{Name: "auth", Dependencies: []string{"config"}},
		{Name: "data", Dependencies: []string{"config"}},
		{Name: "app", Dependencies: []string{"auth", "data"}},
	}

	rt, err := Start(context.Background(), defs, WithLogger(discardLogger()))
	require.NoError(t, err)
	defer rt.Dispose(context.Background())

	byName := map[string]LayerStatus{}
	for _, st := range rt.Status() {
		byName[st.Name] = st
	}

	assert.Equal(t, 0, byName["config"].Level)
	assert.Equal(t, 1, byName["auth"].Level)
	assert.Equal(t, 1, byName["data"].Level)
	assert.Equal(t, 2, byName["app"].Level)
	assert.Equal(t, []string{"auth", "data"}, byName["app"].Dependencies)

	metrics := rt.BuildMetrics()
	assert.Equal(t, 4, metrics.Layers)
	assert.Equal(t, 3, metrics.Levels)
	assert.Equal(t, 2, metrics.MaxParallelism)

	graph := rt.Graph()
	assert.Len(t, graph.Nodes, 4)
	assert.Len(t, graph.Edges, 4)
}

func TestRuntimeMetrics(t *testing.T) {
	t.Run("successful lifecycle", func(t *testing.T) {
		metrics := metric.NewMetrics()
		defs := []layer.Definition{{Name: "solo"}}

		rt, err := Start(context.Background(), defs,
			WithLogger(discardLogger()), WithMetrics(metrics))
		require.NoError(t, err)

		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.BuildsTotal.WithLabelValues("success")))
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ActiveRuntimes))

		rt.Dispose(context.Background())
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DisposesTotal))
		assert.Equal(t, float64(0), testutil.ToFloat64(metrics.ActiveRuntimes))
	})

	t.Run("failed start never counts as active", func(t *testing.T) {
		metrics := metric.NewMetrics()
		defs := []layer.Definition{
			{
				Name: "bad",
				Setup: func(ctx context.Context, sc *layer.SetupContext) (layer.Cleanup, error) {
					return nil, stderrors.New("nope")
				},
			},
		}

		rt, err := Start(context.Background(), defs,
			WithLogger(discardLogger()), WithMetrics(metrics))
		require.Error(t, err)

		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.BuildsTotal.WithLabelValues("failure")))
		assert.Equal(t, float64(0), testutil.ToFloat64(metrics.ActiveRuntimes))

		rt.Dispose(context.Background())
		assert.Equal(t, float64(0), testutil.ToFloat64(metrics.DisposesTotal))
		assert.Equal(t, float64(0), testutil.ToFloat64(metrics.ActiveRuntimes))
	})
}

func TestStateUnknownLayer(t *testing.T) {
	rt, err := Start(context.Background(), []layer.Definition{{Name: "only"}},
		WithLogger(discardLogger()))
	require.NoError(t, err)
	defer rt.Dispose(context.Background())

	_, ok := rt.State("missing")
	assert.False(t, ok)
}
