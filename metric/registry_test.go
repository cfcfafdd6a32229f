package metric

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()

	assert.NotNil(t, registry)
	assert.NotNil(t, registry.PrometheusRegistry())
	assert.NotNil(t, registry.CoreMetrics())
}

func TestRegistryCoreMetricsNilSafe(t *testing.T) {
	var registry *Registry
	assert.Nil(t, registry.CoreMetrics())
}

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_counter",
		Help: "A test counter",
	})

	err := registry.Register("test_counter", counter)
	require.NoError(t, err)

	counter.Inc()

	metricFamilies, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	found := false
	for _, mf := range metricFamilies {
		if mf.GetName() == "test_counter" {
			found = true
			break
		}
	}
	assert.True(t, found, "counter should be registered in Prometheus registry")
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	registry := NewRegistry()

	first := prometheus.NewCounter(prometheus.CounterOpts{Name: "dup", Help: "x"})
	second := prometheus.NewCounter(prometheus.CounterOpts{Name: "dup2", Help: "x"})

	require.NoError(t, registry.Register("dup", first))

	err := registry.Register("dup", second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "gone", Help: "x"})
	require.NoError(t, registry.Register("gone", counter))

	assert.True(t, registry.Unregister("gone"))
	assert.False(t, registry.Unregister("gone"), "second unregister finds nothing")

	// The name is free again after unregistration.
	require.NoError(t, registry.Register("gone", prometheus.NewCounter(
		prometheus.CounterOpts{Name: "gone", Help: "x"})))
}

func TestRegistryConcurrentRegister(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := fmt.Sprintf("concurrent_%d", n)
			counter := prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: "x"})
			errs[n] = registry.Register(name, counter)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestMetricsRecording(t *testing.T) {
	m := NewMetrics()

	t.Run("layer build success", func(t *testing.T) {
		m.RecordLayerBuild("config", true, 50*time.Millisecond)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.LayerBuilds.WithLabelValues("config", "success")))
		assert.Equal(t, 1, testutil.CollectAndCount(m.LayerBuildDuration))
	})

	t.Run("layer build failure", func(t *testing.T) {
		m.RecordLayerBuild("db", false, time.Millisecond)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.LayerBuilds.WithLabelValues("db", "failure")))
	})

	t.Run("layer state", func(t *testing.T) {
		m.RecordLayerState("config", 3)
		assert.Equal(t, 3.0, testutil.ToFloat64(m.LayerState.WithLabelValues("config")))
	})

	t.Run("level", func(t *testing.T) {
		m.RecordLevel(1, 4, 100*time.Millisecond)
		assert.Equal(t, 4.0, testutil.ToFloat64(m.LevelSize.WithLabelValues("1")))
		assert.Equal(t, 1, testutil.CollectAndCount(m.LevelDuration))
	})

	t.Run("cleanup failure", func(t *testing.T) {
		m.RecordCleanupFailure("db")
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CleanupFailures.WithLabelValues("db")))
	})

	t.Run("build and dispose track active runtimes", func(t *testing.T) {
		m.RecordBuild(true)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveRuntimes))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.BuildsTotal.WithLabelValues("success")))

		m.RecordBuild(false)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveRuntimes), "failed build is not active")
		assert.Equal(t, 1.0, testutil.ToFloat64(m.BuildsTotal.WithLabelValues("failure")))

		m.RecordDispose()
		assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveRuntimes))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.DisposesTotal))
	})
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics

	// None of these may panic.
	m.RecordLayerState("a", 1)
	m.RecordLayerBuild("a", true, time.Second)
	m.RecordCleanupFailure("a")
	m.RecordLevel(0, 1, time.Second)
	m.RecordBuild(true)
	m.RecordDispose()
}
