package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteText_OnlyMoodmapFamilies(t *testing.T) {
	Sessions.WithLabelValues("completed").Inc()

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "moodmap_sessions_total")
	assert.Contains(t, out, `state="completed"`)
	assert.NotContains(t, out, "go_goroutines")
}

func TestWriteText_CustomGatherer(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "moodmap_test_total", Help: "test"})
	other := prometheus.NewCounter(prometheus.CounterOpts{Name: "other_total", Help: "test"})
	reg.MustRegister(c, other)
	c.Add(3)

	var buf bytes.Buffer
	require.NoError(t, writeText(&buf, reg))
	assert.Contains(t, buf.String(), "moodmap_test_total 3")
	assert.NotContains(t, buf.String(), "other_total")
}
