package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/0x0FACED/go-trendlines/pkg/trend"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderObserve(t *testing.T) {
	r := NewRecorder()

	found := &trend.Result{
		Vertices:  make([]trend.Point, 5),
		Cells:     [][2]int{{0, 1}, {1, 2}, {3, 4}},
		Polylines: []trend.Polyline{{Label: 1, Vertices: []int{0, 1, 2}}, {Label: 2, Vertices: []int{3, 4}}},
		Groups:    []trend.GroupStats{{Label: 1}, {Label: 2}, {Label: 3, Skipped: "fewer than 2 points"}},
	}
	r.Observe(found, nil, 20*time.Millisecond)
	r.Observe(&trend.Result{}, nil, time.Millisecond)
	r.Observe(nil, errors.New("boom"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues(OutcomeFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues(OutcomeEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues(OutcomeError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.polylines))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.vertices))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.skippedGroups))
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration, "trendlines_run_duration_seconds"))
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.Observe(&trend.Result{}, nil, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.runs.WithLabelValues(OutcomeEmpty)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.runs.WithLabelValues(OutcomeEmpty)))
}

func TestHandler(t *testing.T) {
	r := NewRecorder()
	r.Observe(&trend.Result{}, nil, time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `trendlines_runs_total{outcome="empty"} 1`)
	assert.Contains(t, string(body), "trendlines_run_duration_seconds_count 1")
}
