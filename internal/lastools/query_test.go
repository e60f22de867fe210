package lastools

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/lasquery-mcp-server/internal/audit"
	"github.com/codex-k8s/lasquery-mcp-server/internal/executil"
)

type fakeRunner struct {
	calls  [][]string
	lines  []string
	result executil.Result
	err    error
}

func (f *fakeRunner) Run(_ context.Context, argv []string, progress executil.Progress) (executil.Result, error) {
	f.calls = append(f.calls, argv)
	for _, line := range f.lines {
		if progress != nil {
			progress.ConsoleInfo(line)
		}
	}
	return f.result, f.err
}

type recordingAudit struct{ events []audit.Event }

func (r *recordingAudit) Record(_ context.Context, e audit.Event) { r.events = append(r.events, e) }

func (r *recordingAudit) types() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newQuery(r Runner, a audit.Logger) Query {
	return Query{
		Builder: Builder{
			Toolbox: Toolbox{Folder: "/lt"},
			Layers:  StaticSource{{Name: "a", Type: LayerVector, Source: "/d/a.shp"}},
		},
		Runner: r,
		Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		Audit:  a,
	}
}

func TestQueryRunPassesArgvAndProgress(t *testing.T) {
	runner := &fakeRunner{lines: []string{"lasview (by martin@rapidlasso.de)", "reading 1 file"}, result: executil.Result{Output: "ok\n"}}
	rec := &recordingAudit{}

	var seen []string
	out, err := newQuery(runner, rec).Run(context.Background(), Request{AOI: "1,2,3,4", CorrelationID: "c1"}, executil.ProgressFunc(func(l string) {
		seen = append(seen, l)
	}), false)
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, out.Command.Args, runner.calls[0])
	assert.Equal(t, runner.lines, seen)
	assert.False(t, out.DryRun)
	assert.Equal(t, []string{audit.EventCall, audit.EventCommand, audit.EventOK}, rec.types())
	for _, e := range rec.events {
		assert.Equal(t, "c1", e.CorrelationID)
		assert.Equal(t, "lasquery", e.Tool)
	}
}

func TestQueryDryRunDoesNotSpawn(t *testing.T) {
	runner := &fakeRunner{}
	out, err := newQuery(runner, nil).Run(context.Background(), Request{AOI: "1,2,3,4"}, nil, true)
	require.NoError(t, err)
	assert.True(t, out.DryRun)
	assert.Empty(t, runner.calls)
	assert.Equal(t, []string{"/d/a.laz"}, out.Command.Inputs())
}

func TestQueryProcessFailure(t *testing.T) {
	runner := &fakeRunner{result: executil.Result{Output: "ERROR: cannot open '/d/a.laz'\n", ExitCode: 1}, err: errors.New("exit status 1")}
	rec := &recordingAudit{}

	out, err := newQuery(runner, rec).Run(context.Background(), Request{AOI: "1,2,3,4"}, nil, false)
	require.Error(t, err)
	assert.Equal(t, 1, out.Result.ExitCode)
	assert.Contains(t, out.Result.Output, "cannot open")
	assert.Equal(t, audit.EventError, rec.events[len(rec.events)-1].Type)
}

func TestQueryInvalidExtentNeverRuns(t *testing.T) {
	runner := &fakeRunner{}
	_, err := newQuery(runner, nil).Run(context.Background(), Request{AOI: "1,2"}, nil, false)
	require.ErrorIs(t, err, ErrInvalidExtent)
	assert.Empty(t, runner.calls)
}

func TestQueryRecordsWarnings(t *testing.T) {
	rec := &recordingAudit{}
	q := newQuery(&fakeRunner{}, rec)
	q.Builder.Layers = StaticSource{{Name: "k", Type: LayerVector, Source: "/d/k.gpkg"}}

	_, err := q.Run(context.Background(), Request{AOI: "1,2,3,4"}, nil, false)
	require.NoError(t, err)
	assert.Contains(t, rec.types(), audit.EventWarning)
}

func TestQueryWithoutRunner(t *testing.T) {
	q := newQuery(nil, nil)
	q.Runner = nil
	_, err := q.Run(context.Background(), Request{AOI: "1,2,3,4"}, nil, false)
	require.Error(t, err)
}

func TestQueryLogsCommandLineAndExtent(t *testing.T) {
	var buf bytes.Buffer
	q := newQuery(&fakeRunner{}, nil)
	q.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	out, err := q.Run(context.Background(), Request{AOI: "10,20,30,40"}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, Extent{XMin: "10", XMax: "20", YMin: "30", YMax: "40"}, out.Command.Extent)
	assert.Contains(t, buf.String(), "aoi=10,20,30,40")
	assert.Contains(t, buf.String(), `command="/lt/bin/lasview -i /d/a.laz -files_are_flightlines -inside 10 30 20 40"`)
}
