package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Recorder counts pipeline and cache events. It implements both
// PipelineHooks and CacheHooks and is safe for concurrent use.
//
//	rec := observability.NewRecorder()
//	observability.SetPipelineHooks(rec)
//	observability.SetCacheHooks(rec)
//	// ...
//	logger.Debug("run summary", "previews", rec.Snapshot().Processed)
type Recorder struct {
	processed   atomic.Int64
	failed      atomic.Int64
	processTime atomic.Int64 // nanoseconds
	exports     atomic.Int64
	files       atomic.Int64
	hits        atomic.Int64
	misses      atomic.Int64
	written     atomic.Int64 // bytes
}

// NewRecorder returns a zeroed recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// RecorderSnapshot is a point-in-time copy of a Recorder's counters.
type RecorderSnapshot struct {
	Processed    int64
	Failed       int64
	ProcessTime  time.Duration
	Exports      int64
	Files        int64
	CacheHits    int64
	CacheMisses  int64
	CacheWritten int64
}

// Snapshot copies the counters.
func (r *Recorder) Snapshot() RecorderSnapshot {
	return RecorderSnapshot{
		Processed:    r.processed.Load(),
		Failed:       r.failed.Load(),
		ProcessTime:  time.Duration(r.processTime.Load()),
		Exports:      r.exports.Load(),
		Files:        r.files.Load(),
		CacheHits:    r.hits.Load(),
		CacheMisses:  r.misses.Load(),
		CacheWritten: r.written.Load(),
	}
}

func (r *Recorder) OnProcessStart(context.Context, float64, int) {}

func (r *Recorder) OnProcessComplete(_ context.Context, _, _ int, d time.Duration, err error) {
	if err != nil {
		r.failed.Add(1)
		return
	}
	r.processed.Add(1)
	r.processTime.Add(int64(d))
}

func (r *Recorder) OnExportStart(context.Context, []string) {}

func (r *Recorder) OnExportComplete(_ context.Context, _ []string, files int, _ time.Duration, _ error) {
	r.exports.Add(1)
	r.files.Add(int64(files))
}

func (r *Recorder) OnCacheHit(context.Context, string)  { r.hits.Add(1) }
func (r *Recorder) OnCacheMiss(context.Context, string) { r.misses.Add(1) }

func (r *Recorder) OnCacheSet(_ context.Context, _ string, size int) {
	r.written.Add(int64(size))
}

var (
	_ PipelineHooks = (*Recorder)(nil)
	_ CacheHooks    = (*Recorder)(nil)
)
