// Package perf keeps a bounded in-memory record of recent request and query
// latencies for the admin latency report.
package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// Kind distinguishes HTTP requests from database statements.
type Kind uint8

const (
	KindRequest Kind = iota
	KindQuery
)

// Entry is a single timing record.
type Entry struct {
	Kind     Kind
	Label    string // "GET /api/tasks" or "SELECT task"
	Status   int    // HTTP status, 0 for queries
	Duration time.Duration
	At       time.Time
}

// Collector is a fixed-size ring of entries. When full the oldest entry is
// overwritten. Aggregation happens only in Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	total   atomic.Int64
}

// NewCollector creates a collector holding at most size entries.
// A non-positive size uses DefaultRingSize.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when the ring is full.
// A nil collector discards the entry.
func (c *Collector) Record(e Entry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.total.Add(1)
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.total.Load()
}

// LabelStat aggregates timings for one request route or statement kind.
type LabelStat struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	AvgMs float64 `json:"avg_ms"`
	MaxMs float64 `json:"max_ms"`

	totalMs float64
}

// Snapshot is the latency report computed from entries newer than Since.
type Snapshot struct {
	Since          time.Time   `json:"since"`
	TotalRecorded  int64       `json:"total_recorded"`
	Requests       int         `json:"requests"`
	ServerErrors   int         `json:"server_errors"`
	RequestP50Ms   float64     `json:"request_p50_ms"`
	RequestP95Ms   float64     `json:"request_p95_ms"`
	RequestP99Ms   float64     `json:"request_p99_ms"`
	SlowestRoutes  []LabelStat `json:"slowest_routes"`
	SlowestQueries []LabelStat `json:"slowest_queries"`
}

// Snapshot aggregates entries recorded at or after since, keeping the topN
// slowest routes and statements by average duration.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, len(c.entries))
	copy(buf, c.entries)
	c.mu.Unlock()

	snap := Snapshot{Since: since, TotalRecorded: c.TotalRecorded()}
	var durations []float64
	routes := make(map[string]*LabelStat)
	queries := make(map[string]*LabelStat)

	for _, e := range buf {
		if e.At.IsZero() || e.At.Before(since) {
			continue
		}
		ms := float64(e.Duration.Microseconds()) / 1000.0
		stats := queries
		if e.Kind == KindRequest {
			stats = routes
			durations = append(durations, ms)
			snap.Requests++
			if e.Status >= 500 {
				snap.ServerErrors++
			}
		}
		s, ok := stats[e.Label]
		if !ok {
			s = &LabelStat{Label: e.Label}
			stats[e.Label] = s
		}
		s.Count++
		s.totalMs += ms
		s.MaxMs = math.Max(s.MaxMs, ms)
	}

	snap.SlowestRoutes = topByAvg(routes, topN)
	snap.SlowestQueries = topByAvg(queries, topN)

	if len(durations) > 0 {
		sort.Float64s(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func topByAvg(stats map[string]*LabelStat, n int) []LabelStat {
	list := make([]LabelStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.totalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs != list[j].AvgMs {
			return list[i].AvgMs > list[j].AvgMs
		}
		return list[i].Label < list[j].Label
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
