package stats

import (
	"context"
	"sort"

	"github.com/bryanwahyu/factsense/internal/application"
	domain "github.com/bryanwahyu/factsense/internal/domain/analysis"
	statsdomain "github.com/bryanwahyu/factsense/internal/domain/stats"
)

// Engine menghitung snapshot statistik read-only di atas repository.
// Semua agregasi dikerjakan in-memory dengan grouping eksplisit supaya
// perilaku identik untuk semua store (mysql/postgres/memory).
type Engine struct {
	Repo  domain.Repository
	Clock application.Clock
}

// Compute agregasi satu window: overview, breakdown per kategori, tren harian.
func (e *Engine) Compute(ctx context.Context, window statsdomain.Window) (*statsdomain.Snapshot, error) {
	since := e.Clock.Now().Add(-window.Duration())
	records, err := e.Repo.Since(ctx, since)
	if err != nil {
		return nil, err
	}

	snap := &statsdomain.Snapshot{
		Window:            window,
		CategoryBreakdown: []statsdomain.CategoryStat{},
		DailyTrends:       []statsdomain.DailyTrend{},
	}
	snap.Overview = computeOverview(records)
	snap.CategoryBreakdown = groupByCategory(records)
	snap.DailyTrends = groupByDay(records)
	return snap, nil
}

func computeOverview(records []*domain.Analysis) statsdomain.Overview {
	o := statsdomain.Overview{TotalAnalyses: len(records)}
	if len(records) == 0 {
		// rata-rata 0 kalau kosong, jangan sampai NaN
		return o
	}
	var confSum, procSum float64
	for _, r := range records {
		if r.Verdict.IsMisinfo {
			o.MisinfoCount++
		}
		confSum += r.Verdict.Confidence
		procSum += float64(r.ProcessingTimeMS)
	}
	n := float64(len(records))
	o.AvgConfidence = confSum / n
	o.AvgProcessingTime = procSum / n
	return o
}

// groupByCategory grup per classifiedType, urut count turun,
// seri dipecah dengan label kategori naik (deterministik).
func groupByCategory(records []*domain.Analysis) []statsdomain.CategoryStat {
	groups := make(map[string]*statsdomain.CategoryStat)
	for _, r := range records {
		g, ok := groups[r.ClassifiedType]
		if !ok {
			g = &statsdomain.CategoryStat{Category: r.ClassifiedType}
			groups[r.ClassifiedType] = g
		}
		g.Count++
		if r.Verdict.IsMisinfo {
			g.MisinfoCount++
		}
	}

	out := make([]statsdomain.CategoryStat, 0, len(groups))
	for _, g := range groups {
		if g.Count > 0 {
			g.MisinfoRate = float64(g.MisinfoCount) / float64(g.Count) * 100
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// groupByDay bucket per hari kalender UTC, urut tanggal naik.
func groupByDay(records []*domain.Analysis) []statsdomain.DailyTrend {
	buckets := make(map[string]*statsdomain.DailyTrend)
	for _, r := range records {
		day := r.CreatedAt.UTC().Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &statsdomain.DailyTrend{Date: day}
			buckets[day] = b
		}
		b.TotalCount++
		if r.Verdict.IsMisinfo {
			b.MisinfoCount++
		}
	}

	out := make([]statsdomain.DailyTrend, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
