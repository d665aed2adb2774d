package stats

import "time"

// Window enum: rentang waktu relatif untuk agregasi
type Window string

const (
	Window24h Window = "24h"
	Window7d  Window = "7d"
	Window30d Window = "30d"
	Window90d Window = "90d"
)

// ParseWindow menerjemahkan query value jadi Window.
// Nilai yang tidak dikenal jatuh ke 7d (documented fallback, bukan error).
func ParseWindow(s string) Window {
	switch Window(s) {
	case Window24h, Window7d, Window30d, Window90d:
		return Window(s)
	}
	return Window7d
}

// Duration durasi window
func (w Window) Duration() time.Duration {
	switch w {
	case Window24h:
		return 24 * time.Hour
	case Window30d:
		return 30 * 24 * time.Hour
	case Window90d:
		return 90 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// Overview rekap keseluruhan dalam satu window
type Overview struct {
	TotalAnalyses     int     `json:"totalAnalyses"`
	MisinfoCount      int     `json:"misinfoCount"`
	AvgConfidence     float64 `json:"avgConfidence"`
	AvgProcessingTime float64 `json:"avgProcessingTime"`
}

// CategoryStat satu grup classifiedType
type CategoryStat struct {
	Category     string  `json:"category"`
	Count        int     `json:"count"`
	MisinfoCount int     `json:"misinfoCount"`
	MisinfoRate  float64 `json:"misinfoRate"`
}

// DailyTrend satu bucket hari kalender UTC
type DailyTrend struct {
	Date         string `json:"date"` // YYYY-MM-DD
	TotalCount   int    `json:"totalCount"`
	MisinfoCount int    `json:"misinfoCount"`
}

// Snapshot hasil Compute untuk satu window
type Snapshot struct {
	Window            Window         `json:"timeFilter"`
	Overview          Overview       `json:"overview"`
	CategoryBreakdown []CategoryStat `json:"categoryBreakdown"`
	DailyTrends       []DailyTrend   `json:"dailyTrends"`
}
