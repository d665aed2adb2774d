package analysis

import (
	"time"
)

// ID tipe untuk Analysis
type ID string

// InputType enum
type InputType string

const (
	InputText  InputType = "text"
	InputImage InputType = "image"
	InputVideo InputType = "video"
	InputVoice InputType = "voice"
)

// ParseInputType validasi string jadi InputType
func ParseInputType(s string) (InputType, bool) {
	switch InputType(s) {
	case InputText, InputImage, InputVideo, InputVoice:
		return InputType(s), true
	}
	return "", false
}

// Verdict value object: hasil klasifikasi
type Verdict struct {
	IsMisinfo  bool    `json:"isMisinfo"`
	Confidence float64 `json:"confidence"` // 0..100
}

// RelatedNews satu artikel pembanding
type RelatedNews struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Date   string `json:"date"`
	URL    string `json:"url"`
}

// ClassifierStats self-reported stats dari classifier saat verdict dibuat
type ClassifierStats struct {
	TotalChecks    int                `json:"totalChecks"`
	Accuracy       float64            `json:"accuracy"`
	FalsePositives int                `json:"falsePositives"`
	Categories     map[string]float64 `json:"categories"` // category -> percentage
}

// RequestMetadata optional info request asal
type RequestMetadata struct {
	UserAgent string `json:"userAgent,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
}

// Aggregate Root: Analysis
// Immutable setelah insert; ID dan CreatedAt di-assign oleh repository.
type Analysis struct {
	ID               ID               `json:"id"`
	InputType        InputType        `json:"inputType"`
	InputData        string           `json:"inputData"`
	Verdict          Verdict          `json:"verdict"`
	SourceClassifier string           `json:"sourceClassifier"`
	ClassifiedType   string           `json:"classifiedType"`
	Sources          []string         `json:"sources"`
	RelatedNews      []RelatedNews    `json:"relatedNews"`
	Statistics       ClassifierStats  `json:"statistics"`
	ProcessingTimeMS int64            `json:"processingTimeMs"`
	Metadata         *RequestMetadata `json:"requestMetadata,omitempty"`
	ArchiveURL       string           `json:"archiveUrl,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// Summary proyeksi ringan untuk listing history
type Summary struct {
	ID         ID        `json:"id"`
	InputType  InputType `json:"inputType"`
	IsMisinfo  bool      `json:"isMisinfo"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"createdAt"`
}
