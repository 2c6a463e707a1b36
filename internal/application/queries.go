package application

import "github.com/TwilightLilyy/umatrack/internal/domain"

// HistoryView is one resource's retained history plus the continuous
// series spanning the retention window, ready for display or export.
type HistoryView struct {
	Kind     domain.Kind            `json:"kind"`
	Snapshot domain.HistorySnapshot `json:"snapshot"`
	Series   []domain.HistoryPoint  `json:"series"`
}
