package domain

import (
	"time"

	"github.com/google/uuid"
)

// DownloadEvent is emitted once per counted download.
type DownloadEvent struct {
	ID          uuid.UUID `json:"id"`
	Variant     string    `json:"variant"`
	FileName    string    `json:"file_name"`
	Bytes       int64     `json:"bytes"`
	CompletedAt time.Time `json:"completed_at"`
}

func NewDownloadEvent(v Variant, fileName string, n int64) DownloadEvent {
	return DownloadEvent{
		ID:          uuid.New(),
		Variant:     v.String(),
		FileName:    fileName,
		Bytes:       n,
		CompletedAt: time.Now().UTC(),
	}
}
