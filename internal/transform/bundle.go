package transform

import (
	"time"

	"github.com/google/uuid"

	"github.com/mrbooshehri/folio/internal/models"
)

// ExportBundle is the document written by an export
type ExportBundle struct {
	ExportID   string          `json:"exportId" yaml:"exportId"`
	ExportedAt time.Time       `json:"exportedAt" yaml:"exportedAt"`
	Count      int             `json:"count" yaml:"count"`
	Projects   []ExportProject `json:"projects" yaml:"projects"`
}

// Bundle exports projects under a fresh export id
func (t *Transformer) Bundle(projects []models.Project) ExportBundle {
	items := t.BatchExport(projects)
	return ExportBundle{
		ExportID:   uuid.NewString(),
		ExportedAt: t.Now().UTC(),
		Count:      len(items),
		Projects:   items,
	}
}
