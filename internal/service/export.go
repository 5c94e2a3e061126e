package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/notekeeper/internal/domain"
)

// noteLister is the part of NoteService that Export needs.
type noteLister interface {
	List(ctx context.Context, ownerID uuid.UUID, q domain.NoteQuery) ([]domain.Note, int64, error)
}

// ExportService assembles a flat export of every note a user owns.
type ExportService struct {
	notes noteLister
}

// NewExportService constructs an ExportService reading through notes.
func NewExportService(notes noteLister) *ExportService {
	return &ExportService{notes: notes}
}

// Export returns one ExportRow per note, oldest first. It pages through the
// owner's notes MaxPageLimit at a time.
func (s *ExportService) Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error) {
	rows := []domain.ExportRow{}
	limit := domain.MaxPageLimit
	for page := 1; ; page++ {
		p := page
		notes, total, err := s.notes.List(ctx, ownerID, domain.NoteQuery{
			Sort: domain.SortOldest,
			Page: domain.NewPaginationParams(&p, &limit),
		})
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		for _, n := range notes {
			rows = append(rows, toExportRow(n))
		}
		if len(notes) == 0 || int64(len(rows)) >= total {
			return rows, nil
		}
	}
}

func toExportRow(n domain.Note) domain.ExportRow {
	tags := make([]string, len(n.Tags))
	for i, t := range n.Tags {
		tags[i] = t.Name
	}
	return domain.ExportRow{
		NoteID:    n.ID.String(),
		Title:     n.Title,
		Content:   n.Content,
		Tags:      tags,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
