package usecase

import (
	"context"
	"errors"
	"strings"

	"resume-service/internal/domain"
	"resume-service/internal/model"
)

// ContentSource is a read-only data-access layer for résumé content.
type ContentSource interface {
	Load(ctx context.Context) (model.Content, error)
}

// ContentStore reads content for rendering and reports any failure as data
// unavailable, so no partial document is ever produced.
type ContentStore struct {
	source ContentSource
}

func NewContentStore(src ContentSource) *ContentStore {
	return &ContentStore{source: src}
}

func (s *ContentStore) Load(ctx context.Context) (model.Content, error) {
	if s.source == nil {
		return model.Content{}, domain.NewDataUnavailable("content source not configured", nil)
	}
	c, err := s.source.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrDataUnavailable) {
			return model.Content{}, err
		}
		return model.Content{}, domain.NewDataUnavailable("content could not be loaded", err)
	}
	if strings.TrimSpace(c.PersonalInfo.Name) == "" {
		return model.Content{}, domain.NewDataUnavailable("personal info is missing", nil)
	}
	return c, nil
}
