package repository

import (
	"context"
	"fmt"
	"os"

	"resume-service/internal/model"
)

// FileContentSource reads content from a JSON document on every Load, so
// edits to the file show up on the next download.
type FileContentSource struct {
	Path string
}

func NewFileContentSource(path string) *FileContentSource {
	return &FileContentSource{Path: path}
}

func (s *FileContentSource) Load(ctx context.Context) (model.Content, error) {
	if err := ctx.Err(); err != nil {
		return model.Content{}, err
	}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return model.Content{}, err
	}
	c, err := model.DecodeContent(raw)
	if err != nil {
		return model.Content{}, fmt.Errorf("content file %s: %w", s.Path, err)
	}
	return c, nil
}
