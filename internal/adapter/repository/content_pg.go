package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"resume-service/internal/model"
)

// contentSQL assembles the whole résumé as one JSON document in a single
// statement, so all sections come from the same snapshot.
const contentSQL = `
SELECT json_build_object(
	'personalInfo', (
		SELECT row_to_json(p) FROM (
			SELECT name, title, subtitle, email, phone, linkedin, twitter, github
			FROM personal_info WHERE id = 1
		) p
	),
	'experiences', (
		SELECT coalesce(json_agg(json_build_object(
			'company', company, 'role', role, 'period', period,
			'location', location, 'description', description,
			'highlights', highlights, 'technologies', technologies,
			'order', sort_order) ORDER BY sort_order, id), '[]'::json)
		FROM experiences
	),
	'education', (
		SELECT coalesce(json_agg(json_build_object(
			'school', school, 'degree', degree, 'period', period,
			'order', sort_order) ORDER BY sort_order, id), '[]'::json)
		FROM education
	),
	'skills', (
		SELECT coalesce(json_agg(json_build_object(
			'name', name, 'category', category,
			'order', sort_order) ORDER BY sort_order, id), '[]'::json)
		FROM skills
	)
)`

// PGContentSource reads content from the tables created by the migrations.
type PGContentSource struct {
	DB *sql.DB
}

func NewPGContentSource(db *sql.DB) *PGContentSource {
	return &PGContentSource{DB: db}
}

func (s *PGContentSource) Load(ctx context.Context) (model.Content, error) {
	var raw []byte
	if err := s.DB.QueryRowContext(ctx, contentSQL).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Content{}, errors.New("no content rows")
		}
		return model.Content{}, err
	}
	c, err := model.DecodeContent(raw)
	if err != nil {
		return model.Content{}, fmt.Errorf("content rows: %w", err)
	}
	return c, nil
}
