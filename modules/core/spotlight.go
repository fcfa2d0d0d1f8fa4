package core

import (
	"context"
	"strings"

	"github.com/wingtrack/wingtrack/modules/core/domain/entities/cadet"
	"github.com/wingtrack/wingtrack/pkg/spotlight"
)

type cadetDataSource struct {
	repo cadet.Repository
}

func (s *cadetDataSource) Entries(ctx context.Context) ([]spotlight.Entry, error) {
	cadets, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]spotlight.Entry, 0, len(cadets))
	for _, c := range cadets {
		label := strings.TrimSpace(strings.Join([]string{c.Rank, c.FirstName, c.LastName}, " "))
		entries = append(entries, spotlight.Entry{
			Label: label,
			Link:  "/api/v1/core/cadets/" + c.ID.String(),
			Kind:  "cadet",
		})
	}
	return entries, nil
}
