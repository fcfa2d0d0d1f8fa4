package jobboard

import (
	"context"

	"github.com/wingtrack/wingtrack/modules/jobboard/domain/assignment"
	"github.com/wingtrack/wingtrack/pkg/spotlight"
)

type roleDataSource struct {
	repo assignment.Repository
}

func (s *roleDataSource) Entries(ctx context.Context) ([]spotlight.Entry, error) {
	assignments, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]spotlight.Entry, 0, len(assignments))
	for _, a := range assignments {
		entries = append(entries, spotlight.Entry{
			Label: a.RoleName,
			Link:  "/api/v1/jobboard/assignments/" + a.ID.String(),
			Kind:  "role",
		})
	}
	return entries, nil
}
