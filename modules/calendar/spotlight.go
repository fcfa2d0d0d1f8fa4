package calendar

import (
	"context"

	"github.com/wingtrack/wingtrack/modules/calendar/domain/event"
	"github.com/wingtrack/wingtrack/pkg/spotlight"
)

const spotlightEventLimit = 500

type eventDataSource struct {
	repo event.Repository
}

func (s *eventDataSource) Entries(ctx context.Context) ([]spotlight.Entry, error) {
	events, err := s.repo.GetPaginated(ctx, &event.FindParams{Limit: spotlightEventLimit})
	if err != nil {
		return nil, err
	}
	entries := make([]spotlight.Entry, 0, len(events))
	for _, e := range events {
		// Instances repeat the parent title, only the parent is worth a hit.
		if e.ParentEventID != nil {
			continue
		}
		entries = append(entries, spotlight.Entry{
			Label: e.Title,
			Link:  "/api/v1/calendar/events/" + e.ID.String(),
			Kind:  "event",
		})
	}
	return entries, nil
}
