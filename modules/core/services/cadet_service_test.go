package services

import (
	"context"
	"sort"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/wingtrack/wingtrack/modules/core/domain/entities/cadet"
	"github.com/wingtrack/wingtrack/pkg/eventbus"
)

type memoryCadetRepo struct {
	byID map[uuid.UUID]*cadet.Cadet
}

func newMemoryCadetRepo() *memoryCadetRepo {
	return &memoryCadetRepo{byID: map[uuid.UUID]*cadet.Cadet{}}
}

func (r *memoryCadetRepo) Count(context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *memoryCadetRepo) GetAll(context.Context) ([]*cadet.Cadet, error) {
	out := make([]*cadet.Cadet, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

func (r *memoryCadetRepo) GetPaginated(ctx context.Context, params *cadet.FindParams) ([]*cadet.Cadet, error) {
	all, _ := r.GetAll(ctx)
	var out []*cadet.Cadet
	for _, c := range all {
		if params.Flight != "" && c.Flight != params.Flight {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *memoryCadetRepo) GetByID(_ context.Context, id uuid.UUID) (*cadet.Cadet, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, errors.New("cadet not found")
	}
	return c, nil
}

func (r *memoryCadetRepo) Create(_ context.Context, data *cadet.Cadet) error {
	r.byID[data.ID] = data
	return nil
}

func (r *memoryCadetRepo) Update(_ context.Context, data *cadet.Cadet) error {
	if _, ok := r.byID[data.ID]; !ok {
		return errors.New("cadet not found")
	}
	r.byID[data.ID] = data
	return nil
}

func (r *memoryCadetRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func TestCadetServicePublishesEvents(t *testing.T) {
	repo := newMemoryCadetRepo()
	bus := eventbus.NewEventPublisher(logrus.New())
	svc := NewCadetService(repo, bus)

	var published []string
	bus.Subscribe(func(name string, _ *cadet.Cadet) {
		published = append(published, name)
	})
	bus.Subscribe(func(name string, _ uuid.UUID) {
		published = append(published, name)
	})

	ctx := context.Background()
	entity := cadet.New("Jordan", "Reyes", "C/SrA", "Alpha")
	require.NoError(t, svc.Create(ctx, entity))

	entity.Rank = "C/SSgt"
	require.NoError(t, svc.Update(ctx, entity))
	require.NoError(t, svc.Delete(ctx, entity.ID))

	require.Equal(t, []string{"cadet.created", "cadet.updated", "cadet.deleted"}, published)
}

func TestCadetServiceFiltersByFlight(t *testing.T) {
	repo := newMemoryCadetRepo()
	svc := NewCadetService(repo, eventbus.NewEventPublisher(logrus.New()))

	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, cadet.New("Jordan", "Reyes", "C/SrA", "Alpha")))
	require.NoError(t, svc.Create(ctx, cadet.New("Morgan", "Blake", "C/Amn", "Bravo")))

	got, err := svc.GetPaginated(ctx, &cadet.FindParams{Flight: "Alpha", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Reyes", got[0].LastName)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}
