package spotlight

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
)

type staticSource []Entry

func (s staticSource) Entries(context.Context) ([]Entry, error) {
	return s, nil
}

type failingSource struct{}

func (failingSource) Entries(context.Context) ([]Entry, error) {
	return nil, errors.New("source unavailable")
}

func TestFindRanksAcrossSources(t *testing.T) {
	sp := New(0)
	sp.Register(
		staticSource{
			{Label: "Jordan Reyes", Link: "/api/v1/core/cadets/1", Kind: "cadet"},
			{Label: "Morgan Blake", Link: "/api/v1/core/cadets/2", Kind: "cadet"},
		},
		staticSource{
			{Label: "Operations Squadron Commander", Link: "/api/v1/jobboard/assignments/3", Kind: "role"},
		},
	)

	hits, err := sp.Find(context.Background(), "reyes")
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	require.Equal(t, "Jordan Reyes", hits[0].Label)

	hits, err = sp.Find(context.Background(), "ops sq")
	require.NoError(t, err)
	for _, h := range hits {
		require.NotEqual(t, "Morgan Blake", h.Label)
	}
}

func TestFindEmptyQuery(t *testing.T) {
	sp := New(0)
	sp.Register(staticSource{{Label: "Jordan Reyes"}})

	hits, err := sp.Find(context.Background(), "   ")
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestFindHonorsLimit(t *testing.T) {
	sp := New(2)
	sp.Register(staticSource{
		{Label: "Alpha Flight"},
		{Label: "Alpha Flight Sergeant"},
		{Label: "Alpha Flight Commander"},
	})

	hits, err := sp.Find(context.Background(), "alpha")
	require.NoError(t, err)
	require.Len(t, hits, 2)
}

func TestFindPropagatesSourceError(t *testing.T) {
	sp := New(0)
	sp.Register(failingSource{})

	_, err := sp.Find(context.Background(), "anything")
	require.Error(t, err)
}
