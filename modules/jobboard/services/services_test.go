package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/wingtrack/wingtrack/modules/jobboard/chart"
	"github.com/wingtrack/wingtrack/modules/jobboard/domain/assignment"
	"github.com/wingtrack/wingtrack/modules/jobboard/domain/position"
	"github.com/wingtrack/wingtrack/modules/jobboard/services"
	"github.com/wingtrack/wingtrack/pkg/eventbus"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "wingtrack-test")
	if err != nil {
		panic(err)
	}
	os.Setenv("LOG_PATH", filepath.Join(dir, "app.log"))
	os.Setenv("RLS_ENFORCE", "disabled")
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type memoryAssignmentRepo struct {
	rows map[uuid.UUID]*assignment.Assignment
}

func newMemoryAssignmentRepo() *memoryAssignmentRepo {
	return &memoryAssignmentRepo{rows: map[uuid.UUID]*assignment.Assignment{}}
}

func (r *memoryAssignmentRepo) GetAll(context.Context) ([]*assignment.Assignment, error) {
	out := make([]*assignment.Assignment, 0, len(r.rows))
	for _, a := range r.rows {
		out = append(out, a)
	}
	return out, nil
}

func (r *memoryAssignmentRepo) GetByID(_ context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return a, nil
}

func (r *memoryAssignmentRepo) Create(_ context.Context, data *assignment.Assignment) error {
	r.rows[data.ID] = data
	return nil
}

func (r *memoryAssignmentRepo) Update(_ context.Context, data *assignment.Assignment) error {
	r.rows[data.ID] = data
	return nil
}

func (r *memoryAssignmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

type memoryPositionRepo struct {
	rows map[uuid.UUID]*position.Position
}

func newMemoryPositionRepo() *memoryPositionRepo {
	return &memoryPositionRepo{rows: map[uuid.UUID]*position.Position{}}
}

func (r *memoryPositionRepo) GetAll(context.Context) ([]*position.Position, error) {
	out := make([]*position.Position, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryPositionRepo) Upsert(_ context.Context, data *position.Position) error {
	r.rows[data.AssignmentID] = data
	return nil
}

func (r *memoryPositionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *memoryPositionRepo) DeleteAll(context.Context) (int64, error) {
	n := int64(len(r.rows))
	r.rows = map[uuid.UUID]*position.Position{}
	return n, nil
}

func newAssignmentService(repo assignment.Repository) *services.AssignmentService {
	return services.NewAssignmentService(repo, eventbus.NewEventPublisher(logrus.New()))
}

func TestAssignmentServiceLinkPolicy(t *testing.T) {
	repo := newMemoryAssignmentRepo()
	svc := newAssignmentService(repo)
	ctx := context.Background()

	a := assignment.New("Ops Commander")
	a.ReportsTo = "Group Commander"
	a.Assistant = "Group Commander"
	require.NoError(t, svc.Create(ctx, a))
	require.Equal(t, "Group Commander", a.ReportsTo)
	require.Equal(t, assignment.NoLink, a.Assistant, "reports-to wins when both links arrive")

	a.ReportsTo = ""
	a.Assistant = "Group Commander"
	require.NoError(t, svc.Update(ctx, a))
	require.Equal(t, assignment.NoLink, a.ReportsTo)
	require.Equal(t, "Group Commander", a.Assistant)
}

func TestAssignmentServiceSaveConnections(t *testing.T) {
	repo := newMemoryAssignmentRepo()
	svc := newAssignmentService(repo)
	ctx := context.Background()

	a := assignment.New("Ops Commander")
	require.NoError(t, svc.Create(ctx, a))

	conns := []assignment.Connection{{
		ID:             "e1",
		Type:           assignment.ConnectionReportsTo,
		TargetRoleName: "Group Commander",
	}}
	updated, err := svc.SaveConnections(ctx, a.ID, conns)
	require.NoError(t, err)
	require.Equal(t, conns, updated.Connections)
	require.Equal(t, conns, repo.rows[a.ID].Connections)
}

func buildChartService(t *testing.T, assignments *memoryAssignmentRepo, positions *memoryPositionRepo) *services.ChartService {
	t.Helper()
	engine := chart.NewLayoutEngine(chart.MustKeywordClassifier())
	return services.NewChartService(assignments, positions, engine, chart.DefaultMaxIterations)
}

func TestChartServiceBuild(t *testing.T) {
	assignments := newMemoryAssignmentRepo()
	positions := newMemoryPositionRepo()
	svc := buildChartService(t, assignments, positions)
	ctx := context.Background()

	commander := assignment.New("Group Commander")
	ops := assignment.New("Ops Commander")
	ops.ReportsTo = "Group Commander"
	nco := assignment.New("Ops NCO")
	nco.ReportsTo = "Ops Commander"
	for _, a := range []*assignment.Assignment{commander, ops, nco} {
		require.NoError(t, assignments.Create(ctx, a))
	}

	built, err := svc.Build(ctx)
	require.NoError(t, err)
	require.Len(t, built.Nodes, 3)
	require.Len(t, built.Edges, 2)
	require.Empty(t, built.Warnings)

	byID := map[uuid.UUID]services.ChartNode{}
	for _, n := range built.Nodes {
		byID[n.Assignment.ID] = n
	}
	require.Less(t, byID[commander.ID].Position.Y, byID[ops.ID].Position.Y)
	require.Less(t, byID[ops.ID].Position.Y, byID[nco.ID].Position.Y)
}

func TestChartServiceSavedPositionsPinned(t *testing.T) {
	assignments := newMemoryAssignmentRepo()
	positions := newMemoryPositionRepo()
	svc := buildChartService(t, assignments, positions)
	ctx := context.Background()

	commander := assignment.New("Group Commander")
	ops := assignment.New("Ops Commander")
	ops.ReportsTo = "Group Commander"
	require.NoError(t, assignments.Create(ctx, commander))
	require.NoError(t, assignments.Create(ctx, ops))

	require.NoError(t, svc.SavePosition(ctx, ops.ID, 42, 77))

	built, err := svc.Build(ctx)
	require.NoError(t, err)
	for _, n := range built.Nodes {
		if n.Assignment.ID == ops.ID {
			require.True(t, n.Pinned)
			require.Equal(t, chart.Point{X: 42, Y: 77}, n.Position)
		}
	}
}

func TestChartServiceSavePositionUnknownAssignment(t *testing.T) {
	assignments := newMemoryAssignmentRepo()
	positions := newMemoryPositionRepo()
	svc := buildChartService(t, assignments, positions)

	err := svc.SavePosition(context.Background(), uuid.New(), 1, 2)
	require.Error(t, err)
	require.Empty(t, positions.rows)
}

func TestChartServiceResetLayout(t *testing.T) {
	assignments := newMemoryAssignmentRepo()
	positions := newMemoryPositionRepo()
	svc := buildChartService(t, assignments, positions)
	ctx := context.Background()

	a := assignment.New("Group Commander")
	require.NoError(t, assignments.Create(ctx, a))
	require.NoError(t, svc.SavePosition(ctx, a.ID, 5, 5))

	cleared, err := svc.ResetLayout(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), cleared)
	require.Empty(t, positions.rows)
}
