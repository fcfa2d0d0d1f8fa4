package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/wingtrack/wingtrack/modules/calendar/domain/event"
	"github.com/wingtrack/wingtrack/modules/calendar/recurrence"
	"github.com/wingtrack/wingtrack/modules/calendar/services"
	"github.com/wingtrack/wingtrack/modules/core/domain/entities/tenant"
	"github.com/wingtrack/wingtrack/pkg/composables"
	"github.com/wingtrack/wingtrack/pkg/constants"
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

// fakeTx satisfies pgx.Tx so transactional service paths can run against the
// in-memory repositories.
type fakeTx struct{}

func (fakeTx) Begin(context.Context) (pgx.Tx, error) { return fakeTx{}, nil }
func (fakeTx) Commit(context.Context) error          { return nil }
func (fakeTx) Rollback(context.Context) error        { return nil }
func (fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (fakeTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (fakeTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (fakeTx) Conn() *pgx.Conn                                         { return nil }

type memoryEventRepo struct {
	events   map[uuid.UUID]*event.Event
	createFn func(e *event.Event) error
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{events: map[uuid.UUID]*event.Event{}}
}

func (r *memoryEventRepo) GetByID(_ context.Context, id uuid.UUID) (*event.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return e, nil
}

func (r *memoryEventRepo) GetPaginated(_ context.Context, _ *event.FindParams) ([]*event.Event, error) {
	out := make([]*event.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e)
	}
	return out, nil
}

func (r *memoryEventRepo) ListInstances(_ context.Context, parentID uuid.UUID) ([]*event.Event, error) {
	var out []*event.Event
	for _, e := range r.events {
		if e.ParentEventID != nil && *e.ParentEventID == parentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryEventRepo) Create(_ context.Context, data *event.Event) error {
	if r.createFn != nil {
		if err := r.createFn(data); err != nil {
			return err
		}
	}
	r.events[data.ID] = data
	return nil
}

func (r *memoryEventRepo) Update(_ context.Context, data *event.Event) error {
	r.events[data.ID] = data
	return nil
}

func (r *memoryEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.events, id)
	return nil
}

func (r *memoryEventRepo) DeleteInstances(_ context.Context, parentID uuid.UUID) (int64, error) {
	var n int64
	for id, e := range r.events {
		if e.ParentEventID != nil && *e.ParentEventID == parentID {
			delete(r.events, id)
			n++
		}
	}
	return n, nil
}

type stubTenantRepo struct {
	tenant *tenant.Tenant
}

func (r *stubTenantRepo) GetByID(context.Context, uuid.UUID) (*tenant.Tenant, error) {
	return r.tenant, nil
}
func (r *stubTenantRepo) GetAll(context.Context) ([]*tenant.Tenant, error) {
	return []*tenant.Tenant{r.tenant}, nil
}
func (r *stubTenantRepo) Create(context.Context, *tenant.Tenant) error { return nil }
func (r *stubTenantRepo) Update(context.Context, *tenant.Tenant) error { return nil }

func testContext(tenantID uuid.UUID) context.Context {
	ctx := composables.WithTenantID(context.Background(), tenantID)
	return context.WithValue(ctx, constants.TxKey, fakeTx{})
}

func newTestService(repo event.Repository) *services.EventService {
	school := tenant.New("Test School", "UTC")
	return services.NewEventService(
		repo,
		&stubTenantRepo{tenant: school},
		eventbus.NewEventPublisher(logrus.New()),
		recurrence.Limits{MaxInstances: 100, Horizon: 365 * 24 * time.Hour},
	)
}

func recurringEvent(count int) *event.Event {
	start := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	e := event.New("PT Session", start, start.Add(time.Hour))
	e.IsRecurring = true
	e.Recurrence = &event.Rule{
		Frequency:       event.FrequencyWeekly,
		Interval:        1,
		EndType:         event.EndCount,
		OccurrenceCount: count,
	}
	return e
}

func TestEventServiceCreateMaterializesInstances(t *testing.T) {
	repo := newMemoryEventRepo()
	svc := newTestService(repo)
	ctx := testContext(uuid.New())

	result, err := svc.Create(ctx, recurringEvent(3))
	require.NoError(t, err)
	require.Equal(t, 2, result.InstancesCreated)
	require.Empty(t, result.Warnings)
	require.Len(t, repo.events, 3)

	instances, err := repo.ListInstances(ctx, result.Event.ID)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	for _, inst := range instances {
		require.Equal(t, "PT Session", inst.Title)
		require.Equal(t, result.Event.ID, *inst.ParentEventID)
		require.False(t, inst.IsRecurring)
	}
}

func TestEventServiceCreateInvalidRule(t *testing.T) {
	repo := newMemoryEventRepo()
	svc := newTestService(repo)
	ctx := testContext(uuid.New())

	e := recurringEvent(3)
	e.Recurrence.Interval = 0
	_, err := svc.Create(ctx, e)
	require.Error(t, err)
	var ruleErr *recurrence.InvalidRuleError
	require.ErrorAs(t, err, &ruleErr)
	require.Empty(t, repo.events)
}

func TestEventServiceCreateDegradesPerInstance(t *testing.T) {
	repo := newMemoryEventRepo()
	failures := 0
	repo.createFn = func(e *event.Event) error {
		// Fail the first instance write, let the parent and the rest through.
		if e.ParentEventID != nil && failures == 0 {
			failures++
			return pgx.ErrTxClosed
		}
		return nil
	}
	svc := newTestService(repo)
	ctx := testContext(uuid.New())

	result, err := svc.Create(ctx, recurringEvent(4))
	require.NoError(t, err)
	require.Equal(t, 2, result.InstancesCreated)
	require.Len(t, result.Warnings, 1)
	require.Len(t, repo.events, 3)
}

func TestEventServiceDeleteSeriesFromInstance(t *testing.T) {
	repo := newMemoryEventRepo()
	svc := newTestService(repo)
	ctx := testContext(uuid.New())

	result, err := svc.Create(ctx, recurringEvent(3))
	require.NoError(t, err)
	instances, err := repo.ListInstances(ctx, result.Event.ID)
	require.NoError(t, err)
	require.Len(t, instances, 2)

	require.NoError(t, svc.Delete(ctx, instances[0].ID, services.ScopeSeries))
	require.Empty(t, repo.events)
}

func TestEventServiceDeleteSingleOccurrence(t *testing.T) {
	repo := newMemoryEventRepo()
	svc := newTestService(repo)
	ctx := testContext(uuid.New())

	result, err := svc.Create(ctx, recurringEvent(3))
	require.NoError(t, err)
	instances, err := repo.ListInstances(ctx, result.Event.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, instances[0].ID, services.ScopeOccurrence))
	require.Len(t, repo.events, 2)
	_, ok := repo.events[result.Event.ID]
	require.True(t, ok)
}

func TestEventServiceRegenerate(t *testing.T) {
	repo := newMemoryEventRepo()
	svc := newTestService(repo)
	ctx := testContext(uuid.New())

	result, err := svc.Create(ctx, recurringEvent(3))
	require.NoError(t, err)

	parent := result.Event
	parent.Recurrence.OccurrenceCount = 5
	regen, err := svc.Regenerate(ctx, parent.ID)
	require.NoError(t, err)
	require.Equal(t, 4, regen.InstancesCreated)

	instances, err := repo.ListInstances(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, instances, 4)
}
