package chart_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wingtrack/wingtrack/modules/jobboard/chart"
	"github.com/wingtrack/wingtrack/modules/jobboard/domain/assignment"
)

func role(name, reportsTo string) *assignment.Assignment {
	a := assignment.New(name)
	if reportsTo != "" {
		a.ReportsTo = reportsTo
	}
	return a
}

func TestClassifier(t *testing.T) {
	c := chart.MustKeywordClassifier()

	cases := []struct {
		name     string
		level    int
		command  bool
		squadron string
		roleType chart.RoleType
	}{
		{"Group Commander", 0, true, "", chart.RoleCommand},
		{"Deputy Group Commander", 0, true, "", chart.RoleCommand},
		{"Operations Commander", 2, true, "operations", chart.RoleSquadronCommand},
		{"MX Commander", 2, true, "maintenance", chart.RoleSquadronCommand},
		{"Alpha Flight Sergeant", 1, false, "", chart.RoleFlight},
		{"Ops NCO", 3, false, "operations", chart.RoleNCO},
		{"Communications Specialist", 3, false, "communications", chart.RoleMember},
		{"Historian", 4, false, "", chart.RoleSpecialist},
		{"", 4, false, "", chart.RoleSpecialist},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.name)
			require.Equal(t, tc.level, got.Level, "level")
			require.Equal(t, tc.command, got.IsCommand, "is_command")
			require.Equal(t, tc.squadron, got.Squadron, "squadron")
			require.Equal(t, tc.roleType, got.RoleType, "role_type")
		})
	}
}

func TestClassifierCommanderDoesNotMatchComm(t *testing.T) {
	c := chart.MustKeywordClassifier()
	got := c.Classify("Wing Commander")
	require.Empty(t, got.Squadron)
	require.Equal(t, 0, got.Level)
}

func TestBuildHierarchyForest(t *testing.T) {
	a := role("Group Commander", "")
	b := role("Ops Commander", "Group Commander")
	d := role("Ops NCO", "Ops Commander")
	orphanRoot := role("Recruiting Officer", "")

	h, err := chart.BuildHierarchy([]*assignment.Assignment{a, b, d, orphanRoot})
	require.NoError(t, err)
	require.ElementsMatch(t, []uuid.UUID{a.ID, orphanRoot.ID}, h.RootIDs)
	require.Empty(t, h.Warnings)

	require.Equal(t, 0, h.Nodes[a.ID].Level)
	require.Equal(t, 1, h.Nodes[b.ID].Level)
	require.Equal(t, 2, h.Nodes[d.ID].Level)
	require.Equal(t, a.ID, *h.Nodes[b.ID].Parent)
	require.Equal(t, b.ID, *h.Nodes[d.ID].Parent)

	// Every non-root has exactly one parent.
	for id, n := range h.Nodes {
		if id == a.ID || id == orphanRoot.ID {
			require.Nil(t, n.Parent)
		} else {
			require.NotNil(t, n.Parent)
		}
	}
}

func TestCommandPath(t *testing.T) {
	a := role("Group Commander", "")
	b := role("Ops Commander", "Group Commander")
	d := role("Ops NCO", "Ops Commander")

	h, err := chart.BuildHierarchy([]*assignment.Assignment{a, b, d})
	require.NoError(t, err)
	require.Equal(t, "Group Commander", h.CommandPath(a.ID))
	require.Equal(t, "Group Commander / Ops Commander / Ops NCO", h.CommandPath(d.ID))
	require.Empty(t, h.CommandPath(uuid.New()))
}

func TestBuildHierarchyUnresolvedReference(t *testing.T) {
	a := role("Group Commander", "")
	stray := role("Supply NCO", "Logistics Commander")

	h, err := chart.BuildHierarchy([]*assignment.Assignment{a, stray})
	require.NoError(t, err)
	require.Len(t, h.Warnings, 1)
	require.Contains(t, h.Warnings[0], "Logistics Commander")
	require.ElementsMatch(t, []uuid.UUID{a.ID, stray.ID}, h.RootIDs)
	require.Nil(t, h.Nodes[stray.ID].Parent)
}

func TestBuildHierarchyCycle(t *testing.T) {
	a := role("Ops Commander", "Ops NCO")
	b := role("Ops NCO", "Ops Commander")

	_, err := chart.BuildHierarchy([]*assignment.Assignment{a, b})
	require.Error(t, err)
	var cycleErr *chart.CyclicHierarchyError
	require.ErrorAs(t, err, &cycleErr)
}

func TestLayoutEndToEnd(t *testing.T) {
	a := role("Group Commander", "")
	b := role("Ops Commander", "Group Commander")
	d := role("Ops NCO", "Ops Commander")

	engine := chart.NewLayoutEngine(chart.MustKeywordClassifier())
	layout, err := engine.Compute([]*assignment.Assignment{a, b, d}, nil)
	require.NoError(t, err)
	require.Len(t, layout.Positions, 3)

	pa, pb, pd := layout.Positions[a.ID], layout.Positions[b.ID], layout.Positions[d.ID]
	require.Less(t, pa.Y, pb.Y, "commander above squadron commander")
	require.Less(t, pb.Y, pd.Y, "squadron commander above member")
	require.Equal(t, pb.X, pd.X, "member stacks in its squadron column")
}

func TestLayoutIdempotent(t *testing.T) {
	assignments := []*assignment.Assignment{
		role("Group Commander", ""),
		role("Deputy Commander", "Group Commander"),
		role("Ops Commander", "Group Commander"),
		role("Maintenance Commander", "Group Commander"),
		role("Ops NCO", "Ops Commander"),
		role("Ops Specialist", "Ops NCO"),
		role("MX NCO", "Maintenance Commander"),
	}
	saved := map[uuid.UUID]chart.Point{assignments[4].ID: {X: 999, Y: 999}}

	engine := chart.NewLayoutEngine(chart.MustKeywordClassifier())
	first, err := engine.Compute(assignments, saved)
	require.NoError(t, err)
	second, err := engine.Compute(assignments, saved)
	require.NoError(t, err)
	require.Equal(t, first.Positions, second.Positions)
}

func TestLayoutSavedPositionPrecedence(t *testing.T) {
	a := role("Group Commander", "")
	b := role("Ops Commander", "Group Commander")
	saved := map[uuid.UUID]chart.Point{b.ID: {X: -500, Y: 1234}}

	engine := chart.NewLayoutEngine(chart.MustKeywordClassifier())
	layout, err := engine.Compute([]*assignment.Assignment{a, b}, saved)
	require.NoError(t, err)
	require.Equal(t, chart.Point{X: -500, Y: 1234}, layout.Positions[b.ID])
}

func TestLayoutAssistantOffset(t *testing.T) {
	a := role("Group Commander", "")
	helper := assignment.New("Executive Assistant")
	helper.Assistant = "Group Commander"

	engine := chart.NewLayoutEngine(chart.MustKeywordClassifier())
	layout, err := engine.Compute([]*assignment.Assignment{a, helper}, nil)
	require.NoError(t, err)

	pa := layout.Positions[a.ID]
	ph := layout.Positions[helper.ID]
	require.Equal(t, pa.Y, ph.Y)
	require.Greater(t, ph.X, pa.X+chart.NodeWidth)
}

func TestLayoutEmpty(t *testing.T) {
	engine := chart.NewLayoutEngine(chart.MustKeywordClassifier())
	layout, err := engine.Compute(nil, nil)
	require.NoError(t, err)
	require.Empty(t, layout.Positions)
}

func TestResolveCollisionsSeparatesOverlap(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	in := map[uuid.UUID]chart.Point{
		a: {X: 0, Y: 0},
		b: {X: 10, Y: 5},
	}
	out, reverted := chart.ResolveCollisions(in, chart.DefaultMaxIterations)
	require.False(t, reverted)
	require.NotEqual(t, in[a], out[a])
	// Input is never mutated.
	require.Equal(t, chart.Point{X: 0, Y: 0}, in[a])

	again, reverted := chart.ResolveCollisions(out, chart.DefaultMaxIterations)
	require.False(t, reverted)
	require.Equal(t, out, again, "idempotent once separated")
}

func TestResolveCollisionsNoOverlapUntouched(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	in := map[uuid.UUID]chart.Point{
		a: {X: 0, Y: 0},
		b: {X: 1000, Y: 1000},
	}
	out, reverted := chart.ResolveCollisions(in, chart.DefaultMaxIterations)
	require.False(t, reverted)
	require.Equal(t, in, out)
}

func TestResolveCollisionsNonRegression(t *testing.T) {
	// A dense cluster the resolver may or may not untangle fully; either
	// way the output must not collide more than the input.
	ids := make([]uuid.UUID, 6)
	in := map[uuid.UUID]chart.Point{}
	for i := range ids {
		ids[i] = uuid.New()
		in[ids[i]] = chart.Point{X: float64(i) * 5, Y: float64(i) * 3}
	}
	out, _ := chart.ResolveCollisions(in, 3)
	require.Len(t, out, len(in))
	require.LessOrEqual(t, collidingNodes(ids, out), collidingNodes(ids, in))
}

func collidingNodes(ids []uuid.UUID, positions map[uuid.UUID]chart.Point) int {
	colliding := map[uuid.UUID]bool{}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := positions[ids[i]], positions[ids[j]]
			dx := chart.NodeWidth + 40 - absF(a.X-b.X)
			dy := chart.NodeHeight + 40 - absF(a.Y-b.Y)
			if dx > 0 && dy > 0 {
				colliding[ids[i]] = true
				colliding[ids[j]] = true
			}
		}
	}
	return len(colliding)
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
