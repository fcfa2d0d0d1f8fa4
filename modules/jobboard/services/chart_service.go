package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wingtrack/wingtrack/modules/jobboard/chart"
	"github.com/wingtrack/wingtrack/modules/jobboard/domain/assignment"
	"github.com/wingtrack/wingtrack/modules/jobboard/domain/position"
	"github.com/wingtrack/wingtrack/pkg/composables"
)

var (
	unresolvedReferences = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wingtrack_jobboard_unresolved_references_total",
		Help: "Hierarchy edges dropped because their target role name matched nothing.",
	})
	layoutFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wingtrack_jobboard_layout_fallbacks_total",
		Help: "Collision resolutions discarded by the regression guard.",
	})
)

// Chart is a fully rendered job board: positioned nodes, edges and any
// non-fatal warnings collected while deriving the hierarchy.
type Chart struct {
	Nodes    []ChartNode
	Edges    []chart.Edge
	Warnings []string
}

type ChartNode struct {
	Assignment  *assignment.Assignment
	Position    chart.Point
	Level       int
	Pinned      bool
	CommandPath string
}

type ChartService struct {
	assignments   assignment.Repository
	positions     position.Repository
	engine        *chart.LayoutEngine
	maxIterations int
}

func NewChartService(assignments assignment.Repository, positions position.Repository, engine *chart.LayoutEngine, maxIterations int) *ChartService {
	return &ChartService{
		assignments:   assignments,
		positions:     positions,
		engine:        engine,
		maxIterations: maxIterations,
	}
}

// Build lays out the current assignment snapshot. Saved positions override
// computed ones and are pinned through collision resolution: user intent
// wins over the resolver.
func (s *ChartService) Build(ctx context.Context) (*Chart, error) {
	assignments, err := s.assignments.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	savedRows, err := s.positions.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	saved := make(map[uuid.UUID]chart.Point, len(savedRows))
	for _, p := range savedRows {
		saved[p.AssignmentID] = chart.Point{X: p.X, Y: p.Y}
	}

	layout, err := s.engine.Compute(assignments, saved)
	if err != nil {
		return nil, err
	}
	for _, warning := range layout.Hierarchy.Warnings {
		unresolvedReferences.Inc()
		if logger, ok := composables.TryUseLogger(ctx); ok {
			logger.Warn(warning)
		}
	}

	resolved, reverted := chart.ResolveCollisions(layout.Positions, s.maxIterations)
	if reverted {
		layoutFallbacks.Inc()
	}
	// Pin saved positions back after resolution.
	for id, p := range saved {
		if _, ok := resolved[id]; ok {
			resolved[id] = p
		}
	}

	out := &Chart{Edges: layout.Hierarchy.Edges, Warnings: layout.Hierarchy.Warnings}
	for _, a := range assignments {
		node := ChartNode{Assignment: a, Position: resolved[a.ID]}
		if n, ok := layout.Hierarchy.Nodes[a.ID]; ok {
			node.Level = n.Level
			node.CommandPath = layout.Hierarchy.CommandPath(a.ID)
		}
		_, node.Pinned = saved[a.ID]
		out.Nodes = append(out.Nodes, node)
	}
	return out, nil
}

// SavePosition records a manual drag for one node.
func (s *ChartService) SavePosition(ctx context.Context, assignmentID uuid.UUID, x, y float64) error {
	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		return err
	}
	return s.positions.Upsert(ctx, &position.Position{AssignmentID: assignmentID, X: x, Y: y})
}

// ResetLayout clears every saved position so the next build is fully
// computed.
func (s *ChartService) ResetLayout(ctx context.Context) (int64, error) {
	return s.positions.DeleteAll(ctx)
}
