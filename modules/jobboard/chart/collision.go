package chart

import (
	"sort"

	"github.com/google/uuid"
)

// Minimum clearance kept around every node when testing for overlap.
const collisionMargin = 20.0

// DefaultMaxIterations bounds the resolver when the caller passes no limit.
const DefaultMaxIterations = 8

// ResolveCollisions pushes overlapping nodes apart and returns a new position
// map. Nodes collide when their rectangles, each expanded by the spacing
// margin, intersect. Pairs separate along the axis with the smaller overlap.
//
// The resolver is guarded: if an iteration stops strictly improving the
// collision count, or the final result collides more than the input did, the
// input is returned unchanged and the second return value reports the
// fallback. Some visual overlap beats runaway divergence. The function is
// idempotent once no collisions remain.
func ResolveCollisions(positions map[uuid.UUID]Point, maxIterations int) (map[uuid.UUID]Point, bool) {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if len(positions) < 2 {
		return clonePositions(positions), false
	}

	ids := make([]uuid.UUID, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	work := clonePositions(positions)
	initial := collidingCount(ids, positions)
	if initial == 0 {
		return work, false
	}

	prev := initial
	for iter := 0; iter < maxIterations; iter++ {
		moved := false
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := work[ids[i]], work[ids[j]]
				overlapX, overlapY, ok := overlap(a, b)
				if !ok {
					continue
				}
				moved = true
				if overlapX < overlapY {
					shift := (NodeWidth + collisionMargin) / 2
					if a.X <= b.X {
						a.X -= shift
						b.X += shift
					} else {
						a.X += shift
						b.X -= shift
					}
				} else {
					shift := (NodeHeight + collisionMargin) / 2
					if a.Y <= b.Y {
						a.Y -= shift
						b.Y += shift
					} else {
						a.Y += shift
						b.Y -= shift
					}
				}
				work[ids[i]], work[ids[j]] = a, b
			}
		}

		count := collidingCount(ids, work)
		if count == 0 {
			return work, false
		}
		if !moved {
			break
		}
		// Grace period of one iteration, then demand strict improvement.
		if iter > 0 && count >= prev {
			return clonePositions(positions), true
		}
		prev = count
	}

	if collidingCount(ids, work) > initial {
		return clonePositions(positions), true
	}
	return work, false
}

// overlap returns the x and y penetration depths of the margin-expanded
// rectangles at a and b, and whether they intersect at all.
func overlap(a, b Point) (float64, float64, bool) {
	w := NodeWidth + 2*collisionMargin
	h := NodeHeight + 2*collisionMargin
	dx := w - abs(a.X-b.X)
	dy := h - abs(a.Y-b.Y)
	if dx <= 0 || dy <= 0 {
		return 0, 0, false
	}
	return dx, dy, true
}

// collidingCount counts nodes involved in at least one collision.
func collidingCount(ids []uuid.UUID, positions map[uuid.UUID]Point) int {
	colliding := map[uuid.UUID]bool{}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if _, _, ok := overlap(positions[ids[i]], positions[ids[j]]); ok {
				colliding[ids[i]] = true
				colliding[ids[j]] = true
			}
		}
	}
	return len(colliding)
}

func clonePositions(positions map[uuid.UUID]Point) map[uuid.UUID]Point {
	out := make(map[uuid.UUID]Point, len(positions))
	for id, p := range positions {
		out[id] = p
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
