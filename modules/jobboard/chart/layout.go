package chart

import (
	"sort"

	"github.com/google/uuid"

	"github.com/wingtrack/wingtrack/modules/jobboard/domain/assignment"
)

// Node geometry and spacing, in canvas units.
const (
	NodeWidth  = 220.0
	NodeHeight = 90.0

	horizontalGap = 60.0
	verticalGap   = 70.0
	columnGap     = 100.0

	// Members stack two side-by-side per row before wrapping.
	membersPerRow = 2

	assistantGap = 40.0
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout is a fully positioned chart: one point per assignment plus the
// hierarchy the points were derived from.
type Layout struct {
	Positions map[uuid.UUID]Point
	Hierarchy *Hierarchy
}

// LayoutEngine computes tiered positions for an assignment snapshot. It is a
// pure function of (assignments, savedPositions): identical inputs yield
// identical output, which matters because it runs on every chart render.
type LayoutEngine struct {
	classifier Classifier
}

func NewLayoutEngine(classifier Classifier) *LayoutEngine {
	return &LayoutEngine{classifier: classifier}
}

type column struct {
	squadron string
	x        float64
	width    float64
}

// Compute runs tiered placement, then assistant offsets, then saved-position
// overrides. Precedence is savedPositions over assistant placement over
// tiers. The result has not yet been through collision resolution.
func (e *LayoutEngine) Compute(assignments []*assignment.Assignment, saved map[uuid.UUID]Point) (*Layout, error) {
	positions := map[uuid.UUID]Point{}
	if len(assignments) == 0 {
		return &Layout{Positions: positions, Hierarchy: &Hierarchy{Nodes: map[uuid.UUID]*Node{}}}, nil
	}

	h, err := BuildHierarchy(assignments)
	if err != nil {
		return nil, err
	}

	// Tier is the deeper of the hierarchy depth and the classified level, so
	// a squadron commander reporting straight to the top still anchors a
	// squadron column rather than joining the staff row.
	byTier := map[int][]*Node{}
	maxTier := 0
	for _, n := range h.Nodes {
		tier := n.Level
		if cl := e.classifier.Classify(n.RoleName).Level; cl > tier {
			tier = cl
		}
		byTier[tier] = append(byTier[tier], n)
		if tier > maxTier {
			maxTier = tier
		}
	}
	for tier := range byTier {
		sort.Slice(byTier[tier], func(i, j int) bool {
			return byTier[tier][i].RoleName < byTier[tier][j].RoleName
		})
	}

	columns := e.buildColumns(h, byTier)
	totalWidth := 0.0
	for i := range columns {
		columns[i].x = totalWidth
		totalWidth += columns[i].width + columnGap
	}
	if totalWidth > 0 {
		totalWidth -= columnGap
	}
	centerX := totalWidth / 2

	// Tier 0: top command, centered, commander and deputy side by side.
	top := byTier[0]
	sort.SliceStable(top, func(i, j int) bool {
		return tierRank(e.classifier.Classify(top[i].RoleName)) < tierRank(e.classifier.Classify(top[j].RoleName))
	})
	rowWidth := float64(len(top))*NodeWidth + float64(len(top)-1)*horizontalGap
	for i, n := range top {
		positions[n.ID] = Point{
			X: centerX - rowWidth/2 + float64(i)*(NodeWidth+horizontalGap),
			Y: 0,
		}
	}

	// Tier 1: staff row, evenly spaced beneath the command row.
	staff := byTier[1]
	staffY := NodeHeight + verticalGap
	rowWidth = float64(len(staff))*NodeWidth + float64(len(staff)-1)*horizontalGap
	for i, n := range staff {
		positions[n.ID] = Point{
			X: centerX - rowWidth/2 + float64(i)*(NodeWidth+horizontalGap),
			Y: staffY,
		}
	}

	// Tiers 2+: squadron columns. Each column is anchored by its commander
	// and stacks deeper levels beneath, two nodes per row.
	columnX := map[string]float64{}
	for _, c := range columns {
		columnX[c.squadron] = c.x
	}
	commanderY := staffY + NodeHeight + verticalGap
	rowsUsed := map[string]int{}
	for lvl := 2; lvl <= maxTier; lvl++ {
		grouped := map[string][]*Node{}
		for _, n := range byTier[lvl] {
			sq := e.squadronOf(h, n)
			grouped[sq] = append(grouped[sq], n)
		}
		for _, squadron := range sortedKeys(grouped) {
			baseX, ok := columnX[squadron]
			if !ok {
				baseX = 0
			}
			for i, n := range grouped[squadron] {
				if lvl == 2 {
					// Commanders anchor the column top; extra level-2 roles
					// in the same squadron sit beside them.
					positions[n.ID] = Point{
						X: baseX + float64(i)*(NodeWidth+horizontalGap),
						Y: commanderY,
					}
					continue
				}
				row := rowsUsed[squadron] + i/membersPerRow
				col := i % membersPerRow
				positions[n.ID] = Point{
					X: baseX + float64(col)*(NodeWidth+horizontalGap),
					Y: commanderY + float64(row+1)*(NodeHeight+verticalGap),
				}
			}
			if lvl > 2 {
				rowsUsed[squadron] += (len(grouped[squadron]) + membersPerRow - 1) / membersPerRow
			}
		}
	}

	// Assistant placement overrides the tiered position: the assistant sits
	// immediately to the right of its target.
	byRole := map[string]uuid.UUID{}
	for _, a := range assignments {
		if _, dup := byRole[a.RoleName]; !dup {
			byRole[a.RoleName] = a.ID
		}
	}
	for _, a := range assignments {
		if !a.IsAssistant() {
			continue
		}
		targetID, ok := byRole[a.Assistant]
		if !ok {
			continue
		}
		target, ok := positions[targetID]
		if !ok {
			continue
		}
		positions[a.ID] = Point{X: target.X + NodeWidth + assistantGap, Y: target.Y}
	}

	// Saved positions win over everything computed above.
	for id, p := range saved {
		if _, ok := positions[id]; ok {
			positions[id] = p
		}
	}

	return &Layout{Positions: positions, Hierarchy: h}, nil
}

// buildColumns derives one column per squadron seen at tier 2+, sized to fit
// the member grid, in deterministic squadron-name order.
func (e *LayoutEngine) buildColumns(h *Hierarchy, byTier map[int][]*Node) []column {
	seen := map[string]bool{}
	var names []string
	for tier, nodes := range byTier {
		if tier < 2 {
			continue
		}
		for _, n := range nodes {
			sq := e.squadronOf(h, n)
			if !seen[sq] {
				seen[sq] = true
				names = append(names, sq)
			}
		}
	}
	sort.Strings(names)
	out := make([]column, 0, len(names))
	for _, name := range names {
		out = append(out, column{
			squadron: name,
			width:    float64(membersPerRow)*NodeWidth + float64(membersPerRow-1)*horizontalGap,
		})
	}
	return out
}

// squadronOf classifies the node's own role name and falls back to the
// nearest ancestor with a squadron, so unmatched member roles stay in their
// commander's column instead of a catch-all.
func (e *LayoutEngine) squadronOf(h *Hierarchy, n *Node) string {
	cur := n
	for cur != nil {
		if sq := e.classifier.Classify(cur.RoleName).Squadron; sq != "" {
			return sq
		}
		if cur.Parent == nil {
			break
		}
		cur = h.Nodes[*cur.Parent]
	}
	return "general"
}

// tierRank orders the command row: commander first, deputy beside.
func tierRank(c Classification) int {
	switch c.RoleType {
	case RoleCommand:
		return 0
	case RoleDeputy:
		return 1
	default:
		return 2
	}
}

func sortedKeys(m map[string][]*Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
