package actuals

import "github.com/circaplan/circaplan/internal/plan"

// EffectiveTime returns the time an intervention should be treated as
// happening: the recorded actual when the user modified an editable item,
// otherwise the phase-appropriate display time.
//
// An empty ActualTime is treated as absent, guarding against
// partially-cleared input. Advisory types never carry actuals of their own;
// they cascade with whatever parent anchors them.
func EffectiveTime(iv plan.Intervention, a *Actual) string {
	if a != nil && a.Status == StatusModified && a.ActualTime != "" && iv.Type.Traits().Editable {
		return a.ActualTime
	}
	return iv.DisplayTime()
}

// StaysNested reports whether child should remain grouped under a parent
// whose effective time is parentEffective.
//
// Three cases, compared by exact "HH:MM" string equality:
//   - non-editable child: its display time must match the parent;
//   - skipped child: its planned display time must match the parent,
//     since skipping never changes anchor compatibility;
//   - otherwise: its effective time must match the parent.
//
// Only a modified time can detach a card from its anchor group; skipped and
// advisory items have no independent time of their own to detach with.
func StaysNested(child plan.Intervention, childActual *Actual, parentEffective string) bool {
	if !child.Type.Traits().Editable {
		return child.DisplayTime() == parentEffective
	}
	if childActual != nil && childActual.Status == StatusSkipped {
		return child.DisplayTime() == parentEffective
	}
	return EffectiveTime(child, childActual) == parentEffective
}

// TimedGroup is an ephemeral rendering/sync unit: one parent plus the
// children sharing its effective time. Parent is always set; a group with
// no children is a card standing on its own.
type TimedGroup struct {
	Parent   plan.Intervention
	Time     string // the parent's effective time
	Children []plan.Intervention
}

// BuildTimedGroups nests a day's interventions under their anchor parents.
//
// Anchors (wake and sleep targets) each open a group at their effective
// time and claim, in timeline order, the non-anchor items that still share
// that time per StaysNested. Whatever is left surfaces as its own group,
// which is how a modified wake time visibly detaches its former children.
func BuildTimedGroups(items []plan.Intervention, lookup Lookup, dayOffset int) []TimedGroup {
	var groups []TimedGroup
	claimed := make([]bool, len(items))

	for i, iv := range items {
		if !iv.Type.Traits().Anchor {
			continue
		}
		parentActual := lookup.ptr(dayOffset, iv.Type)
		g := TimedGroup{
			Parent: iv,
			Time:   EffectiveTime(iv, parentActual),
		}
		claimed[i] = true

		for j, child := range items {
			if claimed[j] || child.Type.Traits().Anchor {
				continue
			}
			childActual := lookup.ptr(dayOffset, child.Type)
			if StaysNested(child, childActual, g.Time) {
				g.Children = append(g.Children, child)
				claimed[j] = true
			}
		}
		groups = append(groups, g)
	}

	for i, iv := range items {
		if claimed[i] {
			continue
		}
		groups = append(groups, TimedGroup{
			Parent: iv,
			Time:   EffectiveTime(iv, lookup.ptr(dayOffset, iv.Type)),
		})
	}
	return groups
}
