// Package density clusters a day's interventions into calendar-event-sized
// groups, so co-located actions share one event instead of flooding the
// calendar with one entry per intervention.
package density

import (
	"sort"

	"github.com/circaplan/circaplan/internal/plan"
)

// GroupKind discriminates group keys. A tagged key rather than a spliced
// string keeps same-time groups under different anchors apart even if a
// type name ever contains the delimiter.
type GroupKind string

const (
	KindWake       GroupKind = "wake"
	KindSleep      GroupKind = "sleep"
	KindStandalone GroupKind = "standalone"
)

// GroupKey identifies one group of a day's timeline.
type GroupKey struct {
	Kind GroupKind
	Type plan.InterventionType // set for standalone groups only
	Time string                // display time, HH:MM
}

// String renders the key for logs and sync bookkeeping:
// "wake:<time>", "sleep:<time>", or "standalone:<type>:<time>".
func (k GroupKey) String() string {
	if k.Kind == KindStandalone {
		return string(KindStandalone) + ":" + string(k.Type) + ":" + k.Time
	}
	return string(k.Kind) + ":" + k.Time
}

// Group is one cluster of interventions destined for a single calendar
// event. When the group has an anchor it is always first in Items.
type Group struct {
	Key   GroupKey
	Items []plan.Intervention
}

// windowMinutes is how far from an anchor an item may sit and still attach
// to it.
const windowMinutes = 120

// Groups clusters items around wake/sleep anchors.
//
// Non-actionable items (caffeine_ok) are dropped entirely. Standalone types
// always form their own group regardless of nearby anchors. Every other
// item attaches to the nearest anchor within the two-hour window; anchors
// are scanned wake-first, so an item equidistant from a wake and a sleep
// target attaches to the wake. Items with no anchor in range become their
// own standalone group.
//
// Every actionable item lands in exactly one group. Output order is
// deterministic: groups appear in order of their first member.
func Groups(items []plan.Intervention) []Group {
	anchors := anchorsOf(items)

	var order []GroupKey
	byKey := make(map[GroupKey][]plan.Intervention)
	put := func(k GroupKey, iv plan.Intervention) {
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], iv)
	}

	for _, iv := range items {
		tr := iv.Type.Traits()
		switch {
		case !tr.Actionable:
			continue
		case tr.Anchor:
			put(anchorKey(iv), iv)
		case tr.Standalone:
			put(standaloneKey(iv), iv)
		default:
			if anchor, ok := nearestAnchor(iv, anchors); ok {
				put(anchorKey(anchor), iv)
			} else {
				put(standaloneKey(iv), iv)
			}
		}
	}

	groups := make([]Group, 0, len(order))
	for _, k := range order {
		groups = append(groups, Group{Key: k, Items: anchorFirst(byKey[k])})
	}
	return groups
}

// anchorsOf collects the day's anchors in check order: every wake target
// before any sleep target. This ordering is also the tie-break for items
// equidistant from two anchors.
func anchorsOf(items []plan.Intervention) []plan.Intervention {
	var anchors []plan.Intervention
	for _, iv := range items {
		if iv.Type == plan.WakeTarget {
			anchors = append(anchors, iv)
		}
	}
	for _, iv := range items {
		if iv.Type == plan.SleepTarget {
			anchors = append(anchors, iv)
		}
	}
	return anchors
}

func anchorKey(iv plan.Intervention) GroupKey {
	kind := KindWake
	if iv.Type == plan.SleepTarget {
		kind = KindSleep
	}
	return GroupKey{Kind: kind, Time: iv.DisplayTime()}
}

func standaloneKey(iv plan.Intervention) GroupKey {
	return GroupKey{Kind: KindStandalone, Type: iv.Type, Time: iv.DisplayTime()}
}

// nearestAnchor returns the closest in-window anchor. The strict "<"
// comparison means the first-scanned anchor wins ties.
func nearestAnchor(iv plan.Intervention, anchors []plan.Intervention) (plan.Intervention, bool) {
	ivMinutes := iv.SortKey()
	best := -1
	bestDistance := windowMinutes + 1
	for i, anchor := range anchors {
		d := anchor.SortKey() - ivMinutes
		if d < 0 {
			d = -d
		}
		if d <= windowMinutes && d < bestDistance {
			best, bestDistance = i, d
		}
	}
	if best < 0 {
		return plan.Intervention{}, false
	}
	return anchors[best], true
}

// anchorFirst moves anchor items to the front of a group, preserving the
// relative order of everything else.
func anchorFirst(items []plan.Intervention) []plan.Intervention {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Type.Traits().Anchor && !items[j].Type.Traits().Anchor
	})
	return items
}
