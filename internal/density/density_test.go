package density_test

import (
	"testing"

	"github.com/circaplan/circaplan/internal/density"
	"github.com/circaplan/circaplan/internal/plan"
)

func item(t plan.InterventionType, destTime string) plan.Intervention {
	return plan.Intervention{
		Type:      t,
		DestTime:  destTime,
		DestDate:  "2026-05-02",
		DestTZ:    "Europe/London",
		PhaseType: plan.PostArrival,
	}
}

func TestGroups_AttachesToNearbyAnchor(t *testing.T) {
	groups := density.Groups([]plan.Intervention{
		item(plan.WakeTarget, "07:00"),
		item(plan.LightSeek, "07:30"),
		item(plan.Melatonin, "21:45"),
		item(plan.SleepTarget, "22:00"),
	})

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	wake := groups[0]
	if wake.Key.String() != "wake:07:00" {
		t.Errorf("key = %q, want wake:07:00", wake.Key.String())
	}
	if len(wake.Items) != 2 || wake.Items[0].Type != plan.WakeTarget || wake.Items[1].Type != plan.LightSeek {
		t.Errorf("wake group wrong: %+v", wake.Items)
	}

	sleep := groups[1]
	if sleep.Key.String() != "sleep:22:00" {
		t.Errorf("key = %q, want sleep:22:00", sleep.Key.String())
	}
	if len(sleep.Items) != 2 || sleep.Items[0].Type != plan.SleepTarget {
		t.Errorf("melatonin should attach to sleep with anchor first: %+v", sleep.Items)
	}
}

func TestGroups_StandaloneTypesNeverGroup(t *testing.T) {
	// All four standalone types sit right on top of an anchor.
	groups := density.Groups([]plan.Intervention{
		item(plan.WakeTarget, "07:00"),
		item(plan.Exercise, "07:00"),
		item(plan.CaffeineCutoff, "07:00"),
		item(plan.NapWindow, "07:00"),
		item(plan.LightAvoid, "07:00"),
	})

	if len(groups) != 5 {
		t.Fatalf("expected 5 groups, got %d", len(groups))
	}
	for _, g := range groups[1:] {
		if len(g.Items) != 1 {
			t.Errorf("standalone group %s should have exactly one item, got %d", g.Key, len(g.Items))
		}
		if g.Key.Kind != density.KindStandalone {
			t.Errorf("group %s should be standalone", g.Key)
		}
	}
}

func TestGroups_CaffeineOKFilteredOut(t *testing.T) {
	groups := density.Groups([]plan.Intervention{
		item(plan.CaffeineOK, "09:00"),
		item(plan.WakeTarget, "09:00"),
	})

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	for _, iv := range groups[0].Items {
		if iv.Type == plan.CaffeineOK {
			t.Error("caffeine_ok must never appear in any group")
		}
	}
}

func TestGroups_OutOfWindowBecomesStandalone(t *testing.T) {
	groups := density.Groups([]plan.Intervention{
		item(plan.WakeTarget, "07:00"),
		item(plan.LightSeek, "12:00"), // five hours from the only anchor
	})

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if got := groups[1].Key.String(); got != "standalone:light_seek:12:00" {
		t.Errorf("key = %q, want standalone:light_seek:12:00", got)
	}
}

func TestGroups_WindowBoundaryInclusive(t *testing.T) {
	groups := density.Groups([]plan.Intervention{
		item(plan.WakeTarget, "07:00"),
		item(plan.LightSeek, "09:00"), // exactly 120 minutes away
	})
	if len(groups) != 1 {
		t.Fatalf("an item exactly two hours out should still attach, got %d groups", len(groups))
	}
}

func TestGroups_EquidistantTieGoesToWake(t *testing.T) {
	groups := density.Groups([]plan.Intervention{
		item(plan.SleepTarget, "23:00"),
		item(plan.WakeTarget, "21:00"),
		item(plan.Melatonin, "22:00"), // 60 minutes from both anchors
	})

	var wakeItems, sleepItems int
	for _, g := range groups {
		switch g.Key.Kind {
		case density.KindWake:
			wakeItems = len(g.Items)
		case density.KindSleep:
			sleepItems = len(g.Items)
		}
	}
	if wakeItems != 2 || sleepItems != 1 {
		t.Errorf("equidistant melatonin should attach to the wake anchor: wake=%d sleep=%d", wakeItems, sleepItems)
	}
}

func TestGroups_ExhaustiveAndDisjoint(t *testing.T) {
	items := []plan.Intervention{
		item(plan.WakeTarget, "07:00"),
		item(plan.LightSeek, "07:15"),
		item(plan.CaffeineOK, "08:00"),
		item(plan.CaffeineCutoff, "13:00"),
		item(plan.Exercise, "17:00"),
		item(plan.Melatonin, "21:30"),
		item(plan.SleepTarget, "22:00"),
		item(plan.NapWindow, "14:00"),
	}

	groups := density.Groups(items)

	placed := make(map[plan.InterventionType]int)
	for _, g := range groups {
		for _, iv := range g.Items {
			placed[iv.Type]++
		}
	}
	for _, iv := range items {
		want := 1
		if iv.Type == plan.CaffeineOK {
			want = 0
		}
		if placed[iv.Type] != want {
			t.Errorf("%s placed %d times, want %d", iv.Type, placed[iv.Type], want)
		}
	}
}

func TestGroups_CrossMidnightAnchorDistance(t *testing.T) {
	// A 23:30 melatonin dose is 90 minutes from a 01:00 bedtime once the
	// bedtime is treated as closing out the day.
	groups := density.Groups([]plan.Intervention{
		item(plan.SleepTarget, "01:00"),
		item(plan.Melatonin, "23:30"),
	})
	if len(groups) != 1 {
		t.Fatalf("expected melatonin to attach across midnight, got %d groups", len(groups))
	}
	if groups[0].Key.String() != "sleep:01:00" {
		t.Errorf("key = %q, want sleep:01:00", groups[0].Key.String())
	}
}
