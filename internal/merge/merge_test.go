package merge_test

import (
	"testing"

	"github.com/circaplan/circaplan/internal/merge"
	"github.com/circaplan/circaplan/internal/plan"
)

func item(t plan.InterventionType, phase plan.PhaseType, originTime, destTime string) plan.Intervention {
	return plan.Intervention{
		Type:       t,
		OriginTime: originTime,
		DestTime:   destTime,
		OriginDate: "2026-03-10",
		DestDate:   "2026-03-10",
		OriginTZ:   "America/Los_Angeles",
		DestTZ:     "Australia/Sydney",
		PhaseType:  phase,
	}
}

func TestDays_SinglePhasePerDateIsReorderOnly(t *testing.T) {
	fragments := []plan.DaySchedule{
		{Day: 1, Date: "2026-03-11", PhaseType: plan.PostArrival, Items: []plan.Intervention{
			item(plan.LightSeek, plan.PostArrival, "", "14:00"),
			item(plan.WakeTarget, plan.PostArrival, "", "07:00"),
		}},
		{Day: 0, Date: "2026-03-10", PhaseType: plan.PreDeparture, Items: []plan.Intervention{
			item(plan.Melatonin, plan.PreDeparture, "21:00", ""),
		}},
	}

	days := merge.Days(fragments)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}

	// Output ordered by date, each keeping its single phase.
	if days[0].Date != "2026-03-10" || days[1].Date != "2026-03-11" {
		t.Errorf("days out of order: %s, %s", days[0].Date, days[1].Date)
	}
	if days[0].PhaseType != plan.PreDeparture {
		t.Errorf("unmerged day should keep its phase, got %q", days[0].PhaseType)
	}

	// Same item set, chronologically sorted.
	if len(days[1].Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(days[1].Items))
	}
	if days[1].Items[0].Type != plan.WakeTarget {
		t.Errorf("07:00 wake should sort before 14:00 light, got %s first", days[1].Items[0].Type)
	}
	if days[1].HasSameDayArrival {
		t.Error("no same-day arrival in this trip")
	}
}

func TestDays_MergesFragmentsSharingDate(t *testing.T) {
	fragments := []plan.DaySchedule{
		// Deliberately out of phase order.
		{Day: 0, Date: "2026-03-10", PhaseType: plan.PostArrival, Items: []plan.Intervention{
			item(plan.WakeTarget, plan.PostArrival, "", "06:30"),
		}},
		{Day: 0, Date: "2026-03-10", PhaseType: plan.PreDeparture, Items: []plan.Intervention{
			item(plan.CaffeineCutoff, plan.PreDeparture, "10:00", ""),
		}},
	}

	days := merge.Days(fragments)
	if len(days) != 1 {
		t.Fatalf("expected 1 merged day, got %d", len(days))
	}

	day := days[0]
	if len(day.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(day.Items))
	}
	// Pre-departure items precede post-arrival items even though the
	// post-arrival wake has an earlier wall-clock display time.
	if day.Items[0].Type != plan.CaffeineCutoff {
		t.Errorf("phase order should win across phases, got %s first", day.Items[0].Type)
	}
	if day.PhaseType != "" {
		t.Errorf("merged day should not keep a phase, got %q", day.PhaseType)
	}
}

func TestDays_SameDayArrivalPropagatesToAllDays(t *testing.T) {
	fragments := []plan.DaySchedule{
		{Day: -1, Date: "2026-03-09", PhaseType: plan.Preparation},
		{Day: 0, Date: "2026-03-10", PhaseType: plan.PreDeparture},
		{Day: 0, Date: "2026-03-10", PhaseType: plan.PostArrival},
		{Day: 1, Date: "2026-03-11", PhaseType: plan.Adaptation},
	}

	days := merge.Days(fragments)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	for _, d := range days {
		if !d.HasSameDayArrival {
			t.Errorf("day %s should report same-day arrival", d.Date)
		}
	}
}

func TestDays_KeepsEarliestDayOffsetPerDate(t *testing.T) {
	fragments := []plan.DaySchedule{
		{Day: 1, Date: "2026-03-10", PhaseType: plan.PostArrival},
		{Day: 0, Date: "2026-03-10", PhaseType: plan.PreDeparture},
	}

	days := merge.Days(fragments)
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if days[0].Day != 0 {
		t.Errorf("merged day should label with the earliest offset, got %d", days[0].Day)
	}
}

func TestDays_InFlightItemsOrderByFlightOffset(t *testing.T) {
	early, late := 2.5, 9.0
	a := item(plan.Melatonin, plan.InTransit, "", "23:00")
	a.FlightOffsetHours = &late
	b := item(plan.LightAvoid, plan.InTransit, "", "02:00")
	b.FlightOffsetHours = &early

	days := merge.Days([]plan.DaySchedule{
		{Day: 0, Date: "2026-03-10", PhaseType: plan.InTransit, Items: []plan.Intervention{a, b}},
	})
	if len(days) != 1 || len(days[0].Items) != 2 {
		t.Fatalf("unexpected merge shape: %+v", days)
	}
	if days[0].Items[0].Type != plan.LightAvoid {
		t.Error("the item 2.5h into the flight should sort before the one 9h in")
	}
}

func TestDays_LateBedtimeSortsLast(t *testing.T) {
	sleep := item(plan.SleepTarget, plan.PostArrival, "", "01:00")
	lightAvoid := item(plan.LightAvoid, plan.PostArrival, "", "20:00")

	days := merge.Days([]plan.DaySchedule{
		{Day: 1, Date: "2026-03-11", PhaseType: plan.PostArrival, Items: []plan.Intervention{sleep, lightAvoid}},
	})
	if days[0].Items[1].Type != plan.SleepTarget {
		t.Error("a 01:00 bedtime should close out the day, not open it")
	}
}

func TestDays_EmptyInput(t *testing.T) {
	if days := merge.Days(nil); days != nil {
		t.Errorf("expected nil for empty input, got %v", days)
	}
}
