package progression

import (
	"testing"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
)

func TestCheckInvariantsDetectsBlindIncrements(t *testing.T) {
	cat := loadCatalog(t)
	profile := mustComplete(t, NewProfile("u1", "Ada", cat), cat, 1, "day1-task1")

	if err := CheckInvariants(profile, cat); err != nil {
		t.Fatalf("consistent profile reported %v", err)
	}

	// A double-counted completion: counters moved, the set did not.
	broken := profile.Clone()
	dp := broken.Progress[1]
	dp.Completed++
	broken.Progress[1] = dp
	broken.Points += 20
	broken.TasksCompleted++

	if err := CheckInvariants(broken, cat); err == nil {
		t.Fatal("expected invariant violations for a double-counted profile")
	}
}

func TestCheckInvariantsUnknownIDs(t *testing.T) {
	cat := loadCatalog(t)
	profile := NewProfile("u1", "Ada", cat)
	profile.Progress[2] = model.DayProgress{Completed: 1, Total: 5, CompletedTaskIDs: []string{"day1-task1"}}
	profile.TasksCompleted = 1

	if err := CheckInvariants(profile, cat); err == nil {
		t.Error("expected a violation for a task id recorded under the wrong day")
	}

	profile = NewProfile("u1", "Ada", cat)
	profile.Progress[7] = model.DayProgress{}
	if err := CheckInvariants(profile, cat); err == nil {
		t.Error("expected a violation for a day missing from the catalog")
	}

	if err := CheckInvariants(nil, cat); err == nil {
		t.Error("expected an error for a nil profile")
	}
}

func TestCheckInvariantsMissingDay(t *testing.T) {
	cat := loadCatalog(t)
	profile := NewProfile("u1", "Ada", cat)
	delete(profile.Progress, 3)

	if err := CheckInvariants(profile, cat); err == nil {
		t.Fatal("expected a violation for a catalog day without progress")
	}

	repaired := Reconcile(profile, cat)
	if err := CheckInvariants(repaired, cat); err != nil {
		t.Fatalf("reconciled profile reported %v", err)
	}
	if got := repaired.Progress[3].Total; got != 5 {
		t.Errorf("day 3 total = %d, want 5", got)
	}
	if agg := ComputeAggregateProgress(repaired); agg.Total != cat.TotalTasks() {
		t.Errorf("aggregate total = %d, want %d", agg.Total, cat.TotalTasks())
	}
}

func TestReconcile(t *testing.T) {
	cat := loadCatalog(t)
	legacy := &model.UserProfile{
		UserID:         "u1",
		DisplayName:    "Ada",
		Points:         150,
		TasksCompleted: 8,
		Progress: map[int]model.DayProgress{
			1: {Completed: 5, Total: 5, CompletedTaskIDs: []string{"day1-task1", "day1-task2", "day1-task2", "bogus"}},
			2: {Completed: 3, Total: 5},
		},
	}

	fixed := Reconcile(legacy, cat)
	if err := CheckInvariants(fixed, cat); err != nil {
		t.Fatalf("reconciled profile still inconsistent: %v", err)
	}
	if fixed.Points != 35 {
		t.Errorf("points = %d, want 35", fixed.Points)
	}
	if fixed.TasksCompleted != 2 {
		t.Errorf("tasks completed = %d, want 2", fixed.TasksCompleted)
	}
	if len(fixed.Progress) != 3 {
		t.Errorf("days = %d, want 3", len(fixed.Progress))
	}
	if legacy.Points != 150 {
		t.Error("Reconcile mutated its input")
	}
	if Reconcile(nil, cat) != nil {
		t.Error("Reconcile(nil) should be nil")
	}
}

func TestNewProfile(t *testing.T) {
	cat := loadCatalog(t)
	p := NewProfile("u1", "Ada", cat)
	if p.UserID != "u1" || p.DisplayName != "Ada" {
		t.Errorf("identity fields = %q/%q", p.UserID, p.DisplayName)
	}
	if len(p.Progress) != len(cat.Days) {
		t.Errorf("days = %d, want %d", len(p.Progress), len(cat.Days))
	}
}
