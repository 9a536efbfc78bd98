package progression

import (
	"errors"
	"fmt"
	"sort"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/catalog"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
)

// NewProfile builds the profile of a freshly created account: every catalog
// day present with nothing completed.
func NewProfile(userID, displayName string, cat *catalog.Catalog) *model.UserProfile {
	profile := &model.UserProfile{
		UserID:      userID,
		DisplayName: displayName,
		Progress:    make(map[int]model.DayProgress, len(cat.Days)),
	}
	for _, day := range cat.Days {
		profile.Progress[day.ID] = model.DayProgress{
			Total:            len(day.Tasks),
			CompletedTaskIDs: []string{},
		}
	}
	return profile
}

// CheckInvariants verifies the counters of profile against its completed sets
// and the catalog. It returns every violation joined into one error.
func CheckInvariants(profile *model.UserProfile, cat *catalog.Catalog) error {
	if profile == nil {
		return ErrNilProfile
	}

	var errs []error
	points, completed := 0, 0

	for _, day := range cat.Days {
		if _, ok := profile.Progress[day.ID]; !ok {
			errs = append(errs, fmt.Errorf("day %d has no progress record", day.ID))
		}
	}

	for _, dayID := range sortedDayIDs(profile) {
		dp := profile.Progress[dayID]
		day, err := cat.Day(dayID)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		seen := make(map[string]bool, len(dp.CompletedTaskIDs))
		for _, id := range dp.CompletedTaskIDs {
			if seen[id] {
				errs = append(errs, fmt.Errorf("day %d lists task %s twice", dayID, id))
				continue
			}
			seen[id] = true
			task, ok := day.Task(id)
			if !ok {
				errs = append(errs, fmt.Errorf("day %d lists unknown task %s", dayID, id))
				continue
			}
			points += task.Points
		}

		if dp.Completed != len(seen) {
			errs = append(errs, fmt.Errorf("day %d completed=%d but %d task ids are recorded", dayID, dp.Completed, len(seen)))
		}
		if dp.Total != len(day.Tasks) {
			errs = append(errs, fmt.Errorf("day %d total=%d but the day has %d tasks", dayID, dp.Total, len(day.Tasks)))
		}
		if dp.Completed > dp.Total {
			errs = append(errs, fmt.Errorf("day %d completed=%d exceeds total=%d", dayID, dp.Completed, dp.Total))
		}
		completed += dp.Completed
	}

	if profile.Points != points {
		errs = append(errs, fmt.Errorf("points=%d but completed tasks are worth %d", profile.Points, points))
	}
	if profile.TasksCompleted != completed {
		errs = append(errs, fmt.Errorf("tasks_completed=%d but days record %d", profile.TasksCompleted, completed))
	}
	return errors.Join(errs...)
}

// Reconcile rebuilds every counter of profile from its completed-task sets.
// Unknown and duplicate task ids are dropped and missing catalog days are
// added. Records written by blind increments come out consistent.
func Reconcile(profile *model.UserProfile, cat *catalog.Catalog) *model.UserProfile {
	out := profile.Clone()
	if out == nil {
		return nil
	}

	progress := make(map[int]model.DayProgress, len(cat.Days))
	points, completed := 0, 0

	for _, day := range cat.Days {
		dp := out.Progress[day.ID]
		ids := make([]string, 0, len(dp.CompletedTaskIDs))
		seen := make(map[string]bool, len(dp.CompletedTaskIDs))
		for _, id := range dp.CompletedTaskIDs {
			task, ok := day.Task(id)
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
			points += task.Points
		}
		progress[day.ID] = model.DayProgress{
			Completed:        len(ids),
			Total:            len(day.Tasks),
			CompletedTaskIDs: ids,
		}
		completed += len(ids)
	}

	out.Progress = progress
	out.Points = points
	out.TasksCompleted = completed
	return out
}

func sortedDayIDs(profile *model.UserProfile) []int {
	ids := make([]int, 0, len(profile.Progress))
	for id := range profile.Progress {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
