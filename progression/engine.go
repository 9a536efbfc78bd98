// Package progression decides which workshop tasks a user may complete and
// computes the state that results from completing one.
//
// Every function here is pure: input profiles are never mutated and nothing
// performs I/O. Callers persist the returned profile as an absolute state,
// never as an increment.
package progression

import (
	"errors"
	"fmt"
	"math"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/apperr"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/catalog"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
)

var (
	ErrTaskLocked = errors.New("task is locked until the previous task is completed")
	ErrNilProfile = errors.New("profile is required")
)

type TaskState struct {
	Task      catalog.Task `json:"task"`
	Locked    bool         `json:"is_locked"`
	Completed bool         `json:"is_completed"`
}

// Result is the outcome of CompleteTask. Changed is false when the task was
// already completed and Profile is the unchanged input.
type Result struct {
	Profile *model.UserProfile
	Task    catalog.Task
	DayID   int
	Awarded int
	Changed bool
}

// DeriveTaskState reports, in ordinal order, whether each task of the day is
// completed and whether it is locked. A task is locked when the task right
// before it is not completed; the first task of a day is never locked.
func DeriveTaskState(day *catalog.Day, progress model.DayProgress) []TaskState {
	states := make([]TaskState, len(day.Tasks))
	for i, task := range day.Tasks {
		states[i] = TaskState{
			Task:      task,
			Completed: progress.Has(task.ID),
			Locked:    i > 0 && !progress.Has(day.Tasks[i-1].ID),
		}
	}
	return states
}

// CompleteTask validates and applies a completion of taskID in day dayID.
//
// Unknown days or tasks fail with a NotFound error. A locked task fails with a
// Validation error wrapping ErrTaskLocked. A task that is already completed is
// not an error: the profile comes back unchanged with Changed=false so a
// retried request never awards points twice.
func CompleteTask(profile *model.UserProfile, cat *catalog.Catalog, dayID int, taskID string) (Result, error) {
	const op = "complete task"

	if profile == nil {
		return Result{}, apperr.Validation(op, ErrNilProfile)
	}

	day, err := cat.Day(dayID)
	if err != nil {
		return Result{}, apperr.NotFound(op, err)
	}
	task, ok := day.Task(taskID)
	if !ok {
		return Result{}, apperr.NotFound(op, fmt.Errorf("%w: %s in day %d", catalog.ErrTaskNotFound, taskID, dayID))
	}

	progress := dayProgressOf(profile, day)
	if progress.Has(taskID) {
		return Result{Profile: profile, Task: task, DayID: dayID}, nil
	}

	if task.Ordinal > 0 && !progress.Has(day.Tasks[task.Ordinal-1].ID) {
		return Result{}, apperr.Validation(op, fmt.Errorf("%w: %s", ErrTaskLocked, taskID))
	}

	next := profile.Clone()
	progress = progress.Clone()
	progress.CompletedTaskIDs = append(progress.CompletedTaskIDs, taskID)
	progress.Completed = len(progress.CompletedTaskIDs)
	progress.Total = len(day.Tasks)
	next.Progress[dayID] = progress
	next.Points += task.Points
	next.TasksCompleted++

	return Result{Profile: next, Task: task, DayID: dayID, Awarded: task.Points, Changed: true}, nil
}

// ComputeAggregateProgress sums completed and total task counts over every day
// recorded in the profile.
func ComputeAggregateProgress(profile *model.UserProfile) model.Aggregate {
	var completed, total int
	if profile != nil {
		for _, dp := range profile.Progress {
			completed += dp.Completed
			total += dp.Total
		}
	}
	return aggregate(completed, total)
}

// DayAggregate is ComputeAggregateProgress for a single day.
func DayAggregate(progress model.DayProgress) model.Aggregate {
	return aggregate(progress.Completed, progress.Total)
}

func aggregate(completed, total int) model.Aggregate {
	return model.Aggregate{
		Completed:  completed,
		Total:      total,
		Percentage: Percentage(completed, total),
	}
}

// Percentage is round(100*completed/total), or 0 when total is 0.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// dayProgressOf returns the stored progress for day, or a zeroed record when
// the profile predates the day.
func dayProgressOf(profile *model.UserProfile, day *catalog.Day) model.DayProgress {
	if dp, ok := profile.Progress[day.ID]; ok {
		return dp
	}
	return model.DayProgress{Total: len(day.Tasks)}
}

// DayProgress returns the user's progress for a day, zeroed if absent.
func DayProgress(profile *model.UserProfile, day *catalog.Day) model.DayProgress {
	if profile == nil {
		return model.DayProgress{Total: len(day.Tasks)}
	}
	return dayProgressOf(profile, day)
}
