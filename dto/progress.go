package dto

import (
	"fmt"
	"net/http"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/usecase"
)

type TaskStateResponse struct {
	TaskResponse
	IsCompleted bool            `json:"is_completed"`
	IsLocked    bool            `json:"is_locked"`
	Links       map[string]Link `json:"_links,omitempty"`
}

type DaySummaryResponse struct {
	DayID            int             `json:"day_id"`
	Title            string          `json:"title"`
	CompletedTaskIDs []string        `json:"completed_task_ids"`
	Progress         model.Aggregate `json:"progress"`
	Links            map[string]Link `json:"_links,omitempty"`
}

type ProgressResponse struct {
	UserID         string               `json:"user_id"`
	DisplayName    string               `json:"display_name"`
	Points         int                  `json:"points"`
	TasksCompleted int                  `json:"tasks_completed"`
	IsGuest        bool                 `json:"is_guest"`
	Overall        model.Aggregate      `json:"overall"`
	Days           []DaySummaryResponse `json:"days"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

type DayProgressResponse struct {
	DayID       int                 `json:"day_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Progress    model.Aggregate     `json:"progress"`
	Tasks       []TaskStateResponse `json:"tasks"`
}

type CompletionResponse struct {
	TaskID         string              `json:"task_id"`
	DayID          int                 `json:"day_id"`
	Changed        bool                `json:"changed"`
	PointsAwarded  int                 `json:"points_awarded"`
	Points         int                 `json:"points"`
	TasksCompleted int                 `json:"tasks_completed"`
	Overall        model.Aggregate     `json:"overall"`
	Day            DayProgressResponse `json:"day"`
}

func ToProgressResponse(ov *usecase.Overview, baseURL string) ProgressResponse {
	out := ProgressResponse{
		UserID:         ov.Profile.UserID,
		DisplayName:    ov.Profile.DisplayName,
		Points:         ov.Profile.Points,
		TasksCompleted: ov.Profile.TasksCompleted,
		IsGuest:        ov.Profile.IsGuest,
		Overall:        ov.Aggregate,
		Days:           make([]DaySummaryResponse, 0, len(ov.Days)),
		UpdatedAt:      ov.Profile.UpdatedAt,
	}
	for _, d := range ov.Days {
		ids := d.Progress.CompletedTaskIDs
		if ids == nil {
			ids = []string{}
		}
		out.Days = append(out.Days, DaySummaryResponse{
			DayID:            d.Day.ID,
			Title:            d.Day.Title,
			CompletedTaskIDs: ids,
			Progress:         d.Aggregate,
			Links: map[string]Link{
				"self": {Href: fmt.Sprintf("%s/progress/days/%d", baseURL, d.Day.ID), Method: http.MethodGet},
			},
		})
	}
	return out
}

func ToDayProgressResponse(view *usecase.DayView, baseURL string) DayProgressResponse {
	out := DayProgressResponse{
		DayID:       view.Day.ID,
		Title:       view.Day.Title,
		Description: view.Day.Description,
		Progress:    view.Aggregate,
		Tasks:       make([]TaskStateResponse, 0, len(view.Tasks)),
	}
	for _, st := range view.Tasks {
		ts := TaskStateResponse{
			TaskResponse: ToTaskResponse(st.Task),
			IsCompleted:  st.Completed,
			IsLocked:     st.Locked,
		}
		if !st.Completed && !st.Locked {
			ts.Links = map[string]Link{
				"complete": {
					Href:   fmt.Sprintf("%s/progress/days/%d/tasks/%s/complete", baseURL, view.Day.ID, st.Task.ID),
					Method: http.MethodPost,
				},
			}
		}
		out.Tasks = append(out.Tasks, ts)
	}
	return out
}

func ToCompletionResponse(c *usecase.Completion, baseURL string) CompletionResponse {
	return CompletionResponse{
		TaskID:         c.Task.ID,
		DayID:          c.DayID,
		Changed:        c.Changed,
		PointsAwarded:  c.Awarded,
		Points:         c.Profile.Points,
		TasksCompleted: c.Profile.TasksCompleted,
		Overall:        c.Aggregate,
		Day:            ToDayProgressResponse(&c.Day, baseURL),
	}
}
