package model

import "time"

// DayProgress is one user's progress through one workshop day.
type DayProgress struct {
	Completed        int      `bson:"completed" json:"completed"`
	Total            int      `bson:"total" json:"total"`
	CompletedTaskIDs []string `bson:"completed_task_ids" json:"completed_task_ids"`
}

// Has reports whether taskID is in the completed set.
func (p DayProgress) Has(taskID string) bool {
	for _, id := range p.CompletedTaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with p.
func (p DayProgress) Clone() DayProgress {
	ids := make([]string, len(p.CompletedTaskIDs))
	copy(ids, p.CompletedTaskIDs)
	p.CompletedTaskIDs = ids
	return p
}

// UserProfile is the persisted progress document, keyed by user id.
type UserProfile struct {
	UserID         string              `bson:"user_id" json:"user_id"`
	DisplayName    string              `bson:"display_name" json:"display_name"`
	Email          string              `bson:"email,omitempty" json:"email,omitempty"`
	Points         int                 `bson:"points" json:"points"`
	TasksCompleted int                 `bson:"tasks_completed" json:"tasks_completed"`
	Progress       map[int]DayProgress `bson:"progress" json:"progress"`
	IsGuest        bool                `bson:"is_guest" json:"is_guest"`
	Version        int64               `bson:"version" json:"version"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}

// Clone deep-copies the profile, including the per-day completed sets.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.Progress = make(map[int]DayProgress, len(p.Progress))
	for dayID, dp := range p.Progress {
		out.Progress[dayID] = dp.Clone()
	}
	return &out
}
