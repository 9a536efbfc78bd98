package dto

import (
	"fmt"
	"net/http"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/catalog"
)

type TaskResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Points      int      `json:"points"`
	Image       string   `json:"image,omitempty"`
	Tags        []string `json:"tags"`
	Position    int      `json:"position"`
}

type DayResponse struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	TotalPoints int             `json:"total_points"`
	Tasks       []TaskResponse  `json:"tasks"`
	Links       map[string]Link `json:"_links,omitempty"`
}

type CatalogResponse struct {
	Version    string        `json:"version"`
	TotalTasks int           `json:"total_tasks"`
	Days       []DayResponse `json:"days"`
}

func ToTaskResponse(task catalog.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Points:      task.Points,
		Image:       task.Image,
		Tags:        task.Tags,
		Position:    task.Ordinal + 1,
	}
}

func ToDayResponse(day *catalog.Day, baseURL string) DayResponse {
	out := DayResponse{
		ID:          day.ID,
		Title:       day.Title,
		Description: day.Description,
		Tasks:       make([]TaskResponse, 0, len(day.Tasks)),
		Links: map[string]Link{
			"self":     {Href: fmt.Sprintf("%s/catalog/days/%d", baseURL, day.ID), Method: http.MethodGet},
			"progress": {Href: fmt.Sprintf("%s/progress/days/%d", baseURL, day.ID), Method: http.MethodGet},
		},
	}
	for _, task := range day.Tasks {
		out.TotalPoints += task.Points
		out.Tasks = append(out.Tasks, ToTaskResponse(task))
	}
	return out
}

func ToCatalogResponse(cat *catalog.Catalog, baseURL string) CatalogResponse {
	out := CatalogResponse{
		Version:    cat.Version,
		TotalTasks: cat.TotalTasks(),
		Days:       make([]DayResponse, 0, len(cat.Days)),
	}
	for i := range cat.Days {
		out.Days = append(out.Days, ToDayResponse(&cat.Days[i], baseURL))
	}
	return out
}
