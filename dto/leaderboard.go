package dto

import "github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"

type LeaderboardResponse struct {
	Entries []model.LeaderboardEntry `json:"entries"`
	Count   int                      `json:"count"`
	Filter  string                   `json:"filter"`
	Search  string                   `json:"search,omitempty"`
}

func ToLeaderboardResponse(entries []model.LeaderboardEntry, filter, search string) LeaderboardResponse {
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	if filter == "" {
		filter = "all"
	}
	return LeaderboardResponse{Entries: entries, Count: len(entries), Filter: filter, Search: search}
}
