package api

import "github.com/halfteen/horizons/app/database"

// Handler serves the read-only item API.
type Handler struct {
	sources database.SourceStore
	items   database.ItemStore
	version string
}

type itemResponse struct {
	ID          int64   `json:"id"`
	FolloweeID  string  `json:"followee_id"`
	SourceName  string  `json:"source_name"`
	SourceKind  string  `json:"source_kind"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	PublishedAt *string `json:"published_at"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

func toItemResponse(item database.Item) itemResponse {
	return itemResponse{
		ID:          item.ID,
		FolloweeID:  item.FolloweeID,
		SourceName:  item.SourceName,
		SourceKind:  item.SourceKind,
		Title:       item.Title,
		URL:         item.URL,
		PublishedAt: item.PublishedAt,
		Status:      item.Status,
		CreatedAt:   item.CreatedAt,
	}
}
