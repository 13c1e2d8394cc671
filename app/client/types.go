package client

import (
	"fmt"

	"github.com/lysyi3m/newsdesk/app/news"
)

type NewsResponse struct {
	News       []news.APIItem `json:"news"`
	Total      int            `json:"total"`
	LastUpdate *string        `json:"last_update"`
}

type CategoriesResponse struct {
	Categories      []news.APICategory `json:"categories"`
	TotalCategories int                `json:"total_categories"`
}

type StatsResponse struct {
	TotalNews       int            `json:"total_news"`
	CategoriesCount int            `json:"categories_count"`
	SourcesCount    int            `json:"sources_count"`
	LastUpdate      *string        `json:"last_update"`
	Categories      map[string]int `json:"categories"`
}

type UpdateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status     string  `json:"status"`
	IsUpdating bool    `json:"is_updating"`
	LastUpdate *string `json:"last_update"`
	CachedNews int     `json:"cached_news"`
}

// RequestError is returned for every failed call: transport errors, non-2xx
// statuses and undecodable bodies alike. StatusCode is zero when no response
// was received.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed: HTTP error! status: %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
