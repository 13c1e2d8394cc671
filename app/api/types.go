package api

import (
	"github.com/lysyi3m/newsdesk/app/newscache"
)

// Updater starts a background update run. started is false when a run is
// already in flight.
type Updater interface {
	RequestUpdate() (started bool, err error)
}

type Handler struct {
	newsCache *newscache.Cache
	updater   Updater
	version   string

	rssGenerator *RSSGenerator
}
