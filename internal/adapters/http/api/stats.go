package api

import "net/http"

// StatsProvider exposes the service counters served at /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves service statistics.
type StatsHandler struct {
	srv *Server
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(srv *Server) *StatsHandler {
	return &StatsHandler{srv: srv}
}

// HandleStats handles GET /stats requests. Counters are reported even
// before the service has started.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.srv.writeError(w, r, NewKind("api.stats", ErrMethodNotAllowed))
		return
	}
	writeJSON(w, http.StatusOK, h.srv.deps.GetStats())
}
