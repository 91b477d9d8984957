package api

import "net/http"

// JobTitlesHandler lists the accepted job titles.
type JobTitlesHandler struct {
	srv *Server
}

// NewJobTitlesHandler creates a new job titles handler.
func NewJobTitlesHandler(srv *Server) *JobTitlesHandler {
	return &JobTitlesHandler{srv: srv}
}

type jobTitlesResponse struct {
	Count     int      `json:"count"`
	JobTitles []string `json:"jobTitles"`
}

// HandleJobTitles handles GET /job-titles requests.
func (h *JobTitlesHandler) HandleJobTitles(w http.ResponseWriter, r *http.Request) {
	const op = "api.job_titles"
	if r.Method != http.MethodGet {
		h.srv.writeError(w, r, NewKind(op, ErrMethodNotAllowed))
		return
	}
	titles, err := h.srv.deps.JobTitles(r.Context())
	if err != nil {
		h.srv.writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, jobTitlesResponse{Count: len(titles), JobTitles: titles})
}
