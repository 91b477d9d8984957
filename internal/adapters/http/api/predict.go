package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/salarypredict/internal/domain/validate"
)

// PredictHandler handles prediction requests.
type PredictHandler struct {
	srv *Server
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(srv *Server) *PredictHandler {
	return &PredictHandler{srv: srv}
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		h.srv.writeError(w, r, NewKind(op, ErrMethodNotAllowed))
		return
	}

	in, err := h.decode(w, r)
	if err != nil {
		h.srv.writeError(w, r, Wrap(op, err))
		return
	}

	p, err := h.srv.deps.Predict(r.Context(), in)
	if err != nil {
		h.srv.writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PredictHandler) decode(w http.ResponseWriter, r *http.Request) (validate.Input, error) {
	var in validate.Input
	body := http.MaxBytesReader(w, r.Body, h.srv.maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return in, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return in, fmt.Errorf("%w: request body is empty", ErrBadRequest)
		default:
			return in, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
	}
	if dec.More() {
		return in, fmt.Errorf("%w: request body must hold a single JSON object", ErrBadRequest)
	}
	return in, nil
}
