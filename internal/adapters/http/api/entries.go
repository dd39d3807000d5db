package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/sailsizzle/regatta/internal/app"
	"github.com/sailsizzle/regatta/internal/domain/model"
	"github.com/sailsizzle/regatta/internal/domain/types"
	"github.com/sailsizzle/regatta/internal/domain/validation"
	"github.com/sailsizzle/regatta/pkg/logger"
)

const (
	acceptedMessage  = "Race entry submitted successfully! Off to the BBQ."
	duplicateMessage = "This entry was already received."
)

// EntryDependencies accepts race entries.
type EntryDependencies interface {
	Submit(ctx context.Context, sub model.Submission) (model.Receipt, error)
}

// EntriesHandler handles race entry submissions.
type EntriesHandler struct {
	deps EntryDependencies
	log  logger.Logger
}

// NewEntriesHandler creates a new entries handler.
func NewEntriesHandler(deps EntryDependencies, log logger.Logger) *EntriesHandler {
	return &EntriesHandler{deps: deps, log: log}
}

// HandlePostEntry handles POST /entries requests.
func (h *EntriesHandler) HandlePostEntry(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_entry"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.EntryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	receipt, err := h.deps.Submit(r.Context(), model.Submission{
		SubmissionID: req.SubmissionID,
		RaceDate:     req.RaceDate,
		BoatName:     req.BoatName,
		SkipperName:  req.SkipperName,
		BoatType:     req.BoatType,
		StartTime:    req.StartTime,
		FinishTime:   req.FinishTime,
		Comments:     req.Comments,
	})
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, types.ErrorResponse{
			Code:    string(verr.Reason),
			Message: verr.Message,
			Field:   verr.Field,
		})
		return
	case errors.Is(err, service.ErrStoreUnavailable):
		h.log.Error(r.Context(), "saving entry failed", logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", WrapKind(op, ErrSaveEntry, err))
		return
	case err != nil:
		h.log.Error(r.Context(), "submission failed", logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}

	if receipt.Duplicate {
		writeJSON(w, http.StatusOK, types.EntryReceipt{
			SubmissionID: receipt.SubmissionID,
			Duplicate:    true,
			Message:      duplicateMessage,
		})
		return
	}
	writeJSON(w, http.StatusCreated, toReceipt(receipt))
}
