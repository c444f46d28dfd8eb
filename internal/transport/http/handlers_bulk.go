package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workpaper/internal/bulkadmin"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/platform/httputil"
	"workpaper/pkg/requestcontext"
)

type bulkActionRequest struct {
	Action    string   `json:"action"`
	TargetIDs []string `json:"target_ids"`
	Reason    string   `json:"reason,omitempty"`
	Override  bool     `json:"override,omitempty"`
}

// handleBulkAction executes one administrative batch. The coordinator's
// outcome maps exhaustively to a status code; the full result body rides
// along on every status so clients always get the per-target breakdown.
func (h *Handler) handleBulkAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[bulkActionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	action, ok := bulkadmin.ParseAction(req.Action)
	if !ok {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeInvalidInput, "unknown bulk action %q", req.Action))
		return
	}
	targetIDs := make([]id.IdentityID, 0, len(req.TargetIDs))
	for _, raw := range req.TargetIDs {
		targetID, err := id.ParseIdentityID(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.NewValidation("batch validation failed",
				dErrors.FieldViolation{Field: "target_ids", Message: "invalid identity id: " + raw}))
			return
		}
		targetIDs = append(targetIDs, targetID)
	}

	result, err := h.bulk.Execute(ctx, requestcontext.ActorID(ctx), action, targetIDs, bulkadmin.Options{
		Reason:   req.Reason,
		Override: req.Override,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, statusForOutcome(result.Outcome), result)
}

func (h *Handler) handleBulkUndo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batchID, err := id.ParseBatchID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.bulk.Undo(ctx, requestcontext.ActorID(ctx), batchID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, statusForOutcome(result.Outcome), result)
}

// statusForOutcome is the exhaustive outcome to status mapping. The
// coordinator never reasons about transport; this is the only place batch
// outcomes meet HTTP.
func statusForOutcome(outcome bulkadmin.Outcome) int {
	switch outcome {
	case bulkadmin.OutcomeFullSuccess:
		return http.StatusOK
	case bulkadmin.OutcomePartialSuccess:
		return http.StatusMultiStatus
	case bulkadmin.OutcomeFullFailureValidation:
		return http.StatusBadRequest
	case bulkadmin.OutcomeFullFailureRollback:
		return http.StatusInternalServerError
	case bulkadmin.OutcomeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
