package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workpaper/internal/permission"
	id "workpaper/pkg/domain"
	"workpaper/pkg/platform/httputil"
	"workpaper/pkg/requestcontext"
)

type lifecycleRequest struct {
	Reason   string `json:"reason,omitempty"`
	Override bool   `json:"override,omitempty"`
}

// Single-target administrative lifecycle transitions. The bulk endpoint
// handles batches; these keep one-off interventions cheap.

func (h *Handler) handleSuspendIdentity(w http.ResponseWriter, r *http.Request) {
	h.handleLifecycle(w, r, permission.ActionSuspend,
		func(req lifecycleRequest, targetID id.IdentityID) (any, error) {
			return h.lifecycle.Suspend(r.Context(), targetID, req.Reason)
		})
}

func (h *Handler) handleReactivateIdentity(w http.ResponseWriter, r *http.Request) {
	h.handleLifecycle(w, r, permission.ActionUpdate,
		func(req lifecycleRequest, targetID id.IdentityID) (any, error) {
			return h.lifecycle.Reactivate(r.Context(), targetID, req.Reason)
		})
}

func (h *Handler) handleDeactivateIdentity(w http.ResponseWriter, r *http.Request) {
	h.handleLifecycle(w, r, permission.ActionDeactivate,
		func(req lifecycleRequest, targetID id.IdentityID) (any, error) {
			return h.lifecycle.Deactivate(r.Context(), targetID, req.Reason)
		})
}

func (h *Handler) handleLifecycle(w http.ResponseWriter, r *http.Request,
	action permission.Action, apply func(lifecycleRequest, id.IdentityID) (any, error)) {

	ctx := r.Context()
	targetID, err := id.ParseIdentityID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[lifecycleRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	if !h.authorize(w, r, permission.ResourceIdentity, action, permission.CheckContext{
		TargetIdentityID: &targetID,
		Override:         req.Override,
	}) {
		return
	}

	identity, err := apply(req, targetID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, identity)
}
