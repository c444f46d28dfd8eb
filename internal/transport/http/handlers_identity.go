package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workpaper/internal/permission"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/platform/httputil"
	"workpaper/pkg/requestcontext"
)

type createIdentityRequest struct {
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
}

func (h *Handler) handleCreateIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[createIdentityRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	idType, err := id.ParseIdentityType(req.Type)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	identity, err := h.identities.Create(ctx, idType, req.DisplayName)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, identity)
}

func (h *Handler) handleGetIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identityID, err := id.ParseIdentityID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decision, err := h.permissions.Check(ctx, requestcontext.ActorID(ctx),
		permission.ResourceIdentity, permission.ActionRead,
		permission.CheckContext{ResourceOwnerID: &identityID})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !decision.Granted {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, decision.Reason))
		return
	}

	identity, err := h.identities.Get(ctx, identityID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, identity)
}

// handleGetRoles returns the identity's currently derived role set.
func (h *Handler) handleGetRoles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identityID, err := id.ParseIdentityID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decision, err := h.permissions.Check(ctx, requestcontext.ActorID(ctx),
		permission.ResourceIdentity, permission.ActionRead,
		permission.CheckContext{ResourceOwnerID: &identityID})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !decision.Granted {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, decision.Reason))
		return
	}

	set, err := h.roles.Derive(ctx, identityID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"identity_id": identityID,
		"roles":       set.Roles(),
	})
}
