package httptransport

import (
	"net/http"

	"workpaper/internal/permission"
	id "workpaper/pkg/domain"
	"workpaper/pkg/platform/httputil"
	"workpaper/pkg/requestcontext"
)

type checkPermissionRequest struct {
	Resource         string `json:"resource"`
	Action           string `json:"action"`
	BusinessID       string `json:"business_id,omitempty"`
	TargetIdentityID string `json:"target_identity_id,omitempty"`
	ResourceOwnerID  string `json:"resource_owner_id,omitempty"`
	Override         bool   `json:"override,omitempty"`
}

// handleCheckPermission resolves a permission decision for the acting
// identity without mutating anything. Denials are 200s with granted=false;
// the endpoint answers "may I", it does not enforce.
func (h *Handler) handleCheckPermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[checkPermissionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	resource, err := permission.ParseResource(req.Resource)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	action, err := permission.ParseAction(req.Action)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	checkCtx := permission.CheckContext{Override: req.Override}
	if req.BusinessID != "" {
		businessID, err := id.ParseBusinessID(req.BusinessID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		checkCtx.BusinessID = &businessID
	}
	if req.TargetIdentityID != "" {
		targetID, err := id.ParseIdentityID(req.TargetIdentityID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		checkCtx.TargetIdentityID = &targetID
	}
	if req.ResourceOwnerID != "" {
		ownerID, err := id.ParseIdentityID(req.ResourceOwnerID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		checkCtx.ResourceOwnerID = &ownerID
	}

	decision, err := h.permissions.Check(ctx, requestcontext.ActorID(ctx), resource, action, checkCtx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decision)
}
