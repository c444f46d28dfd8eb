package httptransport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	papermodels "workpaper/internal/paper/models"
	paperservice "workpaper/internal/paper/service"
	"workpaper/internal/permission"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/platform/httputil"
	"workpaper/pkg/requestcontext"
)

type createPaperRequest struct {
	Type              string              `json:"type"`
	OwnerIdentityID   string              `json:"owner_identity_id"`
	RelatedBusinessID string              `json:"related_business_id,omitempty"`
	Payload           papermodels.Payload `json:"payload"`
	ValidFrom         time.Time           `json:"valid_from"`
	ValidUntil        *time.Time          `json:"valid_until,omitempty"`
}

func (h *Handler) handleCreatePaper(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[createPaperRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	paperType, err := id.ParsePaperType(req.Type)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ownerID, err := id.ParseIdentityID(req.OwnerIdentityID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var businessID *id.BusinessID
	if req.RelatedBusinessID != "" {
		parsed, err := id.ParseBusinessID(req.RelatedBusinessID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		businessID = &parsed
	}

	if !h.authorize(w, r, permission.ResourcePaper, permission.ActionCreate,
		permission.CheckContext{BusinessID: businessID, ResourceOwnerID: &ownerID}) {
		return
	}

	paper, err := h.papers.Create(ctx, paperservice.CreateInput{
		Type:              paperType,
		OwnerIdentityID:   ownerID,
		RelatedBusinessID: businessID,
		Payload:           req.Payload,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, paper)
}

type reviewPaperRequest struct {
	Outcome string `json:"outcome"`
}

func (h *Handler) handleReviewPaper(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	paperID, err := id.ParsePaperID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[reviewPaperRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	outcome, err := id.ParseVerificationStatus(req.Outcome)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if !h.authorizePaper(w, r, paperID, permission.ActionVerify) {
		return
	}

	paper, err := h.papers.Review(ctx, paperID, outcome)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, paper)
}

type deactivatePaperRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (h *Handler) handleDeactivatePaper(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	paperID, err := id.ParsePaperID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[deactivatePaperRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	if !h.authorizePaper(w, r, paperID, permission.ActionDeactivate) {
		return
	}

	paper, err := h.papers.Deactivate(ctx, paperID, req.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, paper)
}

type extendPaperRequest struct {
	ValidUntil time.Time `json:"valid_until"`
}

func (h *Handler) handleExtendPaper(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	paperID, err := id.ParsePaperID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[extendPaperRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if req.ValidUntil.IsZero() {
		httputil.WriteError(w, dErrors.NewValidation("paper validation failed",
			dErrors.FieldViolation{Field: "valid_until", Message: "is required"}))
		return
	}

	if !h.authorizePaper(w, r, paperID, permission.ActionExtend) {
		return
	}

	paper, err := h.papers.Extend(ctx, paperID, req.ValidUntil)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, paper)
}

func (h *Handler) handleListPapers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, err := id.ParseIdentityID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if !h.authorize(w, r, permission.ResourcePaper, permission.ActionRead,
		permission.CheckContext{ResourceOwnerID: &ownerID}) {
		return
	}

	papers, err := h.papers.ListByOwner(ctx, ownerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"papers": papers})
}

// authorizePaper resolves the paper's business context before the permission
// check so delegation roles scoped to that business apply.
func (h *Handler) authorizePaper(w http.ResponseWriter, r *http.Request, paperID id.PaperID, action permission.Action) bool {
	paper, err := h.papers.Get(r.Context(), paperID)
	if err != nil {
		httputil.WriteError(w, err)
		return false
	}
	return h.authorize(w, r, permission.ResourcePaper, action, permission.CheckContext{
		BusinessID:      paper.RelatedBusinessID,
		ResourceOwnerID: &paper.OwnerIdentityID,
	})
}
