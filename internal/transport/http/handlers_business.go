package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	businessservice "workpaper/internal/business/service"
	"workpaper/internal/permission"
	id "workpaper/pkg/domain"
	"workpaper/pkg/platform/httputil"
	"workpaper/pkg/requestcontext"
)

type registerBusinessRequest struct {
	RegistrationNumber string `json:"registration_number"`
	Name               string `json:"name"`
	BusinessType       string `json:"business_type"`
	OwnerIdentityID    string `json:"owner_identity_id"`
}

func (h *Handler) handleRegisterBusiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[registerBusinessRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	ownerID, err := id.ParseIdentityID(req.OwnerIdentityID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if !h.authorize(w, r, permission.ResourceBusiness, permission.ActionCreate,
		permission.CheckContext{ResourceOwnerID: &ownerID}) {
		return
	}

	business, err := h.businesses.Register(ctx, businessservice.RegisterInput{
		RegistrationNumber: req.RegistrationNumber,
		Name:               req.Name,
		BusinessType:       req.BusinessType,
		OwnerIdentityID:    ownerID,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, business)
}

type reviewBusinessRequest struct {
	Outcome string `json:"outcome"`
}

func (h *Handler) handleReviewBusiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID, err := id.ParseBusinessID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[reviewBusinessRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	outcome, err := id.ParseVerificationStatus(req.Outcome)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if !h.authorize(w, r, permission.ResourceBusiness, permission.ActionVerify,
		permission.CheckContext{BusinessID: &businessID}) {
		return
	}

	business, err := h.businesses.Review(ctx, businessID, outcome)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, business)
}

type deactivateBusinessRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (h *Handler) handleDeactivateBusiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID, err := id.ParseBusinessID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[deactivateBusinessRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	business, err := h.businesses.Get(ctx, businessID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !h.authorize(w, r, permission.ResourceBusiness, permission.ActionDeactivate,
		permission.CheckContext{BusinessID: &businessID, ResourceOwnerID: &business.OwnerIdentityID}) {
		return
	}

	business, err = h.businesses.Deactivate(ctx, businessID, req.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, business)
}
