// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"workpaper/internal/bulkadmin"
	businessservice "workpaper/internal/business/service"
	identitymodels "workpaper/internal/identity/models"
	paperservice "workpaper/internal/paper/service"
	"workpaper/internal/permission"
	"workpaper/internal/platform/metrics"
	"workpaper/internal/role"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/platform/httputil"
	adminmw "workpaper/pkg/platform/middleware/admin"
	authmw "workpaper/pkg/platform/middleware/auth"
	"workpaper/pkg/platform/middleware/metadata"
	"workpaper/pkg/platform/middleware/requestid"
	"workpaper/pkg/platform/middleware/requesttime"
	"workpaper/pkg/requestcontext"
)

// IdentityService is the identity surface the handlers need.
type IdentityService interface {
	Create(ctx context.Context, idType id.IdentityType, displayName string) (*identitymodels.Identity, error)
	Get(ctx context.Context, identityID id.IdentityID) (*identitymodels.Identity, error)
}

// LifecycleService applies single-target identity state transitions.
type LifecycleService interface {
	Suspend(ctx context.Context, identityID id.IdentityID, reason string) (*identitymodels.Identity, error)
	Reactivate(ctx context.Context, identityID id.IdentityID, reason string) (*identitymodels.Identity, error)
	Deactivate(ctx context.Context, identityID id.IdentityID, reason string) (*identitymodels.Identity, error)
}

// PermissionChecker resolves permission decisions.
type PermissionChecker interface {
	Check(ctx context.Context, callerID id.IdentityID, resource permission.Resource,
		action permission.Action, checkCtx permission.CheckContext) (permission.Decision, error)
}

// RoleDeriver derives role sets.
type RoleDeriver interface {
	Derive(ctx context.Context, identityID id.IdentityID) (role.Set, error)
}

// BulkCoordinator executes and undoes administrative batches.
type BulkCoordinator interface {
	Execute(ctx context.Context, callerID id.IdentityID, action bulkadmin.Action,
		targetIDs []id.IdentityID, opts bulkadmin.Options) (*bulkadmin.Result, error)
	Undo(ctx context.Context, callerID id.IdentityID, batchID id.BatchID) (*bulkadmin.Result, error)
}

// Handler is the HTTP layer over the domain services.
type Handler struct {
	identities  IdentityService
	lifecycle   LifecycleService
	papers      *paperservice.Service
	businesses  *businessservice.Service
	roles       RoleDeriver
	permissions PermissionChecker
	bulk        BulkCoordinator
	logger      *slog.Logger
}

func NewHandler(identities IdentityService, lifecycle LifecycleService,
	papers *paperservice.Service, businesses *businessservice.Service, roles RoleDeriver,
	permissions PermissionChecker, bulk BulkCoordinator, logger *slog.Logger) *Handler {
	return &Handler{
		identities:  identities,
		lifecycle:   lifecycle,
		papers:      papers,
		businesses:  businesses,
		roles:       roles,
		permissions: permissions,
		bulk:        bulk,
		logger:      logger,
	}
}

// RouterConfig carries the cross-cutting dependencies of the middleware
// chain.
type RouterConfig struct {
	TokenValidator authmw.TokenValidator
	AdminToken     string
	Logger         *slog.Logger
}

// NewRouter wires all endpoints with the shared middleware chain. Admin
// routes additionally require the operator token.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.New().Middleware)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireActor(cfg.TokenValidator, cfg.Logger))

		r.Post("/identities", h.handleCreateIdentity)
		r.Get("/identities/{id}", h.handleGetIdentity)
		r.Get("/identities/{id}/roles", h.handleGetRoles)
		r.Get("/identities/{id}/papers", h.handleListPapers)

		r.Post("/permissions/check", h.handleCheckPermission)

		r.Post("/papers", h.handleCreatePaper)
		r.Post("/papers/{id}/verify", h.handleReviewPaper)
		r.Post("/papers/{id}/deactivate", h.handleDeactivatePaper)
		r.Post("/papers/{id}/extend", h.handleExtendPaper)

		r.Post("/businesses", h.handleRegisterBusiness)
		r.Post("/businesses/{id}/verify", h.handleReviewBusiness)
		r.Post("/businesses/{id}/deactivate", h.handleDeactivateBusiness)

		r.Group(func(r chi.Router) {
			r.Use(adminmw.RequireAdminToken(cfg.AdminToken, cfg.Logger))
			r.Post("/admin/identities/{id}/suspend", h.handleSuspendIdentity)
			r.Post("/admin/identities/{id}/reactivate", h.handleReactivateIdentity)
			r.Post("/admin/identities/{id}/deactivate", h.handleDeactivateIdentity)
			r.Post("/admin/bulk", h.handleBulkAction)
			r.Post("/admin/bulk/{id}/undo", h.handleBulkUndo)
		})
	})

	return r
}

// authorize runs a permission check for the acting identity and writes the
// denial when not granted. Returns true when the request may proceed.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request,
	resource permission.Resource, action permission.Action, checkCtx permission.CheckContext) bool {

	decision, err := h.permissions.Check(r.Context(), requestcontext.ActorID(r.Context()), resource, action, checkCtx)
	if err != nil {
		httputil.WriteError(w, err)
		return false
	}
	if !decision.Granted {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, decision.Reason))
		return false
	}
	return true
}
