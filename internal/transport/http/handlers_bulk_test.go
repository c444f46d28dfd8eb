package httptransport

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"workpaper/internal/bulkadmin"
	"workpaper/internal/transport/http/mocks"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/requestcontext"
)

//go:generate mockgen -source=router.go -destination=mocks/service-mocks.go -package=mocks

// newBulkRouter mounts only the bulk endpoints with the actor preset, so the
// outcome to status mapping can be driven with a mocked coordinator.
func newBulkRouter(t *testing.T, actorID id.IdentityID) (*mocks.MockBulkCoordinator, chi.Router) {
	t.Helper()
	ctrl := gomock.NewController(t)
	coordinator := mocks.NewMockBulkCoordinator(ctrl)
	h := NewHandler(nil, nil, nil, nil, nil, nil, coordinator, slog.New(slog.DiscardHandler))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(requestcontext.WithActorID(req.Context(), actorID)))
		})
	})
	r.Post("/admin/bulk", h.handleBulkAction)
	r.Post("/admin/bulk/{id}/undo", h.handleBulkUndo)
	return coordinator, r
}

func postBulk(t *testing.T, router chi.Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBulkOutcomeStatusCodes(t *testing.T) {
	actorID := id.NewIdentityID()
	targetID := id.NewIdentityID()
	body := map[string]any{"action": "suspend", "target_ids": []string{targetID.String()}}

	cases := []struct {
		outcome bulkadmin.Outcome
		status  int
	}{
		{bulkadmin.OutcomeFullSuccess, http.StatusOK},
		{bulkadmin.OutcomePartialSuccess, http.StatusMultiStatus},
		{bulkadmin.OutcomeFullFailureValidation, http.StatusBadRequest},
		{bulkadmin.OutcomeFullFailureRollback, http.StatusInternalServerError},
		{bulkadmin.OutcomeTimeout, http.StatusGatewayTimeout},
	}
	for _, tc := range cases {
		t.Run(string(tc.outcome), func(t *testing.T) {
			coordinator, router := newBulkRouter(t, actorID)
			coordinator.EXPECT().
				Execute(gomock.Any(), actorID, bulkadmin.ActionSuspend, []id.IdentityID{targetID}, gomock.Any()).
				Return(&bulkadmin.Result{BatchID: id.NewBatchID(), Outcome: tc.outcome, TotalTargets: 1}, nil)

			rec := postBulk(t, router, "/admin/bulk", body)

			assert.Equal(t, tc.status, rec.Code)
			var result bulkadmin.Result
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
			assert.Equal(t, tc.outcome, result.Outcome)
		})
	}
}

func TestBulkPassesOptionsThrough(t *testing.T) {
	actorID := id.NewIdentityID()
	targetID := id.NewIdentityID()
	coordinator, router := newBulkRouter(t, actorID)
	coordinator.EXPECT().
		Execute(gomock.Any(), actorID, bulkadmin.ActionDeactivate, []id.IdentityID{targetID},
			bulkadmin.Options{Reason: "court order", Override: true}).
		Return(&bulkadmin.Result{BatchID: id.NewBatchID(), Outcome: bulkadmin.OutcomeFullSuccess}, nil)

	rec := postBulk(t, router, "/admin/bulk", map[string]any{
		"action":     "deactivate",
		"target_ids": []string{targetID.String()},
		"reason":     "court order",
		"override":   true,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBulkValidationErrorBodyCarriesViolations(t *testing.T) {
	actorID := id.NewIdentityID()
	coordinator, router := newBulkRouter(t, actorID)
	coordinator.EXPECT().
		Execute(gomock.Any(), actorID, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, dErrors.NewValidation("batch validation failed",
			dErrors.FieldViolation{Field: "target_ids", Message: "must not be empty"}))

	rec := postBulk(t, router, "/admin/bulk", map[string]any{"action": "suspend", "target_ids": []string{}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "target_ids")
}

func TestBulkUndoNotFoundAfterWindow(t *testing.T) {
	actorID := id.NewIdentityID()
	batchID := id.NewBatchID()
	coordinator, router := newBulkRouter(t, actorID)
	coordinator.EXPECT().
		Undo(gomock.Any(), actorID, batchID).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "batch is unknown or its undo window has closed"))

	rec := postBulk(t, router, "/admin/bulk/"+batchID.String()+"/undo", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
