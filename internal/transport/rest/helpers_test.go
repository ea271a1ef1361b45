package rest

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/auth"
	"github.com/lexleague/lexleague-backend/pkg/ctxutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newAuthedRequest builds a request carrying an authenticated caller, the way
// the auth middleware would populate the context.
func newAuthedRequest(t *testing.T, method, target string, body any, userID uuid.UUID, role string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	ctx := ctxutil.WithUserID(req.Context(), userID)
	ctx = ctxutil.WithRole(ctx, role)
	return req.WithContext(ctx)
}

func newStudentRequest(t *testing.T, method, target string, body any, userID uuid.UUID) *http.Request {
	t.Helper()
	return newAuthedRequest(t, method, target, body, userID, auth.RoleStudent)
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
