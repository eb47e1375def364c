package repertoire

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"openbook/internal/bootstrap"
	"openbook/internal/domain/opening"
)

func testHandler() *RepertoireHandler {
	cfg := bootstrap.Config{Iterations: 4}
	return NewRepertoireHandler(cfg, zap.NewNop().Sugar(), nil, nil)
}

func TestHandleExpandRejectsNonPost(t *testing.T) {
	h := testHandler()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/repertoire", nil)

	h.HandleExpand(w, r)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestHandleExpandRejectsMalformedJSON(t *testing.T) {
	h := testHandler()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/repertoire", strings.NewReader("{"))

	h.HandleExpand(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleExpandRejectsUnknownColor(t *testing.T) {
	h := testHandler()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/repertoire",
		strings.NewReader(`{"color":"green","iterations":1}`))

	h.HandleExpand(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRequestDefaults(t *testing.T) {
	cfg := bootstrap.Config{Iterations: 4}

	req := ExpandRequest{Color: "white"}
	applyRequestDefaults(&req, cfg)

	if len(req.Initial) != len(opening.DefaultFirstMoves) {
		t.Fatalf("expected the canonical first moves as default, got %v", req.Initial)
	}
	if req.Iterations != 4 {
		t.Fatalf("expected the configured iteration count, got %d", req.Iterations)
	}

	req = ExpandRequest{Color: "black", Initial: []string{"d4"}, Iterations: 2}
	applyRequestDefaults(&req, cfg)
	if len(req.Initial) != 1 || req.Iterations != 2 {
		t.Fatalf("explicit values must be kept, got %+v", req)
	}
}
