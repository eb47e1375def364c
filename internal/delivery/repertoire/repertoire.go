package repertoire

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/notnil/chess"
	"go.uber.org/zap"

	"openbook/internal/bootstrap"
	"openbook/internal/domain/opening"
	openbookErrors "openbook/internal/errors"
	"openbook/internal/httpresponse"
	repo "openbook/internal/repository"
	"openbook/internal/usecase/expand"
)

type ExpandRequest struct {
	Initial    []string `json:"initial"`
	Color      string   `json:"color"`
	Iterations int      `json:"iterations"`
}

type ProgressFrame struct {
	Iteration  int `json:"iteration"`
	Iterations int `json:"iterations"`
	LineCount  int `json:"line_count"`
}

type RepertoireHandler struct {
	cfg         bootstrap.Config
	log         *zap.SugaredLogger
	expander    *expand.Expander
	repertoires *repo.RepertoireRepository
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewRepertoireHandler(cfg bootstrap.Config, log *zap.SugaredLogger, expander *expand.Expander, repertoires *repo.RepertoireRepository) *RepertoireHandler {
	return &RepertoireHandler{
		cfg:         cfg,
		log:         log,
		expander:    expander,
		repertoires: repertoires,
	}
}

// HandleExpand runs a full expansion, stores the result and returns it. The
// run is synchronous; for long runs the websocket endpoint reports progress.
func (h *RepertoireHandler) HandleExpand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.log.Error("only POST method is allowed")
		httpresponse.WriteResponseWithStatus(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req ExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Errorf("JSON decode error: %v", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	player, err := parseColor(req.Color)
	if err != nil {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}
	applyRequestDefaults(&req, h.cfg)

	ctx := r.Context()

	lines, err := h.expander.Expand(ctx, req.Initial, player, req.Iterations)
	if err != nil {
		h.log.Errorf("expansion failed: %v", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadGateway, "Expansion failed: "+err.Error())
		return
	}

	rep := opening.Repertoire{
		ID:         uuid.New().String(),
		Color:      req.Color,
		Iterations: req.Iterations,
		LineCount:  len(lines),
		Lines:      lines,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.repertoires.Save(ctx, rep); err != nil {
		h.log.Errorf("failed to save repertoire: %v", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusInternalServerError, "Failed to save repertoire")
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rep)
}

// HandleGetRepertoire returns a stored run by id.
func (h *RepertoireHandler) HandleGetRepertoire(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "Missing repertoire id")
		return
	}

	rep, err := h.repertoires.Get(r.Context(), id)
	if errors.Is(err, openbookErrors.ErrRepertoireNotFound) {
		httpresponse.WriteResponseWithStatus(w, http.StatusNotFound, "Repertoire not found")
		return
	}
	if err != nil {
		h.log.Errorf("failed to load repertoire: %v", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rep)
}

// HandleExpandWS upgrades the connection, reads one ExpandRequest frame,
// streams a ProgressFrame per iteration and closes with the final repertoire.
func (h *RepertoireHandler) HandleExpandWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var req ExpandRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.log.Errorf("websocket request decode error: %v", err)
		_ = conn.WriteJSON(map[string]string{"error": "invalid request: " + err.Error()})
		return
	}

	player, err := parseColor(req.Color)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}
	applyRequestDefaults(&req, h.cfg)

	ctx := r.Context()

	lines, err := h.expander.ExpandWithProgress(ctx, req.Initial, player, req.Iterations,
		func(iteration, iterations, lineCount int) {
			frame := ProgressFrame{
				Iteration:  iteration,
				Iterations: iterations,
				LineCount:  lineCount,
			}
			if err := conn.WriteJSON(frame); err != nil {
				h.log.Errorf("websocket progress write failed: %v", err)
			}
		})
	if err != nil {
		h.log.Errorf("expansion failed: %v", err)
		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	rep := opening.Repertoire{
		ID:         uuid.New().String(),
		Color:      req.Color,
		Iterations: req.Iterations,
		LineCount:  len(lines),
		Lines:      lines,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.repertoires.Save(ctx, rep); err != nil {
		h.log.Errorf("failed to save repertoire: %v", err)
	}

	if err := conn.WriteJSON(rep); err != nil {
		h.log.Errorf("websocket final write failed: %v", err)
	}
}

func parseColor(color string) (chess.Color, error) {
	switch color {
	case "white":
		return chess.White, nil
	case "black":
		return chess.Black, nil
	default:
		return chess.NoColor, errors.New("color must be \"white\" or \"black\"")
	}
}

func applyRequestDefaults(req *ExpandRequest, cfg bootstrap.Config) {
	if len(req.Initial) == 0 {
		req.Initial = opening.DefaultFirstMoves
	}
	if req.Iterations <= 0 {
		req.Iterations = cfg.Iterations
	}
}
