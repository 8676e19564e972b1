package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/courtside/scorekeeper/internal/models"
	gameService "github.com/courtside/scorekeeper/internal/services/game"
)

// maxImportSize bounds an import upload
const maxImportSize = 4 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The scoreboard UI is served from anywhere on the local network
		return true
	},
}

// Config holds configuration for the web handler
type Config struct {
	// GameService executes scorekeeping operations
	GameService gameService.Service

	// Hub broadcasts state changes to connected scoreboards
	Hub *Hub

	// Logger is the structured logger; defaults to slog.Default
	Logger *slog.Logger

	// BaseContext bounds the lifetime of WebSocket pumps; defaults to
	// context.Background
	BaseContext context.Context
}

// Handler serves the scoreboard API and WebSocket endpoint
type Handler struct {
	gameService gameService.Service
	hub         *Hub
	logger      *slog.Logger
	baseCtx     context.Context
}

// New creates a new web handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}
	if cfg.Hub == nil {
		return nil, errors.New("hub cannot be nil")
	}

	h := &Handler{
		gameService: cfg.GameService,
		hub:         cfg.Hub,
		logger:      cfg.Logger,
		baseCtx:     cfg.BaseContext,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.baseCtx == nil {
		h.baseCtx = context.Background()
	}

	return h, nil
}

// Register attaches every route to the mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", h.handleWebSocket)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /metrics", h.handleMetrics)

	mux.HandleFunc("GET /api/game", h.handleGetGame)
	mux.HandleFunc("POST /api/game/start", h.handleStartGame)
	mux.HandleFunc("POST /api/game/pause", h.handlePauseGame)
	mux.HandleFunc("POST /api/game/period/next", h.handleNextPeriod)
	mux.HandleFunc("POST /api/game/period/prev", h.handlePrevPeriod)
	mux.HandleFunc("POST /api/game/clear", h.handleClearAll)
	mux.HandleFunc("POST /api/game/recalculate", h.handleRecalculate)

	mux.HandleFunc("POST /api/players", h.handleAddPlayer)
	mux.HandleFunc("POST /api/players/preset", h.handleAddPresetPlayer)
	mux.HandleFunc("DELETE /api/players/{id}", h.handleRemovePlayer)
	mux.HandleFunc("POST /api/players/{id}/toggle", h.handleTogglePlayer)
	mux.HandleFunc("POST /api/players/{id}/score", h.handleUpdateScore)
	mux.HandleFunc("POST /api/players/{id}/foul", h.handleAddFoul)

	mux.HandleFunc("GET /api/details", h.handleDetails)
	mux.HandleFunc("GET /api/periods", h.handlePeriods)
	mux.HandleFunc("GET /api/presets", h.handlePresets)

	mux.HandleFunc("GET /api/export", h.handleExport)
	mux.HandleFunc("POST /api/import", h.handleImport)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := NewClient(uuid.New().String(), conn, h.hub, h.logger)
	h.hub.Register(c)

	// Pumps outlive the request; they stop with the base context
	go c.WritePump(h.baseCtx)
	go c.ReadPump(h.baseCtx)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"service":        "scorekeeper",
		"active_clients": h.hub.ClientCount(),
	})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.hub.Metrics())
}

func (h *Handler) handleGetGame(w http.ResponseWriter, r *http.Request) {
	out, err := h.gameService.GetGame(r.Context(), &gameService.GetGameInput{})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, gameView(out))
}

func (h *Handler) handleStartGame(w http.ResponseWriter, r *http.Request) {
	out, err := h.gameService.StartGame(r.Context(), &gameService.StartGameInput{})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.broadcastGame(r.Context())
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handlePauseGame(w http.ResponseWriter, r *http.Request) {
	out, err := h.gameService.PauseGame(r.Context(), &gameService.PauseGameInput{})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.broadcastGame(r.Context())
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleNextPeriod(w http.ResponseWriter, r *http.Request) {
	out, err := h.gameService.NextPeriod(r.Context(), &gameService.NextPeriodInput{})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.broadcastGame(r.Context())
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handlePrevPeriod(w http.ResponseWriter, r *http.Request) {
	out, err := h.gameService.PrevPeriod(r.Context(), &gameService.PrevPeriodInput{})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.broadcastGame(r.Context())
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleClearAll(w http.ResponseWriter, r *http.Request) {
	out, err := h.gameService.ClearAll(r.Context(), &gameService.ClearAllInput{})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.broadcastGame(r.Context())
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	out, err := h.gameService.RecalculatePlusMinus(r.Context(), &gameService.RecalculatePlusMinusInput{})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.broadcastGame(r.Context())
	h.writeJSON(w, http.StatusOK, out)
}

type addPlayerRequest struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Team   string `json:"team"`
}

func (h *Handler) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	var req addPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.gameService.AddPlayer(r.Context(), &gameService.AddPlayerInput{
		Name:   req.Name,
		Number: req.Number,
		Team:   models.Team(req.Team),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.broadcastGame(r.Context())
	h.writeJSON(w, http.StatusCreated, out.Player)
}

type addPresetPlayerRequest struct {
	PresetID string `json:"presetId"`
	Team     string `json:"team"`
}

func (h *Handler) handleAddPresetPlayer(w http.ResponseWriter, r *http.Request) {
	var req addPresetPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.gameService.AddPresetPlayer(r.Context(), &gameService.AddPresetPlayerInput{
		PresetID: req.PresetID,
		Team:     models.Team(req.Team),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.broadcastGame(r.Context())
	h.writeJSON(w, http.StatusCreated, out.Player)
}

func (h *Handler) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	out, err := h.gameService.RemovePlayer(r.Context(), &gameService.RemovePlayerInput{
		PlayerID: r.PathValue("id"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.broadcastGame(r.Context())
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleTogglePlayer(w http.ResponseWriter, r *http.Request) {
	out, err := h.gameService.TogglePlayer(r.Context(), &gameService.TogglePlayerInput{
		PlayerID: r.PathValue("id"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.broadcastGame(r.Context())
	h.writeJSON(w, http.StatusOK, out)
}

type deltaRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) handleUpdateScore(w http.ResponseWriter, r *http.Request) {
	var req deltaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.gameService.UpdateScore(r.Context(), &gameService.UpdateScoreInput{
		PlayerID: r.PathValue("id"),
		Delta:    req.Delta,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.broadcastGame(r.Context())
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleAddFoul(w http.ResponseWriter, r *http.Request) {
	var req deltaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.gameService.AddFoul(r.Context(), &gameService.AddFoulInput{
		PlayerID: r.PathValue("id"),
		Delta:    req.Delta,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.broadcastGame(r.Context())
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleDetails(w http.ResponseWriter, r *http.Request) {
	period := models.FirstPeriod
	if raw := r.URL.Query().Get("period"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeStatus(w, http.StatusBadRequest, "invalid period")
			return
		}
		period = parsed
	}

	out, err := h.gameService.DetailsForPeriod(r.Context(), &gameService.DetailsForPeriodInput{
		Period: period,
		Kind:   r.URL.Query().Get("kind"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handlePeriods(w http.ResponseWriter, r *http.Request) {
	out, err := h.gameService.Periods(r.Context(), &gameService.PeriodsInput{})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handlePresets(w http.ResponseWriter, r *http.Request) {
	out, err := h.gameService.AvailablePresets(r.Context(), &gameService.AvailablePresetsInput{})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	out, err := h.gameService.Export(r.Context(), &gameService.ExportInput{})
	if err != nil {
		h.writeError(w, err)
		return
	}

	filename := "game-" + time.Now().Format("2006-01-02") + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(out.Data)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	out, err := h.gameService.Import(r.Context(), &gameService.ImportInput{Data: data})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.broadcastGame(r.Context())
	h.writeJSON(w, http.StatusOK, out)
}

// broadcastGame pushes the fresh game view to every connected scoreboard
func (h *Handler) broadcastGame(ctx context.Context) {
	out, err := h.gameService.GetGame(ctx, &gameService.GetGameInput{})
	if err != nil {
		h.logger.Warn("failed to read game for broadcast", "error", err)
		return
	}

	h.hub.Broadcast(Message{
		Type:      MessageTypeGame,
		Payload:   gameView(out),
		Timestamp: time.Now(),
	})
}

// gameView is the JSON shape of the game pushed to clients and returned
// by GET /api/game
func gameView(out *gameService.GetGameOutput) map[string]any {
	return map[string]any{
		"game":   out.Game,
		"status": out.Status,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to encode response", "error", err)
	}
}

func (h *Handler) writeStatus(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps service errors to HTTP statuses
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, gameService.ErrPlayerNotFound),
		errors.Is(err, gameService.ErrPresetNotFound):
		status = http.StatusNotFound
	case errors.Is(err, gameService.ErrDuplicateIdentity),
		errors.Is(err, gameService.ErrDuplicateName),
		errors.Is(err, gameService.ErrDuplicateNumber):
		status = http.StatusConflict
	case errors.Is(err, gameService.ErrMissingIdentity),
		errors.Is(err, gameService.ErrInvalidTeam),
		errors.Is(err, gameService.ErrInvalidImport):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	h.writeStatus(w, status, err.Error())
}
