package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/quoridor/game/config"
	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
	"github.com/wricardo/quoridor/game/session"
	"github.com/wricardo/quoridor/transport/websocket"
)

const maxConfigBody = 64 << 10

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil when live updates are off.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/fence", s.handleFence).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/sessions/{id}/legal-moves", s.handleLegalMoves).Methods("GET")
	api.HandleFunc("/sessions/{id}/fences/{player}", s.handleFenceLedger).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Debugf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service and storage errors onto HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, config.ErrConfigNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConfigUnavailable),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, session.ErrInvalidSessionID),
		errors.Is(err, engine.ErrUnknownPlayer):
		status = http.StatusBadRequest
	}
	respondError(w, status, err.Error())
}

func (s *Server) broadcast(sessionID string, state *engine.GameState) {
	if s.hub != nil && state != nil {
		s.hub.BroadcastToSession(sessionID, state)
	}
}

// broadcastVictory tells watchers who won, after the final state update
func (s *Server) broadcastVictory(sessionID string, events []service.GameEvent) {
	if s.hub == nil {
		return
	}
	for _, event := range events {
		if event.Type == "victory" {
			s.hub.BroadcastEvent(sessionID, event.Type, event)
		}
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
	}

	// An empty body selects the default rule set
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	configID := req.ConfigID
	if configID == "" {
		configID = req.ConfigName
	}

	info, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy != "created" {
		sortBy = "accessed"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(sessionID, "session_deleted", nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// actionRequest is the body of move and fence requests
type actionRequest struct {
	Player      int    `json:"player"`
	Col         *int   `json:"col"`
	Row         *int   `json:"row"`
	Orientation string `json:"orientation,omitempty"`
}

func decodeAction(r *http.Request) (*actionRequest, error) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.New("invalid request body")
	}
	if !engine.PlayerID(req.Player).Valid() {
		return nil, errors.New("player must be 1 or 2")
	}
	if req.Col == nil || req.Row == nil {
		return nil, errors.New("col and row are required")
	}
	return &req, nil
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	req, err := decodeAction(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	player := engine.PlayerID(req.Player)
	target := engine.Coord{Col: *req.Col, Row: *req.Row}

	result, err := s.service.MovePawn(r.Context(), sessionID, player, target)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	logAction(sessionID, result, log.Fields{"target": target.String()})
	if result.Success {
		s.broadcast(sessionID, result.GameState)
		s.broadcastVictory(sessionID, result.Events)
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleFence(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	req, err := decodeAction(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	orientation, err := engine.ParseOrientation(req.Orientation)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	player := engine.PlayerID(req.Player)
	anchor := engine.Coord{Col: *req.Col, Row: *req.Row}

	result, err := s.service.PlaceFence(r.Context(), sessionID, player, orientation, anchor)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	logAction(sessionID, result, log.Fields{"orientation": orientation.String(), "anchor": anchor.String()})
	if result.Success {
		s.broadcast(sessionID, result.GameState)
	}

	respondJSON(w, http.StatusOK, result)
}

// logAction writes one compact line per action for observability
func logAction(sessionID string, result *service.ActionResult, fields log.Fields) {
	entry := log.WithFields(fields).WithFields(log.Fields{
		"session": sessionID,
		"action":  result.Action,
		"player":  int(result.Player),
	})
	if !result.Success {
		entry.WithField("code", result.ErrorCode).Info("action rejected")
		return
	}
	if result.Kind != "" {
		entry = entry.WithField("kind", string(result.Kind))
	}
	entry.Info("action accepted")
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, state)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game reset successfully",
		"state":   state,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

func parsePlayer(raw string) (engine.PlayerID, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(raw), "p"))
	if err != nil || !engine.PlayerID(n).Valid() {
		return 0, fmt.Errorf("player must be 1 or 2, got %q", raw)
	}
	return engine.PlayerID(n), nil
}

func (s *Server) handleLegalMoves(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	raw := r.URL.Query().Get("player")
	var player engine.PlayerID
	if raw == "" {
		state, err := s.service.GetGameState(r.Context(), sessionID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		player = state.Turn
	} else {
		var err error
		if player, err = parsePlayer(raw); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	moves, err := s.service.GetLegalMoves(r.Context(), sessionID, player)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, moves)
}

func (s *Server) handleFenceLedger(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	player, err := parsePlayer(vars["player"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ledger, err := s.service.GetFenceLedger(r.Context(), vars["id"], player)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ledger)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	rules, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rules)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxConfigBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var req struct {
		ConfigID string `json:"config_id,omitempty"`
		Name     string `json:"name"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	rules, err := engine.ParseRuleSet(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	configID := req.ConfigID
	if configID == "" {
		configID = req.Name
	}

	if err := s.service.SaveConfig(r.Context(), configID, rules); err != nil {
		respondServiceError(w, err)
		return
	}

	log.WithField("config", configID).Info("config saved")

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": configID,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "live updates disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
