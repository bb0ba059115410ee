package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"boxscore-tracker/internal/constants"
	"boxscore-tracker/internal/domain"
	"boxscore-tracker/internal/hub"
	"boxscore-tracker/internal/ledger"
	"boxscore-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// TrackerServer exposes the roster and the gesture pipeline over JSON,
// plus a websocket stream of applied updates.
type TrackerServer struct {
	roster   *service.RosterService
	stats    *service.StatService
	hub      *hub.Hub
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

func NewTrackerServer(roster *service.RosterService, stats *service.StatService, h *hub.Hub, logger zerolog.Logger) *TrackerServer {
	return &TrackerServer{
		roster: roster,
		stats:  stats,
		hub:    h,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *TrackerServer) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/roster", s.handleRoster)
		r.Post("/roster/players", s.handleAddPlayer)
		r.Get("/session", s.handleSession)
		r.Delete("/session", s.handleDeselect)

		r.Route("/players/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetPlayer)
			r.Put("/name", s.handleRename)
			r.Post("/select", s.handleSelect)
			r.Post("/drag", s.handleDrag)
			r.Post("/tap", s.handleTap)
		})
	})

	r.Get("/ws", s.handleWebSocket)

	return r
}

type playerResponse struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Position            int     `json:"position"`
	Points              int     `json:"points"`
	Rebounds            int     `json:"rebounds"`
	Assists             int     `json:"assists"`
	Steals              int     `json:"steals"`
	Turnovers           int     `json:"turnovers"`
	ShotsMade           int     `json:"shotsMade"`
	ShotsAttempted      int     `json:"shotsAttempted"`
	FieldGoalPercentage float64 `json:"fieldGoalPercentage"`
}

type rosterResponse struct {
	Home []playerResponse `json:"home"`
	Away []playerResponse `json:"away"`
}

type gestureResponse struct {
	Event        *domain.StatEvent `json:"event"`
	Player       playerResponse    `json:"player"`
	Confirmation string            `json:"confirmation,omitempty"`
}

type sessionResponse struct {
	Selected      *string           `json:"selected"`
	Confirmations map[string]string `json:"confirmations"`
}

type dragRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type tapRequest struct {
	Count int `json:"count"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type addPlayerRequest struct {
	Name string `json:"name"`
}

func (s *TrackerServer) handleRoster(w http.ResponseWriter, r *http.Request) {
	split := s.roster.Roster()
	s.respondJSON(w, http.StatusOK, rosterResponse{
		Home: toPlayerResponses(split.Home),
		Away: toPlayerResponses(split.Away),
	})
}

func (s *TrackerServer) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.roster.Player(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toPlayerResponse(player))
}

func (s *TrackerServer) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	var req addPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.respondErrorMessage(w, http.StatusBadRequest, "name must not be empty")
		return
	}

	player, err := s.roster.AddPlayer(r.Context(), req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toPlayerResponse(player))
}

func (s *TrackerServer) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.respondErrorMessage(w, http.StatusBadRequest, "name must not be empty")
		return
	}

	player, err := s.roster.Rename(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toPlayerResponse(player))
}

func (s *TrackerServer) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.stats.Select(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"selected": id})
}

func (s *TrackerServer) handleDeselect(w http.ResponseWriter, r *http.Request) {
	s.stats.Deselect()
	w.WriteHeader(http.StatusNoContent)
}

func (s *TrackerServer) handleSession(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{Confirmations: s.stats.Confirmations()}
	if id, ok := s.stats.Selected(); ok {
		resp.Selected = &id
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *TrackerServer) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.stats.RecordDrag(r.Context(), chi.URLParam(r, "id"), domain.DragSample{DX: req.DX, DY: req.DY})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toGestureResponse(result))
}

func (s *TrackerServer) handleTap(w http.ResponseWriter, r *http.Request) {
	var req tapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count < 0 {
		s.respondErrorMessage(w, http.StatusBadRequest, "tap count must not be negative")
		return
	}

	result, err := s.stats.RecordTap(r.Context(), chi.URLParam(r, "id"), req.Count)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toGestureResponse(result))
}

func (s *TrackerServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String())
	s.hub.Register(client)

	g := new(errgroup.Group)
	g.Go(func() error { return s.writePump(conn, client) })
	g.Go(func() error { return s.readPump(conn, client) })

	go func() {
		if err := g.Wait(); err != nil {
			s.logger.Debug().Err(err).Str("client_id", client.ID).Msg("websocket connection closed")
		}
	}()
}

// writePump streams hub updates to one connection until its send channel
// closes.
func (s *TrackerServer) writePump(conn *websocket.Conn, client *hub.Client) error {
	defer conn.Close()

	for update := range client.Send {
		conn.SetWriteDeadline(time.Now().Add(constants.ClientWriteDeadline))
		if err := conn.WriteJSON(update); err != nil {
			s.hub.Unregister(client)
			return err
		}
	}
	conn.WriteMessage(websocket.CloseMessage, []byte{})
	return nil
}

// readPump drains the connection; views never send anything meaningful,
// but the read loop is what notices a disconnect.
func (s *TrackerServer) readPump(conn *websocket.Conn, client *hub.Client) error {
	defer func() {
		s.hub.Unregister(client)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

func (s *TrackerServer) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *TrackerServer) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ledger.ErrPlayerNotFound) {
		s.respondErrorMessage(w, http.StatusNotFound, "player not found")
		return
	}
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	s.respondErrorMessage(w, http.StatusInternalServerError, "internal error")
}

func (s *TrackerServer) respondErrorMessage(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func toPlayerResponse(p domain.PlayerStat) playerResponse {
	return playerResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Position:            p.Position,
		Points:              p.Points,
		Rebounds:            p.Rebounds,
		Assists:             p.Assists,
		Steals:              p.Steals,
		Turnovers:           p.Turnovers,
		ShotsMade:           p.ShotsMade,
		ShotsAttempted:      p.ShotsAttempted,
		FieldGoalPercentage: p.FieldGoalPercentage(),
	}
}

func toPlayerResponses(players []domain.PlayerStat) []playerResponse {
	out := make([]playerResponse, len(players))
	for i, p := range players {
		out[i] = toPlayerResponse(p)
	}
	return out
}

func toGestureResponse(result service.GestureResult) gestureResponse {
	return gestureResponse{
		Event:        result.Event,
		Player:       toPlayerResponse(result.Player),
		Confirmation: result.Confirmation,
	}
}
