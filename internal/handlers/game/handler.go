// Package game exposes the HTTP API the browser client talks to:
// login bookkeeping, save management, the command endpoint, and the
// generation routes.
package game

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/Alily223/red-knight/internal/clients/generation"
	"github.com/Alily223/red-knight/internal/entities/game"
	"github.com/Alily223/red-knight/internal/errors"
	"github.com/Alily223/red-knight/internal/orchestrators/session"
	"github.com/Alily223/red-knight/internal/pkg/idgen"
	"github.com/Alily223/red-knight/internal/repositories/gamestate"
	"github.com/Alily223/red-knight/internal/repositories/recipes"
	"github.com/Alily223/red-knight/internal/repositories/users"
	"github.com/Alily223/red-knight/internal/repositories/userstats"
)

// Handler serves the game API
type Handler struct {
	sessions      session.Service
	userRepo      users.Repository
	userStatsRepo userstats.Repository
	gameStateRepo gamestate.Repository
	recipeRepo    recipes.Repository
	generator     generation.Client
	roller        dice.Roller
	idGen         idgen.Generator
}

// Config holds the dependencies for the game handler
type Config struct {
	SessionService session.Service
	UserRepo       users.Repository
	UserStatsRepo  userstats.Repository
	GameStateRepo  gamestate.Repository
	RecipeRepo     recipes.Repository
	Generator      generation.Client
	Roller         dice.Roller
	IDGenerator    idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SessionService == nil {
		vb.RequiredField("SessionService")
	}
	if c.UserRepo == nil {
		vb.RequiredField("UserRepo")
	}
	if c.UserStatsRepo == nil {
		vb.RequiredField("UserStatsRepo")
	}
	if c.GameStateRepo == nil {
		vb.RequiredField("GameStateRepo")
	}
	if c.RecipeRepo == nil {
		vb.RequiredField("RecipeRepo")
	}
	if c.Generator == nil {
		vb.RequiredField("Generator")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// NewHandler creates a game API handler
func NewHandler(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		sessions:      cfg.SessionService,
		userRepo:      cfg.UserRepo,
		userStatsRepo: cfg.UserStatsRepo,
		gameStateRepo: cfg.GameStateRepo,
		recipeRepo:    cfg.RecipeRepo,
		generator:     cfg.Generator,
		roller:        cfg.Roller,
		idGen:         cfg.IDGenerator,
	}, nil
}

// RegisterRoutes mounts every game route on the mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealth)

	mux.HandleFunc("POST /api/login", h.handleLogin)
	mux.HandleFunc("POST /api/save", h.handleSaveStats)
	mux.HandleFunc("GET /api/save/{id}", h.handleLoadStats)

	mux.HandleFunc("POST /api/game/start", h.handleStart)
	mux.HandleFunc("POST /api/game/command", h.handleCommand)
	mux.HandleFunc("POST /api/game/save", h.handleSaveGame)
	mux.HandleFunc("GET /api/game/load/{id}", h.handleLoadGame)
	mux.HandleFunc("POST /api/game/end", h.handleEnd)

	mux.HandleFunc("POST /api/ai", h.handleAI)
	mux.HandleFunc("POST /api/character", h.handleCharacter)
	mux.HandleFunc("POST /api/location", h.handleLocation)
	mux.HandleFunc("POST /api/class", h.handleClass)
	mux.HandleFunc("POST /api/item", h.handleItem)
	mux.HandleFunc("POST /api/resource", h.handleResource)
	mux.HandleFunc("POST /api/craft", h.handleCraft)
	mux.HandleFunc("POST /api/perk", h.handlePerk)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var user game.User
	if !decode(w, r, &user) {
		return
	}
	if user.ID == "" {
		errors.WriteHTTPError(w, errors.InvalidArgument("user id is required"))
		return
	}

	out, err := h.userRepo.CreateIfAbsent(r.Context(), users.CreateIfAbsentInput{User: &user})
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    out.User,
		"created": out.Created,
	})
}

type saveStatsRequest struct {
	ID    string            `json:"id"`
	User  *game.User        `json:"user"`
	Stats *game.PlayerStats `json:"stats"`
}

func (h *Handler) handleSaveStats(w http.ResponseWriter, r *http.Request) {
	var req saveStatsRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		errors.WriteHTTPError(w, errors.InvalidArgument("id is required"))
		return
	}

	if _, err := h.userStatsRepo.Save(r.Context(), userstats.SaveInput{
		ID:    req.ID,
		User:  req.User,
		Stats: req.Stats,
	}); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": req.ID})
}

func (h *Handler) handleLoadStats(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	out, err := h.userStatsRepo.Load(r.Context(), userstats.LoadInput{ID: id})
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":  out.User,
		"stats": out.Stats,
	})
}

type startRequest struct {
	SaveID string `json:"saveId"`
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decode(w, r, &req) {
		return
	}
	// A blank save id means a brand new game; mint one for the client
	if req.SaveID == "" {
		req.SaveID = h.idGen.Generate()
	}

	out, err := h.sessions.Start(r.Context(), &session.StartInput{SaveID: req.SaveID})
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"saveId":   out.SaveID,
		"position": out.Position,
		"log":      out.Log,
		"stats":    out.Stats,
		"restored": out.Restored,
	})
}

type commandRequest struct {
	SaveID  string `json:"saveId"`
	Command string `json:"command"`
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.sessions.Execute(r.Context(), &session.ExecuteInput{
		SaveID: req.SaveID,
		Line:   req.Command,
	})
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"lines":    out.Lines,
		"ticked":   out.Ticked,
		"position": out.Position,
		"stats":    out.Stats,
	})
}

func (h *Handler) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.sessions.Save(r.Context(), &session.SaveInput{SaveID: req.SaveID})
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"bundle": out.Bundle})
}

// handleLoadGame reads the stored bundle without opening a session.
// Open sessions autosave after every command, so the stored bundle is
// at most one command behind live state.
func (h *Handler) handleLoadGame(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	out, err := h.gameStateRepo.Load(r.Context(), gamestate.LoadInput{ID: id})
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"bundle": out.Bundle})
}

func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decode(w, r, &req) {
		return
	}

	if _, err := h.sessions.End(r.Context(), &session.EndInput{SaveID: req.SaveID}); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"saveId": req.SaveID})
}

// decode reads a JSON request body, writing the error response itself
// when the body is malformed
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		errors.WriteHTTPError(w, errors.InvalidArgument("invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
