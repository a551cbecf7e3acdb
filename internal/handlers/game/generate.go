package game

import (
	"log/slog"
	"net/http"

	"github.com/Alily223/red-knight/internal/clients/generation"
	"github.com/Alily223/red-knight/internal/errors"
	"github.com/Alily223/red-knight/internal/repositories/recipes"
)

// The generation routes always answer 200 with usable content. When
// the remote backend fails or returns garbage they fall back to the
// local tables; only /api/ai surfaces the failure.

type seedRequest struct {
	Seed string `json:"seed"`
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

type craftRequest struct {
	Resources []generation.ResourceAmount `json:"resources"`
}

func (h *Handler) handleAI(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if !decode(w, r, &req) {
		return
	}

	text, err := h.generator.Generate(r.Context(), req.Prompt)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (h *Handler) handleCharacter(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if !decode(w, r, &req) {
		return
	}

	character, err := h.generator.Character(r.Context(), req.Seed)
	if err != nil {
		character = generation.FallbackCharacter(h.roller)
	}
	writeJSON(w, http.StatusOK, character)
}

func (h *Handler) handleLocation(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if !decode(w, r, &req) {
		return
	}

	place, err := h.generator.Location(r.Context(), req.Seed)
	if err != nil {
		place = generation.FallbackLocation(h.roller)
	}
	writeJSON(w, http.StatusOK, place)
}

func (h *Handler) handleClass(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if !decode(w, r, &req) {
		return
	}

	class, err := h.generator.Class(r.Context(), req.Seed)
	if err != nil {
		class = generation.FallbackClass(h.roller)
	}
	writeJSON(w, http.StatusOK, class)
}

func (h *Handler) handleItem(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if !decode(w, r, &req) {
		return
	}

	item, err := h.generator.Item(r.Context(), req.Seed)
	if err != nil {
		item = generation.FallbackItem(h.roller)
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) handleResource(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if !decode(w, r, &req) {
		return
	}

	name, err := h.generator.Resource(r.Context(), req.Seed)
	if err != nil {
		name = generation.FallbackResource(h.roller)
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (h *Handler) handleCraft(w http.ResponseWriter, r *http.Request) {
	var req craftRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Resources) == 0 {
		errors.WriteHTTPError(w, errors.InvalidArgument("resources are required"))
		return
	}

	// Identical resource sets always yield the cached item
	combo := generation.CombinationKey(req.Resources)
	if cached, err := h.recipeRepo.Get(r.Context(), recipes.GetInput{Combo: combo}); err == nil {
		writeJSON(w, http.StatusOK, cached.Item)
		return
	} else if !errors.IsNotFound(err) {
		slog.Warn("recipe lookup failed", "combo", combo, "error", err)
	}

	item, err := h.generator.Craft(r.Context(), req.Resources)
	if err != nil {
		item = generation.FallbackCraft()
	}
	if _, putErr := h.recipeRepo.Put(r.Context(), recipes.PutInput{Combo: combo, Item: &item}); putErr != nil {
		slog.Warn("failed to cache recipe", "combo", combo, "error", putErr)
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) handlePerk(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if !decode(w, r, &req) {
		return
	}

	perk, err := h.generator.Perk(r.Context(), req.Seed)
	if err != nil {
		perk = generation.FallbackPerk(h.roller)
	}
	writeJSON(w, http.StatusOK, perk)
}
