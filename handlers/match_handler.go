package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/Dosada05/tournament-bracket/services"
	"github.com/go-chi/chi/v5"
)

type MatchHandler struct {
	matchService services.MatchService
	logger       *slog.Logger
}

func NewMatchHandler(ms services.MatchService, logger *slog.Logger) *MatchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchHandler{matchService: ms, logger: logger}
}

type recordResultInput struct {
	ScoreA *int `json:"score_a"`
	ScoreB *int `json:"score_b"`
}

type recordForfeitInput struct {
	ForfeitingSlot models.Slot `json:"forfeiting_slot"`
}

// RecordResultHandler обрабатывает PUT /brackets/{bracketID}/matches/{matchID}/result
func (h *MatchHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getUUIDFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID := chi.URLParam(r, "matchID")

	var input recordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ScoreA == nil || input.ScoreB == nil {
		failedValidationResponse(w, r, errors.New("score_a and score_b are required"))
		return
	}

	result, err := h.matchService.RecordResult(r.Context(), bracketID, matchID, *input.ScoreA, *input.ScoreB)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	auditLog(h.logger, r, "match result recorded",
		slog.String("bracket_id", bracketID.String()),
		slog.String("match_id", matchID),
		slog.Int("score_a", *input.ScoreA),
		slog.Int("score_b", *input.ScoreB))

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordForfeitHandler обрабатывает POST /brackets/{bracketID}/matches/{matchID}/forfeit
func (h *MatchHandler) RecordForfeitHandler(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getUUIDFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID := chi.URLParam(r, "matchID")

	var input recordForfeitInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.matchService.RecordForfeit(r.Context(), bracketID, matchID, input.ForfeitingSlot)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	auditLog(h.logger, r, "match forfeited",
		slog.String("bracket_id", bracketID.String()),
		slog.String("match_id", matchID),
		slog.String("forfeiting_slot", string(input.ForfeitingSlot)))

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
