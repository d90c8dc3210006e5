package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/Dosada05/tournament-bracket/services"
	"github.com/google/uuid"
)

type BadgeHandler struct {
	badgeService services.BadgeService
	logger       *slog.Logger
}

func NewBadgeHandler(bs services.BadgeService, logger *slog.Logger) *BadgeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BadgeHandler{badgeService: bs, logger: logger}
}

type badgeAssignmentInput struct {
	BadgeID  uuid.UUID            `json:"badge_id"`
	Category models.BadgeCategory `json:"category"`
}

type setAssignmentsInput struct {
	Assignments []badgeAssignmentInput `json:"assignments"`
}

// SetAssignmentsHandler обрабатывает PUT /tournaments/{tournamentID}/badges
func (h *BadgeHandler) SetAssignmentsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input setAssignmentsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	assignments := make([]models.BadgeAssignment, 0, len(input.Assignments))
	for _, a := range input.Assignments {
		assignments = append(assignments, models.BadgeAssignment{TournamentID: tournamentID, BadgeID: a.BadgeID, Category: a.Category})
	}

	stored, err := h.badgeService.SetAssignments(r.Context(), tournamentID, assignments)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	auditLog(h.logger, r, "badge assignments replaced",
		slog.String("tournament_id", tournamentID.String()),
		slog.Int("assignments", len(stored)))

	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignments": stored}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DistributeHandler обрабатывает POST /tournaments/{tournamentID}/badges/distribute
func (h *BadgeHandler) DistributeHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.badgeService.Distribute(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	auditLog(h.logger, r, "badges redistributed",
		slog.String("tournament_id", tournamentID.String()),
		slog.Int("granted", len(report.Granted)))

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
