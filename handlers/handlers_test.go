package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/tournament-bracket/brackets"
	"github.com/Dosada05/tournament-bracket/models"
	"github.com/Dosada05/tournament-bracket/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubBracketService struct {
	view *brackets.BracketView
	err  error
}

func (s *stubBracketService) GenerateBracket(context.Context, uuid.UUID) (*brackets.BracketView, error) {
	return s.view, s.err
}

func (s *stubBracketService) ResetBracket(context.Context, uuid.UUID) (*brackets.BracketView, error) {
	return s.view, s.err
}

func (s *stubBracketService) GetBracketView(context.Context, uuid.UUID) (*brackets.BracketView, error) {
	return s.view, s.err
}

func (s *stubBracketService) ListBrackets(context.Context, uuid.UUID) ([]*models.Bracket, error) {
	return []*models.Bracket{}, s.err
}

type recordedCall struct {
	bracketID  uuid.UUID
	matchID    string
	scoreA     int
	scoreB     int
	forfeiting models.Slot
}

type stubMatchService struct {
	calls []recordedCall
	err   error
}

func (s *stubMatchService) RecordResult(_ context.Context, bracketID uuid.UUID, matchID string, scoreA, scoreB int) (*services.MatchResult, error) {
	s.calls = append(s.calls, recordedCall{bracketID: bracketID, matchID: matchID, scoreA: scoreA, scoreB: scoreB})
	if s.err != nil {
		return nil, s.err
	}
	return &services.MatchResult{Match: &models.Match{ID: matchID, ScoreA: scoreA, ScoreB: scoreB}}, nil
}

func (s *stubMatchService) RecordForfeit(_ context.Context, bracketID uuid.UUID, matchID string, forfeiting models.Slot) (*services.MatchResult, error) {
	s.calls = append(s.calls, recordedCall{bracketID: bracketID, matchID: matchID, forfeiting: forfeiting})
	if s.err != nil {
		return nil, s.err
	}
	return &services.MatchResult{Match: &models.Match{ID: matchID, Status: models.MatchWalkover}}, nil
}

func newTestRouter(bs services.BracketService, ms services.MatchService) http.Handler {
	r := chi.NewRouter()
	bh := NewBracketHandler(bs, discardLogger())
	mh := NewMatchHandler(ms, discardLogger())
	r.Get("/tournaments/{tournamentID}/bracket", bh.GetHandler)
	r.Post("/tournaments/{tournamentID}/bracket", bh.GenerateHandler)
	r.Post("/tournaments/{tournamentID}/bracket/reset", bh.ResetHandler)
	r.Get("/tournaments/{tournamentID}/brackets", bh.ListHandler)
	r.Put("/brackets/{bracketID}/matches/{matchID}/result", mh.RecordResultHandler)
	r.Post("/brackets/{bracketID}/matches/{matchID}/forfeit", mh.RecordForfeitHandler)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBracketHandler_Get(t *testing.T) {
	tournamentID := uuid.New()
	view := &brackets.BracketView{BracketID: uuid.New(), TournamentID: tournamentID, TournamentName: "Cup"}

	rec := do(t, newTestRouter(&stubBracketService{view: view}, nil), http.MethodGet, "/tournaments/"+tournamentID.String()+"/bracket", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Bracket brackets.BracketView `json:"bracket"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Cup", body.Bracket.TournamentName)

	rec = do(t, newTestRouter(&stubBracketService{err: services.ErrBracketNotFound}, nil), http.MethodGet, "/tournaments/"+tournamentID.String()+"/bracket", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, newTestRouter(&stubBracketService{}, nil), http.MethodGet, "/tournaments/not-a-uuid/bracket", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBracketHandler_GenerateErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"insufficient participants", brackets.ErrInsufficientParticipants, http.StatusConflict},
		{"already exists", services.ErrBracketAlreadyExists, http.StatusConflict},
		{"tournament missing", services.ErrTournamentNotFound, http.StatusNotFound},
		{"validation", fmt.Errorf("%w: bad input", services.ErrValidation), http.StatusUnprocessableEntity},
		{"collaborator", fmt.Errorf("%w: store bracket: %w", services.ErrCollaborator, errors.New("connection reset")), http.StatusBadGateway},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubBracketService{err: tt.err}, nil)
			rec := do(t, router, http.MethodPost, "/tournaments/"+uuid.NewString()+"/bracket", "")
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body, "error")
		})
	}
}

func TestBracketHandler_GenerateAndReset(t *testing.T) {
	view := &brackets.BracketView{BracketID: uuid.New()}
	router := newTestRouter(&stubBracketService{view: view}, nil)

	rec := do(t, router, http.MethodPost, "/tournaments/"+uuid.NewString()+"/bracket", "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodPost, "/tournaments/"+uuid.NewString()+"/bracket/reset", "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodGet, "/tournaments/"+uuid.NewString()+"/brackets", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMatchHandler_RecordResult(t *testing.T) {
	ms := &stubMatchService{}
	router := newTestRouter(nil, ms)
	bracketID := uuid.New()
	path := "/brackets/" + bracketID.String() + "/matches/R1M2/result"

	rec := do(t, router, http.MethodPut, path, `{"score_a": 3, "score_b": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ms.calls, 1)
	assert.Equal(t, recordedCall{bracketID: bracketID, matchID: "R1M2", scoreA: 3, scoreB: 1}, ms.calls[0])

	rec = do(t, router, http.MethodPut, path, `{"score_a": 3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, router, http.MethodPut, path, `{"score_a": 3, "score_b": 1, "winner": "A"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPut, path, `{"score_a": "three"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Len(t, ms.calls, 1, "invalid requests never reach the service")
}

func TestMatchHandler_RecordResultErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{brackets.ErrTiedScore, http.StatusUnprocessableEntity},
		{brackets.ErrNegativeScore, http.StatusUnprocessableEntity},
		{brackets.ErrMatchNotFound, http.StatusNotFound},
		{services.ErrBracketNotFound, http.StatusNotFound},
		{brackets.ErrSlotsNotFilled, http.StatusConflict},
		{brackets.ErrResultLocked, http.StatusConflict},
		{services.ErrBracketInactive, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			router := newTestRouter(nil, &stubMatchService{err: tt.err})
			rec := do(t, router, http.MethodPut, "/brackets/"+uuid.NewString()+"/matches/R1M1/result", `{"score_a": 2, "score_b": 2}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestMatchHandler_RecordForfeit(t *testing.T) {
	ms := &stubMatchService{}
	router := newTestRouter(nil, ms)

	rec := do(t, router, http.MethodPost, "/brackets/"+uuid.NewString()+"/matches/R2M1/forfeit", `{"forfeiting_slot": "B"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ms.calls, 1)
	assert.Equal(t, models.SlotB, ms.calls[0].forfeiting)
	assert.Equal(t, "R2M1", ms.calls[0].matchID)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(fakePinger{}).Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(fakePinger{err: errors.New("down")}).Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
