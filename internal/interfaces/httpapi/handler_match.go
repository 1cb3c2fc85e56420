package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/prissleague/internal/domain/match"
	"github.com/riskibarqy/prissleague/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
)

type createMatchRequest struct {
	Team1IDs []string `json:"team1_ids" validate:"required,min=1,dive,required,excludesall=0x2C"`
	Team2IDs []string `json:"team2_ids" validate:"required,min=1,dive,required,excludesall=0x2C"`
	RoomCode string   `json:"room_code" validate:"required,max=64"`
	Division string   `json:"division" validate:"omitempty,max=32"`
}

type completeMatchRequest struct {
	Winner string `json:"winner" validate:"required,oneof=team1 team2"`
}

type matchDTO struct {
	ID          int64      `json:"id"`
	PublicID    string     `json:"public_id"`
	Division    string     `json:"division"`
	Team1IDs    []string   `json:"team1_ids"`
	Team2IDs    []string   `json:"team2_ids"`
	RoomCode    string     `json:"room_code"`
	Status      string     `json:"status"`
	Winner      string     `json:"winner,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type matchEnvelopeDTO struct {
	Match matchDTO `json:"match"`
}

type matchResultDTO struct {
	Match   matchDTO               `json:"match"`
	Changes []usecase.RatingChange `json:"changes"`
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:          m.ID,
		PublicID:    m.PublicID,
		Division:    m.Division,
		Team1IDs:    append([]string{}, m.Team1...),
		Team2IDs:    append([]string{}, m.Team2...),
		RoomCode:    m.RoomCode,
		Status:      string(m.Status),
		Winner:      m.Winner,
		CreatedAt:   m.CreatedAt,
		CompletedAt: m.CompletedAt,
	}
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	adminID, _ := adminIDFromContext(ctx)

	var req createMatchRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.matchService.Create(ctx, usecase.CreateMatchInput{
		Team1IDs: req.Team1IDs,
		Team2IDs: req.Team2IDs,
		RoomCode: req.RoomCode,
		Division: req.Division,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "admin_id", adminID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "match created", "admin_id", adminID, "match_id", created.PublicID)
	writeSuccess(ctx, w, http.StatusCreated, matchEnvelopeDTO{Match: matchToDTO(created)})
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch", attribute.String("match.public_id", r.PathValue("matchID")))
	defer span.End()

	matchID := r.PathValue("matchID")
	m, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchEnvelopeDTO{Match: matchToDTO(m)})
}

func (h *Handler) CompleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteMatch", attribute.String("match.public_id", r.PathValue("matchID")))
	defer span.End()

	adminID, _ := adminIDFromContext(ctx)
	matchID := r.PathValue("matchID")

	var req completeMatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchService.Complete(ctx, matchID, req.Winner)
	if err != nil {
		h.logger.WarnContext(ctx, "complete match failed", "admin_id", adminID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "match completed", "admin_id", adminID, "match_id", matchID, "winner", req.Winner)
	writeSuccess(ctx, w, http.StatusOK, matchResultDTO{
		Match:   matchToDTO(result.Match),
		Changes: result.Changes,
	})
}

func (h *Handler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelMatch", attribute.String("match.public_id", r.PathValue("matchID")))
	defer span.End()

	adminID, _ := adminIDFromContext(ctx)
	matchID := r.PathValue("matchID")

	cancelled, err := h.matchService.Cancel(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "cancel match failed", "admin_id", adminID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "match cancelled", "admin_id", adminID, "match_id", matchID)
	writeSuccess(ctx, w, http.StatusOK, matchEnvelopeDTO{Match: matchToDTO(cancelled)})
}
