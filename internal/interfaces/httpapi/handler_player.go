package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/prissleague/internal/domain/player"
	"github.com/riskibarqy/prissleague/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
)

type playerDTO struct {
	DiscordID  string     `json:"discord_id"`
	Name       string     `json:"name"`
	Division   string     `json:"division"`
	SoloElo    int        `json:"solo_elo"`
	SoloWins   int        `json:"solo_wins"`
	SoloLosses int        `json:"solo_losses"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type leaderboardDTO struct {
	Players []playerDTO `json:"players"`
}

type playerEnvelopeDTO struct {
	Player playerDTO `json:"player"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		DiscordID:  p.DiscordID,
		Name:       p.Name,
		Division:   p.Division,
		SoloElo:    p.Rating,
		SoloWins:   p.Wins,
		SoloLosses: p.Losses,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Leaderboard")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	players, err := h.playerService.Leaderboard(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list leaderboard failed", "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardDTO{Players: items})
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer", attribute.String("player.discord_id", r.PathValue("discordID")))
	defer span.End()

	discordID := r.PathValue("discordID")
	p, err := h.playerService.GetPlayer(ctx, discordID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "discord_id", discordID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerEnvelopeDTO{Player: playerToDTO(p)})
}
