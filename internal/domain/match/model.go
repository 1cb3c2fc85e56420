package match

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Winner string

const (
	WinnerTeam1 Winner = "team1"
	WinnerTeam2 Winner = "team2"
)

var (
	ErrInvalidRoster = errors.New("invalid roster")
	ErrInvalidWinner = errors.New("invalid winner")
	ErrNotPending    = errors.New("match is not pending")
)

// Match is a recorded game between two rosters of player ids.
type Match struct {
	ID          int64
	PublicID    string
	Division    string
	Team1       []string
	Team2       []string
	RoomCode    string
	Status      Status
	Winner      string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.PublicID) == "" {
		return fmt.Errorf("match public id is required")
	}
	if len(m.Team1) == 0 || len(m.Team2) == 0 {
		return fmt.Errorf("%w: both teams need at least one player", ErrInvalidRoster)
	}
	seen := make(map[string]struct{}, len(m.Team1)+len(m.Team2))
	for _, id := range append(append([]string(nil), m.Team1...), m.Team2...) {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: empty player id", ErrInvalidRoster)
		}
		if strings.ContainsAny(id, rosterSeparator) {
			return fmt.Errorf("%w: player id %q contains %q", ErrInvalidRoster, id, rosterSeparator)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: player %s listed twice", ErrInvalidRoster, id)
		}
		seen[id] = struct{}{}
	}
	if strings.TrimSpace(m.RoomCode) == "" {
		return fmt.Errorf("match room code is required")
	}
	return nil
}

// PlayerIDs lists both rosters, team1 first.
func (m Match) PlayerIDs() []string {
	out := make([]string, 0, len(m.Team1)+len(m.Team2))
	out = append(out, m.Team1...)
	return append(out, m.Team2...)
}

func ParseWinner(raw string) (Winner, error) {
	switch Winner(strings.ToLower(strings.TrimSpace(raw))) {
	case WinnerTeam1:
		return WinnerTeam1, nil
	case WinnerTeam2:
		return WinnerTeam2, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidWinner, raw)
	}
}

const rosterSeparator = ","

// Discord snowflakes overflow float64, so numbers stay textual.
var rosterDecoder = sonic.Config{UseNumber: true}.Froze()

// FormatRoster stores a roster as a comma separated list.
func FormatRoster(ids []string) string {
	return strings.Join(ids, rosterSeparator)
}

// ParseRoster reads a stored roster. Rows written by the match bot hold a
// JSON array (numbers or strings); rows written by the API hold a comma list.
func ParseRoster(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var items []any
		if err := rosterDecoder.UnmarshalFromString(raw, &items); err == nil {
			out := make([]string, 0, len(items))
			for _, item := range items {
				id := strings.TrimSpace(rosterItemString(item))
				if id != "" {
					out = append(out, id)
				}
			}
			return out
		}
		raw = strings.Trim(raw, "[]")
	}

	parts := strings.Split(raw, rosterSeparator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		id := strings.Trim(strings.TrimSpace(part), `"'`)
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func rosterItemString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return fmt.Sprint(t)
	}
}
