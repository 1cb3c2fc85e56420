package tier

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNoTierConfigured = errors.New("no tier configured")
	ErrDuplicateRole    = errors.New("role is mapped to more than one tier")
)

// Tier is a named rating band mapped to one guild role.
type Tier struct {
	Name      string
	MinRating int
	RoleID    string
}

// Table is an immutable tier list sorted by MinRating, highest first.
type Table struct {
	tiers []Tier
}

// NewTable drops tiers without a role, sorts the rest and rejects
// two tiers sharing a role. An empty result is valid; Resolve reports it.
func NewTable(tiers []Tier) (Table, error) {
	out := make([]Tier, 0, len(tiers))
	seen := make(map[string]string, len(tiers))
	for _, t := range tiers {
		t.Name = strings.TrimSpace(t.Name)
		t.RoleID = strings.TrimSpace(t.RoleID)
		if t.RoleID == "" {
			continue
		}
		if other, ok := seen[t.RoleID]; ok {
			return Table{}, fmt.Errorf("%w: role=%s tiers=%s,%s", ErrDuplicateRole, t.RoleID, other, t.Name)
		}
		seen[t.RoleID] = t.Name
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinRating > out[j].MinRating
	})

	return Table{tiers: out}, nil
}

// Resolve returns the first tier whose floor the rating reaches.
// A rating below every floor lands in the lowest configured tier.
func (t Table) Resolve(rating int) (Tier, error) {
	if len(t.tiers) == 0 {
		return Tier{}, ErrNoTierConfigured
	}
	for _, candidate := range t.tiers {
		if rating >= candidate.MinRating {
			return candidate, nil
		}
	}
	return t.tiers[len(t.tiers)-1], nil
}

func (t Table) Len() int {
	return len(t.tiers)
}

func (t Table) Tiers() []Tier {
	return append([]Tier(nil), t.tiers...)
}

// RoleIDs lists every tier role in table order.
func (t Table) RoleIDs() []string {
	out := make([]string, 0, len(t.tiers))
	for _, item := range t.tiers {
		out = append(out, item.RoleID)
	}
	return out
}

// DefaultThresholds are the community's rating floors; role ids are filled from config.
func DefaultThresholds() []Tier {
	return []Tier{
		{Name: "MYTHIC", MinRating: 1800},
		{Name: "DIAMOND", MinRating: 1600},
		{Name: "GOLD", MinRating: 1400},
		{Name: "SILVER", MinRating: 1200},
		{Name: "BRONZE", MinRating: 0},
	}
}
