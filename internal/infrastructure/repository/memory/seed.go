package memory

import (
	"time"

	"github.com/riskibarqy/prissleague/internal/domain/player"
)

// SeedPlayers is a small solo ladder spanning every default tier.
func SeedPlayers() []player.Player {
	joined := time.Date(2025, 9, 1, 18, 0, 0, 0, time.UTC)
	lastMatch := time.Date(2026, 2, 14, 21, 30, 0, 0, time.UTC)

	return []player.Player{
		{DiscordID: "180000000000000001", Name: "Nightfall", Division: player.DefaultDivision, Rating: 1875, Wins: 41, Losses: 12, CreatedAt: &joined, UpdatedAt: &lastMatch},
		{DiscordID: "180000000000000002", Name: "Brisk", Division: player.DefaultDivision, Rating: 1620, Wins: 30, Losses: 19, CreatedAt: &joined, UpdatedAt: &lastMatch},
		{DiscordID: "180000000000000003", Name: "Kestrel", Division: player.DefaultDivision, Rating: 1415, Wins: 22, Losses: 20, CreatedAt: &joined, UpdatedAt: &lastMatch},
		{DiscordID: "180000000000000004", Name: "Mirage", Division: player.DefaultDivision, Rating: 1230, Wins: 14, Losses: 18, CreatedAt: &joined, UpdatedAt: &lastMatch},
		{DiscordID: "180000000000000005", Name: "Pebble", Division: player.DefaultDivision, Rating: 980, Wins: 6, Losses: 15, CreatedAt: &joined},
		{DiscordID: "180000000000000006", Name: "Duet", Division: "duo", Rating: 1500, Wins: 9, Losses: 4, CreatedAt: &joined, UpdatedAt: &lastMatch},
	}
}
