package app

import (
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prissleague/internal/config"
	"github.com/riskibarqy/prissleague/internal/domain/match"
	"github.com/riskibarqy/prissleague/internal/domain/player"
	cacherepo "github.com/riskibarqy/prissleague/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/prissleague/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prissleague/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/prissleague/internal/platform/cache"
)

type Repositories struct {
	Players player.Repository
	Matches match.Repository
}

// NewRepositories uses Postgres when db is set, else a seeded in-memory store.
// Both are wrapped by the read cache when CACHE_ENABLED is on.
func NewRepositories(cfg config.Config, db *sqlx.DB) Repositories {
	var repos Repositories
	if db != nil {
		repos = Repositories{
			Players: postgres.NewPlayerRepository(db),
			Matches: postgres.NewMatchRepository(db),
		}
	} else {
		players := memory.NewPlayerRepository(memory.SeedPlayers())
		repos = Repositories{
			Players: players,
			Matches: memory.NewMatchRepository(players),
		}
	}

	if !cfg.CacheEnabled {
		return repos
	}

	store := basecache.NewStore(cfg.CacheTTL)
	return Repositories{
		Players: cacherepo.NewPlayerRepository(repos.Players, store),
		Matches: cacherepo.NewMatchRepository(repos.Matches, store),
	}
}
