package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/prissleague/internal/config"
	"github.com/riskibarqy/prissleague/internal/domain/player"
	"github.com/riskibarqy/prissleague/internal/domain/rolesync"
	"github.com/riskibarqy/prissleague/internal/infrastructure/discord"
	"github.com/riskibarqy/prissleague/internal/infrastructure/runlock"
	"github.com/riskibarqy/prissleague/internal/platform/logging"
	"github.com/riskibarqy/prissleague/internal/usecase"
)

// RoleSync is the assembled role sync process.
type RoleSync struct {
	Scheduler *RoleSyncScheduler
	Service   *usecase.RoleSyncService
	closers   []func() error
}

// Close releases the Discord session and the lock backend.
func (r *RoleSync) Close() error {
	var firstErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewRoleSync validates the role sync settings, opens the Discord gateway
// and wires the sync service to its schedule.
func NewRoleSync(ctx context.Context, cfg config.Config, players player.Repository, logger *logging.Logger) (*RoleSync, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if err := cfg.ValidateRoleSync(); err != nil {
		return nil, err
	}
	settings, err := cfg.RoleSync()
	if err != nil {
		return nil, err
	}

	out := &RoleSync{}
	session, err := discord.OpenSession(ctx, cfg.DiscordBotToken, cfg.DiscordReadyTimeout, logger.Named("discord"))
	if err != nil {
		return nil, err
	}
	out.closers = append(out.closers, session.Close)

	guild, err := discord.NewGuildClient(session, settings.GuildID)
	if err != nil {
		_ = out.Close()
		return nil, err
	}

	var notifier rolesync.Notifier
	if settings.ChannelID != "" {
		channel, err := discord.NewChannelNotifier(session, settings.ChannelID)
		if err != nil {
			_ = out.Close()
			return nil, err
		}
		notifier = channel
	} else {
		logger.Info("ROLE_SYNC_CHANNEL_ID is empty, sync notices go to the log only")
	}

	locker, closeLocker, err := newRunLocker(ctx, settings, logger)
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	out.closers = append(out.closers, closeLocker)

	svc, err := usecase.NewRoleSyncService(usecase.RoleSyncConfig{
		Division:    settings.Division,
		Tiers:       settings.Tiers,
		CallTimeout: settings.CallTimeout,
		Concurrency: settings.Concurrency,
		LockTTL:     settings.LockTTL,
	}, players, guild, notifier, locker, logger)
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	out.Service = svc

	scheduler, err := NewRoleSyncScheduler(settings.Cron, svc, logger)
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	out.Scheduler = scheduler

	logger.InfoContext(ctx, "role sync wired",
		"guild_id", settings.GuildID,
		"division", settings.Division,
		"tiers", settings.Tiers.Len(),
		"cron", settings.Cron,
		"redis_lock", settings.LockRedisAddr != "",
	)

	return out, nil
}

// newRunLocker uses Redis when an address is configured, else an in-process lock.
func newRunLocker(ctx context.Context, settings config.RoleSync, logger *logging.Logger) (rolesync.Locker, func() error, error) {
	if settings.LockRedisAddr == "" {
		return runlock.NewLocalLocker(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     settings.LockRedisAddr,
		Password: settings.LockRedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("%w: ping role sync lock redis: %v", usecase.ErrDependencyUnavailable, err)
	}
	locker, err := runlock.NewRedisLocker(client)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.InfoContext(ctx, "role sync lock uses redis", "addr", settings.LockRedisAddr)

	return locker, client.Close, nil
}
