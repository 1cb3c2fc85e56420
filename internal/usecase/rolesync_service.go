package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/prissleague/internal/domain/player"
	"github.com/riskibarqy/prissleague/internal/domain/rolesync"
	"github.com/riskibarqy/prissleague/internal/domain/tier"
	"github.com/riskibarqy/prissleague/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultRoleSyncCallTimeout = 10 * time.Second
	defaultRoleSyncLockKey     = "prissleague:rolesync:run"
	defaultRoleSyncLockTTL     = 15 * time.Minute
	maxRoleSyncConcurrency     = 16
)

type RoleSyncConfig struct {
	Division    string
	Tiers       tier.Table
	CallTimeout time.Duration
	// Concurrency bounds how many members are reconciled at once.
	Concurrency int
	LockKey     string
	LockTTL     time.Duration
}

// RoleSyncReport summarizes one reconciliation run.
type RoleSyncReport struct {
	RunID        string          `json:"run_id"`
	Division     string          `json:"division"`
	PlayerCount  int             `json:"player_count"`
	Updated      int             `json:"updated"`
	Unchanged    int             `json:"unchanged"`
	Departed     int             `json:"departed"`
	Skipped      int             `json:"skipped"`
	Failed       int             `json:"failed"`
	RolesAdded   int             `json:"roles_added"`
	RolesRemoved int             `json:"roles_removed"`
	Failures     []MemberFailure `json:"failures,omitempty"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   time.Time       `json:"finished_at"`
}

type MemberFailure struct {
	MemberID string `json:"member_id"`
	Error    string `json:"error"`
}

type memberStatus int

const (
	memberUnchanged memberStatus = iota
	memberUpdated
	memberDeparted
	memberSkipped
	memberFailed
)

type memberOutcome struct {
	memberID string
	status   memberStatus
	added    int
	removed  int
	err      error
}

type RoleSyncService struct {
	cfg        RoleSyncConfig
	playerRepo player.Repository
	guild      rolesync.GuildClient
	notifier   rolesync.Notifier
	locker     rolesync.Locker
	logger     *logging.Logger
	now        func() time.Time

	running atomic.Bool
}

// NewRoleSyncService fails when no tier carries a role, since every run
// would then be a no-op.
func NewRoleSyncService(
	cfg RoleSyncConfig,
	playerRepo player.Repository,
	guild rolesync.GuildClient,
	notifier rolesync.Notifier,
	locker rolesync.Locker,
	logger *logging.Logger,
) (*RoleSyncService, error) {
	if cfg.Tiers.Len() == 0 {
		return nil, fmt.Errorf("%w: role sync needs at least one tier role", tier.ErrNoTierConfigured)
	}
	if playerRepo == nil || guild == nil {
		return nil, fmt.Errorf("%w: role sync needs a player repository and a guild client", ErrDependencyUnavailable)
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("rolesync")

	cfg.Division = strings.TrimSpace(cfg.Division)
	if cfg.Division == "" {
		cfg.Division = player.DefaultDivision
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultRoleSyncCallTimeout
	}
	cfg.Concurrency = min(max(cfg.Concurrency, 1), maxRoleSyncConcurrency)
	if strings.TrimSpace(cfg.LockKey) == "" {
		cfg.LockKey = defaultRoleSyncLockKey
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultRoleSyncLockTTL
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}

	return &RoleSyncService{
		cfg:        cfg,
		playerRepo: playerRepo,
		guild:      guild,
		notifier:   notifier,
		locker:     locker,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Run reconciles tier roles for every player of the configured division.
// Failing to read the guild or the player list aborts the run; per-member
// failures are recorded in the report and never returned.
func (s *RoleSyncService) Run(ctx context.Context) (RoleSyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoleSyncService.Run")
	defer span.End()

	if !s.running.CompareAndSwap(false, true) {
		return RoleSyncReport{}, fmt.Errorf("%w: role sync is already running in this process", ErrRunInProgress)
	}
	defer s.running.Store(false)

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, s.cfg.LockKey, s.cfg.LockTTL)
		if err != nil {
			return RoleSyncReport{}, fmt.Errorf("%w: acquire role sync lock: %v", ErrDependencyUnavailable, err)
		}
		if !ok {
			return RoleSyncReport{}, fmt.Errorf("%w: lock=%s", ErrRunInProgress, s.cfg.LockKey)
		}
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.CallTimeout)
			defer cancel()
			if err := release(releaseCtx); err != nil {
				s.logger.WarnContext(ctx, "release role sync lock failed", "lock", s.cfg.LockKey, "error", err)
			}
		}()
	}

	report := RoleSyncReport{
		RunID:     uuid.NewString(),
		Division:  s.cfg.Division,
		StartedAt: s.now().UTC(),
	}
	logger := s.logger.With("run_id", report.RunID)
	span.SetAttributes(attribute.String("rolesync.run_id", report.RunID))

	guild, err := s.fetchGuild(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: fetch guild: %v", ErrDependencyUnavailable, err)
	}
	players, err := s.playerRepo.ListByDivision(ctx, s.cfg.Division)
	if err != nil {
		return report, fmt.Errorf("list players by division: %w", err)
	}
	report.PlayerCount = len(players)
	span.SetAttributes(attribute.Int("rolesync.player_count", len(players)))

	logger.InfoContext(ctx, "role sync started", "guild_id", guild.ID, "division", s.cfg.Division, "players", len(players))
	s.notify(ctx, logger, "Syncing tier roles for "+strconv.Itoa(len(players))+" players.")

	outcomes, err := s.reconcileAll(ctx, logger, players)
	if err != nil {
		return report, err
	}
	for _, outcome := range outcomes {
		report.add(outcome)
	}
	report.FinishedAt = s.now().UTC()

	logger.InfoContext(ctx, "role sync finished",
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"departed", report.Departed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"duration", report.FinishedAt.Sub(report.StartedAt).String(),
	)
	s.notify(ctx, logger, report.Summary())

	return report, nil
}

func (s *RoleSyncService) reconcileAll(ctx context.Context, logger *logging.Logger, players []player.Player) ([]memberOutcome, error) {
	outcomes := make([]memberOutcome, len(players))
	if len(players) == 0 {
		return outcomes, nil
	}

	pool, err := ants.NewPool(s.cfg.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	roles := newRoleExistenceCache(s.guild, s.cfg.CallTimeout)
	tierRoleIDs := s.cfg.Tiers.RoleIDs()

	var workers sync.WaitGroup
	for i, item := range players {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			outcomes[i] = s.reconcileMember(ctx, logger, item, roles, tierRoleIDs)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit member to worker pool: %w", err)
		}
	}
	workers.Wait()

	return outcomes, nil
}

func (s *RoleSyncService) reconcileMember(
	ctx context.Context,
	logger *logging.Logger,
	item player.Player,
	roles *roleExistenceCache,
	tierRoleIDs []string,
) memberOutcome {
	memberID := strings.TrimSpace(item.DiscordID)
	outcome := memberOutcome{memberID: memberID}
	if memberID == "" {
		outcome.status = memberSkipped
		return outcome
	}
	if err := ctx.Err(); err != nil {
		return failedOutcome(outcome, err)
	}

	var (
		member rolesync.Member
		found  bool
	)
	err := s.withCallTimeout(ctx, func(ctx context.Context) error {
		var err error
		member, found, err = s.guild.Member(ctx, memberID)
		return err
	})
	if err != nil {
		logger.WarnContext(ctx, "fetch guild member failed", "member_id", memberID, "error", err)
		return failedOutcome(outcome, fmt.Errorf("fetch member: %w", err))
	}
	if !found {
		logger.DebugContext(ctx, "player is not a guild member", "member_id", memberID)
		outcome.status = memberDeparted
		return outcome
	}

	target, err := s.cfg.Tiers.Resolve(item.Rating)
	if err != nil {
		return failedOutcome(outcome, err)
	}

	exists, err := roles.exists(ctx, target.RoleID)
	if err != nil {
		logger.WarnContext(ctx, "fetch tier role failed", "member_id", memberID, "role_id", target.RoleID, "error", err)
		return failedOutcome(outcome, fmt.Errorf("fetch role: %w", err))
	}
	if !exists {
		logger.WarnContext(ctx, "tier role is missing from guild", "member_id", memberID, "tier", target.Name, "role_id", target.RoleID)
		outcome.status = memberSkipped
		return outcome
	}

	plan := rolesync.ComputePlan(member, target.RoleID, tierRoleIDs)
	if plan.IsEmpty() {
		outcome.status = memberUnchanged
		return outcome
	}

	result := rolesync.ApplyPlan(ctx, s.guild, plan, s.cfg.CallTimeout)
	if result.Added {
		outcome.added = 1
	}
	outcome.removed = len(result.Removed)
	for _, callErr := range result.Errors {
		logger.WarnContext(ctx, "update member roles failed", "member_id", memberID, "tier", target.Name, "error", callErr)
	}
	if result.Failed() {
		return failedOutcome(outcome, result.Errors[0])
	}

	logger.DebugContext(ctx, "member roles updated", "member_id", memberID, "tier", target.Name, "added", result.Added, "removed", result.Removed)
	outcome.status = memberUpdated
	return outcome
}

func (s *RoleSyncService) fetchGuild(ctx context.Context) (rolesync.Guild, error) {
	var guild rolesync.Guild
	err := s.withCallTimeout(ctx, func(ctx context.Context) error {
		var err error
		guild, err = s.guild.FetchGuild(ctx)
		return err
	})
	return guild, err
}

func (s *RoleSyncService) notify(ctx context.Context, logger *logging.Logger, message string) {
	err := s.withCallTimeout(ctx, func(ctx context.Context) error {
		return s.notifier.Notify(ctx, message)
	})
	if err != nil {
		logger.WarnContext(ctx, "send role sync notification failed", "error", err)
	}
}

func (s *RoleSyncService) withCallTimeout(ctx context.Context, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()
	return fn(callCtx)
}

func failedOutcome(outcome memberOutcome, err error) memberOutcome {
	outcome.status = memberFailed
	outcome.err = err
	return outcome
}

func (r *RoleSyncReport) add(outcome memberOutcome) {
	r.RolesAdded += outcome.added
	r.RolesRemoved += outcome.removed
	switch outcome.status {
	case memberUpdated:
		r.Updated++
	case memberUnchanged:
		r.Unchanged++
	case memberDeparted:
		r.Departed++
	case memberSkipped:
		r.Skipped++
	case memberFailed:
		r.Failed++
		r.Failures = append(r.Failures, MemberFailure{MemberID: outcome.memberID, Error: outcome.err.Error()})
	}
}

// Summary is the operator-facing end of run message.
func (r RoleSyncReport) Summary() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("Tier role sync finished: ")
	_, _ = buf.WriteString(strconv.Itoa(r.Updated))
	_, _ = buf.WriteString(" updated, ")
	_, _ = buf.WriteString(strconv.Itoa(r.Unchanged))
	_, _ = buf.WriteString(" unchanged")
	if r.Departed > 0 {
		_, _ = buf.WriteString(", ")
		_, _ = buf.WriteString(strconv.Itoa(r.Departed))
		_, _ = buf.WriteString(" not in guild")
	}
	if r.Skipped > 0 {
		_, _ = buf.WriteString(", ")
		_, _ = buf.WriteString(strconv.Itoa(r.Skipped))
		_, _ = buf.WriteString(" skipped")
	}
	if r.Failed > 0 {
		_, _ = buf.WriteString(", ")
		_, _ = buf.WriteString(strconv.Itoa(r.Failed))
		_, _ = buf.WriteString(" failed")
	}
	_ = buf.WriteByte('.')

	return buf.String()
}

// roleExistenceCache remembers role lookups for the duration of one run.
type roleExistenceCache struct {
	guild       rolesync.GuildClient
	callTimeout time.Duration

	mu    sync.Mutex
	known map[string]bool
}

func newRoleExistenceCache(guild rolesync.GuildClient, callTimeout time.Duration) *roleExistenceCache {
	return &roleExistenceCache{
		guild:       guild,
		callTimeout: callTimeout,
		known:       make(map[string]bool),
	}
}

func (c *roleExistenceCache) exists(ctx context.Context, roleID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if exists, ok := c.known[roleID]; ok {
		return exists, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	exists, err := c.guild.RoleExists(callCtx, roleID)
	if err != nil {
		return false, err
	}
	c.known[roleID] = exists
	return exists, nil
}
