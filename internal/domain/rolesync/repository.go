package rolesync

import (
	"context"
	"time"
)

// GuildClient is the chat platform seen by the role sync, bound to one guild.
// Member reports found=false for a user that is not (or no longer) a member.
type GuildClient interface {
	FetchGuild(ctx context.Context) (Guild, error)
	Member(ctx context.Context, memberID string) (member Member, found bool, err error)
	RoleExists(ctx context.Context, roleID string) (bool, error)
	AddRole(ctx context.Context, memberID, roleID string) error
	RemoveRole(ctx context.Context, memberID, roleID string) error
}

// Notifier posts operator-facing progress messages.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Locker provides mutual exclusion between sync runs, possibly across processes.
// ok=false means another holder owns key.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}
