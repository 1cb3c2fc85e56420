package rolesync

import (
	"context"
	"fmt"
	"time"
)

// ApplyPlan performs the add before any removal. Every call runs under its
// own timeout and a failed call does not stop the remaining ones.
func ApplyPlan(ctx context.Context, client GuildClient, plan Plan, callTimeout time.Duration) Result {
	var result Result
	if plan.IsEmpty() {
		return result
	}

	if plan.Add != "" {
		err := withTimeout(ctx, callTimeout, func(ctx context.Context) error {
			return client.AddRole(ctx, plan.MemberID, plan.Add)
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("add role=%s: %w", plan.Add, err))
		} else {
			result.Added = true
		}
	}

	for _, roleID := range plan.Remove {
		err := withTimeout(ctx, callTimeout, func(ctx context.Context) error {
			return client.RemoveRole(ctx, plan.MemberID, roleID)
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("remove role=%s: %w", roleID, err))
			continue
		}
		result.Removed = append(result.Removed, roleID)
	}

	return result
}

func withTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(callCtx)
}
