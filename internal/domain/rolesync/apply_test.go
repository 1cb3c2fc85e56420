package rolesync_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/riskibarqy/prissleague/internal/domain/rolesync"
	rolesyncmock "github.com/riskibarqy/prissleague/internal/mocks/domain/rolesync"
	"go.uber.org/mock/gomock"
)

func TestApplyPlan_AddsBeforeRemoving(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := rolesyncmock.NewMockGuildClient(ctrl)

	gomock.InOrder(
		client.EXPECT().AddRole(gomock.Any(), "m1", "gold").Return(nil),
		client.EXPECT().RemoveRole(gomock.Any(), "m1", "silver").Return(nil),
		client.EXPECT().RemoveRole(gomock.Any(), "m1", "bronze").Return(nil),
	)

	plan := rolesync.Plan{MemberID: "m1", Add: "gold", Remove: []string{"silver", "bronze"}}
	result := rolesync.ApplyPlan(context.Background(), client, plan, time.Second)

	if !result.Added || !slices.Equal(result.Removed, []string{"silver", "bronze"}) {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Failed() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestApplyPlan_FailureDoesNotStopRemainingCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := rolesyncmock.NewMockGuildClient(ctrl)

	errForbidden := errors.New("missing permissions")
	client.EXPECT().AddRole(gomock.Any(), "m1", "gold").Return(errForbidden)
	client.EXPECT().RemoveRole(gomock.Any(), "m1", "silver").Return(nil)

	plan := rolesync.Plan{MemberID: "m1", Add: "gold", Remove: []string{"silver"}}
	result := rolesync.ApplyPlan(context.Background(), client, plan, time.Second)

	if result.Added {
		t.Fatalf("add should not be reported as applied")
	}
	if !slices.Equal(result.Removed, []string{"silver"}) {
		t.Fatalf("unexpected removed roles: %v", result.Removed)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], errForbidden) {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestApplyPlan_CallsCarryDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := rolesyncmock.NewMockGuildClient(ctrl)

	client.EXPECT().
		RemoveRole(gomock.Any(), "m1", "silver").
		DoAndReturn(func(ctx context.Context, _, _ string) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Fatalf("expected call context to carry a deadline")
			}
			return nil
		})

	plan := rolesync.Plan{MemberID: "m1", Remove: []string{"silver"}}
	_ = rolesync.ApplyPlan(context.Background(), client, plan, 50*time.Millisecond)
}

func TestApplyPlan_EmptyPlanMakesNoCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := rolesyncmock.NewMockGuildClient(ctrl)

	result := rolesync.ApplyPlan(context.Background(), client, rolesync.Plan{MemberID: "m1"}, time.Second)
	if result.Changed() || result.Failed() {
		t.Fatalf("unexpected result for empty plan: %+v", result)
	}
}
