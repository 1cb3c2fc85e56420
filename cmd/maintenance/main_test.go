package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    invocation
		wantErr bool
	}{
		{name: "cleanup", args: []string{"cleanup-inactive"}, want: invocation{command: cmdCleanupInactive}},
		{name: "cleanup dry run", args: []string{"cleanup-inactive", "-dry-run"}, want: invocation{command: cmdCleanupInactive, dryRun: true}},
		{name: "backfill", args: []string{"backfill-auth-users"}, want: invocation{command: cmdBackfillAuthUsers}},
		{name: "restore dry run", args: []string{"restore-display-names", "--dry-run"}, want: invocation{command: cmdRestoreDisplayNames, dryRun: true}},
		{name: "missing command", args: nil, wantErr: true},
		{name: "unknown command", args: []string{"purge"}, wantErr: true},
		{name: "unknown flag", args: []string{"cleanup-inactive", "-force"}, wantErr: true},
		{name: "extra positional", args: []string{"cleanup-inactive", "now"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseArgs(tc.args, &bytes.Buffer{})
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse args: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected invocation: %+v", got)
			}
		})
	}
}

func TestRun_UsageExitCode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"purge"}, &stdout, &stderr)
	if code != exitUsage {
		t.Fatalf("expected exit %d, got %d", exitUsage, code)
	}
	if !strings.Contains(stderr.String(), "usage:") {
		t.Fatalf("expected usage text, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected empty stdout, got %q", stdout.String())
	}
}

func TestRun_ConfigErrorIsFatal(t *testing.T) {
	t.Setenv("APP_ENV", "nowhere")
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"cleanup-inactive"}, &stdout, &stderr); code != exitFatal {
		t.Fatalf("expected exit %d, got %d", exitFatal, code)
	}
}
