package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mercatino/vendor-api/internal/core/domain"
)

func TestRunLifecycleAllStepsInOrder(t *testing.T) {
	var order []string
	err := runLifecycle(context.Background(), "demo", []lifecycleStep{
		{"first", func(ctx context.Context) error { order = append(order, "first"); return nil }},
		{"second", func(ctx context.Context) error { order = append(order, "second"); return nil }},
	})
	if err != nil {
		t.Fatalf("runLifecycle: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected step order %v", order)
	}
}

func TestRunLifecycleFirstStepFailureIsBare(t *testing.T) {
	boom := errors.New("insert failed")
	err := runLifecycle(context.Background(), "demo", []lifecycleStep{
		{"first", func(ctx context.Context) error { return boom }},
		{"second", func(ctx context.Context) error { t.Fatal("second step ran"); return nil }},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected bare error, got %v", err)
	}
	var pc *domain.PartialCommitError
	if errors.As(err, &pc) {
		t.Fatalf("first-step failure must not be a partial commit: %v", err)
	}
}

func TestRunLifecycleLaterStepFailureIsPartial(t *testing.T) {
	boom := errors.New("register failed")
	err := runLifecycle(context.Background(), "demo", []lifecycleStep{
		{"first", func(ctx context.Context) error { return nil }},
		{"second", func(ctx context.Context) error { return boom }},
		{"third", func(ctx context.Context) error { t.Fatal("third step ran"); return nil }},
	})

	var pc *domain.PartialCommitError
	if !errors.As(err, &pc) {
		t.Fatalf("expected PartialCommitError, got %v", err)
	}
	if pc.Protocol != "demo" || pc.Step != "second" {
		t.Fatalf("unexpected attribution: protocol %q step %q", pc.Protocol, pc.Step)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("cause not preserved: %v", err)
	}
}
