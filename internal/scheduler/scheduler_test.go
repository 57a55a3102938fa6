package scheduler_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/gameshelf/newsletter/internal/bus"
	"github.com/gameshelf/newsletter/internal/scheduler"
)

func TestNew_ValidSpec(t *testing.T) {
	b := bus.New(4, zap.NewNop())
	s, err := scheduler.New("UTC", b, zap.NewNop(),
		scheduler.Job{Name: "send-newsletter", Spec: "30 8 * * 1"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s == nil {
		t.Fatal("expected a scheduler")
	}
}

func TestNew_MalformedSpec(t *testing.T) {
	b := bus.New(4, zap.NewNop())

	tests := []struct {
		name string
		spec string
	}{
		{"garbage", "not a cron spec"},
		{"too many fields", "0 30 8 * * 1"},
		{"descriptor rejected by 5-field parser", "@weekly"},
		{"out of range minute", "61 8 * * 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := scheduler.New("UTC", b, zap.NewNop(),
				scheduler.Job{Name: "send-newsletter", Spec: tc.spec},
			)
			if err == nil {
				t.Fatalf("expected spec %q to be rejected at construction", tc.spec)
			}
		})
	}
}

func TestNew_UnknownTimezone(t *testing.T) {
	b := bus.New(4, zap.NewNop())
	_, err := scheduler.New("Mars/Olympus_Mons", b, zap.NewNop())
	if err == nil {
		t.Fatal("expected an error for an unknown timezone")
	}
}
