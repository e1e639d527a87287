package guidance

import (
	"testing"
	"time"
)

func TestValidate_FirstFixAlwaysAccepted(t *testing.T) {
	fix := fixAt(testBase, time.Now(), -1)

	outcome := Validate(DefaultConfig(), fix, nil)
	if !outcome.Accepted() {
		t.Fatalf("expected first fix to be accepted, got %s (%s)", outcome.Status, outcome.Reason)
	}
}

func TestValidate_JumpRejected(t *testing.T) {
	start := time.Now()
	reference := fixAt(testBase, start, -1)

	// 1600 m in 0.5 s implies 3200 m/s.
	candidate := fixAt(offset(testBase, 1600, 0), start.Add(500*time.Millisecond), -1)

	outcome := Validate(DefaultConfig(), candidate, &reference)
	if outcome.Status != FixRejectedJump {
		t.Fatalf("expected rejected_jump, got %s", outcome.Status)
	}
	if outcome.ImpliedSpeedMetersPerSec < 3000 {
		t.Errorf("expected implied speed around 3200 m/s, got %.1f", outcome.ImpliedSpeedMetersPerSec)
	}
}

func TestValidate_NormalMovementAccepted(t *testing.T) {
	start := time.Now()
	reference := fixAt(testBase, start, -1)

	// 20 m in 1 s: a plausible 20 m/s.
	candidate := fixAt(offset(testBase, 20, 0), start.Add(time.Second), -1)

	outcome := Validate(DefaultConfig(), candidate, &reference)
	if !outcome.Accepted() {
		t.Fatalf("expected acceptance, got %s (%s)", outcome.Status, outcome.Reason)
	}
	if outcome.ImpliedSpeedMetersPerSec < 19 || outcome.ImpliedSpeedMetersPerSec > 21 {
		t.Errorf("expected implied speed ~20 m/s, got %.2f", outcome.ImpliedSpeedMetersPerSec)
	}
}

func TestValidate_TeleportRejectedEvenUnderSpeedCeiling(t *testing.T) {
	// Raise the speed ceiling so only the displacement-within-window rule
	// can fire; this is the guard against corrupted timestamps.
	cfg := DefaultConfig()
	cfg.MaxSpeedMetersPerSec = 10000

	start := time.Now()
	reference := fixAt(testBase, start, -1)
	candidate := fixAt(offset(testBase, 600, 0), start.Add(500*time.Millisecond), -1)

	outcome := Validate(cfg, candidate, &reference)
	if outcome.Status != FixRejectedJump {
		t.Fatalf("expected rejected_jump, got %s", outcome.Status)
	}
}

func TestValidate_NonAdvancingTimestampSkipped(t *testing.T) {
	start := time.Now()
	reference := fixAt(testBase, start, -1)

	tests := []struct {
		name    string
		elapsed time.Duration
	}{
		{"duplicate timestamp", 0},
		{"out of order", -2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := fixAt(offset(testBase, 10, 0), start.Add(tt.elapsed), -1)
			outcome := Validate(DefaultConfig(), candidate, &reference)
			if outcome.Status != FixSkipped {
				t.Fatalf("expected skipped, got %s", outcome.Status)
			}
		})
	}
}
