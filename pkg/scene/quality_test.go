package scene

import (
	"testing"

	"github.com/vanderheijden86/orbital/pkg/model"
)

func feed(m *FrameMetrics, fps float64, frames int) {
	for i := 0; i < frames; i++ {
		m.RecordDelta(1.0 / fps)
	}
}

func TestFrameMetrics_RollingAverage(t *testing.T) {
	var m FrameMetrics

	if _, ok := m.AverageFPS(); ok {
		t.Fatal("empty window should report no average")
	}

	feed(&m, 60, 10)
	avg, ok := m.AverageFPS()
	if !ok || avg < 59.9 || avg > 60.1 {
		t.Errorf("avg = %v, want ~60", avg)
	}

	// Fill the window with slow frames; old fast samples fall out.
	feed(&m, 20, fpsWindow)
	avg, _ = m.AverageFPS()
	if avg < 19.9 || avg > 20.1 {
		t.Errorf("avg after window rollover = %v, want ~20", avg)
	}
	if m.SampleCount() != fpsWindow {
		t.Errorf("sample count = %d, want %d", m.SampleCount(), fpsWindow)
	}
}

func TestFrameMetrics_IgnoresNonPositiveDelta(t *testing.T) {
	var m FrameMetrics
	m.RecordDelta(0)
	m.RecordDelta(-0.01)
	if m.SampleCount() != 0 {
		t.Errorf("non-positive deltas should be ignored, count = %d", m.SampleCount())
	}
}

// observeFor feeds a constant fps observation for the given number of
// seconds of simulated time and reports whether the tier changed.
func observeFor(tm *TierMachine, fps, seconds float64) bool {
	changed := false
	const delta = 1.0 / 30
	for elapsed := 0.0; elapsed < seconds; elapsed += delta {
		if tm.Observe(fps, true, delta) {
			changed = true
		}
	}
	return changed
}

func TestTierMachine_StartsHigh(t *testing.T) {
	tm := NewTierMachine()
	if tm.Tier() != model.QualityHigh {
		t.Errorf("initial tier = %v, want high", tm.Tier())
	}
}

func TestTierMachine_NoSamplesKeepsTier(t *testing.T) {
	tm := NewTierMachine()
	for i := 0; i < 100; i++ {
		if tm.Observe(0, false, 1.0/30) {
			t.Fatal("tier changed with no samples")
		}
	}
	if tm.Tier() != model.QualityHigh {
		t.Errorf("tier = %v, want high", tm.Tier())
	}
}

func TestTierMachine_DegradeNeedsDwell(t *testing.T) {
	tm := NewTierMachine()

	// One second below threshold is not enough.
	if observeFor(tm, 40, 1.0) {
		t.Fatal("degraded before dwell time elapsed")
	}
	if tm.Tier() != model.QualityHigh {
		t.Fatalf("tier = %v, want high", tm.Tier())
	}

	// Crossing the 1.5s dwell fires the downgrade once.
	if !observeFor(tm, 40, 1.0) {
		t.Fatal("expected downgrade after dwell")
	}
	if tm.Tier() != model.QualityMedium {
		t.Errorf("tier = %v, want medium", tm.Tier())
	}
}

func TestTierMachine_RecoveryCancelsPendingDegrade(t *testing.T) {
	tm := NewTierMachine()

	observeFor(tm, 40, 1.0) // Pending but below dwell
	observeFor(tm, 60, 0.5) // Back in the healthy band
	if observeFor(tm, 40, 1.0) {
		t.Fatal("dwell should have reset on recovery")
	}
	if tm.Tier() != model.QualityHigh {
		t.Errorf("tier = %v, want high", tm.Tier())
	}
}

func TestTierMachine_UpgradeIsReluctant(t *testing.T) {
	tm := NewTierMachine()
	observeFor(tm, 40, 2.0)
	if tm.Tier() != model.QualityMedium {
		t.Fatalf("setup: tier = %v, want medium", tm.Tier())
	}

	// Healthy but not above the upgrade threshold: stay put. This is
	// the hysteresis band between 50 and 56.
	observeFor(tm, 53, 10)
	if tm.Tier() != model.QualityMedium {
		t.Fatalf("tier = %v, want medium inside hysteresis band", tm.Tier())
	}

	// Above the upgrade threshold but short of the 4s dwell: stay put.
	observeFor(tm, 58, 3.0)
	if tm.Tier() != model.QualityMedium {
		t.Fatalf("upgraded too eagerly, tier = %v", tm.Tier())
	}

	observeFor(tm, 58, 1.5)
	if tm.Tier() != model.QualityHigh {
		t.Errorf("tier = %v, want high after upgrade dwell", tm.Tier())
	}
}

func TestTierMachine_DegradesToLowAndStops(t *testing.T) {
	tm := NewTierMachine()
	observeFor(tm, 30, 2.0)
	observeFor(tm, 30, 2.0)
	if tm.Tier() != model.QualityLow {
		t.Fatalf("tier = %v, want low", tm.Tier())
	}
	// Already at the floor; further bad frames change nothing.
	if observeFor(tm, 30, 5.0) {
		t.Error("tier changed below low")
	}
}

func TestTierMachine_CustomThresholds(t *testing.T) {
	tm := NewTierMachineWith(TierThresholds{
		DegradeBelowFPS: 25,
		UpgradeAboveFPS: 28,
		DegradeDwell:    0.5,
		UpgradeDwell:    1.0,
	})

	// 40 fps is fine under these thresholds.
	observeFor(tm, 40, 5.0)
	if tm.Tier() != model.QualityHigh {
		t.Fatalf("tier = %v, want high at 40 fps", tm.Tier())
	}

	observeFor(tm, 20, 1.0)
	if tm.Tier() != model.QualityMedium {
		t.Errorf("tier = %v, want medium after short custom dwell", tm.Tier())
	}
}

func TestTierMachine_Reset(t *testing.T) {
	tm := NewTierMachine()
	observeFor(tm, 30, 2.0)
	tm.Reset()
	if tm.Tier() != model.QualityHigh {
		t.Errorf("tier after reset = %v, want high", tm.Tier())
	}
}
