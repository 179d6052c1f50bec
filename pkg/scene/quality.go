package scene

import "github.com/vanderheijden86/orbital/pkg/model"

// fpsWindow bounds the rolling frame-rate window.
const fpsWindow = 60

// TierThresholds tunes the hysteresis machine. Any values with
// UpgradeAboveFPS > DegradeBelowFPS and UpgradeDwell > DegradeDwell
// keep the machine from thrashing near a boundary.
type TierThresholds struct {
	DegradeBelowFPS float64 // Rolling average below this starts a downgrade
	UpgradeAboveFPS float64 // Rolling average above this starts an upgrade
	DegradeDwell    float64 // Seconds a downgrade must hold before it fires
	UpgradeDwell    float64 // Seconds an upgrade must hold before it fires
}

// DefaultTierThresholds returns the standard tuning. Degrading is
// eager and upgrading is reluctant: the gap between the two rates plus
// the longer upgrade dwell keeps the tier from oscillating when fps
// hovers near a boundary.
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{
		DegradeBelowFPS: 50.0,
		UpgradeAboveFPS: 56.0,
		DegradeDwell:    1.5,
		UpgradeDwell:    4.0,
	}
}

// FrameMetrics keeps a rolling window of frame rates. Not safe for
// concurrent use; the controller serializes access.
type FrameMetrics struct {
	samples [fpsWindow]float64
	next    int
	filled  int
	sum     float64
}

// RecordDelta adds one frame interval (seconds) to the window.
// Non-positive deltas are ignored; they carry no rate information.
func (m *FrameMetrics) RecordDelta(delta float64) {
	if delta <= 0 {
		return
	}
	fps := 1.0 / delta
	if m.filled == fpsWindow {
		m.sum -= m.samples[m.next]
	} else {
		m.filled++
	}
	m.samples[m.next] = fps
	m.sum += fps
	m.next = (m.next + 1) % fpsWindow
}

// AverageFPS returns the rolling average, and false when no frames
// have been recorded yet.
func (m *FrameMetrics) AverageFPS() (float64, bool) {
	if m.filled == 0 {
		return 0, false
	}
	return m.sum / float64(m.filled), true
}

// SampleCount returns how many frames are in the window.
func (m *FrameMetrics) SampleCount() int { return m.filled }

// TierMachine is the hysteresis state machine deciding the quality
// tier from the rolling frame rate. A pending transition must hold for
// its dwell time before it fires; fps moving back into the neutral
// band cancels it.
type TierMachine struct {
	tier model.QualityTier
	th   TierThresholds

	pendingDown bool
	pendingUp   bool
	dwell       float64 // Seconds accumulated toward the pending transition
}

// NewTierMachine starts at high quality with the default thresholds.
// With no evidence about the machine yet, rendering pretty and
// correcting downward beats the reverse.
func NewTierMachine() *TierMachine {
	return NewTierMachineWith(DefaultTierThresholds())
}

// NewTierMachineWith starts at high quality with custom thresholds.
func NewTierMachineWith(th TierThresholds) *TierMachine {
	return &TierMachine{tier: model.QualityHigh, th: th}
}

// NewTierMachineAt starts at the given tier with default thresholds,
// for sessions whose config pins an initial quality.
func NewTierMachineAt(tier model.QualityTier) *TierMachine {
	return &TierMachine{tier: tier, th: DefaultTierThresholds()}
}

// Tier returns the current quality tier.
func (t *TierMachine) Tier() model.QualityTier { return t.tier }

// Reset returns to high quality and clears any pending transition.
func (t *TierMachine) Reset() {
	t.tier = model.QualityHigh
	t.clearPending()
}

func (t *TierMachine) clearPending() {
	t.pendingDown = false
	t.pendingUp = false
	t.dwell = 0
}

// Observe feeds one frame's rolling average into the machine and
// returns true if the tier changed. haveSamples=false (no frames yet)
// keeps the current tier untouched.
func (t *TierMachine) Observe(avgFPS float64, haveSamples bool, delta float64) bool {
	if !haveSamples {
		return false
	}

	switch {
	case avgFPS < t.th.DegradeBelowFPS && t.tier > model.QualityLow:
		if !t.pendingDown {
			t.clearPending()
			t.pendingDown = true
		}
		t.dwell += delta
		if t.dwell >= t.th.DegradeDwell {
			t.tier--
			t.clearPending()
			return true
		}
	case avgFPS > t.th.UpgradeAboveFPS && t.tier < model.QualityHigh:
		if !t.pendingUp {
			t.clearPending()
			t.pendingUp = true
		}
		t.dwell += delta
		if t.dwell >= t.th.UpgradeDwell {
			t.tier++
			t.clearPending()
			return true
		}
	default:
		t.clearPending()
	}
	return false
}
