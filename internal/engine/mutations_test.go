package engine

import "testing"

// settled returns an expanded layout of two rows with nothing queued.
func settled(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t, testConfig(), Deps{}, 100, 100)
	h.expand(1000)
	h.settle(t)
	if h.l.pending.HasPendingStructuralWork() {
		t.Fatal("settled layout still has queued work")
	}
	return h
}

func TestSetPulsingQueuesOnlyWhenAnimated(t *testing.T) {
	tests := []struct {
		name     string
		animated bool
	}{
		{"animated", true},
		{"instant", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := settled(t)
			h.l.SetPulsing(true, tt.animated)
			if !h.l.Ambient().Pulsing {
				t.Error("Pulsing not recorded")
			}
			if got := h.l.pending.HasPendingStructuralWork(); got != tt.animated {
				t.Errorf("pulse queued = %v, want %v", got, tt.animated)
			}
		})
	}
}

func TestSetPulsingOffWhenNotPulsing(t *testing.T) {
	h := settled(t)
	h.l.SetPulsing(false, true)
	if h.l.pending.HasPendingStructuralWork() || h.l.updateRequested {
		t.Error("turning off an absent pulse should do nothing")
	}
}

func TestTopPaddingAnimatesOnlyWhenExpanded(t *testing.T) {
	collapsed := newHarness(t, testConfig(), Deps{}, 100, 100)
	collapsed.l.SetTopPadding(20, true)
	if collapsed.l.pending.HasPendingStructuralWork() {
		t.Error("collapsed stack queued a top padding animation")
	}

	h := settled(t)
	h.l.SetTopPadding(20, true)
	if !h.l.pending.HasPendingStructuralWork() {
		t.Error("expanded stack did not queue a top padding animation")
	}
}

func TestSetHideSensitive(t *testing.T) {
	tests := []struct {
		name    string
		hide    bool
		animate bool
		queued  bool
	}{
		{"animated", true, true, true},
		{"instant", true, false, false},
		{"unchanged", false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := settled(t)
			h.l.SetHideSensitive(tt.hide, tt.animate)
			if got := h.l.Ambient().HideSensitive; got != tt.hide {
				t.Errorf("HideSensitive = %v, want %v", got, tt.hide)
			}
			if got := h.l.pending.HasPendingStructuralWork(); got != tt.queued {
				t.Errorf("queued = %v, want %v", got, tt.queued)
			}
		})
	}
}

func TestSetActivated(t *testing.T) {
	h := settled(t)
	h.l.SetActivated("a")
	if got := h.l.Ambient().ActivatedItem; got != "a" {
		t.Errorf("ActivatedItem = %q, want a", got)
	}
	if !h.l.pending.HasPendingStructuralWork() {
		t.Error("activation did not queue an animation")
	}
	h.settle(t)

	h.l.SetAnimationsEnabled(false)
	h.l.SetActivated("")
	if got := h.l.Ambient().ActivatedItem; got != "" {
		t.Errorf("ActivatedItem = %q, want cleared", got)
	}
	if h.l.pending.HasPendingStructuralWork() {
		t.Error("activation queued an animation with animations disabled")
	}
}

func TestGenerateChildOrderChanged(t *testing.T) {
	collapsed := newHarness(t, testConfig(), Deps{}, 100, 100)
	collapsed.l.GenerateChildOrderChanged()
	if collapsed.l.pending.HasPendingStructuralWork() {
		t.Error("collapsed stack queued a reorder")
	}

	h := settled(t)
	h.l.GenerateChildOrderChanged()
	if !h.l.pending.HasPendingStructuralWork() {
		t.Fatal("expanded stack did not queue a reorder")
	}
	h.settle(t)
	if h.l.pending.HasPendingStructuralWork() {
		t.Error("reorder was not drained by the next frame")
	}
}

func TestScrollTo(t *testing.T) {
	h := newHarness(t, testConfig(), Deps{}, 100, 100, 100, 100, 100)
	h.expand(200)
	h.settle(t)

	if h.l.ScrollTo("missing") {
		t.Error("ScrollTo(unknown) moved the offset")
	}
	if h.l.ScrollTo("a") {
		t.Error("ScrollTo(a) moved the offset although a is visible")
	}
	if !h.l.ScrollTo("e") {
		t.Fatal("ScrollTo(e) did not scroll")
	}
	if got := h.l.Scroll().OwnScrollY(); got <= 0 {
		t.Errorf("OwnScrollY() = %v, want > 0", got)
	}
	if h.l.ScrollTo("a") {
		t.Error("ScrollTo(a) scrolled back up; it only scrolls down")
	}
}

func TestPanelTracking(t *testing.T) {
	h := settled(t)
	h.l.OnPanelTrackingStarted()
	if !h.l.Ambient().PanelTracking {
		t.Error("PanelTracking not set")
	}
	h.l.OnPanelTrackingStopped()
	if h.l.Ambient().PanelTracking {
		t.Error("PanelTracking not cleared")
	}
}

func TestTrackingHeadsUpMovesAppearStart(t *testing.T) {
	h := settled(t)
	h.l.SetPinned("a", true)
	cfg := testConfig()

	if got := h.l.appearStartPosition(); got != 0 {
		t.Errorf("appear start without tracking = %v, want 0", got)
	}
	h.l.SetTrackingHeadsUp(true)
	if want := cfg.HeadsUpInset + 100; h.l.appearStartPosition() != want {
		t.Errorf("appear start while tracking = %v, want %v", h.l.appearStartPosition(), want)
	}

	h.l.SetPinned("a", false)
	if got := h.l.appearStartPosition(); got != 0 {
		t.Errorf("appear start with nothing pinned = %v, want 0", got)
	}
	h.l.SetTrackingHeadsUp(false)
	if h.l.inHeadsUpTransition() {
		t.Error("still in heads-up transition after tracking stopped")
	}
}
