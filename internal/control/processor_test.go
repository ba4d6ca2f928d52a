package control

import (
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/effector"
)

func angleRegion(gesture detector.GestureType, handedness float64) *detector.HandRegion {
	return &detector.HandRegion{
		HasLandmarks: true,
		Handedness:   handedness,
		Gesture:      gesture,
	}
}

func staticRegion(label string, handedness float64) *detector.HandRegion {
	return &detector.HandRegion{
		HasLandmarks: true,
		Handedness:   handedness,
		HasGesture:   true,
		GestureLabel: label,
		Gesture:      detector.GestureNone,
	}
}

func newTestProcessor(ctrl config.Control) (*Processor, *Manager, *effector.Recorder) {
	rec := effector.NewRecorder()
	modes := NewManager(config.Default().Modes, DefaultModes())
	return NewProcessor(ctrl, modes, rec), modes, rec
}

func TestGestureIDs(t *testing.T) {
	cases := []struct {
		name   string
		region *detector.HandRegion
		want   []string
	}{
		{"right index", angleRegion(detector.GestureIndexOnly, 0.9), []string{"right_index_bent"}},
		{"left both", angleRegion(detector.GestureIndexMiddleBoth, 0.1), []string{"left_index_middle_bent"}},
		{"fist", staticRegion("Closed_Fist", 0.9), []string{"fist_gesture"}},
		{"unmapped label", staticRegion("Victory", 0.9), nil},
		{"none", angleRegion(detector.GestureNone, 0.9), nil},
	}
	for _, tc := range cases {
		got := GestureIDs(tc.region)
		if len(got) != len(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
			continue
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
			}
		}
	}
}

func TestGestureIDsBothFamilies(t *testing.T) {
	r := staticRegion("Closed_Fist", 0.9)
	r.Gesture = detector.GestureIndexOnly

	got := GestureIDs(r)
	if len(got) != 2 || got[0] != "right_index_bent" || got[1] != "fist_gesture" {
		t.Errorf("expected one angle id and one static id, got %v", got)
	}
}

func TestProcessFiresBoundGesture(t *testing.T) {
	p, modes, rec := newTestProcessor(config.Control{})
	now := time.Now()
	modes.Switch(ModePPT, now)

	fired := p.Process(angleRegion(detector.GestureIndexOnly, 0.9), now)

	if len(fired) != 1 || fired[0] != "right_index_bent" {
		t.Fatalf("expected right_index_bent to fire, got %v", fired)
	}
	got := rec.Recorded()
	if len(got) != 1 || got[0] != "key:right" {
		t.Errorf("expected key:right, got %v", got)
	}
	if p.LastPressedHand() != "right" {
		t.Errorf("latch should record the firing hand, got %q", p.LastPressedHand())
	}
}

func TestProcessDisabledModeFiresNothing(t *testing.T) {
	p, _, rec := newTestProcessor(config.Control{})

	fired := p.Process(angleRegion(detector.GestureIndexOnly, 0.9), time.Now())

	if fired != nil {
		t.Errorf("disabled mode should fire nothing, got %v", fired)
	}
	if len(rec.Recorded()) != 0 {
		t.Errorf("no effector calls expected, got %v", rec.Recorded())
	}
}

func TestProcessUnboundGestureSkipped(t *testing.T) {
	p, modes, rec := newTestProcessor(config.Control{})
	now := time.Now()
	modes.Switch(ModePPT, now)

	// ppt_mode binds no middle-bent gestures.
	fired := p.Process(angleRegion(detector.GestureIndexMiddleBoth, 0.9), now)

	if fired != nil || len(rec.Recorded()) != 0 {
		t.Errorf("unbound gesture should not fire, got %v / %v", fired, rec.Recorded())
	}
}

func TestProcessSkipsRegionWithoutLandmarks(t *testing.T) {
	p, modes, rec := newTestProcessor(config.Control{})
	now := time.Now()
	modes.Switch(ModePPT, now)

	r := angleRegion(detector.GestureIndexOnly, 0.9)
	r.HasLandmarks = false
	if fired := p.Process(r, now); fired != nil {
		t.Errorf("region without landmarks should be skipped, got %v", fired)
	}
	if len(rec.Recorded()) != 0 {
		t.Errorf("no effector calls expected, got %v", rec.Recorded())
	}
}

func TestLastPressedHandLatchClears(t *testing.T) {
	p, modes, _ := newTestProcessor(config.Control{})
	now := time.Now()
	modes.Switch(ModePPT, now)

	p.Process(angleRegion(detector.GestureIndexOnly, 0.9), now)
	p.EndFrame()
	if p.LastPressedHand() != "right" {
		t.Fatal("latch should survive a frame that still holds the gesture")
	}

	// A frame with no angle gesture anywhere clears the latch.
	p.Process(angleRegion(detector.GestureNone, 0.9), now.Add(time.Second))
	p.EndFrame()
	if p.LastPressedHand() != "" {
		t.Errorf("latch should clear, got %q", p.LastPressedHand())
	}
}

func TestBrowserILoveYouTogglesRightHandMode(t *testing.T) {
	p, modes, _ := newTestProcessor(config.Control{})
	base := time.Now()
	modes.Switch(ModeBrowser, base)

	p.Process(staticRegion("ILoveYou", 0.9), base.Add(100*time.Millisecond))
	if modes.RightHandMode() != RightHandScroll {
		t.Fatalf("right-hand ILoveYou should flip to scroll, got %s", modes.RightHandMode())
	}

	// Within the toggle cooldown the sub-mode holds.
	p.Process(staticRegion("ILoveYou", 0.9), base.Add(600*time.Millisecond))
	if modes.RightHandMode() != RightHandScroll {
		t.Error("toggle inside cooldown should be ignored")
	}

	p.Process(staticRegion("ILoveYou", 0.9), base.Add(1200*time.Millisecond))
	if modes.RightHandMode() != RightHandCursor {
		t.Error("toggle after cooldown should flip back to cursor")
	}
}

func TestBrowserILoveYouLeftHandIgnored(t *testing.T) {
	p, modes, _ := newTestProcessor(config.Control{})
	base := time.Now()
	modes.Switch(ModeBrowser, base)

	p.Process(staticRegion("ILoveYou", 0.1), base.Add(100*time.Millisecond))

	if modes.RightHandMode() != RightHandCursor {
		t.Error("left-hand ILoveYou must not toggle the sub-mode")
	}
}

func TestBrowserRightHandCursorForced(t *testing.T) {
	// Cursor control is globally disabled, but the browser right hand
	// forces it while the sub-mode is cursor.
	ctrl := config.Control{CursorSmoothing: 0.7, ScreenWidth: 1000, ScreenHeight: 1000}
	p, modes, rec := newTestProcessor(ctrl)
	now := time.Now()
	modes.Switch(ModeBrowser, now)

	r := angleRegion(detector.GestureNone, 0.9)
	r.Landmarks[detector.IndexTip] = detector.Point3{X: 0.25, Y: 0.5}
	p.Process(r, now)

	got := rec.Recorded()
	if len(got) != 1 || got[0] != "move:750,500" {
		t.Errorf("expected forced cursor move, got %v", got)
	}
}

func TestBrowserLeftHandNotForced(t *testing.T) {
	ctrl := config.Control{CursorSmoothing: 0.7, ScreenWidth: 1000, ScreenHeight: 1000}
	p, modes, rec := newTestProcessor(ctrl)
	now := time.Now()
	modes.Switch(ModeBrowser, now)

	r := angleRegion(detector.GestureNone, 0.1)
	r.Landmarks[detector.IndexTip] = detector.Point3{X: 0.25, Y: 0.5}
	p.Process(r, now)

	if len(rec.Recorded()) != 0 {
		t.Errorf("left hand should not get forced cursor control, got %v", rec.Recorded())
	}
}

func TestGlobalCursorEnableAppliesOutsideBrowser(t *testing.T) {
	ctrl := config.Control{EnableCursorControl: true, CursorSmoothing: 0.7, ScreenWidth: 1000, ScreenHeight: 1000}
	p, _, rec := newTestProcessor(ctrl)

	r := angleRegion(detector.GestureNone, 0.1)
	r.Landmarks[detector.IndexTip] = detector.Point3{X: 0.5, Y: 0.5}
	p.Process(r, time.Now())

	got := rec.Recorded()
	if len(got) != 1 || got[0] != "move:500,500" {
		t.Errorf("expected global cursor move, got %v", got)
	}
}
