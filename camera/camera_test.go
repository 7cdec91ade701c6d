package camera

import (
	"math"
	"testing"
)

func TestNewShowsWholeWorld(t *testing.T) {
	// 1280x720 viewport over a 1200x720 world offset by 40px
	cam := New(1280, 720, 40, 0, 1240, 720)

	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("expected camera at (640, 360), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenIdentityAtFit(t *testing.T) {
	cam := New(1280, 720, 0, 0, 1280, 720)

	for _, p := range []struct{ x, y float32 }{{0, 0}, {640, 360}, {1280, 720}} {
		sx, sy := cam.WorldToScreen(p.x, p.y)
		if math.Abs(float64(sx-p.x)) > 0.01 || math.Abs(float64(sy-p.y)) > 0.01 {
			t.Errorf("WorldToScreen(%v, %v) = (%v, %v), want identity", p.x, p.y, sx, sy)
		}
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 0, 0, 1280, 720)
	cam.SetZoom(2.5)
	cam.Pan(300, -100)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanStaysInsideWorld(t *testing.T) {
	cam := New(1280, 720, 0, 0, 1280, 720)
	cam.SetZoom(2)

	cam.Pan(-100000, -100000)
	minX, minY, _, _ := cam.VisibleWorldBounds()
	if minX < -0.01 || minY < -0.01 {
		t.Errorf("view left the world: min=(%f, %f)", minX, minY)
	}

	cam.Pan(100000, 100000)
	_, _, maxX, maxY := cam.VisibleWorldBounds()
	if maxX > 1280.01 || maxY > 720.01 {
		t.Errorf("view left the world: max=(%f, %f)", maxX, maxY)
	}
}

func TestPanAtFitIsNoop(t *testing.T) {
	cam := New(1280, 720, 0, 0, 1280, 720)
	cam.Pan(200, 50)
	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("camera moved to (%f, %f) while the whole world is visible", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 0, 0, 2560, 1440)

	// The world is twice the viewport, so it fits at 0.5.
	if cam.MinZoom != 0.5 {
		t.Errorf("expected MinZoom 0.5, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1)
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(100.0)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 0, 0, 1280, 720)
	cam.SetZoom(2)
	// Visible range is (320, 180) to (960, 540).

	if !cam.IsVisible(640, 360, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(1200, 700, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(300, 360, 30) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 0, 0, 1280, 720)
	cam.SetZoom(3)
	cam.Pan(400, 200)

	cam.Reset()

	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("expected position (640, 360), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom %f, got %f", cam.MinZoom, cam.Zoom)
	}
}
