package frames

import (
	"testing"

	"github.com/banshee-data/velodyne.report/internal/lidar"
)

// makeSweep generates points sweeping the azimuth range [start, end) in
// equal steps, mimicking one span of a rotation in scan order.
func makeSweep(start, end float64, count int) []lidar.Point {
	points := make([]lidar.Point, count)
	step := (end - start) / float64(count)
	for i := range points {
		points[i] = lidar.Point{Azimuth: start + float64(i)*step, Distance: 10}
	}
	return points
}

func TestRevolutionCutOnWrap(t *testing.T) {
	var done []*Revolution
	rb := NewRevolutionBuilder(Config{
		OnRevolution: func(r *Revolution) { done = append(done, r) },
		MinPoints:    100,
	})

	// Two full turns delivered as four half-turn batches.
	for turn := 0; turn < 2; turn++ {
		rb.AddPoints(makeSweep(0, 180, 200))
		rb.AddPoints(makeSweep(180, 360, 200))
	}
	rb.Flush()

	if len(done) != 2 {
		t.Fatalf("expected 2 revolutions, got %d", len(done))
	}

	first := done[0]
	if !first.Complete {
		t.Errorf("first revolution should be complete")
	}
	if len(first.Points) != 400 {
		t.Errorf("expected 400 points in first revolution, got %d", len(first.Points))
	}
	if first.coverage() < DefaultMinAzimuthCoverage {
		t.Errorf("expected near-full coverage, got %.2f", first.coverage())
	}
	if first.RevolutionID == "" || first.RevolutionID == done[1].RevolutionID {
		t.Errorf("revolution IDs must be unique and non-empty")
	}

	// The second turn never wraps again, so Flush emits it incomplete.
	if done[1].Complete {
		t.Errorf("flushed revolution should be marked incomplete")
	}
}

func TestNoCutWithoutCoverage(t *testing.T) {
	var done []*Revolution
	rb := NewRevolutionBuilder(Config{
		OnRevolution: func(r *Revolution) { done = append(done, r) },
		MinPoints:    10,
	})

	// A backwards azimuth jump after covering only a quarter turn is
	// jitter, not a revolution boundary.
	rb.AddPoints(makeSweep(270, 360, 50))
	rb.AddPoints(makeSweep(0, 90, 50))

	if len(done) != 0 {
		t.Fatalf("expected no completed revolutions, got %d", len(done))
	}
	rb.Flush()
	if len(done) != 1 || done[0].Complete {
		t.Fatalf("expected one incomplete revolution after flush")
	}
	if len(done[0].Points) != 100 {
		t.Errorf("expected all 100 points retained, got %d", len(done[0].Points))
	}
}

func TestNoCutBelowMinPoints(t *testing.T) {
	cuts := 0
	rb := NewRevolutionBuilder(Config{
		OnRevolution: func(r *Revolution) { cuts++ },
		MinPoints:    1000,
	})

	// Full coverage but too few points: the wrap must not cut.
	rb.AddPoints(makeSweep(0, 360, 500))
	rb.AddPoints(makeSweep(0, 360, 500))

	if cuts != 0 {
		t.Errorf("expected no cuts below minimum point count, got %d", cuts)
	}
}

func TestFlushEmptyBuilder(t *testing.T) {
	rb := NewRevolutionBuilder(Config{
		OnRevolution: func(r *Revolution) { t.Error("callback fired for empty builder") },
	})
	rb.Flush()
}
