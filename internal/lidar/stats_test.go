package lidar

import "testing"

func TestPacketStatsAccumulateAndReset(t *testing.T) {
	ps := NewPacketStats()
	ps.AddPacket(1206)
	ps.AddPacket(1206)
	ps.AddMalformed()
	ps.AddPoints(384)
	ps.AddFiltered(10)
	ps.AddSkipped(3)

	packets, bytes, malformed, points, filtered, skipped, duration := ps.GetAndReset()
	if packets != 2 || bytes != 2412 {
		t.Errorf("expected 2 packets / 2412 bytes, got %d / %d", packets, bytes)
	}
	if malformed != 1 || points != 384 || filtered != 10 || skipped != 3 {
		t.Errorf("unexpected counters: malformed=%d points=%d filtered=%d skipped=%d",
			malformed, points, filtered, skipped)
	}
	if duration <= 0 {
		t.Errorf("expected positive duration, got %v", duration)
	}

	packets, bytes, malformed, points, filtered, skipped, _ = ps.GetAndReset()
	if packets+bytes+malformed+points+filtered+skipped != 0 {
		t.Errorf("counters not reset")
	}
}

func TestFormatWithCommas(t *testing.T) {
	cases := map[int64]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		70656:   "70,656",
		1234567: "1,234,567",
	}
	for n, want := range cases {
		if got := FormatWithCommas(n); got != want {
			t.Errorf("FormatWithCommas(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestPointCloudAppendAndReset(t *testing.T) {
	var pc PointCloud
	pc.Append(Point{X: 1}, Point{X: 2})
	pc.Append(Point{X: 3})
	if pc.Len() != 3 {
		t.Fatalf("expected 3 points, got %d", pc.Len())
	}
	if pc.Points[2].X != 3 {
		t.Errorf("append order violated")
	}

	pc.Reset()
	if pc.Len() != 0 {
		t.Errorf("expected empty cloud after reset, got %d", pc.Len())
	}
}
