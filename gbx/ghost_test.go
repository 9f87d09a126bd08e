package gbx

import "testing"

func TestGhostSampleDisplaySpeed(t *testing.T) {
	cases := []struct {
		name  string
		speed int16
		want  int
	}{
		{"idle sentinel", idleSpeed, 0},
		{"2000 -> exp(2)*3.6 rounded toward zero", 2000, 26},
		{"zero speed", 0, int(1 * 3.6)},
	}

	for _, c := range cases {
		s := GhostSample{Speed: c.speed}
		if got := s.DisplaySpeed(); got != c.want {
			t.Errorf("%s: DisplaySpeed() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestGhostSampleDisplaySpeedClamped(t *testing.T) {
	s := GhostSample{Speed: 32767}
	if got := s.DisplaySpeed(); got != 1000 {
		t.Errorf("DisplaySpeed() = %d, want clamped 1000", got)
	}
}
