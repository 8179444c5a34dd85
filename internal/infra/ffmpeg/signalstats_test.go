//go:build !integration

package ffmpeg

import (
	"testing"
)

func TestStatsFromOutput(t *testing.T) {
	t.Run("averages values across sampled frames", func(t *testing.T) {
		out := `
frame:0    pts:0       pts_time:0
lavfi.signalstats.YAVG=100.0
lavfi.signalstats.YLOW=16.0
lavfi.signalstats.YHIGH=216.0
lavfi.signalstats.ULOW=100.0
lavfi.signalstats.UHIGH=140.0
lavfi.signalstats.VLOW=110.0
lavfi.signalstats.VHIGH=150.0
frame:1    pts:50      pts_time:2
lavfi.signalstats.YAVG=120.0
lavfi.signalstats.YLOW=16.0
lavfi.signalstats.YHIGH=216.0
lavfi.signalstats.ULOW=100.0
lavfi.signalstats.UHIGH=140.0
lavfi.signalstats.VLOW=110.0
lavfi.signalstats.VHIGH=150.0
`
		s := statsFromOutput(out)
		if s.YAvg != 110 {
			t.Errorf("expected YAvg 110, got %v", s.YAvg)
		}
		if s.YRange != 200 {
			t.Errorf("expected YRange 200, got %v", s.YRange)
		}
		// ((140-100)+(150-110))/2 = 40
		if s.CRange != 40 {
			t.Errorf("expected CRange 40, got %v", s.CRange)
		}
	})

	t.Run("empty output floors ranges at one", func(t *testing.T) {
		s := statsFromOutput("nothing useful here")
		if s.YAvg != 0 {
			t.Errorf("expected YAvg 0, got %v", s.YAvg)
		}
		if s.YRange != 1 || s.CRange != 1 {
			t.Errorf("expected floored ranges, got %+v", s)
		}
	})

	t.Run("garbage values are skipped", func(t *testing.T) {
		out := "lavfi.signalstats.YAVG=50.0\nlavfi.signalstats.YAVG=oops\n"
		s := statsFromOutput(out)
		if s.YAvg != 50 {
			t.Errorf("expected YAvg 50, got %v", s.YAvg)
		}
	})
}
