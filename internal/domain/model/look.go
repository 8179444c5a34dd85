package model

// SignalStats is a coarse fingerprint of a video's color grading: per-frame
// luma/chroma distribution summaries averaged over sampled frames.
type SignalStats struct {
	YAvg   float64 // mean luma
	YRange float64 // luma high band minus low band, floored at 1
	CRange float64 // mean of both chroma channel ranges, floored at 1
}

// EqParams are the coefficients fed to the brightness/contrast/saturation
// video filter.
type EqParams struct {
	Brightness float64
	Contrast   float64
	Saturation float64
}

// Clamp bounds for eq coefficients. They keep extreme statistical mismatches
// between unrelated clips from producing near-black, blown-out or fully
// desaturated output.
const (
	BrightnessMin = -0.35
	BrightnessMax = 0.35
	ContrastMin   = 0.7
	ContrastMax   = 1.6
	SaturationMin = 0.6
	SaturationMax = 1.8
)

// ComputeEqParams derives clamped eq coefficients that shift the source
// video's statistics toward the reference's. Equal stats yield the identity
// (0, 1, 1).
func ComputeEqParams(src, ref SignalStats) EqParams {
	b := (ref.YAvg - src.YAvg) / 255.0
	c := ref.YRange / maxf(1, src.YRange)
	s := ref.CRange / maxf(1, src.CRange)

	return EqParams{
		Brightness: clamp(b, BrightnessMin, BrightnessMax),
		Contrast:   clamp(c, ContrastMin, ContrastMax),
		Saturation: clamp(s, SaturationMin, SaturationMax),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
