// File: internal/infra/ffmpeg/signalstats.go
package ffmpeg

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"telegram-look-bot/internal/domain/model"
	"telegram-look-bot/internal/domain/ports/adapter"
)

var _ adapter.StatsExtractor = (*FFmpeg)(nil)

// frameSampleStride keeps analysis cheap: only every 50th frame contributes
// to the statistics.
const frameSampleStride = 50

var signalstatsFilter = fmt.Sprintf("select='not(mod(n,%d))',signalstats,metadata=print:file=-", frameSampleStride)

var signalstatsRe = regexp.MustCompile(`lavfi\.signalstats\.([A-Z]+)=([0-9.]+)`)

// ExtractSignalStats decodes the video, samples frames and averages the
// per-frame luma/chroma summaries into one SignalStats fingerprint.
func (f *FFmpeg) ExtractSignalStats(ctx context.Context, path string) (model.SignalStats, error) {
	out, err := f.run(ctx,
		"-hide_banner",
		"-i", path,
		"-vf", signalstatsFilter,
		"-an",
		"-f", "null",
		"-",
	)
	if err != nil {
		return model.SignalStats{}, err
	}
	return statsFromOutput(out), nil
}

// statsFromOutput folds the metadata prints of a signalstats run into
// averaged statistics. Missing keys average to zero; the range floors keep
// downstream division well-defined.
func statsFromOutput(out string) model.SignalStats {
	values := map[string][]float64{}
	for _, m := range signalstatsRe.FindAllStringSubmatch(out, -1) {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		values[m[1]] = append(values[m[1]], v)
	}

	avg := func(key string) float64 {
		arr := values[key]
		if len(arr) == 0 {
			return 0
		}
		sum := 0.0
		for _, v := range arr {
			sum += v
		}
		return sum / float64(len(arr))
	}

	yrange := avg("YHIGH") - avg("YLOW")
	if yrange < 1 {
		yrange = 1
	}
	crange := ((avg("UHIGH") - avg("ULOW")) + (avg("VHIGH") - avg("VLOW"))) / 2
	if crange < 1 {
		crange = 1
	}

	return model.SignalStats{
		YAvg:   avg("YAVG"),
		YRange: yrange,
		CRange: crange,
	}
}
