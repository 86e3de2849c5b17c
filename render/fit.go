package render

import "github.com/gopxl/beep"

// Epsilon is the tolerance used when comparing durations.
const Epsilon = 1e-6

// SpeedFactor is the playback multiplier that brings produced down to
// target. It is 1 unless produced is longer than target.
func SpeedFactor(produced, target float64) float64 {
	if target <= 0 || produced <= target+Epsilon {
		return 1
	}
	return produced / target
}

// Fit returns a copy of clip lasting exactly target seconds. A clip that runs
// long is played faster by SpeedFactor, then whatever is still short is padded
// with trailing silence and whatever is still long is cut.
func Fit(clip *Clip, target float64) (*Clip, error) {
	want := samplesFor(clip.Format.SampleRate, target)

	var s beep.Streamer = clip.Streamer()
	if f := SpeedFactor(clip.Duration(), target); f > 1 {
		s = beep.ResampleRatio(resampleQuality, f, s)
	}
	return NewClip(clip.Format, beep.Take(want, beep.Seq(s, beep.Silence(-1))))
}
