// Package host speaks the dispatcher's output module protocol on
// stdio: line commands in, status codes and synthesis events out.
package host

// The dispatcher expresses prosody as -100..100 relative values; the
// engine wants absolute ranges. Inputs outside the protocol range are
// clamped before mapping.

// MapRate converts a dispatcher rate to the engine's 0..250 speed.
func MapRate(v int) int {
	return (clamp(v) + 100) * 250 / 200
}

// MapPitch converts a dispatcher pitch to the engine's 0..100 pitch
// baseline.
func MapPitch(v int) int {
	return (clamp(v) + 100) / 2
}

// MapVolume converts a dispatcher volume to the engine's 0..100 range.
func MapVolume(v int) int {
	return (clamp(v) + 100) / 2
}

func clamp(v int) int {
	if v < -100 {
		return -100
	}
	if v > 100 {
		return 100
	}
	return v
}
