package assets

import (
	"encoding/binary"
	"fmt"
	"math"
)

// drone is a chord of partials with a slow swell. Loop lengths are whole
// seconds and partials whole hertz so the loop point is seamless.
type drone struct {
	seconds  int
	partials []float64
	swell    float64
	gain     float64
}

var tracks = map[string]drone{
	"menu":  {seconds: 8, partials: []float64{110, 165, 220, 277}, swell: 0.125, gain: 0.18},
	"level": {seconds: 4, partials: []float64{55, 82, 110, 131, 165}, swell: 0.5, gain: 0.2},
}

// Tracks lists the built-in track names.
func Tracks() []string {
	names := make([]string, 0, len(tracks))
	for name := range tracks {
		names = append(names, name)
	}
	return names
}

// Synthesize renders a built-in track as 16-bit little-endian stereo PCM at
// SampleRate, the layout audio.Context players expect.
func Synthesize(track string) ([]byte, error) {
	d, ok := tracks[track]
	if !ok {
		return nil, fmt.Errorf("unknown track %q", track)
	}
	frames := d.seconds * SampleRate
	out := make([]byte, frames*4)
	for i := 0; i < frames; i++ {
		t := float64(i) / SampleRate
		var v float64
		for n, f := range d.partials {
			v += math.Sin(2*math.Pi*f*t) / float64(n+1)
		}
		env := 0.75 + 0.25*math.Sin(2*math.Pi*d.swell*t)
		s := int16(math.Max(-1, math.Min(1, v*env*d.gain)) * math.MaxInt16)
		binary.LittleEndian.PutUint16(out[i*4:], uint16(s))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(s))
	}
	return out, nil
}
