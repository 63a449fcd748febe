// Package settings persists player preferences. The game keeps a single
// float, the master volume, but stores are keyed so the format can grow.
package settings

import (
	"errors"
	"fmt"
)

const (
	KeyVolume     = "Volume"
	DefaultVolume = 0.35
)

var ErrNotFound = errors.New("settings: key not found")

// Store is a persisted float key-value store. Writes may be buffered until
// Flush.
type Store interface {
	Float(key string) (float64, bool)
	SetFloat(key string, value float64) error
	Flush() error
}

// Lookup returns the value for key or ErrNotFound.
func Lookup(s Store, key string) (float64, error) {
	if s == nil {
		return 0, fmt.Errorf("settings: lookup %q: nil store", key)
	}
	v, ok := s.Float(key)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return v, nil
}

// Volume returns the persisted volume in [0,1], or DefaultVolume when unset.
func Volume(s Store) float64 {
	if s == nil {
		return DefaultVolume
	}
	v, ok := s.Float(KeyVolume)
	if !ok {
		return DefaultVolume
	}
	return clamp01(v)
}

// SetVolume persists v clamped into [0,1].
func SetVolume(s Store, v float64) error {
	if s == nil {
		return fmt.Errorf("settings: set volume: nil store")
	}
	return s.SetFloat(KeyVolume, clamp01(v))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
