package ui

import (
	"bytes"
	"testing"

	"github.com/milk9111/wallrunner/settings"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePanel struct {
	active  bool
	changes int
}

func (p *fakePanel) Active() bool { return p.active }

func (p *fakePanel) SetActive(active bool) {
	p.active = active
	p.changes++
}

type fakeSlider float64

func (s fakeSlider) Value() float64 { return float64(s) }

func newTestMenu(t *testing.T, slider Slider) (*Menu, *fakePanel, *fakePanel, *settings.MemoryStore) {
	t.Helper()
	main := &fakePanel{active: true}
	set := &fakePanel{}
	store := settings.NewMemoryStore()
	m, err := NewMenu(main, set, slider, store)
	require.NoError(t, err)
	return m, main, set, store
}

// captureLog routes the global logger into a buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestNewMenuRequiresPanelsAndStore(t *testing.T) {
	store := settings.NewMemoryStore()
	p := &fakePanel{}
	for _, tt := range []struct {
		name      string
		main, set Panel
		store     settings.Store
	}{
		{"no main", nil, p, store},
		{"no settings", p, nil, store},
		{"no store", p, p, nil},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMenu(tt.main, tt.set, fakeSlider(0), tt.store)
			assert.Error(t, err)
		})
	}
}

func TestOpenSettingsTwiceChangesOnce(t *testing.T) {
	m, main, set, _ := newTestMenu(t, fakeSlider(0.5))
	logs := captureLog(t)

	assert.True(t, m.OpenSettings())
	assert.Empty(t, logs.String())
	assert.False(t, m.OpenSettings())
	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), "settings menu is active")

	assert.False(t, main.active)
	assert.True(t, set.active)
	assert.Equal(t, 1, main.changes)
	assert.Equal(t, 1, set.changes)
}

func TestOpenMainButtonsTwiceChangesOnce(t *testing.T) {
	m, main, set, _ := newTestMenu(t, fakeSlider(0.5))
	require.True(t, m.OpenSettings())
	logs := captureLog(t)

	assert.True(t, m.OpenMainButtons())
	assert.Empty(t, logs.String())
	assert.False(t, m.OpenMainButtons())
	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), "main buttons are active")

	assert.True(t, main.active)
	assert.False(t, set.active)
	assert.Equal(t, 2, main.changes)
	assert.Equal(t, 2, set.changes)
}

func TestTogglePreconditions(t *testing.T) {
	tests := []struct {
		name            string
		main, settings  bool
		wantSettings    bool
		wantMainButtons bool
	}{
		{"main shown", true, false, true, false},
		{"settings shown", false, true, false, true},
		{"both shown", true, true, false, false},
		{"both hidden", false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main := &fakePanel{active: tt.main}
			set := &fakePanel{active: tt.settings}
			m, err := NewMenu(main, set, fakeSlider(0), settings.NewMemoryStore())
			require.NoError(t, err)

			assert.Equal(t, tt.wantSettings, m.OpenSettings())
			main.active, set.active = tt.main, tt.settings
			assert.Equal(t, tt.wantMainButtons, m.OpenMainButtons())
		})
	}
}

func TestUpdateWritesSliderToStore(t *testing.T) {
	m, _, _, store := newTestMenu(t, fakeSlider(0.8))

	m.Update()

	v, err := settings.Lookup(store, settings.KeyVolume)
	require.NoError(t, err)
	assert.Equal(t, 0.8, v)
}

func TestUpdateClampsSlider(t *testing.T) {
	m, _, _, store := newTestMenu(t, fakeSlider(1.5))
	m.Update()
	assert.Equal(t, 1.0, settings.Volume(store))
}

func TestUpdateWithoutSliderLeavesStore(t *testing.T) {
	m, _, _, store := newTestMenu(t, nil)
	m.Update()
	_, ok := store.Float(settings.KeyVolume)
	assert.False(t, ok)
}
