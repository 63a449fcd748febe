// Package ui holds the title menu: a main buttons panel and a settings panel
// with the volume slider.
package ui

import (
	"fmt"

	"github.com/milk9111/wallrunner/settings"
	"github.com/rs/zerolog/log"
)

// Panel is a UI element that can be shown or hidden.
type Panel interface {
	Active() bool
	SetActive(active bool)
}

// Slider reports a position in [0,1].
type Slider interface {
	Value() float64
}

// Menu switches between the main buttons and the settings panel and keeps
// the persisted volume in step with the slider. Exactly one panel is active
// after a successful transition; a transition whose preconditions do not
// hold logs why and leaves both panels alone.
type Menu struct {
	mainButtons Panel
	settings    Panel
	slider      Slider
	store       settings.Store
}

func NewMenu(mainButtons, settingsPanel Panel, slider Slider, store settings.Store) (*Menu, error) {
	switch {
	case mainButtons == nil:
		return nil, fmt.Errorf("menu: main buttons panel is nil")
	case settingsPanel == nil:
		return nil, fmt.Errorf("menu: settings panel is nil")
	case store == nil:
		return nil, fmt.Errorf("menu: settings store is nil")
	}
	return &Menu{mainButtons: mainButtons, settings: settingsPanel, slider: slider, store: store}, nil
}

// OpenSettings hides the main buttons and shows the settings panel. It
// reports whether the panels changed.
func (m *Menu) OpenSettings() bool {
	if m.mainButtons.Active() && !m.settings.Active() {
		m.mainButtons.SetActive(false)
		m.settings.SetActive(true)
		return true
	}
	if !m.mainButtons.Active() {
		log.Error().Msg("main buttons are disabled")
	} else {
		log.Error().Msg("settings menu is active")
	}
	return false
}

// OpenMainButtons hides the settings panel and shows the main buttons. It
// reports whether the panels changed.
func (m *Menu) OpenMainButtons() bool {
	if !m.mainButtons.Active() && m.settings.Active() {
		m.settings.SetActive(false)
		m.mainButtons.SetActive(true)
		return true
	}
	if m.mainButtons.Active() {
		log.Error().Msg("main buttons are active")
	} else {
		log.Error().Msg("settings menu is disabled")
	}
	return false
}

// Update copies the slider position into the volume setting.
func (m *Menu) Update() {
	if m.slider == nil {
		log.Error().Msg("no slider reference was found")
		return
	}
	v := m.slider.Value()
	if err := settings.SetVolume(m.store, v); err != nil {
		log.Error().Err(err).Str("key", settings.KeyVolume).Msg("store volume")
		return
	}
	log.Trace().Float64("volume", v).Msg("slider")
}
