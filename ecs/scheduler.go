package ecs

// FixedStep is the physics phase rate in seconds.
const FixedStep = 1.0 / 50.0

// maxFixedSteps bounds the catch-up work after a long frame.
const maxFixedSteps = 5

// Scheduler runs three ordered system lists each frame: the input phase
// once, the fixed-rate physics phase as often as the accumulator allows, and
// the variable-rate frame phase once.
type Scheduler struct {
	input  []System
	fixed  []System
	frame  []System
	accum  float64
	steps  int
	frames int
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AddInput appends a system that samples devices before any other phase.
func (s *Scheduler) AddInput(system System) {
	if system == nil {
		return
	}
	s.input = append(s.input, system)
}

// AddFixed appends a system to the physics phase.
func (s *Scheduler) AddFixed(system System) {
	if system == nil {
		return
	}
	s.fixed = append(s.fixed, system)
}

// AddFrame appends a system to the frame phase.
func (s *Scheduler) AddFrame(system System) {
	if system == nil {
		return
	}
	s.frame = append(s.frame, system)
}

// Update advances the world by dt seconds: as many fixed steps as the
// accumulator allows, then one frame pass.
func (s *Scheduler) Update(w *World, dt float64) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}

	w.advance(dt)
	for _, system := range s.input {
		system.Update(w)
	}

	s.accum += dt
	steps := 0
	for s.accum >= FixedStep && steps < maxFixedSteps {
		w.SetDeltaTime(FixedStep)
		for _, system := range s.fixed {
			system.Update(w)
		}
		s.accum -= FixedStep
		steps++
		s.steps++
	}
	if steps == maxFixedSteps {
		s.accum = 0
	}

	w.SetDeltaTime(dt)
	for _, system := range s.frame {
		system.Update(w)
	}
	s.frames++
	w.events.flush()
}

// Steps returns the number of fixed steps run so far.
func (s *Scheduler) Steps() int {
	return s.steps
}

// Frames returns the number of frame passes run so far.
func (s *Scheduler) Frames() int {
	return s.frames
}

// Systems returns every phase in run order.
func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.input)+len(s.fixed)+len(s.frame))
	systems = append(systems, s.input...)
	systems = append(systems, s.fixed...)
	return append(systems, s.frame...)
}
