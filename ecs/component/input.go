package component

// Input stores per-frame input state for an entity. Horizontal and Vertical
// are raw axes in {-1, 0, 1}; LookX and LookY are pointer deltas.
type Input struct {
	Horizontal  float64
	Vertical    float64
	LookX       float64
	LookY       float64
	Jump        bool
	JumpPressed bool
}

var InputComponent = NewComponent[Input]()
