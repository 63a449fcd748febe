package component

// LevelLoader configures the scene transition: how long the transition
// animation plays before the next scene is requested.
type LevelLoader struct {
	TransitionTime float64
}

var LevelLoaderComponent = NewComponent[LevelLoader]()
