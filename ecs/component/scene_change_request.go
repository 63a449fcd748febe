package component

// SceneChangeRequest is a one-shot request emitted by the transition system
// to ask the scene system to load the scene at Index.
//
// Systems only emit data; the scene system owns IO and world rebuilds.
type SceneChangeRequest struct {
	Index int
}

var SceneChangeRequestComponent = NewComponent[SceneChangeRequest]()
