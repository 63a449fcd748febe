package component

// SceneLoaded is placed on a marker entity by the scene system once a scene
// has been built. When KillPlane is set, falling below KillY restarts the
// scene. Menu scenes have no player.
type SceneLoaded struct {
	Index     int
	Name      string
	KillPlane bool
	KillY     float64
	Menu      bool
}

var SceneLoadedComponent = NewComponent[SceneLoaded]()
