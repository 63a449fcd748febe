package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type MainCameraTag struct{}

var MainCameraTagComponent = NewComponent[MainCameraTag]()
