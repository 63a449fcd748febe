package component

// ReloadRequest is a marker component asking the scene system to rebuild the
// active scene. Systems create a short-lived entity with it.
type ReloadRequest struct{}

var ReloadRequestComponent = NewComponent[ReloadRequest]()
