package system

import "errors"

// ErrMissingDependency is returned by constructors that need a collaborator
// they were not given.
var ErrMissingDependency = errors.New("system: missing dependency")
