package output

import "invitefeed/internal/domain/entities"

// Session exposes the signed-in viewer, or nil when nobody is signed in.
type Session interface {
	Viewer() *entities.Viewer
}

// StaticSession is a Session bound to a fixed viewer id ("" = signed out).
type StaticSession string

func (s StaticSession) Viewer() *entities.Viewer {
	if s == "" {
		return nil
	}
	return &entities.Viewer{ID: string(s)}
}
