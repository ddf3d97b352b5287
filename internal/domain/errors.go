package domain

import "errors"

// codedError lets adapters map a domain error to a translated message
// without string matching.
type codedError struct {
	code string
	msg  string
}

func (e *codedError) Error() string { return e.msg }

func newError(code, msg string) error {
	return &codedError{code: code, msg: msg}
}

// Domain errors.
var (
	ErrEventNotFound      = newError("event_not_found", "invitation non trouvée")
	ErrAlreadyParticipant = newError("already_participant", "déjà inscrit à cette invitation")
	ErrNotParticipant     = newError("not_participant", "pas inscrit à cette invitation")
	ErrHostCannotLeave    = newError("host_cannot_leave", "l'hôte ne peut pas quitter sa propre invitation")
	ErrHostCannotJoin     = newError("host_cannot_join", "l'hôte participe déjà à sa propre invitation")
	ErrEventFull          = newError("event_full", "plus aucune place disponible")
	ErrNoViewer           = newError("no_viewer", "aucun utilisateur connecté")
	ErrSwipeRejected      = newError("swipe_rejected", "geste refusé sur cette carte")
)

// Code returns the stable code of a domain error wrapped anywhere in err's
// chain, or "" when err is not a domain error.
func Code(err error) string {
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return ""
}
