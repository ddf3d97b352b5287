package output

// PushTransport delivers change notifications emitted by the remote source.
// Callbacks may run on any goroutine and in any order; the returned func
// cancels the subscription and is safe to call more than once.
type PushTransport interface {
	SubscribeEvent(eventID string, onChange func(eventID string), onDelete func(eventID string)) (unsubscribe func())
	SubscribeAll(onNewOrChanged func(eventID string)) (unsubscribe func())
}
