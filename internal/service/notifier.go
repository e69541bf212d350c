package service

// Change actions published after a successful mutation.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionReloaded = "reloaded"
)

// Notifier receives a message for every confirmed change to a collection.
type Notifier interface {
	Notify(collection, action, id string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string, string) {}

// NopNotifier discards every change.
var NopNotifier Notifier = nopNotifier{}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return NopNotifier
	}
	return n
}
