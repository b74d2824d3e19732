package ports

import "context"

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	// Confirm blocks until the user answers. It returns true when the user
	// chose to proceed (or discard, when showDiscard is set).
	Confirm(ctx context.Context, title, message string, showDiscard bool) (bool, error)
}

// Notifier shows a blocking, dismissible notification to the user.
type Notifier interface {
	Notify(ctx context.Context, title, message string)
}

// Navigator moves the user elsewhere once an editing session has closed.
type Navigator interface {
	SelectSurvey(surveyID string)
}

// Subscription is an event subscription held for the lifetime of a session.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a function to the Subscription interface.
type SubscriptionFunc func()

// Unsubscribe calls f.
func (f SubscriptionFunc) Unsubscribe() {
	f()
}
