package services

// User event types published after state changes.
const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
	EventUserLoggedOut  = "user.logged_out"
)

// EventPublisher publishes user events to a broker.
type EventPublisher interface {
	PublishUserEvent(eventType string, data map[string]interface{}) error
}
