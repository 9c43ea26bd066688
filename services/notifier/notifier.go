package notifier

// Notifier represents a service for delivering digest messages
type Notifier interface {
	// Notify delivers one formatted message
	Notify(message string) error

	// Close releases any held resources
	Close() error
}
