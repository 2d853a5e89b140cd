package ports

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier surfaces flow outcomes to the driver.
type Notifier interface {
	// Ephemeral notification.
	Toast(severity Severity, message string)
	// Modal notification that needs acknowledgement.
	Alert(title string, message string)
	// Full-screen message that blocks the current flow.
	Block(message string)
}
