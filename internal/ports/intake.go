package ports

// Intake is a long-running source of emails to triage
type Intake interface {
	// Start starts accepting emails in the background
	Start() error

	// Stop stops accepting emails
	Stop() error
}
