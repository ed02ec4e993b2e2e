package model

// CloseWizardSignal instructs the caller to dismiss the registration form.
type CloseWizardSignal struct {
	Type string `json:"type"`
}

const actionCloseWindow = "ir.actions.act_window_close"

func CloseWizard() CloseWizardSignal {
	return CloseWizardSignal{Type: actionCloseWindow}
}

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
	SeverityInfo    Severity = "info"
)

// UserNotification is a client-side notification payload. Sticky
// notifications stay until the user dismisses them.
type UserNotification struct {
	Title    string   `json:"title"`
	Severity Severity `json:"type"`
	Message  string   `json:"message"`
	Sticky   bool     `json:"sticky"`
}
