package model

// MailSettings holds the SMTP configuration applied to the mailer at runtime.
type MailSettings struct {
	SMTPHost        string `json:"smtpHost"`
	SMTPPort        int    `json:"smtpPort"`
	SMTPUser        string `json:"smtpUser"`
	SMTPPass        string `json:"smtpPass,omitempty"`
	SMTPFromAddress string `json:"smtpFromAddress"`
	SMTPFromName    string `json:"smtpFromName"`
	TestRecipient   string `json:"testRecipient"`
}
