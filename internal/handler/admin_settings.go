package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/internreg/internal/mailer"
	"github.com/internreg/internal/model"
)

type settingsStore interface {
	Load(ctx context.Context) (*model.MailSettings, error)
	Save(ctx context.Context, settings *model.MailSettings) error
}

type mailTransport interface {
	Reconfigure(cfg *mailer.Config)
	SendNow(ctx context.Context, msg mailer.Message) error
}

// SettingsHandler handles the SMTP settings API.
type SettingsHandler struct {
	BaseHandler
	settings settingsStore
	mail     mailTransport
}

func NewSettingsHandler(logger *slog.Logger, settings settingsStore, mail mailTransport) *SettingsHandler {
	return &SettingsHandler{BaseHandler: BaseHandler{Logger: logger}, settings: settings, mail: mail}
}

// Get returns the current settings with the SMTP password masked.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Load(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}

	masked := *s
	passwordSet := masked.SMTPPass != ""
	masked.SMTPPass = ""

	err = h.writeJSON(w, http.StatusOK, envelope{"settings": masked, "smtpPassSet": passwordSet}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// Update saves the settings and applies them to the mailer. An empty
// password keeps the stored one.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	s := &model.MailSettings{}
	if err := h.readJSON(w, r, s); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if s.SMTPPort < 0 || s.SMTPPort > 65535 {
		h.badRequestResponse(w, r, errors.New("smtpPort must be between 0 and 65535"))
		return
	}

	if s.SMTPPass == "" {
		current, err := h.settings.Load(r.Context())
		if err != nil {
			h.serverErrorResponse(w, r, err)
			return
		}
		s.SMTPPass = current.SMTPPass
	}

	if err := h.settings.Save(r.Context(), s); err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.mail.Reconfigure(mailer.NewConfigFromSettings(s))
	h.Logger.Info("settings: smtp configuration updated", "host", s.SMTPHost, "port", s.SMTPPort)

	w.WriteHeader(http.StatusNoContent)
}

// TestEmail sends a test email to the configured test recipient.
func (h *SettingsHandler) TestEmail(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Load(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	if s.TestRecipient == "" {
		h.badRequestResponse(w, r, errors.New("no test recipient configured"))
		return
	}

	h.mail.Reconfigure(mailer.NewConfigFromSettings(s))
	err = h.mail.SendNow(r.Context(), mailer.Message{
		To:      []string{s.TestRecipient},
		Subject: "Test Email",
		Body:    "This is a test email from the intern registration service.",
	})
	if err != nil {
		h.Logger.Error("settings: test email failed", "err", err)
		h.errorResponse(w, r, http.StatusBadGateway, "send failed: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
