// Package registration implements the intern registration workflow: create a
// registration stamped with the acting HR user, email the intern a
// confirmation, and remind assigned HR contacts about registered interns.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/internreg/internal/mailer"
	"github.com/internreg/internal/model"
)

// RecordStore persists registrations. Create must enforce intern email
// uniqueness and return model.ErrUniquenessViolation on a duplicate.
type RecordStore interface {
	Create(ctx context.Context, reg model.Registration) (*model.Registration, error)
	Delete(ctx context.Context, id int64) error
	ListCreatedOnOrBefore(ctx context.Context, asOf time.Time) ([]model.Registration, error)
}

// AttachmentStore creates a blob linked to an owning record.
type AttachmentStore interface {
	Create(ctx context.Context, att model.Attachment) (*model.Attachment, error)
}

// TemplateStore looks templates up by name, returning
// model.ErrTemplateNotFound when none exists.
type TemplateStore interface {
	Get(ctx context.Context, name string) (*model.MailTemplate, error)
}

// HRDirectory resolves HR contact references.
type HRDirectory interface {
	GetHRContact(ctx context.Context, id int64) (*model.HRContact, error)
}

// Mailer queues messages for background delivery or sends them right away.
type Mailer interface {
	Enqueue(msg mailer.Message) error
	SendNow(ctx context.Context, msg mailer.Message) error
}

// Clock returns the current time.
type Clock func() time.Time

// Workflow wires the registration operations to their collaborators.
type Workflow struct {
	records     RecordStore
	attachments AttachmentStore
	templates   TemplateStore
	hr          HRDirectory
	mail        Mailer
	logger      *slog.Logger
}

func New(records RecordStore, attachments AttachmentStore, templates TemplateStore, hr HRDirectory, mail Mailer, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		records:     records,
		attachments: attachments,
		templates:   templates,
		hr:          hr,
		mail:        mail,
		logger:      logger,
	}
}

// Register creates a registration on behalf of actor and queues the
// confirmation email. The returned record carries the store-assigned ID and
// the audit fields derived from actor and clock.
func (w *Workflow) Register(ctx context.Context, fields model.RegistrationFields, actor model.Actor, clock Clock) (*model.Registration, error) {
	reg, err := fields.Build(actor.DisplayName, clock())
	if err != nil {
		return nil, err
	}

	created, err := w.records.Create(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}
	w.logger.Info("registration: created", "id", created.ID, "created_by", created.CreatedBy)

	var attachment *model.Attachment
	if created.HasAttachment() {
		attachment, err = w.attachments.Create(ctx, model.Attachment{
			Name:        created.AttachmentFilename,
			ContentType: contentType(created.AttachmentFilename, created.Attachment),
			OwnerType:   model.RegistrationOwnerType,
			OwnerID:     created.ID,
			Data:        created.Attachment,
		})
		if err != nil {
			return nil, w.rollback(ctx, created.ID, fmt.Errorf("create attachment: %w", err))
		}
	}

	tmpl, err := w.lookupTemplate(ctx, model.TemplateRegistrationConfirmation)
	if err != nil {
		w.logger.Error("registration: confirmation email skipped", "id", created.ID, "err", err)
		return created, nil
	}
	if tmpl == nil {
		return created, nil
	}

	msg := mailer.Compose(tmpl, created.TemplateValues())
	msg.To = []string{created.InternEmail}
	msg.Subject = "Intern Registration Confirmation - " + created.InternName
	if attachment != nil {
		msg.Attachments = []mailer.Attachment{{
			Filename:    attachment.Name,
			ContentType: attachment.ContentType,
			Data:        attachment.Data,
		}}
	}

	// Delivery failures belong to the mail queue; the record stands.
	if err := w.mail.Enqueue(msg); err != nil {
		w.logger.Error("registration: confirmation email not queued", "id", created.ID, "err", err)
	}
	return created, nil
}

// ConfirmAndClose dismisses the registration form.
func (w *Workflow) ConfirmAndClose() model.CloseWizardSignal {
	return model.CloseWizard()
}

// Cancel dismisses the registration form.
func (w *Workflow) Cancel() model.CloseWizardSignal {
	return model.CloseWizard()
}

// NotifyRegistrationSuccess returns the sticky notification shown after a
// registration email has been sent.
func (w *Workflow) NotifyRegistrationSuccess() model.UserNotification {
	return model.UserNotification{
		Title:    "Registered Successfully",
		Severity: model.SeveritySuccess,
		Message:  "Registration email sent successfully",
		Sticky:   true,
	}
}

// SendDueReminders sends the HR reminder for every registration created on
// or before asOf that has an assigned HR contact. Each call resends to every
// matching record. It returns the number of reminders sent.
func (w *Workflow) SendDueReminders(ctx context.Context, asOf time.Time) (int, error) {
	tmpl, err := w.lookupTemplate(ctx, model.TemplateHRReminder)
	if err != nil {
		return 0, err
	}
	if tmpl == nil {
		return 0, nil
	}

	due, err := w.records.ListCreatedOnOrBefore(ctx, model.DateOf(asOf))
	if err != nil {
		return 0, fmt.Errorf("list due registrations: %w", err)
	}

	sent := 0
	for i := range due {
		reg := &due[i]
		if reg.SelectedHRRef == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		values := reg.TemplateValues()
		contact, err := w.hr.GetHRContact(ctx, *reg.SelectedHRRef)
		if err != nil {
			w.logger.Warn("reminder: hr contact not resolved", "registration_id", reg.ID, "hr_id", *reg.SelectedHRRef, "err", err)
			continue
		}
		values["hr_name"] = contact.Name
		values["hr_email"] = contact.Email
		values["hr_id"] = strconv.FormatInt(contact.ID, 10)

		msg := mailer.Compose(tmpl, values)
		if len(msg.To) == 0 {
			msg.To = []string{contact.Email}
		}
		if err := w.mail.SendNow(ctx, msg); err != nil {
			w.logger.Error("reminder: send failed", "registration_id", reg.ID, "err", err)
			continue
		}
		sent++
	}

	w.logger.Info("reminder: run complete", "as_of", asOf.Format(time.DateOnly), "due", len(due), "sent", sent)
	return sent, nil
}

// rollback removes a registration whose creation could not be completed, so
// the intern email stays available. cause is returned, joined with any
// failure to remove the record.
func (w *Workflow) rollback(ctx context.Context, id int64, cause error) error {
	if err := w.records.Delete(ctx, id); err != nil {
		w.logger.Error("registration: rollback failed", "id", id, "err", err)
		return errors.Join(cause, fmt.Errorf("delete registration %d: %w", id, err))
	}
	w.logger.Warn("registration: rolled back", "id", id, "err", cause)
	return cause
}

// lookupTemplate returns nil without an error when the template is absent,
// logging a warning so the misconfiguration is visible.
func (w *Workflow) lookupTemplate(ctx context.Context, name string) (*model.MailTemplate, error) {
	tmpl, err := w.templates.Get(ctx, name)
	if errors.Is(err, model.ErrTemplateNotFound) {
		w.logger.Warn("mail template not configured, skipping email", "template", name)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load template %q: %w", name, err)
	}
	return tmpl, nil
}

func contentType(filename string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
