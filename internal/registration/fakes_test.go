package registration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/internreg/internal/mailer"
	"github.com/internreg/internal/model"
)

type memoryRecords struct {
	mu        sync.Mutex
	nextID    int64
	rows      []model.Registration
	calls     int
	deleteErr error
}

func (s *memoryRecords) Create(_ context.Context, reg model.Registration) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	for _, row := range s.rows {
		if row.InternEmail == reg.InternEmail {
			return nil, model.ErrUniquenessViolation
		}
	}
	s.nextID++
	reg.ID = s.nextID
	s.rows = append(s.rows, reg)
	return &reg, nil
}

func (s *memoryRecords) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, row := range s.rows {
		if row.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *memoryRecords) ListCreatedOnOrBefore(_ context.Context, asOf time.Time) ([]model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []model.Registration
	for _, row := range s.rows {
		if !row.CreatedAt.After(asOf) {
			due = append(due, row)
		}
	}
	return due, nil
}

type memoryAttachments struct {
	created []model.Attachment
	err     error
}

func (s *memoryAttachments) Create(_ context.Context, att model.Attachment) (*model.Attachment, error) {
	if s.err != nil {
		return nil, s.err
	}
	att.ID = fmt.Sprintf("att-%d", len(s.created)+1)
	s.created = append(s.created, att)
	return &att, nil
}

type memoryTemplates struct {
	templates map[string]*model.MailTemplate
	err       error
}

func (s *memoryTemplates) Get(_ context.Context, name string) (*model.MailTemplate, error) {
	if s.err != nil {
		return nil, s.err
	}
	t, ok := s.templates[name]
	if !ok {
		return nil, model.ErrTemplateNotFound
	}
	return t, nil
}

type memoryHR map[int64]model.HRContact

func (d memoryHR) GetHRContact(_ context.Context, id int64) (*model.HRContact, error) {
	c, ok := d[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &c, nil
}

// recordingMailer records messages. Sends to addresses in failTo fail.
type recordingMailer struct {
	queued     []mailer.Message
	sent       []mailer.Message
	attempts   int
	failTo     map[string]bool
	enqueueErr error
}

func (m *recordingMailer) Enqueue(msg mailer.Message) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.queued = append(m.queued, msg)
	return nil
}

func (m *recordingMailer) SendNow(_ context.Context, msg mailer.Message) error {
	m.attempts++
	for _, to := range msg.To {
		if m.failTo[to] {
			return errSMTPDown
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

var (
	errStoreDown = errors.New("store down")
	errSMTPDown  = errors.New("smtp down")
	errDiskFull  = errors.New("disk full")
)

func defaultTemplates() *memoryTemplates {
	return &memoryTemplates{templates: map[string]*model.MailTemplate{
		model.TemplateRegistrationConfirmation: {
			Name:    model.TemplateRegistrationConfirmation,
			EmailTo: "{{intern_email}}",
			Subject: "ignored",
			Body:    "Dear {{intern_name}}, registered by {{created_by}} on {{created_at}}.",
		},
		model.TemplateHRReminder: {
			Name:    model.TemplateHRReminder,
			EmailTo: "{{hr_email}}",
			Subject: "Reminder: {{intern_name}}",
			Body:    "Hello {{hr_name}}, {{intern_name}} is assigned to you.",
		},
	}}
}

type fixture struct {
	records     *memoryRecords
	attachments *memoryAttachments
	templates   *memoryTemplates
	hr          memoryHR
	mail        *recordingMailer
	workflow    *Workflow
}

func newFixture() *fixture {
	f := &fixture{
		records:     &memoryRecords{},
		attachments: &memoryAttachments{},
		templates:   defaultTemplates(),
		hr: memoryHR{
			1: {ID: 1, Name: "Priya", Email: "priya@example.org"},
			2: {ID: 2, Name: "Omar", Email: "omar@example.org"},
		},
		mail: &recordingMailer{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.workflow = New(f.records, f.attachments, f.templates, f.hr, f.mail, logger)
	return f
}

func ref(id int64) *int64 { return &id }
