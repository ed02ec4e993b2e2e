package model

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"
)

// RegistrationOwnerType is the owner type attachments are linked under.
const RegistrationOwnerType = "intern.register"

var (
	ErrRequiredFieldMissing = errors.New("intern email is required")
	ErrUniquenessViolation  = errors.New("the email must be unique for each intern")
	ErrInvalidTechStack     = errors.New("unknown tech stack")
	ErrTemplateNotFound     = errors.New("mail template not found")
	ErrNotFound             = errors.New("not found")
)

type TechStack string

const (
	TechStackOdoo   TechStack = "odoo"
	TechStackTester TechStack = "tester"
	TechStackPython TechStack = "python"
	TechStackWeb    TechStack = "web"
)

var techStackLabels = map[TechStack]string{
	TechStackOdoo:   "Odoo Developer",
	TechStackTester: "Testing Developer",
	TechStackPython: "Python Developer",
	TechStackWeb:    "Web Developer",
}

// Label returns the display label, or an empty string for an unset stack.
func (t TechStack) Label() string {
	return techStackLabels[t]
}

func (t TechStack) Valid() bool {
	if t == "" {
		return true
	}
	_, ok := techStackLabels[t]
	return ok
}

// Registration is an intern registration as persisted by the record store.
type Registration struct {
	ID                  int64     `json:"id"`
	SelectedInternRef   *int64    `json:"selectedInternRef,omitempty"`
	SelectedEmployeeRef *int64    `json:"selectedEmployeeRef,omitempty"`
	SelectedHRRef       *int64    `json:"selectedHrRef,omitempty"`
	InternName          string    `json:"internName"`
	InternEmail         string    `json:"internEmail"`
	InternID            int       `json:"internId"`
	TechStack           TechStack `json:"techStack,omitempty"`
	HRContacts          []int64   `json:"hrContacts"`
	CreatedBy           string    `json:"createdBy"`
	CreatedAt           time.Time `json:"createdAt"`
	Attachment          []byte    `json:"-"`
	AttachmentFilename  string    `json:"attachmentFilename,omitempty"`
}

// HasAttachment reports whether an attachment payload was supplied.
func (r *Registration) HasAttachment() bool {
	return len(r.Attachment) > 0
}

// TemplateValues exposes the record to mail templates as {{key}} tokens.
func (r *Registration) TemplateValues() map[string]string {
	return map[string]string{
		"intern_name":     r.InternName,
		"intern_email":    r.InternEmail,
		"intern_id":       strconv.Itoa(r.InternID),
		"tech_stack":      r.TechStack.Label(),
		"created_by":      r.CreatedBy,
		"created_at":      r.CreatedAt.Format(time.DateOnly),
		"registration_id": strconv.FormatInt(r.ID, 10),
		"attachment_name": r.AttachmentFilename,
	}
}

// RegistrationFields is the caller-supplied input for a registration.
// Audit fields are derived by Build.
type RegistrationFields struct {
	SelectedInternRef   *int64    `json:"selectedInternRef"`
	SelectedEmployeeRef *int64    `json:"selectedEmployeeRef"`
	SelectedHRRef       *int64    `json:"selectedHrRef"`
	InternName          string    `json:"internName"`
	InternEmail         string    `json:"internEmail"`
	InternID            int       `json:"internId"`
	TechStack           TechStack `json:"techStack"`
	HRContacts          []int64   `json:"hrContacts"`
	Attachment          []byte    `json:"-"`
	AttachmentFilename  string    `json:"attachmentFilename"`
}

// Build validates the fields and returns a registration stamped with the
// acting user's name and the creation date.
func (f RegistrationFields) Build(createdBy string, now time.Time) (Registration, error) {
	email := strings.TrimSpace(f.InternEmail)
	if email == "" {
		return Registration{}, ErrRequiredFieldMissing
	}
	if !f.TechStack.Valid() {
		return Registration{}, ErrInvalidTechStack
	}

	contacts := slices.Clone(f.HRContacts)
	slices.Sort(contacts)
	contacts = slices.Compact(contacts)
	if contacts == nil {
		contacts = []int64{}
	}

	reg := Registration{
		SelectedInternRef:   f.SelectedInternRef,
		SelectedEmployeeRef: f.SelectedEmployeeRef,
		SelectedHRRef:       f.SelectedHRRef,
		InternName:          strings.TrimSpace(f.InternName),
		InternEmail:         email,
		InternID:            f.InternID,
		TechStack:           f.TechStack,
		HRContacts:          contacts,
		CreatedBy:           createdBy,
		CreatedAt:           DateOf(now),
	}
	if len(f.Attachment) > 0 {
		reg.Attachment = slices.Clone(f.Attachment)
		reg.AttachmentFilename = f.AttachmentFilename
	}
	return reg, nil
}

// DateOf truncates t to midnight UTC of its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Attachment is a binary blob linked to an owning record.
type Attachment struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	OwnerType   string    `json:"ownerType"`
	OwnerID     int64     `json:"ownerId"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HRContact is an HR staff member interns can be assigned to.
type HRContact struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
