package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	appmw "github.com/internreg/internal/middleware"
	"github.com/internreg/internal/model"
	"github.com/internreg/internal/registration"
)

type registrar interface {
	Register(ctx context.Context, fields model.RegistrationFields, actor model.Actor, clock registration.Clock) (*model.Registration, error)
	ConfirmAndClose() model.CloseWizardSignal
	Cancel() model.CloseWizardSignal
	NotifyRegistrationSuccess() model.UserNotification
	SendDueReminders(ctx context.Context, asOf time.Time) (int, error)
}

type registrationReader interface {
	GetByID(ctx context.Context, id int64) (*model.Registration, error)
	List(ctx context.Context, limit int) ([]model.Registration, error)
}

type attachmentLister interface {
	ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]model.Attachment, error)
}

// RegistrationHandler exposes the intern registration workflow over HTTP.
type RegistrationHandler struct {
	BaseHandler
	workflow    registrar
	records     registrationReader
	attachments attachmentLister
	maxUpload   int64
	clock       registration.Clock
}

func NewRegistrationHandler(logger *slog.Logger, workflow registrar, records registrationReader, attachments attachmentLister, maxUpload int64) *RegistrationHandler {
	return &RegistrationHandler{
		BaseHandler: BaseHandler{Logger: logger},
		workflow:    workflow,
		records:     records,
		attachments: attachments,
		maxUpload:   maxUpload,
		clock:       time.Now,
	}
}

type createRegistrationResponse struct {
	Registration *model.Registration    `json:"registration"`
	Notification model.UserNotification `json:"notification"`
}

// Create registers an intern on behalf of the signed-in user. It accepts a
// multipart form with an optional "attachment" file, or a JSON body.
func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := appmw.UserFromContext(r.Context())
	if user == nil {
		h.errorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var fields model.RegistrationFields
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		f, err := h.parseMultipart(w, r)
		if err != nil {
			h.badRequestResponse(w, r, err)
			return
		}
		fields = f
	} else if err := h.readJSON(w, r, &fields); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	reg, err := h.workflow.Register(r.Context(), fields, user.Actor(), h.clock)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrRequiredFieldMissing), errors.Is(err, model.ErrInvalidTechStack):
			h.badRequestResponse(w, r, err)
		case errors.Is(err, model.ErrUniquenessViolation):
			h.errorResponse(w, r, http.StatusConflict, model.ErrUniquenessViolation.Error())
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := createRegistrationResponse{
		Registration: reg,
		Notification: h.workflow.NotifyRegistrationSuccess(),
	}
	headers := http.Header{"Location": []string{fmt.Sprintf("/api/registrations/%d", reg.ID)}}
	if err := h.writeJSON(w, http.StatusCreated, resp, headers); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *RegistrationHandler) parseMultipart(w http.ResponseWriter, r *http.Request) (model.RegistrationFields, error) {
	var fields model.RegistrationFields

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1_048_576)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return fields, fmt.Errorf("attachment must not be larger than %d bytes", h.maxUpload)
		}
		return fields, fmt.Errorf("invalid multipart form: %w", err)
	}

	var err error
	fields.InternName = r.FormValue("internName")
	fields.InternEmail = r.FormValue("internEmail")
	fields.TechStack = model.TechStack(r.FormValue("techStack"))
	if fields.InternID, err = optionalInt(r.FormValue("internId")); err != nil {
		return fields, fmt.Errorf("internId: %w", err)
	}
	if fields.SelectedInternRef, err = optionalRef(r.FormValue("selectedInternRef")); err != nil {
		return fields, fmt.Errorf("selectedInternRef: %w", err)
	}
	if fields.SelectedEmployeeRef, err = optionalRef(r.FormValue("selectedEmployeeRef")); err != nil {
		return fields, fmt.Errorf("selectedEmployeeRef: %w", err)
	}
	if fields.SelectedHRRef, err = optionalRef(r.FormValue("selectedHrRef")); err != nil {
		return fields, fmt.Errorf("selectedHrRef: %w", err)
	}
	for _, v := range r.MultipartForm.Value["hrContacts"] {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fields, fmt.Errorf("hrContacts: %q is not a valid id", v)
		}
		fields.HRContacts = append(fields.HRContacts, id)
	}

	file, header, err := r.FormFile("attachment")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return fields, nil
	case err != nil:
		return fields, fmt.Errorf("attachment: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		return fields, fmt.Errorf("read attachment: %w", err)
	}
	if int64(len(data)) > h.maxUpload {
		return fields, fmt.Errorf("attachment must not be larger than %d bytes", h.maxUpload)
	}
	fields.Attachment = data
	fields.AttachmentFilename = header.Filename
	return fields, nil
}

// List returns the most recent registrations.
func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			h.badRequestResponse(w, r, errors.New("limit must be between 1 and 500"))
			return
		}
		limit = n
	}

	regs, err := h.records.List(r.Context(), limit)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	if err := h.writeJSON(w, http.StatusOK, envelope{"registrations": regs}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// Get returns a single registration with its attachment metadata.
func (h *RegistrationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		h.notFoundResponse(w, r)
		return
	}

	reg, err := h.records.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			h.notFoundResponse(w, r)
			return
		}
		h.serverErrorResponse(w, r, err)
		return
	}

	attachments, err := h.attachments.ListByOwner(r.Context(), model.RegistrationOwnerType, reg.ID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	if err := h.writeJSON(w, http.StatusOK, envelope{"registration": reg, "attachments": attachments}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// Confirm acknowledges the registration form and tells the client to close it.
func (h *RegistrationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if err := h.writeJSON(w, http.StatusOK, h.workflow.ConfirmAndClose(), nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// Cancel discards the registration form.
func (h *RegistrationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.writeJSON(w, http.StatusOK, h.workflow.Cancel(), nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// Notification returns the success notification payload.
func (h *RegistrationHandler) Notification(w http.ResponseWriter, r *http.Request) {
	if err := h.writeJSON(w, http.StatusOK, h.workflow.NotifyRegistrationSuccess(), nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// RunReminders sends the HR reminders due as of today.
func (h *RegistrationHandler) RunReminders(w http.ResponseWriter, r *http.Request) {
	sent, err := h.workflow.SendDueReminders(r.Context(), h.clock())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	if err := h.writeJSON(w, http.StatusOK, envelope{"sent": sent}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func optionalInt(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", v)
	}
	return n, nil
}

func optionalRef(v string) (*int64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid id", v)
	}
	return &n, nil
}
