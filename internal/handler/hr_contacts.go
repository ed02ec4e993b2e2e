package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/internreg/internal/model"
)

type hrDirectory interface {
	ListHRContacts(ctx context.Context) ([]model.HRContact, error)
	CreateHRContact(ctx context.Context, name, email string) (*model.HRContact, error)
}

// HRContactHandler serves the HR contacts interns can be assigned to.
type HRContactHandler struct {
	BaseHandler
	directory hrDirectory
}

func NewHRContactHandler(logger *slog.Logger, directory hrDirectory) *HRContactHandler {
	return &HRContactHandler{BaseHandler: BaseHandler{Logger: logger}, directory: directory}
}

func (h *HRContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.directory.ListHRContacts(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	if err := h.writeJSON(w, http.StatusOK, envelope{"hrContacts": contacts}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *HRContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		h.badRequestResponse(w, r, errors.New("email must be a valid address"))
		return
	}

	contact, err := h.directory.CreateHRContact(r.Context(), strings.TrimSpace(req.Name), addr.Address)
	if err != nil {
		if errors.Is(err, model.ErrUniquenessViolation) {
			h.errorResponse(w, r, http.StatusConflict, "an hr contact with this email already exists")
			return
		}
		h.serverErrorResponse(w, r, err)
		return
	}
	if err := h.writeJSON(w, http.StatusCreated, envelope{"hrContact": contact}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
