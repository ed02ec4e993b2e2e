package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	appmw "github.com/internreg/internal/middleware"
	"github.com/internreg/internal/model"
)

type templateStore interface {
	Get(ctx context.Context, name string) (*model.MailTemplate, error)
	List(ctx context.Context) ([]model.MailTemplate, error)
	Save(ctx context.Context, t *model.MailTemplate, updatedBy string) error
	Delete(ctx context.Context, name string) error
}

// TemplateHandler manages the mail templates used by the registration workflow.
type TemplateHandler struct {
	BaseHandler
	templates templateStore
}

func NewTemplateHandler(logger *slog.Logger, templates templateStore) *TemplateHandler {
	return &TemplateHandler{BaseHandler: BaseHandler{Logger: logger}, templates: templates}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.templates.List(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	if err := h.writeJSON(w, http.StatusOK, envelope{"templates": list}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.templates.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, model.ErrTemplateNotFound) {
			h.notFoundResponse(w, r)
			return
		}
		h.serverErrorResponse(w, r, err)
		return
	}
	if err := h.writeJSON(w, http.StatusOK, envelope{"template": t}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

type templateRequest struct {
	EmailTo string `json:"emailTo"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	IsHTML  bool   `json:"isHtml"`
}

// Put creates or replaces the named template.
func (h *TemplateHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if req.Body == "" {
		h.badRequestResponse(w, r, errors.New("body must not be empty"))
		return
	}

	t := &model.MailTemplate{
		Name:    chi.URLParam(r, "name"),
		EmailTo: req.EmailTo,
		Subject: req.Subject,
		Body:    req.Body,
		IsHTML:  req.IsHTML,
	}

	var updatedBy string
	if u := appmw.UserFromContext(r.Context()); u != nil {
		updatedBy = u.Actor().DisplayName
	}
	if err := h.templates.Save(r.Context(), t, updatedBy); err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.Logger.Info("templates: saved", "name", t.Name, "updated_by", updatedBy)
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes the named template. Emails that depend on it are skipped
// until it is recreated.
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.templates.Delete(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, model.ErrTemplateNotFound) {
			h.notFoundResponse(w, r)
			return
		}
		h.serverErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
