package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/internreg/internal/auth"
	"github.com/internreg/internal/mailer"
	appmw "github.com/internreg/internal/middleware"
	"github.com/internreg/internal/model"
	"github.com/internreg/internal/registration"
	"github.com/internreg/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var hrUser = &model.StaffUser{ID: "u1", Email: "jane@example.com", DisplayName: "Jane HR", Role: model.RoleHR, Status: model.StatusActive}

func withUser(req *http.Request, u *model.StaffUser) *http.Request {
	return req.WithContext(appmw.WithUser(req.Context(), u))
}

type fakeWorkflow struct {
	fields    model.RegistrationFields
	actor     model.Actor
	err       error
	remindAt  time.Time
	remindErr error
}

func (f *fakeWorkflow) Register(_ context.Context, fields model.RegistrationFields, actor model.Actor, clock registration.Clock) (*model.Registration, error) {
	f.fields, f.actor = fields, actor
	if f.err != nil {
		return nil, f.err
	}
	reg, err := fields.Build(actor.DisplayName, clock())
	if err != nil {
		return nil, err
	}
	reg.ID = 7
	return &reg, nil
}

func (f *fakeWorkflow) ConfirmAndClose() model.CloseWizardSignal { return model.CloseWizard() }
func (f *fakeWorkflow) Cancel() model.CloseWizardSignal          { return model.CloseWizard() }

func (f *fakeWorkflow) NotifyRegistrationSuccess() model.UserNotification {
	return model.UserNotification{Title: "Registered Successfully", Severity: model.SeveritySuccess, Sticky: true}
}

func (f *fakeWorkflow) SendDueReminders(_ context.Context, asOf time.Time) (int, error) {
	f.remindAt = asOf
	return 2, f.remindErr
}

type fakeRecords map[int64]*model.Registration

func (f fakeRecords) GetByID(_ context.Context, id int64) (*model.Registration, error) {
	if r, ok := f[id]; ok {
		return r, nil
	}
	return nil, model.ErrNotFound
}

func (f fakeRecords) List(_ context.Context, limit int) ([]model.Registration, error) {
	out := make([]model.Registration, 0, len(f))
	for _, r := range f {
		out = append(out, *r)
	}
	return out, nil
}

type fakeAttachments []model.Attachment

func (f fakeAttachments) ListByOwner(_ context.Context, ownerType string, ownerID int64) ([]model.Attachment, error) {
	var out []model.Attachment
	for _, a := range f {
		if a.OwnerType == ownerType && a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func newRegistrationHandler(wf *fakeWorkflow) *RegistrationHandler {
	attachments := fakeAttachments{{ID: "a1", Name: "cv.pdf", OwnerType: model.RegistrationOwnerType, OwnerID: 3}}
	h := NewRegistrationHandler(testLogger(), wf, fakeRecords{3: {ID: 3, InternEmail: "ana@example.com"}}, attachments, 1024)
	h.clock = func() time.Time { return time.Date(2026, 10, 19, 15, 4, 0, 0, time.UTC) }
	return h
}

func multipartBody(t *testing.T, fields map[string][]string, filename string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, vs := range fields {
		for _, v := range vs {
			if err := writer.WriteField(k, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("attachment", filename)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(file)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestCreateRegistrationMultipart(t *testing.T) {
	wf := &fakeWorkflow{}
	h := newRegistrationHandler(wf)

	body, ct := multipartBody(t, map[string][]string{
		"internName":    {"Ana"},
		"internEmail":   {"ana@example.com"},
		"internId":      {"42"},
		"techStack":     {"python"},
		"selectedHrRef": {"5"},
		"hrContacts":    {"5", "9"},
	}, "cv.pdf", []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/api/registrations", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.Create(rr, withUser(req, hrUser))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body)
	}
	if loc := rr.Header().Get("Location"); loc != "/api/registrations/7" {
		t.Errorf("unexpected Location %q", loc)
	}
	if wf.actor.DisplayName != "Jane HR" {
		t.Errorf("expected actor Jane HR, got %q", wf.actor.DisplayName)
	}
	if wf.fields.InternID != 42 || wf.fields.SelectedHRRef == nil || *wf.fields.SelectedHRRef != 5 {
		t.Errorf("fields not parsed: %+v", wf.fields)
	}
	if len(wf.fields.HRContacts) != 2 || string(wf.fields.Attachment) != "%PDF-1.4" || wf.fields.AttachmentFilename != "cv.pdf" {
		t.Errorf("contacts or attachment not parsed: %+v", wf.fields)
	}

	var resp struct {
		Registration model.Registration     `json:"registration"`
		Notification model.UserNotification `json:"notification"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Registration.CreatedBy != "Jane HR" || resp.Registration.CreatedAt.Format(time.DateOnly) != "2026-10-19" {
		t.Errorf("unexpected audit fields: %+v", resp.Registration)
	}
	if !resp.Notification.Sticky {
		t.Errorf("expected sticky notification, got %+v", resp.Notification)
	}
}

func TestCreateRegistrationAttachmentTooLarge(t *testing.T) {
	h := newRegistrationHandler(&fakeWorkflow{})

	body, ct := multipartBody(t, map[string][]string{"internEmail": {"ana@example.com"}}, "big.bin", bytes.Repeat([]byte("x"), 2048))
	req := httptest.NewRequest(http.MethodPost, "/api/registrations", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.Create(rr, withUser(req, hrUser))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestCreateRegistrationErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		user *model.StaffUser
		want int
	}{
		{"unauthenticated", `{"internEmail":"ana@example.com"}`, nil, nil, http.StatusUnauthorized},
		{"missing email", `{"internName":"Ana"}`, nil, hrUser, http.StatusBadRequest},
		{"unknown tech stack", `{"internEmail":"ana@example.com","techStack":"cobol"}`, nil, hrUser, http.StatusBadRequest},
		{"duplicate email", `{"internEmail":"ana@example.com"}`, fmt.Errorf("create registration: %w", model.ErrUniquenessViolation), hrUser, http.StatusConflict},
		{"store failure", `{"internEmail":"ana@example.com"}`, fmt.Errorf("create registration: connection reset"), hrUser, http.StatusInternalServerError},
		{"malformed json", `{"internEmail":`, nil, hrUser, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newRegistrationHandler(&fakeWorkflow{err: tc.err})
			req := httptest.NewRequest(http.MethodPost, "/api/registrations", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			if tc.user != nil {
				req = withUser(req, tc.user)
			}
			rr := httptest.NewRecorder()
			h.Create(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("expected status %d, got %d: %s", tc.want, rr.Code, rr.Body)
			}
		})
	}
}

func TestGetRegistration(t *testing.T) {
	h := newRegistrationHandler(&fakeWorkflow{})
	r := chi.NewRouter()
	r.Get("/api/registrations/{id}", h.Get)

	for path, want := range map[string]int{
		"/api/registrations/3":   http.StatusOK,
		"/api/registrations/99":  http.StatusNotFound,
		"/api/registrations/abc": http.StatusNotFound,
	} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != want {
			t.Errorf("%s: expected %d, got %d", path, want, rr.Code)
		}
		if want == http.StatusOK && !strings.Contains(rr.Body.String(), `"name":"cv.pdf"`) {
			t.Errorf("%s: expected attachment metadata, got %s", path, rr.Body)
		}
	}
}

func TestListRegistrationsRejectsBadLimit(t *testing.T) {
	h := newRegistrationHandler(&fakeWorkflow{})
	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/registrations?limit=0", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestConfirmAndCancelReturnCloseSignal(t *testing.T) {
	h := newRegistrationHandler(&fakeWorkflow{})
	for _, fn := range []http.HandlerFunc{h.Confirm, h.Cancel} {
		rr := httptest.NewRecorder()
		fn(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		if got := strings.TrimSpace(rr.Body.String()); got != `{"type":"ir.actions.act_window_close"}` {
			t.Errorf("unexpected body %s", got)
		}
	}
}

func TestRunReminders(t *testing.T) {
	wf := &fakeWorkflow{}
	h := newRegistrationHandler(wf)
	rr := httptest.NewRecorder()
	h.RunReminders(rr, httptest.NewRequest(http.MethodPost, "/api/reminders/run", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"sent":2}` {
		t.Errorf("unexpected body %s", got)
	}
	if wf.remindAt.IsZero() {
		t.Error("expected reminders to run with the handler clock")
	}
}

type fakeSettings struct {
	current *model.MailSettings
	saved   *model.MailSettings
}

func (f *fakeSettings) Load(context.Context) (*model.MailSettings, error) {
	s := *f.current
	return &s, nil
}

func (f *fakeSettings) Save(_ context.Context, s *model.MailSettings) error {
	f.saved = s
	f.current = s
	return nil
}

type fakeTransport struct {
	cfg  *mailer.Config
	sent []mailer.Message
}

func (f *fakeTransport) Reconfigure(cfg *mailer.Config) { f.cfg = cfg }

func (f *fakeTransport) SendNow(_ context.Context, msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func TestSettingsGetMasksPassword(t *testing.T) {
	h := NewSettingsHandler(testLogger(), &fakeSettings{current: &model.MailSettings{SMTPHost: "smtp.example.com", SMTPPass: "hunter2"}}, &fakeTransport{})
	rr := httptest.NewRecorder()
	h.Get(rr, httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil))

	if strings.Contains(rr.Body.String(), "hunter2") {
		t.Fatalf("password leaked: %s", rr.Body)
	}
	if !strings.Contains(rr.Body.String(), `"smtpPassSet":true`) {
		t.Errorf("expected smtpPassSet, got %s", rr.Body)
	}
}

func TestSettingsUpdateKeepsPasswordAndApplies(t *testing.T) {
	store := &fakeSettings{current: &model.MailSettings{SMTPPass: "hunter2"}}
	transport := &fakeTransport{}
	h := NewSettingsHandler(testLogger(), store, transport)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/settings", strings.NewReader(`{"smtpHost":"smtp.example.com","smtpPort":587}`))
	rr := httptest.NewRecorder()
	h.Update(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d: %s", http.StatusNoContent, rr.Code, rr.Body)
	}
	if store.saved.SMTPPass != "hunter2" {
		t.Errorf("expected stored password kept, got %q", store.saved.SMTPPass)
	}
	if transport.cfg == nil || transport.cfg.Host != "smtp.example.com" || transport.cfg.Port != 587 {
		t.Errorf("expected mailer reconfigured, got %+v", transport.cfg)
	}
}

func TestSettingsTestEmail(t *testing.T) {
	transport := &fakeTransport{}
	h := NewSettingsHandler(testLogger(), &fakeSettings{current: &model.MailSettings{}}, transport)
	rr := httptest.NewRecorder()
	h.TestEmail(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d without recipient, got %d", http.StatusBadRequest, rr.Code)
	}

	h = NewSettingsHandler(testLogger(), &fakeSettings{current: &model.MailSettings{TestRecipient: "ops@example.com"}}, transport)
	rr = httptest.NewRecorder()
	h.TestEmail(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusNoContent || len(transport.sent) != 1 || transport.sent[0].To[0] != "ops@example.com" {
		t.Errorf("expected one test email, got %d %+v", rr.Code, transport.sent)
	}
}

type fakeTemplates map[string]*model.MailTemplate

func (f fakeTemplates) Get(_ context.Context, name string) (*model.MailTemplate, error) {
	if t, ok := f[name]; ok {
		return t, nil
	}
	return nil, model.ErrTemplateNotFound
}

func (f fakeTemplates) List(context.Context) ([]model.MailTemplate, error) {
	out := make([]model.MailTemplate, 0, len(f))
	for _, t := range f {
		out = append(out, *t)
	}
	return out, nil
}

func (f fakeTemplates) Save(_ context.Context, t *model.MailTemplate, updatedBy string) error {
	t.UpdatedBy = updatedBy
	f[t.Name] = t
	return nil
}

func (f fakeTemplates) Delete(_ context.Context, name string) error {
	if _, ok := f[name]; !ok {
		return model.ErrTemplateNotFound
	}
	delete(f, name)
	return nil
}

func TestTemplateLifecycle(t *testing.T) {
	store := fakeTemplates{}
	h := NewTemplateHandler(testLogger(), store)
	r := chi.NewRouter()
	r.Get("/api/admin/templates/{name}", h.Get)
	r.Put("/api/admin/templates/{name}", h.Put)
	r.Delete("/api/admin/templates/{name}", h.Delete)

	do := func(method, body string) int {
		req := httptest.NewRequest(method, "/api/admin/templates/hr_reminder", strings.NewReader(body))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, withUser(req, hrUser))
		return rr.Code
	}

	if code := do(http.MethodGet, ""); code != http.StatusNotFound {
		t.Fatalf("expected 404 before save, got %d", code)
	}
	if code := do(http.MethodPut, `{"body":"Reminder for {{intern_name}}"}`); code != http.StatusNoContent {
		t.Fatalf("expected 204 on save, got %d", code)
	}
	if store["hr_reminder"].UpdatedBy != "Jane HR" {
		t.Errorf("expected updatedBy Jane HR, got %q", store["hr_reminder"].UpdatedBy)
	}
	if code := do(http.MethodGet, ""); code != http.StatusOK {
		t.Fatalf("expected 200 after save, got %d", code)
	}
	if code := do(http.MethodDelete, ""); code != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", code)
	}
	if code := do(http.MethodDelete, ""); code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", code)
	}
}

type fakeAuthUsers struct {
	user *model.StaffUser
	hash string
}

func (f *fakeAuthUsers) GetByEmail(_ context.Context, email string) (*model.StaffUser, string, error) {
	if f.user == nil || email != f.user.Email {
		return nil, "", model.ErrNotFound
	}
	return f.user, f.hash, nil
}

func (f *fakeAuthUsers) UpdateLastLogin(context.Context, string) error { return nil }

type fakeAuthSessions struct{ deleted []string }

func (f *fakeAuthSessions) Create(context.Context, string) (string, error) { return "tok", nil }

func (f *fakeAuthSessions) DeleteAllByUserID(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestLogin(t *testing.T) {
	hash, err := auth.Hash("s3cret-pass")
	if err != nil {
		t.Fatal(err)
	}
	users := &fakeAuthUsers{user: hrUser, hash: hash}
	h := NewAuthHandler(testLogger(), users, &fakeAuthSessions{}, time.Hour, false)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"valid credentials", `{"email":"jane@example.com","password":"s3cret-pass"}`, http.StatusOK},
		{"wrong password", `{"email":"jane@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"email":"bob@example.com","password":"s3cret-pass"}`, http.StatusUnauthorized},
		{"empty body", ``, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.Login(rr, httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(tc.body)))
			if rr.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rr.Code)
			}
			cookies := rr.Result().Cookies()
			if tc.want == http.StatusOK && (len(cookies) != 1 || cookies[0].Value != "tok") {
				t.Errorf("expected session cookie, got %v", cookies)
			}
		})
	}
}

func TestLogoutDeletesSessions(t *testing.T) {
	sessions := &fakeAuthSessions{}
	h := NewAuthHandler(testLogger(), &fakeAuthUsers{}, sessions, time.Hour, false)
	rr := httptest.NewRecorder()
	h.Logout(rr, withUser(httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil), hrUser))

	if rr.Code != http.StatusNoContent || len(sessions.deleted) != 1 || sessions.deleted[0] != "u1" {
		t.Errorf("expected sessions deleted for u1, got %d %v", rr.Code, sessions.deleted)
	}
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeMailPinger struct{ err error }

func (f fakeMailPinger) Ping() error { return f.err }

func TestHealth(t *testing.T) {
	down := fmt.Errorf("connection refused")
	for _, tc := range []struct {
		name     string
		db, mail error
		want     int
		wantMail string
	}{
		{"healthy", nil, nil, http.StatusOK, `"mail":"ok"`},
		{"database down", down, nil, http.StatusServiceUnavailable, `"mail":"ok"`},
		{"smtp down", nil, down, http.StatusOK, `"mail":"unreachable"`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Health(fakePinger{tc.db}, fakeMailPinger{tc.mail})(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			if rr.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tc.wantMail) {
				t.Errorf("expected %s in %s", tc.wantMail, rr.Body)
			}
		})
	}
}

type fakeStaff struct {
	created []string
	status  map[string]model.Status
	err     error
}

func (f *fakeStaff) Create(_ context.Context, id, email, _, _ string, _ model.Role) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, email)
	return nil
}

func (f *fakeStaff) UpdateStatus(_ context.Context, id string, status model.Status) error {
	if f.err != nil {
		return f.err
	}
	f.status[id] = status
	return nil
}

func TestUsersCreate(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"valid", `{"email":"bob@example.com","displayName":"Bob","password":"long-enough-pass"}`, nil, http.StatusCreated},
		{"short password", `{"email":"bob@example.com","password":"short"}`, nil, http.StatusBadRequest},
		{"bad role", `{"email":"bob@example.com","password":"long-enough-pass","role":"root"}`, nil, http.StatusBadRequest},
		{"duplicate", `{"email":"bob@example.com","password":"long-enough-pass"}`, store.ErrEmailTaken, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewUsersHandler(testLogger(), &fakeStaff{err: tc.err}, &fakeAuthSessions{})
			rr := httptest.NewRecorder()
			h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(tc.body)))
			if rr.Code != tc.want {
				t.Fatalf("expected status %d, got %d: %s", tc.want, rr.Code, rr.Body)
			}
		})
	}
}

func TestUsersDeactivateRevokesSessions(t *testing.T) {
	users := &fakeStaff{status: map[string]model.Status{}}
	sessions := &fakeAuthSessions{}
	h := NewUsersHandler(testLogger(), users, sessions)
	r := chi.NewRouter()
	r.Put("/api/admin/users/{id}/status", h.UpdateStatus)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/users/u9/status", strings.NewReader(`{"status":"inactive"}`)))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if users.status["u9"] != model.StatusInactive || len(sessions.deleted) != 1 {
		t.Errorf("expected deactivation and revoked sessions, got %v %v", users.status, sessions.deleted)
	}

	h = NewUsersHandler(testLogger(), &fakeStaff{err: store.ErrLastAdmin}, sessions)
	r = chi.NewRouter()
	r.Put("/api/admin/users/{id}/status", h.UpdateStatus)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/users/u1/status", strings.NewReader(`{"status":"inactive"}`)))
	if rr.Code != http.StatusConflict {
		t.Errorf("expected %d for last admin, got %d", http.StatusConflict, rr.Code)
	}
}

type fakeDirectory struct{ contacts []model.HRContact }

func (f *fakeDirectory) ListHRContacts(context.Context) ([]model.HRContact, error) {
	return f.contacts, nil
}

func (f *fakeDirectory) CreateHRContact(_ context.Context, name, email string) (*model.HRContact, error) {
	for _, c := range f.contacts {
		if c.Email == email {
			return nil, fmt.Errorf("hr contact %s: %w", email, model.ErrUniquenessViolation)
		}
	}
	c := model.HRContact{ID: int64(len(f.contacts) + 1), Name: name, Email: email}
	f.contacts = append(f.contacts, c)
	return &c, nil
}

func TestHRContactCreate(t *testing.T) {
	h := NewHRContactHandler(testLogger(), &fakeDirectory{})

	for _, tc := range []struct {
		body string
		want int
	}{
		{`{"name":"Priya","email":"Priya <priya@example.com>"}`, http.StatusCreated},
		{`{"name":"Priya","email":"priya@example.com"}`, http.StatusConflict},
		{`{"name":"Nobody","email":"not-an-address"}`, http.StatusBadRequest},
	} {
		rr := httptest.NewRecorder()
		h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/hr-contacts", strings.NewReader(tc.body)))
		if rr.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.body, tc.want, rr.Code)
		}
	}
}

func TestUsersUpdateStatusUnknownUser(t *testing.T) {
	h := NewUsersHandler(testLogger(), &fakeStaff{err: store.ErrNotFound}, &fakeAuthSessions{})
	r := chi.NewRouter()
	r.Put("/api/admin/users/{id}/status", h.UpdateStatus)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/users/nobody/status", strings.NewReader(`{"status":"active"}`)))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
