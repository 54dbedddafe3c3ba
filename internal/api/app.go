package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kalambet/cockpit/internal/catalog"
	"github.com/kalambet/cockpit/internal/composer"
	"github.com/kalambet/cockpit/internal/profile"
	"github.com/kalambet/cockpit/internal/schema"
	"github.com/kalambet/cockpit/internal/session"
	"github.com/kalambet/cockpit/internal/storage"
)

const (
	defaultTemplateLimit = 50
	maxTemplateLimit     = 500
)

type AppDeps struct {
	Store    *storage.Store
	Sessions *session.Manager

	// FilenameBase names prompt and schema downloads unless the request
	// overrides it.
	FilenameBase string
	// DefaultLanguage seeds the language of new forms.
	DefaultLanguage string
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d AppDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// newForm returns the start-of-session form with the configured language.
func (d AppDeps) newForm() profile.Form {
	f := profile.NewForm()
	if catalog.ValidLanguage(d.DefaultLanguage) {
		f.Language = d.DefaultLanguage
	}
	return f
}

func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Get("/catalog", handleCatalog)
	r.Get("/catalog/use-cases/{useCase}", handleUseCaseOptions)

	r.Post("/resolve/merge", handleMerge)
	r.Post("/resolve/goal-subtypes", handleGoalSubtypes)
	r.Post("/resolve/deep-questions", handleDeepQuestions)
	r.Post("/resolve/prioritize", handlePrioritize)

	r.Post("/render", handleRender(deps))

	r.Post("/sessions", handleCreateSession(deps))
	r.Get("/sessions/{id}", handleGetSession(deps))
	r.Patch("/sessions/{id}", handlePatchSession(deps))
	r.Delete("/sessions/{id}", handleDeleteSession(deps))
	r.Get("/sessions/{id}/prompt", handleDownloadPrompt(deps))
	r.Get("/sessions/{id}/schema", handleDownloadSchema(deps))
	r.Post("/sessions/{id}/templates", handleSaveTemplate(deps))

	r.Get("/templates", handleListTemplates(deps))
	r.Get("/templates/{id}", handleGetTemplate(deps))
	r.Delete("/templates/{id}", handleDeleteTemplate(deps))

	return r
}

// Rendered bundles every artifact derived from one form.
type Rendered struct {
	Profile  profile.Profile `json:"profile"`
	Prompt   string          `json:"prompt"`
	Document schema.Document `json:"document"`
}

// Render resolves f and derives the prompt and its document at now.
func Render(f profile.Form, now time.Time) Rendered {
	p := f.Resolve()
	prompt := composer.RenderPrompt(p, now)
	return Rendered{
		Profile:  p,
		Prompt:   prompt,
		Document: schema.Render(p, prompt, now),
	}
}

// SessionOptions are the choices currently offered to a session, derived from
// its resolved profile.
type SessionOptions struct {
	SubUseCases       []string `json:"sub_use_cases"`
	Goals             []string `json:"goals"`
	GoalSubtypes      []string `json:"goal_subtypes"`
	ConversationGoals []string `json:"conversation_goals"`
	DeepQuestions     []string `json:"deep_questions"`
}

type sessionView struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	Form      profile.Form    `json:"form"`
	Options   SessionOptions  `json:"options"`
	Profile   profile.Profile `json:"profile"`
	Prompt    string          `json:"prompt"`
}

func viewSession(deps AppDeps, s session.Session) sessionView {
	out := Render(s.Form, deps.now())
	p := out.Profile
	return sessionView{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		ExpiresAt: s.UpdatedAt.Add(deps.Sessions.TTL()),
		Form:      s.Form,
		Options: SessionOptions{
			SubUseCases:       catalog.SubUseCases(p.UseCase),
			Goals:             catalog.Goals(p.UseCase),
			GoalSubtypes:      profile.ResolveGoalSubtypeCandidates(p.Goals),
			ConversationGoals: catalog.ConversationGoals(p.Mode),
			DeepQuestions:     profile.ResolveDeepQuestionCandidates(p.Mode, p.Goals),
		},
		Profile: p,
		Prompt:  out.Prompt,
	}
}

func handleRender(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := deps.newForm()
		if !decodeBody(w, r, &form) {
			return
		}
		writeJSON(w, http.StatusOK, Render(form, deps.now()))
	}
}

type createSessionRequest struct {
	TemplateID string `json:"template_id"`
}

func handleCreateSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if r.ContentLength != 0 {
			if !decodeBody(w, r, &req) {
				return
			}
		}

		form := deps.newForm()
		if req.TemplateID != "" {
			t, err := deps.Store.GetTemplate(req.TemplateID)
			if errors.Is(err, storage.ErrNotFound) {
				httpError(w, http.StatusNotFound, "not_found_error", "template %s not found", req.TemplateID)
				return
			}
			if err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to load template: %v", err)
				return
			}
			if form, err = decodeForm([]byte(t.FormJSON), form); err != nil {
				slog.Warn("malformed template form", "template_id", t.ID, "error", err)
				httpError(w, http.StatusInternalServerError, "api_error", "template %s is malformed", t.ID)
				return
			}
		}

		s := deps.Sessions.CreateFrom(form)
		if req.TemplateID != "" {
			slog.Debug("session created from template", "id", s.ID, "template_id", req.TemplateID)
		}
		writeJSON(w, http.StatusCreated, viewSession(deps, s))
	}
}

func handleGetSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, deps)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, viewSession(deps, s))
	}
}

func handlePatchSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var fields map[string]any
		if !decodeBody(w, r, &fields) {
			return
		}
		if len(fields) == 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "no fields to update")
			return
		}

		s, err := deps.Sessions.Patch(id, fields)
		switch {
		case errors.Is(err, session.ErrNotFound):
			httpError(w, http.StatusNotFound, "not_found_error", "session %s not found", id)
			return
		case errors.Is(err, session.ErrUnknownField), errors.Is(err, session.ErrInvalidValue):
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		case err != nil:
			httpError(w, http.StatusInternalServerError, "api_error", "failed to update session: %v", err)
			return
		}

		slog.Debug("field updated", "id", id, "fields", len(fields))
		writeJSON(w, http.StatusOK, viewSession(deps, s))
	}
}

func handleDeleteSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := deps.Sessions.Delete(id); errors.Is(err, session.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found_error", "session %s not found", id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDownloadPrompt(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, deps)
		if !ok {
			return
		}
		out := Render(s.Form, deps.now())
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", attachment(downloadName(r, deps.FilenameBase), ".md"))
		w.Write([]byte(out.Prompt))
	}
}

func handleDownloadSchema(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, deps)
		if !ok {
			return
		}
		out := Render(s.Form, deps.now())
		data, err := schema.Marshal(out.Document)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to encode document: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", attachment(downloadName(r, deps.FilenameBase), ".json"))
		w.Write(data)
	}
}

type saveTemplateRequest struct {
	Name string `json:"name"`
}

type templateView struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
	Form      *profile.Form `json:"form,omitempty"`
}

func handleSaveTemplate(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, deps)
		if !ok {
			return
		}
		var req saveTemplateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "name is required")
			return
		}

		formJSON, err := json.Marshal(s.Form)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to encode form: %v", err)
			return
		}
		t := storage.Template{
			ID:        uuid.New().String(),
			Name:      name,
			CreatedAt: deps.now().UTC().Truncate(time.Second),
			FormJSON:  string(formJSON),
		}
		if err := deps.Store.SaveTemplate(t); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save template: %v", err)
			return
		}

		form := s.Form
		writeJSON(w, http.StatusCreated, templateView{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt, Form: &form})
	}
}

func handleListTemplates(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultTemplateLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "limit must be a positive integer")
				return
			}
			limit = min(n, maxTemplateLimit)
		}
		offset := 0
		if v := r.URL.Query().Get("offset"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "offset must be a non-negative integer")
				return
			}
			offset = n
		}

		templates, err := deps.Store.ListTemplates(limit, offset)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list templates: %v", err)
			return
		}
		total, err := deps.Store.CountTemplates()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to count templates: %v", err)
			return
		}

		views := make([]templateView, len(templates))
		for i, t := range templates {
			views[i] = templateView{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"templates": views,
			"total":     total,
		})
	}
}

func handleGetTemplate(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		t, err := deps.Store.GetTemplate(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found_error", "template %s not found", id)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load template: %v", err)
			return
		}
		form, err := decodeForm([]byte(t.FormJSON), deps.newForm())
		if err != nil {
			slog.Warn("malformed template form", "template_id", t.ID, "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "template %s is malformed", t.ID)
			return
		}
		writeJSON(w, http.StatusOK, templateView{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt, Form: &form})
	}
}

func handleDeleteTemplate(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := deps.Store.DeleteTemplate(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found_error", "template %s not found", id)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete template: %v", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func lookupSession(w http.ResponseWriter, r *http.Request, deps AppDeps) (session.Session, bool) {
	id := chi.URLParam(r, "id")
	s, err := deps.Sessions.Get(id)
	if err != nil {
		httpError(w, http.StatusNotFound, "not_found_error", "session %s not found", id)
		return session.Session{}, false
	}
	return s, true
}

// decodeForm reads a JSON form over base, so absent fields keep base values.
func decodeForm(data []byte, base profile.Form) (profile.Form, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&base); err != nil {
		return profile.Form{}, fmt.Errorf("decoding form: %w", err)
	}
	return base, nil
}

// downloadName picks the ?filename= override or the configured base, reduced
// to a bare file name without extension.
func downloadName(r *http.Request, base string) string {
	name := strings.TrimSpace(r.URL.Query().Get("filename"))
	if name == "" {
		name = base
	}
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if r == '"' || r < 0x20 {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "prompt_cockpit"
	}
	return name
}

func attachment(name, ext string) string {
	return fmt.Sprintf(`attachment; filename="%s%s"`, name, ext)
}
