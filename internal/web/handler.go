// Package web is the HTTP surface of the gateway: the login and
// verification pages, the session-gated hand-off to the downstream gateway,
// and the health report. All authentication decisions are delegated to the
// engine; handlers only translate HTTP to engine calls and back.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/openclaw/authgate"
	"github.com/openclaw/authgate/clientstate"
)

type Config struct {
	// GatewayURL is where an authenticated caller is forwarded.
	GatewayURL string

	// CodeTTL and SessionTTL bound the lifetime of the corresponding
	// state cookies; they should match the engine's configured TTLs.
	CodeTTL    time.Duration
	SessionTTL time.Duration

	CookieSecure bool
}

type Handler struct {
	engine       *authgate.Engine
	states       *clientstate.Manager
	logger       *slog.Logger
	gatewayURL   string
	codeTTL      time.Duration
	sessionTTL   time.Duration
	cookieSecure bool
}

func NewHandler(engine *authgate.Engine, states *clientstate.Manager, logger *slog.Logger, cfg Config) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		engine:       engine,
		states:       states,
		logger:       logger,
		gatewayURL:   cfg.GatewayURL,
		codeTTL:      cfg.CodeTTL,
		sessionTTL:   cfg.SessionTTL,
		cookieSecure: cfg.CookieSecure,
	}
}

// Router assembles the full route table.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))

	r.Get("/", h.root)
	r.Get("/login", h.loginPage)
	r.Post("/login", h.loginSubmit)
	r.Post("/verify", h.verifySubmit)
	r.Get("/auth-success", h.authSuccess)
	r.Get("/logout", h.logout)
	r.Get("/mission/", h.mission)
	r.Get("/health", h.health)

	return r
}

// root probes the caller's state and forwards to the right page.
func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	if h.liveSession(w, r) != nil {
		http.Redirect(w, r, "/auth-success", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	page := loginView{}
	if state := h.readState(r); state != nil && state.Kind == clientstate.KindPending {
		page.AwaitingCode = true
		page.Identity = state.PendingIdentity
	}
	h.render(w, "login.html.tmpl", page)
}

func (h *Handler) loginSubmit(w http.ResponseWriter, r *http.Request) {
	identity := r.FormValue("email")

	result, err := h.engine.BeginLogin(r.Context(), identity)
	if err != nil {
		h.render(w, "login.html.tmpl", loginView{Error: loginErrorMessage(err)})
		return
	}

	normalized := authgate.NormalizeIdentity(identity)
	token, err := h.states.IssuePending(normalized, h.codeTTL)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "issue pending state", "error", err)
		h.render(w, "login.html.tmpl", loginView{Error: genericRetryMessage})
		return
	}
	h.setState(w, token, h.codeTTL)

	h.render(w, "login.html.tmpl", loginView{
		AwaitingCode: true,
		Identity:     normalized,
		DebugCode:    result.DebugCode,
	})
}

func (h *Handler) verifySubmit(w http.ResponseWriter, r *http.Request) {
	state := h.readState(r)
	if state == nil || state.Kind != clientstate.KindPending {
		h.clearState(w)
		h.render(w, "login.html.tmpl", loginView{Error: "Session expired. Please log in again."})
		return
	}

	result, err := h.engine.VerifyCode(r.Context(), state.PendingIdentity, r.FormValue("code"))
	if err != nil {
		h.render(w, "login.html.tmpl", loginView{
			AwaitingCode: true,
			Identity:     state.PendingIdentity,
			Error:        verifyErrorMessage(err),
		})
		return
	}

	token, err := h.states.IssueSession(result.Identity, result.SessionID, h.sessionTTL)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "issue session state", "error", err)
		h.render(w, "login.html.tmpl", loginView{Error: genericRetryMessage})
		return
	}
	h.setState(w, token, h.sessionTTL)

	http.Redirect(w, r, "/auth-success", http.StatusFound)
}

func (h *Handler) authSuccess(w http.ResponseWriter, r *http.Request) {
	state := h.liveSession(w, r)
	if state == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	h.render(w, "success.html.tmpl", successView{
		Identity:          state.Identity,
		GatewayCredential: h.engine.GatewayCredential(),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if state := h.readState(r); state != nil && state.Kind == clientstate.KindSession {
		if err := h.engine.Logout(r.Context(), state.SessionID); err != nil {
			h.logger.ErrorContext(r.Context(), "logout", "error", err)
		}
	}
	h.clearState(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) mission(w http.ResponseWriter, r *http.Request) {
	if h.liveSession(w, r) == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	http.Redirect(w, r, h.gatewayURL, http.StatusFound)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := h.engine.Health(r.Context())

	report := map[string]any{
		"status":                   "ok",
		"redis":                    status.StoreReachable,
		"allowed_emails":           status.AllowedIdentities,
		"gateway_token_configured": status.GatewayCredentialConfigured,
	}
	if !status.StoreReachable {
		report["status"] = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.logger.ErrorContext(r.Context(), "encode health report", "error", err)
	}
}

// liveSession returns the caller's session state only when the store still
// holds the session record. The cookie alone is never trusted. A session
// cookie whose store record is gone is cleared here; pending-verification
// state is left alone so an in-flight login survives a stray page visit.
func (h *Handler) liveSession(w http.ResponseWriter, r *http.Request) *clientstate.State {
	state := h.readState(r)
	if state == nil || state.Kind != clientstate.KindSession {
		return nil
	}
	live, err := h.engine.IsLive(r.Context(), state.SessionID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "session liveness check", "error", err)
		return nil
	}
	if !live {
		h.clearState(w)
		return nil
	}
	return state
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render template", "template", name, "error", err)
	}
}

const genericRetryMessage = "Something went wrong. Please try again later."

func loginErrorMessage(err error) string {
	var rateErr *authgate.RateLimitedError
	switch {
	case errors.Is(err, authgate.ErrNotWhitelisted):
		return "Email not whitelisted. Contact administrator."
	case errors.As(err, &rateErr):
		minutes := int(rateErr.RetryAfter.Minutes()) + 1
		return fmt.Sprintf("Too many code requests. Try again in %d minutes.", minutes)
	case errors.Is(err, authgate.ErrRateLimited):
		return "Too many code requests. Try again later."
	case errors.Is(err, authgate.ErrDeliveryFailed):
		return "Failed to send email. Please try again."
	default:
		return genericRetryMessage
	}
}

func verifyErrorMessage(err error) string {
	switch {
	case errors.Is(err, authgate.ErrEmptyCode):
		return "Code is required."
	case errors.Is(err, authgate.ErrInvalidOrExpiredCode):
		return "Invalid or expired code."
	case errors.Is(err, authgate.ErrNoPendingLogin):
		return "Session expired. Please log in again."
	default:
		return genericRetryMessage
	}
}
