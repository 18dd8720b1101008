package handlers

import (
	"context"
	"encoding/base64"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"skajny/internal/middleware"
	"skajny/internal/models"
	"skajny/internal/render"
	"skajny/internal/session"
)

// defaultAfterLogin is where a sign-in without ?next= lands.
const defaultAfterLogin = "/admin/zpravy"

// UserGateway is the account lookup used by sign-in and 2FA management.
// *store.UserStore satisfies it.
type UserGateway interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, userID uuid.UUID) error
	ResetTOTP(ctx context.Context, userID uuid.UUID) error
	CheckPassword(user *models.User, password string) bool
}

// SessionManager creates and ends sessions. *session.Store satisfies it.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Update(ctx context.Context, r *http.Request, data *session.Data) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups the sign-in, sign-out and two-factor handlers.
type Auth struct {
	renderer *render.Renderer
	sessions SessionManager
	users    UserGateway
	issuer   string
}

// NewAuth creates a new Auth handler group. issuer labels the account in
// authenticator apps.
func NewAuth(renderer *render.Renderer, sessions SessionManager, users UserGateway, issuer string) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		users:    users,
		issuer:   issuer,
	}
}

// safeNext keeps only local paths so ?next= cannot send the user off-site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return defaultAfterLogin
	}
	if next == middleware.LoginPath {
		return defaultAfterLogin
	}
	return next
}

func verifyURL(next string) string {
	return "/admin/2fa/verify?" + url.Values{"next": {next}}.Encode()
}

// pendingTOTP reports whether sess signed in with a password and still
// owes its TOTP code.
func pendingTOTP(sess *session.Data) bool {
	return sess != nil && sess.NeedsTOTP && !sess.TwoFADone
}

// LoginPage renders the sign-in form. A signed-in user goes straight on.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if middleware.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	if pendingTOTP(middleware.SessionFromCtx(r.Context())) {
		http.Redirect(w, r, verifyURL(next), http.StatusSeeOther)
		return
	}
	a.loginForm(w, r, next, "", nil, 0)
}

// LoginSubmit checks the credentials and starts a session.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := safeNext(r.FormValue("next"))

	user, err := a.users.FindByEmail(r.Context(), email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		a.loginForm(w, r, next, email, &render.Flash{Type: "error", Message: "Přihlášení se nezdařilo. Zkuste to prosím znovu."}, http.StatusServiceUnavailable)
		return
	}
	if user == nil || !a.users.CheckPassword(user, password) {
		slog.Warn("login rejected", "email", email)
		a.loginForm(w, r, next, email, &render.Flash{Type: "error", Message: "Neplatný e-mail nebo heslo."}, http.StatusUnauthorized)
		return
	}

	needsTOTP := user.RequiresTOTP()
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		NeedsTOTP:   needsTOTP,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		a.loginForm(w, r, next, email, &render.Flash{Type: "error", Message: "Přihlášení se nezdařilo. Zkuste to prosím znovu."}, http.StatusServiceUnavailable)
		return
	}

	if needsTOTP {
		http.Redirect(w, r, verifyURL(next), http.StatusSeeOther)
		return
	}
	slog.Info("user signed in", "user_id", user.ID)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (a *Auth) loginForm(w http.ResponseWriter, r *http.Request, next, email string, flash *render.Flash, status int) {
	page := &render.PageData{
		Title:  "Přihlášení",
		Status: status,
		Data:   map[string]any{"Next": next, "Email": email},
	}
	if flash != nil {
		page.Flashes = []render.Flash{*flash}
	}
	a.renderer.Page(w, r, "admin/login", page)
}

// TwoFAVerifyPage renders the code entry form for a sign-in that awaits
// its TOTP code.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if middleware.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	if !pendingTOTP(middleware.SessionFromCtx(r.Context())) {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}
	a.verifyForm(w, r, next, nil)
}

// TwoFAVerifySubmit validates the TOTP code and completes the sign-in.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	next := safeNext(r.FormValue("next"))
	if !pendingTOTP(sess) {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err, "user_id", sess.UserID)
		a.verifyForm(w, r, next, &render.Flash{Type: "error", Message: "Ověření se nezdařilo. Zkuste to prosím znovu."})
		return
	}
	if !user.RequiresTOTP() || !totp.Validate(strings.TrimSpace(r.FormValue("code")), *user.TOTPSecret) {
		a.verifyForm(w, r, next, &render.Flash{Type: "error", Message: "Neplatný kód. Zkuste to prosím znovu."})
		return
	}

	updated := *sess
	updated.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, &updated); err != nil {
		slog.Error("session update failed", "error", err)
		a.verifyForm(w, r, next, &render.Flash{Type: "error", Message: "Ověření se nezdařilo. Zkuste to prosím znovu."})
		return
	}
	slog.Info("user signed in", "user_id", user.ID, "totp", true)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (a *Auth) verifyForm(w http.ResponseWriter, r *http.Request, next string, flash *render.Flash) {
	page := &render.PageData{
		Title: "Ověření",
		Data:  map[string]any{"Next": next},
	}
	if flash != nil {
		page.Flashes = []render.Flash{*flash}
	}
	a.renderer.Page(w, r, "admin/2fa_verify", page)
}

// TwoFASetupPage shows whether TOTP is enabled and, if not, a fresh secret
// with its QR code.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	a.setupPage(w, r, nil)
}

// TwoFASetupSubmit enables TOTP once the first code from the new secret
// validates.
func (a *Auth) TwoFASetupSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa setup failed", "error", err, "user_id", sess.UserID)
		a.setupPage(w, r, &render.Flash{Type: "error", Message: "Nastavení se nezdařilo. Zkuste to prosím znovu."})
		return
	}
	if user.TOTPSecret == nil {
		a.setupPage(w, r, nil)
		return
	}
	if !totp.Validate(strings.TrimSpace(r.FormValue("code")), *user.TOTPSecret) {
		a.renderSetup(w, r, user, *user.TOTPSecret, &render.Flash{Type: "error", Message: "Neplatný kód. Zkuste to prosím znovu."})
		return
	}

	if err := a.users.EnableTOTP(r.Context(), user.ID); err != nil {
		slog.Error("enable totp failed", "error", err, "user_id", user.ID)
		a.renderSetup(w, r, user, *user.TOTPSecret, &render.Flash{Type: "error", Message: "Nastavení se nezdařilo. Zkuste to prosím znovu."})
		return
	}
	updated := *sess
	updated.NeedsTOTP, updated.TwoFADone = true, true
	if err := a.sessions.Update(r.Context(), r, &updated); err != nil {
		slog.Warn("session update after totp enable failed", "error", err)
	}
	slog.Info("totp enabled", "user_id", user.ID)

	user.TOTPEnabled = true
	a.renderSetup(w, r, user, "", &render.Flash{Type: "success", Message: "Dvoufázové ověření je zapnuté."})
}

// TwoFADisable turns TOTP off for the signed-in user.
func (a *Auth) TwoFADisable(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if err := a.users.ResetTOTP(r.Context(), sess.UserID); err != nil {
		slog.Error("reset totp failed", "error", err, "user_id", sess.UserID)
		a.setupPage(w, r, &render.Flash{Type: "error", Message: "Vypnutí se nezdařilo. Zkuste to prosím znovu."})
		return
	}
	updated := *sess
	updated.NeedsTOTP, updated.TwoFADone = false, false
	if err := a.sessions.Update(r.Context(), r, &updated); err != nil {
		slog.Warn("session update after totp reset failed", "error", err)
	}
	slog.Info("totp disabled", "user_id", sess.UserID)
	http.Redirect(w, r, "/admin/2fa/setup", http.StatusSeeOther)
}

// setupPage loads the user and renders the setup screen, generating a new
// secret when TOTP is not enabled yet.
func (a *Auth) setupPage(w http.ResponseWriter, r *http.Request, flash *render.Flash) {
	sess := middleware.SessionFromCtx(r.Context())
	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa setup failed", "error", err, "user_id", sess.UserID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user.TOTPEnabled {
		a.renderSetup(w, r, user, "", flash)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      a.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := a.users.SetTOTPSecret(r.Context(), user.ID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	a.renderSetup(w, r, user, key.Secret(), flash)
}

func (a *Auth) renderSetup(w http.ResponseWriter, r *http.Request, user *models.User, secret string, flash *render.Flash) {
	data := map[string]any{"Enabled": user.TOTPEnabled}
	if !user.TOTPEnabled {
		qr, err := a.qrDataURI(user.Email, secret)
		if err != nil {
			slog.Error("qr code generation failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data["QRCode"] = qr
		data["Secret"] = secret
	}
	page := &render.PageData{Title: "Zabezpečení", Section: "security", Data: data}
	if flash != nil {
		page.Flashes = []render.Flash{*flash}
	}
	a.renderer.Page(w, r, "admin/2fa_setup", page)
}

// qrDataURI renders the otpauth URL of secret as an inline PNG.
func (a *Auth) qrDataURI(account, secret string) (template.URL, error) {
	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + a.issuer + ":" + account,
		RawQuery: url.Values{"secret": {secret}, "issuer": {a.issuer}}.Encode(),
	}
	png, err := qrcode.Encode(u.String(), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}

// Logout ends the session and returns to the sign-in page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	redirect(w, r, middleware.LoginPath)
}
