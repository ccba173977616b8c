package web

import (
	"context"
	"crypto/rand"
	"log/slog"
	"net/http"

	"planner/internal/adapters/http/middleware"
	"planner/internal/application/orchestrators"
	"planner/internal/application/projections"
)

// resetRequestedMessage is shown whether or not the address is registered.
const resetRequestedMessage = "If that email belongs to an account, a reset link is on its way."

// auditor records events for r's client. Nil when no audit store is wired.
func auditor(r *http.Request) *orchestrators.Auditor {
	if stores.AuditStore == nil {
		return nil
	}
	return &orchestrators.Auditor{
		Store:      stores.AuditStore,
		GenerateID: generateID,
		Now:        timeNow,
		IPAddress:  middleware.ClientIP(r),
	}
}

func signUpDeps(r *http.Request) orchestrators.SignUpDeps {
	return orchestrators.SignUpDeps{
		ProfileStore: stores.ProfileStore,
		TaskStore:    stores.TaskStore,
		GenerateID:   generateID,
		Now:          timeNow,
		Audit:        auditor(r),
	}
}

func loginDeps(r *http.Request) orchestrators.LoginDeps {
	return orchestrators.LoginDeps{ProfileStore: stores.ProfileStore, Now: timeNow, Audit: auditor(r)}
}

func confirmResetDeps(r *http.Request) orchestrators.ConfirmResetDeps {
	return orchestrators.ConfirmResetDeps{
		ProfileStore:   stores.ProfileStore,
		Now:            timeNow,
		RevokeSessions: sessions.DeleteForProfile,
		Audit:          auditor(r),
	}
}

func changePasswordDeps(r *http.Request) orchestrators.ChangePasswordDeps {
	return orchestrators.ChangePasswordDeps{ProfileStore: stores.ProfileStore, Audit: auditor(r)}
}

// startSession creates a session and sets its cookie.
func startSession(w http.ResponseWriter, profileID, email string, isAdmin bool) error {
	token, err := sessions.Create(profileID, email, isAdmin)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(w, token)
	return nil
}

// endSession deletes the request's session, if any, and clears the cookie.
func endSession(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
}

// requestPasswordResetAsync issues the reset email after the response is sent.
// The request context is detached so the send survives the client hanging up.
func requestPasswordResetAsync(ctx context.Context, addr string) {
	deps := orchestrators.RequestResetDeps{
		ProfileStore:  stores.ProfileStore,
		Sender:        emailSender,
		BaseURL:       baseURL,
		GenerateID:    generateID,
		GenerateToken: rand.Text,
		Now:           timeNow,
	}
	detached := context.WithoutCancel(ctx)
	runAsync(func() {
		if err := orchestrators.ExecuteRequestPasswordReset(detached, orchestrators.RequestResetInput{Email: addr}, deps); err != nil {
			slog.Error("auth_event", "event", "reset_request_failed", "error", err)
		}
	})
}

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CoupleName  string `json:"couple_name"`
	WeddingDate string `json:"wedding_date"`
}

// handleAPISignUp handles POST /api/auth/signup.
func handleAPISignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	p, err := orchestrators.ExecuteSignUp(r.Context(), orchestrators.SignUpInput{
		Email:       req.Email,
		Password:    req.Password,
		CoupleName:  req.CoupleName,
		WeddingDate: req.WeddingDate,
	}, signUpDeps(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := startSession(w, p.ID, p.Email, p.IsAdmin); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"profile": projections.NewProfileView(p)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleAPILogin handles POST /api/auth/login.
func handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{Email: req.Email, Password: req.Password}, loginDeps(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := startSession(w, result.ProfileID, result.Email, result.IsAdmin); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile_id": result.ProfileID,
		"email":      result.Email,
		"is_admin":   result.IsAdmin,
		"view":       projections.ResolveView(true, result.IsAdmin),
	})
}

// handleAPILogout handles POST /api/auth/logout.
func handleAPILogout(w http.ResponseWriter, r *http.Request) {
	endSession(w, r)
	w.WriteHeader(http.StatusNoContent)
}

type resetRequest struct {
	Email string `json:"email"`
}

// handleAPIPasswordReset handles POST /api/auth/password-reset. It always reports success.
func handleAPIPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	requestPasswordResetAsync(r.Context(), req.Email)
	writeJSON(w, http.StatusAccepted, map[string]string{"message": resetRequestedMessage})
}

type confirmResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// handleAPIPasswordResetConfirm handles POST /api/auth/password-reset/confirm.
func handleAPIPasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmResetRequest
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	err := orchestrators.ExecuteConfirmPasswordReset(r.Context(), orchestrators.ConfirmResetInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	}, confirmResetDeps(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated. Please sign in."})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// handleAPIChangePassword handles POST /api/auth/change-password.
func handleAPIChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.CallerFromContext(r.Context())
	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		ProfileID:       caller.ProfileID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}, changePasswordDeps(r))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAPIMe handles GET /api/me: the session identity and its stored profile.
func handleAPIMe(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	p, err := stores.ProfileStore.GetByID(r.Context(), session.ProfileID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session": map[string]any{
			"profile_id": session.ProfileID,
			"email":      session.Email,
			"created_at": session.CreatedAt,
		},
		"profile": projections.NewProfileView(p),
	})
}

// handleAPIView handles GET /api/view: which screen the visitor should see.
func handleAPIView(w http.ResponseWriter, r *http.Request) {
	view := projections.QueryGetView(r.Context(), middleware.CallerFromContext(r.Context()),
		projections.GetViewDeps{ProfileStore: stores.ProfileStore})
	writeJSON(w, http.StatusOK, map[string]projections.View{"view": view})
}

// viewPath maps a view to the page that renders it.
func viewPath(v projections.View) string {
	switch v {
	case projections.ViewAdmin:
		return "/admin"
	case projections.ViewPlanner:
		return "/planner"
	default:
		return "/login"
	}
}
