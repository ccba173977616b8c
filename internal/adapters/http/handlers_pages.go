package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"planner/internal/adapters/http/middleware"
	"planner/internal/application/listutil"
	"planner/internal/application/orchestrators"
	"planner/internal/application/projections"
	"planner/internal/domain/guest"
)

// formError re-renders a form page with the error err maps to.
func formError(w http.ResponseWriter, r *http.Request, templateName string, data map[string]any, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("internal_error", "error", err.Error())
	}
	data["Error"] = userMessage(err)
	renderTemplate(w, r, status, templateName, data)
}

// handleIndex handles GET /: sends the visitor to the screen their stored profile allows.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	view := projections.QueryGetView(r.Context(), middleware.CallerFromContext(r.Context()),
		projections.GetViewDeps{ProfileStore: stores.ProfileStore})
	http.Redirect(w, r, viewPath(view), http.StatusSeeOther)
}

// handleHealthz handles GET /healthz.
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// --- Auth pages ---

// handleLoginPage handles GET /login.
func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := map[string]any{"Title": "Sign in"}
	if r.URL.Query().Get("notice") == "password-updated" {
		data["Notice"] = "Password updated. Please sign in."
	}
	renderTemplate(w, r, http.StatusOK, "login.html", data)
}

// handleLoginForm handles POST /login.
func handleLoginForm(w http.ResponseWriter, r *http.Request) {
	addr := r.FormValue("email")
	data := map[string]any{"Title": "Sign in", "Email": addr}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    addr,
		Password: r.FormValue("password"),
	}, loginDeps(r))
	if err != nil {
		formError(w, r, "login.html", data, err)
		return
	}
	if err := startSession(w, result.ProfileID, result.Email, result.IsAdmin); err != nil {
		formError(w, r, "login.html", data, err)
		return
	}
	http.Redirect(w, r, viewPath(projections.ResolveView(true, result.IsAdmin)), http.StatusSeeOther)
}

// handleSignUpPage handles GET /signup.
func handleSignUpPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, http.StatusOK, "signup.html", map[string]any{"Title": "Create your planner"})
}

// handleSignUpForm handles POST /signup.
func handleSignUpForm(w http.ResponseWriter, r *http.Request) {
	input := orchestrators.SignUpInput{
		Email:       r.FormValue("email"),
		Password:    r.FormValue("password"),
		CoupleName:  r.FormValue("couple_name"),
		WeddingDate: r.FormValue("wedding_date"),
	}
	data := map[string]any{
		"Title":       "Create your planner",
		"Email":       input.Email,
		"CoupleName":  input.CoupleName,
		"WeddingDate": input.WeddingDate,
	}

	p, err := orchestrators.ExecuteSignUp(r.Context(), input, signUpDeps(r))
	if err != nil {
		formError(w, r, "signup.html", data, err)
		return
	}
	if err := startSession(w, p.ID, p.Email, p.IsAdmin); err != nil {
		formError(w, r, "signup.html", data, err)
		return
	}
	http.Redirect(w, r, "/planner", http.StatusSeeOther)
}

// handleLogoutForm handles POST /logout.
func handleLogoutForm(w http.ResponseWriter, r *http.Request) {
	endSession(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleForgotPasswordPage handles GET /forgot-password.
func handleForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, http.StatusOK, "forgot_password.html", map[string]any{"Title": "Reset your password"})
}

// handleForgotPasswordForm handles POST /forgot-password. The answer is the same
// whether or not the address is registered.
func handleForgotPasswordForm(w http.ResponseWriter, r *http.Request) {
	requestPasswordResetAsync(r.Context(), r.FormValue("email"))
	renderTemplate(w, r, http.StatusOK, "forgot_password.html", map[string]any{
		"Title":  "Reset your password",
		"Notice": resetRequestedMessage,
	})
}

// handleResetPasswordPage handles GET /reset-password?token=...
func handleResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, http.StatusOK, "reset_password.html", map[string]any{
		"Title": "Choose a new password",
		"Token": r.URL.Query().Get("token"),
	})
}

// handleResetPasswordForm handles POST /reset-password.
func handleResetPasswordForm(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	data := map[string]any{"Title": "Choose a new password", "Token": token}

	err := orchestrators.ExecuteConfirmPasswordReset(r.Context(), orchestrators.ConfirmResetInput{
		Token:       token,
		NewPassword: r.FormValue("new_password"),
	}, confirmResetDeps(r))
	if err != nil {
		formError(w, r, "reset_password.html", data, err)
		return
	}
	endSession(w, r)
	http.Redirect(w, r, "/login?notice=password-updated", http.StatusSeeOther)
}

// --- Planner page ---

// handlePlannerPage handles GET /planner. Admins are sent to the dashboard.
func handlePlannerPage(w http.ResponseWriter, r *http.Request) {
	renderPlanner(w, r, http.StatusOK, "")
}

// renderPlanner renders the caller's planner, optionally with a form error.
func renderPlanner(w http.ResponseWriter, r *http.Request, status int, formErr string) {
	caller := middleware.CallerFromContext(r.Context())
	view, err := projections.QueryGetPlanner(r.Context(), projections.GetPlannerQuery{Caller: caller}, plannerDeps())
	if err != nil {
		if statusFor(err) == http.StatusNotFound {
			// The profile is gone; the session is useless.
			endSession(w, r)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("internal_error", "error", err.Error())
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if view.Profile.IsAdmin {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, status, "planner.html", map[string]any{
		"Title":    view.Profile.CoupleName,
		"Planner":  view,
		"Statuses": []guest.RSVPStatus{guest.RSVPPending, guest.RSVPAttending, guest.RSVPDeclined},
		"Error":    formErr,
		"Live":     true,
	})
}

// plannerFormResult redirects back to the planner on success or re-renders it with the error.
func plannerFormResult(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("internal_error", "error", err.Error())
		}
		renderPlanner(w, r, status, userMessage(err))
		return
	}
	http.Redirect(w, r, "/planner", http.StatusSeeOther)
}

// handleTaskToggleForm handles POST /planner/tasks/{id}.
func handleTaskToggleForm(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteSetTaskCompleted(r.Context(), orchestrators.SetTaskCompletedInput{
		Caller:    middleware.CallerFromContext(r.Context()),
		TaskID:    r.PathValue("id"),
		Completed: r.FormValue("completed") == "true",
	}, orchestrators.SetTaskCompletedDeps{TaskStore: stores.TaskStore, Changes: changes, Now: timeNow})
	plannerFormResult(w, r, err)
}

// handleVendorAddForm handles POST /planner/vendors.
func handleVendorAddForm(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteAddVendor(r.Context(), orchestrators.AddVendorInput{
		Caller: middleware.CallerFromContext(r.Context()),
		Fields: orchestrators.VendorFields{
			Name:        r.FormValue("name"),
			Type:        r.FormValue("type"),
			ContactName: r.FormValue("contact_name"),
			Email:       r.FormValue("email"),
			Phone:       r.FormValue("phone"),
			Cost:        r.FormValue("cost"),
			Notes:       r.FormValue("notes"),
		},
	}, vendorDeps())
	plannerFormResult(w, r, err)
}

// handleVendorDeleteForm handles POST /planner/vendors/{id}/delete.
func handleVendorDeleteForm(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteVendor(r.Context(), orchestrators.DeleteVendorInput{
		Caller:   middleware.CallerFromContext(r.Context()),
		VendorID: r.PathValue("id"),
	}, vendorDeps())
	plannerFormResult(w, r, err)
}

// handleGuestAddForm handles POST /planner/guests. A blank table field means no table.
func handleGuestAddForm(w http.ResponseWriter, r *http.Request) {
	var table *int
	if raw := strings.TrimSpace(r.FormValue("table_number")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			plannerFormResult(w, r, guest.ErrInvalidTableNum)
			return
		}
		table = &n
	}
	_, err := orchestrators.ExecuteAddGuest(r.Context(), orchestrators.AddGuestInput{
		Caller: middleware.CallerFromContext(r.Context()),
		Fields: orchestrators.GuestFields{
			FirstName:    r.FormValue("first_name"),
			LastName:     r.FormValue("last_name"),
			Email:        r.FormValue("email"),
			Phone:        r.FormValue("phone"),
			GroupLabel:   r.FormValue("group_label"),
			RSVPStatus:   r.FormValue("rsvp_status"),
			PlusOne:      r.FormValue("plus_one"),
			TableNumber:  table,
			DietaryNotes: r.FormValue("dietary_notes"),
		},
	}, guestDeps())
	plannerFormResult(w, r, err)
}

// handleGuestRSVPForm handles POST /planner/guests/{id}/rsvp.
func handleGuestRSVPForm(w http.ResponseWriter, r *http.Request) {
	status := r.FormValue("rsvp_status")
	_, err := orchestrators.ExecuteUpdateGuest(r.Context(), orchestrators.UpdateGuestInput{
		Caller:  middleware.CallerFromContext(r.Context()),
		GuestID: r.PathValue("id"),
		Patch:   orchestrators.GuestPatch{RSVPStatus: &status},
	}, guestDeps())
	plannerFormResult(w, r, err)
}

// handleGuestDeleteForm handles POST /planner/guests/{id}/delete.
func handleGuestDeleteForm(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteGuest(r.Context(), orchestrators.DeleteGuestInput{
		Caller:  middleware.CallerFromContext(r.Context()),
		GuestID: r.PathValue("id"),
	}, guestDeps())
	plannerFormResult(w, r, err)
}

// handleChangePasswordForm handles POST /account/password.
func handleChangePasswordForm(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		ProfileID:       middleware.CallerFromContext(r.Context()).ProfileID,
		CurrentPassword: r.FormValue("current_password"),
		NewPassword:     r.FormValue("new_password"),
	}, changePasswordDeps(r))
	plannerFormResult(w, r, err)
}

// --- Admin pages ---

// requireAdminPage is requireAdmin for HTML routes: non-admins are sent to their planner.
func requireAdminPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := middleware.GetSessionFromContext(r.Context())
		p, err := stores.ProfileStore.GetByID(r.Context(), session.ProfileID)
		if err != nil || !p.IsAdmin {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		session.IsAdmin = true
		next.ServeHTTP(w, r.WithContext(middleware.ContextWithSession(r.Context(), session)))
	})
}

// handleAdminPage handles GET /admin: the paginated client list and aggregates.
func handleAdminPage(w http.ResponseWriter, r *http.Request) {
	dash, err := projections.QueryGetAdminDashboard(r.Context(), projections.GetAdminDashboardQuery{
		Caller: middleware.CallerFromContext(r.Context()),
		Page:   listutil.ParsePageParams(r.URL.Query()),
	}, adminDashboardDeps())
	if err != nil {
		slog.Error("internal_error", "error", err.Error())
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	renderTemplate(w, r, http.StatusOK, "admin.html", map[string]any{
		"Title":          "Clients",
		"Dashboard":      dash,
		"PerPageOptions": listutil.PerPageOptions,
		"Live":           true,
	})
}

// handleAdminProfilePage handles GET /admin/profiles/{id}: a read-only planner.
func handleAdminProfilePage(w http.ResponseWriter, r *http.Request) {
	view, err := projections.QueryGetPlanner(r.Context(), projections.GetPlannerQuery{
		Caller:  middleware.CallerFromContext(r.Context()),
		OwnerID: r.PathValue("id"),
	}, plannerDeps())
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("internal_error", "error", err.Error())
		}
		http.Error(w, userMessage(err), status)
		return
	}
	renderTemplate(w, r, http.StatusOK, "admin_profile.html", map[string]any{
		"Title":   view.Profile.CoupleName,
		"Planner": view,
	})
}
