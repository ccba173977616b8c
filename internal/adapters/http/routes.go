package web

import (
	"net/http"

	"planner/internal/adapters/http/middleware"
)

// registerRoutes binds every page and API endpoint to mux.
func registerRoutes(mux *http.ServeMux) {
	page := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }
	api := func(h http.HandlerFunc) http.Handler { return middleware.RequireAPIAuth(h) }
	adminAPI := func(h http.HandlerFunc) http.Handler { return middleware.RequireAPIAuth(requireAdmin(h)) }
	adminPage := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(requireAdminPage(h)) }

	mux.Handle("GET /static/", staticHandler())
	mux.HandleFunc("GET /healthz", handleHealthz)

	// Pages
	mux.HandleFunc("GET /{$}", handleIndex)
	mux.HandleFunc("GET /login", handleLoginPage)
	mux.HandleFunc("POST /login", handleLoginForm)
	mux.HandleFunc("GET /signup", handleSignUpPage)
	mux.HandleFunc("POST /signup", handleSignUpForm)
	mux.HandleFunc("POST /logout", handleLogoutForm)
	mux.HandleFunc("GET /forgot-password", handleForgotPasswordPage)
	mux.HandleFunc("POST /forgot-password", handleForgotPasswordForm)
	mux.HandleFunc("GET /reset-password", handleResetPasswordPage)
	mux.HandleFunc("POST /reset-password", handleResetPasswordForm)

	mux.Handle("GET /planner", page(handlePlannerPage))
	mux.Handle("POST /planner/tasks/{id}", page(handleTaskToggleForm))
	mux.Handle("POST /planner/vendors", page(handleVendorAddForm))
	mux.Handle("POST /planner/vendors/{id}/delete", page(handleVendorDeleteForm))
	mux.Handle("POST /planner/guests", page(handleGuestAddForm))
	mux.Handle("POST /planner/guests/{id}/rsvp", page(handleGuestRSVPForm))
	mux.Handle("POST /planner/guests/{id}/delete", page(handleGuestDeleteForm))
	mux.Handle("POST /account/password", page(handleChangePasswordForm))

	mux.Handle("GET /admin", adminPage(handleAdminPage))
	mux.Handle("GET /admin/profiles/{id}", adminPage(handleAdminProfilePage))

	// Auth API
	mux.HandleFunc("POST /api/auth/signup", handleAPISignUp)
	mux.HandleFunc("POST /api/auth/login", handleAPILogin)
	mux.Handle("POST /api/auth/logout", api(handleAPILogout))
	mux.HandleFunc("POST /api/auth/password-reset", handleAPIPasswordReset)
	mux.HandleFunc("POST /api/auth/password-reset/confirm", handleAPIPasswordResetConfirm)
	mux.Handle("POST /api/auth/change-password", api(handleAPIChangePassword))
	mux.HandleFunc("GET /api/view", handleAPIView)
	mux.Handle("GET /api/me", api(handleAPIMe))

	// Planner API
	mux.Handle("GET /api/planner", api(handleAPIPlanner))
	mux.Handle("GET /api/tasks", api(handleAPITasks))
	mux.Handle("PATCH /api/tasks/{id}", api(handleAPITaskPatch))
	mux.Handle("GET /api/vendors", api(handleAPIVendors))
	mux.Handle("POST /api/vendors", api(handleAPIVendors))
	mux.Handle("PATCH /api/vendors/{id}", api(handleAPIVendor))
	mux.Handle("DELETE /api/vendors/{id}", api(handleAPIVendor))
	mux.Handle("GET /api/guests", api(handleAPIGuests))
	mux.Handle("POST /api/guests", api(handleAPIGuests))
	mux.Handle("PATCH /api/guests/{id}", api(handleAPIGuest))
	mux.Handle("DELETE /api/guests/{id}", api(handleAPIGuest))
	mux.Handle("GET /api/changes", api(handleAPIChanges))

	// Admin API
	mux.Handle("GET /api/admin/profiles", adminAPI(handleAPIAdminProfiles))
	mux.Handle("GET /api/admin/profiles/{id}/progress", adminAPI(handleAPIAdminProfileProgress))
	mux.Handle("GET /api/admin/profiles/{id}/planner", adminAPI(handleAPIAdminProfilePlanner))
	mux.Handle("GET /api/admin/perf", adminAPI(handleAPIAdminPerf))
	mux.Handle("GET /api/admin/audit", adminAPI(handleAPIAdminAudit))
}
