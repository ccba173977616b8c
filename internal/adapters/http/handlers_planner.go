package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"planner/internal/adapters/http/middleware"
	"planner/internal/application/orchestrators"
	"planner/internal/application/projections"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

func plannerDeps() projections.GetPlannerDeps {
	return projections.GetPlannerDeps{
		ProfileStore: stores.ProfileStore,
		TaskStore:    stores.TaskStore,
		VendorStore:  stores.VendorStore,
		GuestStore:   stores.GuestStore,
	}
}

func vendorDeps() orchestrators.VendorDeps {
	return orchestrators.VendorDeps{
		VendorStore: stores.VendorStore,
		Changes:     changes,
		GenerateID:  generateID,
		Now:         timeNow,
	}
}

func guestDeps() orchestrators.GuestDeps {
	return orchestrators.GuestDeps{
		GuestStore: stores.GuestStore,
		Changes:    changes,
		GenerateID: generateID,
		Now:        timeNow,
	}
}

// handleAPIPlanner handles GET /api/planner: the caller's whole planner in one read.
func handleAPIPlanner(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	view, err := projections.QueryGetPlanner(r.Context(), projections.GetPlannerQuery{Caller: caller}, plannerDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// --- Tasks ---

// handleAPITasks handles GET /api/tasks.
func handleAPITasks(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	tasks, err := stores.TaskStore.ListByOwner(r.Context(), caller.ProfileID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

type taskPatchRequest struct {
	Completed *bool `json:"completed"`
}

// handleAPITaskPatch handles PATCH /api/tasks/{id}. Only the completed flag is writable.
func handleAPITaskPatch(w http.ResponseWriter, r *http.Request) {
	var req taskPatchRequest
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Completed == nil {
		middleware.WriteJSONError(w, http.StatusBadRequest, "completed is required")
		return
	}

	t, err := orchestrators.ExecuteSetTaskCompleted(r.Context(), orchestrators.SetTaskCompletedInput{
		Caller:    middleware.CallerFromContext(r.Context()),
		TaskID:    r.PathValue("id"),
		Completed: *req.Completed,
	}, orchestrators.SetTaskCompletedDeps{TaskStore: stores.TaskStore, Changes: changes, Now: timeNow})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// --- Vendors ---

type vendorRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Cost        *string `json:"cost"`
	Notes       *string `json:"notes"`
}

func (v vendorRequest) fields() orchestrators.VendorFields {
	return orchestrators.VendorFields{
		Name:        deref(v.Name),
		Type:        deref(v.Type),
		ContactName: deref(v.ContactName),
		Email:       deref(v.Email),
		Phone:       deref(v.Phone),
		Cost:        deref(v.Cost),
		Notes:       deref(v.Notes),
	}
}

func (v vendorRequest) patch() orchestrators.VendorPatch {
	return orchestrators.VendorPatch{
		Name:        v.Name,
		Type:        v.Type,
		ContactName: v.ContactName,
		Email:       v.Email,
		Phone:       v.Phone,
		Cost:        v.Cost,
		Notes:       v.Notes,
	}
}

// handleAPIVendors handles GET (list) and POST (add) for /api/vendors.
func handleAPIVendors(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	if r.Method == http.MethodGet {
		vendors, err := stores.VendorStore.ListByOwner(r.Context(), caller.ProfileID)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, vendors)
		return
	}

	var req vendorRequest
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	v, err := orchestrators.ExecuteAddVendor(r.Context(), orchestrators.AddVendorInput{Caller: caller, Fields: req.fields()}, vendorDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// handleAPIVendor handles PATCH and DELETE for /api/vendors/{id}.
func handleAPIVendor(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	id := r.PathValue("id")

	if r.Method == http.MethodDelete {
		if err := orchestrators.ExecuteDeleteVendor(r.Context(), orchestrators.DeleteVendorInput{Caller: caller, VendorID: id}, vendorDeps()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var req vendorRequest
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	v, err := orchestrators.ExecuteUpdateVendor(r.Context(), orchestrators.UpdateVendorInput{Caller: caller, VendorID: id, Patch: req.patch()}, vendorDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// --- Guests ---

// optionalInt distinguishes an absent JSON field from an explicit null.
type optionalInt struct {
	Set   bool
	Value *int
}

// UnmarshalJSON records that the field was present; null leaves Value nil.
func (o *optionalInt) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	o.Value = &n
	return nil
}

type guestRequest struct {
	FirstName    *string     `json:"first_name"`
	LastName     *string     `json:"last_name"`
	Email        *string     `json:"email"`
	Phone        *string     `json:"phone"`
	GroupLabel   *string     `json:"group_label"`
	RSVPStatus   *string     `json:"rsvp_status"`
	PlusOne      *string     `json:"plus_one"`
	TableNumber  optionalInt `json:"table_number"`
	DietaryNotes *string     `json:"dietary_notes"`
}

func (g guestRequest) fields() orchestrators.GuestFields {
	return orchestrators.GuestFields{
		FirstName:    deref(g.FirstName),
		LastName:     deref(g.LastName),
		Email:        deref(g.Email),
		Phone:        deref(g.Phone),
		GroupLabel:   deref(g.GroupLabel),
		RSVPStatus:   deref(g.RSVPStatus),
		PlusOne:      deref(g.PlusOne),
		TableNumber:  g.TableNumber.Value,
		DietaryNotes: deref(g.DietaryNotes),
	}
}

func (g guestRequest) patch() orchestrators.GuestPatch {
	return orchestrators.GuestPatch{
		FirstName:        g.FirstName,
		LastName:         g.LastName,
		Email:            g.Email,
		Phone:            g.Phone,
		GroupLabel:       g.GroupLabel,
		RSVPStatus:       g.RSVPStatus,
		PlusOne:          g.PlusOne,
		TableNumber:      g.TableNumber.Value,
		ClearTableNumber: g.TableNumber.Set && g.TableNumber.Value == nil,
		DietaryNotes:     g.DietaryNotes,
	}
}

// handleAPIGuests handles GET (list) and POST (add) for /api/guests.
func handleAPIGuests(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	if r.Method == http.MethodGet {
		guests, err := stores.GuestStore.ListByOwner(r.Context(), caller.ProfileID)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, guests)
		return
	}

	var req guestRequest
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	g, err := orchestrators.ExecuteAddGuest(r.Context(), orchestrators.AddGuestInput{Caller: caller, Fields: req.fields()}, guestDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// handleAPIGuest handles PATCH and DELETE for /api/guests/{id}.
func handleAPIGuest(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	id := r.PathValue("id")

	if r.Method == http.MethodDelete {
		if err := orchestrators.ExecuteDeleteGuest(r.Context(), orchestrators.DeleteGuestInput{Caller: caller, GuestID: id}, guestDeps()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var req guestRequest
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	g, err := orchestrators.ExecuteUpdateGuest(r.Context(), orchestrators.UpdateGuestInput{Caller: caller, GuestID: id, Patch: req.patch()}, guestDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
