package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/goliatone/go-spotadmin/components/commands"
	"github.com/goliatone/go-spotadmin/components/listing"
	"github.com/goliatone/go-spotadmin/components/queries"
	"github.com/goliatone/go-spotadmin/components/wizard"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
// Notifications, when set, adds the toast streams.
type Handlers struct {
	API           Executor
	Notifications *wizard.BroadcastNotifier
}

func (h *Handlers) HandleStartListing(w http.ResponseWriter, r *http.Request) {
	var payload commands.StartListingInput
	if !decode(w, r, &payload) {
		return
	}
	var sessionID string
	payload.Result = &sessionID
	if err := h.API.StartListing(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sessionID})
}

func (h *Handlers) HandleWizardStatus(w http.ResponseWriter, r *http.Request, sessionID string) {
	status, err := h.API.WizardStatus(r.Context(), queries.WizardStatusInput{SessionID: sessionID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handlers) HandleSetField(w http.ResponseWriter, r *http.Request, sessionID string) {
	var payload commands.SetFieldInput
	if !decode(w, r, &payload) {
		return
	}
	payload.SessionID = sessionID
	if err := h.API.SetField(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleNavigate runs next, previous or jump. Jump reads step_id from the body.
func (h *Handlers) HandleNavigate(w http.ResponseWriter, r *http.Request, sessionID, action string) {
	var payload commands.NavigateInput
	if !decodeOptional(w, r, &payload) {
		return
	}
	payload.SessionID = sessionID
	payload.Action = action
	if err := h.API.Navigate(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleDiscardListing(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.API.DiscardListing(r.Context(), commands.DiscardListingInput{SessionID: sessionID}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleListListings(w http.ResponseWriter, r *http.Request) {
	filter := listing.ListFilter{
		Status: listing.Status(r.URL.Query().Get("status")),
		HostID: r.URL.Query().Get("host_id"),
	}
	listings, err := h.API.Listings(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *Handlers) HandleModerate(w http.ResponseWriter, r *http.Request, listingID, verdict string) {
	var payload commands.ModerateListingInput
	if !decodeOptional(w, r, &payload) {
		return
	}
	payload.ListingID = listingID
	payload.Verdict = verdict
	if err := h.API.Moderate(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRole(w http.ResponseWriter, r *http.Request, roleID string) {
	view, err := h.API.Role(r.Context(), queries.RoleInput{RoleID: roleID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) HandleEditRole(w http.ResponseWriter, r *http.Request, roleID string) {
	var payload commands.EditRoleInput
	if !decode(w, r, &payload) {
		return
	}
	payload.RoleID = roleID
	if err := h.API.EditRole(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleTogglePermission(w http.ResponseWriter, r *http.Request, roleID string) {
	var payload commands.TogglePermissionInput
	if !decode(w, r, &payload) {
		return
	}
	payload.RoleID = roleID
	if err := h.API.TogglePermission(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleSaveRole(w http.ResponseWriter, r *http.Request, roleID string) {
	var payload commands.SaveRoleInput
	if !decodeOptional(w, r, &payload) {
		return
	}
	payload.RoleID = roleID
	if err := h.API.SaveRole(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRefund(w http.ResponseWriter, r *http.Request) {
	var payload commands.ProcessRefundInput
	if !decode(w, r, &payload) {
		return
	}
	if err := h.API.Refund(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Mux wires the handlers onto a ServeMux using method-aware patterns.
func (h *Handlers) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /listings/sessions", h.HandleStartListing)
	mux.HandleFunc("GET /listings/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleWizardStatus(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("DELETE /listings/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleDiscardListing(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("PUT /listings/sessions/{id}/fields", func(w http.ResponseWriter, r *http.Request) {
		h.HandleSetField(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST /listings/sessions/{id}/{action}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleNavigate(w, r, r.PathValue("id"), r.PathValue("action"))
	})
	mux.HandleFunc("GET /listings", h.HandleListListings)
	mux.HandleFunc("POST /listings/{id}/{verdict}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleModerate(w, r, r.PathValue("id"), r.PathValue("verdict"))
	})
	mux.HandleFunc("GET /roles/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleRole(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST /roles/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
		h.HandleEditRole(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST /roles/{id}/toggle", func(w http.ResponseWriter, r *http.Request) {
		h.HandleTogglePermission(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST /roles/{id}/save", func(w http.ResponseWriter, r *http.Request) {
		h.HandleSaveRole(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST /refunds", h.HandleRefund)
	if h.Notifications != nil {
		mux.HandleFunc("GET /notifications/ws", h.Notifications.ServeWebSocket)
		mux.HandleFunc("GET /notifications/stream", h.Notifications.ServeSSE)
	}
	return mux
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// decodeOptional accepts an empty body.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), StatusFor(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
