package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"contacts/internal/dto"
	"contacts/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ContactHandler struct {
	contacts service.ContactService
}

func NewContactHandler(contacts service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func contactID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 0)

	contacts, err := h.contacts.List(r.Context(), user.ID, skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewContactListResponse(contacts))
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, ok := contactID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid contact id")
		return
	}
	contact, err := h.contacts.Get(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewContactResponse(contact))
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req dto.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad request")
		return
	}
	contact, err := h.contacts.Create(r.Context(), user.ID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewContactResponse(contact))
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, ok := contactID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid contact id")
		return
	}
	var req dto.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad request")
		return
	}
	contact, err := h.contacts.Update(r.Context(), user.ID, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewContactResponse(contact))
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, ok := contactID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid contact id")
		return
	}
	if err := h.contacts.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	q := r.URL.Query()
	filter := service.ContactFilter{
		FirstName: q.Get("first_name"),
		LastName:  q.Get("last_name"),
		Email:     q.Get("email"),
		Skip:      queryInt(r, "skip", 0),
		Limit:     queryInt(r, "limit", 0),
	}
	contacts, err := h.contacts.Search(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewContactListResponse(contacts))
}

func (h *ContactHandler) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	contacts, err := h.contacts.UpcomingBirthdays(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewContactListResponse(contacts))
}
