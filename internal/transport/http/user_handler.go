package http

import (
	"context"
	"net/http"

	"contacts/internal/dto"
	"contacts/internal/service"

	"github.com/google/uuid"
)

const maxAvatarBytes = 5 << 20 // 5 MiB

// avatarUpdater is the slice of the user store the handler needs to persist
// a new avatar URL.
type avatarUpdater interface {
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error
}

type UserHandler struct {
	avatars service.AvatarStore
	users   avatarUpdater
}

func NewUserHandler(avatars service.AvatarStore, users avatarUpdater) *UserHandler {
	return &UserHandler{avatars: avatars, users: users}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "missing or oversized file upload")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	url, err := h.avatars.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.users.UpdateAvatar(r.Context(), user.ID, url); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AvatarResponse{AvatarURL: url})
}
