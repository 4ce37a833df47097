package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/bookly/internal/errors"
	"github.com/pribylovaa/bookly/internal/http/dto"
	"github.com/pribylovaa/bookly/internal/service"
)

func (h *Handlers) ListBooks(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	books, err := h.Service.ListBooks(r.Context(), opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BookDetailsListFromModels(books))
}

func (h *Handlers) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	book, err := h.Service.Book(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BookDetailsFromModel(book))
}

func (h *Handlers) BooksByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "user_id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	books, err := h.Service.BooksByUser(r.Context(), userID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BookDetailsListFromModels(books))
}

func (h *Handlers) CreateBook(w http.ResponseWriter, r *http.Request) {
	ownerID, err := claimsUserID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var req dto.BookCreateRequest
	if err := decodeStrict(w, r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	in, err := req.ToInput()
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	book, err := h.Service.CreateBook(r.Context(), ownerID, in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BookDetailsFromModel(book))
}

func (h *Handlers) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var req dto.BookUpdateRequest
	if err := decodeStrict(w, r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	upd, err := req.ToUpdate()
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	book, err := h.Service.UpdateBook(r.Context(), id, upd)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BookDetailsFromModel(book))
}

func (h *Handlers) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Service.DeleteBook(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CoverPresign(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in dto.CoverPresignRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	info, err := h.Service.CoverUploadURL(r.Context(), service.CoverUploadInput{
		BookID:        id,
		ContentType:   in.ContentType,
		ContentLength: in.ContentLength,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CoverPresignFromInfo(info))
}

func (h *Handlers) CoverConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in dto.CoverConfirmRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	book, err := h.Service.ConfirmCoverUpload(r.Context(), id, in.CoverKey)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BookDetailsFromModel(book))
}
