package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/bookly/internal/errors"
	"github.com/pribylovaa/bookly/internal/http/dto"
)

func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	reviews, err := h.Service.ListReviews(r.Context(), opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReviewDetailsListFromModels(reviews))
}

func (h *Handlers) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	review, err := h.Service.Review(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReviewDetailsFromModel(review))
}

func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, err := claimsUserID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	bookID, err := pathUUID(r, "book_id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in dto.ReviewCreateRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	review, err := h.Service.CreateReview(r.Context(), userID, bookID, in.ToInput())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReviewDetailsFromModel(review))
}

func (h *Handlers) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var req dto.ReviewUpdateRequest
	if err := decodeStrict(w, r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	upd, err := req.ToUpdate()
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	review, err := h.Service.UpdateReview(r.Context(), id, upd)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReviewDetailsFromModel(review))
}

func (h *Handlers) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Service.DeleteReview(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
