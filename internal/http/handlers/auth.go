package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/bookly/internal/errors"
	"github.com/pribylovaa/bookly/internal/http/dto"
)

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var in dto.SignupRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	user, err := h.Service.Signup(r.Context(), in.ToInput())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserDetailsFromModel(user))
}

func (h *Handlers) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.VerifyAccount(r.Context(), chi.URLParam(r, "token")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Account verified successfully."})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in dto.LoginRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	res, err := h.Service.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginFromResult(res))
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	c, err := claims(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	user, err := h.Service.CurrentUser(r.Context(), c)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserDetailsFromModel(user))
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := claims(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	token, err := h.Service.RefreshAccessToken(r.Context(), c)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RefreshResponse{AccessToken: token})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	c, err := claims(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Service.Logout(r.Context(), c); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logout Successfully."})
}

func (h *Handlers) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var in dto.PasswordResetRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Service.RequestPasswordReset(r.Context(), in.Email); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Please check your email for instructions to reset your password."})
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in dto.PasswordResetConfirm
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	err := h.Service.ResetPassword(r.Context(), chi.URLParam(r, "token"), in.NewPassword, in.NewPasswordConfirm)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Password reset successfully."})
}
