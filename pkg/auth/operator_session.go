package auth

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/shopfloor/pkg/httpx"
	"github.com/ghuser/shopfloor/pkg/logger"
	pkgvalidator "github.com/ghuser/shopfloor/pkg/validator"
)

// SignInRequest is the request body for POST /api/operator/session.
type SignInRequest struct {
	OperatorID   string `json:"operator_id" validate:"required,max=64" example:"op-17"`
	OperatorName string `json:"operator_name" validate:"required,max=128" example:"Ada Lovelace"`
} // @name SignInRequest

// OperatorResponse echoes the signed-in operator.
type OperatorResponse struct {
	OperatorID   string `json:"operator_id" example:"op-17"`
	OperatorName string `json:"operator_name" example:"Ada Lovelace"`
} // @name OperatorResponse

// SessionHandler signs operators in and out of a terminal.
type SessionHandler struct {
	store sessions.Store
	log   logger.Logger
}

func NewSessionHandler(store sessions.Store, log logger.Logger) *SessionHandler {
	return &SessionHandler{store: store, log: log}
}

// SignIn stores the operator in the session.
//
//	@Summary		Sign in operator
//	@Tags			operator
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SignInRequest	true	"Operator"
//	@Success		200		{object}	OperatorResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Router			/operator/session [post]
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SignInRequest](w, r)
	if !ok {
		return
	}

	session, err := h.store.Get(r, sessionName)
	if err != nil {
		h.log.WarnContext(r.Context(), "discarding unreadable session", "error", err)
	}
	if session == nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not open session")
		return
	}
	session.Values[sessionOperatorIDKey] = req.OperatorID
	session.Values[sessionOperatorNameKey] = req.OperatorName
	if err := session.Save(r, w); err != nil {
		h.log.ErrorContext(r.Context(), "save operator session", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "could not save session")
		return
	}

	h.log.InfoContext(r.Context(), "operator signed in", "operator_id", req.OperatorID)
	httpx.JSON(w, http.StatusOK, OperatorResponse{OperatorID: req.OperatorID, OperatorName: req.OperatorName})
}

// SignOut clears the session.
//
//	@Summary	Sign out operator
//	@Tags		operator
//	@Success	204
//	@Router		/operator/session [delete]
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, sessionName)
	if err == nil && session != nil {
		session.Options.MaxAge = -1
		if err := session.Save(r, w); err != nil {
			h.log.WarnContext(r.Context(), "clear operator session", "error", err)
		}
	}
	httpx.NoContent(w)
}
