package controllers

import (
	"net/http"

	"github.com/DanyGuerra/business-manager-frontend-sub001/api/responses"
	"github.com/DanyGuerra/business-manager-frontend-sub001/api/validators"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/realtime"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/session"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/logger"
)

// GetSession reports the active business, identity, and realtime channel
// state in one round trip.
func GetSession(svc *session.Service, manager *realtime.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"business_id":   svc.BusinessID(),
			"identity":      svc.Identity(),
			"channel_state": manager.State(),
		})
	}
}

type credentialRequest struct {
	Token string `json:"token" validate:"required"`
}

// SetCredential installs a fresh auth token. The realtime channel is torn
// down and redialed under the new credential.
func SetCredential(svc *session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetCredential(r.Context(), req.Token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"rotated": true})
	}
}

type switchBusinessRequest struct {
	BusinessID string `json:"business_id" validate:"required"`
}

func SwitchBusiness(svc *session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req switchBusinessRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SwitchBusiness(r.Context(), req.BusinessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"business_id": svc.BusinessID()})
	}
}

type identityRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Name   string `json:"name"`
}

func SetIdentity(svc *session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req identityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		identity := session.Identity{UserID: req.UserID, Name: req.Name}
		if err := svc.SetIdentity(r.Context(), identity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, identity)
	}
}

func Logout(svc *session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"logged_out": true})
	}
}

// ChannelState exposes the connection lifecycle for UI indicators. Failures
// are never surfaced as errors here, only as the disconnected state.
func ChannelState(manager *realtime.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"state": manager.State()})
	}
}

// ReconnectChannel forces a redial with whatever credential and business are
// currently installed.
func ReconnectChannel(manager *realtime.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager.Connect(r.Context())
		responses.WriteSuccess(w, map[string]any{"state": manager.State()})
	}
}
