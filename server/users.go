package server

import (
	"fmt"
	"net/http"

	"github.com/amonks/lists/auth"
	"github.com/amonks/lists/internal/httpstatus"
	"github.com/amonks/lists/listable"
	"go.uber.org/zap"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.Registration
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.accounts.Register(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeSession(w, r, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeSession(w, r, http.StatusOK, user)
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, status int, user *listable.User) {
	token, err := s.issuer.Issue(*user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("session issued", zap.String("user", user.ID), zap.String("request_id", RequestID(r.Context())))
	writeJSON(w, status, SessionResponse{Token: token, User: *user})
}

// currentUser returns the caller's profile, creating it for principals
// authenticated by an external provider.
func (s *Server) currentUser(r *http.Request, p auth.Principal) (*listable.User, error) {
	return s.service.EnsureUser(r.Context(), listable.User{ID: p.UserID, Name: p.Name, Email: p.Email})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	user, err := s.currentUser(r, p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req UpdateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.currentUser(r, p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Name != nil {
		if user, err = s.service.UpdateUserName(r.Context(), p.UserID, *req.Name); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if req.PhotoURL != nil {
		if user, err = s.service.UpdateUserPhoto(r.Context(), p.UserID, *req.PhotoURL); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req LocationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		s.fail(w, r, fmt.Errorf("%w: coordinates out of range", httpstatus.ErrBadRequest))
		return
	}
	if _, err := s.currentUser(r, p); err != nil {
		s.fail(w, r, err)
		return
	}
	city, err := s.location.CityWithCountry(r.Context(), req.Latitude, req.Longitude)
	if err != nil {
		s.writeError(w, r, http.StatusBadGateway, err)
		return
	}
	user, err := s.service.UpdateUserLocation(r.Context(), p.UserID, city)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request, _ auth.Principal) {
	users, err := s.service.Users(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UsersResponse{Users: users})
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TypesResponse{Types: listable.Types()})
}
