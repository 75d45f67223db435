package server

import (
	"net/http"

	"github.com/amonks/lists/auth"
	"github.com/amonks/lists/listable"
	"github.com/gorilla/mux"
)

func (s *Server) handleListables(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var filter *listable.Type
	if value := r.URL.Query().Get("type"); value != "" {
		t := listable.Type(value)
		if err := listable.ValidateType(t, ""); err != nil {
			s.fail(w, r, err)
			return
		}
		filter = &t
	}
	listables, err := s.service.ListablesByType(r.Context(), p.UserID, filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if listables == nil {
		listables = []listable.Listable{}
	}
	writeJSON(w, http.StatusOK, ListablesResponse{Listables: listables})
}

func (s *Server) handleCreateListable(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req ListableRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.service.SaveList(r.Context(), p.UserID, req.Listable(""))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListable(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	l, err := s.service.Listable(r.Context(), p.UserID, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleSaveListable(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req ListableRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	saved, err := s.service.SaveList(r.Context(), p.UserID, req.Listable(mux.Vars(r)["id"]))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteListable(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	if err := s.service.DeleteListable(r.Context(), p.UserID, mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyResponse{})
}

func (s *Server) handleSaveNote(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req NoteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	note, err := s.service.SaveNoteContent(r.Context(), p.UserID, mux.Vars(r)["id"], req.Content)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleListablesPriorities(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req PrioritiesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.service.UpdateListsPriorities(r.Context(), p.UserID, req.Updates); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyResponse{})
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	favorite, err := s.service.ToggleFavorite(r.Context(), p.UserID, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FavoriteResponse{Favorite: favorite})
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	favorites, err := s.service.Favorites(r.Context(), p.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if favorites == nil {
		favorites = []listable.FavoriteEntry{}
	}
	writeJSON(w, http.StatusOK, FavoritesResponse{Favorites: favorites})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	vars := mux.Vars(r)
	l, err := s.service.Share(r.Context(), p.UserID, vars["id"], vars["user"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleUnshare(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	vars := mux.Vars(r)
	l, err := s.service.Unshare(r.Context(), p.UserID, vars["id"], vars["user"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}
