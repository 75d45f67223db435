package server

import (
	"net/http"

	"github.com/amonks/lists/auth"
	"github.com/amonks/lists/listable"
	"github.com/gorilla/mux"
)

func (s *Server) handleListWithItems(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	list, err := s.service.ListWithItems(r.Context(), p.UserID, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list.Items == nil {
		list.Items = []listable.Item{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req ItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := s.service.QuickCreateItem(r.Context(), p.UserID, mux.Vars(r)["id"], req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleItemsPriorities(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req PrioritiesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.service.UpdateItemsOrder(r.Context(), p.UserID, mux.Vars(r)["id"], req.Updates); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyResponse{})
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	vars := mux.Vars(r)
	item, err := s.service.Item(r.Context(), p.UserID, vars["id"], vars["item"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleSaveItem(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req ItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	vars := mux.Vars(r)
	item, err := s.service.SaveItem(r.Context(), p.UserID, listable.Item{
		ID:       vars["item"],
		ListID:   vars["id"],
		Name:     req.Name,
		Notes:    req.Notes,
		Status:   req.Status,
		Priority: req.Priority,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	vars := mux.Vars(r)
	if err := s.service.DeleteItem(r.Context(), p.UserID, vars["id"], vars["item"]); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyResponse{})
}

func (s *Server) handleItemStatus(status listable.ItemStatus) userHandler {
	return func(w http.ResponseWriter, r *http.Request, p auth.Principal) {
		vars := mux.Vars(r)
		item, err := s.service.SetItemStatus(r.Context(), p.UserID, vars["id"], vars["item"], status)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}
