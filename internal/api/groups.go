package api

import (
	"encoding/json"
	"net/http"

	"github.com/aebersold/pybose-fastapi-wrapped/internal/bose"
)

// groupRequest carries the product IDs for group create/add/remove.
type groupRequest struct {
	ProductIDs []string `json:"product_ids"`
}

func decodeGroupRequest(w http.ResponseWriter, r *http.Request) (groupRequest, bool) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return req, false
	}
	if len(req.ProductIDs) == 0 {
		writeBadRequest(w, "body must carry at least one product ID")
		return req, false
	}
	return req, true
}

// handleGetActiveGroups returns the active multi-room group untouched.
func (s *Server) handleGetActiveGroups(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.GetActiveGroups(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// handleCreateGroup forms a multi-room group from the listed products.
func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGroupRequest(w, r)
	if !ok {
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.CreateGroup(r.Context(), ctrl, req.ProductIDs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// handleDissolveGroups dissolves the active multi-room group.
func (s *Server) handleDissolveGroups(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	if err := bose.DissolveGroups(r.Context(), ctrl); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAddToGroup adds products to the active group.
func (s *Server) handleAddToGroup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGroupRequest(w, r)
	if !ok {
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.AddToGroup(r.Context(), ctrl, req.ProductIDs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// handleRemoveFromGroup removes products from the active group.
func (s *Server) handleRemoveFromGroup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGroupRequest(w, r)
	if !ok {
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.RemoveFromGroup(r.Context(), ctrl, req.ProductIDs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}
