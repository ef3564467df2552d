package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ponbac/rolf-time/services"
)

type AdminHandler struct {
	resultService services.ResultService
}

func NewAdminHandler(resultService services.ResultService) *AdminHandler {
	return &AdminHandler{
		resultService: resultService,
	}
}

func (h *AdminHandler) SetGameResult(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GameResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.resultService.SetGameResult(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) SetGroupStandings(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		badRequestResponse(w, r, errors.New("group id is required"))
		return
	}

	var input struct {
		TeamIDs []int `json:"team_ids"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.resultService.SetGroupStandings(r.Context(), groupID, input.TeamIDs); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Standings saved"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
