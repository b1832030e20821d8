package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/monthly/internal/model"
	"github.com/google/uuid"
)

func parseIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type validationResponse struct {
	Error  string             `json:"error"`
	Fields []model.FieldError `json:"fields"`
}

func writeValidation(w http.ResponseWriter, ve *model.ValidationError) {
	writeJSON(w, http.StatusBadRequest, validationResponse{Error: ve.Error(), Fields: ve.Fields})
}

func nonNil(events []model.Event) []model.Event {
	if events == nil {
		return []model.Event{}
	}
	return events
}
