package http

import (
	"encoding/json"
	"net/http"
)

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

// decodeLooseJSON ignores fields out does not declare. Login forms send
// extras such as "remember" that carry no meaning here.
func decodeLooseJSON(r *http.Request, out interface{}) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

type validationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// validate writes a 400 and returns false when payload fails validation.
func (s *Server) validate(w http.ResponseWriter, payload interface{}) bool {
	fields := s.validator.Struct(payload)
	if fields == nil {
		return true
	}
	writeJSON(w, http.StatusBadRequest, validationErrorResponse{Error: "missing_fields", Fields: fields})
	return false
}
