package api

import (
	"net/http"
	"strings"

	"github.com/muhammadolammi/skillnest/internal/database"
)

const contactThanks = "Thank you for your message! We will get back to you soon."

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// handleContact stores the message when it is complete. The visitor is
// thanked either way.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name != "" && req.Email != "" && req.Message != "" {
		_, err := s.store.CreateContactMessage(r.Context(), database.CreateContactMessageParams{
			Name:    req.Name,
			Email:   req.Email,
			Subject: strings.TrimSpace(req.Subject),
			Message: req.Message,
		})
		if err != nil {
			s.fail(w, r, err)
			return
		}
	}
	respondWithJSON(w, http.StatusOK, message{contactThanks})
}
