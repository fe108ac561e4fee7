package models

// ContactRequest is a contact form submission relayed by email
type ContactRequest struct {
	Name    string `json:"name" validate:"required|minLen:2"`
	Email   string `json:"email" validate:"required|email"`
	Subject string `json:"subject" validate:"required|minLen:2"`
	Message string `json:"message" validate:"required|minLen:10"`
}
