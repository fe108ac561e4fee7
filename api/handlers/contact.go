package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/goccy/go-json"
	"github.com/gookit/validate"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/crestmont/site-api/config"
	"github.com/crestmont/site-api/models"
	templates "github.com/crestmont/site-api/templates/html"
)

// Contact relays contact form submissions by email
type Contact struct {
	Config config.Config
}

// SubmitHandler validates a contact form submission and relays it to the
// site inbox. The sender address goes into reply-to so staff can answer
// directly.
func (c Contact) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	v := validate.Struct(req)
	if !v.Validate() {
		config.ErrorStatus("invalid contact submission", http.StatusBadRequest, w, v.Errors)
		return
	}

	// relay asynchronously, the visitor should not wait on the mail provider
	go sendContactEmail(req)

	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte(`{"received": true}`))
}

func sendContactEmail(req models.ContactRequest) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.S().Errorw("contact relay panicked", "panic", rec)
		}
	}()

	apiKey := os.Getenv("SENDGRID_API_KEY")
	inbox := os.Getenv("CONTACT_INBOX")
	if apiKey == "" || inbox == "" {
		zap.S().Errorw("contact relay not configured, dropping submission",
			"from", req.Email)
		return
	}

	subject := "Website contact: " + req.Subject
	body := fmt.Sprintf("From: %s <%s>\n\n%s", req.Name, req.Email, req.Message)

	from := mail.NewEmail("Crestmont Website", inbox)
	to := mail.NewEmail("", inbox)
	message := mail.NewSingleEmail(from, subject, to, body, templates.RenderGenericEmail(subject, body))
	message.SetReplyTo(mail.NewEmail(req.Name, req.Email))

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to relay contact submission", "from", req.Email, "error", err)
		return
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		zap.S().Infow("contact submission relayed", "from", req.Email, "statusCode", response.StatusCode)
	} else {
		zap.S().Warnw("contact relay returned non-2xx status",
			"from", req.Email,
			"statusCode", response.StatusCode,
			"body", response.Body)
	}
}
