package handlers

import (
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	cldapi "github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/goccy/go-json"

	"github.com/crestmont/site-api/config"
)

// CloudinaryHandler handles Cloudinary related requests
type CloudinaryHandler struct{}

// GenerateSignature signs an upload request so the admin panel can upload
// straight to Cloudinary without the secret ever leaving the server
func (c CloudinaryHandler) GenerateSignature(w http.ResponseWriter, r *http.Request) {
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	uploadPreset := os.Getenv("CLOUDINARY_UPLOAD_PRESET")
	if apiSecret == "" {
		config.ErrorStatus("cloudinary is not configured", http.StatusServiceUnavailable, w, nil)
		return
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := url.Values{}
	params.Set("timestamp", timestamp)
	if uploadPreset != "" {
		params.Set("upload_preset", uploadPreset)
	}

	signature, err := cldapi.SignParameters(params, apiSecret)
	if err != nil {
		config.ErrorStatus("failed to sign upload parameters", http.StatusInternalServerError, w, err)
		return
	}

	response := map[string]string{
		"timestamp": timestamp,
		"signature": signature,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
