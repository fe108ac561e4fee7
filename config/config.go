package config

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/crestmont/site-api/logging"
	"github.com/crestmont/site-api/models"
)

// Config holds the project config values
type Config struct {
	CMSBaseURL     string
	CMSToken       string
	AdminJWTSecret string
	BaseURL        string
	Port           string
	SessionTTL     time.Duration
	CacheTTL       time.Duration
	AllowedOrigins []string
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logging.New()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("CMS_CACHE_TTL", "30s")
	v.SetDefault("ALLOWED_ORIGINS", []string{"*"})

	_ = v.BindEnv("CMS_BASE_URL")
	_ = v.BindEnv("CMS_TOKEN")
	_ = v.BindEnv("ADMIN_JWT_SECRET")
	_ = v.BindEnv("BASE_URL")

	return &Config{
		CMSBaseURL:     v.GetString("CMS_BASE_URL"),
		CMSToken:       v.GetString("CMS_TOKEN"),
		AdminJWTSecret: v.GetString("ADMIN_JWT_SECRET"),
		BaseURL:        v.GetString("BASE_URL"),
		Port:           v.GetString("PORT"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		CacheTTL:       v.GetDuration("CMS_CACHE_TTL"),
		AllowedOrigins: v.GetStringSlice("ALLOWED_ORIGINS"),
	}

}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(models.ErrorMessageResponse{Response: models.MessageError{Message: message, Error: errText}})
	w.Write(b)
}
