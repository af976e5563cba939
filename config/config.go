package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/sajhasahayog/relief-api/logging"
	"github.com/sajhasahayog/relief-api/models"
)

// Config holds the project config values
type Config struct {
	Env          string `envconfig:"ENV" default:"local"`
	Port         string `envconfig:"PORT" default:"8080"`
	BaseURL      string `envconfig:"BASE_URL"`
	URL          string `envconfig:"DB_URI" default:"mongodb://127.0.0.1:27017"`
	DatabaseName string `envconfig:"DB_NAME" default:"sajhasahayog"`

	JWTSecret       string        `envconfig:"JWT_SECRET"`
	TokenTTL        time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	AdminSignupCode string        `envconfig:"ADMIN_SIGNUP_CODE"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	StorageBackend     string `envconfig:"STORAGE_BACKEND" default:"cloudinary"`
	CloudinaryURL      string `envconfig:"CLOUDINARY_URL"`
	AWSRegion          string `envconfig:"AWS_REGION" default:"ap-south-1"`
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	S3PublicBaseURL    string `envconfig:"S3_PUBLIC_BASE_URL"`
	ReportPhotoBucket  string `envconfig:"REPORT_PHOTO_BUCKET" default:"disaster-images"`
	EvidenceBucket     string `envconfig:"EVIDENCE_BUCKET" default:"evidence"`
	PhotoMaxDimension  int    `envconfig:"PHOTO_MAX_DIMENSION" default:"1600"`

	SendGridAPIKey   string `envconfig:"SENDGRID_API_KEY"`
	NotifyFromEmail  string `envconfig:"NOTIFY_FROM_EMAIL" default:"no-reply@sajhasahayog.org"`
	AdminDigestEmail string `envconfig:"ADMIN_DIGEST_EMAIL"`
	DigestSchedule   string `envconfig:"DIGEST_SCHEDULE"`
}

// New sets up all config related services
func New() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	logger, err := setLogger(c.Env)
	if err != nil {
		return nil, err
	}
	_ = zap.ReplaceGlobals(logger)

	if c.JWTSecret == "" {
		if c.Env != "local" {
			return nil, fmt.Errorf("JWT_SECRET must be set when ENV is %q", c.Env)
		}
		// tokens signed with it do not survive a restart
		c.JWTSecret = uuid.NewString()
		zap.S().Warn("JWT_SECRET is not set, using a random secret for this process")
	}

	return &c, nil
}

func setLogger(env string) (*zap.Logger, error) {
	return logging.New(env)
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With("error", err).Error(message)

	errText := ""
	if err != nil {
		errText = err.Error()
	}
	b, _ := json.Marshal(models.ErrorMessageResponse{Response: models.MessageError{Message: message, Error: errText}})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	w.Write(b)
}
