package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Configuration holds the static settings needed to run the server.
type Configuration struct {
	Address string `env:"ADDRESS" envDefault:"8000"` // listen port

	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required,notEmpty"`
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"videotube"`

	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"24h"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET,required,notEmpty"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"240h"`
	CookieSecure       bool          `env:"COOKIE_SECURE" envDefault:"true"`

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`              // comma separated, * = all
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"` // cookies are used for tokens
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`          // 0 disables
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`        // seconds
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	BodyLimitMB           int    `env:"BODY_LIMIT_MB" envDefault:"200"` // video uploads go through the body

	// Media store
	MediaDriver      string `env:"MEDIA_DRIVER" envDefault:"minio"` // minio | s3
	MediaBucket      string `env:"MEDIA_BUCKET" envDefault:"videotube"`
	MediaPublicURL   string `env:"MEDIA_PUBLIC_URL"` // base URL assets are served from
	MinioEndpoint    string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioAccessKey   string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey   string `env:"MINIO_SECRET_KEY"`
	MinioUseSSL      bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	S3Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint       string `env:"S3_ENDPOINT"` // optional, for S3 compatible services
	S3UsePathStyle   bool   `env:"S3_USE_PATH_STYLE" envDefault:"true"`
	MediaMaxImageMB  int    `env:"MEDIA_MAX_IMAGE_MB" envDefault:"10"`
	MediaMaxVideoMB  int    `env:"MEDIA_MAX_VIDEO_MB" envDefault:"190"`

	// TLS/HTTPS
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
}

// getEnvPath walks up from the working directory looking for config/env/${GO_ENV}.env.
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// logger is not initialised yet
		fmt.Printf("Cannot get working directory: %v\n", err)
		return ""
	}

	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", goEnv))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig loads the env file when one exists and parses the process environment.
// Returns nil when a required key is missing.
func NewConfig() *Configuration {
	if envPath := getEnvPath(); envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Cannot load env file %s: %v\n", envPath, err)
		}
	}

	cfg, err := Parse()
	if err != nil {
		fmt.Printf("Error parsing config: %+v\n", err)
		return nil
	}
	return cfg
}

// Parse reads the configuration from the current environment only.
func Parse() (*Configuration, error) {
	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.MediaDriver != "minio" && cfg.MediaDriver != "s3" {
		return nil, fmt.Errorf("MEDIA_DRIVER must be minio or s3, got %q", cfg.MediaDriver)
	}
	return &cfg, nil
}
