package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	MongoURI string
	MongoDB  string
	Port     string

	AppPIN        string
	SessionSecret string
	CookieSecure  bool

	CloudinaryCloudName    string
	CloudinaryUploadPreset string

	SiteURL        string
	DashboardLimit int
}

func LoadConfig() *Config {
	// Solo cargar .env en desarrollo local
	// En producción las variables vienen del entorno
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Error loading .env file:", err)
		} else {
			log.Println("✅ .env file loaded successfully")
		}
	} else {
		log.Println("🌐 Using system environment variables")
	}

	env := getEnv("APP_ENV", "development")
	pin := getEnv("APP_PIN", "")

	return &Config{
		Env:      env,
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "inventory"),
		Port:     getEnv("PORT", "8080"),

		AppPIN:        pin,
		SessionSecret: getEnv("SESSION_SECRET", pin),
		CookieSecure:  getEnvBool("COOKIE_SECURE", env == "production"),

		CloudinaryCloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryUploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", ""),

		SiteURL:        strings.TrimRight(getEnv("SITE_URL", ""), "/"),
		DashboardLimit: getEnvInt("DASHBOARD_LIMIT", 100),
	}
}

// IsProduction indica si el proceso corre en producción
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AuthEnabled es falso cuando no hay PIN configurado: el gate deja pasar todo
func (c *Config) AuthEnabled() bool {
	return c.AppPIN != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
