package config

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// LoadEnv reads .env if present. Missing file is fine in deployed
// environments where variables come from the process environment.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using process environment")
	}
}

func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	StoreDriver string
	JWTSecret   string
	Billplz     BillplzConfig
}

// BillplzConfig carries everything the gateway client needs. The client
// never reads process state itself.
type BillplzConfig struct {
	BaseURL      string
	APIKey       string
	CollectionID string
	CallbackURL  string
	RedirectURL  string
}

func FromEnv() Config {
	return Config{
		Port:        GetEnv("PORT", "8080"),
		MongoURI:    GetEnv("MONGO_URI", ""),
		DBName:      GetEnv("DB_NAME", ""),
		StoreDriver: GetEnv("STORE_DRIVER", "mongo"),
		JWTSecret:   GetEnv("JWT_SECRET", ""),
		Billplz: BillplzConfig{
			BaseURL:      GetEnv("BILLPLZ_API_URL", "https://www.billplz-sandbox.com/api/"),
			APIKey:       GetEnv("BILLPLZ_API_KEY", ""),
			CollectionID: GetEnv("BILLPLZ_COLLECTION_ID", ""),
			CallbackURL:  GetEnv("BILLPLZ_CALLBACK_URL", "http://localhost:3000/verify-payment"),
			RedirectURL:  GetEnv("BILLPLZ_REDIRECT_URL", "http://localhost:3000/verify-payment"),
		},
	}
}
