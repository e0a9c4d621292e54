package config

import "os"

// Environment holds the process configuration. Every field has a local
// development default matching the original deployment.
type Environment struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	StaticDir     string
}

// Load reads the environment after godotenv has had its chance to
// populate it.
func Load() Environment {
	return Environment{
		Port:          getenv("PORT", "8000"),
		MongoURI:      getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGODB_DATABASE", "studycards"),
		StaticDir:     getenv("STATIC_DIR", "web"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
