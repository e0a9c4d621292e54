package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/studycards/api/config"
	"github.com/studycards/api/handlers"
	"github.com/studycards/api/repository"
	"github.com/studycards/api/storage"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env")
	}
	env := config.Load()

	store := selectStore(env, log)
	repo := repository.New(store, log)
	search := repository.NewSearchService(store, log)

	mux := handlers.Router(handlers.New(repo, search))
	mux.Handle("/", spaHandler(env.StaticDir))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)

	addr := "0.0.0.0:" + env.Port
	log.Info().Str("addr", addr).Msg("study cards API listening")
	if err := http.ListenAndServe(addr, corsHandler); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// selectStore makes the one-time storage choice: Mongo when it answers
// within the connect timeout, otherwise the seeded in-memory store. The
// process never blocks startup on the database and never swaps stores
// afterwards.
func selectStore(env config.Environment, log zerolog.Logger) storage.Store {
	ctx := context.Background()

	mongoStore, err := storage.ConnectMongo(ctx, env.MongoURI, env.MongoDatabase, log)
	if err != nil {
		log.Warn().Err(err).Msg("mongodb unreachable, serving from in-memory store")
		return storage.NewSeededMemoryStore()
	}

	log.Info().Str("database", env.MongoDatabase).Msg("connected to mongodb")
	mongoStore.EnsureIndexes(ctx)
	if err := mongoStore.SeedIfEmpty(ctx); err != nil {
		log.Warn().Err(err).Msg("could not seed initial data")
	}
	return mongoStore
}

// spaHandler serves the built frontend: real files when they exist,
// index.html for everything else so client-side routes resolve.
func spaHandler(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}
