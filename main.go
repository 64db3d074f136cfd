package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tilerooms/internal/httpserver"
	"tilerooms/internal/hub"
	"tilerooms/internal/store"
	"tilerooms/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := openDB(getEnv("DB_PATH", "./data/tilerooms.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	dict := words.NewSQLStore(db)
	if path := os.Getenv("WORDS_FILE"); path != "" {
		n, err := dict.LoadFile(context.Background(), path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to load word list")
		}
		log.Info().Int("words", n).Str("path", path).Msg("word list loaded")
	}

	rooms := store.NewSQLite(db)
	users := store.NewSQLiteUsers(db)
	h := hub.New(hub.NewRegistry(), rooms, dict, hub.NewRand())
	srv := httpserver.New(rooms, users, dict, h)

	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting tilerooms server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
