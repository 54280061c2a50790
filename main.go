package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wordtrek/go-server/internal/httpserver"
	"github.com/wordtrek/go-server/internal/store"
	"github.com/wordtrek/go-server/internal/wordgraph"
	"github.com/wordtrek/go-server/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	graph, err := wordgraph.LoadDefault()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word graph")
	}
	log.Info().Int("nodes", graph.Len()).Msg("word graph loaded")

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load definitions")
	}

	db, err := openDB(getEnv("DB_PATH", "./data/wordtrek.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(graph, mem, db)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting go-server")
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
