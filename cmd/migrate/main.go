package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/debemdeboas/blogsync/internal/db"
	"github.com/debemdeboas/blogsync/internal/logger"
	"github.com/debemdeboas/blogsync/internal/model"
	"github.com/debemdeboas/blogsync/internal/repository"
	"github.com/debemdeboas/blogsync/internal/util/compression"
)

// main imports posts from a JSON file into the Posts API database. The file
// is either a bare array of posts or a json-server document {"posts": [...]}.
func main() {
	file := flag.String("file", "", "JSON file with the posts to import")
	dbPath := flag.String("db", "./posts.db", "SQLite database path")
	codec := flag.String("compression", compression.Zstd, "description compression (zstd|gzip)")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logger.New(*logLevel)
	db.SetLogger(logger.Component(log, "db"))
	repository.SetLogger(logger.Component(log, "repository"))

	if *file == "" {
		log.Fatal().Msg("The --file flag is required")
	}

	posts, err := readPosts(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Error reading posts")
	}

	compressor, err := compression.ByName(*codec)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid compression")
	}

	conn := db.NewSQLite(*dbPath)
	if err := conn.InitDb(); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}
	defer conn.Close()

	repo := repository.NewDBPostRepository(conn, repository.WithCompressor(compressor))
	imported, err := repo.Import(posts)
	if err != nil {
		log.Error().Err(err).Int("imported", imported).Msg("Import stopped")
		conn.Close()
		os.Exit(1)
	}

	log.Info().Int("imported", imported).Int("skipped", len(posts)-imported).Str("db", *dbPath).Msg("Import finished")
}

func readPosts(path string) ([]model.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var posts []model.Post
	if err := json.Unmarshal(data, &posts); err == nil {
		return posts, nil
	}

	var doc struct {
		Posts []model.Post `json:"posts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("expected a post array or {\"posts\": [...]}: %w", err)
	}
	return doc.Posts, nil
}
