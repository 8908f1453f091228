package server

import (
	"fmt"

	"github.com/debemdeboas/blogsync/internal/config"
	"github.com/debemdeboas/blogsync/internal/db"
	"github.com/debemdeboas/blogsync/internal/repository"
	"github.com/debemdeboas/blogsync/internal/util/compression"
)

// OpenRepository builds the repository selected by cfg.Backend. The returned
// close function releases the database, if any.
func OpenRepository(cfg config.ServerConfig) (repository.PostRepository, func() error, error) {
	switch cfg.Backend {
	case "memory":
		return repository.NewMemoryPostRepository(), func() error { return nil }, nil

	case "sqlite":
		compressor, err := compression.ByName(cfg.Compression)
		if err != nil {
			return nil, nil, err
		}
		conn := db.NewSQLite(cfg.Database)
		if err := conn.InitDb(); err != nil {
			return nil, nil, fmt.Errorf("init database: %w", err)
		}
		return repository.NewDBPostRepository(conn, repository.WithCompressor(compressor)), conn.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
