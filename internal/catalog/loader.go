package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"shopfront/internal/model"
)

// Loader reads a product seed file and returns the products it
// contains. The file is a JSON array of products; prices may be given
// as JSON numbers or strings.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// fileLoader implements Loader for the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based seed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a JSON product seed file from the local file system.
func (l *fileLoader) Load(ctx context.Context, path string) ([]model.Product, error) {
	l.logger.Info().Str("file", path).Msg("loading product seed file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", path, err)
	}
	defer file.Close()

	products, err := decodeProducts(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode seed file")
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("products_loaded", len(products)).
		Msg("product seed file loaded")

	return products, nil
}

// decodeProducts parses and validates a product seed document.
func decodeProducts(r io.Reader) ([]model.Product, error) {
	var products []model.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, err
	}

	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("seed product %d: id is required", i)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("seed product %s: name is required", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("seed product %s: price must not be negative", p.ID)
		}
		if p.Stock < 0 {
			return nil, fmt.Errorf("seed product %s: stock must not be negative", p.ID)
		}
	}

	return products, nil
}
