package venues

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/codr1/Matchpoint/internal/apperr"
)

// CatalogFile is the YAML layout read by the seed tool.
type CatalogFile struct {
	Venues []CreateParams `yaml:"venues"`
}

type SeedResult struct {
	Created int
	Skipped int
}

func ParseCatalogFile(data []byte) (CatalogFile, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return CatalogFile{}, fmt.Errorf("parse venue catalog: %w", err)
	}
	if len(file.Venues) == 0 {
		return CatalogFile{}, fmt.Errorf("venue catalog lists no venues")
	}
	return file, nil
}

func LoadCatalogFile(path string) (CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CatalogFile{}, fmt.Errorf("read venue catalog: %w", err)
	}
	return ParseCatalogFile(data)
}

// Seed creates every venue in file. Venues that already exist are skipped,
// so reseeding the same file is a no-op. The first invalid entry aborts.
func (c *Catalog) Seed(ctx context.Context, file CatalogFile) (SeedResult, error) {
	logger := log.Ctx(ctx)

	var result SeedResult
	for i, params := range file.Venues {
		_, err := c.Create(ctx, params)
		switch {
		case err == nil:
			result.Created++
		case apperr.Is(err, apperr.KindConflict):
			logger.Debug().Str("venue_name", params.Name).Msg("Venue already seeded")
			result.Skipped++
		default:
			return result, fmt.Errorf("venue %d (%s): %w", i+1, params.Name, err)
		}
	}
	return result, nil
}
