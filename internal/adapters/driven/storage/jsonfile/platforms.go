package jsonfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// platformRecord is the on-disk platform shape. Older records name the
// platform's own site "website" rather than "url".
type platformRecord struct {
	domain.Platform
	Website string `json:"website,omitempty"`
}

// LoadPlatforms reads the platform array at path.
func LoadPlatforms(path string) ([]domain.Platform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open platforms file: %w", err)
	}
	defer f.Close()

	platforms, err := DecodePlatforms(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return platforms, nil
}

// DecodePlatforms decodes a JSON array of platform records.
func DecodePlatforms(r io.Reader) ([]domain.Platform, error) {
	var records []platformRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode platforms: %w", domain.ErrInvalidInput, err)
	}

	platforms := make([]domain.Platform, len(records))
	for i, rec := range records {
		p := rec.Platform
		if p.URL == "" {
			p.URL = rec.Website
		}
		platforms[i] = p
	}
	return platforms, nil
}
