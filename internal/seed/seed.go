// Package seed carries the built-in category catalog and writes it into
// the record store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

//go:embed categories.yaml
var categoriesYAML []byte

type catalogFile struct {
	Categories []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"categories"`
}

// Categories decodes the embedded catalog.
func Categories() ([]models.Category, error) {
	var file catalogFile
	if err := yaml.Unmarshal(categoriesYAML, &file); err != nil {
		return nil, fmt.Errorf("decode category catalog: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("category catalog is empty")
	}

	categories := make([]models.Category, 0, len(file.Categories))
	for i, entry := range file.Categories {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("category %d has no name", i+1)
		}
		categories = append(categories, models.Category{
			Name:        name,
			Description: strings.TrimSpace(entry.Description),
		})
	}
	return categories, nil
}

// Run wipes and reseeds the category catalog so entries get ids 1..n.
func Run(ctx context.Context, st store.CategoryStore) (int, error) {
	categories, err := Categories()
	if err != nil {
		return 0, err
	}
	if err := st.ReplaceCategories(ctx, categories); err != nil {
		return 0, err
	}
	return len(categories), nil
}
