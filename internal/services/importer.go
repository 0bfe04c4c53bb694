package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yishak-cs/coffees/internal/models"
)

// ErrUnsupportedSeed indicates a seed file with an unknown extension
var ErrUnsupportedSeed = errors.New("unsupported seed file format")

// CatalogImporter seeds the catalog from CSV or YAML files
type CatalogImporter struct {
	coffees *CoffeeService
}

// NewCatalogImporter creates a new catalog importer
func NewCatalogImporter(coffees *CoffeeService) *CatalogImporter {
	return &CatalogImporter{coffees: coffees}
}

// ImportFile creates one coffee per entry of the file at path and returns
// how many were created. The format is picked from the extension.
func (i *CatalogImporter) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	var entries []models.CreateCoffeeInput
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		entries, err = ReadCSVSeed(f)
	case ".yaml", ".yml":
		entries, err = ReadYAMLSeed(f)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedSeed, path)
	}
	if err != nil {
		return 0, err
	}

	return i.Import(ctx, entries)
}

// Import creates every entry in order and stops at the first failure
func (i *CatalogImporter) Import(ctx context.Context, entries []models.CreateCoffeeInput) (int, error) {
	log.Printf("Starting catalog import of %d coffees...", len(entries))

	for n, entry := range entries {
		if _, err := i.coffees.Create(ctx, entry); err != nil {
			return n, fmt.Errorf("failed to import coffee %q: %w", entry.Title, err)
		}
	}

	log.Printf("Imported %d coffees", len(entries))
	return len(entries), nil
}

// ReadCSVSeed parses rows of title,brand,flavors with a header line.
// Flavors are separated by "|".
func ReadCSVSeed(r io.Reader) ([]models.CreateCoffeeInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = idx
	}
	for _, required := range []string{"title", "brand"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("CSV header is missing column %q", required)
		}
	}

	var entries []models.CreateCoffeeInput
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		entry := models.CreateCoffeeInput{
			Title:   row[columns["title"]],
			Brand:   row[columns["brand"]],
			Flavors: []string{},
		}
		if idx, ok := columns["flavors"]; ok && idx < len(row) {
			for _, name := range strings.Split(row[idx], "|") {
				if name = strings.TrimSpace(name); name != "" {
					entry.Flavors = append(entry.Flavors, name)
				}
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// ReadYAMLSeed parses a YAML list of {title, brand, flavors}
func ReadYAMLSeed(r io.Reader) ([]models.CreateCoffeeInput, error) {
	var entries []models.CreateCoffeeInput
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse YAML seed: %w", err)
	}
	return entries, nil
}
