// Package importer reads reference data files for bulk loading.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/goccy/go-json"
)

// Format is the encoding of an import file
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// FormatOf picks the format from the file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".json":
		return JSON, nil
	default:
		return "", fmt.Errorf("unsupported file type %q (supported: .csv, .json)", filepath.Ext(path))
	}
}

// ReadIngredients decodes ingredients. CSV rows are "name,measurement_unit"
// and the first row is skipped when header is set. JSON is an array of
// {"name", "measurement_unit"} objects.
func ReadIngredients(r io.Reader, format Format, header bool) ([]services.IngredientInput, error) {
	switch format {
	case CSV:
		return readIngredientsCSV(r, header)
	case JSON:
		var out []services.IngredientInput
		if err := json.NewDecoder(r).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode ingredients: %w", err)
		}
		for i := range out {
			out[i].Name = strings.TrimSpace(out[i].Name)
			out[i].MeasurementUnit = strings.TrimSpace(out[i].MeasurementUnit)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func readIngredientsCSV(r io.Reader, header bool) ([]services.IngredientInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	var out []services.IngredientInput
	for n := 1; ; n++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read ingredients: %w", err)
		}
		if n == 1 && header {
			continue
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) != 2 {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected 2 fields, got %d", line, len(record))
		}
		out = append(out, services.IngredientInput{
			Name:            strings.TrimSpace(record[0]),
			MeasurementUnit: strings.TrimSpace(record[1]),
		})
	}
}

// ReadTags decodes a JSON array of {"name", "slug"} objects
func ReadTags(r io.Reader) ([]services.TagInput, error) {
	var out []services.TagInput
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	for i := range out {
		out[i].Name = strings.TrimSpace(out[i].Name)
		out[i].Slug = strings.TrimSpace(out[i].Slug)
	}
	return out, nil
}
