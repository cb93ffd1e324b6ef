// Package analysis reads scanner output into models.AnalysisResult.
package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/models"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FormatFromPath picks the decoder by file extension; anything that is not
// .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads and validates the analysis stored at path.
func LoadFile(path string) (*models.AnalysisResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ErrInvalidInput.
			WithMessage("cannot open analysis file").
			WithContext("file", path).
			WithError(err)
	}
	defer func() { _ = f.Close() }()

	result, err := Decode(f, FormatFromPath(path))
	if err != nil {
		var appErr *errors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr.WithContext("file", path)
		}
		return nil, err
	}
	return result, nil
}

// Decode parses r in the given format and validates the result.
func Decode(r io.Reader, format Format) (*models.AnalysisResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.ErrInvalidInput.WithMessage("cannot read analysis").WithError(err)
	}

	var result models.AnalysisResult
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &result)
	case FormatJSON:
		err = json.NewDecoder(bytes.NewReader(data)).Decode(&result)
	default:
		return nil, errors.ErrInvalidInput.WithMessage(fmt.Sprintf("unsupported analysis format %q", format))
	}
	if err != nil {
		return nil, errors.ErrInvalidInput.
			WithMessage(fmt.Sprintf("analysis is not valid %s", format)).
			WithError(err)
	}

	if err := Validate(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Validate checks the field constraints of an analysis. The first failing
// field is named in the message; all of them are listed in the "fields"
// context entry.
func Validate(result *models.AnalysisResult) error {
	if result == nil {
		return errors.ErrInvalidInput.WithMessage("analysis is required")
	}

	err := validate.Struct(result)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.ErrInvalidInput.WithError(err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return errors.ErrInvalidInput.
		WithMessage("analysis failed validation: " + fields[0]).
		WithContext("fields", fields)
}
