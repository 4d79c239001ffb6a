package manifest

import (
	"errors"
	"fmt"

	"github.com/quantmind-br/siteassets-go/internal/domain"
)

var knownTypes = map[string]bool{
	domain.AssetJSON:      true,
	domain.AssetText:      true,
	domain.AssetImage:     true,
	domain.AssetDirectory: true,
}

var knownPartTypes = map[string]bool{
	domain.AssetJSON:  true,
	domain.AssetText:  true,
	domain.AssetImage: true,
}

// Validate checks descriptor invariants and returns every violation joined.
// The loader does not call it; unknown types are tolerated at load time.
func Validate(m *domain.Manifest) error {
	if m == nil {
		return domain.NewValidationError("assets", "manifest is nil")
	}

	var errs []error
	seen := make(map[string]int, len(m.Assets))

	for i, a := range m.Assets {
		field := fmt.Sprintf("assets[%d]", i)

		if a.Path == "" {
			errs = append(errs, fieldErr(field+".path", ErrEmptyPath))
		} else if first, dup := seen[a.Path]; dup {
			errs = append(errs, fieldErr(field+".path", fmt.Errorf("%w: %q (first at assets[%d])", ErrDuplicatePath, a.Path, first)))
		} else {
			seen[a.Path] = i
		}

		if !knownTypes[a.Type] {
			errs = append(errs, fieldErr(field+".type", fmt.Errorf("%w: %q", ErrUnknownType, a.Type)))
		}

		if a.Contains == nil {
			continue
		}
		if !a.IsDirectory() {
			errs = append(errs, fieldErr(field+".contains", ErrMisplacedContains))
			continue
		}
		if a.Contains.IsCombo() {
			for j, part := range a.Contains.Parts {
				partField := fmt.Sprintf("%s.contains.parts[%d]", field, j)
				if len(part.AllowedExtensions) == 0 {
					errs = append(errs, fieldErr(partField+".allowedExtensions", fmt.Errorf("%w: no extensions", ErrInvalidPart)))
				}
				if !knownPartTypes[part.AssetType] {
					errs = append(errs, fieldErr(partField+".assetType", fmt.Errorf("%w: asset type %q", ErrInvalidPart, part.AssetType)))
				}
			}
		}
	}

	return errors.Join(errs...)
}

type fieldError struct {
	*domain.ValidationError
	err error
}

func (e *fieldError) Unwrap() []error {
	return []error{e.ValidationError, e.err}
}

func fieldErr(field string, err error) error {
	return &fieldError{ValidationError: domain.NewValidationError(field, err.Error()), err: err}
}

// Stats counts descriptors per asset type and handler usage
type Stats struct {
	Total    int
	ByType   map[string]int
	Handlers int
}

// Summarize returns descriptor counts for a manifest
func Summarize(m *domain.Manifest) Stats {
	s := Stats{ByType: make(map[string]int)}
	if m == nil {
		return s
	}
	for _, a := range m.Assets {
		s.Total++
		s.ByType[a.Type]++
		if a.Handler != "" {
			s.Handlers++
		}
	}
	return s
}
