package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed schema/site-assets.schema.json
var schemaBytes []byte

const schemaURL = "site-assets.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a schema validation
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is a single schema violation
type ValidationIssue struct {
	Path    string // instance location, e.g. "/assets/2/type"
	Message string
	Keyword string
}

func (i ValidationIssue) String() string {
	loc := i.Path
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, i.Message)
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// ValidateSchema checks raw manifest bytes against the embedded schema.
// ext selects the decoder (".json", ".yaml" or ".yml"). The error return
// covers decoding and schema failures; violations land in the result.
func ValidateSchema(data []byte, ext string) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	jsonData := trimBOM(data)
	switch strings.ToLower(ext) {
	case ".json", "":
	case ".yaml", ".yml":
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		if jsonData, err = json.Marshal(raw); err != nil {
			return nil, fmt.Errorf("converting to JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExt, ext)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	return &ValidationResult{Valid: false, Issues: extractIssues(ve)}, nil
}

// ValidateSchemaFile reads a manifest file and validates it
func ValidateSchemaFile(path string) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	return ValidateSchema(data, filepath.Ext(path))
}

func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}
	return dedupe(issues)
}

// collectIssues walks the error tree down to leaf errors
func collectIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	keyword := ""
	msg := ""
	if ve.ErrorKind != nil {
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}

	switch keyword {
	case "", "allOf", "$ref", "if", "then", "else":
		return
	}

	*issues = append(*issues, ValidationIssue{Path: path, Message: msg, Keyword: keyword})
}

func dedupe(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool, len(issues))
	out := issues[:0]
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, issue)
	}
	return out
}
