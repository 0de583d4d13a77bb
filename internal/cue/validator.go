// Package cue validates instrument and answer documents against embedded CUE
// schemas before they are decoded into Go values.
package cue

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	yamlv3 "gopkg.in/yaml.v3"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Document kinds, each backed by one schema file and definition.
const (
	KindInstrument = "instrument"
	KindAnswers    = "answers"
)

// definitions maps a document kind to its schema definition.
var definitions = map[string]string{
	KindInstrument: "#Instrument",
	KindAnswers:    "#Answers",
}

// ValidationError represents a schema violation
type ValidationError struct {
	File     string
	Message  string
	Severity string // error, warning
}

func (e ValidationError) String() string {
	if e.File == "" {
		return e.Message
	}
	return e.File + ": " + e.Message
}

// Validator handles CUE validation
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// LoadSchemas compiles every embedded schema file. A schema that fails to
// compile is an error: the embedded files ship with the binary.
func (v *Validator) LoadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", entry.Name(), err)
		}

		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if err := inst.Err(); err != nil {
			return fmt.Errorf("compiling schema %s: %w", entry.Name(), err)
		}

		// instrument.cue -> instrument
		v.schemas[strings.TrimSuffix(entry.Name(), ".cue")] = inst
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas found")
	}
	return nil
}

// ValidateInstrument validates a decoded instrument document.
func (v *Validator) ValidateInstrument(data map[string]any) ([]ValidationError, error) {
	return v.validate(KindInstrument, data)
}

// ValidateAnswers validates a decoded answer document.
func (v *Validator) ValidateAnswers(data map[string]any) ([]ValidationError, error) {
	return v.validate(KindAnswers, data)
}

// ValidateFile parses YAML content and validates it as the given kind.
func (v *Validator) ValidateFile(file string, content []byte, kind string) ([]ValidationError, error) {
	var data map[string]any
	if err := yamlv3.Unmarshal(content, &data); err != nil {
		return []ValidationError{{File: file, Message: err.Error(), Severity: "error"}}, nil
	}
	if data == nil {
		return []ValidationError{{File: file, Message: "document is empty", Severity: "error"}}, nil
	}

	errs, err := v.validate(kind, data)
	for i := range errs {
		errs[i].File = file
	}
	return errs, err
}

func (v *Validator) validate(kind string, data map[string]any) ([]ValidationError, error) {
	def, ok := definitions[kind]
	if !ok {
		return nil, fmt.Errorf("unknown document kind: %s", kind)
	}
	schema, ok := v.schemas[kind]
	if !ok {
		return nil, fmt.Errorf("schema %q not loaded", kind)
	}

	dataValue := v.ctx.Encode(normalize(data))
	if err := dataValue.Err(); err != nil {
		return nil, fmt.Errorf("error encoding data: %w", err)
	}

	defValue := schema.LookupPath(cue.ParsePath(def))
	if !defValue.Exists() {
		return nil, fmt.Errorf("schema %q has no %s definition", kind, def)
	}

	unified := defValue.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return toValidationErrors(err), nil
	}
	// Concreteness catches missing required fields.
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return toValidationErrors(err), nil
	}
	return nil, nil
}

func toValidationErrors(err error) []ValidationError {
	return []ValidationError{{
		Message:  fmt.Sprintf("schema validation failed: %v", err),
		Severity: "error",
	}}
}

// normalize turns the map[any]any values yaml produces for integer-keyed
// mappings into string-keyed maps CUE can encode.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
