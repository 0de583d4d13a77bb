// Package catalog holds the process-wide, read-only instrument catalog:
// the embedded seed instruments plus any instrument documents found on disk.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/cue"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/discovery"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

//go:embed seeds/*.instrument.yaml
var seedFS embed.FS

var (
	// ErrNotFound is returned by Get for an unknown instrument code.
	ErrNotFound = errors.New("instrument not found")
	// ErrDuplicateCode fails a load that sees the same code twice.
	ErrDuplicateCode = errors.New("duplicate instrument code")
)

// Catalog is immutable after construction and safe for concurrent readers.
type Catalog struct {
	byCode map[string]*instrument.Instrument
	codes  []string
}

// New builds a catalog from already validated instruments.
func New(insts ...*instrument.Instrument) (*Catalog, error) {
	c := &Catalog{byCode: make(map[string]*instrument.Instrument, len(insts))}
	for _, inst := range insts {
		if _, dup := c.byCode[inst.Code]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, inst.Code)
		}
		c.byCode[inst.Code] = inst
		c.codes = append(c.codes, inst.Code)
	}
	sort.Strings(c.codes)
	return c, nil
}

// Get returns the instrument with the given code. Callers must not modify it.
func (c *Catalog) Get(code string) (*instrument.Instrument, error) {
	inst, ok := c.byCode[strings.TrimSpace(code)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, code)
	}
	return inst, nil
}

// List returns every instrument in code order.
func (c *Catalog) List() []*instrument.Instrument {
	out := make([]*instrument.Instrument, 0, len(c.codes))
	for _, code := range c.codes {
		out = append(out, c.byCode[code])
	}
	return out
}

// ListFamily returns the instruments of one family in code order.
func (c *Catalog) ListFamily(family types.Family) []*instrument.Instrument {
	var out []*instrument.Instrument
	for _, inst := range c.List() {
		if inst.Family == family {
			out = append(out, inst)
		}
	}
	return out
}

// Len returns the number of instruments.
func (c *Catalog) Len() int { return len(c.codes) }

// Loader decodes and validates instrument documents.
type Loader struct {
	validator *cue.Validator
	logger    *zap.Logger
}

// NewLoader compiles the embedded schemas. A nil logger discards output.
func NewLoader(logger *zap.Logger) (*Loader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := cue.NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return nil, fmt.Errorf("error loading schemas: %w", err)
	}
	return &Loader{validator: v, logger: logger}, nil
}

// Load builds the catalog from the embedded seeds plus every
// *.instrument.yaml under dir. An empty dir loads the seeds only.
func Load(dir string, logger *zap.Logger) (*Catalog, error) {
	l, err := NewLoader(logger)
	if err != nil {
		return nil, err
	}

	insts, err := l.Seeds()
	if err != nil {
		return nil, err
	}
	if dir != "" {
		extra, err := l.Dir(dir)
		if err != nil {
			return nil, err
		}
		insts = append(insts, extra...)
	}

	c, err := New(insts...)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("catalog loaded", zap.Int("instruments", c.Len()), zap.String("dir", dir))
	return c, nil
}

// Seeds decodes the embedded seed instruments.
func (l *Loader) Seeds() ([]*instrument.Instrument, error) {
	names, err := fs.Glob(seedFS, "seeds/*.instrument.yaml")
	if err != nil {
		return nil, fmt.Errorf("error listing seeds: %w", err)
	}
	sort.Strings(names)

	insts := make([]*instrument.Instrument, 0, len(names))
	for _, name := range names {
		data, err := seedFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("error reading seed %s: %w", name, err)
		}
		inst, err := l.Decode(path.Base(name), data)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
	}
	return insts, nil
}

// Dir decodes every instrument document under dir.
func (l *Loader) Dir(dir string) ([]*instrument.Instrument, error) {
	files, err := discovery.NewFileDiscovery(dir, false).DiscoverType(discovery.FileTypeInstrument)
	if err != nil {
		return nil, fmt.Errorf("error discovering instruments in %s: %w", dir, err)
	}

	insts := make([]*instrument.Instrument, 0, len(files))
	for _, f := range files {
		inst, err := l.Decode(f.RelPath, f.Contents)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
	}
	return insts, nil
}

// Decode validates data against the instrument schema, decodes it and runs
// the structural checks. Warnings are logged; the first fatal finding is
// returned as a *instrument.ReferenceError.
func (l *Loader) Decode(name string, data []byte) (*instrument.Instrument, error) {
	verrs, err := l.validator.ValidateFile(name, data, cue.KindInstrument)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("%s: schema validation failed: %s", name, strings.Join(msgs, "; "))
	}

	var inst instrument.Instrument
	if err := yaml.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("%s: error decoding instrument: %w", name, err)
	}

	for _, finding := range instrument.Validate(&inst) {
		if finding.Severity == types.SeverityWarning {
			l.logger.Warn("instrument reference data",
				zap.String("file", name),
				zap.String("instrument", inst.Code),
				zap.String("subject", finding.Subject),
				zap.String("message", finding.Message))
		}
	}
	if err := inst.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &inst, nil
}
