// Package outputters selects the report formatter configured for a run.
package outputters

import (
	"fmt"
	"time"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/config"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/output"
)

// Formatter renders a scoring report.
type Formatter = output.Formatter

// FormatterFactory builds the formatter for a format name.
type FormatterFactory interface {
	CreateFormatter(format string) (Formatter, error)
}

// DefaultFormatterFactory builds the formatters of the output package from config.
type DefaultFormatterFactory struct {
	config *config.Config
}

// CreateFormatter returns the formatter for format.
func (f *DefaultFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	switch format {
	case "console":
		return output.NewConsoleFormatter(f.config.Quiet, f.config.Verbose), nil
	case "json":
		return output.NewJSONFormatter(f.config.Quiet, true, f.config.Output), nil
	case "markdown":
		return output.NewMarkdownFormatter(f.config.Quiet, f.config.Verbose, f.config.Output), nil
	case "xlsx":
		if f.config.Output == "" {
			return nil, fmt.Errorf("format xlsx requires an output file")
		}
		return output.NewXLSXFormatter(f.config.Output), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
}

// NewOutputter creates a new Outputter
func NewOutputter(cfg *config.Config) *Outputter {
	return NewOutputterWithFactory(cfg, &DefaultFormatterFactory{config: cfg})
}

// NewOutputterWithFactory creates an Outputter with a custom factory.
func NewOutputterWithFactory(cfg *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{config: cfg, factory: factory}
}

// Format renders report with the named format; an empty name means the
// configured one.
func (o *Outputter) Format(report *output.Report, format string) error {
	if report.StartTime.IsZero() {
		report.StartTime = time.Now()
	}
	if format == "" {
		format = o.config.Format
	}

	formatter, err := o.factory.CreateFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(report)
}
