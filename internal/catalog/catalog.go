// Package catalog loads the static report definitions.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/duecal/internal/common"
	"github.com/Veraticus/duecal/internal/model"
	"github.com/go-playground/validator/v10"
)

// Catalog column names.
const (
	ColumnName     = "Report Name"
	ColumnType     = "Report Type"
	ColumnPeriod   = "Report Period"
	ColumnDeadline = "Deadline"
	ColumnPIC      = "PIC"
)

// Separator is the field delimiter of catalog files.
const Separator = ';'

// ErrInvalidDefinition is returned for catalog rows that fail validation.
var ErrInvalidDefinition = errors.New("invalid report definition")

// Catalog is an ordered, read-only set of report definitions.
type Catalog struct {
	byName      map[string]int
	definitions []model.ReportDefinition
}

// New builds a catalog from definitions, validating each one.
func New(defs []model.ReportDefinition) (*Catalog, error) {
	validate := validator.New()
	c := &Catalog{byName: make(map[string]int, len(defs))}

	for i, def := range defs {
		def.Name = strings.TrimSpace(def.Name)
		if err := validate.Struct(def); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				return nil, fmt.Errorf("%w at index %d: field %s failed %q",
					ErrInvalidDefinition, i, fieldErrs[0].Field(), fieldErrs[0].Tag())
			}
			return nil, fmt.Errorf("%w at index %d: %v", ErrInvalidDefinition, i, err)
		}
		if _, dup := c.byName[def.Name]; dup {
			return nil, fmt.Errorf("%w: %q", common.ErrDuplicateEntry, def.Name)
		}
		c.byName[def.Name] = len(c.definitions)
		c.definitions = append(c.definitions, def)
	}

	return c, nil
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCatalogUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

// Read parses a semicolon separated catalog with a header row. Columns are
// matched by name; PIC is optional.
func Read(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.Comma = Separator
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", common.ErrCatalogUnavailable, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{ColumnName, ColumnType, ColumnPeriod, ColumnDeadline} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", common.ErrCatalogUnavailable, required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var defs []model.ReportDefinition
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrCatalogUnavailable, err)
		}
		if isBlank(record) {
			continue
		}

		defs = append(defs, model.ReportDefinition{
			Name:             field(record, ColumnName),
			Type:             model.ReportType(field(record, ColumnType)),
			Period:           field(record, ColumnPeriod),
			DeadlineRule:     field(record, ColumnDeadline),
			ResponsibleParty: field(record, ColumnPIC),
		})
	}

	return New(defs)
}

// Definitions returns every definition in file order.
func (c *Catalog) Definitions() []model.ReportDefinition {
	out := make([]model.ReportDefinition, len(c.definitions))
	copy(out, c.definitions)
	return out
}

// Lookup finds a definition by name.
func (c *Catalog) Lookup(name string) (model.ReportDefinition, bool) {
	i, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return model.ReportDefinition{}, false
	}
	return c.definitions[i], true
}

// Incidental returns the names of incidental reports, the choices offered by
// the add-report form.
func (c *Catalog) Incidental() []string {
	var names []string
	for _, def := range c.definitions {
		if def.Type == model.ReportTypeIncidental {
			names = append(names, def.Name)
		}
	}
	return names
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.definitions)
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
