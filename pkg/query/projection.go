// Package query builds parameterized SQL for list, search, and lookup
// endpoints. A ProjectionMap translates the field names callers use (API
// sort keys, filter names, struct fields) into qualified column references
// so handlers never construct column strings themselves.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap binds a table to the set of columns a domain exposes.
// Each projected column is registered under a field name; lookups by an
// unregistered name return the name untouched, so callers using raw column
// references are not broken by the mapping.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	byField map[string]string
	ordered []string
}

// NewProjectionMap starts a mapping for schema.table under the given alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		byField: map[string]string{},
	}
}

// Project registers column under field and adds it to the select list.
// Registration order fixes the column order in generated SELECTs.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	ref := p.alias + "." + column
	p.byField[field] = ref
	p.ordered = append(p.ordered, ref)
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the aliased FROM target, "schema.table alias".
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column resolves a field name to its qualified column reference.
// Unregistered names pass through unchanged.
func (p *ProjectionMap) Column(field string) string {
	if ref, ok := p.byField[field]; ok {
		return ref
	}
	return field
}

// Columns returns the select list as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}

// ColumnList returns the select list in registration order.
func (p *ProjectionMap) ColumnList() []string {
	return p.ordered
}
