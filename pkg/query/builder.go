package query

import (
	"fmt"
	"reflect"
	"strings"
)

// SortField names a projected field and a direction for ORDER BY.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields reads a comma-separated sort expression such as
// "name,-createdAt" into sort fields, where a leading "-" marks a
// descending field. Empty segments are skipped; empty input yields nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for _, segment := range strings.Split(s, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		field, descending := strings.CutPrefix(segment, "-")
		fields = append(fields, SortField{Field: field, Descending: descending})
	}

	return fields
}

// Builder accumulates WHERE conditions and ordering against a projection,
// numbering parameters as conditions are added. The zero ordering falls back
// to the default sort supplied at construction.
type Builder struct {
	projection  *ProjectionMap
	where       []string
	args        []any
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder over projection with an optional default sort.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// bind appends v to the argument list and returns its placeholder.
func (b *Builder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// WhereEquals adds an equality condition. Nil values are skipped.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	b.where = append(b.where, fmt.Sprintf("%s = %s", col, b.bind(value)))
	return b
}

// WhereContains adds a case-insensitive substring condition.
// Nil and empty values are skipped.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	col := b.projection.Column(field)
	b.where = append(b.where, fmt.Sprintf("%s ILIKE %s", col, b.bind("%"+*value+"%")))
	return b
}

// WhereIn adds a set-membership condition. Empty slices are skipped.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}
	col := b.projection.Column(field)
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = b.bind(v)
	}
	b.where = append(b.where, fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ", ")))
	return b
}

// WhereNullable adds an equality condition, or IS NULL when value is nil.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	col := b.projection.Column(field)
	if isNil(value) {
		b.where = append(b.where, col+" IS NULL")
	} else {
		b.where = append(b.where, fmt.Sprintf("%s = %s", col, b.bind(value)))
	}
	return b
}

// WhereSearch adds one grouped OR condition matching the search term against
// every listed field. Nil or empty search terms are skipped.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	clauses := make([]string, len(fields))
	for i, field := range fields {
		col := b.projection.Column(field)
		clauses[i] = fmt.Sprintf("%s ILIKE %s", col, b.bind(pattern))
	}

	b.where = append(b.where, "("+strings.Join(clauses, " OR ")+")")
	return b
}

// OrderByFields replaces the default sort with an explicit ordering.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// Build returns the full SELECT with accumulated conditions and ordering.
func (b *Builder) Build() (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		b.projection.Columns(),
		b.projection.Table(),
		b.whereSQL(),
		b.orderSQL(),
	)
	return sql, b.args
}

// BuildCount returns a COUNT(*) over the accumulated conditions.
func (b *Builder) BuildCount() (string, []any) {
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.Table(), b.whereSQL())
	return sql, b.args
}

// BuildPage returns the SELECT for one page of results. Pages are 1-based.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.projection.Columns(),
		b.projection.Table(),
		b.whereSQL(),
		b.orderSQL(),
		pageSize,
		(page-1)*pageSize,
	)
	return sql, b.args
}

// BuildSingle returns a lookup by identity field, ignoring accumulated
// conditions.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.Table(),
		b.projection.Column(idField),
	)
	return sql, []any{id}
}

// BuildSingleOrNull returns the first row matching the accumulated
// conditions.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s LIMIT 1",
		b.projection.Columns(),
		b.projection.Table(),
		b.whereSQL(),
	)
	return sql, b.args
}

func (b *Builder) whereSQL() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

func (b *Builder) orderSQL() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = fmt.Sprintf("%s %s", b.projection.Column(f.Field), dir)
	}

	return " ORDER BY " + strings.Join(parts, ", ")
}

// isNil reports whether value is nil directly or through a nilable kind,
// so typed nil pointers in filter structs are skipped like untyped nils.
func isNil(value any) bool {
	if value == nil {
		return true
	}

	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}

	return false
}
