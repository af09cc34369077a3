// Package query turns the client supplied find-options document into gorm scopes.
//
// Every field and relation named by the client is checked against a per-entity
// Schema before it reaches SQL, so callers can only filter, sort, select and
// preload what the entity explicitly exposes.
package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/frahmantamala/internship-api/internal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Relation describes one preloadable association.
type Relation struct {
	// Association is the gorm field name passed to Preload.
	Association string
	// ForeignKey is the owner-side column of a belongs-to association. It is
	// kept in the selection whenever the relation is preloaded.
	ForeignKey string
}

// Schema lists what an entity exposes to find-options, keyed by JSON field name.
type Schema struct {
	Columns   map[string]string
	Relations map[string]Relation
}

type condition struct {
	column string
	value  interface{}
}

type ordering struct {
	column string
	desc   bool
}

// Options is a validated find-options document.
type Options struct {
	where     [][]condition
	order     []ordering
	skip      int
	take      int
	relations []Relation
	selects   []string
}

func invalid(format string, args ...interface{}) error {
	return internal.NewValidationError("invalid find-options: "+fmt.Sprintf(format, args...), internal.ErrCodeInvalidOptions)
}

// Parse decodes raw against schema. take is clamped to maxTake when maxTake > 0.
// An empty raw yields nil options, meaning "everything".
func Parse(raw string, schema Schema, maxTake int) (*Options, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil, invalid("%v", err)
	}

	opts := &Options{}
	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := top[key]
		var err error
		switch key {
		case "where":
			opts.where, err = parseWhere(value, schema)
		case "order":
			opts.order, err = parseOrder(value, schema)
		case "skip":
			opts.skip, err = parseCount("skip", value)
		case "take":
			opts.take, err = parseCount("take", value)
		case "relations":
			opts.relations, err = parseRelations(value, schema)
		case "select":
			opts.selects, err = parseSelect(value, schema)
		default:
			err = invalid("unsupported key %q", key)
		}
		if err != nil {
			return nil, err
		}
	}

	if maxTake > 0 && opts.take > maxTake {
		opts.take = maxTake
	}

	if len(opts.selects) > 0 {
		opts.selects = withRequiredColumns(opts.selects, opts.relations)
	}

	return opts, nil
}

func decodeNumbers(raw json.RawMessage, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func parseWhere(raw json.RawMessage, schema Schema) ([][]condition, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var groups []map[string]interface{}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := decodeNumbers(trimmed, &groups); err != nil {
			return nil, invalid("where: %v", err)
		}
	} else {
		var group map[string]interface{}
		if err := decodeNumbers(trimmed, &group); err != nil {
			return nil, invalid("where: %v", err)
		}
		groups = append(groups, group)
	}

	result := make([][]condition, 0, len(groups))
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		fields := make([]string, 0, len(group))
		for f := range group {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		conds := make([]condition, 0, len(fields))
		for _, f := range fields {
			column, ok := schema.Columns[f]
			if !ok {
				return nil, invalid("where: unknown field %q", f)
			}
			value, err := scalar(group[f])
			if err != nil {
				return nil, invalid("where.%s: %v", f, err)
			}
			conds = append(conds, condition{column: column, value: value})
		}
		result = append(result, conds)
	}
	return result, nil
}

func scalar(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil, string, bool:
		return t, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		return t.Float64()
	default:
		return nil, fmt.Errorf("only equality against scalar values is supported")
	}
}

// parseOrder walks tokens rather than decoding into a map so the client's
// key order becomes the sort precedence.
func parseOrder(raw json.RawMessage, schema Schema) ([]ordering, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, invalid("order: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, invalid("order must be an object")
	}

	var result []ordering
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, invalid("order: %v", err)
		}
		field, _ := keyTok.(string)
		column, ok := schema.Columns[field]
		if !ok {
			return nil, invalid("order: unknown field %q", field)
		}

		var dir interface{}
		if err := dec.Decode(&dir); err != nil {
			return nil, invalid("order.%s: %v", field, err)
		}
		desc, err := direction(dir)
		if err != nil {
			return nil, invalid("order.%s: %v", field, err)
		}
		result = append(result, ordering{column: column, desc: desc})
	}
	return result, nil
}

func direction(v interface{}) (bool, error) {
	switch t := v.(type) {
	case string:
		switch strings.ToUpper(t) {
		case "ASC":
			return false, nil
		case "DESC":
			return true, nil
		}
	case json.Number:
		switch t.String() {
		case "1":
			return false, nil
		case "-1":
			return true, nil
		}
	}
	return false, fmt.Errorf("direction must be ASC or DESC")
}

func parseCount(name string, raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, invalid("%s must be an integer", name)
	}
	if n < 0 {
		return 0, invalid("%s cannot be negative", name)
	}
	return n, nil
}

func parseRelations(raw json.RawMessage, schema Schema) ([]Relation, error) {
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, invalid("relations must be an array of names")
	}
	seen := make(map[string]bool, len(names))
	result := make([]Relation, 0, len(names))
	for _, name := range names {
		rel, ok := schema.Relations[name]
		if !ok {
			return nil, invalid("relations: unknown relation %q", name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, rel)
	}
	return result, nil
}

func parseSelect(raw json.RawMessage, schema Schema) ([]string, error) {
	var fields []string
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, invalid("select must be an array of field names")
	}
	result := make([]string, 0, len(fields))
	for _, f := range fields {
		column, ok := schema.Columns[f]
		if !ok {
			return nil, invalid("select: unknown field %q", f)
		}
		result = append(result, column)
	}
	return result, nil
}

func withRequiredColumns(selects []string, relations []Relation) []string {
	required := []string{"id"}
	for _, r := range relations {
		if r.ForeignKey != "" {
			required = append(required, r.ForeignKey)
		}
	}

	present := make(map[string]bool, len(selects))
	for _, s := range selects {
		present[s] = true
	}
	for _, r := range required {
		if !present[r] {
			selects = append(selects, r)
			present[r] = true
		}
	}
	return selects
}

// Take is the effective row limit, 0 meaning unlimited.
func (o *Options) Take() int {
	if o == nil {
		return 0
	}
	return o.take
}

// Filter applies the where conditions only. It is safe to combine with Count.
func (o *Options) Filter(db *gorm.DB) *gorm.DB {
	if o == nil || len(o.where) == 0 {
		return db
	}

	groups := make([]clause.Expression, 0, len(o.where))
	for _, conds := range o.where {
		exprs := make([]clause.Expression, 0, len(conds))
		for _, c := range conds {
			exprs = append(exprs, clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: c.column},
				Value:  c.value,
			})
		}
		groups = append(groups, clause.And(exprs...))
	}
	return db.Where(clause.Or(groups...))
}

// Shape applies column selection and relation preloading.
func (o *Options) Shape(db *gorm.DB) *gorm.DB {
	if o == nil {
		return db
	}
	if len(o.selects) > 0 {
		db = db.Select(o.selects)
	}
	for _, r := range o.relations {
		db = db.Preload(r.Association)
	}
	return db
}

// Paginate applies ordering, skip and take. Without an explicit order rows
// come back by primary key so pages are stable.
func (o *Options) Paginate(db *gorm.DB) *gorm.DB {
	if o == nil || len(o.order) == 0 {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}})
	}
	if o == nil {
		return db
	}
	for _, ord := range o.order {
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Table: clause.CurrentTable, Name: ord.column},
			Desc:   ord.desc,
		})
	}
	if o.skip > 0 {
		db = db.Offset(o.skip)
	}
	if o.take > 0 {
		db = db.Limit(o.take)
	}
	return db
}

// Apply is Filter, Shape and Paginate together.
func (o *Options) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(o.Filter, o.Shape, o.Paginate)
}
