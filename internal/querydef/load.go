package querydef

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// Load reads a definition file, choosing the format by extension.
func Load(path string) (*Definition, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".cue":
		return LoadCUE(path)
	default:
		return nil, &DefinitionError{
			Code:    ErrCodeFileType,
			Message: fmt.Sprintf("unsupported definition file %q: expected .yaml, .yml or .cue", path),
		}
	}
}

// LoadYAML reads and parses a YAML definition file.
func LoadYAML(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DefinitionError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("failed to read definition file: %v", err)}
	}
	def, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	def.Source = path
	return def, nil
}

// ParseYAML parses a YAML definition. Unknown fields are rejected so typos
// like "order:" for "sort:" fail loudly. An empty document yields an empty
// definition, which Validate then rejects for its missing table.
func ParseYAML(data []byte) (*Definition, error) {
	var def Definition
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return nil, &DefinitionError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}
	return &def, nil
}

// LoadCUE reads and parses a CUE definition file.
func LoadCUE(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DefinitionError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("failed to read definition file: %v", err)}
	}
	def, err := ParseCUE(path, data)
	if err != nil {
		return nil, err
	}
	def.Source = path
	return def, nil
}

// ParseCUE parses a CUE definition. name is used for error positions.
//
// The file holds the definition fields at top level:
//
//	table: "users"
//	where: [{field: "status", op: "eq", value: 1}]
//	sort: [{field: "created_at", dir: "desc"}]
//	limit: 10
//
// Fields are read through the CUE SDK directly, so constraints and
// references inside the file are resolved before decoding.
func ParseCUE(name string, data []byte) (*Definition, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err, "")
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, "")
	}

	if err := checkFields(v, "", "table", "where", "sort", "limit", "offset", "backend"); err != nil {
		return nil, err
	}

	def := &Definition{Pos: v.Pos()}
	var err error

	if def.Table, err = lookupString(v, "", "table"); err != nil {
		return nil, err
	}
	if def.Limit, err = lookupInt(v, "", "limit"); err != nil {
		return nil, err
	}
	if def.Offset, err = lookupInt(v, "", "offset"); err != nil {
		return nil, err
	}
	if def.Where, err = parseWhere(v); err != nil {
		return nil, err
	}
	if def.Sort, err = parseSort(v); err != nil {
		return nil, err
	}
	if def.BackendConfig, err = parseBackend(v); err != nil {
		return nil, err
	}

	return def, nil
}

func parseWhere(v cue.Value) ([]Condition, error) {
	whereVal := v.LookupPath(cue.ParsePath("where"))
	if !whereVal.Exists() {
		return nil, nil
	}

	iter, err := whereVal.List()
	if err != nil {
		return nil, formatCUEError(err, "where")
	}

	var conds []Condition
	for i := 0; iter.Next(); i++ {
		elem := iter.Value()
		field := fmt.Sprintf("where[%d]", i)
		if err := checkFields(elem, field, "field", "op", "value"); err != nil {
			return nil, err
		}

		c := Condition{Pos: elem.Pos()}
		if c.Field, err = lookupString(elem, field, "field"); err != nil {
			return nil, err
		}
		if c.Op, err = lookupString(elem, field, "op"); err != nil {
			return nil, err
		}
		if valueVal := elem.LookupPath(cue.ParsePath("value")); valueVal.Exists() {
			if c.Value, err = decodeScalar(valueVal, field+".value"); err != nil {
				return nil, err
			}
		}
		conds = append(conds, c)
	}
	return conds, nil
}

func parseSort(v cue.Value) ([]SortTerm, error) {
	sortVal := v.LookupPath(cue.ParsePath("sort"))
	if !sortVal.Exists() {
		return nil, nil
	}

	iter, err := sortVal.List()
	if err != nil {
		return nil, formatCUEError(err, "sort")
	}

	var terms []SortTerm
	for i := 0; iter.Next(); i++ {
		elem := iter.Value()
		field := fmt.Sprintf("sort[%d]", i)
		if err := checkFields(elem, field, "field", "dir"); err != nil {
			return nil, err
		}

		s := SortTerm{Pos: elem.Pos()}
		if s.Field, err = lookupString(elem, field, "field"); err != nil {
			return nil, err
		}
		if s.Dir, err = lookupString(elem, field, "dir"); err != nil {
			return nil, err
		}
		terms = append(terms, s)
	}
	return terms, nil
}

func parseBackend(v cue.Value) (BackendConfig, error) {
	var cfg BackendConfig

	bv := v.LookupPath(cue.ParsePath("backend"))
	if !bv.Exists() {
		return cfg, nil
	}
	cfg.Pos = bv.Pos()
	if err := checkFields(bv, "backend", "name", "mysql", "qdrant"); err != nil {
		return cfg, err
	}

	var err error
	if cfg.Name, err = lookupString(bv, "backend", "name"); err != nil {
		return cfg, err
	}

	if mv := bv.LookupPath(cue.ParsePath("mysql")); mv.Exists() {
		if err := checkFields(mv, "backend.mysql", "upsert", "ignore"); err != nil {
			return cfg, err
		}
		if cfg.MySQL.Upsert, err = lookupBool(mv, "backend.mysql", "upsert"); err != nil {
			return cfg, err
		}
		if cfg.MySQL.Ignore, err = lookupBool(mv, "backend.mysql", "ignore"); err != nil {
			return cfg, err
		}
	}

	if qv := bv.LookupPath(cue.ParsePath("qdrant")); qv.Exists() {
		if err := checkFields(qv, "backend.qdrant", "hnsw_ef", "score_threshold", "with_vector"); err != nil {
			return cfg, err
		}
		if cfg.Qdrant.HNSWEf, err = lookupInt(qv, "backend.qdrant", "hnsw_ef"); err != nil {
			return cfg, err
		}
		if cfg.Qdrant.ScoreThreshold, err = lookupFloat(qv, "backend.qdrant", "score_threshold"); err != nil {
			return cfg, err
		}
		if cfg.Qdrant.WithVector, err = lookupBool(qv, "backend.qdrant", "with_vector"); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// checkFields rejects labels outside known, mirroring yaml KnownFields.
func checkFields(v cue.Value, path string, known ...string) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err, path)
	}
	for iter.Next() {
		label := iter.Selector().String()
		found := false
		for _, k := range known {
			if k == label {
				found = true
				break
			}
		}
		if !found {
			return &DefinitionError{
				Code:    ErrCodeParseFailed,
				Field:   joinPath(path, label),
				Message: fmt.Sprintf("unknown field %q", label),
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

func lookupString(v cue.Value, path, name string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err, joinPath(path, name))
	}
	return s, nil
}

func lookupInt(v cue.Value, path, name string) (int, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return 0, nil
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, formatCUEError(err, joinPath(path, name))
	}
	return int(n), nil
}

func lookupFloat(v cue.Value, path, name string) (float64, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return 0, nil
	}
	f, err := fv.Float64()
	if err != nil {
		return 0, formatCUEError(err, joinPath(path, name))
	}
	return f, nil
}

func lookupBool(v cue.Value, path, name string) (bool, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return false, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return false, formatCUEError(err, joinPath(path, name))
	}
	return b, nil
}

// decodeScalar returns the Go value of a concrete CUE scalar. Structs and
// lists are returned as-is for Validate to reject with a type error.
func decodeScalar(v cue.Value, field string) (any, error) {
	var (
		out any
		err error
	)
	switch v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.BoolKind:
		out, err = v.Bool()
	case cue.IntKind:
		out, err = v.Int64()
	case cue.FloatKind:
		out, err = v.Float64()
	case cue.StringKind:
		out, err = v.String()
	default:
		return unsupportedValue{kind: v.Kind()}, nil
	}
	if err != nil {
		return nil, formatCUEError(err, field)
	}
	return out, nil
}

// unsupportedValue stands in for CUE values that have no scalar form.
type unsupportedValue struct {
	kind cue.Kind
}

func (u unsupportedValue) String() string { return u.kind.String() }

func joinPath(path, label string) string {
	if path == "" {
		return label
	}
	return path + "." + label
}
