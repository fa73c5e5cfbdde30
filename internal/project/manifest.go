package project

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/pelletier/go-toml/v2"
)

const ManifestFilename = "Sconce.toml"

// Manifest is the declared configuration input for a build: the source root,
// project-wide include directories, the programs to build and any header
// dependencies to fetch.
type Manifest struct {
	Project      ProjectSection    `toml:"project"`
	Programs     []Program         `toml:"program"`
	Dependencies map[string]string `toml:"dependencies"`
}

// ProjectSection defines the [project] section.
type ProjectSection struct {
	Name        string   `toml:"name"`
	SourceDir   string   `toml:"source-directory"`
	IncludeDirs []string `toml:"include-directories"`
}

// mergeSection merges the fields of the src struct (or the keys of the src
// map) into dst.
func mergeSection(dst, src any) error {
	dstVal := reflect.ValueOf(dst)
	if dstVal.Kind() != reflect.Pointer {
		return fmt.Errorf("dst must be a pointer")
	}
	dstElem := dstVal.Elem()

	srcVal := reflect.ValueOf(src)
	if srcVal.Kind() == reflect.Pointer {
		srcVal = srcVal.Elem()
	}
	if dstElem.Type() != srcVal.Type() {
		return fmt.Errorf("dst and src must be of the same type")
	}

	if srcVal.Kind() == reflect.Map {
		if !srcVal.IsNil() {
			if dstElem.IsNil() {
				dstElem.Set(reflect.MakeMap(dstElem.Type()))
			}
			for _, key := range srcVal.MapKeys() {
				dstElem.SetMapIndex(key, srcVal.MapIndex(key))
			}
		}
		return nil
	}
	if srcVal.Kind() != reflect.Struct {
		return fmt.Errorf("src must be a struct or a map")
	}

	for i := range srcVal.NumField() {
		srcField := srcVal.Field(i)
		dstField := dstElem.Field(i)

		if !dstField.CanSet() {
			continue
		}

		switch dstField.Kind() {
		case reflect.Slice:
			if !srcField.IsNil() {
				dstField.Set(reflect.AppendSlice(dstField, srcField))
			}
		case reflect.Map:
			if !srcField.IsNil() {
				if dstField.IsNil() {
					dstField.Set(reflect.MakeMap(dstField.Type()))
				}
				for _, key := range srcField.MapKeys() {
					dstField.SetMapIndex(key, srcField.MapIndex(key))
				}
			}
		case reflect.Bool:
			dstField.SetBool(dstField.Bool() || srcField.Bool())
		default:
			if !srcField.IsZero() {
				dstField.Set(srcField)
			}
		}
	}

	return nil
}

func mustMarshal(v any) string {
	b, err := toml.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// unmarshalSection is a helper to parse sections without conditional logic.
// The data is re-marshaled as a single-key document so that both tables and
// arrays of tables round-trip.
func unmarshalSection(raw map[string]any, name string, dst any) error {
	data, ok := raw[name]
	if !ok {
		return nil
	}
	doc := mustMarshal(map[string]any{name: data})
	if err := toml.Unmarshal([]byte(doc), dstWrapper(name, dst)); err != nil {
		return fmt.Errorf("failed to parse [%s] section: %w", name, err)
	}
	return nil
}

// dstWrapper builds an anonymous single-field struct pointer around dst so
// a re-marshaled {name: data} document can be decoded into it.
func dstWrapper(name string, dst any) any {
	field := reflect.StructField{
		Name: "Section",
		Type: reflect.TypeOf(dst),
		Tag:  reflect.StructTag(`toml:"` + name + `"`),
	}
	wrapper := reflect.New(reflect.StructOf([]reflect.StructField{field}))
	wrapper.Elem().Field(0).Set(reflect.ValueOf(dst))
	return wrapper.Interface()
}

// unmarshalConditionalSection parses a section whose sub-tables may be keyed
// by expressions ([project."target_os == 'linux'"]); matching sub-tables are
// merged into the base section in declaration-independent order.
func unmarshalConditionalSection[T any](raw map[string]any, name string, dst *T, env ConfigEnv) error {
	sectionData, ok := raw[name]
	if !ok {
		return nil
	}

	sectionMap, ok := sectionData.(map[string]any)
	if !ok {
		return fmt.Errorf("invalid [%s] section format: expected a table", name)
	}

	baseFields := make(map[string]any)
	conditionalFields := make(map[string]map[string]any)

	for key, val := range sectionMap {
		if subMap, ok := val.(map[string]any); ok {
			if _, err := expr.Compile(key, expr.Env(env)); err == nil {
				conditionalFields[key] = subMap
				continue
			}
		}
		baseFields[key] = val
	}

	if len(baseFields) > 0 {
		if err := toml.Unmarshal([]byte(mustMarshal(baseFields)), dst); err != nil {
			return fmt.Errorf("failed to parse base [%s] section: %w", name, err)
		}
	}

	for expression, condMap := range conditionalFields {
		program, err := expr.Compile(expression, expr.Env(env))
		if err != nil {
			return fmt.Errorf("failed to compile expression for [%s.%q]: %w", name, expression, err)
		}

		result, err := expr.Run(program, env)
		if err != nil {
			return fmt.Errorf("failed to run expression for [%s.%q]: %w", name, expression, err)
		}

		if matched, ok := result.(bool); !ok || !matched {
			continue
		}

		var condSection T
		if err := toml.Unmarshal([]byte(mustMarshal(condMap)), &condSection); err != nil {
			return fmt.Errorf("failed to parse conditional section [%s.%q]: %w", name, expression, err)
		}
		if err := mergeSection(dst, condSection); err != nil {
			return fmt.Errorf("failed to merge conditional section [%s.%q]: %w", name, expression, err)
		}
	}

	return nil
}

var exprRegex = regexp.MustCompile(`\{\{(.+?)\}\}`)

// evaluateString finds and evaluates all {{...}} expressions in a string
func evaluateString(s string, env ConfigEnv) (string, error) {
	matches := exprRegex.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	var builder strings.Builder
	lastIndex := 0

	for _, m := range matches {
		builder.WriteString(s[lastIndex:m[0]])

		expression := strings.TrimSpace(s[m[2]:m[3]])
		program, err := expr.Compile(expression, expr.Env(env))
		if err != nil {
			return "", fmt.Errorf("failed to compile expression %q: %w", expression, err)
		}

		result, err := expr.Run(program, env)
		if err != nil {
			return "", fmt.Errorf("failed to run expression %q: %w", expression, err)
		}

		builder.WriteString(fmt.Sprintf("%v", result))
		lastIndex = m[1]
	}

	builder.WriteString(s[lastIndex:])

	return builder.String(), nil
}

// processExpressions recursively walks the parsed TOML data and evaluates
// expressions in strings
func processExpressions(data any, env ConfigEnv) (any, error) {
	switch v := data.(type) {
	case map[string]any:
		for key, val := range v {
			processed, err := processExpressions(val, env)
			if err != nil {
				return nil, err
			}
			v[key] = processed
		}
		return v, nil
	case []any:
		for i, item := range v {
			processed, err := processExpressions(item, env)
			if err != nil {
				return nil, err
			}
			v[i] = processed
		}
		return v, nil
	case string:
		return evaluateString(v, env)
	default:
		return data, nil
	}
}

// ParseManifest decodes a manifest document, evaluating {{...}} expressions
// and conditional sub-tables against env.
func ParseManifest(rdr io.Reader, env ConfigEnv) (*Manifest, error) {
	var raw map[string]any
	dec := toml.NewDecoder(rdr)
	if err := dec.Decode(&raw); err != nil {
		if derr, ok := err.(*toml.DecodeError); ok {
			return nil, errors.New(derr.String())
		}
		return nil, err
	}

	processed, err := processExpressions(raw, env)
	if err != nil {
		return nil, fmt.Errorf("error processing expressions in manifest: %w", err)
	}
	raw = processed.(map[string]any)

	m := new(Manifest)
	if err := unmarshalConditionalSection(raw, "project", &m.Project, env); err != nil {
		return nil, err
	}
	if err := unmarshalConditionalSection(raw, "dependencies", &m.Dependencies, env); err != nil {
		return nil, err
	}
	if err := unmarshalSection(raw, "program", &m.Programs); err != nil {
		return nil, err
	}

	if m.Project.SourceDir == "" {
		m.Project.SourceDir = "source"
	}
	for i := range m.Programs {
		p := &m.Programs[i]
		if p.Name == "" {
			return nil, fmt.Errorf("program %d has no name", i)
		}
		if len(p.Sources) == 0 {
			return nil, fmt.Errorf("program %q has no sources", p.Name)
		}
		// omitted fields become empty sequences, never nil surprises later
		if p.Defines == nil {
			p.Defines = []string{}
		}
		if p.Libraries == nil {
			p.Libraries = []string{}
		}
		if p.IncludeDirs == nil {
			p.IncludeDirs = []string{}
		}
	}

	return m, nil
}

// LoadManifest parses and validates a manifest from a filepath.
func LoadManifest(path string, env ConfigEnv) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseManifest(bufio.NewReader(f), env)
}
