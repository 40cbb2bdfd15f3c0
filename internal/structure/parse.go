// Package structure parses and validates the structure file of a sealcheck
// test case.
//
// A structure file declares the modules of a small project, their
// dependency edges and the file to resolve:
//
//	{
//	  "modules": [
//	    {"name": "A"},
//	    {"name": "B", "dependsOn": ["A"]}
//	  ],
//	  "fileToResolve": {"module": "B", "file": "f.go"},
//	  "fails": false
//	}
//
// The same document may be written as YAML or CUE. Field presence and types
// are checked before any cross reference, so a document that is both
// incomplete and inconsistent reports the missing field.
package structure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sealcheck/internal/failure"
)

// Format identifies the encoding of a structure document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFor picks the format from a file extension. Unknown extensions are
// read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".cue":
		return FormatCUE
	default:
		return FormatJSON
	}
}

// Load reads and parses a structure file.
func Load(path string) (*TestStructure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read structure file: %w", err)
	}
	return Parse(data, FormatFor(path))
}

// Parse decodes and validates a structure document.
func Parse(data []byte, format Format) (*TestStructure, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}

	st, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}

	if err := validateReferences(st); err != nil {
		return nil, err
	}
	return st, nil
}

// decode turns raw bytes into a generic document tree.
func decode(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, failure.Malformed("", "failed to parse YAML: %v", err)
		}
	case FormatCUE:
		v := cuecontext.New().CompileBytes(data, cue.Filename("structure.cue"))
		if err := v.Err(); err != nil {
			return nil, failure.Malformed("", "failed to compile CUE: %v", err)
		}
		if err := v.Decode(&doc); err != nil {
			return nil, failure.Malformed("", "failed to decode CUE: %v", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, failure.Malformed("", "failed to parse JSON: %v", err)
		}
		if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
			return nil, failure.Malformed("", "unexpected data after JSON document")
		}
	}
	return doc, nil
}

var topLevelFields = map[string]bool{
	"modules":       true,
	"fileToResolve": true,
	"fails":         true,
}

// fromDocument checks field presence and types and builds the structure.
func fromDocument(doc any) (*TestStructure, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, failure.Malformed("", "structure must be an object, got %s", typeName(doc))
	}

	rawModules, ok := root["modules"]
	if !ok {
		return nil, failure.Malformed("modules", "missing required field")
	}
	list, ok := rawModules.([]any)
	if !ok {
		return nil, failure.Malformed("modules", "must be an array, got %s", typeName(rawModules))
	}
	if len(list) == 0 {
		return nil, failure.Malformed("modules", "must declare at least one module")
	}

	st := &TestStructure{Modules: make([]ModuleSpec, 0, len(list))}
	for i, raw := range list {
		m, err := parseModule(i, raw)
		if err != nil {
			return nil, err
		}
		st.Modules = append(st.Modules, m)
	}

	rawFile, ok := root["fileToResolve"]
	if !ok {
		return nil, failure.Malformed("fileToResolve", "missing required field")
	}
	ref, err := parseFileRef(rawFile)
	if err != nil {
		return nil, err
	}
	st.FileToResolve = ref

	if rawFails, ok := root["fails"]; ok {
		fails, ok := rawFails.(bool)
		if !ok {
			return nil, failure.Malformed("fails", "must be a boolean, got %s", typeName(rawFails))
		}
		st.Fails = fails
	}

	for _, key := range slices.Sorted(maps.Keys(root)) {
		if !topLevelFields[key] {
			return nil, failure.Malformed(key, "unknown field")
		}
	}

	return st, nil
}

func parseModule(i int, raw any) (ModuleSpec, error) {
	field := fmt.Sprintf("modules[%d]", i)
	obj, ok := raw.(map[string]any)
	if !ok {
		return ModuleSpec{}, failure.Malformed(field, "must be an object, got %s", typeName(raw))
	}

	name, err := requiredString(obj, field, "name")
	if err != nil {
		return ModuleSpec{}, err
	}
	m := ModuleSpec{Name: name}

	rawDeps, ok := obj["dependsOn"]
	if ok && rawDeps != nil {
		deps, ok := rawDeps.([]any)
		if !ok {
			return ModuleSpec{}, failure.Malformed(field+".dependsOn", "must be an array, got %s", typeName(rawDeps))
		}
		seen := make(map[string]bool, len(deps))
		for j, d := range deps {
			dep, ok := d.(string)
			if !ok || dep == "" {
				return ModuleSpec{}, failure.Malformed(fmt.Sprintf("%s.dependsOn[%d]", field, j), "must be a non-empty string")
			}
			if seen[dep] {
				continue
			}
			seen[dep] = true
			m.DependsOn = append(m.DependsOn, dep)
		}
	}

	for _, key := range slices.Sorted(maps.Keys(obj)) {
		if key != "name" && key != "dependsOn" {
			return ModuleSpec{}, failure.Malformed(field+"."+key, "unknown field")
		}
	}
	return m, nil
}

func parseFileRef(raw any) (FileRef, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return FileRef{}, failure.Malformed("fileToResolve", "must be an object, got %s", typeName(raw))
	}
	module, err := requiredString(obj, "fileToResolve", "module")
	if err != nil {
		return FileRef{}, err
	}
	file, err := requiredString(obj, "fileToResolve", "file")
	if err != nil {
		return FileRef{}, err
	}
	return FileRef{ModuleName: module, RelativePath: filepath.ToSlash(file)}, nil
}

func requiredString(obj map[string]any, parent, key string) (string, error) {
	field := parent + "." + key
	raw, ok := obj[key]
	if !ok {
		return "", failure.Malformed(field, "missing required field")
	}
	s, ok := raw.(string)
	if !ok {
		return "", failure.Malformed(field, "must be a string, got %s", typeName(raw))
	}
	if s == "" {
		return "", failure.Malformed(field, "must not be empty")
	}
	return s, nil
}

// validateReferences checks names against each other. It runs only after
// every required field has been seen.
func validateReferences(st *TestStructure) error {
	names := make(map[string]bool, len(st.Modules))
	for _, m := range st.Modules {
		if names[m.Name] {
			return failure.Duplicate(m.Name)
		}
		names[m.Name] = true
	}

	for i, m := range st.Modules {
		for j, dep := range m.DependsOn {
			if dep == m.Name {
				return failure.Malformed(fmt.Sprintf("modules[%d].dependsOn[%d]", i, j), "module %q depends on itself", m.Name)
			}
			if !names[dep] {
				return failure.UnknownDep(m.Name, dep)
			}
		}
	}

	if _, ok := st.Module(st.FileToResolve.ModuleName); !ok {
		return failure.NoModule(st.FileToResolve.ModuleName)
	}
	return nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, uint64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
