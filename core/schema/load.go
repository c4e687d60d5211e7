/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package schema

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ErrInvalidNode is returned when a schema file describes a node that is
// neither a leaf nor a group.
var ErrInvalidNode = errors.New("invalid column node")

// reservedChars may not appear in accessors because they separate values in
// grid URLs.
const reservedChars = "&=:,"

type schemaFile struct {
	Columns []nodeSpec `yaml:"columns"`
}

type nodeSpec struct {
	Label    string      `yaml:"label"`
	ID       string      `yaml:"id"`
	Accessor string      `yaml:"accessor"`
	Columns  *[]nodeSpec `yaml:"columns"`
}

// LoadFile reads a YAML schema from path.
func LoadFile(path string) (Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()

	forest, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", path, err)
	}
	return forest, nil
}

// Load decodes a YAML schema of the form
//
//	columns:
//	  - label: Healthcare user
//	    columns:
//	      - label: Patient name
//	        accessor: name
//
// Every entry must have either an accessor or a columns list, not both.
// Leaves without a label are titled after their accessor.
func Load(r io.Reader) (Forest, error) {
	var file schemaFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return Forest{}, nil
		}
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return buildForest(file.Columns, "columns")
}

func buildForest(specs []nodeSpec, path string) (Forest, error) {
	forest := make(Forest, 0, len(specs))
	for i, s := range specs {
		n, err := buildNode(s, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		forest = append(forest, n)
	}
	return forest, nil
}

func buildNode(s nodeSpec, path string) (Node, error) {
	switch {
	case s.Accessor != "" && s.Columns != nil:
		return nil, fmt.Errorf("%w: %s: has both accessor %q and columns", ErrInvalidNode, path, s.Accessor)
	case s.Accessor != "":
		if strings.ContainsAny(s.Accessor, reservedChars) {
			return nil, fmt.Errorf("%w: %s: accessor %q contains one of %q", ErrInvalidNode, path, s.Accessor, reservedChars)
		}
		label := s.Label
		if label == "" {
			label = TitleFromAccessor(s.Accessor)
		}
		return NewLeaf(label, s.Accessor), nil
	case s.Columns != nil:
		children, err := buildForest(*s.Columns, path+".columns")
		if err != nil {
			return nil, err
		}
		return Group{Label: s.Label, ID: s.ID, Children: children}, nil
	default:
		return nil, fmt.Errorf("%w: %s: needs an accessor or columns", ErrInvalidNode, path)
	}
}

// TitleFromAccessor turns a camelCase or snake_case accessor into header
// text, e.g. "placeOfConsultation" becomes "Place Of Consultation".
func TitleFromAccessor(accessor string) string {
	var sb strings.Builder
	prevLower := false
	for _, r := range accessor {
		switch {
		case r == '_' || r == '-':
			sb.WriteRune(' ')
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			sb.WriteRune(' ')
		}
		sb.WriteRune(unicode.ToLower(r))
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return cases.Title(language.English).String(sb.String())
}
