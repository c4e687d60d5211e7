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

// Node is one entry of a column schema. It is either a Leaf bound to a row
// field or a Group of further nodes. No other implementations exist.
type Node interface {
	// Title is the header text shown for the node.
	Title() string
	node()
}

// Forest is an ordered list of top level column nodes.
type Forest []Node

// Leaf is a column bound to a single row field.
type Leaf struct {
	Label    string
	Accessor string // must not contain any of the following characters: & = : ,
}

// Group is a header grouping of other nodes. It has no data binding of its own.
// A group with an empty Label renders as a placeholder header.
type Group struct {
	Label    string
	ID       string
	Children []Node
}

func (l Leaf) Title() string { return l.Label }
func (l Leaf) node()         {}

func (g Group) Title() string { return g.Label }
func (g Group) node()         {}

// NewLeaf creates a leaf column.
func NewLeaf(label, accessor string) Leaf {
	return Leaf{Label: label, Accessor: accessor}
}

// NewGroup creates a group column containing the given children.
func NewGroup(label string, children ...Node) Group {
	return Group{Label: label, Children: children}
}

// NewPlaceholder creates an unlabelled group. The id keeps placeholders
// distinguishable when several exist at the same level.
func NewPlaceholder(id string, children ...Node) Group {
	return Group{ID: id, Children: children}
}

// IsPlaceholder reports whether the group has no header text.
func (g Group) IsPlaceholder() bool {
	return g.Label == ""
}
