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

import "fmt"

// Header is one cell of a header row.
type Header struct {
	ID            string
	Label         string
	Accessor      string // only set on the bottom row
	ColSpan       int
	Depth         int
	IsPlaceholder bool
}

// HeaderGroups lays the forest out as header rows, top row first. Every
// leaf ends up in the bottom row; a leaf that sits higher in the tree gets
// placeholder cells above it so that each row spans every leaf. Groups keep
// the row of their own depth and span all leaves below them. Repeated
// bindings of an accessor are laid out once, at their first position, so
// the bottom row matches Leaves.
func HeaderGroups(forest Forest) [][]Header {
	forest = Dedupe(forest)
	depth := Depth(forest)
	if depth == 0 {
		return nil
	}
	rows := make([][]Header, depth)

	var place func(n Node, row int, path string)
	place = func(n Node, row int, path string) {
		switch v := n.(type) {
		case Leaf:
			for r := row; r < depth-1; r++ {
				rows[r] = append(rows[r], Header{
					ID:            fmt.Sprintf("%s_placeholder_%d", v.Accessor, r),
					ColSpan:       1,
					Depth:         r,
					IsPlaceholder: true,
				})
			}
			rows[depth-1] = append(rows[depth-1], Header{
				ID:       v.Accessor,
				Label:    v.Label,
				Accessor: v.Accessor,
				ColSpan:  1,
				Depth:    depth - 1,
			})
		case Group:
			span := LeafCount(v)
			if span == 0 {
				return
			}
			id := v.ID
			if id == "" {
				id = path
			}
			rows[row] = append(rows[row], Header{
				ID:            id,
				Label:         v.Label,
				ColSpan:       span,
				Depth:         row,
				IsPlaceholder: v.IsPlaceholder(),
			})
			for i, child := range v.Children {
				place(child, row+1, fmt.Sprintf("%s_%d", path, i))
			}
		}
	}

	for i, n := range forest {
		place(n, 0, fmt.Sprintf("group_%d", i))
	}
	return rows
}

// LeafHeaders returns the bottom header row, one entry per leaf position.
func LeafHeaders(forest Forest) []Header {
	rows := HeaderGroups(forest)
	if len(rows) == 0 {
		return nil
	}
	return rows[len(rows)-1]
}
