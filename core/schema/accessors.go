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

// Walk visits every node of the forest depth-first in pre-order. depth is 0
// for top level nodes.
func Walk(forest Forest, fn func(n Node, depth int)) {
	for _, n := range forest {
		walk(n, 0, fn)
	}
}

func walk(n Node, depth int, fn func(n Node, depth int)) {
	fn(n, depth)
	if g, ok := n.(Group); ok {
		for _, child := range g.Children {
			walk(child, depth+1, fn)
		}
	}
}

// Accessors returns the distinct accessor names of the forest in the order
// they are first encountered by a depth-first pre-order walk.
func Accessors(forest Forest) []string {
	leaves := Leaves(forest)
	result := make([]string, len(leaves))
	for i, l := range leaves {
		result[i] = l.Accessor
	}
	return result
}

// Leaves returns one leaf per distinct accessor, in Accessors order. When an
// accessor is bound more than once the first leaf wins.
func Leaves(forest Forest) []Leaf {
	seen := make(map[string]bool)
	var result []Leaf
	Walk(forest, func(n Node, _ int) {
		l, ok := n.(Leaf)
		if !ok || l.Accessor == "" || seen[l.Accessor] {
			return
		}
		seen[l.Accessor] = true
		result = append(result, l)
	})
	return result
}

// Depth returns the number of header rows needed to render the forest.
// Groups without any leaf below them do not count.
func Depth(forest Forest) int {
	depth := 0
	Walk(forest, func(n Node, d int) {
		if _, ok := n.(Leaf); ok && d+1 > depth {
			depth = d + 1
		}
	})
	return depth
}

// Dedupe returns a copy of the forest in which every accessor is bound by
// exactly one leaf, the one Leaves would pick. Leaves with an empty
// accessor are dropped, as are groups left without leaves, so the result
// lines up column for column with Leaves.
func Dedupe(forest Forest) Forest {
	seen := make(map[string]bool)
	return Prune(forest, func(accessor string) bool {
		if accessor == "" || seen[accessor] {
			return false
		}
		seen[accessor] = true
		return true
	})
}

// LeafCount returns the number of leaf nodes below n, or 1 if n is a leaf.
func LeafCount(n Node) int {
	switch v := n.(type) {
	case Leaf:
		return 1
	case Group:
		count := 0
		for _, child := range v.Children {
			count += LeafCount(child)
		}
		return count
	}
	return 0
}

// Prune returns a copy of the forest that keeps only the leaves for which
// keep returns true. Groups left without leaves are dropped. keep is called
// once per leaf in pre-order.
func Prune(forest Forest, keep func(accessor string) bool) Forest {
	var result Forest
	for _, n := range forest {
		if pruned, ok := prune(n, keep); ok {
			result = append(result, pruned)
		}
	}
	return result
}

func prune(n Node, keep func(string) bool) (Node, bool) {
	switch v := n.(type) {
	case Leaf:
		return v, keep(v.Accessor)
	case Group:
		var children []Node
		for _, child := range v.Children {
			if pruned, ok := prune(child, keep); ok {
				children = append(children, pruned)
			}
		}
		if len(children) == 0 {
			return nil, false
		}
		return Group{Label: v.Label, ID: v.ID, Children: children}, true
	}
	return nil, false
}
