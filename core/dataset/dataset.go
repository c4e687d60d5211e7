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

package dataset

import (
	"fmt"
	"time"

	"github.com/google/caregrid/core/schema"
	"github.com/google/caregrid/core/synth"
	"github.com/google/caregrid/core/tables"
	"github.com/google/uuid"
)

// Dataset is one generated batch of rows together with the schema it was
// generated for. It is immutable once built.
type Dataset struct {
	ID          uuid.UUID
	Forest      schema.Forest
	Accessors   []string
	Leaves      []schema.Leaf
	Rows        []synth.Row
	Table       *tables.DataTable
	Seed        uint64
	GeneratedAt time.Time
}

// Options controls how a dataset is generated.
type Options struct {
	Count int
	Seed  uint64 // 0 draws a fresh random seed
	Now   time.Time
}

// Build extracts the accessors of forest, checks that generators can
// produce every one of them and generates opts.Count rows.
func Build(forest schema.Forest, gens synth.Table, opts Options) (*Dataset, error) {
	if opts.Count < 0 {
		return nil, fmt.Errorf("row count must not be negative, got %d", opts.Count)
	}
	accessors := schema.Accessors(forest)
	if err := gens.Validate(accessors); err != nil {
		return nil, fmt.Errorf("schema does not match generators: %w", err)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	rows := synth.NewSeeded(gens, opts.Seed, synth.WithNow(now)).Rows(accessors, opts.Count)
	leaves := schema.Leaves(forest)

	return &Dataset{
		ID:          uuid.New(),
		Forest:      forest,
		Accessors:   accessors,
		Leaves:      leaves,
		Rows:        rows,
		Table:       tables.FromRows(leaves, rows),
		Seed:        opts.Seed,
		GeneratedAt: now,
	}, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Leaf returns the leaf bound to accessor.
func (d *Dataset) Leaf(accessor string) (schema.Leaf, bool) {
	for _, l := range d.Leaves {
		if l.Accessor == accessor {
			return l, true
		}
	}
	return schema.Leaf{}, false
}
