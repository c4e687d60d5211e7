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

package synth

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Row maps an accessor to its generated value.
type Row map[string]string

// Source is the randomness handed to every value generator. Now is fixed
// when the generator is created so that relative dates do not drift while a
// batch is produced.
type Source struct {
	*gofakeit.Faker
	Now time.Time
}

// Func produces one value. It must draw randomness from src only.
type Func func(src *Source) string

// Table maps accessors to value generators. Default is used for accessors
// without an entry of their own.
type Table struct {
	Fields  map[string]Func
	Default Func
}

// MissingGeneratorError is the panic value raised when an accessor has
// neither a field generator nor a default.
type MissingGeneratorError struct {
	Accessor string
}

func (e *MissingGeneratorError) Error() string {
	return fmt.Sprintf("no generator for accessor %q and no default generator", e.Accessor)
}

// Lookup returns the generator for accessor, falling back to Default.
func (t Table) Lookup(accessor string) (Func, bool) {
	if fn, ok := t.Fields[accessor]; ok && fn != nil {
		return fn, true
	}
	if t.Default != nil {
		return t.Default, true
	}
	return nil, false
}

// Validate reports the first accessor that cannot be generated.
func (t Table) Validate(accessors []string) error {
	for _, a := range accessors {
		if _, ok := t.Lookup(a); !ok {
			return &MissingGeneratorError{Accessor: a}
		}
	}
	return nil
}

// Option configures a Generator.
type Option func(*Generator)

// WithNow pins the reference time used by date generators.
func WithNow(now time.Time) Option {
	return func(g *Generator) {
		g.src.Now = now
	}
}

// Generator produces synthetic rows from a Table.
type Generator struct {
	table Table
	src   *Source
}

// NewGenerator creates a generator drawing from faker.
func NewGenerator(table Table, faker *gofakeit.Faker, opts ...Option) *Generator {
	g := &Generator{
		table: table,
		src:   &Source{Faker: faker, Now: time.Now()},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewSeeded creates a generator with its own faker. Seed 0 picks a random
// seed, any other value makes the output reproducible.
func NewSeeded(table Table, seed uint64, opts ...Option) *Generator {
	return NewGenerator(table, gofakeit.New(seed), opts...)
}

// Rows returns exactly count rows, each holding a value for every accessor.
// It panics with *MissingGeneratorError if an accessor cannot be generated,
// before producing anything, and panics if count is negative.
func (g *Generator) Rows(accessors []string, count int) []Row {
	if count < 0 {
		panic(fmt.Sprintf("synth: negative row count %d", count))
	}
	fns := g.resolve(accessors)

	rows := make([]Row, count)
	for i := range rows {
		row := make(Row, len(accessors))
		for j, a := range accessors {
			row[a] = fns[j](g.src)
		}
		rows[i] = row
	}
	return rows
}

func (g *Generator) resolve(accessors []string) []Func {
	fns := make([]Func, len(accessors))
	for i, a := range accessors {
		fn, ok := g.table.Lookup(a)
		if !ok {
			panic(&MissingGeneratorError{Accessor: a})
		}
		fns[i] = fn
	}
	return fns
}
