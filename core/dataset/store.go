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
	"sync"
	"time"

	"github.com/google/caregrid/core/schema"
	"github.com/google/caregrid/core/synth"
	"go.uber.org/zap"
)

// Store holds the current dataset. Readers get an immutable snapshot;
// Regenerate and Reload swap in a new one.
type Store struct {
	mu      sync.RWMutex
	current *Dataset
	gens    synth.Table
	opts    Options
	logger  *zap.Logger
}

// NewStore builds the first dataset for forest.
func NewStore(forest schema.Forest, gens synth.Table, opts Options, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ds, err := Build(forest, gens, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset generated",
		zap.Stringer("id", ds.ID),
		zap.Int("rows", ds.Len()),
		zap.Strings("accessors", ds.Accessors))
	return &Store{current: ds, gens: gens, opts: opts, logger: logger}, nil
}

// Current returns the dataset in use.
func (s *Store) Current() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Regenerate replaces every value with fresh random ones. The schema and
// row count stay the same. A configured seed is only used for the first
// dataset, otherwise regenerating would produce the same rows again.
func (s *Store) Regenerate() (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := Build(s.current.Forest, s.gens, s.freshOptions())
	if err != nil {
		return nil, err
	}
	s.current = ds
	s.logger.Info("dataset regenerated", zap.Stringer("id", ds.ID), zap.Int("rows", ds.Len()))
	return ds, nil
}

// Reload generates a dataset for a changed schema. Like Regenerate it draws
// fresh values. On error the current dataset is kept.
func (s *Store) Reload(forest schema.Forest) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := Build(forest, s.gens, s.freshOptions())
	if err != nil {
		s.logger.Warn("schema reload rejected", zap.Error(err))
		return nil, err
	}
	s.current = ds
	s.logger.Info("schema reloaded",
		zap.Stringer("id", ds.ID),
		zap.Strings("accessors", ds.Accessors))
	return ds, nil
}

// freshOptions drops the seed and clock of the first dataset.
func (s *Store) freshOptions() Options {
	opts := s.opts
	opts.Seed = 0
	opts.Now = time.Time{}
	return opts
}
