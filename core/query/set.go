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

package query

import (
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// maxSetRange caps a single "a-b" range so that a hand-edited URL cannot
// make the server allocate an enormous bitmap.
const maxSetRange = 1 << 20

// ParseSet parses a row set such as "1,4,7-9". Malformed parts are skipped.
func ParseSet(s string) *roaring.Bitmap {
	rows := roaring.New()
	if s == "" {
		return rows
	}
	for _, part := range strings.Split(s, ",") {
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, errLo := strconv.ParseUint(lo, 10, 32)
			end, errHi := strconv.ParseUint(hi, 10, 32)
			if errLo != nil || errHi != nil || end < start || end-start > maxSetRange {
				continue
			}
			rows.AddRange(start, end+1)
			continue
		}
		if v, err := strconv.ParseUint(part, 10, 32); err == nil {
			rows.Add(uint32(v))
		}
	}
	return rows
}

// FormatSet writes a row set in the compact form read by ParseSet
func FormatSet(rows *roaring.Bitmap) string {
	var sb strings.Builder
	it := rows.Iterator()
	first := true
	var start, prev uint32
	flush := func() {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		sb.WriteString(strconv.FormatUint(uint64(start), 10))
		if prev > start {
			sb.WriteByte('-')
			sb.WriteString(strconv.FormatUint(uint64(prev), 10))
		}
	}
	open := false
	for it.HasNext() {
		v := it.Next()
		switch {
		case !open:
			start, prev, open = v, v, true
		case v == prev+1:
			prev = v
		default:
			flush()
			start, prev = v, v
		}
	}
	if open {
		flush()
	}
	return sb.String()
}
