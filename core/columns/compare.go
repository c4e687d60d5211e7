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

package columns

import (
	"strconv"
	"strings"
)

// CompareAtIndex compares values at indices i and j for the given column.
// Returns -1 if value[i] < value[j], 0 if equal, 1 if value[i] > value[j].
func CompareAtIndex(col IDataColumn, i, j uint32) int {
	switch c := col.(type) {
	case *StringColumn:
		return CompareAlphanumeric(c.data[i], c.data[j])
	}

	vi, errI := col.GetString(i)
	vj, errJ := col.GetString(j)
	if errI != nil || errJ != nil {
		return compareErrors(errI, errJ)
	}
	return CompareAlphanumeric(vi, vj)
}

// CompareAlphanumeric orders strings by splitting them into runs of digits
// and non-digits. Digit runs compare numerically, so "9" sorts before "10"
// and "3/9/2024" before "3/10/2024". Other runs compare case-insensitively,
// with a plain comparison as the final tie break.
func CompareAlphanumeric(a, b string) int {
	ca, cb := chunks(a), chunks(b)
	for k := 0; k < len(ca) && k < len(cb); k++ {
		x, y := ca[k], cb[k]
		xn, errX := strconv.ParseUint(x, 10, 64)
		yn, errY := strconv.ParseUint(y, 10, 64)
		switch {
		case errX == nil && errY == nil:
			if xn != yn {
				if xn < yn {
					return -1
				}
				return 1
			}
		case errX == nil:
			return -1
		case errY == nil:
			return 1
		default:
			if cmp := strings.Compare(strings.ToLower(x), strings.ToLower(y)); cmp != 0 {
				return cmp
			}
		}
	}
	switch {
	case len(ca) < len(cb):
		return -1
	case len(ca) > len(cb):
		return 1
	}
	return strings.Compare(a, b)
}

func chunks(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if i == start {
			continue
		}
		if isDigit(r) != isDigit(rune(s[i-1])) {
			out = append(out, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// compareErrors sorts unreadable values after readable ones.
func compareErrors(errI, errJ error) int {
	switch {
	case errI != nil && errJ != nil:
		return 0
	case errI != nil:
		return 1
	default:
		return -1
	}
}
