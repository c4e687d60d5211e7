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

import "strconv"

var genders = []string{"M", "F", "O", "U"}

// Healthcare returns the generator table for the healthcare schema. Fields
// without a dedicated generator get a random word.
func Healthcare() Table {
	return Table{
		Fields: map[string]Func{
			"name":      func(src *Source) string { return src.Name() },
			"country":   func(src *Source) string { return src.JobLevel() },
			"structure": func(src *Source) string { return src.Noun() },
			"gender":    func(src *Source) string { return src.RandomString(genders) },
			"age":       func(src *Source) string { return strconv.Itoa(src.IntRange(10, 99)) },
			"date": func(src *Source) string {
				return src.DateRange(src.Now.AddDate(0, 0, -1), src.Now).Format("1/2/2006")
			},
			"practicionerAffiliation": func(src *Source) string { return src.BS() },
			"placeOfConsultation":     func(src *Source) string { return src.JobLevel() },
		},
		Default: func(src *Source) string { return src.Word() },
	}
}
