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

// Healthcare returns the built-in healthcare record schema: patient fields
// under "Healthcare user" and the latest admission under "Latest admission
// form", each padded with a placeholder group so that both halves render
// with the same header depth.
func Healthcare() Forest {
	return Forest{
		NewGroup("Healthcare user",
			NewPlaceholder("col-placeholder-1",
				NewLeaf("Patient name", "name"),
				NewLeaf("Country", "country"),
				NewLeaf("Structure", "structure"),
				NewLeaf("Gender", "gender"),
				NewLeaf("Age category", "age"),
			),
		),
		NewGroup("Latest admission form",
			NewPlaceholder("col-placeholder-2",
				NewLeaf("Date", "date"),
			),
			NewGroup("Consultation details",
				NewLeaf("Practicioner affiliation", "practicionerAffiliation"),
				NewLeaf("Place of consultation", "placeOfConsultation"),
			),
		),
	}
}
