/*
 * Copyright 2023-2024 Hewlett Packard Enterprise Development LP
 * Other additional copyright holders may be indicated within.
 *
 * The entirety of this work is licensed under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 *
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package jobspec models the `resources` section of a WLM jobspec: an
// ordered tree of resource vertices mixing compute node requests with the
// storage device requests a scheduler can place on rabbit hardware.
package jobspec

// Resource vertex types understood by the WLM.
const (
	TypeNode      = "node"
	TypeSlot      = "slot"
	TypeNnf       = "nnf"
	TypeGlobalNnf = "globalnnf"
	TypeSsd       = "ssd"
)

// Resource is a single vertex in a jobspec resource tree. The Type field
// carries the variant; With holds the child vertices.
type Resource struct {
	Type string `json:"type"`

	Count int64 `json:"count"`

	// Unit qualifies Count for types that are not simple cardinalities.
	Unit string `json:"unit,omitempty"`

	Label string `json:"label,omitempty"`

	Exclusive bool `json:"exclusive,omitempty"`

	With []Resource `json:"with,omitempty"`
}

// NnfResource returns the device request for capacityGiB gibibytes of
// node-local rabbit storage.
func NnfResource(capacityGiB int64) Resource {
	return Resource{
		Type:  TypeNnf,
		Count: 1,
		With: []Resource{{
			Type:      TypeSsd,
			Count:     capacityGiB,
			Exclusive: true,
		}},
	}
}
