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

package jobspec

import (
	"github.com/ghodss/yaml"
)

// Parse reads the `resources` section of a jobspec document.
func Parse(data []byte) ([]Resource, error) {
	resources := []Resource{}
	if err := yaml.Unmarshal(data, &resources); err != nil {
		return nil, err
	}

	return resources, nil
}

// Marshal renders a resource tree back into the YAML form the WLM submits.
func Marshal(resources []Resource) ([]byte, error) {
	return yaml.Marshal(resources)
}
