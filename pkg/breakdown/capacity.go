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

package breakdown

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// capacityRegexp matches #DW-style capacity strings such as "10GB", "1TiB",
// or a bare byte count.
var capacityRegexp = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)([kKMGTP]i?)?B?$`)

var capacityPowers = map[string]float64{
	"":   1, // No units means bytes, nothing to multiply
	"K":  math.Pow10(3),
	"M":  math.Pow10(6),
	"G":  math.Pow10(9),
	"T":  math.Pow10(12),
	"P":  math.Pow10(15),
	"Ki": math.Pow(2, 10),
	"Mi": math.Pow(2, 20),
	"Gi": math.Pow(2, 30),
	"Ti": math.Pow(2, 40),
	"Pi": math.Pow(2, 50),
}

// ParseCapacity converts a #DW directive capacity string into bytes. WLM
// integrations use this when they need to compare directive capacities
// against the minimum capacities carried in an allocation set.
func ParseCapacity(capacity string) (int64, error) {
	matches := capacityRegexp.FindStringSubmatch(capacity)
	if matches == nil {
		return 0, fmt.Errorf("invalid capacity string, %s", capacity)
	}

	val, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid capacity string, %s", capacity)
	}

	return int64(math.Round(val * capacityPowers[matches[3]])), nil
}
