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
	"sort"

	"github.com/NearNodeFlash/nnf-jobspec/internal/metrics"
)

// ServerAllocationSet is the sized allocation request for one allocation set
// on one NNF server, in the form the DWS Servers resource expects.
type ServerAllocationSet struct {
	AllocationSize int64 `json:"allocationSize"`

	Label string `json:"label"`

	Storage []ServerAllocationStorage `json:"storage"`
}

// ServerAllocationStorage names the server backing an allocation and the
// number of allocations to make there.
type ServerAllocationStorage struct {
	AllocationCount int `json:"allocationCount"`

	Name string `json:"name"`
}

// BuildAllocationSets sizes each resolved allocation set on each NNF server.
// localAllocations maps a server name to the total bytes assigned to it;
// nodesPerServer maps a server name to the number of compute nodes it
// serves. Each per-compute allocation receives its percentage of the
// server's bytes, split evenly across the server's compute nodes.
//
// Only per-compute labels are supported. A computed size below the
// allocation set's minimum capacity fails the whole build.
func BuildAllocationSets(allocationSets []AllocationSet, localAllocations map[string]int64, nodesPerServer map[string]int) ([]ServerAllocationSet, error) {
	metrics.NnfJobspecAllocationSetBuildsTotal.Inc()

	serverAllocations, err := buildAllocationSets(allocationSets, localAllocations, nodesPerServer)
	if err != nil {
		metrics.NnfJobspecAllocationSetBuildErrorsTotal.Inc()
		return nil, err
	}

	return serverAllocations, nil
}

func buildAllocationSets(allocationSets []AllocationSet, localAllocations map[string]int64, nodesPerServer map[string]int) ([]ServerAllocationSet, error) {
	// Walk the servers in name order so the output is deterministic.
	servers := make([]string, 0, len(localAllocations))
	for name := range localAllocations {
		servers = append(servers, name)
	}
	sort.Strings(servers)

	serverAllocations := []ServerAllocationSet{}
	for i := range allocationSets {
		allocation := &allocationSets[i]

		for _, name := range servers {
			if !isPerCompute(allocation.Label) {
				return nil, fmt.Errorf("%w: label %q", ErrUnsupportedAllocation, allocation.Label)
			}

			nodeCount, found := nodesPerServer[name]
			if !found || nodeCount == 0 {
				return nil, fmt.Errorf("no compute node count for nnf %q", name)
			}

			size := int64(float64(localAllocations[name]) * allocation.PercentageOfTotal / float64(nodeCount))
			if size < allocation.MinimumCapacity {
				return nil, fmt.Errorf("%w: expected an allocation size of at least %d, got %d",
					ErrInsufficientCapacity, allocation.MinimumCapacity, size)
			}

			serverAllocations = append(serverAllocations, ServerAllocationSet{
				AllocationSize: size,
				Label:          allocation.Label,
				Storage: []ServerAllocationStorage{{
					AllocationCount: nodeCount,
					Name:            name,
				}},
			})
		}
	}

	return serverAllocations, nil
}
