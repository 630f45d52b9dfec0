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

	dwsv1alpha2 "github.com/DataWorkflowServices/dws/api/v1alpha2"

	"github.com/NearNodeFlash/nnf-jobspec/pkg/jobspec"
)

const gibibyte int64 = 1 << 30

// expectedAllocationStrategies maps each allocation set label to the one
// strategy DWS may use with it. The label set is closed; anything else is an
// unknown label.
var expectedAllocationStrategies = map[string]dwsv1alpha2.AllocationStrategy{
	"xfs":  dwsv1alpha2.AllocatePerCompute,
	"raw":  dwsv1alpha2.AllocatePerCompute,
	"gfs2": dwsv1alpha2.AllocatePerCompute,
	"ost":  dwsv1alpha2.AllocateAcrossServers,
	"mdt":  dwsv1alpha2.AllocateSingleServer,
	"mgt":  dwsv1alpha2.AllocateSingleServer,
}

var perComputeLabels = map[string]bool{
	"xfs":  true,
	"raw":  true,
	"gfs2": true,
}

func isPerCompute(label string) bool {
	return perComputeLabels[label]
}

// validateAllocation confirms that the allocation set's strategy is the one
// its label mandates. This runs before any resource tree mutation.
func validateAllocation(allocation *dwsv1alpha2.StorageAllocationSet) error {
	expected, found := expectedAllocationStrategies[allocation.Label]
	if !found {
		return fmt.Errorf("%w %q", ErrUnknownLabel, allocation.Label)
	}

	if allocation.AllocationStrategy != expected {
		return fmt.Errorf("%w: %s allocationStrategy must be %q but got %q",
			ErrStrategyMismatch, allocation.Label, expected, allocation.AllocationStrategy)
	}

	return nil
}

// capacityGiB converts bytes to whole gibibytes. A sub-GiB request rounds up
// to 1 GiB rather than down to 0.
func capacityGiB(minimumCapacity int64) int64 {
	capacity := minimumCapacity / gibibyte
	if capacity < 1 {
		capacity = 1
	}

	return capacity
}

// applyAllocation validates one allocation set and folds its capacity into
// the jobspec resource tree.
func applyAllocation(allocation *dwsv1alpha2.StorageAllocationSet, resources *[]jobspec.Resource) error {
	if err := validateAllocation(allocation); err != nil {
		return err
	}

	capacity := capacityGiB(allocation.MinimumCapacity)

	if isPerCompute(allocation.Label) {
		return applyPerCompute(capacity, resources)
	}

	// Of the lustre components, only the MGT materializes in the resource
	// tree. OST and MDT allocation sets are validated and counted for
	// percentage bookkeeping, but their capacity is sized by the
	// server-side placement step instead.
	if allocation.Label == "mgt" {
		applyLustre(capacity, resources)
	}

	return nil
}

// applyPerCompute adds node-local storage to the resource tree. Repeated
// per-compute allocations aggregate into the single nnf entry that follows
// the node entry; the WLM sees one device request per compute node.
func applyPerCompute(capacity int64, resources *[]jobspec.Resource) error {
	tree := *resources

	switch {
	case len(tree) == 2 && tree[1].Type == jobspec.TypeNnf && len(tree[1].With) > 0:
		tree[1].With[0].Count += capacity
	case len(tree) != 1 || tree[0].Type != jobspec.TypeNode:
		return ErrMalformedResources
	default:
		*resources = append(tree, jobspec.NnfResource(capacity))
	}

	return nil
}

// applyLustre appends a shared storage entry to the resource tree. Repeated
// lustre entries are appended independently; they are not aggregated into an
// existing globalnnf entry.
func applyLustre(capacity int64, resources *[]jobspec.Resource) {
	*resources = append(*resources, jobspec.Resource{
		Type:  jobspec.TypeGlobalNnf,
		Count: 1,
		With:  []jobspec.Resource{jobspec.NnfResource(capacity)},
	})
}
