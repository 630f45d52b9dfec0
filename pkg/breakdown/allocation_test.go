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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	dwsv1alpha2 "github.com/DataWorkflowServices/dws/api/v1alpha2"

	"github.com/NearNodeFlash/nnf-jobspec/pkg/jobspec"
)

func allocationSet(label string, strategy dwsv1alpha2.AllocationStrategy, minimumCapacity int64) *dwsv1alpha2.StorageAllocationSet {
	return &dwsv1alpha2.StorageAllocationSet{
		AllocationStrategy: strategy,
		Label:              label,
		MinimumCapacity:    minimumCapacity,
	}
}

var _ = Describe("Applying allocation sets", func() {
	var resources []jobspec.Resource

	BeforeEach(func() {
		resources = []jobspec.Resource{{Type: jobspec.TypeNode, Count: 4}}
	})

	Describe("strategy validation", func() {

		It("rejects a per-compute label with the wrong strategy before mutating the tree", func() {
			allocation := allocationSet("xfs", dwsv1alpha2.AllocateSingleServer, gibibyte)

			err := applyAllocation(allocation, &resources)
			Expect(err).To(MatchError(ErrStrategyMismatch))
			Expect(err.Error()).To(ContainSubstring("xfs"))
			Expect(err.Error()).To(ContainSubstring(string(dwsv1alpha2.AllocatePerCompute)))
			Expect(err.Error()).To(ContainSubstring(string(dwsv1alpha2.AllocateSingleServer)))
			Expect(resources).To(HaveLen(1))
		})

		It("rejects a lustre label with the wrong strategy", func() {
			allocation := allocationSet("ost", dwsv1alpha2.AllocatePerCompute, gibibyte)

			Expect(applyAllocation(allocation, &resources)).To(MatchError(ErrStrategyMismatch))
			Expect(resources).To(HaveLen(1))
		})

		It("rejects a label outside the fixed set", func() {
			allocation := allocationSet("ext4", dwsv1alpha2.AllocatePerCompute, gibibyte)

			Expect(applyAllocation(allocation, &resources)).To(MatchError(ErrUnknownLabel))
			Expect(resources).To(HaveLen(1))
		})
	})

	Describe("per-compute allocations", func() {

		It("appends a single nnf entry to a bare node entry", func() {
			allocation := allocationSet("xfs", dwsv1alpha2.AllocatePerCompute, 2*gibibyte)

			Expect(applyAllocation(allocation, &resources)).To(Succeed())
			Expect(resources).To(HaveLen(2))
			Expect(resources[1]).To(Equal(jobspec.NnfResource(2)))
		})

		It("aggregates repeated per-compute allocations into one device request", func() {
			Expect(applyAllocation(allocationSet("xfs", dwsv1alpha2.AllocatePerCompute, 2*gibibyte), &resources)).To(Succeed())
			Expect(applyAllocation(allocationSet("gfs2", dwsv1alpha2.AllocatePerCompute, 3*gibibyte), &resources)).To(Succeed())

			Expect(resources).To(HaveLen(2))
			Expect(resources[0]).To(Equal(jobspec.Resource{Type: jobspec.TypeNode, Count: 4}))
			Expect(resources[1].Type).To(Equal(jobspec.TypeNnf))
			Expect(resources[1].With).To(HaveLen(1))
			Expect(resources[1].With[0].Count).To(BeEquivalentTo(5))
			Expect(resources[1].With[0].Exclusive).To(BeTrue())
		})

		It("rounds a sub-GiB request up to 1 GiB", func() {
			Expect(applyAllocation(allocationSet("raw", dwsv1alpha2.AllocatePerCompute, 100), &resources)).To(Succeed())

			Expect(resources[1].With[0].Count).To(BeEquivalentTo(1))
		})

		It("converts whole gibibytes without rounding", func() {
			Expect(applyAllocation(allocationSet("raw", dwsv1alpha2.AllocatePerCompute, 3*gibibyte), &resources)).To(Succeed())

			Expect(resources[1].With[0].Count).To(BeEquivalentTo(3))
		})

		It("rejects a tree whose second entry is not an nnf entry", func() {
			resources = []jobspec.Resource{
				{Type: jobspec.TypeNode, Count: 4},
				{Type: jobspec.TypeSlot, Count: 1},
			}

			allocation := allocationSet("xfs", dwsv1alpha2.AllocatePerCompute, gibibyte)
			Expect(applyAllocation(allocation, &resources)).To(MatchError(ErrMalformedResources))
		})

		It("rejects a tree whose top-level entry is not a node entry", func() {
			resources = []jobspec.Resource{{Type: jobspec.TypeSlot, Count: 4}}

			allocation := allocationSet("gfs2", dwsv1alpha2.AllocatePerCompute, gibibyte)
			Expect(applyAllocation(allocation, &resources)).To(MatchError(ErrMalformedResources))
		})

		It("rejects an empty tree", func() {
			resources = []jobspec.Resource{}

			allocation := allocationSet("xfs", dwsv1alpha2.AllocatePerCompute, gibibyte)
			Expect(applyAllocation(allocation, &resources)).To(MatchError(ErrMalformedResources))
		})
	})

	Describe("lustre allocations", func() {

		It("appends a globalnnf entry for the mgt", func() {
			allocation := allocationSet("mgt", dwsv1alpha2.AllocateSingleServer, gibibyte)

			Expect(applyAllocation(allocation, &resources)).To(Succeed())
			Expect(resources).To(HaveLen(2))
			Expect(resources[1].Type).To(Equal(jobspec.TypeGlobalNnf))
			Expect(resources[1].Count).To(BeEquivalentTo(1))
			Expect(resources[1].With).To(HaveLen(1))
			Expect(resources[1].With[0]).To(Equal(jobspec.NnfResource(1)))
		})

		It("appends independent globalnnf entries for repeated mgt allocations", func() {
			Expect(applyAllocation(allocationSet("mgt", dwsv1alpha2.AllocateSingleServer, gibibyte), &resources)).To(Succeed())
			Expect(applyAllocation(allocationSet("mgt", dwsv1alpha2.AllocateSingleServer, gibibyte), &resources)).To(Succeed())

			Expect(resources).To(HaveLen(3))
			Expect(resources[1].Type).To(Equal(jobspec.TypeGlobalNnf))
			Expect(resources[2].Type).To(Equal(jobspec.TypeGlobalNnf))
		})

		It("validates ost and mdt allocations without materializing them", func() {
			Expect(applyAllocation(allocationSet("ost", dwsv1alpha2.AllocateAcrossServers, 10*gibibyte), &resources)).To(Succeed())
			Expect(applyAllocation(allocationSet("mdt", dwsv1alpha2.AllocateSingleServer, gibibyte), &resources)).To(Succeed())

			Expect(resources).To(HaveLen(1))
		})
	})
})
