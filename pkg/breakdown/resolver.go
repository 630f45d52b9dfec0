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

// Package breakdown resolves the DirectiveBreakdown resources referenced by
// a DWS Workflow into mutations of a WLM jobspec resource tree, and sizes
// the resolved allocation sets for the scheduler's placement step.
package breakdown

import (
	"context"
	"fmt"
	"reflect"

	"github.com/go-logr/logr"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	dwsv1alpha2 "github.com/DataWorkflowServices/dws/api/v1alpha2"

	"github.com/NearNodeFlash/nnf-jobspec/internal/metrics"
	"github.com/NearNodeFlash/nnf-jobspec/pkg/jobspec"
)

// A BreakdownGetter retrieves one DirectiveBreakdown by object reference.
// The call is synchronous; a missing or unreachable object is returned as an
// error and aborts the resolution that requested it.
type BreakdownGetter interface {
	GetDirectiveBreakdown(ctx context.Context, ref corev1.ObjectReference) (*dwsv1alpha2.DirectiveBreakdown, error)
}

// Breakdown pairs a fetched DirectiveBreakdown with the resolved view of its
// allocation sets.
type Breakdown struct {
	DirectiveBreakdown *dwsv1alpha2.DirectiveBreakdown

	// AllocationSets holds the breakdown's allocation sets in resource
	// order, annotated with their resolved per-compute percentages.
	AllocationSets []AllocationSet
}

// AllocationSet is one allocation set together with its share of the
// workflow's total per-compute storage.
type AllocationSet struct {
	dwsv1alpha2.StorageAllocationSet

	// PercentageOfTotal is this allocation's fraction (0,1] of the summed
	// per-compute minimum capacity across the whole workflow. It is zero
	// for lustre labels.
	PercentageOfTotal float64 `json:"percentageOfTotal,omitempty"`
}

// Resolver applies a workflow's directive breakdowns to a jobspec resource
// tree. The tree is borrowed for the duration of one ResolveWorkflow call;
// concurrent mutation of the same tree is not supported.
type Resolver struct {
	Getter BreakdownGetter
	Log    logr.Logger
}

// ResolveWorkflow fetches every DirectiveBreakdown referenced by the
// workflow, validates each one, and applies its allocation sets to the
// resource tree. It returns the resolved breakdowns with per-compute
// percentages filled in.
//
// Any failure aborts the whole resolution. Mutations already applied to the
// tree are not rolled back, so the caller must treat an error as fatal to
// the job submission attempt.
func (r *Resolver) ResolveWorkflow(ctx context.Context, workflow *dwsv1alpha2.Workflow, resources *[]jobspec.Resource) ([]Breakdown, error) {
	metrics.NnfJobspecResolvesTotal.Inc()

	breakdowns, err := r.resolveWorkflow(ctx, workflow, resources)
	if err != nil {
		metrics.NnfJobspecResolveErrorsTotal.Inc()
		return nil, err
	}

	return breakdowns, nil
}

func (r *Resolver) resolveWorkflow(ctx context.Context, workflow *dwsv1alpha2.Workflow, resources *[]jobspec.Resource) ([]Breakdown, error) {
	log := r.Log.WithValues("Workflow", client.ObjectKeyFromObject(workflow))

	breakdowns, err := r.fetchBreakdowns(ctx, workflow)
	if err != nil {
		return nil, err
	}

	// First pass: apply every allocation set to the resource tree and
	// accumulate the workflow-wide per-compute capacity.
	perComputeTotal := int64(0)
	for i := range breakdowns {
		dbd := breakdowns[i].DirectiveBreakdown

		if !dbd.Status.Ready {
			return nil, fmt.Errorf("%w: %s", ErrNotReady, client.ObjectKeyFromObject(dbd))
		}

		if dbd.Status.Storage == nil {
			continue
		}

		for j := range dbd.Status.Storage.AllocationSets {
			allocation := &dbd.Status.Storage.AllocationSets[j]

			if err := applyAllocation(allocation, resources); err != nil {
				return nil, err
			}

			breakdowns[i].AllocationSets = append(breakdowns[i].AllocationSets,
				AllocationSet{StorageAllocationSet: *allocation})

			if isPerCompute(allocation.Label) {
				perComputeTotal += allocation.MinimumCapacity
			}
		}
	}

	// Second pass: fold the per-compute shares into a percentage map keyed
	// by allocation identity, then annotate the resolved allocation sets.
	// The percentages are metadata for the placement step; the tree
	// mutations above never read them.
	for key, percentage := range perComputePercentages(breakdowns, perComputeTotal) {
		breakdowns[key.breakdown].AllocationSets[key.allocation].PercentageOfTotal = percentage
	}

	log.V(1).Info("Resolved directive breakdowns", "count", len(breakdowns), "perComputeTotal", perComputeTotal)

	return breakdowns, nil
}

// fetchBreakdowns retrieves the full DirectiveBreakdown for each reference
// in the workflow's status, one synchronous call per reference in reference
// order.
func (r *Resolver) fetchBreakdowns(ctx context.Context, workflow *dwsv1alpha2.Workflow) ([]Breakdown, error) {
	if len(workflow.Status.DirectiveBreakdowns) == 0 {
		return nil, fmt.Errorf("%w: workflow %s", ErrNoBreakdowns, client.ObjectKeyFromObject(workflow))
	}

	breakdownKind := reflect.TypeOf(dwsv1alpha2.DirectiveBreakdown{}).Name()

	breakdowns := make([]Breakdown, 0, len(workflow.Status.DirectiveBreakdowns))
	for _, ref := range workflow.Status.DirectiveBreakdowns {
		if ref.Kind != breakdownKind {
			return nil, fmt.Errorf("%w %q", ErrBadKind, ref.Kind)
		}

		dbd, err := r.Getter.GetDirectiveBreakdown(ctx, ref)
		if err != nil {
			return nil, err
		}

		breakdowns = append(breakdowns, Breakdown{DirectiveBreakdown: dbd})
	}

	return breakdowns, nil
}

// allocationKey identifies one allocation set within a resolved breakdown
// list.
type allocationKey struct {
	breakdown  int
	allocation int
}

// perComputePercentages computes each per-compute allocation set's fraction
// of the workflow-wide per-compute capacity.
func perComputePercentages(breakdowns []Breakdown, perComputeTotal int64) map[allocationKey]float64 {
	percentages := make(map[allocationKey]float64)

	if perComputeTotal == 0 {
		return percentages
	}

	for i := range breakdowns {
		for j := range breakdowns[i].AllocationSets {
			allocation := &breakdowns[i].AllocationSets[j]
			if isPerCompute(allocation.Label) {
				percentages[allocationKey{i, j}] = float64(allocation.MinimumCapacity) / float64(perComputeTotal)
			}
		}
	}

	return percentages
}
