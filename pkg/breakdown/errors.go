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
	"errors"
)

// Every failure out of this package wraps one of these sentinels so that the
// WLM integration can dispatch on the failure class with errors.Is. None of
// them are retried here; any error aborts the whole resolution or build.
var (
	// ErrNoBreakdowns indicates a workflow with an empty directive
	// breakdown reference list.
	ErrNoBreakdowns = errors.New("workflow has no directive breakdowns")

	// ErrBadKind indicates a breakdown reference to something other than a
	// DirectiveBreakdown.
	ErrBadKind = errors.New("unsupported breakdown kind")

	// ErrNotReady indicates a DirectiveBreakdown whose allocation sets have
	// not been generated yet.
	ErrNotReady = errors.New("breakdown marked as not ready")

	// ErrUnknownLabel indicates an allocation set label outside the fixed
	// set of storage tiers.
	ErrUnknownLabel = errors.New("unknown allocation label")

	// ErrStrategyMismatch indicates an allocation strategy other than the
	// one its label mandates.
	ErrStrategyMismatch = errors.New("allocation strategy mismatch")

	// ErrMalformedResources indicates a jobspec resource tree that does not
	// start from a single top-level node entry.
	ErrMalformedResources = errors.New("jobspec resources must have a single top-level 'node' entry")

	// ErrInsufficientCapacity indicates a computed allocation size below
	// the allocation set's declared minimum capacity.
	ErrInsufficientCapacity = errors.New("allocation size below minimum capacity")

	// ErrUnsupportedAllocation indicates a label/strategy combination the
	// allocation set builder does not implement.
	ErrUnsupportedAllocation = errors.New("allocation not currently supported")
)
