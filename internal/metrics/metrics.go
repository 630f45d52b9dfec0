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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	NnfJobspecResolvesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nnf_jobspec_resolves_total",
			Help: "Number of total directive breakdown resolutions",
		},
	)

	NnfJobspecResolveErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nnf_jobspec_resolve_errors_total",
			Help: "Number of directive breakdown resolutions that failed",
		},
	)

	NnfJobspecAllocationSetBuildsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nnf_jobspec_allocation_set_builds_total",
			Help: "Number of total server allocation set builds",
		},
	)

	NnfJobspecAllocationSetBuildErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nnf_jobspec_allocation_set_build_errors_total",
			Help: "Number of server allocation set builds that failed",
		},
	)
)

func init() {
	metrics.Registry.MustRegister(NnfJobspecResolvesTotal)
	metrics.Registry.MustRegister(NnfJobspecResolveErrorsTotal)
	metrics.Registry.MustRegister(NnfJobspecAllocationSetBuildsTotal)
	metrics.Registry.MustRegister(NnfJobspecAllocationSetBuildErrorsTotal)
}
