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
	"context"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	dwsv1alpha2 "github.com/DataWorkflowServices/dws/api/v1alpha2"
)

// ClientGetter retrieves DirectiveBreakdowns through a controller-runtime
// client. The client's scheme must include the DWS types.
type ClientGetter struct {
	client.Reader
}

func (g *ClientGetter) GetDirectiveBreakdown(ctx context.Context, ref corev1.ObjectReference) (*dwsv1alpha2.DirectiveBreakdown, error) {
	dbd := &dwsv1alpha2.DirectiveBreakdown{}

	key := types.NamespacedName{Name: ref.Name, Namespace: ref.Namespace}
	if err := g.Get(ctx, key, dbd); err != nil {
		return nil, err
	}

	return dbd, nil
}
