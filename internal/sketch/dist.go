/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package sketch

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution produces random samples; gonum's distuv types satisfy it.
type Distribution interface {
	Rand() float64
}

// DistKind names a supported distribution family.
type DistKind string

const (
	DistUniform  DistKind = "uniform"
	DistNormal   DistKind = "normal"
	DistConstant DistKind = "constant"
)

// Dist is a serializable distribution description. For uniform A and B are
// the bounds, for normal they are mean and standard deviation, and for
// constant only A is used.
type Dist struct {
	Kind DistKind `yaml:"kind" json:"kind"`
	A    float64  `yaml:"a" json:"a"`
	B    float64  `yaml:"b" json:"b"`
}

// Uniform describes a uniform distribution on [lo, hi).
func Uniform(lo, hi float64) Dist { return Dist{Kind: DistUniform, A: lo, B: hi} }

// Normal describes a normal distribution.
func Normal(mean, stddev float64) Dist { return Dist{Kind: DistNormal, A: mean, B: stddev} }

// Constant always yields v.
func Constant(v float64) Dist { return Dist{Kind: DistConstant, A: v} }

func (d Dist) validate() error {
	switch d.Kind {
	case DistUniform:
		if d.A > d.B {
			return fmt.Errorf("uniform lower bound %g exceeds upper bound %g", d.A, d.B)
		}
	case DistNormal:
		if d.B < 0 {
			return fmt.Errorf("normal standard deviation %g is negative", d.B)
		}
	case DistConstant:
	default:
		return fmt.Errorf("unknown distribution kind %q", d.Kind)
	}
	return nil
}

// build binds d to src so every sample comes from the sketch's seeded stream.
func (d Dist) build(src rand.Source) Distribution {
	switch d.Kind {
	case DistNormal:
		return distuv.Normal{Mu: d.A, Sigma: d.B, Src: src}
	case DistConstant:
		return distuv.Uniform{Min: d.A, Max: d.A, Src: src}
	default:
		return distuv.Uniform{Min: d.A, Max: d.B, Src: src}
	}
}

func (d Dist) String() string {
	switch d.Kind {
	case DistConstant:
		return fmt.Sprintf("constant(%g)", d.A)
	default:
		return fmt.Sprintf("%s(%g, %g)", d.Kind, d.A, d.B)
	}
}
