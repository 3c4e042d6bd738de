// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// UniaxialElastic computes the solution to a plane-stress plate under
// homogeneous uniaxial tension along x
//
//      ↑↑↑↑↑  free
//    o-----------o →
//    |           | →
//    |   E, ν    | →   p      positive p means tension
//    |           | →
//    o-----------o →
//
type UniaxialElastic struct {
	E float64 // Young's modulus
	ν float64 // Poisson's coefficient
}

// Init initialises this structure
func (o *UniaxialElastic) Init(prms dbf.Params) {
	o.E = 1000.0
	o.ν = 0.25
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V
		case "nu":
			o.ν = p.V
		}
	}
}

// Strain computes the strain components for a given tension p
func (o UniaxialElastic) Strain(p float64) (εx, εy float64) {
	εx = p / o.E
	εy = -o.ν * εx
	return
}

// Stress computes the stress components; only σx is nonzero
func (o UniaxialElastic) Stress(p float64) (σ []float64) {
	return []float64{p, 0, 0, 0}
}

// UniaxialKirchhoff computes the solution to a plate of Kirchhoff material
// under homogeneous uniaxial tension with the traction p applied per unit
// reference area. The lateral faces are unconstrained, thus the second
// Piola-Kirchhoff stress has a single nonzero component S = E·(s²-1)/2
// where s is the stretch along x.
type UniaxialKirchhoff struct {
	E float64 // Young's modulus
}

// Stretch solves  s·E·(s²-1)/2 == p  for the stretch s
func (o UniaxialKirchhoff) Stretch(p float64) (s float64) {
	s = 1.0
	for it := 0; it < 50; it++ {
		r := s*o.E*(s*s-1.0)/2.0 - p
		if math.Abs(r) < 1e-13*(1.0+math.Abs(p)) {
			return
		}
		s -= r / (o.E * (3.0*s*s - 1.0) / 2.0)
	}
	chk.Panic("stretch iterations did not converge with p=%g", p)
	return
}

// Traction computes the reference traction keeping a bar stretched by s
func (o UniaxialKirchhoff) Traction(s float64) float64 {
	return s * o.E * (s*s - 1.0) / 2.0
}
