// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Fiber implements a uniaxial (1D) material for truss elements: stress via
// the elastic modulus with an optional yield cutoff. With the cutoff
// active, stress is capped at ±fy and the tangent drops to zero; stress
// remains a pure function of the current strain.
type Fiber struct {
	E  float64 // Young's modulus
	A  float64 // cross-sectional area
	Fy float64 // yield stress; 0 or negative means unbounded
}

// add model to factory
func init() {
	allocators["fiber"] = func() Model { return new(Fiber) }
}

// Init initialises model
func (o *Fiber) Init(ndim int, pstress bool, prms dbf.Params) (err error) {
	o.A = 1.0
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V
		case "A":
			o.A = p.V
		case "fy":
			o.Fy = p.V
		}
	}
	if o.E <= 0 {
		return chk.Err("fiber model requires E > 0 (got %g)", o.E)
	}
	if o.A <= 0 {
		return chk.Err("fiber model requires A > 0 (got %g)", o.A)
	}
	return
}

// GetPrms gets (an example of) parameters
func (o *Fiber) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "E", V: 10.0},
		&dbf.P{N: "A", V: 1.0},
		&dbf.P{N: "fy", V: 1e30},
	}
}

// GetA returns the cross-sectional area
func (o *Fiber) GetA() float64 { return o.A }

// Update overwrites the strain state with ε and computes the stress
func (o *Fiber) Update(s *OnedState, ε float64) (err error) {
	s.Eps = ε
	s.Sig = o.E * ε
	if o.Fy > 0 && math.Abs(s.Sig) > o.Fy {
		s.Sig = math.Copysign(o.Fy, s.Sig)
	}
	return
}

// CalcD computes the tangent D = dσ/dε at the current strain
func (o *Fiber) CalcD(s *OnedState) (float64, error) {
	if o.Fy > 0 && math.Abs(o.E*s.Eps) > o.Fy {
		return 0, nil
	}
	return o.E, nil
}
