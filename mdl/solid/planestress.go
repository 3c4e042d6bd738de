// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/tsr"
)

// PlaneStress implements the St. Venant-Kirchhoff hyperelastic law under
// the plane-stress reduction: stress is linear in the (Green-Lagrange)
// strain via a constant elasticity tensor and σzz = 0. The out-of-plane
// strain εzz = -ν/(1-ν)⋅(εxx+εyy) is stored for reporting only.
type PlaneStress struct {
	E  float64 // Young's modulus
	Nu float64 // Poisson's ratio
	T  float64 // thickness of plate
	Fy float64 // yield stress; 0 or negative means unbounded
}

// add model to factory
func init() {
	allocators["pstress"] = func() Model { return new(PlaneStress) }
}

// Init initialises model
func (o *PlaneStress) Init(ndim int, pstress bool, prms dbf.Params) (err error) {
	if ndim != 2 {
		return chk.Err("plane-stress model requires ndim=2 (got %d)", ndim)
	}
	if !pstress {
		return chk.Err("plane-stress model requires the pstress flag")
	}
	o.T = 1.0
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V
		case "nu":
			o.Nu = p.V
		case "t":
			o.T = p.V
		case "fy":
			o.Fy = p.V
		}
	}
	if o.E <= 0 {
		return chk.Err("plane-stress model requires E > 0 (got %g)", o.E)
	}
	if o.Nu < 0 || o.Nu >= 0.5 {
		return chk.Err("plane-stress model requires 0 ≤ ν < 0.5 (got %g)", o.Nu)
	}
	return
}

// GetPrms gets (an example of) parameters
func (o *PlaneStress) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "E", V: 10.0},
		&dbf.P{N: "nu", V: 0.3},
		&dbf.P{N: "t", V: 1.0},
		&dbf.P{N: "fy", V: 1e30},
	}
}

// GetThickness returns the out-of-plane thickness
func (o *PlaneStress) GetThickness() float64 { return o.T }

// Update overwrites the strain state with ε (Mandel components) and
// computes the corresponding stress. No history is kept.
func (o *PlaneStress) Update(s *State, ε []float64) (err error) {
	chk.IntAssert(len(ε), 4)
	εxx, εyy := ε[0], ε[1]
	εxy := ε[3] / tsr.SQ2 // tensorial shear component
	c := o.E / (1.0 - o.Nu*o.Nu)
	s.Eps[0] = εxx
	s.Eps[1] = εyy
	s.Eps[2] = -o.Nu / (1.0 - o.Nu) * (εxx + εyy)
	s.Eps[3] = ε[3]
	s.Sig[0] = c * (εxx + o.Nu*εyy)
	s.Sig[1] = c * (o.Nu*εxx + εyy)
	s.Sig[2] = 0
	s.Sig[3] = o.E / (1.0 + o.Nu) * εxy * tsr.SQ2
	return
}

// CalcD computes the (constant) tangent D = dσ/dε in Mandel representation
func (o *PlaneStress) CalcD(D [][]float64, s *State) (err error) {
	chk.IntAssert(len(D), 4)
	c := o.E / (1.0 - o.Nu*o.Nu)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			D[i][j] = 0
		}
	}
	D[0][0] = c
	D[1][1] = c
	D[0][1] = c * o.Nu
	D[1][0] = c * o.Nu
	D[3][3] = o.E / (1.0 + o.Nu)
	return
}
