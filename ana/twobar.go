// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// TwoBarTruss computes the solution to the shallow symmetric two-bar truss
// under a vertical load at the apex, with Green-Lagrange strain and a linear
// relation between the second Piola-Kirchhoff stress and the strain
//
//            P ↓
//            o          apex at (a, h)
//          ╱   ╲
//        ╱ E, A  ╲
//      ▲          ▲     supports at (0,0) and (2a,0)
//
type TwoBarTruss struct {
	E float64 // Young's modulus
	A float64 // cross-sectional area
	a float64 // half span
	h float64 // rise

	// derived
	L0 float64 // reference bar length
}

// NewTwoBarTruss returns a new structure with derived quantities computed
func NewTwoBarTruss(E, A, a, h float64) (o *TwoBarTruss) {
	o = &TwoBarTruss{E: E, A: A, a: a, h: h}
	o.L0 = math.Sqrt(a*a + h*h)
	return
}

// Strain computes the Green-Lagrange strain of both bars for a downward
// apex deflection w (positive down)
func (o TwoBarTruss) Strain(w float64) float64 {
	z := o.h - w
	return (z*z - o.h*o.h) / (2.0 * o.L0 * o.L0)
}

// Load computes the downward load held in equilibrium at deflection w
func (o TwoBarTruss) Load(w float64) float64 {
	return -2.0 * o.A * o.E * o.Strain(w) * (o.h - w) / o.L0
}

// LimitLoad computes the snap-through load: the maximum of Load(w)
func (o TwoBarTruss) LimitLoad() (wcr, Pcr float64) {
	// dP/dw == 0  =>  3w² - 6hw + 2h² == 0
	wcr = o.h * (1.0 - 1.0/math.Sqrt(3.0))
	Pcr = o.Load(wcr)
	return
}

// Deflection solves Load(w) == P for the primary (stable) branch, with P
// below the snap-through load
func (o TwoBarTruss) Deflection(P float64) (w float64) {
	wcr, Pcr := o.LimitLoad()
	if P >= Pcr {
		chk.Panic("load P=%g is beyond the snap-through load %g", P, Pcr)
	}
	for it := 0; it < 50; it++ {
		r := o.Load(w) - P
		if math.Abs(r) < 1e-13*(1.0+math.Abs(P)) {
			return
		}
		// dP/dw = AE(2h² - 6hw + 3w²)/L0³
		dPdw := o.A * o.E * (2.0*o.h*o.h - 6.0*o.h*w + 3.0*w*w) / (o.L0 * o.L0 * o.L0)
		w -= r / dPdw
		if w < 0 {
			w = 0
		}
		if w > wcr {
			w = wcr
		}
	}
	chk.Panic("deflection iterations did not converge with P=%g", P)
	return
}
