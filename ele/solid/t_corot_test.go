// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"
	"testing"

	"github.com/strucmech/nlfem/ele"
	"github.com/strucmech/nlfem/inp"

	"github.com/cpmech/gosl/chk"
)

func Test_corot01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("corot01. rigid rotation of a wrapped linear triangle")

	sim := newTestSim(tst, 2, true, "plate", "pstress", platePrms(10.0, 0.3, 1.0))
	cell := &inp.Cell{Id: 0, Type: "tri3", Corot: true, Mat: "plate", Verts: []int{0, 1, 2}}
	e, sol := newTestEle(tst, sim, cell, [][]float64{{0, 0}, {2, 0}, {0, 3}})
	cr, ok := e.(*ele.Corotational)
	if !ok {
		tst.Errorf("corot cell should allocate a corotational wrapper\n")
		return
	}

	// rigid rotation by 45° about the origin: the bare linear triangle would
	// report large spurious strains here; the wrapper must see none
	θ := math.Pi / 4.0
	c, s := math.Cos(θ), math.Sin(θ)
	for m, nod := range e.Nodes() {
		sol.Y[m*2+0] = c*nod.X[0] - s*nod.X[1] - nod.X[0]
		sol.Y[m*2+1] = s*nod.X[0] + c*nod.X[1] - nod.X[1]
	}
	if err := e.Update(sol); err != nil {
		tst.Errorf("Update failed: %v\n", err)
		return
	}

	// extracted rotation
	R := cr.Rot()
	chk.Matrix(tst, "R", 1e-13, R, [][]float64{{c, -s}, {s, c}})

	// residual forces vanish
	fb := make([]float64, len(sol.Y))
	if err := e.AddToRhs(fb, sol); err != nil {
		tst.Errorf("AddToRhs failed: %v\n", err)
		return
	}
	chk.Vector(tst, "fb", 1e-12, fb, make([]float64, 6))
}

func Test_corot02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("corot02. small strain agreement with the bare element")

	E, ν, t := 1500.0, 0.3, 1.0
	coords := [][]float64{{0, 0}, {1.2, 0.1}, {1.1, 1.3}, {-0.1, 0.9}}
	simA := newTestSim(tst, 2, true, "plate", "pstress", platePrms(E, ν, t))
	cellA := &inp.Cell{Id: 0, Type: "qua4", Mat: "plate", Verts: []int{0, 1, 2, 3}}
	ea, sola := newTestEle(tst, simA, cellA, coords)
	simB := newTestSim(tst, 2, true, "plate", "pstress", platePrms(E, ν, t))
	cellB := &inp.Cell{Id: 0, Type: "qua4", Corot: true, Mat: "plate", Verts: []int{0, 1, 2, 3}}
	eb, solb := newTestEle(tst, simB, cellB, coords)

	// small strains, no rotation: wrapper and bare element agree closely
	Y := []float64{0, 0, 1e-6, -2e-6, 0.5e-6, 1e-6, -1e-6, 0.2e-6}
	copy(sola.Y, Y)
	copy(solb.Y, Y)
	if err := ea.Update(sola); err != nil {
		tst.Errorf("Update failed: %v\n", err)
		return
	}
	if err := eb.Update(solb); err != nil {
		tst.Errorf("Update failed: %v\n", err)
		return
	}
	fba := make([]float64, 8)
	fbb := make([]float64, 8)
	ea.AddToRhs(fba, sola)
	eb.AddToRhs(fbb, solb)
	for i := 0; i < 8; i++ {
		chk.AnaNum(tst, "fb", 1e-9, fba[i], fbb[i], chk.Verbose)
	}
}

func Test_corot03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("corot03. stretch plus large rotation of a wrapped truss")

	// a truss stretched then rotated reports the same axial force as the
	// unrotated one, turned with the bar
	E, A, L := 100.0, 2.0, 4.0
	Δ := 0.01
	sim := newTestSim(tst, 2, false, "steel", "fiber", trussPrms(E, A))
	cell := &inp.Cell{Id: 0, Type: "truss", Corot: true, Mat: "steel", Verts: []int{0, 1}}
	e, sol := newTestEle(tst, sim, cell, [][]float64{{0, 0}, {L, 0}})

	// stretch to L+Δ, then rotate by 90° about node 0
	sol.Y[2] = -L // node 1: (L,0) => (0, L+Δ)
	sol.Y[3] = L + Δ
	// keep the centroid-based fit well posed by moving node 0 too
	if err := e.Update(sol); err != nil {
		tst.Errorf("Update failed: %v\n", err)
		return
	}
	cr := e.(*ele.Corotational)
	fi := make([]float64, 4)
	fb := make([]float64, 4)
	cr.AddToRhs(fb, sol)
	for i := range fb {
		fi[i] = -fb[i]
	}

	// wrapped truss is itself geometrically exact: chord strain identical
	εGL := ((L+Δ)*(L+Δ) - L*L) / (2.0 * L * L)
	f := A * E * εGL * (L + Δ) / L
	chk.Vector(tst, "fi", 1e-11, fi, []float64{0, -f, 0, f})
}
