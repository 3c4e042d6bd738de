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
	"github.com/cpmech/gosl/fun/dbf"
)

func platePrms(E, ν, t float64) dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "E", V: E},
		&dbf.P{N: "nu", V: ν},
		&dbf.P{N: "t", V: t},
	}
}

// applyField imposes u = A x on all nodes of the element, where A is a 2x2
// displacement gradient
func applyField(e ele.Element, sol *ele.Solution, A [][]float64) {
	for m, nod := range e.Nodes() {
		for i := 0; i < 2; i++ {
			u := 0.0
			for j := 0; j < 2; j++ {
				u += A[i][j] * nod.X[j]
			}
			sol.Y[m*2+i] = u
		}
	}
}

func Test_tri01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tri01. uniform strain gives uniform stress")

	E, ν, t := 10.0, 0.25, 1.0
	sim := newTestSim(tst, 2, true, "plate", "pstress", platePrms(E, ν, t))
	cell := &inp.Cell{Id: 0, Type: "tri3", Mat: "plate", Verts: []int{0, 1, 2}}
	e, sol := newTestEle(tst, sim, cell, [][]float64{{0, 0}, {2, 0}, {0, 3}})
	tri := e.(*Triangle)
	chk.Scalar(tst, "area", 1e-15, tri.Area, 3.0)

	// uniaxial stretch εxx with lateral contraction: σ = {E εxx, 0}
	εxx := 1e-3
	applyField(e, sol, [][]float64{{εxx, 0}, {0, -ν * εxx}})
	err := e.Update(sol)
	if err != nil {
		tst.Errorf("Update failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "σxx", 1e-13, tri.State.Sig[0], E*εxx)
	chk.Scalar(tst, "σyy", 1e-13, tri.State.Sig[1], 0)
}

func Test_tri02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tri02. stiffness vs numerical derivatives")

	sim := newTestSim(tst, 2, true, "plate", "pstress", platePrms(1500.0, 0.3, 0.5))
	cell := &inp.Cell{Id: 0, Type: "tri3", Mat: "plate", Verts: []int{0, 1, 2}}
	e, sol := newTestEle(tst, sim, cell, [][]float64{{0.1, 0}, {1.2, 0.3}, {0.2, 1.1}})
	sol.Y = []float64{0, 0, 1e-3, -2e-3, 0.5e-3, 1e-3}
	checkEleK(tst, e, sol, 1e-5)
}

func Test_tritl01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tritl01. small strain agreement with the linear triangle")

	E, ν, t := 10.0, 0.3, 1.0
	coords := [][]float64{{0, 0}, {1.5, 0.2}, {0.3, 1.2}}
	simA := newTestSim(tst, 2, true, "plate", "pstress", platePrms(E, ν, t))
	cellA := &inp.Cell{Id: 0, Type: "tri3", Mat: "plate", Verts: []int{0, 1, 2}}
	ea, sola := newTestEle(tst, simA, cellA, coords)
	simB := newTestSim(tst, 2, true, "plate", "pstress", platePrms(E, ν, t))
	cellB := &inp.Cell{Id: 0, Type: "tri3-tl", Mat: "plate", Verts: []int{0, 1, 2}}
	eb, solb := newTestEle(tst, simB, cellB, coords)

	// tiny strains: formulations agree to O(ε²)
	Y := []float64{0, 0, 1e-6, -2e-6, 0.5e-6, 1e-6}
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
	fa := ea.(*Triangle).LocalFint()
	fbv := eb.(*TriangleTL).LocalFint()
	for i := 0; i < 6; i++ {
		chk.AnaNum(tst, "fi", 1e-10, fa[i], fbv[i], chk.Verbose)
	}
}

func Test_tritl02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tritl02. rigid rotation produces no force")

	sim := newTestSim(tst, 2, true, "plate", "pstress", platePrms(10.0, 0.3, 1.0))
	cell := &inp.Cell{Id: 0, Type: "tri3-tl", Mat: "plate", Verts: []int{0, 1, 2}}
	e, sol := newTestEle(tst, sim, cell, [][]float64{{0, 0}, {2, 0}, {0, 3}})
	tri := e.(*TriangleTL)

	// rigid rotation by 30° about the origin
	θ := math.Pi / 6.0
	c, s := math.Cos(θ), math.Sin(θ)
	for m, nod := range e.Nodes() {
		sol.Y[m*2+0] = c*nod.X[0] - s*nod.X[1] - nod.X[0]
		sol.Y[m*2+1] = s*nod.X[0] + c*nod.X[1] - nod.X[1]
	}
	if err := e.Update(sol); err != nil {
		tst.Errorf("Update failed: %v\n", err)
		return
	}
	chk.Vector(tst, "ε", 1e-14, tri.ε, []float64{0, 0, 0, 0})
	chk.Vector(tst, "fi", 1e-13, tri.LocalFint(), make([]float64, 6))
}

func Test_tritl03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tritl03. consistent tangent vs numerical derivatives")

	sim := newTestSim(tst, 2, true, "plate", "pstress", platePrms(1500.0, 0.3, 1.0))
	cell := &inp.Cell{Id: 0, Type: "tri3-tl", Mat: "plate", Verts: []int{0, 1, 2}}
	e, sol := newTestEle(tst, sim, cell, [][]float64{{0, 0}, {1.2, 0.1}, {0.2, 1.4}})

	// large displacement state
	sol.Y = []float64{0.01, -0.02, 0.08, 0.03, -0.01, 0.09}
	checkEleK(tst, e, sol, 1e-4)
}

func Test_trisurf01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("trisurf01. edge traction lumping")

	sim := newTestSim(tst, 2, true, "plate", "pstress", platePrms(10.0, 0.3, 2.0))
	cell := &inp.Cell{Id: 0, Type: "tri3", Mat: "plate", Verts: []int{0, 1, 2}}
	e, _ := newTestEle(tst, sim, cell, [][]float64{{0, 0}, {1, 0}, {0, 1}})
	tri := e.(*Triangle)

	// edge 0 runs from (0,0) to (1,0); outward normal is -y; qn=3, t=2
	err := tri.SetSurfLoad(0, 3.0)
	if err != nil {
		tst.Errorf("SetSurfLoad failed: %v\n", err)
		return
	}
	chk.Vector(tst, "fx", 1e-14, tri.LocalLoads(), []float64{0, -3, 0, -3, 0, 0})

	// loads accumulate; clearing resets
	tri.SetSurfLoad(0, 3.0)
	chk.Scalar(tst, "fx accumulated", 1e-14, tri.LocalLoads()[1], -6.0)
	tri.ClearSurfLoads()
	chk.Vector(tst, "fx cleared", 1e-17, tri.LocalLoads(), make([]float64, 6))
}
