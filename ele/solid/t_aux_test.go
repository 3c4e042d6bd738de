// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"testing"

	"github.com/strucmech/nlfem/dom"
	"github.com/strucmech/nlfem/ele"
	"github.com/strucmech/nlfem/inp"
	msolid "github.com/strucmech/nlfem/mdl/solid"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/num"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// newTestSim builds a simulation structure with one material, without
// reading a .sim file
func newTestSim(tst *testing.T, ndim int, pstress bool, matname, modelname string, prms dbf.Params) *inp.Simulation {
	sim := new(inp.Simulation)
	sim.Ndim = ndim
	sim.Data.Pstress = pstress
	mdl, err := msolid.New(modelname)
	if err != nil {
		tst.Fatalf("cannot allocate model: %v\n", err)
	}
	err = mdl.Init(ndim, pstress, prms)
	if err != nil {
		tst.Fatalf("cannot initialise model: %v\n", err)
	}
	sim.MatModels = map[string]msolid.Model{matname: mdl}
	return sim
}

// newTestEle allocates one element with its nodes and a solution structure
// where every DOF is free and numbered sequentially, node-major
func newTestEle(tst *testing.T, sim *inp.Simulation, cell *inp.Cell, coords [][]float64) (e ele.Element, sol *ele.Solution) {

	// vertices
	sim.Cells = []*inp.Cell{cell}
	sim.Verts = make([]*inp.Vert, len(coords))
	for i, c := range coords {
		sim.Verts[i] = &inp.Vert{Id: i, C: c}
	}

	// nodes
	nodes := make([]*dom.Node, len(cell.Verts))
	for m, v := range cell.Verts {
		nodes[m] = dom.NewNode(coords[v]...)
		nodes[m].Id = v
	}

	// element
	e, err := ele.New(cell, nodes, sim)
	if err != nil {
		tst.Fatalf("cannot allocate element: %v\n", err)
	}

	// equations: sequential, node-major
	eqs := make([][]int, len(nodes))
	ny := 0
	for m, nod := range nodes {
		eqs[m] = make([]int, nod.Ndofs())
		for i := range eqs[m] {
			eqs[m][i] = ny
			ny++
		}
	}
	err = e.SetEqs(eqs)
	if err != nil {
		tst.Fatalf("SetEqs failed: %v\n", err)
	}

	// solution with all DOFs free
	sol = ele.NewSolution(ny)
	sol.Pstress = sim.Data.Pstress
	for i := 0; i < ny; i++ {
		sol.FreeMap[i] = i
	}
	return
}

// checkEleK compares the element tangent (assembled into a dense matrix via
// AddToKb) against central differences of the internal forces
func checkEleK(tst *testing.T, e ele.Element, sol *ele.Solution, tol float64) {

	// residual evaluator: r := -fb == fi - λ·loads
	ny := len(sol.Y)
	resid := func(i int) float64 {
		fb := make([]float64, ny)
		if err := e.Update(sol); err != nil {
			tst.Fatalf("Update failed: %v\n", err)
		}
		if err := e.AddToRhs(fb, sol); err != nil {
			tst.Fatalf("AddToRhs failed: %v\n", err)
		}
		return -fb[i]
	}

	// analytical K
	if err := e.Update(sol); err != nil {
		tst.Fatalf("Update failed: %v\n", err)
	}
	var Kb la.Triplet
	Kb.Init(ny, ny, ny*ny)
	if err := e.AddToKb(&Kb, sol, false); err != nil {
		tst.Fatalf("AddToKb failed: %v\n", err)
	}
	K := Kb.ToMatrix(nil).ToDense()

	// numerical K
	for i := 0; i < ny; i++ {
		for j := 0; j < ny; j++ {
			dnum, _ := num.DerivCentral(func(x float64, args ...interface{}) float64 {
				tmp := sol.Y[j]
				sol.Y[j] = x
				defer func() { sol.Y[j] = tmp }()
				return resid(i)
			}, sol.Y[j], 1e-6)
			chk.AnaNum(tst, io.Sf("K[%d][%d]", i, j), tol, K[i][j], dnum, chk.Verbose)
		}
	}

	// leave states consistent with sol.Y
	if err := e.Update(sol); err != nil {
		tst.Fatalf("Update failed: %v\n", err)
	}
}
