// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/strucmech/nlfem/mdl/solid"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. read .sim file")

	sim := ReadSim("data/patch.sim", true)
	if sim == nil {
		tst.Errorf("cannot read patch.sim\n")
		return
	}

	// global data
	chk.String(tst, sim.Key, "patch")
	chk.IntAssert(sim.Ndim, 2)
	if !sim.Data.Pstress {
		tst.Errorf("pstress flag should be true\n")
		return
	}

	// mesh
	chk.IntAssert(len(sim.Verts), 9)
	chk.IntAssert(len(sim.Cells), 4)
	chk.Ints(tst, "cell 3 verts", sim.Cells[3].Verts, []int{4, 5, 8, 7})
	x := sim.BuildCoordsMatrix(sim.Cells[0])
	chk.Matrix(tst, "cell 0 coords", 1e-17, x, [][]float64{
		{0, 1, 1, 0},
		{0, 0, 1, 1},
	})

	// tags
	chk.IntAssert(len(sim.VtagVerts(-1)), 3)
	chk.IntAssert(len(sim.VtagVerts(-2)), 3)
	chk.IntAssert(len(sim.CtagCells(-2)), 2)

	// materials
	mdl := sim.GetMatModel("plate")
	if mdl == nil {
		tst.Errorf("material %q was not initialised\n", "plate")
		return
	}
	pls, ok := mdl.(solid.Plane)
	if !ok {
		tst.Errorf("material %q should implement the in-plane interface\n", "plate")
		return
	}
	chk.Scalar(tst, "thickness", 1e-17, pls.GetThickness(), 1.0)

	// boundary conditions
	chk.IntAssert(len(sim.Fixities), 1)
	chk.Strings(tst, "fixed keys", sim.Fixities[0].Keys, []string{"ux", "uy"})
	chk.IntAssert(len(sim.SurfLoads), 1)
	chk.Scalar(tst, "qn", 1e-17, sim.SurfLoads[0].Qn, 1.0)

	// solver defaults and derived constants
	chk.IntAssert(sim.Solver.NmaxIt, 10)
	chk.Scalar(tst, "fbtol", 1e-17, sim.Solver.FbTol, 1e-8)
	chk.Scalar(tst, "itol", 1e-12, sim.Solver.Itol, 1e-3)

	// load stepping
	chk.Scalar(tst, "lf", 1e-17, sim.Control.Lf, 1.0)
	chk.Scalar(tst, "dlf", 1e-17, sim.Control.Dlf, 0.25)
	chk.Scalar(tst, "dlf(0.5)", 1e-17, sim.Control.DlfFunc.F(0.5, nil), 0.25)
}
