// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/strucmech/nlfem/inp"
	msolid "github.com/strucmech/nlfem/mdl/solid"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/num"
)

// TestingDefineDebugKb sets a callback that compares the global Jacobian,
// assembled by the elements, against central differences of the residual
func TestingDefineDebugKb(tst *testing.T, o *Main, tol float64, verb bool) {
	o.SetDebugKb(func(d *Domain, it int) {

		// analytical Kb
		Kana := d.Kb.ToMatrix(nil).ToDense()

		// residual evaluator
		λ := d.Sol.T
		fb := make([]float64, d.Nfree)
		resid := func(i int) float64 {
			if err := d.UpdateElems(); err != nil {
				tst.Fatalf("UpdateElems failed: %v\n", err)
			}
			la.VecFill(fb, 0)
			for _, e := range d.Elems {
				if err := e.AddToRhs(fb, d.Sol); err != nil {
					tst.Fatalf("AddToRhs failed: %v\n", err)
				}
			}
			d.AddNodalToRhs(fb, λ)
			return -fb[i]
		}

		// numerical Kb
		for i := 0; i < d.Nfree; i++ {
			for j := 0; j < d.Nfree; j++ {
				J := d.FreeEqs[j]
				dnum, _ := num.DerivCentral(func(x float64, args ...interface{}) float64 {
					tmp := d.Sol.Y[J]
					d.Sol.Y[J] = x
					defer func() { d.Sol.Y[J] = tmp }()
					return resid(i)
				}, d.Sol.Y[J], 1e-6)
				chk.AnaNum(tst, io.Sf("Kb[%d][%d]", i, j), tol, Kana[i][j], dnum, verb)
			}
		}

		// leave element states consistent with the solution
		if err := d.UpdateElems(); err != nil {
			tst.Fatalf("UpdateElems failed: %v\n", err)
		}
	})
}

// TestingPlateSim builds, without reading a .sim file, a rectangular plate of
// size lx by ly discretised into an nx by ny grid. The left edge is pinned
// and a reference normal traction qn pulls the right edge. etype selects the
// element ("qua4", "tri3" or "tri3-tl"; quads are split into two triangles);
// corot wraps every element with a corotational frame. The load factor goes
// from 0 to lf in increments dlf.
func TestingPlateSim(tst *testing.T, nx, ny int, lx, ly, qn float64, etype string, corot bool, lf, dlf float64) *inp.Simulation {

	// global data
	sim := new(inp.Simulation)
	sim.Data.Desc = "plate with edge traction"
	sim.Data.Pstress = true
	sim.Key = io.Sf("plate-%s-%dx%d", etype, nx, ny)
	sim.DirOut = "/tmp/nlfem"
	sim.Ndim = 2

	// vertices; left edge tagged -1
	dx, dy := lx/float64(nx), ly/float64(ny)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			tag := 0
			if i == 0 {
				tag = -1
			}
			sim.Verts = append(sim.Verts, &inp.Vert{
				Id:  j*(nx+1) + i,
				Tag: tag,
				C:   []float64{float64(i) * dx, float64(j) * dy},
			})
		}
	}

	// cells; the ones carrying the right edge tagged -2
	cid := 0
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			n0 := j*(nx+1) + i
			n1, n2, n3 := n0+1, n0+nx+2, n0+nx+1
			tag := 0
			if i == nx-1 {
				tag = -2
			}
			if etype == "qua4" {
				sim.Cells = append(sim.Cells, &inp.Cell{Id: cid, Tag: tag, Type: etype, Corot: corot, Mat: "plate", Verts: []int{n0, n1, n2, n3}})
				cid++
				continue
			}
			// split into two triangles; the first one holds the right edge
			sim.Cells = append(sim.Cells, &inp.Cell{Id: cid, Tag: tag, Type: etype, Corot: corot, Mat: "plate", Verts: []int{n0, n1, n2}})
			cid++
			sim.Cells = append(sim.Cells, &inp.Cell{Id: cid, Type: etype, Corot: corot, Mat: "plate", Verts: []int{n0, n2, n3}})
			cid++
		}
	}

	// boundary conditions; right edge == local face/edge 1 for both shapes
	sim.Fixities = []*inp.FixBc{{Tag: -1, Keys: []string{"ux", "uy"}}}
	sim.SurfLoads = []*inp.FaceBc{{Tag: -2, Face: 1, Qn: qn}}

	// material
	prms := dbf.Params{
		&dbf.P{N: "E", V: 10.0},
		&dbf.P{N: "nu", V: 0.3},
		&dbf.P{N: "t", V: 1.0},
	}
	sim.Materials = []*inp.Material{{Name: "plate", Model: "pstress", Prms: prms}}
	mdl, err := msolid.New("pstress")
	if err != nil {
		tst.Fatalf("cannot allocate model: %v\n", err)
	}
	if err = mdl.Init(2, true, prms); err != nil {
		tst.Fatalf("cannot initialise model: %v\n", err)
	}
	sim.MatModels = map[string]msolid.Model{"plate": mdl}

	// solver and load stepping
	sim.LinSol.SetDefault()
	sim.Solver.SetDefault()
	sim.Solver.PostProcess()
	sim.Control.Lf = lf
	sim.Control.Dlf = dlf
	sim.Control.DlfFunc = &dbf.Cte{C: dlf}
	return sim
}

// TestingMain builds Main around an already constructed simulation,
// bypassing ReadSim
func TestingMain(tst *testing.T, sim *inp.Simulation, verbose bool) *Main {
	o, err := NewMainFromSim(sim, true, verbose)
	if err != nil {
		tst.Fatalf("cannot allocate main: %v\n", err)
	}
	return o
}

// TestingRunSim builds Main around an already constructed simulation and
// runs the load steps
func TestingRunSim(tst *testing.T, sim *inp.Simulation, verbose bool) *Main {
	o := TestingMain(tst, sim, verbose)
	err := o.Solver.Run(sim.Control.Lf, sim.Control.DlfFunc, verbose)
	if err != nil {
		tst.Fatalf("solver failed: %v\n", err)
	}
	o.Dom.SyncNodes()
	return o
}
