// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/strucmech/nlfem/ana"
	"github.com/strucmech/nlfem/inp"
	msolid "github.com/strucmech/nlfem/mdl/solid"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// uniformPatch relaxes the left-edge fixities so that the plate carries a
// homogeneous stress state: left edge slides vertically (ux only) and the
// bottom-left corner pins uy
func uniformPatch(sim *inp.Simulation) {
	sim.Verts[0].Tag = -4
	sim.Fixities = []*inp.FixBc{
		{Tag: -1, Keys: []string{"ux"}},
		{Tag: -4, Keys: []string{"ux", "uy"}},
	}
}

func Test_patch01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("patch01. homogeneous stretch: linear elements are exact")

	// E=10, ν=0.3, qn=2 => σxx=2, εxx=0.2, εyy=-0.06
	var sol ana.UniaxialElastic
	sol.Init(dbf.Params{
		&dbf.P{N: "E", V: 10.0},
		&dbf.P{N: "nu", V: 0.3},
	})
	εx, εy := sol.Strain(2.0)
	for _, etype := range []string{"qua4", "tri3"} {
		sim := TestingPlateSim(tst, 4, 4, 1.0, 1.0, 2.0, etype, false, 1, 0.5)
		uniformPatch(sim)
		m := TestingRunSim(tst, sim, chk.Verbose)

		// all right-edge vertices stretch by εx·lx; the top edge contracts
		for _, v := range sim.Verts {
			if v.C[0] > 0.999 {
				chk.Scalar(tst, io.Sf("%s: ux @ vert %d", etype, v.Id), 1e-10, m.Dom.NodeDisp(v.Id, "ux"), εx)
			}
			if v.C[1] > 0.999 {
				chk.Scalar(tst, io.Sf("%s: uy @ vert %d", etype, v.Id), 1e-10, m.Dom.NodeDisp(v.Id, "uy"), εy)
			}
		}
		m.Clean()
	}
}

func Test_patch02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("patch02. all formulations agree at small strains")

	// pinned left edge, edge traction giving strains around 1e-4
	nx, ny := 10, 10
	tip := (ny/2)*(nx+1) + nx // middle of the right edge
	run := func(etype string, corot bool) float64 {
		sim := TestingPlateSim(tst, nx, ny, 1.0, 1.0, 1e-3, etype, corot, 1, 1)
		m := TestingRunSim(tst, sim, chk.Verbose)
		defer m.Clean()
		return m.Dom.NodeDisp(tip, "ux")
	}
	uref := run("qua4", false)
	io.Pforan("tip ux (qua4) = %g\n", uref)
	if uref < 1e-6 || uref > 1e-3 {
		tst.Errorf("reference tip displacement out of range: %g\n", uref)
		return
	}
	tol := 1e-3 * uref
	chk.Scalar(tst, "qua4-corot vs qua4", tol, run("qua4", true), uref)

	// triangles against each other (coarser than quads, so separate reference)
	utri := run("tri3", false)
	tolt := 1e-3 * utri
	chk.Scalar(tst, "tri3-tl    vs tri3", tolt, run("tri3-tl", false), utri)
	chk.Scalar(tst, "tri3-corot vs tri3", tolt, run("tri3", true), utri)
}

func Test_patch03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("patch03. large homogeneous stretch of finite-strain triangles")

	// reference traction qn=0.1 driven to λ=50 in equal increments; E=10
	E, qn, lf := 10.0, 0.1, 50.0
	sim := TestingPlateSim(tst, 4, 4, 1.0, 1.0, qn, "tri3-tl", false, lf, 5.0)
	uniformPatch(sim)
	m := TestingRunSim(tst, sim, chk.Verbose)
	defer m.Clean()

	// homogeneous deformation: all right-edge vertices stretch equally
	ux := m.Dom.NodeDisp(4, "ux")
	for _, v := range sim.Verts {
		if v.C[0] > 0.999 {
			chk.Scalar(tst, io.Sf("ux @ vert %d", v.Id), 1e-8, m.Dom.NodeDisp(v.Id, "ux"), ux)
		}
	}

	// closed-form uniaxial stretch
	s := 1.0 + ux
	io.Pforan("stretch = %g\n", s)
	sol := ana.UniaxialKirchhoff{E: E}
	chk.Scalar(tst, "stretch", 1e-7, s, sol.Stretch(lf*qn))

	// stiffening response: doubling the load less than doubles the stretch
	sim1 := TestingPlateSim(tst, 4, 4, 1.0, 1.0, qn, "tri3-tl", false, lf/2, 5.0)
	uniformPatch(sim1)
	m1 := TestingRunSim(tst, sim1, chk.Verbose)
	defer m1.Clean()
	ux1 := m1.Dom.NodeDisp(4, "ux")
	if ux >= 2*ux1 {
		tst.Errorf("response should stiffen in tension: u(λ)=%g u(λ/2)=%g\n", ux, ux1)
		return
	}

	// summary
	chk.IntAssert(len(m.Summary.Lambdas), 10)
	chk.Scalar(tst, "final λ", 1e-15, m.Summary.Lambdas[9], lf)
}

func Test_patch04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("patch04. corotational frame under rotation-free stretch")

	// pure stretch has no rotation: the corotational quad must reproduce the
	// small-strain answer exactly, even at large λ
	E, qn, lf := 10.0, 1.0, 5.0
	sim := TestingPlateSim(tst, 3, 3, 1.0, 1.0, qn, "qua4", true, lf, 1.0)
	uniformPatch(sim)
	m := TestingRunSim(tst, sim, chk.Verbose)
	defer m.Clean()
	for _, v := range sim.Verts {
		if v.C[0] > 0.999 {
			chk.Scalar(tst, io.Sf("ux @ vert %d", v.Id), 1e-9, m.Dom.NodeDisp(v.Id, "ux"), lf*qn/E)
		}
	}

	// corotational triangles agree with the total-Lagrangian ones while the
	// strains are moderate
	simA := TestingPlateSim(tst, 6, 6, 1.0, 1.0, 0.01, "tri3", true, 1, 0.5)
	mA := TestingRunSim(tst, simA, chk.Verbose)
	defer mA.Clean()
	simB := TestingPlateSim(tst, 6, 6, 1.0, 1.0, 0.01, "tri3-tl", false, 1, 0.5)
	mB := TestingRunSim(tst, simB, chk.Verbose)
	defer mB.Clean()
	tip := 3*7 + 6
	uA := mA.Dom.NodeDisp(tip, "ux")
	uB := mB.Dom.NodeDisp(tip, "ux")
	io.Pforan("tip ux: corot=%g tl=%g\n", uA, uB)
	chk.Scalar(tst, "corot vs total-Lagrangian", 2e-2*uB, uA, uB)
}

// cornerLoadSim builds a square patch of side 10 split into two triangles:
// both bottom corners fully fixed and a unit reference load pulling the
// top-right corner in y. E=10, ν=0.3, t=1, plane-stress.
func cornerLoadSim(tst *testing.T, etype string, corot bool, lf, dlf float64) *inp.Simulation {
	sim := new(inp.Simulation)
	sim.Data.Desc = "square patch with corner load"
	sim.Data.Pstress = true
	sim.Key = io.Sf("corner-%s", etype)
	sim.DirOut = "/tmp/nlfem"
	sim.Ndim = 2
	sim.Verts = []*inp.Vert{
		{Id: 0, Tag: -1, C: []float64{0, 0}},
		{Id: 1, Tag: -1, C: []float64{10, 0}},
		{Id: 2, Tag: -3, C: []float64{10, 10}},
		{Id: 3, C: []float64{0, 10}},
	}
	sim.Cells = []*inp.Cell{
		{Id: 0, Type: etype, Corot: corot, Mat: "plate", Verts: []int{0, 1, 2}},
		{Id: 1, Type: etype, Corot: corot, Mat: "plate", Verts: []int{0, 2, 3}},
	}
	sim.Fixities = []*inp.FixBc{{Tag: -1, Keys: []string{"ux", "uy"}}}
	sim.Loads = []*inp.LoadBc{{Tag: -3, Keys: []string{"uy"}, Vals: []float64{1}}}
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
	sim.LinSol.SetDefault()
	sim.Solver.SetDefault()
	sim.Solver.NmaxIt = 40
	sim.Solver.DvgCtrl = true
	sim.Solver.PostProcess()
	sim.Control.Lf = lf
	sim.Control.Dlf = dlf
	sim.Control.DlfFunc = &dbf.Cte{C: dlf}
	return sim
}

func Test_patch05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("patch05. corner-loaded square: formulations agree then part ways")

	// y-load at the top-right corner; the corner displacement is read there
	run := func(etype string, corot bool, lf, dlf float64) (*Main, float64) {
		m := TestingRunSim(tst, cornerLoadSim(tst, etype, corot, lf, dlf), chk.Verbose)
		return m, m.Dom.NodeDisp(2, "uy")
	}

	// small load factor: linear, total-Lagrangian and corotational answers
	// coincide within 1e-3 relative
	mlin, uref := run("tri3", false, 0.01, 0.01)
	defer mlin.Clean()
	io.Pforan("corner uy (linear) = %g\n", uref)
	if uref <= 0 {
		tst.Errorf("corner should move up under the y-load: uy=%g\n", uref)
		return
	}
	mtl, utl := run("tri3-tl", false, 0.01, 0.01)
	defer mtl.Clean()
	mcor, ucor := run("tri3", true, 0.01, 0.01)
	defer mcor.Clean()
	chk.Scalar(tst, "tri3-tl    vs tri3", 1e-3*uref, utl, uref)
	chk.Scalar(tst, "tri3-corot vs tri3", 1e-3*uref, ucor, uref)

	// λ -> 50 in equal increments: the finite-deformation formulations must
	// keep converging while the deformation grows far beyond small strains
	mTL, uyTL := run("tri3-tl", false, 50, 2.5)
	defer mTL.Clean()
	mCR, uyCR := run("tri3", true, 50, 2.5)
	defer mCR.Clean()
	for _, m := range []*Main{mTL, mCR} {
		n := len(m.Summary.Lambdas)
		chk.Scalar(tst, "final λ", 1e-13, m.Summary.Lambdas[n-1], 50)
		if m.Summary.Statuses[n-1] != StatConverged {
			tst.Errorf("last increment did not converge: %q\n", m.Summary.Statuses[n-1])
			return
		}
	}

	// the linear answer scales with λ; the stretched patch stiffens, so the
	// small-strain assumption overshoots the finite-deformation result
	uyLin := 50.0 / 0.01 * uref
	io.Pforan("corner uy at λ=50: linear=%g tl=%g corot=%g\n", uyLin, uyTL, uyCR)
	if uyTL <= 0 || uyCR <= 0 {
		tst.Errorf("finite-deformation displacements should stay positive: tl=%g corot=%g\n", uyTL, uyCR)
		return
	}
	if uyLin < 1.05*uyTL {
		tst.Errorf("linear extrapolation should overshoot the stiffening response: lin=%g tl=%g\n", uyLin, uyTL)
		return
	}
}
