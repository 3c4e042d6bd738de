// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"testing"

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

// fakeEle stands in for an element registering DOFs
type fakeEle struct{ id int }

func (o *fakeEle) Id() int { return o.id }

func Test_node01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("node01. DOF registration and lookup")

	nod := NewNode(1.0, 2.0)
	chk.IntAssert(nod.Ndim(), 2)

	e0 := &fakeEle{id: 0}
	e1 := &fakeEle{id: 1}

	// registration assigns local indices in insertion order
	idx := nod.Request([]string{"ux", "uy"}, e0)
	chk.Ints(tst, "idx (first request)", idx, []int{0, 1})

	// a second caller sharing codes gets the same indices; new codes extend
	idx = nod.Request([]string{"uy", "rz"}, e1)
	chk.Ints(tst, "idx (second request)", idx, []int{1, 2})
	chk.IntAssert(nod.Ndofs(), 3)
	chk.IntAssert(len(nod.Callers()), 2)

	// repeated request by the same caller changes nothing
	idx = nod.Request([]string{"ux", "uy"}, e0)
	chk.Ints(tst, "idx (repeated request)", idx, []int{0, 1})
	chk.IntAssert(nod.Ndofs(), 3)
	chk.IntAssert(len(nod.Callers()), 2)

	// lookup
	idx, err := nod.Dof2idx([]string{"rz", "ux"})
	if err != nil {
		tst.Errorf("Dof2idx failed: %v\n", err)
		return
	}
	chk.Ints(tst, "Dof2idx", idx, []int{2, 0})

	// lookup of unregistered code fails
	_, err = nod.Dof2idx([]string{"uz"})
	if err == nil {
		tst.Errorf("Dof2idx should have failed for unregistered code\n")
		return
	}

	// GetEq before numbering
	chk.IntAssert(nod.GetEq("ux"), -1)
	chk.IntAssert(nod.GetEq("uz"), -1)
}

func Test_node02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("node02. fixities, prescribed values and loads")

	nod := NewNode(0.0, 0.0)
	e0 := &fakeEle{id: 0}
	nod.Request([]string{"ux", "uy"}, e0)

	// fixities can be set at any time; SetDisp implies fixity
	nod.FixDOF("ux")
	nod.SetDisp("uy", 0.01)
	if !nod.IsFixed("ux") || !nod.IsFixed("uy") {
		tst.Errorf("fixities were not recorded\n")
		return
	}
	chk.Scalar(tst, "prescribed ux", 1e-17, nod.Prescribed("ux"), 0.0)
	chk.Scalar(tst, "prescribed uy", 1e-17, nod.Prescribed("uy"), 0.01)

	// loads project into local DOF ordering; AddLoad accumulates
	nod.SetLoad([]float64{1, 2}, []string{"ux", "uy"})
	nod.AddLoad([]float64{0.5}, []string{"uy"})
	chk.Vector(tst, "load", 1e-17, nod.GetLoad(), []float64{1, 2.5})
	if !nod.HasLoad() {
		tst.Errorf("HasLoad should be true\n")
		return
	}
	nod.ResetLoads()
	chk.Vector(tst, "load (reset)", 1e-17, nod.GetLoad(), []float64{0, 0})

	// deformed position uses translational DOFs only
	nod.U[0] = 0.1
	nod.U[1] = -0.2
	chk.Vector(tst, "deformed pos", 1e-17, nod.GetDeformedPos(10.0), []float64{1, -2})
}
