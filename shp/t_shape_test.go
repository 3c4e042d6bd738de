// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

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

func Test_shape01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape01. shape functions and derivatives")

	r := []float64{0, 0, 0}

	verb := chk.Verbose
	for name, shape := range factory {

		io.Pfyel("--------------------------------- %-6s---------------------------------\n", name)

		// check S
		tol := 1e-17
		CheckShape(tst, shape, tol, verb)

		// check Sf
		tol = 1e-18
		CheckShapeFace(tst, shape, tol, verb)

		// check dSdR
		tol = 1e-14
		CheckDSdR(tst, shape, r, tol, verb)

		io.PfGreen("OK\n")
	}
}

func Test_shape02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape02. qua4 mapping and G derivatives")

	xmat := [][]float64{
		{10, 13, 13, 10},
		{8, 8, 9, 9},
	}
	dx, dy := 3.0, 1.0
	dr, ds := 2.0, 2.0
	r := []float64{0, 0, 0}
	shape := factory["qua4"]
	shape.CalcAtIp(xmat, r, true)
	io.Pforan("J = %v\n", shape.J)
	chk.Scalar(tst, "J", 1e-17, shape.J, (dx/dr)*(dy/ds))

	tol := 1e-14
	x := []float64{12.0, 8.5}
	CheckDSdx(tst, shape, xmat, x, tol, chk.Verbose)
}

func Test_shape03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape03. qua4 face normal vector")

	// unit square: face 1 is the right edge, outward normal = +x, length 1
	xmat := [][]float64{
		{0, 1, 1, 0},
		{0, 0, 1, 1},
	}
	shape := factory["qua4"]
	for _, ipf := range IpsLin2 {
		err := shape.CalcAtFaceIp(xmat, ipf, 1)
		if err != nil {
			tst.Errorf("CalcAtFaceIp failed:\n%v", err)
			return
		}
		chk.Vector(tst, "Fnvec @ face 1", 1e-15, shape.Fnvec, []float64{0.5, 0})
	}

	// face 3 is the left edge, outward normal = -x
	for _, ipf := range IpsLin2 {
		err := shape.CalcAtFaceIp(xmat, ipf, 3)
		if err != nil {
			tst.Errorf("CalcAtFaceIp failed:\n%v", err)
			return
		}
		chk.Vector(tst, "Fnvec @ face 3", 1e-15, shape.Fnvec, []float64{-0.5, 0})
	}
}
