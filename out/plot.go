// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"

	"github.com/strucmech/nlfem/fem"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"
)

// cellOutline returns the closed sequence of local vertex indices tracing
// the outline of one cell
func cellOutline(ctype string, nverts int) []int {
	if ctype == "truss" {
		return []int{0, 1}
	}
	l := utl.IntRange(nverts)
	return append(l, 0)
}

// PlotMesh draws the undeformed mesh (gray) and the deformed mesh (blue)
// with displacements amplified by scale. The figure is saved as
// <dirout>/<fnkey>_msh.eps
func PlotMesh(d *fem.Domain, dirout, fnkey string, scale float64) {
	plt.Reset()
	for _, c := range d.Sim.Cells {
		path := cellOutline(c.Type, len(c.Verts))
		n := len(path)
		x0, y0 := make([]float64, n), make([]float64, n)
		x1, y1 := make([]float64, n), make([]float64, n)
		for k, l := range path {
			nod := d.Vid2node[c.Verts[l]]
			x0[k], y0[k] = nod.X[0], nod.X[1]
			xd := nod.GetDeformedPos(scale)
			x1[k], y1[k] = xd[0], xd[1]
		}
		plt.Plot(x0, y0, "'-', color='#b7b7b7', clip_on=0")
		plt.Plot(x1, y1, "'b-', clip_on=0")
	}
	plt.Equal()
	plt.Gll("$x$", "$y$", "")
	plt.SaveD(dirout, fnkey+"_msh.eps")
}

// PlotLoadDisp draws the load factor versus the displacement of one DOF of
// one vertex, collected by the caller at the end of each increment
func PlotLoadDisp(λs, us []float64, key, dirout, fnkey string) {
	plt.Reset()
	plt.Plot(us, λs, io.Sf("'b-', marker='o', clip_on=0, label=%q", key))
	plt.Gll(io.Sf("$%s$", key), "$\\lambda$", "")
	plt.SaveD(dirout, fnkey+"_ld.eps")
}

// PlotConvergence draws the residual history of all increments on a log
// scale, one curve per increment
func PlotConvergence(sum *fem.Summary, dirout, fnkey string) {
	plt.Reset()
	for k, iters := range sum.Iters {
		its := make([]float64, len(iters))
		res := make([]float64, len(iters))
		for i, info := range iters {
			its[i] = float64(info.It)
			res[i] = math.Log10(info.LargFb + 1e-30)
		}
		plt.Plot(its, res, io.Sf("marker='.', clip_on=0, label='$\\\\lambda=%g$'", sum.Lambdas[k]))
	}
	plt.Gll("iteration", "$\\log_{10}(\\|R\\|_\\infty)$", "")
	plt.SaveD(dirout, fnkey+"_cnv.eps")
}
