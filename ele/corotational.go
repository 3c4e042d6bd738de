// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/strucmech/nlfem/dom"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"
)

// Corotational wraps another element with a corotational frame: at every
// update the best-fit rigid rotation R between the reference and the current
// nodal positions is extracted (Kabsch, via SVD), the nodal motion is
// back-rotated before being handed to the wrapped element, and the resulting
// internal forces and stiffness are rotated forward:
//  f_I  = R f'_I
//  K_IJ = R K'_IJ Rᵀ
// A small-strain element wrapped this way becomes exact under arbitrarily
// large rigid motion. Applied loads stay in the global frame.
type Corotational struct {

	// wrapped element
	W Wrappable // the element operating in the back-rotated frame

	// essential
	eqs    []int // flat global equation numbers, node-major
	ndim   int   // space dimension
	nverts int   // number of connected nodes

	// rotation
	rot [][]float64 // [ndim][ndim] current best-fit rotation R

	// caches (recomputed at every Update)
	fi     []float64   // rotated internal forces
	k      [][]float64 // rotated stiffness
	locSol *Solution   // scratch solution holding back-rotated DOFs

	// scratch
	xcen, Xcen []float64   // deformed and reference centroids
	uloc       []float64   // [ndim] back-rotated displacement of one node
	h          *mat.Dense  // [ndim][ndim] cross-covariance Σ (X-X̄)(x-x̄)ᵀ
	svd        mat.SVD
}

// NewCorotational returns a corotational frame around a wrappable element
func NewCorotational(w Wrappable) *Corotational {
	o := new(Corotational)
	o.W = w
	return o
}

// Id returns the cell Id of the wrapped element
func (o *Corotational) Id() int { return o.W.Id() }

// Nodes returns the connected nodes of the wrapped element
func (o *Corotational) Nodes() []*dom.Node { return o.W.Nodes() }

// SetEqs sets equations
func (o *Corotational) SetEqs(eqs [][]int) (err error) {
	err = o.W.SetEqs(eqs)
	if err != nil {
		return
	}
	o.eqs = o.W.Eqs()
	o.nverts = len(o.W.Nodes())
	o.ndim = len(o.eqs) / o.nverts
	n := len(o.eqs)
	o.rot = la.MatAlloc(o.ndim, o.ndim)
	for i := 0; i < o.ndim; i++ {
		o.rot[i][i] = 1
	}
	o.fi = make([]float64, n)
	o.k = la.MatAlloc(n, n)
	o.xcen = make([]float64, o.ndim)
	o.Xcen = make([]float64, o.ndim)
	o.uloc = make([]float64, o.ndim)
	o.h = mat.NewDense(o.ndim, o.ndim, nil)
	return
}

// SetSurfLoad delegates distributed loads to the wrapped element
func (o *Corotational) SetSurfLoad(idxface int, qn float64) (err error) {
	w, ok := o.W.(WithSurfLoads)
	if !ok {
		return chk.Err("wrapped element %d does not accept distributed loads", o.W.Id())
	}
	return w.SetSurfLoad(idxface, qn)
}

// ClearSurfLoads removes all distributed loads of the wrapped element
func (o *Corotational) ClearSurfLoads() {
	if w, ok := o.W.(WithSurfLoads); ok {
		w.ClearSurfLoads()
	}
}

// Update extracts the best-fit rotation, updates the wrapped element with
// the back-rotated motion and caches the rotated forces and stiffness
func (o *Corotational) Update(sol *Solution) (err error) {

	// centroids of reference and deformed configurations
	nodes := o.W.Nodes()
	nd := o.ndim
	la.VecFill(o.Xcen, 0)
	la.VecFill(o.xcen, 0)
	for m, nod := range nodes {
		for i := 0; i < nd; i++ {
			u := sol.Y[o.eqs[m*nd+i]]
			o.Xcen[i] += nod.X[i]
			o.xcen[i] += nod.X[i] + u
		}
	}
	for i := 0; i < nd; i++ {
		o.Xcen[i] /= float64(o.nverts)
		o.xcen[i] /= float64(o.nverts)
	}

	// cross-covariance H = Σ (X-X̄)(x-x̄)ᵀ
	for i := 0; i < nd; i++ {
		for j := 0; j < nd; j++ {
			o.h.Set(i, j, 0)
		}
	}
	for m, nod := range nodes {
		for i := 0; i < nd; i++ {
			Xi := nod.X[i] - o.Xcen[i]
			for j := 0; j < nd; j++ {
				xj := nod.X[j] + sol.Y[o.eqs[m*nd+j]] - o.xcen[j]
				o.h.Set(i, j, o.h.At(i, j)+Xi*xj)
			}
		}
	}

	// best-fit rotation R = V D Uᵀ with D fixing an eventual reflection
	if !o.svd.Factorize(o.h, mat.SVDFull) {
		return chk.Err("corotational frame of element %d: SVD of cross-covariance failed", o.W.Id())
	}
	var u, v mat.Dense
	o.svd.UTo(&u)
	o.svd.VTo(&v)
	var vut mat.Dense
	vut.Mul(&v, u.T())
	d := 1.0
	if mat.Det(&vut) < 0 {
		d = -1.0
	}
	for i := 0; i < nd; i++ {
		for j := 0; j < nd; j++ {
			o.rot[i][j] = 0
			for l := 0; l < nd; l++ {
				s := 1.0
				if l == nd-1 {
					s = d
				}
				o.rot[i][j] += v.At(i, l) * s * u.At(j, l)
			}
		}
	}

	// back-rotated motion: u'_m = X̄ + Rᵀ(x_m - x̄) - X_m
	if o.locSol == nil {
		o.locSol = sol.GetCopy()
	}
	o.locSol.T = sol.T
	o.locSol.Pstress = sol.Pstress
	copy(o.locSol.Y, sol.Y)
	copy(o.locSol.ΔY, sol.ΔY)
	for m, nod := range nodes {
		for i := 0; i < nd; i++ {
			o.uloc[i] = o.Xcen[i] - nod.X[i]
			for j := 0; j < nd; j++ {
				xj := nod.X[j] + sol.Y[o.eqs[m*nd+j]] - o.xcen[j]
				o.uloc[i] += o.rot[j][i] * xj // Rᵀ x
			}
		}
		for i := 0; i < nd; i++ {
			o.locSol.Y[o.eqs[m*nd+i]] = o.uloc[i]
		}
	}

	// update wrapped element in the back-rotated frame
	err = o.W.Update(o.locSol)
	if err != nil {
		return
	}

	// rotate forces and stiffness forward
	floc := o.W.LocalFint()
	kloc := o.W.LocalK()
	for m := 0; m < o.nverts; m++ {
		for i := 0; i < nd; i++ {
			o.fi[m*nd+i] = 0
			for j := 0; j < nd; j++ {
				o.fi[m*nd+i] += o.rot[i][j] * floc[m*nd+j]
			}
		}
	}
	for m := 0; m < o.nverts; m++ {
		for n := 0; n < o.nverts; n++ {
			for i := 0; i < nd; i++ {
				for j := 0; j < nd; j++ {
					o.k[m*nd+i][n*nd+j] = 0
					for a := 0; a < nd; a++ {
						for b := 0; b < nd; b++ {
							o.k[m*nd+i][n*nd+j] += o.rot[i][a] * kloc[m*nd+a][n*nd+b] * o.rot[j][b]
						}
					}
				}
			}
		}
	}
	return
}

// AddToRhs adds -R to fb: fb += λ·loads - fi (free equations only)
func (o *Corotational) AddToRhs(fb []float64, sol *Solution) (err error) {
	loads := o.W.LocalLoads()
	for i, I := range o.eqs {
		if r := sol.FreeMap[I]; r >= 0 {
			fb[r] += sol.T*loads[i] - o.fi[i]
		}
	}
	return
}

// AddToKb adds the rotated element stiffness to Kb (free equations only)
func (o *Corotational) AddToKb(Kb *la.Triplet, sol *Solution, firstIt bool) (err error) {
	for i, I := range o.eqs {
		r := sol.FreeMap[I]
		if r < 0 {
			continue
		}
		for j, J := range o.eqs {
			if c := sol.FreeMap[J]; c >= 0 {
				Kb.Put(r, c, o.k[i][j])
			}
		}
	}
	return
}

// Rot returns the current best-fit rotation matrix
func (o *Corotational) Rot() [][]float64 { return o.rot }

// OutIpCoords delegates to the wrapped element
func (o *Corotational) OutIpCoords() [][]float64 {
	if w, ok := o.W.(CanOutputIps); ok {
		return w.OutIpCoords()
	}
	return nil
}

// OutIpKeys delegates to the wrapped element
func (o *Corotational) OutIpKeys() []string {
	if w, ok := o.W.(CanOutputIps); ok {
		return w.OutIpKeys()
	}
	return nil
}

// OutIpVals delegates to the wrapped element
func (o *Corotational) OutIpVals(M *IpsMap, sol *Solution) {
	if w, ok := o.W.(CanOutputIps); ok {
		w.OutIpVals(M, o.locSol)
	}
}
