// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shp implements isoparametric shape structures/routines
package shp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// constants
const (
	MINDET     = 1.0e-14 // minimum determinant allowed for dxdR
	INVMAPTOL  = 1.0e-10 // tolerance for inverse mapping iterations
	INVMAPNITM = 25      // maximum number of inverse mapping iterations
)

// ShpFunc is the shape functions callback function
type ShpFunc func(S []float64, dSdR [][]float64, r []float64, derivs bool, idxface int)

// Shape holds geometry data
type Shape struct {

	// geometry
	Type           string      // name; e.g. "qua4"
	Func           ShpFunc     // shape/derivs function callback function
	FaceFunc       ShpFunc     // face shape/derivs function callback function
	FaceType       string      // geometry of face; e.g. "qua4" => "lin2"
	Gndim          int         // geometry dimension; e.g. "lin2" => gnd == 1 (even in 2D simulations)
	Nverts         int         // number of vertices in cell; e.g. "qua4" => 4
	FaceNverts     int         // number of vertices on face
	FaceLocalVerts [][]int     // face local vertices [nfaces][...]
	NatCoords      [][]float64 // natural coordinates [gndim][nverts]

	// scratchpad: volume
	S    []float64   // [nverts] shape functions
	G    [][]float64 // [nverts][gndim] G == dSdx. derivative of shape function
	J    float64     // Jacobian: determinant of dxdR
	DSdR [][]float64 // [nverts][gndim] derivatives of S w.r.t natural coordinates
	DxdR [][]float64 // [gndim][gndim] derivatives of real coordinates w.r.t natural coordinates
	DRdx [][]float64 // [gndim][gndim] dRdx == inverse(dxdR)

	// scratchpad: line
	Jvec   []float64 // Jacobian: dxdR for line elements (size==gndim of space)
	Gvec   []float64 // [nverts] G == dSdx. derivative of shape function

	// scratchpad: face
	Sf     []float64   // [FaceNverts] shape functions values
	Fnvec  []float64   // [2] face normal vector multiplied by Jf
	DSfdRf [][]float64 // [FaceNverts][gndim-1] derivatives of Sf w.r.t natural coordinates
	DxfdRf [][]float64 // [gndim][gndim-1] derivatives of real coordinates w.r.t natural coordinates
}

// factory holds all Shapes available
var factory = make(map[string]*Shape)

// GetCopy returns a new copy of this shape structure
func (o Shape) GetCopy() *Shape {
	var p Shape
	p.Type = o.Type
	p.Func = o.Func
	p.FaceFunc = o.FaceFunc
	p.FaceType = o.FaceType
	p.Gndim = o.Gndim
	p.Nverts = o.Nverts
	p.FaceNverts = o.FaceNverts
	p.FaceLocalVerts = o.FaceLocalVerts
	p.NatCoords = o.NatCoords
	p.S = la.VecClone(o.S)
	p.G = la.MatClone(o.G)
	p.DSdR = la.MatClone(o.DSdR)
	p.DxdR = la.MatClone(o.DxdR)
	p.DRdx = la.MatClone(o.DRdx)
	p.Jvec = la.VecClone(o.Jvec)
	p.Gvec = la.VecClone(o.Gvec)
	p.Sf = la.VecClone(o.Sf)
	p.Fnvec = la.VecClone(o.Fnvec)
	p.DSfdRf = la.MatClone(o.DSfdRf)
	p.DxfdRf = la.MatClone(o.DxfdRf)
	return &p
}

// Get returns an existent Shape structure
//  Note: 1) returns nil on errors
//        2) use goroutineId > 0 to get a copy
func Get(geoType string, goroutineId int) *Shape {
	s, ok := factory[geoType]
	if !ok {
		return nil
	}
	if goroutineId > 0 {
		return s.GetCopy()
	}
	return s
}

// register adds a shape to the factory and allocates its scratchpad
func register(s *Shape) {
	nv, nd := s.Nverts, s.Gndim
	s.S = make([]float64, nv)
	s.G = la.MatAlloc(nv, nd)
	s.DSdR = la.MatAlloc(nv, nd)
	s.DxdR = la.MatAlloc(nd, nd)
	s.DRdx = la.MatAlloc(nd, nd)
	s.Jvec = make([]float64, 3)
	s.Gvec = make([]float64, nv)
	if s.FaceNverts > 0 {
		s.Sf = make([]float64, s.FaceNverts)
		s.Fnvec = make([]float64, 2)
		s.DSfdRf = la.MatAlloc(s.FaceNverts, 1)
		s.DxfdRf = la.MatAlloc(nd, 1)
	}
	factory[s.Type] = s
}

// IpRealCoords returns the real coordinates (y) of an integration point
func (o *Shape) IpRealCoords(x [][]float64, ip Ipoint) (y []float64) {
	ndim := len(x)
	y = make([]float64, ndim)
	o.Func(o.S, o.DSdR, ip, false, -1)
	for i := 0; i < ndim; i++ {
		for m := 0; m < o.Nverts; m++ {
			y[i] += o.S[m] * x[i][m]
		}
	}
	return
}

// CalcAtIp calculates volume data such as S and G at natural coordinate r
//  Input:
//   x[ndim][nverts] -- coordinates matrix of solid element
//   ip              -- integration point
//  Output:
//   S, DSdR, DxdR, DRdx, G, and J
func (o *Shape) CalcAtIp(x [][]float64, ip Ipoint, derivs bool) (err error) {

	// S and dSdR
	o.Func(o.S, o.DSdR, ip, derivs, -1)
	if !derivs {
		return
	}

	if o.Gndim == 1 {
		// calculate Jvec == dxdR
		for i := 0; i < len(x); i++ {
			o.Jvec[i] = 0.0
			for m := 0; m < o.Nverts; m++ {
				o.Jvec[i] += x[i][m] * o.DSdR[m][0] // dxdR := x * dSdR
			}
		}

		// calculate J = norm of Jvec
		o.J = la.VecNorm(o.Jvec[:len(x)])

		// calculate G
		for m := 0; m < o.Nverts; m++ {
			o.Gvec[m] = o.DSdR[m][0] / o.J
		}
		return
	}

	// dxdR := sum_n x * dSdR   =>  dx_i/dR_j := sum_n x^n_i * dS^n/dR_j
	for i := 0; i < len(x); i++ {
		for j := 0; j < o.Gndim; j++ {
			o.DxdR[i][j] = 0.0
			for n := 0; n < o.Nverts; n++ {
				o.DxdR[i][j] += x[i][n] * o.DSdR[n][j]
			}
		}
	}

	// dRdx := inv(dxdR)
	o.J, err = la.MatInv(o.DRdx, o.DxdR, MINDET)
	if err != nil {
		return
	}

	// G == dSdx := dSdR * dRdx  =>  dS^m/dx_j := sum_i dS^m/dR_i * dR_i/dx_j
	la.MatMul(o.G, 1, o.DSdR, o.DRdx)
	return
}

// CalcAtR calculates volume data such as S and G at natural coordinate r
func (o *Shape) CalcAtR(x [][]float64, R []float64, derivs bool) (err error) {
	return o.CalcAtIp(x, R, derivs)
}

// CalcAtFaceIp calculates face data such as Sf and Fnvec
//  Input:
//   x[ndim][nverts] -- coordinates matrix of solid element
//   ipf             -- local/natural coordinates of face
//   idxface         -- local index of face
//  Output:
//   Sf and Fnvec
func (o *Shape) CalcAtFaceIp(x [][]float64, ipf Ipoint, idxface int) (err error) {

	// skip 1D elements
	if o.Gndim == 1 {
		return
	}

	// Sf and dSfdRf
	o.FaceFunc(o.Sf, o.DSfdRf, ipf, true, idxface)

	// dxfdRf := sum_n x * dSfdRf   =>  dxf_i/dRf_j := sum_n xf^n_i * dSf^n/dRf_j
	for i := 0; i < len(x); i++ {
		o.DxfdRf[i][0] = 0.0
		for k, n := range o.FaceLocalVerts[idxface] {
			o.DxfdRf[i][0] += x[i][n] * o.DSfdRf[k][0]
		}
	}

	// face normal vector: 90° clockwise rotation of the face tangent
	o.Fnvec[0] = o.DxfdRf[1][0]
	o.Fnvec[1] = -o.DxfdRf[0][0]
	return
}

// InvMap computes the natural coordinates r corresponding to real coordinates x
// by means of Newton iterations on the isoparametric mapping
func (o *Shape) InvMap(r, x []float64, xmat [][]float64) (err error) {
	ndim := len(x)
	e := make([]float64, ndim)
	δr := make([]float64, ndim)
	la.VecFill(r, 0)
	for it := 0; it < INVMAPNITM; it++ {

		// residual: e := x - x(r)
		o.Func(o.S, o.DSdR, r, true, -1)
		for i := 0; i < ndim; i++ {
			e[i] = x[i]
			for m := 0; m < o.Nverts; m++ {
				e[i] -= o.S[m] * xmat[i][m]
			}
		}
		if la.VecNorm(e) < INVMAPTOL {
			return
		}

		// dxdR and correction: δr := inv(dxdR) * e
		for i := 0; i < ndim; i++ {
			for j := 0; j < o.Gndim; j++ {
				o.DxdR[i][j] = 0.0
				for n := 0; n < o.Nverts; n++ {
					o.DxdR[i][j] += xmat[i][n] * o.DSdR[n][j]
				}
			}
		}
		_, err = la.MatInv(o.DRdx, o.DxdR, MINDET)
		if err != nil {
			return
		}
		la.MatVecMul(δr, 1, o.DRdx, e)
		for j := 0; j < o.Gndim; j++ {
			r[j] += δr[j]
		}
	}
	return chk.Err("InvMap did not converge after %d iterations. x=%v", INVMAPNITM, x)
}
