// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"github.com/strucmech/nlfem/dom"
	"github.com/strucmech/nlfem/ele"
	"github.com/strucmech/nlfem/inp"
	msolid "github.com/strucmech/nlfem/mdl/solid"
	"github.com/strucmech/nlfem/shp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/tsr"
	"github.com/cpmech/gosl/utl"
)

// Quad represents a 4-node bilinear quadrilateral for plane-stress
// problems, integrated with a 2x2 Gauss rule. Strains are the small
// (engineering) strains; wrap with the corotational frame when rotations
// matter. One material state is kept per integration point.
type Quad struct {

	// basic data
	Cell *inp.Cell   // the cell structure
	X    [][]float64 // matrix of nodal coordinates [ndim][nnode]
	Nod  []*dom.Node // connected nodes
	Shp  *shp.Shape  // shape structure (own copy; scratchpad is stateful)
	Ndim int         // space dimension
	Nu   int         // total number of unknowns == 8

	// material
	Mdl    msolid.Plane    // plane-stress model
	States []*msolid.State // [nip] stress/strain states

	// integration points
	IpsElem []shp.Ipoint // [nip] integration points of element
	IpsFace []shp.Ipoint // integration points corresponding to faces

	// distributed loads
	fx []float64 // [nu] reference load vector from edge tractions

	// problem variables
	Umap   []int   // assembly map (location array/element equations)
	reqIdx [][]int // node-local DOF indices of {ux, uy} per node

	// scratchpad. computed @ each Update
	B  [][]float64 // [4][nu] strain-displacement matrix @ ip (Mandel)
	D  [][]float64 // [4][4] constitutive tangent (Mandel)
	ε  []float64   // [4] strain components @ ip
	fi []float64   // [nu] internal forces
	K  [][]float64 // [nu][nu] stiffness
}

// register element
func init() {
	ele.SetAllocator("qua4", func(cell *inp.Cell, x [][]float64, nodes []*dom.Node, sim *inp.Simulation) (ele.Element, error) {

		// check
		if sim.Ndim != 2 {
			return nil, chk.Err("qua4 element %d works in 2D only", cell.Id)
		}
		if len(nodes) != 4 {
			return nil, chk.Err("qua4 element %d requires 4 nodes (got %d)", cell.Id, len(nodes))
		}

		// basic data
		var o Quad
		o.Cell = cell
		o.X = x
		o.Nod = nodes
		o.Shp = shp.Get("qua4", cell.Id+1) // own copy
		o.Ndim = 2
		o.Nu = 8

		// material
		mdl := sim.GetMatModel(cell.Mat)
		if mdl == nil {
			return nil, chk.Err("cannot get material %q for qua4 element %d", cell.Mat, cell.Id)
		}
		pls, ok := mdl.(msolid.Plane)
		if !ok {
			return nil, chk.Err("material %q of qua4 element %d is not an in-plane model", cell.Mat, cell.Id)
		}
		o.Mdl = pls

		// integration points and states
		o.IpsElem = shp.GetIps("qua4")
		o.IpsFace = shp.GetIps("lin2")
		o.States = make([]*msolid.State, len(o.IpsElem))
		for i := range o.States {
			o.States[i] = msolid.NewState()
		}

		// register DOFs on nodes
		ukeys := []string{"ux", "uy"}
		o.reqIdx = make([][]int, 4)
		for m, nod := range nodes {
			o.reqIdx[m] = nod.Request(ukeys, &o)
		}

		// scratchpad
		o.fx = make([]float64, o.Nu)
		o.B = la.MatAlloc(4, o.Nu)
		o.D = la.MatAlloc(4, 4)
		o.ε = make([]float64, 4)
		o.fi = make([]float64, o.Nu)
		o.K = la.MatAlloc(o.Nu, o.Nu)
		return &o, nil
	})
}

// implementation ///////////////////////////////////////////////////////////////////////////////////

// Id returns the cell Id
func (o *Quad) Id() int { return o.Cell.Id }

// Nodes returns the connected nodes
func (o *Quad) Nodes() []*dom.Node { return o.Nod }

// SetEqs sets equations
func (o *Quad) SetEqs(eqs [][]int) (err error) {
	o.Umap = make([]int, o.Nu)
	for m := 0; m < 4; m++ {
		for i := 0; i < 2; i++ {
			o.Umap[i+m*2] = eqs[m][o.reqIdx[m][i]]
		}
	}
	return
}

// SetSurfLoad accumulates a reference normal traction on one face by
// integrating qn n̂ over the face with the 2-point Gauss rule
func (o *Quad) SetSurfLoad(idxface int, qn float64) (err error) {
	if idxface < 0 || idxface >= len(o.Shp.FaceLocalVerts) {
		return chk.Err("qua4 element %d has no face %d", o.Cell.Id, idxface)
	}
	t := o.Mdl.GetThickness()
	for _, ipf := range o.IpsFace {
		err = o.Shp.CalcAtFaceIp(o.X, ipf, idxface)
		if err != nil {
			return
		}
		for k, n := range o.Shp.FaceLocalVerts[idxface] {
			for i := 0; i < 2; i++ {
				o.fx[i+n*2] += qn * o.Shp.Sf[k] * o.Shp.Fnvec[i] * ipf.W() * t
			}
		}
	}
	return
}

// ClearSurfLoads removes all distributed loads
func (o *Quad) ClearSurfLoads() {
	la.VecFill(o.fx, 0)
}

// ipBmat computes the strain-displacement matrix from the gradients @ ip
func (o *Quad) ipBmat() {
	for m := 0; m < 4; m++ {
		o.B[0][0+m*2] = o.Shp.G[m][0]
		o.B[1][1+m*2] = o.Shp.G[m][1]
		o.B[3][0+m*2] = o.Shp.G[m][1] / tsr.SQ2
		o.B[3][1+m*2] = o.Shp.G[m][0] / tsr.SQ2
	}
}

// Update recomputes strains, stresses, internal forces and stiffness @ sol.Y
func (o *Quad) Update(sol *ele.Solution) (err error) {
	t := o.Mdl.GetThickness()
	la.VecFill(o.fi, 0)
	la.MatFill(o.K, 0)
	for idx, ip := range o.IpsElem {

		// interpolation functions and gradients
		err = o.Shp.CalcAtIp(o.X, ip, true)
		if err != nil {
			return
		}
		o.ipBmat()

		// strains ε = B u
		la.VecFill(o.ε, 0)
		for i := 0; i < 4; i++ {
			for j, J := range o.Umap {
				o.ε[i] += o.B[i][j] * sol.Y[J]
			}
		}

		// stress and tangent @ ip
		err = o.Mdl.Update(o.States[idx], o.ε)
		if err != nil {
			return
		}
		err = o.Mdl.CalcD(o.D, o.States[idx])
		if err != nil {
			return
		}

		// contributions: fi += Bᵀ σ coef  and  K += Bᵀ D B coef
		coef := o.Shp.J * ip.W() * t
		la.MatTrVecMulAdd(o.fi, coef, o.B, o.States[idx].Sig) // fi += coef * tr(B) * σ
		la.MatTrMulAdd3(o.K, coef, o.B, o.D, o.B)             // K  += coef * tr(B) * D * B
	}
	return
}

// AddToRhs adds -R to fb: fb += λ·loads - fi (free equations only)
func (o *Quad) AddToRhs(fb []float64, sol *ele.Solution) (err error) {
	for i, I := range o.Umap {
		if r := sol.FreeMap[I]; r >= 0 {
			fb[r] += sol.T*o.fx[i] - o.fi[i]
		}
	}
	return
}

// AddToKb adds the element stiffness to Kb (free equations only)
func (o *Quad) AddToKb(Kb *la.Triplet, sol *ele.Solution, firstIt bool) (err error) {
	for i, I := range o.Umap {
		r := sol.FreeMap[I]
		if r < 0 {
			continue
		}
		for j, J := range o.Umap {
			if c := sol.FreeMap[J]; c >= 0 {
				Kb.Put(r, c, o.K[i][j])
			}
		}
	}
	return
}

// wrappable ////////////////////////////////////////////////////////////////////////////////////////

// Eqs returns the flat assembly map
func (o *Quad) Eqs() []int { return o.Umap }

// LocalFint returns the internal forces from the last Update
func (o *Quad) LocalFint() []float64 { return o.fi }

// LocalK returns the stiffness from the last Update
func (o *Quad) LocalK() [][]float64 { return o.K }

// LocalLoads returns the reference load vector from face tractions
func (o *Quad) LocalLoads() []float64 { return o.fx }

// output ///////////////////////////////////////////////////////////////////////////////////////////

// OutIpCoords returns the coordinates of integration points
func (o *Quad) OutIpCoords() (C [][]float64) {
	C = utl.Alloc(len(o.IpsElem), 2)
	for idx, ip := range o.IpsElem {
		y := o.Shp.IpRealCoords(o.X, ip)
		copy(C[idx], y)
	}
	return
}

// OutIpKeys returns the integration points' keys
func (o *Quad) OutIpKeys() []string {
	return StressKeys()
}

// OutIpVals returns the integration points' values corresponding to keys
func (o *Quad) OutIpVals(M *ele.IpsMap, sol *ele.Solution) {
	nip := len(o.IpsElem)
	for idx := 0; idx < nip; idx++ {
		σ := o.States[idx].Sig
		M.Set("sx", idx, nip, σ[0])
		M.Set("sy", idx, nip, σ[1])
		M.Set("sz", idx, nip, σ[2])
		M.Set("sxy", idx, nip, σ[3]/tsr.SQ2)
	}
}
