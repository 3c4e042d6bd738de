// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"github.com/strucmech/nlfem/dom"
	"github.com/strucmech/nlfem/ele"
	"github.com/strucmech/nlfem/inp"
	msolid "github.com/strucmech/nlfem/mdl/solid"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/tsr"
	"github.com/cpmech/gosl/utl"
)

// TriangleTL represents a 3-node triangle with total-Lagrangian finite
// strain kinematics. The deformation gradient follows from the (constant)
// displacement gradient,
//  F = I + Σₘ uₘ ⊗ Gₘ
// the Green-Lagrange strain E = (FᵀF - I)/2 is handed to the material as
// second Piola-Kirchhoff work conjugate, internal forces use the first
// Piola-Kirchhoff stress P = F⋅S on the reference edges, and the tangent
// carries the material part BᵀDB plus the initial-stress (geometric) part
//  K_geo[mn] = (Gₘ ⋅ S ⋅ Gₙ) δ ⋅ A t
// Distributed edge loads are dead loads on the reference configuration.
type TriangleTL struct {

	// basic data
	Cell *inp.Cell   // the cell structure
	X    [][]float64 // matrix of nodal coordinates [ndim][nnode]
	Nod  []*dom.Node // connected nodes
	Ndim int         // space dimension
	Nu   int         // total number of unknowns == 6

	// material
	Mdl   msolid.Plane  // plane-stress model
	State *msolid.State // stress/strain state @ the single integration point

	// geometry
	Area float64     // reference area
	G    [][]float64 // [3][2] reference shape function gradients

	// distributed loads
	fx []float64 // [nu] reference load vector from edge tractions

	// problem variables
	Umap   []int   // assembly map (location array/element equations)
	reqIdx [][]int // node-local DOF indices of {ux, uy} per node

	// scratchpad. computed @ each Update
	F  [][]float64 // [2][2] deformation gradient
	S  [][]float64 // [2][2] second Piola-Kirchhoff stress
	B  [][]float64 // [4][nu] strain-displacement matrix @ current F (Mandel)
	D  [][]float64 // [4][4] constitutive tangent (Mandel)
	ε  []float64   // [4] Green-Lagrange strain components
	fi []float64   // [nu] internal forces
	K  [][]float64 // [nu][nu] consistent tangent
}

// register element
func init() {
	ele.SetAllocator("tri3-tl", func(cell *inp.Cell, x [][]float64, nodes []*dom.Node, sim *inp.Simulation) (ele.Element, error) {

		// check
		if sim.Ndim != 2 {
			return nil, chk.Err("tri3-tl element %d works in 2D only", cell.Id)
		}
		if len(nodes) != 3 {
			return nil, chk.Err("tri3-tl element %d requires 3 nodes (got %d)", cell.Id, len(nodes))
		}

		// basic data
		var o TriangleTL
		o.Cell = cell
		o.X = x
		o.Nod = nodes
		o.Ndim = 2
		o.Nu = 6

		// material
		mdl := sim.GetMatModel(cell.Mat)
		if mdl == nil {
			return nil, chk.Err("cannot get material %q for tri3-tl element %d", cell.Mat, cell.Id)
		}
		pls, ok := mdl.(msolid.Plane)
		if !ok {
			return nil, chk.Err("material %q of tri3-tl element %d is not an in-plane model", cell.Mat, cell.Id)
		}
		o.Mdl = pls
		o.State = msolid.NewState()

		// register DOFs on nodes
		ukeys := []string{"ux", "uy"}
		o.reqIdx = make([][]int, 3)
		for m, nod := range nodes {
			o.reqIdx[m] = nod.Request(ukeys, &o)
		}

		// geometry
		o.G = la.MatAlloc(3, 2)
		area, err := triShapeGrads(o.G, x)
		if err != nil {
			return nil, err
		}
		o.Area = area

		// scratchpad
		o.fx = make([]float64, o.Nu)
		o.F = la.MatAlloc(2, 2)
		o.S = la.MatAlloc(2, 2)
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
func (o *TriangleTL) Id() int { return o.Cell.Id }

// Nodes returns the connected nodes
func (o *TriangleTL) Nodes() []*dom.Node { return o.Nod }

// SetEqs sets equations
func (o *TriangleTL) SetEqs(eqs [][]int) (err error) {
	o.Umap = make([]int, o.Nu)
	for m := 0; m < 3; m++ {
		for i := 0; i < 2; i++ {
			o.Umap[i+m*2] = eqs[m][o.reqIdx[m][i]]
		}
	}
	return
}

// SetSurfLoad accumulates a reference normal traction on one edge (dead
// load, lumped half-half onto the two edge nodes)
func (o *TriangleTL) SetSurfLoad(idxface int, qn float64) (err error) {
	if idxface < 0 || idxface > 2 {
		return chk.Err("tri3-tl element %d has no edge %d", o.Cell.Id, idxface)
	}
	a := triEdgeLocalVerts[idxface][0]
	b := triEdgeLocalVerts[idxface][1]
	ex := o.X[0][b] - o.X[0][a]
	ey := o.X[1][b] - o.X[1][a]
	t := o.Mdl.GetThickness()
	o.fx[0+a*2] += 0.5 * qn * ey * t
	o.fx[1+a*2] += 0.5 * qn * (-ex) * t
	o.fx[0+b*2] += 0.5 * qn * ey * t
	o.fx[1+b*2] += 0.5 * qn * (-ex) * t
	return
}

// ClearSurfLoads removes all distributed loads
func (o *TriangleTL) ClearSurfLoads() {
	la.VecFill(o.fx, 0)
}

// Update recomputes kinematics, stress, internal forces and tangent @ sol.Y
func (o *TriangleTL) Update(sol *ele.Solution) (err error) {

	// deformation gradient F = I + Σₘ uₘ ⊗ Gₘ
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			o.F[i][j] = 0
			for m := 0; m < 3; m++ {
				o.F[i][j] += sol.Y[o.Umap[i+m*2]] * o.G[m][j]
			}
		}
		o.F[i][i] += 1
	}

	// Green-Lagrange strain E = (FᵀF - I)/2 in Mandel form
	c00 := o.F[0][0]*o.F[0][0] + o.F[1][0]*o.F[1][0]
	c11 := o.F[0][1]*o.F[0][1] + o.F[1][1]*o.F[1][1]
	c01 := o.F[0][0]*o.F[0][1] + o.F[1][0]*o.F[1][1]
	o.ε[0] = (c00 - 1.0) / 2.0
	o.ε[1] = (c11 - 1.0) / 2.0
	o.ε[2] = 0
	o.ε[3] = c01 / 2.0 * tsr.SQ2

	// stress and tangent
	err = o.Mdl.Update(o.State, o.ε)
	if err != nil {
		return
	}
	err = o.Mdl.CalcD(o.D, o.State)
	if err != nil {
		return
	}
	σ := o.State.Sig
	o.S[0][0] = σ[0]
	o.S[1][1] = σ[1]
	o.S[0][1] = σ[3] / tsr.SQ2
	o.S[1][0] = o.S[0][1]

	// B matrix @ current F: δE = sym(Fᵀ δ∇u)
	for m := 0; m < 3; m++ {
		for k := 0; k < 2; k++ {
			o.B[0][k+m*2] = o.F[k][0] * o.G[m][0]
			o.B[1][k+m*2] = o.F[k][1] * o.G[m][1]
			o.B[3][k+m*2] = (o.F[k][0]*o.G[m][1] + o.F[k][1]*o.G[m][0]) / tsr.SQ2
		}
	}

	// internal forces fi = Bᵀ σ ⋅ A t == (F⋅S)⋅Gₘ ⋅ A t
	coef := o.Area * o.Mdl.GetThickness()
	la.VecFill(o.fi, 0)
	la.MatTrVecMulAdd(o.fi, coef, o.B, σ) // fi += coef * tr(B) * σ

	// tangent: material part plus initial-stress part
	la.MatFill(o.K, 0)
	la.MatTrMulAdd3(o.K, coef, o.B, o.D, o.B) // K += coef * tr(B) * D * B
	for m := 0; m < 3; m++ {
		for n := 0; n < 3; n++ {
			gSg := 0.0
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					gSg += o.G[m][i] * o.S[i][j] * o.G[n][j]
				}
			}
			o.K[0+m*2][0+n*2] += coef * gSg
			o.K[1+m*2][1+n*2] += coef * gSg
		}
	}
	return
}

// AddToRhs adds -R to fb: fb += λ·loads - fi (free equations only)
func (o *TriangleTL) AddToRhs(fb []float64, sol *ele.Solution) (err error) {
	for i, I := range o.Umap {
		if r := sol.FreeMap[I]; r >= 0 {
			fb[r] += sol.T*o.fx[i] - o.fi[i]
		}
	}
	return
}

// AddToKb adds the element tangent to Kb (free equations only)
func (o *TriangleTL) AddToKb(Kb *la.Triplet, sol *ele.Solution, firstIt bool) (err error) {
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
func (o *TriangleTL) Eqs() []int { return o.Umap }

// LocalFint returns the internal forces from the last Update
func (o *TriangleTL) LocalFint() []float64 { return o.fi }

// LocalK returns the tangent from the last Update
func (o *TriangleTL) LocalK() [][]float64 { return o.K }

// LocalLoads returns the reference load vector from edge tractions
func (o *TriangleTL) LocalLoads() []float64 { return o.fx }

// output ///////////////////////////////////////////////////////////////////////////////////////////

// OutIpCoords returns the coordinates of integration points (centroid only)
func (o *TriangleTL) OutIpCoords() (C [][]float64) {
	C = utl.Alloc(1, 2)
	for i := 0; i < 2; i++ {
		C[0][i] = (o.X[i][0] + o.X[i][1] + o.X[i][2]) / 3.0
	}
	return
}

// OutIpKeys returns the integration points' keys
func (o *TriangleTL) OutIpKeys() []string {
	return StressKeys()
}

// OutIpVals returns the integration points' values corresponding to keys
func (o *TriangleTL) OutIpVals(M *ele.IpsMap, sol *ele.Solution) {
	σ := o.State.Sig
	M.Set("sx", 0, 1, σ[0])
	M.Set("sy", 0, 1, σ[1])
	M.Set("sz", 0, 1, σ[2])
	M.Set("sxy", 0, 1, σ[3]/tsr.SQ2)
}
