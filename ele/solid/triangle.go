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

// edge local vertices of 3-node triangles
var triEdgeLocalVerts = [][]int{{0, 1}, {1, 2}, {2, 0}}

// triShapeGrads computes the (constant) shape function gradients of a 3-node
// triangle from the dual of the edge basis {G₁, G₂} = {X₁-X₀, X₂-X₀}:
//  G[m][i] = dSₘ/dxᵢ
// It also returns the reference area. The error flags degenerate geometry.
func triShapeGrads(G [][]float64, x [][]float64) (area float64, err error) {
	a1 := x[0][1] - x[0][0]
	a2 := x[1][1] - x[1][0]
	b1 := x[0][2] - x[0][0]
	b2 := x[1][2] - x[1][0]
	jac := a1*b2 - a2*b1 // 2 ⋅ (signed area)
	if jac < 1e-14 {
		return 0, chk.Err("triangle is degenerate or numbered clockwise (jac=%g)", jac)
	}
	// dual base vectors
	G[1][0] = +b2 / jac
	G[1][1] = -b1 / jac
	G[2][0] = -a2 / jac
	G[2][1] = +a1 / jac
	G[0][0] = -G[1][0] - G[2][0]
	G[0][1] = -G[1][1] - G[2][1]
	return jac / 2.0, nil
}

// Triangle represents a 3-node constant-strain triangle for plane-stress
// problems. Strains are the small (engineering) strains of the displacement
// field; use "tri3-tl" or the corotational frame when rotations matter.
type Triangle struct {

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
	G    [][]float64 // [3][2] shape function gradients

	// distributed loads
	fx []float64 // [nu] reference load vector from edge tractions

	// problem variables
	Umap   []int   // assembly map (location array/element equations)
	reqIdx [][]int // node-local DOF indices of {ux, uy} per node

	// scratchpad. computed @ each Update
	B  [][]float64 // [4][nu] strain-displacement matrix (Mandel)
	D  [][]float64 // [4][4] constitutive tangent (Mandel)
	ε  []float64   // [4] strain components
	fi []float64   // [nu] internal forces
	K  [][]float64 // [nu][nu] stiffness
}

// register element
func init() {
	ele.SetAllocator("tri3", func(cell *inp.Cell, x [][]float64, nodes []*dom.Node, sim *inp.Simulation) (ele.Element, error) {

		// check
		if sim.Ndim != 2 {
			return nil, chk.Err("tri3 element %d works in 2D only", cell.Id)
		}
		if len(nodes) != 3 {
			return nil, chk.Err("tri3 element %d requires 3 nodes (got %d)", cell.Id, len(nodes))
		}

		// basic data
		var o Triangle
		o.Cell = cell
		o.X = x
		o.Nod = nodes
		o.Ndim = 2
		o.Nu = 6

		// material
		mdl := sim.GetMatModel(cell.Mat)
		if mdl == nil {
			return nil, chk.Err("cannot get material %q for tri3 element %d", cell.Mat, cell.Id)
		}
		pls, ok := mdl.(msolid.Plane)
		if !ok {
			return nil, chk.Err("material %q of tri3 element %d is not an in-plane model", cell.Mat, cell.Id)
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

		// constant B matrix (Mandel)
		o.B = la.MatAlloc(4, o.Nu)
		for m := 0; m < 3; m++ {
			o.B[0][0+m*2] = o.G[m][0]
			o.B[1][1+m*2] = o.G[m][1]
			o.B[3][0+m*2] = o.G[m][1] / tsr.SQ2
			o.B[3][1+m*2] = o.G[m][0] / tsr.SQ2
		}

		// scratchpad
		o.fx = make([]float64, o.Nu)
		o.D = la.MatAlloc(4, 4)
		o.ε = make([]float64, 4)
		o.fi = make([]float64, o.Nu)
		o.K = la.MatAlloc(o.Nu, o.Nu)
		return &o, nil
	})
}

// implementation ///////////////////////////////////////////////////////////////////////////////////

// Id returns the cell Id
func (o *Triangle) Id() int { return o.Cell.Id }

// Nodes returns the connected nodes
func (o *Triangle) Nodes() []*dom.Node { return o.Nod }

// SetEqs sets equations
func (o *Triangle) SetEqs(eqs [][]int) (err error) {
	o.Umap = make([]int, o.Nu)
	for m := 0; m < 3; m++ {
		for i := 0; i < 2; i++ {
			o.Umap[i+m*2] = eqs[m][o.reqIdx[m][i]]
		}
	}
	return
}

// SetSurfLoad accumulates a reference normal traction on one edge: the
// resulting force qn⋅ℓ⋅t along the outward normal is lumped half-half onto
// the two edge nodes
func (o *Triangle) SetSurfLoad(idxface int, qn float64) (err error) {
	if idxface < 0 || idxface > 2 {
		return chk.Err("tri3 element %d has no edge %d", o.Cell.Id, idxface)
	}
	a := triEdgeLocalVerts[idxface][0]
	b := triEdgeLocalVerts[idxface][1]
	ex := o.X[0][b] - o.X[0][a]
	ey := o.X[1][b] - o.X[1][a]
	t := o.Mdl.GetThickness()
	// outward normal times edge length: (ey, -ex)
	o.fx[0+a*2] += 0.5 * qn * ey * t
	o.fx[1+a*2] += 0.5 * qn * (-ex) * t
	o.fx[0+b*2] += 0.5 * qn * ey * t
	o.fx[1+b*2] += 0.5 * qn * (-ex) * t
	return
}

// ClearSurfLoads removes all distributed loads
func (o *Triangle) ClearSurfLoads() {
	la.VecFill(o.fx, 0)
}

// Update recomputes strains, stress, internal forces and stiffness @ sol.Y
func (o *Triangle) Update(sol *ele.Solution) (err error) {

	// strains ε = B u
	la.VecFill(o.ε, 0)
	for i := 0; i < 4; i++ {
		for j, J := range o.Umap {
			o.ε[i] += o.B[i][j] * sol.Y[J]
		}
	}

	// stress and tangent
	err = o.Mdl.Update(o.State, o.ε)
	if err != nil {
		return
	}
	err = o.Mdl.CalcD(o.D, o.State)
	if err != nil {
		return
	}

	// internal forces fi = Bᵀ σ ⋅ A t  and stiffness K = Bᵀ D B ⋅ A t
	coef := o.Area * o.Mdl.GetThickness()
	la.VecFill(o.fi, 0)
	la.MatFill(o.K, 0)
	la.MatTrVecMulAdd(o.fi, coef, o.B, o.State.Sig) // fi += coef * tr(B) * σ
	la.MatTrMulAdd3(o.K, coef, o.B, o.D, o.B)       // K  += coef * tr(B) * D * B
	return
}

// AddToRhs adds -R to fb: fb += λ·loads - fi (free equations only)
func (o *Triangle) AddToRhs(fb []float64, sol *ele.Solution) (err error) {
	for i, I := range o.Umap {
		if r := sol.FreeMap[I]; r >= 0 {
			fb[r] += sol.T*o.fx[i] - o.fi[i]
		}
	}
	return
}

// AddToKb adds the element stiffness to Kb (free equations only)
func (o *Triangle) AddToKb(Kb *la.Triplet, sol *ele.Solution, firstIt bool) (err error) {
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
func (o *Triangle) Eqs() []int { return o.Umap }

// LocalFint returns the internal forces from the last Update
func (o *Triangle) LocalFint() []float64 { return o.fi }

// LocalK returns the stiffness from the last Update
func (o *Triangle) LocalK() [][]float64 { return o.K }

// LocalLoads returns the reference load vector from edge tractions
func (o *Triangle) LocalLoads() []float64 { return o.fx }

// output ///////////////////////////////////////////////////////////////////////////////////////////

// OutIpCoords returns the coordinates of integration points (centroid only)
func (o *Triangle) OutIpCoords() (C [][]float64) {
	C = utl.Alloc(1, 2)
	for i := 0; i < 2; i++ {
		C[0][i] = (o.X[i][0] + o.X[i][1] + o.X[i][2]) / 3.0
	}
	return
}

// OutIpKeys returns the integration points' keys
func (o *Triangle) OutIpKeys() []string {
	return StressKeys()
}

// OutIpVals returns the integration points' values corresponding to keys
func (o *Triangle) OutIpVals(M *ele.IpsMap, sol *ele.Solution) {
	σ := o.State.Sig
	M.Set("sx", 0, 1, σ[0])
	M.Set("sy", 0, 1, σ[1])
	M.Set("sz", 0, 1, σ[2])
	M.Set("sxy", 0, 1, σ[3]/tsr.SQ2)
}
