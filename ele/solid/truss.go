// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"

	"github.com/strucmech/nlfem/dom"
	"github.com/strucmech/nlfem/ele"
	"github.com/strucmech/nlfem/inp"
	msolid "github.com/strucmech/nlfem/mdl/solid"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"
)

// Truss represents a geometrically exact truss element with 2 nodes carrying
// axial load only. The axial strain is the Green-Lagrange strain of the
// chord,
//  ε = (d⋅d - D⋅D) / (2 L₀²)
// where D is the reference chord vector and d the current one; the fiber
// material maps ε to the axial stress. Internal forces and the consistent
// tangent (material plus geometric part) are recomputed at every Update.
type Truss struct {

	// basic data
	Cell *inp.Cell   // the cell structure
	X    [][]float64 // matrix of nodal coordinates [ndim][nnode]
	Nod  []*dom.Node // connected nodes
	Ndim int         // space dimension
	Nu   int         // total number of unknowns == 2 * ndim

	// material
	Mdl   msolid.OneD      // fiber model
	State *msolid.OnedState // axial stress/strain state

	// geometry
	L0 float64   // reference length
	D  []float64 // [ndim] reference chord vector

	// problem variables
	Umap   []int   // assembly map (location array/element equations)
	reqIdx [][]int // node-local DOF indices of {ux, uy, (uz)} per node

	// scratchpad. computed @ each Update
	d  []float64   // [ndim] current chord vector
	fi []float64   // [nu] internal forces
	fx []float64   // [nu] reference external load vector (always zero for trusses)
	K  [][]float64 // [nu][nu] consistent tangent
}

// register element
func init() {
	ele.SetAllocator("truss", func(cell *inp.Cell, x [][]float64, nodes []*dom.Node, sim *inp.Simulation) (ele.Element, error) {

		// check
		if len(nodes) != 2 {
			return nil, chk.Err("truss element %d requires 2 nodes (got %d)", cell.Id, len(nodes))
		}

		// basic data
		var o Truss
		o.Cell = cell
		o.X = x
		o.Nod = nodes
		o.Ndim = sim.Ndim
		o.Nu = 2 * o.Ndim

		// material
		mdl := sim.GetMatModel(cell.Mat)
		if mdl == nil {
			return nil, chk.Err("cannot get material %q for truss element %d", cell.Mat, cell.Id)
		}
		fib, ok := mdl.(msolid.OneD)
		if !ok {
			return nil, chk.Err("material %q of truss element %d is not a fiber model", cell.Mat, cell.Id)
		}
		o.Mdl = fib
		o.State = msolid.NewOnedState()

		// register DOFs on nodes
		ukeys := []string{"ux", "uy"}
		if o.Ndim == 3 {
			ukeys = []string{"ux", "uy", "uz"}
		}
		o.reqIdx = make([][]int, 2)
		for m, nod := range nodes {
			o.reqIdx[m] = nod.Request(ukeys, &o)
		}

		// geometry
		o.D = make([]float64, o.Ndim)
		for i := 0; i < o.Ndim; i++ {
			o.D[i] = x[i][1] - x[i][0]
		}
		o.L0 = la.VecNorm(o.D)
		if o.L0 < 1e-14 {
			return nil, chk.Err("truss element %d has zero reference length", cell.Id)
		}

		// scratchpad
		o.d = make([]float64, o.Ndim)
		o.fi = make([]float64, o.Nu)
		o.fx = make([]float64, o.Nu)
		o.K = la.MatAlloc(o.Nu, o.Nu)
		return &o, nil
	})
}

// implementation ///////////////////////////////////////////////////////////////////////////////////

// Id returns the cell Id
func (o *Truss) Id() int { return o.Cell.Id }

// Nodes returns the connected nodes
func (o *Truss) Nodes() []*dom.Node { return o.Nod }

// SetEqs sets equations
func (o *Truss) SetEqs(eqs [][]int) (err error) {
	o.Umap = make([]int, o.Nu)
	for m := 0; m < 2; m++ {
		for i := 0; i < o.Ndim; i++ {
			o.Umap[i+m*o.Ndim] = eqs[m][o.reqIdx[m][i]]
		}
	}
	return
}

// Update recomputes strain, stress, internal forces and tangent @ sol.Y
func (o *Truss) Update(sol *ele.Solution) (err error) {

	// current chord vector and Green-Lagrange strain
	dd, DD := 0.0, 0.0
	for i := 0; i < o.Ndim; i++ {
		o.d[i] = o.D[i] + sol.Y[o.Umap[o.Ndim+i]] - sol.Y[o.Umap[i]]
		dd += o.d[i] * o.d[i]
		DD += o.D[i] * o.D[i]
	}
	ε := (dd - DD) / (2.0 * o.L0 * o.L0)

	// stress and tangent modulus
	err = o.Mdl.Update(o.State, ε)
	if err != nil {
		return
	}
	Et, err := o.Mdl.CalcD(o.State)
	if err != nil {
		return
	}

	// internal forces: f₁ = A σ d / L₀ and f₀ = -f₁
	A := o.Mdl.GetA()
	σ := o.State.Sig
	for i := 0; i < o.Ndim; i++ {
		f := A * σ * o.d[i] / o.L0
		o.fi[i] = -f
		o.fi[o.Ndim+i] = f
	}

	// tangent: material part A Et (d⊗d)/L₀³ plus geometric part A σ/L₀ I
	cm := A * Et / (o.L0 * o.L0 * o.L0)
	cg := A * σ / o.L0
	for i := 0; i < o.Ndim; i++ {
		for j := 0; j < o.Ndim; j++ {
			k := cm * o.d[i] * o.d[j]
			if i == j {
				k += cg
			}
			o.K[i][j] = +k
			o.K[i][o.Ndim+j] = -k
			o.K[o.Ndim+i][j] = -k
			o.K[o.Ndim+i][o.Ndim+j] = +k
		}
	}
	return
}

// AddToRhs adds -R to fb: fb -= fi (free equations only)
func (o *Truss) AddToRhs(fb []float64, sol *ele.Solution) (err error) {
	for i, I := range o.Umap {
		if r := sol.FreeMap[I]; r >= 0 {
			fb[r] -= o.fi[i]
		}
	}
	return
}

// AddToKb adds the element tangent to Kb (free equations only)
func (o *Truss) AddToKb(Kb *la.Triplet, sol *ele.Solution, firstIt bool) (err error) {
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
func (o *Truss) Eqs() []int { return o.Umap }

// LocalFint returns the internal forces from the last Update
func (o *Truss) LocalFint() []float64 { return o.fi }

// LocalK returns the tangent from the last Update
func (o *Truss) LocalK() [][]float64 { return o.K }

// LocalLoads returns the reference load vector (trusses carry no distributed loads)
func (o *Truss) LocalLoads() []float64 { return o.fx }

// output ///////////////////////////////////////////////////////////////////////////////////////////

// OutIpCoords returns the coordinates of integration points (centroid only)
func (o *Truss) OutIpCoords() (C [][]float64) {
	C = utl.Alloc(1, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		C[0][i] = (o.X[i][0] + o.X[i][1]) / 2.0
	}
	return
}

// OutIpKeys returns the integration points' keys
func (o *Truss) OutIpKeys() []string {
	return []string{"sig", "eps"}
}

// OutIpVals returns the integration points' values corresponding to keys
func (o *Truss) OutIpVals(M *ele.IpsMap, sol *ele.Solution) {
	M.Set("sig", 0, 1, o.State.Sig)
	M.Set("eps", 0, 1, o.State.Eps)
}

// specific methods /////////////////////////////////////////////////////////////////////////////////

// CalcLen returns the current chord length for given nodal displacements
func (o *Truss) CalcLen(sol *ele.Solution) float64 {
	l := 0.0
	for i := 0; i < o.Ndim; i++ {
		d := o.D[i] + sol.Y[o.Umap[o.Ndim+i]] - sol.Y[o.Umap[i]]
		l += d * d
	}
	return math.Sqrt(l)
}
