// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fem implements the nonlinear quasi-static FEM solver
package fem

import (
	"github.com/strucmech/nlfem/dom"
	"github.com/strucmech/nlfem/ele"
	"github.com/strucmech/nlfem/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// prescEq records one restrained equation with a prescribed reference value
type prescEq struct {
	eq  int     // global equation number
	val float64 // reference value; scaled by λ during the solve
}

// Domain holds all Nodes and Elements in addition to the Solution at nodes.
// Restrained DOFs keep their global equation numbers; the reduced system
// handed to the linear solver spans the free equations only.
type Domain struct {

	// init: auxiliary variables
	Verbose bool            // verbose
	Sim     *inp.Simulation // [from Main] input data
	LinSol  la.LinSol       // linear solver

	// nodes and elements
	Nodes    []*dom.Node   // all nodes; indices == vertex ids
	Elems    []ele.Element // all elements; indices == cell ids
	Vid2node []*dom.Node   // VertexId => node
	Cid2elem []ele.Element // CellId => element

	// equations
	Ny      int       // total number of DOFs (free and restrained)
	Nfree   int       // number of free DOFs
	FreeEqs []int     // [nfree] free-index => global equation number
	presc   []prescEq // restrained equations with prescribed values

	// dimensions
	NnzKb int // number of nonzeros in Kb matrix

	// solution and linear solver
	Sol      *ele.Solution // solution state
	Kb       *la.Triplet   // Jacobian == dRdy (free equations)
	Fb       []float64     // [nfree] residual == -R
	Wb       []float64     // [nfree] workspace == δy
	InitLSol bool          // linear solver needs initialisation prior to any further call

	// for divergence control
	bkpSol *ele.Solution // backup solution
}

// NewDomain builds the domain from the simulation data: nodes, elements,
// boundary conditions, equation numbers and the reduced free system
func NewDomain(sim *inp.Simulation) (o *Domain, err error) {

	// basic data
	o = new(Domain)
	o.Sim = sim
	o.LinSol = la.GetSolver(sim.LinSol.Name)
	o.InitLSol = true

	// nodes
	nverts := len(sim.Verts)
	o.Vid2node = make([]*dom.Node, nverts)
	for _, v := range sim.Verts {
		if v.Id < 0 || v.Id >= nverts {
			return nil, chk.Err("vertex ids must be contiguous; got %d with %d vertices", v.Id, nverts)
		}
		nod := dom.NewNode(v.C...)
		nod.Id = v.Id
		o.Vid2node[v.Id] = nod
		o.Nodes = append(o.Nodes, nod)
	}

	// essential BCs must be known before elements register DOFs
	for _, fx := range sim.Fixities {
		verts := sim.VtagVerts(fx.Tag)
		if len(verts) == 0 {
			return nil, chk.Err("no vertices with tag %d for fixity", fx.Tag)
		}
		for _, v := range verts {
			for i, key := range fx.Keys {
				if fx.Vals != nil && fx.Vals[i] != 0 {
					o.Vid2node[v.Id].SetDisp(key, fx.Vals[i])
				} else {
					o.Vid2node[v.Id].FixDOF(key)
				}
			}
		}
	}

	// nodal loads
	for _, ld := range sim.Loads {
		verts := sim.VtagVerts(ld.Tag)
		if len(verts) == 0 {
			return nil, chk.Err("no vertices with tag %d for load", ld.Tag)
		}
		for _, v := range verts {
			o.Vid2node[v.Id].AddLoad(ld.Vals, ld.Keys)
		}
	}

	// elements; their allocators register DOFs on the nodes
	ncells := len(sim.Cells)
	o.Cid2elem = make([]ele.Element, ncells)
	for _, c := range sim.Cells {
		if c.Id < 0 || c.Id >= ncells {
			return nil, chk.Err("cell ids must be contiguous; got %d with %d cells", c.Id, ncells)
		}
		nodes := make([]*dom.Node, len(c.Verts))
		for m, v := range c.Verts {
			nodes[m] = o.Vid2node[v]
		}
		e, err := ele.New(c, nodes, sim)
		if err != nil {
			return nil, err
		}
		o.Cid2elem[c.Id] = e
		o.Elems = append(o.Elems, e)
	}

	// distributed loads
	for _, sl := range sim.SurfLoads {
		cells := sim.CtagCells(sl.Tag)
		if len(cells) == 0 {
			return nil, chk.Err("no cells with tag %d for distributed load", sl.Tag)
		}
		for _, c := range cells {
			w, ok := o.Cid2elem[c.Id].(ele.WithSurfLoads)
			if !ok {
				return nil, chk.Err("element %d (type %q) does not accept distributed loads", c.Id, c.Type)
			}
			err = w.SetSurfLoad(sl.Face, sl.Qn)
			if err != nil {
				return nil, err
			}
		}
	}

	// end of registration phase: number equations, node-major
	o.Ny = 0
	for _, nod := range o.Nodes {
		nod.Freeze()
		for _, d := range nod.Dofs {
			d.Eq = o.Ny
			o.Ny++
		}
	}

	// reduced free system
	o.Sol = ele.NewSolution(o.Ny)
	o.Sol.Pstress = sim.Data.Pstress
	for _, nod := range o.Nodes {
		for _, d := range nod.Dofs {
			if nod.IsFixed(d.Key) {
				o.presc = append(o.presc, prescEq{d.Eq, nod.Prescribed(d.Key)})
				continue
			}
			o.Sol.FreeMap[d.Eq] = len(o.FreeEqs)
			o.FreeEqs = append(o.FreeEqs, d.Eq)
		}
	}
	o.Nfree = len(o.FreeEqs)
	if o.Nfree == 0 {
		return nil, chk.Err("all %d DOFs are restrained", o.Ny)
	}

	// distribute equations to elements
	for _, e := range o.Elems {
		nodes := e.Nodes()
		eqs := make([][]int, len(nodes))
		for m, nod := range nodes {
			eqs[m] = make([]int, nod.Ndofs())
			for i, d := range nod.Dofs {
				eqs[m][i] = d.Eq
			}
		}
		err = e.SetEqs(eqs)
		if err != nil {
			return nil, err
		}
	}

	// allocate global structures
	o.NnzKb = 0
	for _, e := range o.Elems {
		nu := 0
		for _, nod := range e.Nodes() {
			nu += nod.Ndofs()
		}
		o.NnzKb += nu * nu
	}
	o.Kb = new(la.Triplet)
	o.Kb.Init(o.Nfree, o.Nfree, o.NnzKb)
	o.Fb = make([]float64, o.Nfree)
	o.Wb = make([]float64, o.Nfree)

	// initial element states @ zero motion
	err = o.UpdateElems()
	if err != nil {
		return nil, err
	}

	// message
	if o.Verbose {
		io.Pf("domain: %d nodes, %d elements, ny=%d, nfree=%d\n", len(o.Nodes), len(o.Elems), o.Ny, o.Nfree)
	}
	return
}

// Clean frees external resources
func (o *Domain) Clean() {
	if !o.InitLSol {
		o.LinSol.Free()
	}
}

// ApplyEssenBcs writes the prescribed values, scaled by λ, into the
// restrained equations of the solution vector
func (o *Domain) ApplyEssenBcs(λ float64) {
	for _, p := range o.presc {
		o.Sol.Y[p.eq] = λ * p.val
	}
}

// SetLoadFactor sets the current load factor and re-applies the
// scaled essential boundary conditions
func (o *Domain) SetLoadFactor(λ float64) {
	o.Sol.T = λ
	o.ApplyEssenBcs(λ)
}

// AddNodalToRhs adds the nodal (point) loads, scaled by λ, to fb
func (o *Domain) AddNodalToRhs(fb []float64, λ float64) {
	for _, nod := range o.Nodes {
		if !nod.HasLoad() {
			continue
		}
		f := nod.GetLoad()
		for _, d := range nod.Dofs {
			if r := o.Sol.FreeMap[d.Eq]; r >= 0 {
				fb[r] += λ * f[d.Local]
			}
		}
	}
}

// UpdateElems updates all elements after Solution has been changed
func (o *Domain) UpdateElems() (err error) {
	for _, e := range o.Elems {
		err = e.Update(o.Sol)
		if err != nil {
			return chk.Err("update of element %d failed:\n%v", e.Id(), err)
		}
	}
	return
}

// SyncNodes copies the solution into the nodal displacement vectors
func (o *Domain) SyncNodes() {
	for _, nod := range o.Nodes {
		for _, d := range nod.Dofs {
			nod.U[d.Local] = o.Sol.Y[d.Eq]
		}
	}
}

// NodeDisp returns the displacement value of one DOF of a vertex (0 if the
// DOF was never registered)
func (o *Domain) NodeDisp(vid int, key string) float64 {
	nod := o.Vid2node[vid]
	if eq := nod.GetEq(key); eq >= 0 {
		return o.Sol.Y[eq]
	}
	return 0
}

// backup saves a copy of the solution and element states are implied by it
func (o *Domain) backup() {
	if o.bkpSol == nil {
		o.bkpSol = o.Sol.GetCopy()
		return
	}
	o.bkpSol.T = o.Sol.T
	copy(o.bkpSol.Y, o.Sol.Y)
	copy(o.bkpSol.ΔY, o.Sol.ΔY)
}

// restore restores the backup solution; element states follow from Y since
// stress is a pure function of strain
func (o *Domain) restore() (err error) {
	o.Sol.T = o.bkpSol.T
	copy(o.Sol.Y, o.bkpSol.Y)
	copy(o.Sol.ΔY, o.bkpSol.ΔY)
	return o.UpdateElems()
}
