// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ele implements finite elements
package ele

import (
	"github.com/strucmech/nlfem/dom"
	"github.com/strucmech/nlfem/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Element defines what all elements must implement
type Element interface {

	// information and initialisation
	Id() int                       // returns the cell Id
	Nodes() []*dom.Node            // returns the connected nodes
	SetEqs(eqs [][]int) (err error) // eqs[m] holds the global equation numbers of node m, ordered by local DOF index

	// called for each iteration
	Update(sol *Solution) (err error)                                // recompute strains, stresses, internal forces and stiffness @ sol.Y
	AddToRhs(fb []float64, sol *Solution) (err error)                // adds -R to global residual vector fb
	AddToKb(Kb *la.Triplet, sol *Solution, firstIt bool) (err error) // adds element K to global Jacobian matrix Kb
}

// WithSurfLoads defines elements that accept distributed loads on faces/edges
type WithSurfLoads interface {
	SetSurfLoad(idxface int, qn float64) (err error) // sets reference normal traction on one face
	ClearSurfLoads()                                 // removes all distributed loads
}

// Wrappable defines elements that can be embedded in a corotational frame:
// after Update, the wrapper reads the internal forces and stiffness computed
// in the (back-rotated) frame and rotates them to the global frame
type Wrappable interface {
	Element
	Eqs() []int             // flat global equation numbers, node-major: {ux0, uy0, ux1, uy1, ...}
	LocalFint() []float64   // internal forces from the last Update, aligned with Eqs
	LocalK() [][]float64    // stiffness from the last Update, aligned with Eqs
	LocalLoads() []float64  // reference (λ=1) load vector, aligned with Eqs
}

// CanOutputIps defines elements that can output integration points' values
type CanOutputIps interface {
	Id() int                            // returns the cell Id
	OutIpCoords() [][]float64           // coordinates of integration points
	OutIpKeys() []string                // integration points' keys; e.g. "sx", "sy"
	OutIpVals(M *IpsMap, sol *Solution) // integration points' values corresponding to keys
}

// IpsMap collects scalar results keyed by name, one slice entry per
// integration point of the reporting element
type IpsMap struct {
	Vals map[string][]float64
}

// NewIpsMap returns a new IpsMap
func NewIpsMap() *IpsMap {
	return &IpsMap{Vals: make(map[string][]float64)}
}

// Set stores val for key at integration point idx. A key seen for the
// first time gets a slice with nip entries
func (o *IpsMap) Set(key string, idx, nip int, val float64) {
	v, ok := o.Vals[key]
	if !ok {
		v = make([]float64, nip)
		o.Vals[key] = v
	}
	v[idx] = val
}

// Get returns the value stored for key at integration point idx, or
// zero when the key was never set
func (o *IpsMap) Get(key string, idx int) float64 {
	if v, ok := o.Vals[key]; ok {
		return v[idx]
	}
	return 0
}

// AllocatorType defines a function that allocates an element
type AllocatorType func(cell *inp.Cell, x [][]float64, nodes []*dom.Node, sim *inp.Simulation) (Element, error)

// New returns a new element from the factory. Cells flagged with corot are
// wrapped with the corotational frame; the underlying type must be Wrappable.
func New(cell *inp.Cell, nodes []*dom.Node, sim *inp.Simulation) (ele Element, err error) {
	fcn, ok := allocators[cell.Type]
	if !ok {
		return nil, chk.Err("cannot get allocator for element {type=%q, tag=%d, id=%d}", cell.Type, cell.Tag, cell.Id)
	}
	x := sim.BuildCoordsMatrix(cell)
	ele, err = fcn(cell, x, nodes, sim)
	if err != nil {
		return nil, chk.Err("cannot allocate element {type=%q, tag=%d, id=%d}:\n%v", cell.Type, cell.Tag, cell.Id, err)
	}
	if cell.Corot {
		w, ok := ele.(Wrappable)
		if !ok {
			return nil, chk.Err("element {type=%q, id=%d} cannot be wrapped with the corotational frame", cell.Type, cell.Id)
		}
		return NewCorotational(w), nil
	}
	return
}

// SetAllocator sets a new callback function to allocate an element
func SetAllocator(elementName string, fcn AllocatorType) {
	if _, ok := allocators[elementName]; ok {
		chk.Panic("cannot set allocator function for %q because element name exists already", elementName)
	}
	allocators[elementName] = fcn
}

// GetAllocator gets callback function to allocate an element
func GetAllocator(elementName string) AllocatorType {
	if fcn, ok := allocators[elementName]; ok {
		return fcn
	}
	chk.Panic("cannot get allocator function for element %q", elementName)
	return nil
}

// allocators holds all element allocators
var allocators = make(map[string]AllocatorType)
