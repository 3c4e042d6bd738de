// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package dom implements the domain entities shared by elements and the
// assembler: nodes and their degrees of freedom
package dom

import (
	"github.com/cpmech/gosl/chk"
)

// KnownDofKeys holds all recognised DOF codes:
//  ux, uy, uz -- displacements along x, y and z
//  rx, ry, rz -- rotations about x, y and z
var KnownDofKeys = map[string]bool{
	"ux": true, "uy": true, "uz": true,
	"rx": true, "ry": true, "rz": true,
}

// Dof holds information about one nodal degree of freedom
type Dof struct {
	Key   string // DOF code; e.g. "ux"
	Local int    // node-local index, assigned on registration and never changed
	Eq    int    // global equation number; -1 before global numbering
}

// Requester is satisfied by elements registering DOFs on nodes
type Requester interface {
	Id() int
}

// Node holds the reference position of a geometric point together with a
// lazily negotiated registry of DOFs, the nodal displacements and loads,
// and the set of restrained (fixed) DOF codes. The DOF registry grows only
// during model construction; it is frozen before the first solve.
type Node struct {

	// essential
	Id   int       // index in domain; -1 before the node is added to a domain
	X    []float64 // reference position (2 or 3 components)
	Dofs []*Dof    // registered DOFs, in insertion order
	U    []float64 // displacement vector; len(U) == len(Dofs) always

	// auxiliary maps
	key2dof map[string]*Dof    // key => dof
	fixed   map[string]bool    // restrained DOF codes; legal before registration
	presc   map[string]float64 // prescribed displacement values of fixed DOFs
	loads   map[string]float64 // applied (reference) loads keyed by DOF code

	// state flags
	hasLoad bool        // this node carries applied loads
	frozen  bool        // registration phase is over
	callers []Requester // elements that registered DOFs here (non-owning)
}

// NewNode returns a new node at the given reference position. The
// dimensionality of coords is checked by elements, not here.
func NewNode(coords ...float64) (o *Node) {
	o = new(Node)
	o.Id = -1
	o.X = make([]float64, len(coords))
	copy(o.X, coords)
	o.key2dof = make(map[string]*Dof)
	o.fixed = make(map[string]bool)
	o.presc = make(map[string]float64)
	o.loads = make(map[string]float64)
	return
}

// Ndim returns the dimensionality of the reference position
func (o *Node) Ndim() int { return len(o.X) }

// Ndofs returns the number of registered DOFs
func (o *Node) Ndofs() int { return len(o.Dofs) }

// Request registers the given DOF codes on this node, assigning the next
// local indices to codes not yet known. It returns the local indices of the
// requested codes, in the order requested. Calling it repeatedly with the
// same caller and codes is harmless. Requesting DOFs after the registry has
// been frozen is a programming error.
func (o *Node) Request(keys []string, caller Requester) (idx []int) {
	if o.frozen {
		chk.Panic("cannot register DOF on node %d: registry is frozen after domain initialisation", o.Id)
	}
	idx = make([]int, len(keys))
	for i, key := range keys {
		if !KnownDofKeys[key] {
			chk.Panic("unknown DOF code %q requested on node %d", key, o.Id)
		}
		d, ok := o.key2dof[key]
		if !ok {
			d = &Dof{Key: key, Local: len(o.Dofs), Eq: -1}
			o.Dofs = append(o.Dofs, d)
			o.key2dof[key] = d
			o.U = append(o.U, 0)
		}
		idx[i] = d.Local
	}
	if caller != nil {
		found := false
		for _, c := range o.callers {
			if c == caller {
				found = true
				break
			}
		}
		if !found {
			o.callers = append(o.callers, caller)
		}
	}
	return
}

// FixDOF marks DOF codes as restrained. Codes may be fixed before any
// element registers them; fixity is enforced once registration happens.
// Fixing an already fixed code is harmless.
func (o *Node) FixDOF(keys ...string) {
	for _, key := range keys {
		if !KnownDofKeys[key] {
			chk.Panic("cannot fix unknown DOF code %q on node %d", key, o.Id)
		}
		o.fixed[key] = true
	}
}

// IsFixed tells whether a DOF code is restrained on this node
func (o *Node) IsFixed(key string) bool { return o.fixed[key] }

// SetDisp prescribes the displacement value of a fixed DOF. The code is
// marked as fixed if it was not already.
func (o *Node) SetDisp(key string, value float64) {
	o.FixDOF(key)
	o.presc[key] = value
}

// Prescribed returns the prescribed displacement of a fixed DOF (0 by default)
func (o *Node) Prescribed(key string) float64 { return o.presc[key] }

// SetLoad sets applied (reference) loads, overwriting previous values.
// values and keys must have the same length.
func (o *Node) SetLoad(values []float64, keys []string) {
	chk.IntAssert(len(values), len(keys))
	for i, key := range keys {
		o.loads[key] = values[i]
	}
	o.hasLoad = true
}

// AddLoad accumulates applied (reference) loads onto previous values
func (o *Node) AddLoad(values []float64, keys []string) {
	chk.IntAssert(len(values), len(keys))
	for i, key := range keys {
		o.loads[key] += values[i]
	}
	o.hasLoad = true
}

// ResetLoads clears all applied loads
func (o *Node) ResetLoads() {
	o.loads = make(map[string]float64)
	o.hasLoad = false
}

// HasLoad tells whether this node carries applied loads
func (o *Node) HasLoad() bool { return o.hasLoad }

// Dof2idx returns the local indices of the given DOF codes. Looking up a
// code that was never registered is an error naming the code and the node.
func (o *Node) Dof2idx(keys []string) (idx []int, err error) {
	idx = make([]int, len(keys))
	for i, key := range keys {
		d, ok := o.key2dof[key]
		if !ok {
			return nil, chk.Err("DOF %q does not exist in node %d", key, o.Id)
		}
		idx[i] = d.Local
	}
	return
}

// GetDof returns the DOF structure of a registered code or nil
func (o *Node) GetDof(key string) *Dof {
	if d, ok := o.key2dof[key]; ok {
		return d
	}
	return nil
}

// GetEq returns the global equation number of a registered code or -1
func (o *Node) GetEq(key string) int {
	if d, ok := o.key2dof[key]; ok {
		return d.Eq
	}
	return -1
}

// GetDisp returns the nodal displacement vector, ordered by local DOF index
func (o *Node) GetDisp() []float64 { return o.U }

// GetLoad projects the applied load map into the current local DOF
// ordering. Loads on codes never registered by any element are dropped.
func (o *Node) GetLoad() (force []float64) {
	force = make([]float64, len(o.Dofs))
	for _, d := range o.Dofs {
		force[d.Local] = o.loads[d.Key]
	}
	return
}

// GetDeformedPos returns the reference position plus factor times the
// translational displacements. factor is a caller supplied amplification
// for visualisation or partial-load evaluation.
func (o *Node) GetDeformedPos(factor float64) (x []float64) {
	x = make([]float64, len(o.X))
	copy(x, o.X)
	for i, key := range []string{"ux", "uy", "uz"} {
		if i >= len(o.X) {
			break
		}
		if d, ok := o.key2dof[key]; ok {
			x[i] += factor * o.U[d.Local]
		}
	}
	return
}

// Freeze ends the registration phase. Any later Request call panics.
func (o *Node) Freeze() { o.frozen = true }

// Callers returns the elements that registered DOFs on this node
func (o *Node) Callers() []Requester { return o.callers }
