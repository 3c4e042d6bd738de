// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// DebugKb_t defines a callback to inspect Kb and residuals during iterations
type DebugKb_t func(d *Domain, it int)

// Solver implements the load stepping and the iterative (nonlinear) solver
type Solver interface {

	// Init initialises the solver with the domain and optional structures
	Init(dom *Domain, sum *Summary, dbgKb DebugKb_t)

	// Run runs the load steps from the current λ up to λf. dlfFunc gives the
	// increment Δλ as a function of λ.
	Run(λf float64, dlfFunc dbf.T, verbose bool) (err error)
}

// solverallocators holds all available solvers
var solverallocators = make(map[string]func() Solver)

// SetSolverAllocator registers a solver allocator. It panics on repeated names.
func SetSolverAllocator(name string, allocator func() Solver) {
	if _, ok := solverallocators[name]; ok {
		chk.Panic("cannot register solver %q twice", name)
	}
	solverallocators[name] = allocator
}

// NewSolver returns a new solver from its name registered in the database
func NewSolver(name string) (Solver, error) {
	allocator, ok := solverallocators[name]
	if !ok {
		return nil, chk.Err("cannot find solver %q in database", name)
	}
	return allocator(), nil
}
