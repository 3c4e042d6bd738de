// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/strucmech/nlfem/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Main holds all data for a simulation using the finite element method
type Main struct {

	// data
	Sim     *inp.Simulation // simulation data
	Summary *Summary        // summary structure
	Verbose bool            // show messages

	// derived
	Dom    *Domain // domain
	Solver Solver  // nonlinear solver
}

// NewMain returns a new Main structure
//  simfilepath   -- simulation (.sim) filename including full path
//  erasePrev     -- erase previous results files
//  saveSummary   -- save summary
//  verbose       -- show messages
func NewMain(simfilepath string, erasePrev, saveSummary, verbose bool) (o *Main, err error) {
	sim := inp.ReadSim(simfilepath, erasePrev)
	return NewMainFromSim(sim, saveSummary, verbose)
}

// NewMainFromSim returns a new Main structure from a simulation built
// programmatically; i.e. without reading a .sim file
func NewMainFromSim(sim *inp.Simulation, saveSummary, verbose bool) (o *Main, err error) {

	// input data
	o = new(Main)
	o.Sim = sim
	o.Verbose = verbose

	// summary
	if saveSummary {
		o.Summary = &Summary{Dirout: o.Sim.DirOut, Fnkey: o.Sim.Key}
	}

	// domain
	o.Dom, err = NewDomain(o.Sim)
	if err != nil {
		return nil, chk.Err("cannot allocate domain:\n%v", err)
	}
	o.Dom.Verbose = verbose

	// nonlinear solver
	o.Solver, err = NewSolver(o.Sim.Solver.Type)
	if err != nil {
		return nil, err
	}
	o.Solver.Init(o.Dom, o.Summary, nil)
	return
}

// SetDebugKb sets a callback to inspect Kb during iterations
func (o *Main) SetDebugKb(dbgKb DebugKb_t) {
	o.Solver.Init(o.Dom, o.Summary, dbgKb)
}

// Run runs the load increments up to the final load factor
func (o *Main) Run() (err error) {

	// run solver
	err = o.Solver.Run(o.Sim.Control.Lf, o.Sim.Control.DlfFunc, o.Verbose)
	if err != nil {
		return
	}

	// sync nodal displacements
	o.Dom.SyncNodes()

	// save summary
	if o.Summary != nil {
		err = o.Summary.Save()
		if err != nil {
			return
		}
	}

	// message
	if o.Verbose {
		io.Pf("\n")
		io.PfGreen("simulation %q finished at λ=%g\n", o.Sim.Key, o.Dom.Sol.T)
	}
	return
}

// Clean frees memory and close log file
func (o *Main) Clean() {
	if o.Dom != nil {
		o.Dom.Clean()
	}
}
