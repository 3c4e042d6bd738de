// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// SolverImplicit solves the nonlinear equilibrium equations by full
// Newton-Raphson iterations at each load increment
type SolverImplicit struct {
	dom   *Domain
	sum   *Summary
	dbgKb DebugKb_t
	yref  []float64 // [nfree] free part of Y; reference vector for the RMS norm
}

// add to database
func init() {
	SetSolverAllocator("imp", func() Solver {
		return new(SolverImplicit)
	})
}

// Init initialises the solver
func (o *SolverImplicit) Init(d *Domain, sum *Summary, dbgKb DebugKb_t) {
	o.dom = d
	o.sum = sum
	o.dbgKb = dbgKb
	o.yref = make([]float64, d.Nfree)
}

// Run runs load increments from the current load factor up to λf
func (o *SolverImplicit) Run(λf float64, dlfFunc dbf.T, verbose bool) (err error) {

	// auxiliary
	d := o.dom
	dat := &d.Sim.Solver

	// divergence control
	md := 1.0    // multiplier for Δλ
	ndiverg := 0 // number of steps diverging

	// load loop
	λ := d.Sol.T
	for λ < λf {

		// increment
		Δλ := md * dlfFunc.F(λ, nil)
		if Δλ < dat.DlfMin {
			return chk.Err("Δλ increment is too small: %g < %g", Δλ, dat.DlfMin)
		}
		if λ+Δλ > λf {
			Δλ = λf - λ
		}

		// backup solution for divergence control
		if dat.DvgCtrl {
			d.backup()
		}

		// set load factor and essential BCs
		λ += Δλ
		d.SetLoadFactor(λ)
		err = d.UpdateElems()
		if err != nil {
			return
		}

		// message
		if verbose && !dat.ShowR {
			io.PfWhite("%30.5f\r", λ)
		}

		// iterations
		it, diverging, err := o.iterations(λ)
		if err != nil {
			if o.sum != nil && it == dat.NmaxIt {
				o.sum.EndIncrement(λ, StatMaxIter)
			}
			return err
		}

		// restore solution and reduce increment
		if dat.DvgCtrl && diverging {
			ndiverg++
			md /= 2.0
			if verbose {
				io.Pfred(". . . diverging . . . λ=%g it=%d md=%g\n", λ, it, md)
			}
			if o.sum != nil {
				o.sum.EndIncrement(λ, StatDiverged)
			}
			if ndiverg > dat.NdvgMax {
				return chk.Err("too many consecutive diverging increments: %d", ndiverg)
			}
			err = d.restore()
			if err != nil {
				return err
			}
			λ = d.Sol.T
			continue
		}
		ndiverg = 0
		md *= 2.0
		if md > 1.0 {
			md = 1.0
		}

		// summary
		if o.sum != nil {
			o.sum.EndIncrement(λ, StatConverged)
		}
	}
	return
}

// iterations solves the nonlinear problem at fixed λ
func (o *SolverImplicit) iterations(λ float64) (it int, diverging bool, err error) {

	// auxiliary
	d := o.dom
	dat := &d.Sim.Solver

	// message
	if dat.ShowR {
		io.Pf("λ=%g\n%13s%4s%23s%23s\n", λ, " ", "it", "largFb", "Lδu")
	}

	// iterations
	var largFb, largFb0, Lδu, prevFb float64
	for it = 0; it < dat.NmaxIt; it++ {

		// assemble right-hand side vector (fb) with unbalanced forces
		la.VecFill(d.Fb, 0)
		for _, e := range d.Elems {
			err = e.AddToRhs(d.Fb, d.Sol)
			if err != nil {
				return
			}
		}
		d.AddNodalToRhs(d.Fb, λ)

		// find largest absolute component of fb
		largFb = la.VecLargest(d.Fb, 1)
		if math.IsNaN(largFb) || math.IsInf(largFb, 0) {
			if dat.DvgCtrl {
				diverging = true
				return
			}
			err = chk.Err("residual is not finite: largFb=%v, λ=%g, it=%d", largFb, λ, it)
			return
		}

		// save residual
		if o.sum != nil {
			o.sum.AddIter(it, largFb, Lδu)
		}

		// check largFb variation
		if it == 0 {
			largFb0 = largFb
		} else {
			if largFb < dat.FbMin {
				break // converged with smallest value of fb
			}
			if largFb < dat.FbTol*largFb0 {
				break // converged with respect to initial fb
			}
			if dat.DvgCtrl && it > 1 && largFb > prevFb {
				diverging = true
				return // diverging
			}
		}
		prevFb = largFb

		// assemble Kb matrix
		if it == 0 || !dat.CteTg {
			d.Kb.Start()
			firstIt := it == 0
			for _, e := range d.Elems {
				err = e.AddToKb(d.Kb, d.Sol, firstIt)
				if err != nil {
					return
				}
			}

			// debug
			if o.dbgKb != nil {
				o.dbgKb(d, it)
			}

			// initialise linear solver
			if d.InitLSol {
				err = d.LinSol.InitR(d.Kb, d.Sim.LinSol.Symmetric, d.Sim.LinSol.Verbose, d.Sim.LinSol.Timing)
				if err != nil {
					return it, false, chk.Err("cannot initialise linear solver:\n%v", err)
				}
				d.InitLSol = false
			}

			// perform factorisation
			err = d.LinSol.Fact()
			if err != nil {
				return it, false, chk.Err("factorisation failed:\n%v", err)
			}
		}

		// solve for wb := δy
		err = d.LinSol.SolveR(d.Wb, d.Fb, false)
		if err != nil {
			return it, false, chk.Err("solve failed:\n%v", err)
		}

		// update primary variables
		for i, I := range d.FreeEqs {
			d.Sol.Y[I] += d.Wb[i]
			d.Sol.ΔY[I] += d.Wb[i]
			o.yref[i] = d.Sol.Y[I]
		}

		// update element states
		err = d.UpdateElems()
		if err != nil {
			return
		}

		// compute RMS norm of δu
		Lδu = la.VecRmsErr(d.Wb, dat.Atol, dat.Rtol, o.yref)

		// message
		if dat.ShowR {
			io.Pf("%13s%4d%23.15e%23.15e\n", " ", it, largFb, Lδu)
		}

		// stop if converged on δu
		if Lδu < dat.Itol {
			break
		}
	}

	// check if iterations diverged
	if it == dat.NmaxIt {
		err = chk.Err("max number of iterations reached: it=%d, λ=%g, largFb=%g", it, λ, largFb)
	}
	return
}
