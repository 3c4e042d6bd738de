// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// Solution holds the solution data @ nodes. The load factor λ plays the
// role of a pseudo-time T. Y carries ALL degrees of freedom, including the
// restrained ones, so prescribed motion participates in element strains.
// The reduced (free) system seen by the nonlinear solver is addressed
// through FreeMap.
type Solution struct {

	// current state
	T  float64   // current load factor λ
	Y  []float64 // all DOFs, indexed by global equation number
	ΔY []float64 // total increment within the current load step

	// reduced system
	FreeMap []int // global equation => index into the free system; -1 if restrained

	// problem definition and constants
	Pstress bool // plane-stress
}

// NewSolution allocates a solution for ny global equations
func NewSolution(ny int) (o *Solution) {
	o = new(Solution)
	o.Y = make([]float64, ny)
	o.ΔY = make([]float64, ny)
	o.FreeMap = make([]int, ny)
	for i := range o.FreeMap {
		o.FreeMap[i] = -1
	}
	return
}

// Reset clears values
func (o *Solution) Reset() {
	o.T = 0
	for i := 0; i < len(o.Y); i++ {
		o.Y[i] = 0
		o.ΔY[i] = 0
	}
}

// GetCopy returns a deep copy of this solution, sharing FreeMap
func (o *Solution) GetCopy() (p *Solution) {
	p = new(Solution)
	p.T = o.T
	p.Y = make([]float64, len(o.Y))
	p.ΔY = make([]float64, len(o.ΔY))
	copy(p.Y, o.Y)
	copy(p.ΔY, o.ΔY)
	p.FreeMap = o.FreeMap
	p.Pstress = o.Pstress
	return
}
