// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solid implements constitutive models for structural elements.
// Stress is always a pure function of the last strain set by an element
// update; models keep no internal iteration and no history.
package solid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Model defines the interface for all material models
type Model interface {
	Init(ndim int, pstress bool, prms dbf.Params) error // initialises model
	GetPrms() dbf.Params                                // gets (an example of) parameters
}

// Plane defines in-plane (2D) constitutive laws operating on Mandel
// stress/strain components
type Plane interface {
	Update(s *State, ε []float64) error  // sets strain and computes stress at ε
	CalcD(D [][]float64, s *State) error // computes D = dσ/dε tangent at current strain
	GetThickness() float64               // returns out-of-plane thickness
}

// OneD defines uniaxial (fiber) constitutive laws
type OneD interface {
	Update(s *OnedState, ε float64) error // sets strain and computes stress at ε
	CalcD(s *OnedState) (float64, error)  // computes D = dσ/dε tangent at current strain
	GetA() float64                        // returns cross-sectional area
}

// New returns a new model from its name; e.g. "pstress" or "fiber"
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'solid' database", name)
	}
	return allocator(), nil
}

// allocators holds all available solid models; modelname => allocator
var allocators = map[string]func() Model{}
