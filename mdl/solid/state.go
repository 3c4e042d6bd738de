// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

// State holds the stress/strain state of one in-plane material point.
// Components are stored in Mandel representation:
//  Sig = {σxx, σyy, σzz, σxy⋅√2}
//  Eps = {εxx, εyy, εzz, εxy⋅√2}
// Strain is overwritten at every element update; there is no history.
type State struct {
	Sig []float64 // [4] stress components
	Eps []float64 // [4] strain components
}

// NewState returns a new zeroed state. Stress before the first update is
// therefore zero, consistent with zero strain.
func NewState() *State {
	return &State{
		Sig: make([]float64, 4),
		Eps: make([]float64, 4),
	}
}

// Set copies the content of another state into this one
func (o *State) Set(other *State) {
	copy(o.Sig, other.Sig)
	copy(o.Eps, other.Eps)
}

// GetCopy returns a copy of this state
func (o *State) GetCopy() *State {
	s := NewState()
	s.Set(o)
	return s
}

// OnedState holds the uniaxial stress/strain state of fiber materials
type OnedState struct {
	Sig float64 // axial stress
	Eps float64 // axial strain
}

// NewOnedState returns a new zeroed uniaxial state
func NewOnedState() *OnedState { return new(OnedState) }

// Set copies the content of another state into this one
func (o *OnedState) Set(other *OnedState) { *o = *other }

// GetCopy returns a copy of this state
func (o *OnedState) GetCopy() *OnedState { s := *o; return &s }
