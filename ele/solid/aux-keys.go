// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import "github.com/cpmech/gosl/tsr"

// StressKeys returns the output keys of the in-plane stress components
func StressKeys() []string {
	return []string{"sx", "sy", "sz", "sxy"}
}

// Ivs2sigmas converts an ivs map to Mandel σ values [4]
//  σ -- stress components
//  i -- index of integration point
func Ivs2sigmas(σ []float64, i int, ivs map[string][]float64) {
	for key, vals := range ivs {
		switch key {
		case "sx":
			σ[0] = vals[i]
		case "sy":
			σ[1] = vals[i]
		case "sz":
			σ[2] = vals[i]
		case "sxy":
			σ[3] = vals[i] * tsr.SQ2 // ivs hold tensorial values
		}
	}
}
