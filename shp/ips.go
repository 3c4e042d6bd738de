// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import "math"

// Ipoint holds integration point data: natural coordinates and weight
//  2D: {r, s, w}
//  1D: {r, w}
type Ipoint []float64

// gpc == 1/sqrt(3): Gauss point coordinate for 2-point rules
var gpc = 1.0 / math.Sqrt(3.0)

// sets of integration points
var (
	// IpsLin2 holds 2 Gauss points for lin2
	IpsLin2 = []Ipoint{
		{-gpc, 1},
		{gpc, 1},
	}

	// IpsQua4 holds 2x2 Gauss points for qua4
	IpsQua4 = []Ipoint{
		{-gpc, -gpc, 1},
		{gpc, -gpc, 1},
		{-gpc, gpc, 1},
		{gpc, gpc, 1},
	}
)

// GetIps returns a set of integration points for a shape type
//  Note: returns nil if geoType is unknown
func GetIps(geoType string) []Ipoint {
	switch geoType {
	case "lin2":
		return IpsLin2
	case "qua4":
		return IpsQua4
	}
	return nil
}

// W returns the weight of an integration point (its last component)
func (o Ipoint) W() float64 { return o[len(o)-1] }
