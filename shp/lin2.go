// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// shape function of lin2 (2-node line)
//
//        0 -----+----- 1 --r
func Lin2(S []float64, dSdR [][]float64, r []float64, derivs bool, idxface int) {
	s := r[0]

	S[0] = 0.5 * (1.0 - s)
	S[1] = 0.5 * (1.0 + s)

	if !derivs {
		return
	}

	dSdR[0][0] = -0.5
	dSdR[1][0] = 0.5
}

func init() {
	register(&Shape{
		Type:   "lin2",
		Func:   Lin2,
		Gndim:  1,
		Nverts: 2,
		NatCoords: [][]float64{
			{-1, 1},
		},
	})
}
