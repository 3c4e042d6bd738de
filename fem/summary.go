// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// IterInfo records the convergence indicators of one Newton iteration
type IterInfo struct {
	It     int     // iteration index
	LargFb float64 // largest absolute component of fb
	Ldu    float64 // RMS norm of δu of the previous iteration
}

// increment status codes
const (
	StatConverged = "converged" // iterations satisfied a convergence criterion
	StatDiverged  = "diverged"  // residual grew; increment was rolled back
	StatMaxIter   = "maxiter"   // maximum number of iterations reached
)

// Summary records the convergence history of a simulation
type Summary struct {

	// main data
	Dirout   string       // directory where results are stored
	Fnkey    string       // filename key of simulation
	Lambdas  []float64    // [nincrements] load factor attempted by each increment
	Statuses []string     // [nincrements] outcome of each increment
	Iters    [][]IterInfo // [nincrements][nit] iteration records

	// auxiliary
	cur []IterInfo // records of the increment in progress
}

// AddIter appends one iteration record to the increment in progress
func (o *Summary) AddIter(it int, largFb, ldu float64) {
	o.cur = append(o.cur, IterInfo{it, largFb, ldu})
}

// EndIncrement closes the increment in progress at load factor λ
func (o *Summary) EndIncrement(λ float64, status string) {
	o.Lambdas = append(o.Lambdas, λ)
	o.Statuses = append(o.Statuses, status)
	o.Iters = append(o.Iters, o.cur)
	o.cur = nil
}

// Save saves the summary as a JSON file in Dirout
func (o *Summary) Save() (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}
	var buf bytes.Buffer
	buf.Write(b)
	io.WriteFileVD(o.Dirout, io.Sf("%s_sum.json", o.Fnkey), &buf)
	return
}

// ReadSum reads a summary back from disc. It returns nil on errors.
func ReadSum(dir, fnkey string) (o *Summary) {
	b, err := io.ReadFile(io.Sf("%s/%s_sum.json", dir, fnkey))
	if err != nil {
		return nil
	}
	var sum Summary
	err = json.Unmarshal(b, &sum)
	if err != nil {
		return nil
	}
	return &sum
}
