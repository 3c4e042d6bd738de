// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package out implements post-processing of simulation results: tables of
// nodal and integration-point values and plots of the deformed mesh
package out

import (
	"sort"

	"github.com/strucmech/nlfem/ele"
	"github.com/strucmech/nlfem/fem"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// IpData holds the values of one integration point
type IpData struct {
	Eid  int                // element id
	X    []float64          // real coordinates
	Vals map[string]float64 // scalar values; e.g. "sx" => σx
}

// Results holds extracted simulation results
type Results struct {
	Dom    *fem.Domain // domain with the converged solution
	Λ      float64     // load factor of the extracted state
	IpKeys []string    // all ip value keys found
	Ips    []*IpData   // all integration points
}

// Extract collects nodal and integration-point values from a solved domain
func Extract(dom *fem.Domain) (o *Results, err error) {
	o = new(Results)
	o.Dom = dom
	o.Λ = dom.Sol.T
	allkeys := make(map[string]bool)
	for _, e := range dom.Elems {
		c, ok := e.(ele.CanOutputIps)
		if !ok {
			continue
		}
		coords := c.OutIpCoords()
		keys := c.OutIpKeys()
		nip := len(coords)
		m := ele.NewIpsMap()
		c.OutIpVals(m, dom.Sol)
		for k := range keys {
			allkeys[keys[k]] = true
		}
		for i := 0; i < nip; i++ {
			ip := &IpData{Eid: e.Id(), X: coords[i], Vals: make(map[string]float64)}
			for _, key := range keys {
				ip.Vals[key] = m.Get(key, i)
			}
			o.Ips = append(o.Ips, ip)
		}
	}
	for key := range allkeys {
		o.IpKeys = append(o.IpKeys, key)
	}
	sort.Strings(o.IpKeys)
	return
}

// NodalTable returns a formatted table with nodal coordinates and displacements
func (o *Results) NodalTable() (l string) {
	nd := o.Dom.Sim.Ndim
	ukeys := []string{"ux", "uy", "uz"}[:nd]
	l = io.Sf("%6s", "vert")
	for i := 0; i < nd; i++ {
		l += io.Sf("%13s", []string{"x", "y", "z"}[i])
	}
	for _, key := range ukeys {
		l += io.Sf("%23s", key)
	}
	l += "\n"
	for _, nod := range o.Dom.Nodes {
		l += io.Sf("%6d", nod.Id)
		for i := 0; i < nd; i++ {
			l += io.Sf("%13g", nod.X[i])
		}
		for _, key := range ukeys {
			u := 0.0
			if eq := nod.GetEq(key); eq >= 0 {
				u = o.Dom.Sol.Y[eq]
			}
			l += io.Sf("%23.15e", u)
		}
		l += "\n"
	}
	return
}

// IpTable returns a formatted table with integration-point values
func (o *Results) IpTable() (l string) {
	nd := o.Dom.Sim.Ndim
	l = io.Sf("%6s", "elem")
	for i := 0; i < nd; i++ {
		l += io.Sf("%13s", []string{"x", "y", "z"}[i])
	}
	for _, key := range o.IpKeys {
		l += io.Sf("%23s", key)
	}
	l += "\n"
	for _, ip := range o.Ips {
		l += io.Sf("%6d", ip.Eid)
		for i := 0; i < nd; i++ {
			l += io.Sf("%13g", ip.X[i])
		}
		for _, key := range o.IpKeys {
			l += io.Sf("%23.15e", ip.Vals[key])
		}
		l += "\n"
	}
	return
}

// Save writes the nodal and ip tables to <dirout>/<fnkey>_res.txt
func (o *Results) Save(dirout, fnkey string) {
	l := io.Sf("results @ λ=%g\n\n", o.Λ)
	l += o.NodalTable() + "\n" + o.IpTable()
	io.WriteFileSD(dirout, fnkey+"_res.txt", l)
}

// IpVal returns the value of one ip key at the integration point closest to
// the given coordinates
func (o *Results) IpVal(key string, x ...float64) (val float64, err error) {
	if len(o.Ips) == 0 {
		return 0, chk.Err("no integration point data available")
	}
	dmin, found := -1.0, false
	for _, ip := range o.Ips {
		v, ok := ip.Vals[key]
		if !ok {
			continue
		}
		d := 0.0
		for i := 0; i < len(x); i++ {
			d += (x[i] - ip.X[i]) * (x[i] - ip.X[i])
		}
		if dmin < 0 || d < dmin {
			dmin, val, found = d, v, true
		}
	}
	if !found {
		return 0, chk.Err("no integration point carries key %q", key)
	}
	return
}
