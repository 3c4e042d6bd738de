// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp implements the input data read from a (.sim) JSON file
package inp

import (
	"encoding/json"
	goio "io"
	"math"
	"os"
	"path/filepath"

	"github.com/strucmech/nlfem/mdl/solid"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `json:"desc"`    // description of simulation
	DirOut  string `json:"dirout"`  // directory for output; e.g. /tmp/nlfem
	Ndim    int    `json:"ndim"`    // space dimension; 0 => derive from vertices
	Pstress bool   `json:"pstress"` // plane-stress
	ListBcs bool   `json:"listbcs"` // list boundary conditions
}

// LinSolData holds data for linear solvers
type LinSolData struct {
	Name      string `json:"name"`      // "mumps" or "umfpack"
	Symmetric bool   `json:"symmetric"` // use symmetric solver
	Verbose   bool   `json:"verbose"`   // verbose?
	Timing    bool   `json:"timing"`    // show timing statistics
}

// SolverData holds nonlinear solver data
type SolverData struct {
	Type    string  `json:"type"`    // nonlinear solver type; e.g. "imp" => implicit
	NmaxIt  int     `json:"nmaxit"`  // number of max iterations
	Atol    float64 `json:"atol"`    // absolute tolerance
	Rtol    float64 `json:"rtol"`    // relative tolerance
	FbTol   float64 `json:"fbtol"`   // tolerance for convergence on fb
	FbMin   float64 `json:"fbmin"`   // minimum value of fb
	DvgCtrl bool    `json:"dvgctrl"` // use divergence control
	NdvgMax int     `json:"ndvgmax"` // max number of continued divergence
	CteTg   bool    `json:"ctetg"`   // use constant tangent (modified Newton) during iterations
	ShowR   bool    `json:"showr"`   // show residual
	DlfMin  float64 `json:"dlfmin"`  // minimum Δλ when halving steps under divergence control

	// constants
	Eps float64 `json:"eps"` // smallest number satisfying 1.0 + ϵ > 1.0

	// derived
	Itol float64 // iterations tolerance
}

// Control holds the load stepping data: the load factor λ plays the role
// of a pseudo-time running from 0 to Lf
type Control struct {
	Lf     float64 `json:"lf"`     // final load factor
	Dlf    float64 `json:"dlf"`    // load factor increment (if constant)
	DlfFcn string  `json:"dlffcn"` // load factor increment (function name)

	// derived
	DlfFunc dbf.T // load factor increment function
}

// Vert holds vertex data
type Vert struct {
	Id  int       `json:"id"`  // id
	Tag int       `json:"tag"` // tag; negative tags select vertices for BCs
	C   []float64 `json:"c"`   // coordinates
}

// Cell holds cell data
type Cell struct {
	Id    int    `json:"id"`    // id
	Tag   int    `json:"tag"`   // tag
	Type  string `json:"type"`  // type of element; e.g. "truss", "tri3", "tri3-tl", "qua4"
	Corot bool   `json:"corot"` // wrap element with corotational frame
	Mat   string `json:"mat"`   // material name
	Verts []int  `json:"verts"` // vertex ids
}

// Material holds a material name, model name and parameters
type Material struct {
	Name  string   `json:"name"`  // name of material
	Model string   `json:"model"` // model name; e.g. "pstress", "fiber"
	Prms  dbf.Params `json:"prms"`  // model parameters
}

// FixBc holds essential (displacement) boundary conditions applied to all
// vertices with the given tag. Vals are the prescribed values (default 0).
type FixBc struct {
	Tag  int       `json:"tag"`  // tag of vertices
	Keys []string  `json:"keys"` // DOF codes; e.g. "ux", "uy"
	Vals []float64 `json:"vals"` // [optional] prescribed values
}

// LoadBc holds nodal loads (reference values, scaled by λ) applied to all
// vertices with the given tag
type LoadBc struct {
	Tag  int       `json:"tag"`  // tag of vertices
	Keys []string  `json:"keys"` // force codes aligned with DOF codes; e.g. "ux" => horizontal force
	Vals []float64 `json:"vals"` // reference load values
}

// FaceBc holds a distributed (surface) load: a reference normal traction qn
// applied on one local face of all cells with the given tag
type FaceBc struct {
	Tag  int     `json:"tag"`  // tag of cells
	Face int     `json:"face"` // local index of face/edge
	Qn   float64 `json:"qn"`   // reference normal traction; positive == along outward normal
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data        `json:"data"`      // global simulation data
	Functions FuncsData   `json:"functions"` // functions database
	Verts     []*Vert     `json:"verts"`     // vertices
	Cells     []*Cell     `json:"cells"`     // cells
	Materials []*Material `json:"materials"` // materials
	Fixities  []*FixBc    `json:"fixities"`  // essential BCs
	Loads     []*LoadBc   `json:"loads"`     // nodal loads
	SurfLoads []*FaceBc   `json:"surfloads"` // distributed loads
	LinSol    LinSolData  `json:"linsol"`    // linear solver data
	Solver    SolverData  `json:"solver"`    // nonlinear solver data
	Control   Control     `json:"control"`   // load stepping data

	// derived
	DirOut    string                 // directory to save results
	Key       string                 // simulation key; e.g. mysim01.sim => mysim01
	Ndim      int                    // space dimension
	MatModels map[string]solid.Model // material name => initialised model
}

// ReadSim reads all simulation data from a .sim JSON file
func ReadSim(simfilepath string, erasePrev bool) *Simulation {

	// new sim
	var o Simulation

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		chk.Panic("ReadSim: cannot read simulation file %q", simfilepath)
	}

	// set default values
	o.Solver.SetDefault()
	o.LinSol.SetDefault()

	// decode
	err = json.Unmarshal(b, &o)
	if err != nil {
		chk.Panic("ReadSim: cannot unmarshal simulation file %q", simfilepath)
	}

	// filename key
	fn := filepath.Base(simfilepath)
	o.Key = io.FnKey(fn)

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/nlfem/" + o.Key
	}
	err = os.MkdirAll(o.DirOut, 0777)
	if err != nil {
		chk.Panic("cannot create directory for output results (%s): %v", o.DirOut, err)
	}
	if erasePrev {
		io.RemoveAll(io.Sf("%s/%s*", o.DirOut, o.Key))
	}

	// space dimension
	o.Ndim = o.Data.Ndim
	for _, v := range o.Verts {
		if o.Ndim == 0 {
			o.Ndim = len(v.C)
		}
		if len(v.C) != o.Ndim {
			chk.Panic("ReadSim: vertex %d has %d coordinates (Ndim=%d)", v.Id, len(v.C), o.Ndim)
		}
	}
	if o.Ndim < 2 || o.Ndim > 3 {
		chk.Panic("ReadSim: Ndim must be 2 or 3 (got %d)", o.Ndim)
	}

	// set solver constants
	o.Solver.PostProcess()

	// fix Lf and Dlf
	if o.Control.Lf < 1e-14 {
		o.Control.Lf = 1
	}
	if o.Control.DlfFcn == "" {
		if o.Control.Dlf < 1e-14 {
			o.Control.Dlf = o.Control.Lf
		}
		o.Control.DlfFunc = &dbf.Cte{C: o.Control.Dlf}
	} else {
		o.Control.DlfFunc, err = o.Functions.Get(o.Control.DlfFcn)
		if err != nil {
			chk.Panic("%v", err)
		}
		o.Control.Dlf = o.Control.DlfFunc.F(0, nil)
	}

	// allocate and initialise material models
	o.MatModels = make(map[string]solid.Model)
	for _, m := range o.Materials {
		mdl, err := solid.New(m.Model)
		if err != nil {
			chk.Panic("ReadSim: cannot allocate model for material %q:\n%v", m.Name, err)
		}
		err = mdl.Init(o.Ndim, o.Data.Pstress, m.Prms)
		if err != nil {
			chk.Panic("ReadSim: cannot initialise model of material %q:\n%v", m.Name, err)
		}
		o.MatModels[m.Name] = mdl
	}

	// results
	return &o
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// GetVert returns the vertex with the given id
//  Note: returns nil if not found
func (o *Simulation) GetVert(id int) *Vert {
	for _, v := range o.Verts {
		if v.Id == id {
			return v
		}
	}
	return nil
}

// VtagVerts returns all vertices with the given tag
func (o *Simulation) VtagVerts(tag int) (verts []*Vert) {
	for _, v := range o.Verts {
		if v.Tag == tag {
			verts = append(verts, v)
		}
	}
	return
}

// CtagCells returns all cells with the given tag
func (o *Simulation) CtagCells(tag int) (cells []*Cell) {
	for _, c := range o.Cells {
		if c.Tag == tag {
			cells = append(cells, c)
		}
	}
	return
}

// GetMatModel returns the initialised model of a named material
//  Note: returns nil if not found
func (o *Simulation) GetMatModel(name string) solid.Model {
	return o.MatModels[name]
}

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// BuildCoordsMatrix returns the coordinates matrix of a particular cell
//  x[ndim][nverts]
func (o *Simulation) BuildCoordsMatrix(cell *Cell) (x [][]float64) {
	x = make([][]float64, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		x[i] = make([]float64, len(cell.Verts))
		for j, v := range cell.Verts {
			vert := o.GetVert(v)
			if vert == nil {
				chk.Panic("cannot find vertex %d of cell %d", v, cell.Id)
			}
			x[i][j] = vert.C[i]
		}
	}
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets default values
func (o *LinSolData) SetDefault() {
	o.Name = "umfpack"
}

// SetDefault sets default values
func (o *SolverData) SetDefault() {
	o.Type = "imp"
	o.NmaxIt = 20
	o.Atol = 1e-6
	o.Rtol = 1e-6
	o.FbTol = 1e-8
	o.FbMin = 1e-14
	o.NdvgMax = 20
	o.DlfMin = 1e-8
	o.Eps = 1e-16
}

// PostProcess computes derived quantities after reading the json file
func (o *SolverData) PostProcess() {
	o.Itol = utl.Max(10.0*o.Eps/o.Rtol, utl.Min(0.01, math.Sqrt(o.Rtol)))
}
