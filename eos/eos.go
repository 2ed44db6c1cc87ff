// Package eos evaluates bicubic-spline equation-of-state fits stored in
// uio files. The tables live on a log-log grid of density and internal
// energy; each cell carries 16 polynomial coefficients per quantity
// (entropy, temperature, pressure). Temperature and pressure are fitted
// in the log, so their spline values go through exp.
package eos

import (
	"errors"
	"fmt"
	"math"

	"github.com/scigolib/uio"
)

// ErrBadTable reports an EOS table whose grid and coefficient sizes do
// not fit together.
var ErrBadTable = errors.New("inconsistent eos table")

// Interpolator evaluates the spline fits of one EOS file.
type Interpolator struct {
	lnRho []float64 // ln(x1 + x1shift) grid knots, ascending
	lnEi  []float64 // ln(x2 + x2shift) grid knots, ascending
	shift float64   // x2shift, added to ei before taking the log

	rhoFac float64 // (len-1) / (max-min), uniform-grid cell factor
	eiFac  float64

	c1 []float64 // entropy coefficients, 16 per cell
	c2 []float64 // ln T coefficients
	c3 []float64 // ln P coefficients
}

// Load builds an Interpolator from an opened EOS uio file. The grid
// entries x1, x2, x1shift, x2shift and the coefficient tables c1, c2,
// c3 may sit at file scope or inside any dataset or box.
func Load(f *uio.File) (*Interpolator, error) {
	x1, err := findFloats(f, "x1")
	if err != nil {
		return nil, err
	}
	x2, err := findFloats(f, "x2")
	if err != nil {
		return nil, err
	}
	x1shift, err := findScalar(f, "x1shift")
	if err != nil {
		return nil, err
	}
	x2shift, err := findScalar(f, "x2shift")
	if err != nil {
		return nil, err
	}
	c1, err := findFloats(f, "c1")
	if err != nil {
		return nil, err
	}
	c2, err := findFloats(f, "c2")
	if err != nil {
		return nil, err
	}
	c3, err := findFloats(f, "c3")
	if err != nil {
		return nil, err
	}
	return New(x1, x2, x1shift, x2shift, c1, c2, c3)
}

// New builds an Interpolator from raw table arrays. The coefficient
// slices are flat with 16 values per (x1, x2) grid point, x1 varying
// faster than x2.
func New(x1, x2 []float64, x1shift, x2shift float64, c1, c2, c3 []float64) (*Interpolator, error) {
	if len(x1) < 2 || len(x2) < 2 {
		return nil, fmt.Errorf("%w: grid needs at least 2 knots per axis, got %dx%d",
			ErrBadTable, len(x1), len(x2))
	}
	want := 16 * len(x1) * len(x2)
	for _, c := range [][]float64{c1, c2, c3} {
		if len(c) != want {
			return nil, fmt.Errorf("%w: coefficient table has %d values, want %d",
				ErrBadTable, len(c), want)
		}
	}

	ip := &Interpolator{
		lnRho: make([]float64, len(x1)),
		lnEi:  make([]float64, len(x2)),
		shift: x2shift,
		c1:    c1,
		c2:    c2,
		c3:    c3,
	}
	for i, v := range x1 {
		ip.lnRho[i] = math.Log(v + x1shift)
	}
	for i, v := range x2 {
		ip.lnEi[i] = math.Log(v + x2shift)
	}
	ip.rhoFac = float64(len(x1)-1) / (ip.lnRho[len(x1)-1] - ip.lnRho[0])
	ip.eiFac = float64(len(x2)-1) / (ip.lnEi[len(x2)-1] - ip.lnEi[0])
	return ip, nil
}

// cell locates the grid cell for one (rho, ei) query and returns the
// cell's flat index origin plus the local log-space coordinates.
// Out-of-range queries clamp to the edge cells.
func (ip *Interpolator) cell(rho, ei float64) (base int, x1t, x2t float64) {
	lnRho := math.Log(rho)
	lnEi := math.Log(ei + ip.shift)

	i1 := int((lnRho - ip.lnRho[0]) * ip.rhoFac)
	i2 := int((lnEi - ip.lnEi[0]) * ip.eiFac)
	i1 = clamp(i1, len(ip.lnRho)-2)
	i2 = clamp(i2, len(ip.lnEi)-2)

	x1t = lnRho - ip.lnRho[i1]
	x2t = lnEi - ip.lnEi[i2]
	return (i2*len(ip.lnRho) + i1) * 16, x1t, x2t
}

func clamp(i, hi int) int {
	if i < 0 {
		return 0
	}
	if i > hi {
		return hi
	}
	return i
}

// eval computes the bicubic polynomial of one cell at local coordinates
// (x1t, x2t). The 16 coefficients are grouped into four cubics in x1t,
// combined as a cubic in x2t.
func eval(c []float64, x1t, x2t float64) float64 {
	a := c[0] + x1t*(c[1]+x1t*(c[2]+x1t*c[3]))
	b := c[4] + x1t*(c[5]+x1t*(c[6]+x1t*c[7]))
	d := c[8] + x1t*(c[9]+x1t*(c[10]+x1t*c[11]))
	e := c[12] + x1t*(c[13]+x1t*(c[14]+x1t*c[15]))
	return a + x2t*(b+x2t*(d+x2t*e))
}

// evalDx1 is the partial derivative of eval with respect to x1t.
func evalDx1(c []float64, x1t, x2t float64) float64 {
	a := c[1] + x1t*(2*c[2]+3*x1t*c[3])
	b := c[5] + x1t*(2*c[6]+3*x1t*c[7])
	d := c[9] + x1t*(2*c[10]+3*x1t*c[11])
	e := c[13] + x1t*(2*c[14]+3*x1t*c[15])
	return a + x2t*(b+x2t*(d+x2t*e))
}

// evalDx2 is the partial derivative of eval with respect to x2t.
func evalDx2(c []float64, x1t, x2t float64) float64 {
	b := c[4] + x1t*(c[5]+x1t*(c[6]+x1t*c[7]))
	d := c[8] + x1t*(c[9]+x1t*(c[10]+x1t*c[11]))
	e := c[12] + x1t*(c[13]+x1t*(c[14]+x1t*c[15]))
	return b + 2*x2t*d + 3*x2t*x2t*e
}

// Entropy returns the specific entropy at density rho and internal
// energy ei.
func (ip *Interpolator) Entropy(rho, ei float64) float64 {
	base, x1t, x2t := ip.cell(rho, ei)
	return eval(ip.c1[base:base+16], x1t, x2t)
}

// Temperature returns the temperature at (rho, ei).
func (ip *Interpolator) Temperature(rho, ei float64) float64 {
	base, x1t, x2t := ip.cell(rho, ei)
	return math.Exp(eval(ip.c2[base:base+16], x1t, x2t))
}

// Pressure returns the gas pressure at (rho, ei).
func (ip *Interpolator) Pressure(rho, ei float64) float64 {
	base, x1t, x2t := ip.cell(rho, ei)
	return math.Exp(eval(ip.c3[base:base+16], x1t, x2t))
}

// PressureDerivs returns the pressure and its partial derivatives with
// respect to density and internal energy. The fit is in ln P over
// (ln rho, ln(ei+shift)), so the chain rule brings in P/rho and
// P/(ei+shift) factors.
func (ip *Interpolator) PressureDerivs(rho, ei float64) (p, dpdrho, dpdei float64) {
	base, x1t, x2t := ip.cell(rho, ei)
	c := ip.c3[base : base+16]
	p = math.Exp(eval(c, x1t, x2t))
	dpdrho = p / rho * evalDx1(c, x1t, x2t)
	dpdei = p / (ei + ip.shift) * evalDx2(c, x1t, x2t)
	return p, dpdrho, dpdei
}

// TemperatureDerivs returns the temperature and its partial derivative
// with respect to internal energy.
func (ip *Interpolator) TemperatureDerivs(rho, ei float64) (t, dtdei float64) {
	base, x1t, x2t := ip.cell(rho, ei)
	c := ip.c2[base : base+16]
	t = math.Exp(eval(c, x1t, x2t))
	dtdei = t / (ei + ip.shift) * evalDx2(c, x1t, x2t)
	return t, dtdei
}

// EntropyAll evaluates Entropy element-wise over equal-length slices.
func (ip *Interpolator) EntropyAll(rho, ei []float64) ([]float64, error) {
	return ip.evalAll(rho, ei, ip.Entropy)
}

// TemperatureAll evaluates Temperature element-wise.
func (ip *Interpolator) TemperatureAll(rho, ei []float64) ([]float64, error) {
	return ip.evalAll(rho, ei, ip.Temperature)
}

// PressureAll evaluates Pressure element-wise.
func (ip *Interpolator) PressureAll(rho, ei []float64) ([]float64, error) {
	return ip.evalAll(rho, ei, ip.Pressure)
}

func (ip *Interpolator) evalAll(rho, ei []float64, f func(float64, float64) float64) ([]float64, error) {
	if len(rho) != len(ei) {
		return nil, fmt.Errorf("%w: %d densities vs %d energies",
			ErrBadTable, len(rho), len(ei))
	}
	out := make([]float64, len(rho))
	for i := range rho {
		out[i] = f(rho[i], ei[i])
	}
	return out, nil
}

// findEntry scans the whole tree, file scope first, then each dataset
// and its boxes, for the first entry with the given name.
func findEntry(f *uio.File, name string) (*uio.Entry, error) {
	if e, err := f.Lookup(name); err == nil {
		return e, nil
	} else if errors.Is(err, uio.ErrClosed) {
		return nil, err
	}
	for _, ds := range f.Datasets() {
		if e, err := ds.Lookup(name); err == nil {
			return e, nil
		}
		for _, b := range ds.Boxes() {
			if e, err := b.Lookup(name); err == nil {
				return e, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", uio.ErrNotFound, name)
}

func findFloats(f *uio.File, name string) ([]float64, error) {
	e, err := findEntry(f, name)
	if err != nil {
		return nil, err
	}
	return e.Floats()
}

func findScalar(f *uio.File, name string) (float64, error) {
	vals, err := findFloats(f, name)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("%w: %q is empty", ErrBadTable, name)
	}
	return vals[0], nil
}
