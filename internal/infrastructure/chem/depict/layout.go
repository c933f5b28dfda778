// Package depict lays out a hydrogen-suppressed molecule in the plane and
// renders it as a PNG structure diagram.
package depict

import (
	"context"
	"math"
	"math/rand"

	"github.com/turtacn/MolViz/internal/domain/molecule"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/geometry"
)

// Point is a 2D layout position in bond-length units.
type Point struct{ X, Y float64 }

const (
	layoutSlack    = 0.02
	nonBondedLower = 1.2
	layoutAttempts = 10
)

// Layout computes 2D coordinates for every atom of m. Bonds have unit length.
// The layout never fails for a non-empty molecule: when the constraints
// cannot all be met the best attempt is returned.
func Layout(ctx context.Context, m *molecule.Molecule, rng *rand.Rand) ([]Point, error) {
	res, err := geometry.Embed(ctx, layoutBounds(m), geometry.Options{
		Dim:         2,
		MaxAttempts: layoutAttempts,
		AcceptBest:  true,
		Rand:        rng,
	})
	if err != nil {
		return nil, err
	}
	pts := make([]Point, len(res.Coords))
	for i, c := range res.Coords {
		pts[i] = Point{c[0], c[1]}
	}
	orient(pts)
	return pts, nil
}

// interior returns the inner angle of a regular polygon with size corners.
func interior(size int) float64 {
	return math.Pi * float64(size-2) / float64(size)
}

// layoutAngle picks the planar i-j-k angle.
func layoutAngle(m *molecule.Molecule, i, j, k int) float64 {
	if s := m.SmallestRingContaining(i, j, k); s > 0 {
		return interior(s)
	}
	si, sk := m.SmallestRingContaining(i, j), m.SmallestRingContaining(j, k)
	switch {
	case si > 0 && sk == 0:
		return math.Pi - interior(si)/2
	case sk > 0 && si == 0:
		return math.Pi - interior(sk)/2
	}
	switch deg := m.Degree(j); {
	case deg == 2:
		if m.HasBondOfOrder(j, molecule.BondTriple) || doubles(m, j) == 2 {
			return math.Pi
		}
		return 2 * math.Pi / 3
	case deg == 3:
		return 2 * math.Pi / 3
	case deg == 4:
		return math.Pi / 2
	default:
		return 2 * math.Pi / float64(deg)
	}
}

func doubles(m *molecule.Molecule, j int) int {
	n := 0
	for _, bi := range m.BondsOf(j) {
		if m.Bonds[bi].IsPlainDouble() {
			n++
		}
	}
	return n
}

func layoutBounds(m *molecule.Molecule) *geometry.Bounds {
	n := m.NumAtoms()
	b := geometry.NewBounds(n, math.Max(10, 1.6*float64(n)))
	fixed := make([]bool, n*n)
	mark := func(i, j int) { fixed[i*n+j], fixed[j*n+i] = true, true }

	for _, bd := range m.Bonds {
		b.Set(bd.Begin, bd.End, 1-layoutSlack, 1+layoutSlack)
		mark(bd.Begin, bd.End)
	}
	for j := 0; j < n; j++ {
		nb := m.Neighbors(j)
		for x := 0; x < len(nb); x++ {
			for y := x + 1; y < len(nb); y++ {
				i, k := nb[x], nb[y]
				if fixed[i*n+k] {
					continue
				}
				d := geometry.LawOfCosines(1, 1, layoutAngle(m, i, j, k))
				b.Set(i, k, d-layoutSlack, d+layoutSlack)
				mark(i, k)
			}
		}
	}
	for bi, bd := range m.Bonds {
		j, k := bd.Begin, bd.End
		for _, i := range m.Neighbors(j) {
			if i == k {
				continue
			}
			for _, l := range m.Neighbors(k) {
				if l == j || l == i || fixed[i*n+l] {
					continue
				}
				alpha, beta := layoutAngle(m, i, j, k), layoutAngle(m, j, k, l)
				cis := geometry.TorsionDistance(1, 1, 1, alpha, beta, 0)
				trans := geometry.TorsionDistance(1, 1, 1, alpha, beta, math.Pi)
				switch {
				case m.IsRingBond(bi):
					if ringCis(m, j, k, i, l) {
						b.Set(i, l, cis-layoutSlack, cis+layoutSlack)
					} else {
						b.Set(i, l, trans-layoutSlack, trans+layoutSlack)
					}
				case m.Degree(j) == 2 && m.Degree(k) == 2:
					b.Set(i, l, trans-layoutSlack, trans+layoutSlack)
				default:
					b.Set(i, l, cis-layoutSlack, trans+layoutSlack)
				}
				mark(i, l)
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !fixed[i*n+j] {
				b.SetLower(i, j, nonBondedLower)
			}
		}
	}
	b.Smooth()
	return b
}

// ringCis reports whether i and l lie on the same side of ring bond j-k.
func ringCis(m *molecule.Molecule, j, k, i, l int) bool {
	inI := m.SmallestRingContaining(i, j, k) != 0
	inL := m.SmallestRingContaining(j, k, l) != 0
	switch {
	case inI && inL:
		return m.SmallestRingContaining(i, j, k, l) != 0
	case inI != inL:
		return false
	}
	return true
}

// orient centres pts and rotates their principal axis onto x.
func orient(pts []Point) {
	if len(pts) == 0 {
		return
	}
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))
	var sxx, syy, sxy float64
	for i := range pts {
		pts[i].X -= cx
		pts[i].Y -= cy
		sxx += pts[i].X * pts[i].X
		syy += pts[i].Y * pts[i].Y
		sxy += pts[i].X * pts[i].Y
	}
	theta := 0.5 * math.Atan2(2*sxy, sxx-syy)
	c, s := math.Cos(-theta), math.Sin(-theta)
	for i := range pts {
		x, y := pts[i].X, pts[i].Y
		pts[i] = Point{x*c - y*s, x*s + y*c}
	}
}

//Personal.AI order the ending
