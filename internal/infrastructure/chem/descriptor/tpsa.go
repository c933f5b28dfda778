package descriptor

import "github.com/turtacn/MolViz/internal/domain/molecule"

// polarEnv summarises the environment of a nitrogen or oxygen for the
// fragment table lookup.
type polarEnv struct {
	heavy    int
	h        int
	charge   int
	single   int
	double   int
	triple   int
	aromatic int
	in3Ring  bool
}

func newPolarEnv(m *molecule.Molecule, i int) polarEnv {
	e := polarEnv{h: m.TotalH(i), charge: m.Atoms[i].Charge, in3Ring: m.InRingOfSize(i, 3)}
	for _, nb := range heavyNeighbors(m, i) {
		e.heavy++
		switch {
		case nb.bond.Aromatic:
			e.aromatic++
		case nb.bond.Order == molecule.BondSingle:
			e.single++
		case nb.bond.Order == molecule.BondDouble:
			e.double++
		case nb.bond.Order == molecule.BondTriple:
			e.triple++
		}
	}
	return e
}

// TPSA sums the fragment contributions of nitrogen and oxygen atoms
// (Ertl, Rohde and Selzer). Sulfur and phosphorus are not counted.
func TPSA(m *molecule.Molecule) float64 {
	total := 0.0
	for i := range m.Atoms {
		switch m.Atoms[i].AtomicNumber {
		case 7:
			total += nitrogenPSA(newPolarEnv(m, i), m.Atoms[i].Aromatic)
		case 8:
			total += oxygenPSA(newPolarEnv(m, i), m.Atoms[i].Aromatic)
		}
	}
	return total
}

func nitrogenPSA(e polarEnv, aromatic bool) float64 {
	if aromatic {
		switch {
		case e.charge == 0 && e.h == 0 && e.heavy == 2 && e.aromatic == 2:
			return 12.89
		case e.charge == 0 && e.h == 0 && e.heavy == 3 && e.aromatic == 3:
			return 4.41
		case e.charge == 0 && e.h == 0 && e.heavy == 3 && e.single == 1 && e.aromatic == 2:
			return 4.93
		case e.charge == 0 && e.h == 0 && e.heavy == 3 && e.double == 1 && e.aromatic == 2:
			return 8.39
		case e.charge == 0 && e.h == 1 && e.heavy == 2 && e.aromatic == 2:
			return 15.79
		case e.charge == 1 && e.h == 0 && e.heavy == 3 && e.aromatic == 3:
			return 4.10
		case e.charge == 1 && e.h == 0 && e.heavy == 3 && e.single == 1 && e.aromatic == 2:
			return 3.88
		case e.charge == 1 && e.h == 1 && e.heavy == 2 && e.aromatic == 2:
			return 14.14
		}
		return nitrogenFallback(e)
	}

	switch e.charge {
	case 0:
		switch {
		case e.h == 0 && e.heavy == 3 && e.single == 3 && e.in3Ring:
			return 3.01
		case e.h == 0 && e.heavy == 3 && e.single == 3:
			return 3.24
		case e.h == 0 && e.heavy == 2 && e.single == 1 && e.double == 1:
			return 12.36
		case e.h == 0 && e.heavy == 1 && e.triple == 1:
			return 23.79
		case e.h == 0 && e.heavy == 3 && e.single == 1 && e.double == 2:
			return 11.68
		case e.h == 0 && e.heavy == 2 && e.double == 1 && e.triple == 1:
			return 13.60
		case e.h == 1 && e.heavy == 2 && e.single == 2 && e.in3Ring:
			return 21.94
		case e.h == 1 && e.heavy == 2 && e.single == 2:
			return 12.03
		case e.h == 1 && e.heavy == 1 && e.double == 1:
			return 23.85
		case e.h == 2 && e.heavy == 1 && e.single == 1:
			return 26.02
		case e.h == 0 && e.heavy == 2 && e.double == 2:
			return 13.60
		}
	case 1:
		switch {
		case e.h == 0 && e.heavy == 4 && e.single == 4:
			return 0.00
		case e.h == 0 && e.heavy == 3 && e.single == 2 && e.double == 1:
			return 3.01
		case e.h == 0 && e.heavy == 2 && e.single == 1 && e.triple == 1:
			return 4.36
		case e.h == 1 && e.heavy == 3 && e.single == 3:
			return 4.44
		case e.h == 1 && e.heavy == 2 && e.single == 1 && e.double == 1:
			return 13.97
		case e.h == 2 && e.heavy == 2 && e.single == 2:
			return 16.61
		case e.h == 2 && e.heavy == 1 && e.double == 1:
			return 25.59
		case e.h == 3 && e.heavy == 1 && e.single == 1:
			return 27.64
		case e.h == 0 && e.heavy == 2 && e.double == 2:
			return 4.36
		}
	case -1:
		if e.h == 0 && e.heavy == 1 && e.double == 1 {
			return 23.79
		}
	}
	return nitrogenFallback(e)
}

// nitrogenFallback estimates environments missing from the table.
func nitrogenFallback(e polarEnv) float64 {
	v := 30.5 - 8.2*float64(e.heavy) + 1.5*float64(e.h)
	if v < 0 {
		return 0
	}
	return v
}

func oxygenPSA(e polarEnv, aromatic bool) float64 {
	if aromatic {
		if e.charge == 0 && e.heavy == 2 && e.aromatic == 2 {
			return 13.14
		}
		return oxygenFallback(e)
	}
	switch {
	case e.charge == 0 && e.h == 0 && e.heavy == 2 && e.single == 2 && e.in3Ring:
		return 12.53
	case e.charge == 0 && e.h == 0 && e.heavy == 2 && e.single == 2:
		return 9.23
	case e.charge == 0 && e.h == 0 && e.heavy == 1 && e.double == 1:
		return 17.07
	case e.charge == 0 && e.h == 1 && e.heavy == 1 && e.single == 1:
		return 20.23
	case e.charge == -1 && e.h == 0 && e.heavy == 1 && e.single == 1:
		return 23.06
	}
	return oxygenFallback(e)
}

func oxygenFallback(e polarEnv) float64 {
	v := 28.5 - 8.6*float64(e.heavy) + 1.5*float64(e.h)
	if v < 0 {
		return 0
	}
	return v
}

//Personal.AI order the ending
