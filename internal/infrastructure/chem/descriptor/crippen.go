package descriptor

import "github.com/turtacn/MolViz/internal/domain/molecule"

// crippenType is one Wildman-Crippen atom class with its logP and molar
// refractivity contributions.
type crippenType struct {
	logP float64
	mr   float64
}

var crippenTypes = map[string]crippenType{
	"C1":  {0.1441, 2.503},
	"C2":  {0.0000, 2.433},
	"C3":  {-0.2035, 2.753},
	"C4":  {-0.2051, 2.731},
	"C5":  {-0.2783, 5.007},
	"C6":  {0.1551, 3.513},
	"C7":  {0.0017, 3.888},
	"C8":  {0.08452, 2.464},
	"C9":  {-0.1444, 2.412},
	"C10": {-0.0516, 2.488},
	"C11": {0.1193, 2.582},
	"C12": {-0.0967, 2.576},
	"C13": {-0.5443, 4.041},
	"C14": {0.0000, 3.257},
	"C15": {0.2450, 3.564},
	"C16": {0.1980, 3.180},
	"C17": {0.0000, 3.104},
	"C18": {0.1581, 3.350},
	"C19": {0.2955, 4.346},
	"C20": {0.2713, 3.904},
	"C21": {0.1360, 3.509},
	"C22": {0.4619, 3.067},
	"C23": {0.5437, 3.853},
	"C24": {0.1893, 2.673},
	"C25": {-0.8186, 3.135},
	"C26": {0.2640, 4.305},
	"C27": {0.2148, 2.693},
	"CS":  {0.08129, 3.243},
	"H1":  {0.1230, 1.057},
	"H2":  {-0.2677, 1.395},
	"H3":  {0.2142, 0.9627},
	"H4":  {0.2980, 1.805},
	"HS":  {0.1125, 1.112},
	"N1":  {-1.0190, 2.262},
	"N2":  {-0.7096, 2.173},
	"N3":  {-1.0270, 2.827},
	"N4":  {-0.5188, 3.000},
	"N5":  {0.08387, 1.757},
	"N6":  {0.1836, 2.428},
	"N7":  {-0.3187, 1.839},
	"N8":  {-0.4458, 2.819},
	"N9":  {0.01508, 1.725},
	"N10": {-1.9500, 0},
	"N11": {-0.3239, 2.202},
	"N12": {-1.1190, 0},
	"N13": {-0.3396, 0.2604},
	"N14": {0.2887, 3.359},
	"NS":  {-0.4806, 2.134},
	"O1":  {0.1552, 1.080},
	"O2":  {-0.2893, 0.8238},
	"O3":  {-0.0684, 1.085},
	"O4":  {-0.4195, 1.182},
	"O5":  {0.0335, 3.367},
	"O6":  {-0.3339, 0.7774},
	"O7":  {-1.1890, 0},
	"O8":  {0.1788, 3.135},
	"O9":  {-0.1526, 0},
	"O10": {0.1129, 0.2215},
	"O11": {0.4833, 0.389},
	"O12": {-1.3260, 0},
	"OS":  {-0.1188, 0.6865},
	"F":   {0.4202, 1.108},
	"Cl":  {0.6895, 5.853},
	"Br":  {0.8456, 8.927},
	"I":   {0.8857, 14.02},
	"Hal": {-2.9960, 0},
	"P":   {0.8612, 6.920},
	"S1":  {0.6482, 7.591},
	"S2":  {-0.0024, 7.365},
	"S3":  {0.6237, 6.691},
	"Me1": {-0.3808, 5.754},
	"Me2": {-0.0025, 0},
}

// Crippen returns the Wildman-Crippen logP and molar refractivity: the sum of
// per-atom contributions, hydrogens included and typed by their parent.
func Crippen(m *molecule.Molecule) (logP, mr float64) {
	add := func(label string, n int) {
		t, ok := crippenTypes[label]
		if !ok || n == 0 {
			return
		}
		logP += t.logP * float64(n)
		mr += t.mr * float64(n)
	}
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.IsHydrogen() {
			if label, own := hydrogenVertexType(m, i); own {
				add(label, 1)
			}
			continue
		}
		add(AtomType(m, i), 1)
		add(hydrogenType(m, i), m.TotalH(i))
	}
	return logP, mr
}

// AtomType returns the Wildman-Crippen class of heavy atom i, or "" for
// elements without a class.
func AtomType(m *molecule.Molecule, i int) string {
	a := &m.Atoms[i]
	switch a.AtomicNumber {
	case 6:
		if a.Aromatic {
			return aromaticCarbonType(m, i)
		}
		return carbonType(m, i)
	case 7:
		return nitrogenType(m, i)
	case 8:
		return oxygenType(m, i)
	case 9, 17, 35, 53:
		if a.Charge < 0 || (a.AtomicNumber == 53 && a.Charge > 0) {
			return "Hal"
		}
		if a.Charge == 0 {
			return a.Symbol
		}
		return ""
	case 15:
		return "P"
	case 16:
		switch {
		case a.Aromatic:
			return "S3"
		case a.Charge == 0:
			return "S1"
		default:
			return "S2"
		}
	case 3, 11, 19:
		return "Me1"
	case 12, 20, 26, 29, 30:
		return "Me2"
	}
	return ""
}

// hetero elements of the aliphatic carbon classes
func isClassHetero(nb neighbor) bool {
	if !nb.aliphatic() {
		return false
	}
	switch nb.z() {
	case 7, 8, 15, 16, 9, 17, 35, 53:
		return true
	}
	return false
}

// isCommon reports the elements excluded by the "other element" classes.
func isCommon(z int, withP bool) bool {
	switch z {
	case 6, 7, 8, 16, 9, 17, 35, 53, 1:
		return true
	case 15:
		return withP
	}
	return false
}

func carbonType(m *molecule.Molecule, i int) string {
	ns := heavyNeighbors(m, i)
	h := m.TotalH(i)
	x := connections(m, i)

	defAliphC := countWhere(ns, func(n neighbor) bool { return isDefault(n.bond) && n.aliphatic() && n.z() == 6 })
	defAliph := countWhere(ns, func(n neighbor) bool { return isDefault(n.bond) && n.aliphatic() })
	defArom := countWhere(ns, func(n neighbor) bool { return isDefault(n.bond) && !n.aliphatic() })
	defArC := countWhere(ns, func(n neighbor) bool { return isDefault(n.bond) && !n.aliphatic() && n.z() == 6 })
	defHet := countWhere(ns, func(n neighbor) bool { return isDefault(n.bond) && isClassHetero(n) })
	dblAliphC := countWhere(ns, func(n neighbor) bool { return isDouble(n.bond) && n.aliphatic() && n.z() == 6 })

	switch {
	case h == 4 && len(ns) == 0,
		h == 3 && defAliphC >= 1,
		h == 2 && defAliphC >= 2:
		return "C1"
	case h == 1 && defAliphC >= 3,
		h == 0 && defAliphC >= 4:
		return "C2"
	case h == 3 && defHet >= 1,
		h == 2 && x == 4 && defHet >= 1 && defAliph >= 2:
		return "C3"
	case h == 1 && x == 4 && defHet >= 1 && defAliph >= 3,
		h == 0 && x == 4 && defHet >= 1 && defAliph >= 4:
		return "C4"
	case anyWhere(ns, func(n neighbor) bool { return isDouble(n.bond) && n.aliphatic() && n.z() != 6 }):
		return "C5"
	case h == 2 && dblAliphC >= 1,
		h == 1 && dblAliphC >= 1 && defAliph >= 1,
		h == 0 && dblAliphC >= 1 && defAliph >= 2,
		dblAliphC >= 2:
		return "C6"
	case x == 2 && anyWhere(ns, func(n neighbor) bool { return isTriple(n.bond) && n.aliphatic() }):
		return "C7"
	case h == 3 && defArC >= 1:
		return "C8"
	case h == 3 && defArom >= 1:
		return "C9"
	case x == 4 && defArom >= 1 && h == 2:
		return "C10"
	case x == 4 && defArom >= 1 && h == 1:
		return "C11"
	case x == 4 && defArom >= 1 && h == 0:
		return "C12"
	case dblAliphC >= 1 && defArom >= 1 && defAliph >= 1,
		dblAliphC >= 1 && defArom >= 2 && defArC >= 1,
		h == 1 && dblAliphC >= 1 && defArom >= 1,
		anyWhere(ns, func(n neighbor) bool { return isDouble(n.bond) && !n.aliphatic() && n.z() == 6 }):
		return "C26"
	case x == 4 && anyWhere(ns, func(n neighbor) bool {
		return isDefault(n.bond) && n.aliphatic() && !isCommon(n.z(), true)
	}):
		return "C27"
	}
	return "CS"
}

func aromaticCarbonType(m *molecule.Molecule, i int) string {
	ns := heavyNeighbors(m, i)
	h := m.TotalH(i)
	aromN := countWhere(ns, func(n neighbor) bool { return isAromatic(n.bond) && !n.aliphatic() })
	hasDefTo := func(z int) bool {
		return anyWhere(ns, func(n neighbor) bool { return isDefault(n.bond) && n.z() == z })
	}
	singleTo := func(pred func(neighbor) bool) bool {
		return anyWhere(ns, func(n neighbor) bool { return isSingle(n.bond) && pred(n) })
	}

	switch {
	case h == 0 && singleTo(func(n neighbor) bool { return n.aliphatic() && !isCommon(n.z(), false) }):
		return "C13"
	case hasDefTo(9):
		return "C14"
	case hasDefTo(17):
		return "C15"
	case hasDefTo(35):
		return "C16"
	case hasDefTo(53):
		return "C17"
	case h == 1:
		return "C18"
	case aromN >= 3:
		return "C19"
	}
	if aromN >= 2 {
		switch {
		case singleTo(func(n neighbor) bool { return !n.aliphatic() }):
			return "C20"
		case singleTo(func(n neighbor) bool { return n.aliphatic() && n.z() == 6 }):
			return "C21"
		case singleTo(func(n neighbor) bool { return n.aliphatic() && n.z() == 7 }):
			return "C22"
		case singleTo(func(n neighbor) bool { return n.aliphatic() && n.z() == 8 }):
			return "C23"
		case singleTo(func(n neighbor) bool { return n.aliphatic() && n.z() == 16 }):
			return "C24"
		case anyWhere(ns, func(n neighbor) bool {
			return isDouble(n.bond) && n.aliphatic() && (n.z() == 6 || n.z() == 7 || n.z() == 8)
		}):
			return "C25"
		}
	}
	return "CS"
}

func nitrogenType(m *molecule.Molecule, i int) string {
	a := &m.Atoms[i]
	if a.Aromatic {
		if a.Charge == 0 {
			return "N11"
		}
		if a.Charge > 0 {
			return "N12"
		}
		return "N14"
	}
	ns := heavyNeighbors(m, i)
	h := m.TotalH(i)
	defAliph := countWhere(ns, func(n neighbor) bool { return isDefault(n.bond) && n.aliphatic() })
	defArom := countWhere(ns, func(n neighbor) bool { return isDefault(n.bond) && !n.aliphatic() })
	defHeavy := countWhere(ns, func(n neighbor) bool { return isDefault(n.bond) })
	dblHeavy := countWhere(ns, func(n neighbor) bool { return isDouble(n.bond) })
	dblAliph := countWhere(ns, func(n neighbor) bool { return isDouble(n.bond) && n.aliphatic() })
	tripleAliph := anyWhere(ns, func(n neighbor) bool { return isTriple(n.bond) && n.aliphatic() })

	switch {
	case a.Charge == 0:
		switch {
		case h == 2 && defAliph >= 1:
			return "N1"
		case h == 1 && defAliph >= 2:
			return "N2"
		case h == 2 && defArom >= 1:
			return "N3"
		case h == 1 && defArom >= 1 && defHeavy >= 2:
			return "N4"
		case h == 1 && dblHeavy >= 1:
			return "N5"
		case dblHeavy >= 1 && defHeavy >= 1:
			return "N6"
		case defAliph >= 3:
			return "N7"
		case defArom >= 1 && defAliph >= 1 && defHeavy >= 3,
			defArom >= 3:
			return "N8"
		case tripleAliph:
			return "N9"
		}
	case a.Charge > 0:
		switch {
		case h >= 1 && h <= 3:
			return "N10"
		case h == 0 && defAliph >= 4,
			h == 0 && dblAliph >= 1 && defAliph >= 1 && defHeavy >= 2,
			h == 0 && anyWhere(ns, func(n neighbor) bool { return isDouble(n.bond) && n.z() == 6 }) &&
				anyWhere(ns, func(n neighbor) bool { return isDouble(n.bond) && n.z() == 7 }):
			return "N13"
		case tripleAliph:
			return "N14"
		case dblHeavy >= 2 && anyWhere(ns, func(n neighbor) bool {
			return isDouble(n.bond) && n.z() == 7 && n.atom.Charge < 0
		}):
			return "N14"
		}
	default:
		return "N14"
	}
	return "NS"
}

func oxygenType(m *molecule.Molecule, i int) string {
	a := &m.Atoms[i]
	if a.Aromatic {
		return "O1"
	}
	ns := heavyNeighbors(m, i)
	h := m.TotalH(i)
	x := connections(m, i)
	defAliph := countWhere(ns, func(n neighbor) bool { return isDefault(n.bond) && n.aliphatic() })
	defArom := countWhere(ns, func(n neighbor) bool { return isDefault(n.bond) && !n.aliphatic() })
	anionOn := func(z int) bool {
		return x == 1 && a.Charge == -1 && anyWhere(ns, func(n neighbor) bool { return n.z() == z })
	}

	switch {
	case h == 1 || h == 2:
		return "O2"
	case defAliph >= 2:
		return "O3"
	case defArom >= 1 && defAliph+defArom >= 2:
		return "O4"
	case anyWhere(ns, func(n neighbor) bool { return isDouble(n.bond) && (n.z() == 7 || n.z() == 8) }),
		anionOn(7):
		return "O5"
	case anionOn(16):
		return "O6"
	case anionOn(15):
		return "O7"
	case anyWhere(ns, func(n neighbor) bool { return isDouble(n.bond) && !n.aliphatic() && n.z() == 6 }):
		return "O8"
	}

	for _, n := range ns {
		if !isDouble(n.bond) || !n.aliphatic() || n.z() != 6 {
			continue
		}
		if label := carbonylOxygenType(m, n.idx, i); label != "" {
			return label
		}
	}
	if a.Charge == -1 {
		for _, n := range ns {
			if isSingle(n.bond) && n.z() == 6 && n.aliphatic() && doubleToOxygen(m, n.idx, i) {
				return "O12"
			}
		}
	}
	return "OS"
}

// carbonylOxygenType classifies the oxygen of C=O by the carbonyl carbon c.
func carbonylOxygenType(m *molecule.Molecule, c, oxygen int) string {
	var ns []neighbor
	for _, n := range heavyNeighbors(m, c) {
		if n.idx != oxygen {
			ns = append(ns, n)
		}
	}
	ch := m.TotalH(c)
	def := func(pred func(neighbor) bool) func(neighbor) bool {
		return func(n neighbor) bool { return isDefault(n.bond) && pred(n) }
	}
	aliphC := def(func(n neighbor) bool { return n.aliphatic() && n.z() == 6 })
	aliphHeavy := def(func(n neighbor) bool { return n.aliphatic() })
	aliph := func(z int) func(neighbor) bool {
		return def(func(n neighbor) bool { return n.aliphatic() && n.z() == z })
	}
	anyC := def(func(n neighbor) bool { return n.z() == 6 })
	aromHeavy := def(func(n neighbor) bool { return !n.aliphatic() })
	aromC := def(func(n neighbor) bool { return !n.aliphatic() && n.z() == 6 })
	nonC := def(func(n neighbor) bool { return n.z() != 6 })

	switch {
	case ch == 1 && anyWhere(ns, aliphC),
		countWhere(ns, aliphC) >= 2,
		distinctPair(ns, aliphC, aliphHeavy),
		ch == 1 && anyWhere(ns, aliph(7)),
		ch == 1 && anyWhere(ns, aliph(8)),
		ch == 2,
		connections(m, c) == 2 && doubleToOxygen(m, c, oxygen):
		return "O9"
	case ch == 1 && anyWhere(ns, aromC),
		distinctPair(ns, anyC, aromHeavy),
		distinctPair(ns, aromC, aliphHeavy):
		return "O10"
	case countWhere(ns, nonC) >= 2:
		return "O11"
	}
	return ""
}

// doubleToOxygen reports a plain C=O on carbon c other than via atom skip.
func doubleToOxygen(m *molecule.Molecule, c, skip int) bool {
	for _, n := range heavyNeighbors(m, c) {
		if n.idx != skip && isDouble(n.bond) && n.z() == 8 {
			return true
		}
	}
	return false
}

// hydrogenType classifies the hydrogens attached to heavy atom p.
func hydrogenType(m *molecule.Molecule, p int) string {
	switch m.Atoms[p].AtomicNumber {
	case 6:
		return "H1"
	case 7:
		return "H3"
	case 8:
		return hydroxylHydrogenType(m, p)
	}
	return "H2"
}

func hydroxylHydrogenType(m *molecule.Molecule, o int) string {
	ns := heavyNeighbors(m, o)
	switch {
	case anyWhere(ns, func(n neighbor) bool {
		return n.z() == 6 && n.aliphatic() && connections(m, n.idx) == 4
	}),
		anyWhere(ns, func(n neighbor) bool { return n.z() == 6 && !n.aliphatic() }),
		anyWhere(ns, func(n neighbor) bool {
			z := n.z()
			return z != 6 && z != 7 && z != 8 && z != 16
		}):
		return "H2"
	case anyWhere(ns, func(n neighbor) bool { return n.z() == 7 }):
		return "H3"
	case anyWhere(ns, func(n neighbor) bool { return n.z() == 8 || n.z() == 16 }),
		anyWhere(ns, func(n neighbor) bool {
			return n.z() == 6 && enolCarbon(m, n.idx)
		}):
		return "H4"
	}
	return "HS"
}

// enolCarbon matches a carbon with a plain double bond to C, N, O or S.
func enolCarbon(m *molecule.Molecule, c int) bool {
	for _, n := range heavyNeighbors(m, c) {
		if !isDouble(n.bond) {
			continue
		}
		switch n.z() {
		case 6, 7, 8, 16:
			return true
		}
	}
	return false
}

// hydrogenVertexType types hydrogen vertices that are not counted through a
// heavy parent (H2, bare protons). own is false when the parent counts it.
func hydrogenVertexType(m *molecule.Molecule, i int) (string, bool) {
	ns := m.Neighbors(i)
	switch {
	case len(ns) == 0:
		return "HS", true
	case m.Atoms[ns[0]].IsHydrogen():
		return "H1", true
	}
	return "", false
}

//Personal.AI order the ending
