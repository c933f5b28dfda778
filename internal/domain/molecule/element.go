package molecule

import "strings"

// Element holds the per-element data used by parsing, descriptors, embedding
// and depiction.
type Element struct {
	Symbol         string
	AtomicNumber   int
	AverageMass    float64 // g/mol, IUPAC standard atomic weight
	CovalentRadius float64 // Å, single-bond radius
	VdWRadius      float64 // Å
	// Valences lists the allowed total valences in ascending order. An empty
	// list means any valence is accepted (metals).
	Valences []int
	// Color is the depiction colour as a hex string.
	Color string
}

// MaxValence returns the largest allowed valence, or -1 when unrestricted.
func (e *Element) MaxValence() int {
	if len(e.Valences) == 0 {
		return -1
	}
	return e.Valences[len(e.Valences)-1]
}

var elements = []Element{
	{"H", 1, 1.008, 0.31, 1.20, []int{1}, "#7f7f7f"},
	{"Li", 3, 6.941, 1.28, 1.82, []int{1}, "#cc80ff"},
	{"B", 5, 10.812, 0.84, 1.92, []int{3}, "#ffb5b5"},
	{"C", 6, 12.011, 0.76, 1.70, []int{4}, "#000000"},
	{"N", 7, 14.007, 0.71, 1.55, []int{3}, "#3050f8"},
	{"O", 8, 15.999, 0.66, 1.52, []int{2}, "#ff0d0d"},
	{"F", 9, 18.998, 0.57, 1.47, []int{1}, "#33a02c"},
	{"Na", 11, 22.990, 1.66, 2.27, []int{1}, "#ab5cf2"},
	{"Mg", 12, 24.305, 1.41, 1.73, []int{2}, "#8aff00"},
	{"Si", 14, 28.086, 1.11, 2.10, []int{4}, "#f0c8a0"},
	{"P", 15, 30.974, 1.07, 1.80, []int{3, 5, 7}, "#ff8000"},
	{"S", 16, 32.067, 1.05, 1.80, []int{2, 4, 6}, "#c6a000"},
	{"Cl", 17, 35.453, 1.02, 1.75, []int{1}, "#1f9e1f"},
	{"K", 19, 39.098, 2.03, 2.75, []int{1}, "#8f40d4"},
	{"Ca", 20, 40.078, 1.76, 2.31, []int{2}, "#3dff00"},
	{"Fe", 26, 55.845, 1.32, 2.00, nil, "#e06633"},
	{"Cu", 29, 63.546, 1.32, 1.40, nil, "#c88033"},
	{"Zn", 30, 65.390, 1.22, 1.39, nil, "#7d80b0"},
	{"As", 33, 74.922, 1.19, 1.85, []int{3, 5}, "#bd80e3"},
	{"Se", 34, 78.971, 1.20, 1.90, []int{2, 4, 6}, "#c87800"},
	{"Br", 35, 79.904, 1.20, 1.85, []int{1}, "#a62929"},
	{"Te", 52, 127.600, 1.38, 2.06, []int{2, 4, 6}, "#d47a00"},
	{"I", 53, 126.904, 1.39, 1.98, []int{1}, "#940094"},
}

var (
	bySymbol = map[string]*Element{}
	byNumber = map[int]*Element{}
)

func init() {
	for i := range elements {
		e := &elements[i]
		bySymbol[e.Symbol] = e
		byNumber[e.AtomicNumber] = e
	}
}

// LookupElement returns the element for a symbol. The lookup is case
// sensitive except that an all-lowercase aromatic symbol ("c", "se") is
// accepted and resolved to its capitalised form.
func LookupElement(symbol string) (*Element, bool) {
	if e, ok := bySymbol[symbol]; ok {
		return e, true
	}
	if symbol != "" && strings.ToLower(symbol) == symbol {
		e, ok := bySymbol[strings.ToUpper(symbol[:1])+symbol[1:]]
		return e, ok
	}
	return nil, false
}

// ElementByNumber returns the element with atomic number z.
func ElementByNumber(z int) (*Element, bool) {
	e, ok := byNumber[z]
	return e, ok
}

// AllowedValences returns the valences allowed for an element carrying the
// given formal charge, using the isoelectronic element (N+ behaves like C,
// O- like F). Metals keep their own list.
func AllowedValences(e *Element, charge int) []int {
	if charge == 0 || len(e.Valences) == 0 {
		return e.Valences
	}
	if iso, ok := byNumber[e.AtomicNumber-charge]; ok && len(iso.Valences) > 0 && iso.AtomicNumber > 2 {
		return iso.Valences
	}
	// Charge pushes past the table (e.g. C+2): no restriction.
	return nil
}

//Personal.AI order the ending
