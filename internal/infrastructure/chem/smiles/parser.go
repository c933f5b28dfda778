// Package smiles implements molecule.StructureParser for SMILES line notation.
//
// Supported grammar: the organic subset (B C N O P S F Cl Br I) and its
// aromatic forms (b c n o p s), bracket atoms with isotope, chirality,
// hydrogen count, charge and atom class, the bond symbols - = # $ : / \,
// branches, ring closures (0-9 and %nn) and '.' disconnections. Text after the
// first whitespace is treated as a title and ignored.
//
// After the graph is read it is sanitised: implicit hydrogens are assigned,
// valences are checked, aromatic systems are kekulized, hydrogen vertices are
// folded into their parents and aromaticity is perceived on Kekulé input.
package smiles

import (
	"fmt"
	"strings"

	"github.com/turtacn/MolViz/internal/domain/molecule"
	"github.com/turtacn/MolViz/pkg/errors"
)

// InvalidMessage is the user-facing message of every parse failure.
const InvalidMessage = "Invalid SMILES string. Please try again."

// DefaultMaxLength bounds the accepted input length.
const DefaultMaxLength = 4096

// Option configures a Parser.
type Option func(*Parser)

// WithMaxLength overrides DefaultMaxLength.
func WithMaxLength(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxLength = n
		}
	}
}

// Parser is a SMILES StructureParser. It is stateless and safe for
// concurrent use.
type Parser struct {
	maxLength int
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{maxLength: DefaultMaxLength}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ molecule.StructureParser = (*Parser)(nil)

// Parse reads smiles into a hydrogen-suppressed Molecule.
func (p *Parser) Parse(smiles string) (*molecule.Molecule, error) {
	text := strings.TrimSpace(smiles)
	if i := strings.IndexAny(text, " \t\r\n"); i >= 0 {
		text = text[:i]
	}
	if text == "" {
		return nil, invalid("empty input")
	}
	if len(text) > p.maxLength {
		return nil, invalid(fmt.Sprintf("input longer than %d characters", p.maxLength))
	}

	g, err := read(text)
	if err != nil {
		return nil, err
	}
	return sanitize(text, g)
}

func invalid(detail string) error {
	return errors.New(errors.CodeMoleculeInvalidSMILES, InvalidMessage).WithDetail(detail)
}

func invalidAt(pos int, format string, args ...interface{}) error {
	return invalid(fmt.Sprintf("position %d: %s", pos, fmt.Sprintf(format, args...)))
}

// bondSpec is a bond symbol seen in the input but not yet attached.
type bondSpec struct {
	set      bool
	order    molecule.BondOrder
	aromatic bool
	stereo   byte
	pos      int
}

func (b bondSpec) equivalent(o bondSpec) bool {
	return b.order == o.order && b.aromatic == o.aromatic
}

type ringOpening struct {
	atom int
	bond bondSpec
	pos  int
}

// graph is the raw parse result before sanitisation.
type graph struct {
	atoms []molecule.Atom
	bonds []molecule.Bond
	// explicitAromaticBond marks bonds written with ':'.
	explicitAromaticBond []bool
	// defaultBond marks bonds written without a symbol.
	defaultBond []bool
}

func (g *graph) hasBond(a, b int) bool {
	for _, bd := range g.bonds {
		if (bd.Begin == a && bd.End == b) || (bd.Begin == b && bd.End == a) {
			return true
		}
	}
	return false
}

func (g *graph) addBond(a, b int, spec bondSpec) {
	bond := molecule.Bond{Begin: a, End: b, Order: molecule.BondSingle, Stereo: spec.stereo}
	switch {
	case spec.set && spec.aromatic:
		bond.Aromatic = true
	case spec.set:
		bond.Order = spec.order
	default:
		bond.Aromatic = g.atoms[a].Aromatic && g.atoms[b].Aromatic
	}
	g.bonds = append(g.bonds, bond)
	g.explicitAromaticBond = append(g.explicitAromaticBond, spec.set && spec.aromatic)
	g.defaultBond = append(g.defaultBond, !spec.set)
}

// read tokenises text and builds the raw graph.
func read(text string) (*graph, error) {
	g := &graph{}
	prev := -1
	var branches []int
	var pending bondSpec
	rings := map[int]ringOpening{}
	dot := -1

	addAtom := func(a molecule.Atom) {
		idx := len(g.atoms)
		g.atoms = append(g.atoms, a)
		if prev >= 0 {
			g.addBond(prev, idx, pending)
		}
		pending = bondSpec{}
		prev = idx
		dot = -1
	}

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '(':
			if prev < 0 {
				return nil, invalidAt(i, "branch opened before any atom")
			}
			if pending.set {
				return nil, invalidAt(i, "bond symbol before '('")
			}
			branches = append(branches, prev)
			i++

		case c == ')':
			if len(branches) == 0 {
				return nil, invalidAt(i, "unbalanced ')'")
			}
			if pending.set {
				return nil, invalidAt(i, "bond symbol before ')'")
			}
			prev = branches[len(branches)-1]
			branches = branches[:len(branches)-1]
			i++

		case strings.IndexByte(`-=#$:/\`, c) >= 0:
			if prev < 0 {
				return nil, invalidAt(i, "bond %q has no preceding atom", c)
			}
			if pending.set {
				return nil, invalidAt(i, "two consecutive bond symbols")
			}
			pending = parseBondSymbol(c, i)
			i++

		case c == '.':
			if pending.set {
				return nil, invalidAt(i, "bond symbol before '.'")
			}
			if prev < 0 {
				return nil, invalidAt(i, "'.' has no preceding atom")
			}
			prev = -1
			dot = i
			i++

		case c == '%' || (c >= '0' && c <= '9'):
			num, next, err := ringNumber(text, i)
			if err != nil {
				return nil, err
			}
			if prev < 0 {
				return nil, invalidAt(i, "ring bond %d has no preceding atom", num)
			}
			if open, ok := rings[num]; ok {
				if open.atom == prev {
					return nil, invalidAt(i, "ring bond %d closes on its own atom", num)
				}
				if g.hasBond(open.atom, prev) {
					return nil, invalidAt(i, "ring bond %d duplicates an existing bond", num)
				}
				spec := open.bond
				if pending.set {
					if spec.set && !spec.equivalent(pending) {
						return nil, invalidAt(i, "conflicting bond symbols on ring bond %d", num)
					}
					spec = pending
				}
				g.addBond(open.atom, prev, spec)
				delete(rings, num)
			} else {
				rings[num] = ringOpening{atom: prev, bond: pending, pos: i}
			}
			pending = bondSpec{}
			i = next

		case c == '[':
			atom, next, err := parseBracketAtom(text, i)
			if err != nil {
				return nil, err
			}
			addAtom(atom)
			i = next

		default:
			atom, next, err := parseOrganicAtom(text, i)
			if err != nil {
				return nil, err
			}
			addAtom(atom)
			i = next
		}
	}

	if len(branches) > 0 {
		return nil, invalid("unclosed branch")
	}
	if pending.set {
		return nil, invalidAt(pending.pos, "bond symbol at end of input")
	}
	if dot >= 0 {
		return nil, invalidAt(dot, "'.' at end of input")
	}
	for num, open := range rings {
		return nil, invalidAt(open.pos, "unclosed ring bond %d", num)
	}
	if len(g.atoms) == 0 {
		return nil, invalid("no atoms")
	}
	return g, nil
}

func parseBondSymbol(c byte, pos int) bondSpec {
	spec := bondSpec{set: true, order: molecule.BondSingle, pos: pos}
	switch c {
	case '=':
		spec.order = molecule.BondDouble
	case '#':
		spec.order = molecule.BondTriple
	case '$':
		spec.order = molecule.BondQuadruple
	case ':':
		spec.aromatic = true
	case '/', '\\':
		spec.stereo = c
	}
	return spec
}

func ringNumber(text string, i int) (int, int, error) {
	if text[i] != '%' {
		return int(text[i] - '0'), i + 1, nil
	}
	if i+2 < len(text) && isDigit(text[i+1]) && isDigit(text[i+2]) {
		return int(text[i+1]-'0')*10 + int(text[i+2]-'0'), i + 3, nil
	}
	return 0, 0, invalidAt(i, "'%%' must be followed by two digits")
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// organic subset symbols, two-letter forms first.
var organicSymbols = []string{"Cl", "Br", "B", "C", "N", "O", "P", "S", "F", "I", "b", "c", "n", "o", "p", "s"}

func parseOrganicAtom(text string, i int) (molecule.Atom, int, error) {
	for _, sym := range organicSymbols {
		if strings.HasPrefix(text[i:], sym) {
			e, _ := molecule.LookupElement(sym)
			return molecule.Atom{
				Symbol:       e.Symbol,
				AtomicNumber: e.AtomicNumber,
				Aromatic:     sym[0] >= 'a' && sym[0] <= 'z',
			}, i + len(sym), nil
		}
	}
	if text[i] == '*' {
		return molecule.Atom{}, 0, invalidAt(i, "wildcard atoms are not supported")
	}
	return molecule.Atom{}, 0, invalidAt(i, "unexpected character %q", text[i])
}

// aromatic symbols allowed inside brackets.
var bracketAromatic = map[string]bool{"b": true, "c": true, "n": true, "o": true, "p": true, "s": true, "se": true, "as": true, "te": true}

func parseBracketAtom(text string, start int) (molecule.Atom, int, error) {
	end := strings.IndexByte(text[start:], ']')
	if end < 0 {
		return molecule.Atom{}, 0, invalidAt(start, "unclosed '['")
	}
	body := text[start+1 : start+end]
	next := start + end + 1
	pos := 0
	atom := molecule.Atom{Bracket: true}

	// isotope
	for pos < len(body) && isDigit(body[pos]) {
		atom.Isotope = atom.Isotope*10 + int(body[pos]-'0')
		pos++
	}

	// element symbol
	if pos >= len(body) {
		return atom, 0, invalidAt(start, "bracket atom has no element")
	}
	var sym string
	switch c := body[pos]; {
	case c >= 'a' && c <= 'z':
		if pos+1 < len(body) && bracketAromatic[body[pos:pos+2]] {
			sym = body[pos : pos+2]
		} else if bracketAromatic[body[pos:pos+1]] {
			sym = body[pos : pos+1]
		} else {
			return atom, 0, invalidAt(start+1+pos, "unknown aromatic symbol %q", c)
		}
		atom.Aromatic = true
	case c >= 'A' && c <= 'Z':
		sym = body[pos : pos+1]
		if pos+1 < len(body) && body[pos+1] >= 'a' && body[pos+1] <= 'z' {
			if _, ok := molecule.LookupElement(body[pos : pos+2]); ok {
				sym = body[pos : pos+2]
			}
		}
	default:
		return atom, 0, invalidAt(start+1+pos, "expected element symbol, got %q", c)
	}
	e, ok := molecule.LookupElement(sym)
	if !ok {
		return atom, 0, invalidAt(start+1+pos, "unknown element %q", sym)
	}
	atom.Symbol = e.Symbol
	atom.AtomicNumber = e.AtomicNumber
	pos += len(sym)

	// chirality: @, @@, or @ followed by a class tag such as TH1 or AL2
	if pos < len(body) && body[pos] == '@' {
		cstart := pos
		pos++
		if pos < len(body) && body[pos] == '@' {
			pos++
		} else if pos+1 < len(body) && isUpperPair(body[pos], body[pos+1]) {
			pos += 2
			for pos < len(body) && isDigit(body[pos]) {
				pos++
			}
		}
		atom.Chirality = body[cstart:pos]
	}

	// hydrogen count
	if pos < len(body) && body[pos] == 'H' {
		pos++
		atom.HCount = 1
		if pos < len(body) && isDigit(body[pos]) {
			atom.HCount = 0
			for pos < len(body) && isDigit(body[pos]) {
				atom.HCount = atom.HCount*10 + int(body[pos]-'0')
				pos++
			}
		}
	}

	// charge: +, ++, +2, -, --, -3
	if pos < len(body) && (body[pos] == '+' || body[pos] == '-') {
		sign := 1
		if body[pos] == '-' {
			sign = -1
		}
		signChar := body[pos]
		pos++
		magnitude := 1
		if pos < len(body) && isDigit(body[pos]) {
			magnitude = 0
			for pos < len(body) && isDigit(body[pos]) {
				magnitude = magnitude*10 + int(body[pos]-'0')
				pos++
			}
		} else {
			for pos < len(body) && body[pos] == signChar {
				magnitude++
				pos++
			}
		}
		if magnitude > 8 {
			return atom, 0, invalidAt(start, "charge %d out of range", sign*magnitude)
		}
		atom.Charge = sign * magnitude
	}

	// atom class
	if pos < len(body) && body[pos] == ':' {
		pos++
		if pos >= len(body) || !isDigit(body[pos]) {
			return atom, 0, invalidAt(start, "atom class needs digits")
		}
		for pos < len(body) && isDigit(body[pos]) {
			atom.AtomClass = atom.AtomClass*10 + int(body[pos]-'0')
			pos++
		}
	}

	if pos != len(body) {
		return atom, 0, invalidAt(start+1+pos, "unexpected %q in bracket atom", body[pos:])
	}
	if atom.AtomicNumber == 1 && atom.HCount > 0 {
		return atom, 0, invalidAt(start, "hydrogen cannot carry a hydrogen count")
	}
	return atom, next, nil
}

func isUpperPair(a, b byte) bool {
	return a >= 'A' && a <= 'Z' && b >= 'A' && b <= 'Z'
}

//Personal.AI order the ending
