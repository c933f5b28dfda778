package molecule

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/turtacn/MolViz/pkg/errors"
)

// DefaultXYZComment is the comment line written into generated coordinate text.
const DefaultXYZComment = "Generated by MolViz"

// Vec3 is a point in Ångström.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance returns |v - o|.
func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Norm() }

// Conformer is one 3D embedding. Molecule carries explicit hydrogens and
// Coords[i] belongs to Molecule.Atoms[i].
type Conformer struct {
	Molecule *Molecule
	Coords   []Vec3
}

// XYZRecord is parsed coordinate text.
type XYZRecord struct {
	Comment string
	Symbols []string
	Coords  []Vec3
}

// EncodeXYZ renders a conformer as coordinate text: atom count, comment,
// then one "<Symbol> <x> <y> <z>" line per atom with four decimals. Lines are
// joined by newlines with no trailing newline.
func EncodeXYZ(conf *Conformer, comment string) string {
	atoms := conf.Molecule.Atoms
	lines := make([]string, 0, len(atoms)+2)
	lines = append(lines, strconv.Itoa(len(atoms)), sanitizeComment(comment))
	for i := range atoms {
		c := conf.Coords[i]
		lines = append(lines, fmt.Sprintf("%s %.4f %.4f %.4f", atoms[i].Symbol, c.X, c.Y, c.Z))
	}
	return strings.Join(lines, "\n")
}

func sanitizeComment(comment string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(comment)
}

// ParseXYZ reads coordinate text produced by EncodeXYZ or any standard XYZ
// writer. The declared atom count must match the atom lines that follow.
func ParseXYZ(text string) (*XYZRecord, error) {
	sc := bufio.NewScanner(strings.NewReader(text))
	if !sc.Scan() {
		return nil, errors.New(errors.CodeMoleculeInvalidFormat, "coordinate text is empty")
	}
	count, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || count < 0 {
		return nil, errors.New(errors.CodeMoleculeInvalidFormat, "first line must be the atom count").
			WithDetail(strings.TrimSpace(sc.Text()))
	}
	rec := &XYZRecord{}
	if sc.Scan() {
		rec.Comment = sc.Text()
	} else if count > 0 {
		return nil, errors.New(errors.CodeMoleculeInvalidFormat, "missing comment line")
	}

	line := 2
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		fields := strings.Fields(raw)
		if len(fields) < 4 {
			return nil, errors.New(errors.CodeMoleculeInvalidFormat, "atom line needs a symbol and three coordinates").
				WithDetail(fmt.Sprintf("line %d", line))
		}
		var xyz [3]float64
		for k := 0; k < 3; k++ {
			v, err := strconv.ParseFloat(fields[k+1], 64)
			if err != nil {
				return nil, errors.New(errors.CodeMoleculeInvalidFormat, "coordinate is not a number").
					WithDetail(fmt.Sprintf("line %d: %q", line, fields[k+1]))
			}
			xyz[k] = v
		}
		rec.Symbols = append(rec.Symbols, fields[0])
		rec.Coords = append(rec.Coords, Vec3{xyz[0], xyz[1], xyz[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeMoleculeInvalidFormat, "read coordinate text")
	}
	if len(rec.Symbols) != count {
		return nil, errors.New(errors.CodeMoleculeInvalidFormat, "atom count does not match atom lines").
			WithDetail(fmt.Sprintf("declared %d, found %d", count, len(rec.Symbols)))
	}
	return rec, nil
}

//Personal.AI order the ending
