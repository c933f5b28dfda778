package molecule

import "context"

// StructureParser turns line notation into a Molecule. Invalid input yields an
// error carrying errors.CodeMoleculeInvalidSMILES; it never panics.
type StructureParser interface {
	Parse(smiles string) (*Molecule, error)
}

// ConformerGenerator adds explicit hydrogens and computes one 3D embedding.
// Repeated calls on the same input may return different conformations.
type ConformerGenerator interface {
	Embed(ctx context.Context, mol *Molecule) (*Conformer, error)
}

// DescriptorEngine computes raw descriptor values from a hydrogen-suppressed
// Molecule.
type DescriptorEngine interface {
	Compute(mol *Molecule) (*Descriptors, error)
}

// Renderer produces a 2D depiction of a Molecule as PNG bytes.
type Renderer interface {
	RenderPNG(mol *Molecule, width, height int) ([]byte, error)
}

// Toolkit bundles one implementation of every capability so a backend can be
// swapped as a unit.
type Toolkit struct {
	Parser      StructureParser
	Conformers  ConformerGenerator
	Descriptors DescriptorEngine
	Renderer    Renderer
}

//Personal.AI order the ending
