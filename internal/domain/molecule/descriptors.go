package molecule

import (
	"math"

	mtypes "github.com/turtacn/MolViz/pkg/types/molecule"
)

// Display labels of the nine descriptor rows, in table order.
const (
	LabelMolecularWeight = "Molecular Weight (g/mol)"
	LabelHeavyAtoms      = "Heavy Atoms"
	LabelRings           = "Rings"
	LabelRotatableBonds  = "Rotatable Bonds"
	LabelHBAcceptors     = "HB Acceptors"
	LabelHBDonors        = "HB Donors"
	LabelTPSA            = "Topo. Polar Surface Area (Å²)"
	LabelMolRefractivity = "Mol Refractivity"
	LabelCLogP           = "clogP"
)

// Descriptors holds the raw, unrounded values computed by a DescriptorEngine.
type Descriptors struct {
	MolecularWeight float64
	HeavyAtoms      int
	Rings           int
	RotatableBonds  int
	HBondAcceptors  int
	HBondDonors     int
	TPSA            float64
	MolRefractivity float64
	LogP            float64
}

// Rows returns the nine display rows in fixed order, rounded per row:
// weight to one decimal, surface area, refractivity and logP to two, counts
// as integers.
func (d *Descriptors) Rows() []mtypes.PropertyRow {
	return []mtypes.PropertyRow{
		{Name: LabelMolecularWeight, Value: Round(d.MolecularWeight, 1), Decimals: 1},
		{Name: LabelHeavyAtoms, Value: float64(d.HeavyAtoms)},
		{Name: LabelRings, Value: float64(d.Rings)},
		{Name: LabelRotatableBonds, Value: float64(d.RotatableBonds)},
		{Name: LabelHBAcceptors, Value: float64(d.HBondAcceptors)},
		{Name: LabelHBDonors, Value: float64(d.HBondDonors)},
		{Name: LabelTPSA, Value: Round(d.TPSA, 2), Decimals: 2},
		{Name: LabelMolRefractivity, Value: Round(d.MolRefractivity, 2), Decimals: 2},
		{Name: LabelCLogP, Value: Round(d.LogP, 2), Decimals: 2},
	}
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Lipinski thresholds of the rule of five.
const (
	LipinskiMaxWeight    = 500.0
	LipinskiMaxLogP      = 5.0
	LipinskiMaxDonors    = 5
	LipinskiMaxAcceptors = 10
)

// Lipinski evaluates the rule of five on the raw descriptor values. Pass is
// the conjunction of all four comparisons; nothing is rounded first.
func Lipinski(d *Descriptors) mtypes.LipinskiResult {
	res := mtypes.LipinskiResult{
		MolecularWeight: d.MolecularWeight,
		LogP:            d.LogP,
		HBondDonors:     d.HBondDonors,
		HBondAcceptors:  d.HBondAcceptors,
		WeightOK:        d.MolecularWeight <= LipinskiMaxWeight,
		LogPOK:          d.LogP <= LipinskiMaxLogP,
		DonorsOK:        d.HBondDonors <= LipinskiMaxDonors,
		AcceptorsOK:     d.HBondAcceptors <= LipinskiMaxAcceptors,
	}
	res.Pass = res.WeightOK && res.LogPOK && res.DonorsOK && res.AcceptorsOK
	return res
}

//Personal.AI order the ending
