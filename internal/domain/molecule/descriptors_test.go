package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptors_Rows(t *testing.T) {
	d := &Descriptors{
		MolecularWeight: 94.113,
		HeavyAtoms:      7,
		Rings:           1,
		RotatableBonds:  0,
		HBondAcceptors:  1,
		HBondDonors:     1,
		TPSA:            20.23,
		MolRefractivity: 28.1068,
		LogP:            1.3922,
	}
	rows := d.Rows()
	require.Len(t, rows, 9)

	wantNames := []string{
		"Molecular Weight (g/mol)", "Heavy Atoms", "Rings", "Rotatable Bonds",
		"HB Acceptors", "HB Donors", "Topo. Polar Surface Area (Å²)", "Mol Refractivity", "clogP",
	}
	for i, row := range rows {
		assert.Equal(t, wantNames[i], row.Name)
	}
	assert.Equal(t, 94.1, rows[0].Value)
	assert.Equal(t, 7.0, rows[1].Value)
	assert.Equal(t, 1.0, rows[2].Value)
	assert.Equal(t, 0.0, rows[3].Value)
	assert.Equal(t, 20.23, rows[6].Value)
	assert.Equal(t, 28.11, rows[7].Value)
	assert.Equal(t, 1.39, rows[8].Value)
	assert.Equal(t, "94.1", rows[0].Display())
	assert.Equal(t, "7", rows[1].Display())
}

func TestRound(t *testing.T) {
	assert.Equal(t, 94.1, Round(94.113, 1))
	assert.Equal(t, 0.13, Round(0.125, 2))
	assert.Equal(t, -1.24, Round(-1.2351, 2))
	assert.Equal(t, 3.0, Round(2.5, 0))
}

func TestLipinski_UsesRawValues(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptors
		pass bool
	}{
		{"phenol passes", Descriptors{MolecularWeight: 94.113, LogP: 1.3922, HBondDonors: 1, HBondAcceptors: 1}, true},
		{"weight exactly at limit", Descriptors{MolecularWeight: 500, LogP: 5, HBondDonors: 5, HBondAcceptors: 10}, true},
		// 500.04 displays as 500.0 but the raw value fails the rule.
		{"weight rounds down but fails", Descriptors{MolecularWeight: 500.04, LogP: 1}, false},
		// 5.004 displays as 5.00 but fails.
		{"logp rounds down but fails", Descriptors{MolecularWeight: 300, LogP: 5.004}, false},
		{"too many donors", Descriptors{MolecularWeight: 300, HBondDonors: 6}, false},
		{"too many acceptors", Descriptors{MolecularWeight: 300, HBondAcceptors: 11}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Lipinski(&tt.d)
			assert.Equal(t, tt.pass, res.Pass)
			assert.Equal(t, res.WeightOK && res.LogPOK && res.DonorsOK && res.AcceptorsOK, res.Pass)
			assert.Equal(t, tt.d.MolecularWeight, res.MolecularWeight)
			assert.Equal(t, tt.d.LogP, res.LogP)
		})
	}
}

//Personal.AI order the ending
