// Package molecule defines the molecule Data Transfer Objects shared by the
// HTTP API, the CLI and the page templates. No domain logic lives here, only
// plain data and its display formatting.
package molecule

import (
	"encoding/json"
	"strconv"
)

// NotAvailable is the sentinel shown for a toxicity field the service omitted.
const NotAvailable = "N/A"

// PropertyRow is one line of the descriptor table. Decimals records the
// rounding applied to Value (0 for integer counts).
type PropertyRow struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Decimals int     `json:"decimals"`
}

// Display formats Value with the row's precision.
func (r PropertyRow) Display() string {
	return strconv.FormatFloat(r.Value, 'f', r.Decimals, 64)
}

// LipinskiResult is the drug-likeness record. All numeric values are raw.
type LipinskiResult struct {
	MolecularWeight float64 `json:"molecular_weight"`
	LogP            float64 `json:"logp"`
	HBondDonors     int     `json:"h_bond_donors"`
	HBondAcceptors  int     `json:"h_bond_acceptors"`
	WeightOK        bool    `json:"weight_ok"`
	LogPOK          bool    `json:"logp_ok"`
	DonorsOK        bool    `json:"donors_ok"`
	AcceptorsOK     bool    `json:"acceptors_ok"`
	Pass            bool    `json:"pass"`
}

// LipinskiRow is a display line of the drug-likeness table.
type LipinskiRow struct {
	Rule  string `json:"rule"`
	Value string `json:"value"`
	OK    bool   `json:"ok"`
}

// Rows returns the drug-likeness table: four rule lines and the verdict.
func (l LipinskiResult) Rows() []LipinskiRow {
	return []LipinskiRow{
		{Rule: "Molecular Weight ≤ 500", Value: strconv.FormatFloat(l.MolecularWeight, 'f', 2, 64), OK: l.WeightOK},
		{Rule: "clogP ≤ 5", Value: strconv.FormatFloat(l.LogP, 'f', 2, 64), OK: l.LogPOK},
		{Rule: "HB Donors ≤ 5", Value: strconv.Itoa(l.HBondDonors), OK: l.DonorsOK},
		{Rule: "HB Acceptors ≤ 10", Value: strconv.Itoa(l.HBondAcceptors), OK: l.AcceptorsOK},
		{Rule: "Lipinski Rule of Five", Value: passLabel(l.Pass), OK: l.Pass},
	}
}

func passLabel(pass bool) string {
	if pass {
		return "Pass"
	}
	return "Fail"
}

// ToxicityResult is the toxicity lookup record. Either Error is set and the
// other fields are empty, or Error is empty and every other field holds a
// value or NotAvailable.
type ToxicityResult struct {
	LD50          string `json:"ld50,omitempty"`
	ToxicityClass string `json:"toxicity_class,omitempty"`
	Prediction    string `json:"prediction,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Failed reports whether the record is an error record.
func (t ToxicityResult) Failed() bool { return t.Error != "" }

// ExistenceResult is the compound-database lookup record.
type ExistenceResult struct {
	Found   bool    `json:"found"`
	CIDs    []int64 `json:"cids,omitempty"`
	Message string  `json:"message"`
}

// MoleculeRequest carries a SMILES string for stateless API operations.
type MoleculeRequest struct {
	SMILES string `json:"smiles" form:"smiles" binding:"required"`
}

// VisualizeRequest is the visualize action: SMILES plus display style.
type VisualizeRequest struct {
	SMILES string `json:"smiles" form:"smiles"`
	Style  string `json:"style" form:"style"`
}

// ViewerConfig parameterises the embedded 3D viewer.
type ViewerConfig struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Style  string          `json:"style"`
	Label  string          `json:"label"`
	Spec   json.RawMessage `json:"spec"`
}

// MoleculeView is everything a Loaded render shows.
type MoleculeView struct {
	SMILES      string          `json:"smiles"`
	Formula     string          `json:"formula"`
	AtomCount   int             `json:"atom_count"`
	XYZ         string          `json:"xyz"`
	Viewer      ViewerConfig    `json:"viewer"`
	Properties  []PropertyRow   `json:"properties"`
	Lipinski    LipinskiResult  `json:"lipinski"`
	Toxicity    ToxicityResult  `json:"toxicity"`
	PubChem     ExistenceResult `json:"pubchem"`
	ImageURL    string          `json:"image_url"`
	DownloadURL string          `json:"download_url"`
}

// DescribeResult is the stateless descriptor plus drug-likeness record.
type DescribeResult struct {
	SMILES     string         `json:"smiles"`
	Formula    string         `json:"formula"`
	Properties []PropertyRow  `json:"properties"`
	Lipinski   LipinskiResult `json:"lipinski"`
}

// LookupResult bundles both external lookups.
type LookupResult struct {
	SMILES   string          `json:"smiles"`
	Toxicity ToxicityResult  `json:"toxicity"`
	PubChem  ExistenceResult `json:"pubchem"`
}

//Personal.AI order the ending
