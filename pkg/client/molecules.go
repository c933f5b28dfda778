package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/turtacn/MolViz/pkg/errors"
	mtypes "github.com/turtacn/MolViz/pkg/types/molecule"
)

const moleculesPath = "/api/v1/molecules"

// MoleculesClient provides access to the molecule endpoints.
type MoleculesClient struct {
	client *Client
}

// XYZResult is the stateless coordinate response.
type XYZResult struct {
	SMILES string `json:"smiles"`
	XYZ    string `json:"xyz"`
}

func validateSMILES(smiles string) error {
	if strings.TrimSpace(smiles) == "" {
		return errors.New(errors.CodeInvalidParam, "smiles is required")
	}
	return nil
}

// Visualize stores smiles as the session's current molecule and returns the
// rendered view. An empty style keeps the session's style.
func (m *MoleculesClient) Visualize(ctx context.Context, smiles, style string) (*mtypes.MoleculeView, error) {
	if err := validateSMILES(smiles); err != nil {
		return nil, err
	}
	var view mtypes.MoleculeView
	req := mtypes.VisualizeRequest{SMILES: smiles, Style: style}
	if err := m.client.post(ctx, moleculesPath+"/visualize", req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// View re-renders the session's current molecule.
func (m *MoleculesClient) View(ctx context.Context, style string) (*mtypes.MoleculeView, error) {
	path := moleculesPath + "/view"
	if style != "" {
		path += "?style=" + url.QueryEscape(style)
	}
	var view mtypes.MoleculeView
	if err := m.client.get(ctx, path, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (m *MoleculesClient) Describe(ctx context.Context, smiles string) (*mtypes.DescribeResult, error) {
	if err := validateSMILES(smiles); err != nil {
		return nil, err
	}
	var res mtypes.DescribeResult
	if err := m.client.post(ctx, moleculesPath+"/describe", mtypes.MoleculeRequest{SMILES: smiles}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (m *MoleculesClient) Properties(ctx context.Context, smiles string) ([]mtypes.PropertyRow, error) {
	if err := validateSMILES(smiles); err != nil {
		return nil, err
	}
	var rows []mtypes.PropertyRow
	if err := m.client.post(ctx, moleculesPath+"/properties", mtypes.MoleculeRequest{SMILES: smiles}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (m *MoleculesClient) Lipinski(ctx context.Context, smiles string) (*mtypes.LipinskiResult, error) {
	if err := validateSMILES(smiles); err != nil {
		return nil, err
	}
	var res mtypes.LipinskiResult
	if err := m.client.post(ctx, moleculesPath+"/lipinski", mtypes.MoleculeRequest{SMILES: smiles}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// XYZ computes coordinates without touching the session.
func (m *MoleculesClient) XYZ(ctx context.Context, smiles string) (string, error) {
	if err := validateSMILES(smiles); err != nil {
		return "", err
	}
	var res XYZResult
	if err := m.client.post(ctx, moleculesPath+"/xyz", mtypes.MoleculeRequest{SMILES: smiles}, &res); err != nil {
		return "", err
	}
	return res.XYZ, nil
}

// Toxicity returns the remote prediction. A failed upstream lookup comes
// back as a record with Error set, not as an error.
func (m *MoleculesClient) Toxicity(ctx context.Context, smiles string) (*mtypes.ToxicityResult, error) {
	if err := validateSMILES(smiles); err != nil {
		return nil, err
	}
	var res mtypes.ToxicityResult
	if err := m.client.post(ctx, moleculesPath+"/toxicity", mtypes.MoleculeRequest{SMILES: smiles}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (m *MoleculesClient) PubChem(ctx context.Context, smiles string) (*mtypes.ExistenceResult, error) {
	if err := validateSMILES(smiles); err != nil {
		return nil, err
	}
	var res mtypes.ExistenceResult
	if err := m.client.post(ctx, moleculesPath+"/pubchem", mtypes.MoleculeRequest{SMILES: smiles}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Image fetches the session's 2D structure PNG.
func (m *MoleculesClient) Image(ctx context.Context) ([]byte, error) {
	return m.client.getRaw(ctx, "/structure.png")
}

// Download fetches the session's molecule.xyz attachment.
func (m *MoleculesClient) Download(ctx context.Context) (string, error) {
	b, err := m.client.getRaw(ctx, "/molecule.xyz")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

//Personal.AI order the ending
