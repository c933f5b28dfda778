package session

import (
	"github.com/turtacn/MolViz/pkg/types/common"
)

// EventMoleculeVisualized is emitted after a session loads a new molecule.
const EventMoleculeVisualized = "molecule.visualized"

// VisualizedEvent records a successful visualize request.
type VisualizedEvent struct {
	common.BaseEvent
	SessionID  string `json:"session_id"`
	SMILES     string `json:"smiles"`
	Formula    string `json:"formula"`
	AtomCount  int    `json:"atom_count"`
	HeavyAtoms int    `json:"heavy_atoms"`
}

// NewVisualizedEvent builds the event for sessionID.
func NewVisualizedEvent(sessionID, smiles, formula string, atoms, heavy int) *VisualizedEvent {
	return &VisualizedEvent{
		BaseEvent:  common.NewBaseEvent(EventMoleculeVisualized, sessionID),
		SessionID:  sessionID,
		SMILES:     smiles,
		Formula:    formula,
		AtomCount:  atoms,
		HeavyAtoms: heavy,
	}
}

//Personal.AI order the ending
