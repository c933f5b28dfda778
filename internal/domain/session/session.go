// Package session holds the per-user visualization state. A session is
// either Empty or Loaded; in the Loaded state it carries the last validated
// SMILES string and the coordinate text generated from it, and the two are
// only ever written together.
package session

import (
	"context"

	"github.com/turtacn/MolViz/pkg/errors"
)

// State is the persisted session record.
type State struct {
	SMILES string `json:"smiles"`
	XYZ    string `json:"xyz"`
}

// IsLoaded reports whether both fields are present.
func (s *State) IsLoaded() bool {
	return s != nil && s.SMILES != "" && s.XYZ != ""
}

// Load replaces both fields in one step. It rejects an empty value so a state
// can never hold one field without the other.
func (s *State) Load(smiles, xyz string) error {
	if smiles == "" || xyz == "" {
		return errors.New(errors.CodeValidation, "session requires both SMILES and coordinates")
	}
	s.SMILES, s.XYZ = smiles, xyz
	return nil
}

// Clone returns a copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return &State{}
	}
	c := *s
	return &c
}

// Store persists session states by id.
type Store interface {
	// Get returns the stored state, or an empty state when id is unknown.
	Get(ctx context.Context, id string) (*State, error)
	// Save stores both fields of st under id.
	Save(ctx context.Context, id string, st *State) error
	// Delete removes id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}

// RenderContext is the request-scoped view of one session, loaded once and
// passed through a single render pass.
type RenderContext struct {
	SessionID string
	State     State
	// Style is the display style key picked for this render.
	Style string
}

// Loaded reports whether the render has a molecule to show.
func (rc *RenderContext) Loaded() bool { return rc.State.IsLoaded() }

//Personal.AI order the ending
