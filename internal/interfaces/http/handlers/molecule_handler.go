package handlers

import (
	"github.com/gin-gonic/gin"

	appmol "github.com/turtacn/MolViz/internal/application/molecule"
	"github.com/turtacn/MolViz/internal/interfaces/http/middleware"
	"github.com/turtacn/MolViz/pkg/errors"
	mtypes "github.com/turtacn/MolViz/pkg/types/molecule"
)

// MoleculeHandler serves the JSON molecule API.
type MoleculeHandler struct {
	service appmol.Service
}

// NewMoleculeHandler creates a MoleculeHandler.
func NewMoleculeHandler(service appmol.Service) *MoleculeHandler {
	return &MoleculeHandler{service: service}
}

// XYZResponse carries stateless coordinate text.
type XYZResponse struct {
	SMILES string `json:"smiles"`
	XYZ    string `json:"xyz"`
}

// RegisterRoutes mounts the API under rg. visualize wraps the
// coordinate-generating routes, typically with a rate limiter.
func (h *MoleculeHandler) RegisterRoutes(rg *gin.RouterGroup, visualize ...gin.HandlerFunc) {
	mols := rg.Group("/molecules")
	mols.POST("/visualize", chain(visualize, h.Visualize)...)
	mols.GET("/view", h.View)
	mols.POST("/describe", h.Describe)
	mols.POST("/properties", h.Properties)
	mols.POST("/lipinski", h.Lipinski)
	mols.POST("/xyz", chain(visualize, h.XYZ)...)
	mols.POST("/toxicity", h.Toxicity)
	mols.POST("/pubchem", h.PubChem)
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	return append(append(out, mw...), h)
}

// Visualize handles POST /api/v1/molecules/visualize. It updates the session
// and returns the full view; a failed request leaves the session unchanged.
func (h *MoleculeHandler) Visualize(c *gin.Context) {
	var req mtypes.VisualizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.CodeInvalidParam, "request body must be JSON"))
		return
	}
	sid := middleware.GetSessionID(c)
	if _, err := h.service.Visualize(c.Request.Context(), sid, req.SMILES); err != nil {
		respondError(c, err)
		return
	}
	h.render(c, sid, req.Style)
}

// View handles GET /api/v1/molecules/view?style=.
func (h *MoleculeHandler) View(c *gin.Context) {
	h.render(c, middleware.GetSessionID(c), c.Query("style"))
}

func (h *MoleculeHandler) render(c *gin.Context, sid, style string) {
	ctx := c.Request.Context()
	rc, err := h.service.LoadContext(ctx, sid, style)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.service.Render(ctx, rc)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

// Describe handles POST /api/v1/molecules/describe: formula, descriptor rows
// and the Lipinski record in one response.
func (h *MoleculeHandler) Describe(c *gin.Context) {
	smiles, ok := bindMolecule(c)
	if !ok {
		return
	}
	res, err := h.service.Describe(c.Request.Context(), smiles)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res)
}

// Properties handles POST /api/v1/molecules/properties.
func (h *MoleculeHandler) Properties(c *gin.Context) {
	smiles, ok := bindMolecule(c)
	if !ok {
		return
	}
	res, err := h.service.Describe(c.Request.Context(), smiles)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res.Properties)
}

// Lipinski handles POST /api/v1/molecules/lipinski.
func (h *MoleculeHandler) Lipinski(c *gin.Context) {
	smiles, ok := bindMolecule(c)
	if !ok {
		return
	}
	res, err := h.service.Describe(c.Request.Context(), smiles)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res.Lipinski)
}

// XYZ handles POST /api/v1/molecules/xyz without touching the session.
func (h *MoleculeHandler) XYZ(c *gin.Context) {
	smiles, ok := bindMolecule(c)
	if !ok {
		return
	}
	xyz, err := h.service.XYZ(c.Request.Context(), smiles)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, XYZResponse{SMILES: smiles, XYZ: xyz})
}

// Toxicity handles POST /api/v1/molecules/toxicity. A failed lookup is
// still a 200 carrying an error record.
func (h *MoleculeHandler) Toxicity(c *gin.Context) {
	smiles, ok := bindMolecule(c)
	if !ok {
		return
	}
	res, err := h.service.Toxicity(c.Request.Context(), smiles)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res)
}

// PubChem handles POST /api/v1/molecules/pubchem.
func (h *MoleculeHandler) PubChem(c *gin.Context) {
	smiles, ok := bindMolecule(c)
	if !ok {
		return
	}
	res, err := h.service.Existence(c.Request.Context(), smiles)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res)
}

//Personal.AI order the ending
