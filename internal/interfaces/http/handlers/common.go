package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolViz/internal/interfaces/http/middleware"
	"github.com/turtacn/MolViz/pkg/errors"
	"github.com/turtacn/MolViz/pkg/types/common"
)

// respondOK writes a success envelope.
func respondOK[T any](c *gin.Context, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(http.StatusOK, resp)
}

// respondError maps err onto its status and error envelope. Server-side
// failures keep their code but never expose the underlying message.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown || code == errors.CodeOK {
		code = errors.CodeInternal
	}
	status := errors.HTTPStatusForCode(code)

	resp := common.NewErrorResponse(code.String(), errors.DefaultMessageForCode(code))
	resp.RequestID = middleware.GetRequestID(c)
	var appErr *errors.AppError
	if status < http.StatusInternalServerError && errors.As(err, &appErr) {
		resp.Error.Message = appErr.Message
		resp.Error.Detail = appErr.Detail
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// bindMolecule reads a {"smiles": ...} body.
func bindMolecule(c *gin.Context) (string, bool) {
	var req struct {
		SMILES string `json:"smiles" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.CodeInvalidParam, "request body must be JSON with a smiles field"))
		return "", false
	}
	return req.SMILES, true
}

//Personal.AI order the ending
