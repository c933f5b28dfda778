package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolViz/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"invalid smiles", errors.CodeMoleculeInvalidSMILES, "Invalid SMILES string. Please try again."},
		{"invalid param", errors.CodeInvalidParam, "SMILES must not be empty"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.Contains(t, ae.Stack, "errors_test.go")
		})
	}
}

func TestAppError_ErrorFormat(t *testing.T) {
	ae := errors.New(errors.CodeMoleculeInvalidSMILES, "bad input")
	assert.Equal(t, "[MOL_001] bad input", ae.Error())

	withDetail := ae.WithDetail("position 3")
	assert.Equal(t, "[MOL_001] bad input: position 3", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")
}

func TestNewf(t *testing.T) {
	ae := errors.Newf(errors.CodeValidation, "port %d out of range", 70000)
	assert.Equal(t, "port 70000 out of range", ae.Message)
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	root := stderrors.New("connection refused")
	wrapped := errors.Wrap(root, errors.CodeSessionStore, "save session")

	require.NotNil(t, wrapped)
	assert.True(t, stderrors.Is(wrapped, root))
	assert.Equal(t, root, wrapped.Unwrap())

	outer := fmt.Errorf("handler: %w", wrapped)
	assert.True(t, errors.IsCode(outer, errors.CodeSessionStore))
	assert.Equal(t, errors.CodeSessionStore, errors.GetCode(outer))
}

func TestWrap_UnknownCodeKeepsInnerCode(t *testing.T) {
	inner := errors.New(errors.CodeMoleculeConversionFailed, "embedding did not converge")
	outer := errors.Wrap(inner, errors.CodeUnknown, "visualize")
	assert.Equal(t, errors.CodeMoleculeConversionFailed, outer.Code)
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(errors.NotFound("x")))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(errors.NotFound("nothing here")))
	assert.True(t, errors.IsNotFound(errors.New(errors.CodeSessionNotLoaded, "empty session")))
	assert.False(t, errors.IsNotFound(errors.Internal("boom")))
	assert.False(t, errors.IsNotFound(nil))
}

func TestWithCause_NilReceiver(t *testing.T) {
	var ae *errors.AppError
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
	assert.Nil(t, ae.WithDetail("x"))
}

func TestFactories(t *testing.T) {
	assert.Equal(t, errors.CodeInvalidParam, errors.InvalidParam("x").Code)
	assert.Equal(t, errors.CodeInternal, errors.Internal("x").Code)
	assert.Equal(t, errors.CodeServiceUnavailable, errors.Unavailable("x").Code)
	assert.Equal(t, 503, errors.Unavailable("x").HTTPStatus())
}

func TestAs(t *testing.T) {
	var ae *errors.AppError
	err := fmt.Errorf("wrapped: %w", errors.InvalidParam("style"))
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "style", ae.Message)
}

//Personal.AI order the ending
