package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
	assert.Equal(t, "MOL_001", CodeMoleculeInvalidSMILES.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeValidation, 422},
		{ErrCodeMoleculeInvalidSMILES, 400},
		{ErrCodeMoleculeConversionFailed, 422},
		{ErrCodeSessionNotLoaded, 404},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code), tt.code)
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "Invalid SMILES string. Please try again.", DefaultMessageForCode(ErrCodeMoleculeInvalidSMILES))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("UNKNOWN")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.True(t, IsClientError(ErrCodeMoleculeInvalidSMILES))
	assert.False(t, IsClientError(ErrCodeInternal))
	assert.False(t, IsClientError(ErrCodeExternalService))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "MOL", ModuleForCode(ErrCodeRenderFailed))
	assert.Equal(t, "SES", ModuleForCode(ErrCodeSessionStore))
	assert.Equal(t, "OK", ModuleForCode(CodeOK))
}

func TestAllCodes_HaveStatusAndMessage(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for code := range ErrorCodeHTTPStatus {
		assert.Regexp(t, pattern, string(code))
		_, ok := ErrorCodeMessage[code]
		assert.True(t, ok, "missing message for %s", code)
	}
	assert.Equal(t, len(ErrorCodeHTTPStatus), len(ErrorCodeMessage))
}

//Personal.AI order the ending
