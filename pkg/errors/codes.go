package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string identifier for a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
	ErrCodeRateLimited        ErrorCode = "COMMON_016"
)

// Molecule error codes.
const (
	ErrCodeMoleculeInvalidSMILES    ErrorCode = "MOL_001"
	ErrCodeMoleculeInvalidFormat    ErrorCode = "MOL_003"
	ErrCodeMoleculeParsingFailed    ErrorCode = "MOL_006"
	ErrCodeMoleculeConversionFailed ErrorCode = "MOL_011"
	ErrCodePropertyCalcFailed       ErrorCode = "MOL_013"
	ErrCodeRenderFailed             ErrorCode = "MOL_016"
)

// Session error codes.
const (
	ErrCodeSessionStore     ErrorCode = "SES_001"
	ErrCodeSessionNotLoaded ErrorCode = "SES_002"
)

// Short aliases used at call sites.
const (
	CodeOK                 = ErrorCode("OK")
	CodeUnknown            = ErrorCode("UNKNOWN")
	CodeInternal           = ErrCodeInternal
	CodeInvalidParam       = ErrCodeBadRequest
	CodeNotFound           = ErrCodeNotFound
	CodeServiceUnavailable = ErrCodeServiceUnavailable
	CodeTimeout            = ErrCodeTimeout
	CodeValidation         = ErrCodeValidation
	CodeCacheError         = ErrCodeCacheError
	CodeDatabaseError      = ErrCodeDatabaseError
	CodeExternalService    = ErrCodeExternalService
	CodeRateLimited        = ErrCodeRateLimited

	CodeMoleculeInvalidSMILES    = ErrCodeMoleculeInvalidSMILES
	CodeMoleculeInvalidFormat    = ErrCodeMoleculeInvalidFormat
	CodeMoleculeParsingFailed    = ErrCodeMoleculeParsingFailed
	CodeMoleculeConversionFailed = ErrCodeMoleculeConversionFailed
	CodePropertyCalcFailed       = ErrCodePropertyCalcFailed
	CodeRenderFailed             = ErrCodeRenderFailed
	CodeSessionStore             = ErrCodeSessionStore
	CodeSessionNotLoaded         = ErrCodeSessionNotLoaded
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusForbidden,
	ErrCodeRateLimited:        http.StatusTooManyRequests,

	ErrCodeMoleculeInvalidSMILES:    http.StatusBadRequest,
	ErrCodeMoleculeInvalidFormat:    http.StatusBadRequest,
	ErrCodeMoleculeParsingFailed:    http.StatusBadRequest,
	ErrCodeMoleculeConversionFailed: http.StatusUnprocessableEntity,
	ErrCodePropertyCalcFailed:       http.StatusInternalServerError,
	ErrCodeRenderFailed:             http.StatusInternalServerError,

	ErrCodeSessionStore:     http.StatusInternalServerError,
	ErrCodeSessionNotLoaded: http.StatusNotFound,
}

// ErrorCodeMessage maps error codes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeFeatureDisabled:    "feature disabled",
	ErrCodeRateLimited:        "rate limit exceeded, please retry later",

	ErrCodeMoleculeInvalidSMILES:    "Invalid SMILES string. Please try again.",
	ErrCodeMoleculeInvalidFormat:    "invalid coordinate text",
	ErrCodeMoleculeParsingFailed:    "failed to parse molecule",
	ErrCodeMoleculeConversionFailed: "failed to generate 3D coordinates",
	ErrCodePropertyCalcFailed:       "failed to calculate molecular properties",
	ErrCodeRenderFailed:             "failed to render structure",

	ErrCodeSessionStore:     "session store error",
	ErrCodeSessionNotLoaded: "no molecule has been visualized in this session",
}

// HTTPStatusForCode returns the mapped HTTP status, or 500 when unmapped.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for code.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError reports whether code maps to a 4xx status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of code ("COMMON", "MOL", "SES").
func ModuleForCode(code ErrorCode) string {
	s := string(code)
	if i := strings.IndexByte(s, '_'); i > 0 {
		return s[:i]
	}
	return s
}

//Personal.AI order the ending
