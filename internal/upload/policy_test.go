package upload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolicyAcceptsAllowListedTypes(t *testing.T) {
	policy := NewPolicy(0)

	for _, mimeType := range []string{
		"application/pdf",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/zip",
		"Application/PDF; charset=binary",
	} {
		require.NoError(t, policy.Accept(mimeType, 1024), mimeType)
	}
}

func TestPolicyRejectsOtherTypes(t *testing.T) {
	policy := NewPolicy(0)

	for _, mimeType := range []string{"image/png", "text/plain", "", "application/octet-stream"} {
		require.ErrorIs(t, policy.Accept(mimeType, 10), ErrTypeNotAllowed, mimeType)
	}
}

func TestPolicyEnforcesSizeBoundary(t *testing.T) {
	policy := NewPolicy(DefaultMaxBytes)

	require.NoError(t, policy.Accept("application/pdf", DefaultMaxBytes))
	require.ErrorIs(t, policy.Accept("application/pdf", DefaultMaxBytes+1), ErrTooLarge)
}

func TestResolveMIMESniffsGenericDeclarations(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")

	resolved, err := ResolveMIME("application/octet-stream", bytes.NewReader(pdf))
	require.NoError(t, err)
	require.Equal(t, "application/pdf", resolved)

	declared, err := ResolveMIME("application/zip", bytes.NewReader(pdf))
	require.NoError(t, err)
	require.Equal(t, "application/zip", declared)
}

func TestTypeLabelAndExtension(t *testing.T) {
	require.Equal(t, "pptx", TypeLabel("application/vnd.openxmlformats-officedocument.presentationml.presentation"))
	require.Equal(t, "file", TypeLabel("image/png"))
	require.Equal(t, ".pdf", Extension("application/pdf"))
	require.Equal(t, ".zip", Extension("application/zip"))
	require.Equal(t, ".bin", Extension("text/html"))
}

func TestPolicyScreenDefersGenericTypes(t *testing.T) {
	policy := NewPolicy(1024)

	require.NoError(t, policy.Screen("application/octet-stream", 10))
	require.NoError(t, policy.Screen("", 10))
	require.ErrorIs(t, policy.Screen("", 2048), ErrTooLarge)
	require.ErrorIs(t, policy.Screen("text/plain", 10), ErrTypeNotAllowed)
	require.NoError(t, policy.Screen("application/pdf; charset=binary", 10))
}
