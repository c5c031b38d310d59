package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterminism(t *testing.T) {
	a := Classes{widgetClass(), {Name: "Atlas"}}
	b := Classes{{Name: "Atlas"}, widgetClass()}

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, fa, fb, "load order must not change the fingerprint")
	assert.Len(t, fa, 64, "SHA-256 hex is 64 characters")
}

func TestFingerprintChangesWithIR(t *testing.T) {
	base := widgetClass()
	changed := widgetClass()
	changed.SharedFns[0].Output = Prim("Json")

	f1, err := Fingerprint(Classes{base})
	require.NoError(t, err)
	f2, err := Fingerprint(Classes{changed})
	require.NoError(t, err)

	assert.NotEqual(t, f1, f2)
}

func TestFingerprintNormalizesComments(t *testing.T) {
	composed := &Class{Name: "Run", Comments: []string{"caf\u00e9"}}
	decomposed := &Class{Name: "Run", Comments: []string{"cafe\u0301"}}

	f1, err := Fingerprint(Classes{composed})
	require.NoError(t, err)
	f2, err := Fingerprint(Classes{decomposed})
	require.NoError(t, err)

	assert.Equal(t, f1, f2)
}

func TestArtifactHashDomainSeparated(t *testing.T) {
	content := []byte("public class RunRef {}")
	assert.Equal(t, ArtifactHash(content), ArtifactHash(content))
	assert.NotEqual(t, ArtifactHash(content), hashWithDomain(DomainIR, content))
}
