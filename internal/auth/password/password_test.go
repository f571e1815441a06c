package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("s3cret")
	require.NoError(t, err)
	assert.True(t, Verify("s3cret", encoded))
	assert.False(t, Verify("wrong", encoded))
	assert.False(t, NeedsRehash(encoded))

	again, err := Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, encoded, again, "salts must differ")
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
	} {
		assert.False(t, Verify("anything", encoded), encoded)
		assert.True(t, NeedsRehash(encoded), encoded)
	}
}

func TestNeedsRehashWithWeakerParams(t *testing.T) {
	weak := Default
	weak.Memory = 8 * 1024
	encoded, err := HashWith("s3cret", weak)
	require.NoError(t, err)

	assert.True(t, Verify("s3cret", encoded))
	assert.True(t, NeedsRehash(encoded))
}
