package spline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseBoundaryPolicy(t *testing.T) {
	for _, name := range BoundaryPolicyNames() {
		policy, err := ParseBoundaryPolicy(name)
		require.Nil(t, err)
		assert.Equal(t, name, policy.String())
	}

	_, err := ParseBoundaryPolicy("quadratic")
	assert.ErrorIs(t, err, ErrUnknownBoundaryPolicy)

	var zero BoundaryPolicy
	assert.Equal(t, NotAKnot, zero)
	assert.False(t, BoundaryPolicy(-1).Valid())
	assert.Equal(t, "BoundaryPolicy(-1)", BoundaryPolicy(-1).String())
}

func TestBoundaryPolicyYAML(t *testing.T) {
	var v struct {
		Policy BoundaryPolicy `yaml:"policy"`
	}

	err := yaml.Unmarshal([]byte("policy: clamped\n"), &v)
	require.Nil(t, err)
	assert.Equal(t, Clamped, v.Policy)

	d, err := yaml.Marshal(v)
	require.Nil(t, err)
	assert.Equal(t, "policy: clamped\n", string(d))

	err = yaml.Unmarshal([]byte("policy: cubic\n"), &v)
	assert.ErrorIs(t, err, ErrUnknownBoundaryPolicy)
}
