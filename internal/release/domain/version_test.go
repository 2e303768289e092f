package domain

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "1.0.0"},
		{name: "multi digit components", input: "12.34.567"},
		{name: "all zeros", input: "0.0.0"},
		{name: "surrounding whitespace", input: "  2.1.3  "},
		{name: "two components", input: "1.0", wantErr: true},
		{name: "four components", input: "1.0.0.0", wantErr: true},
		{name: "negative component", input: "1.-1.0", wantErr: true},
		{name: "non numeric", input: "1.0.x", wantErr: true},
		{name: "prerelease suffix", input: "1.0.0-beta", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVersion(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, v.String())
		})
	}
}

func TestParseVersionRoundTrip(t *testing.T) {
	inputs := []string{"0.0.0", "1.0.0", "1.2.3", "10.20.30", "999.0.1"}
	for _, input := range inputs {
		v, err := ParseVersion(input)
		require.NoError(t, err)
		assert.Equal(t, input, v.String())
	}
}

func TestNewVersionRejectsNegativeComponents(t *testing.T) {
	_, err := NewVersion(1, -1, 0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestVersionIncrements(t *testing.T) {
	v := MustParseVersion("1.2.3")

	assert.Equal(t, "1.2.4", v.IncrementPatch().String())
	assert.Equal(t, "1.3.0", v.IncrementMinor().String())
	assert.Equal(t, "2.0.0", v.IncrementMajor().String())

	// The receiver never changes.
	assert.Equal(t, "1.2.3", v.String())
}

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a    string
		b    string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0", "1.0.1", -1},
		{"1.1.0", "1.0.9", 1},
		{"2.0.0", "1.99.99", 1},
		{"1.0.10", "1.0.9", 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s vs %s", tt.a, tt.b), func(t *testing.T) {
			a := MustParseVersion(tt.a)
			b := MustParseVersion(tt.b)
			assert.Equal(t, tt.want, a.Compare(b))
			assert.Equal(t, tt.want > 0, a.IsGreaterThan(b))
		})
	}
}

// Compare must be antisymmetric and transitive over random triples.
func TestVersionCompareProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	randomVersion := func() Version {
		v, err := NewVersion(rng.Intn(5), rng.Intn(5), rng.Intn(5))
		require.NoError(t, err)
		return v
	}

	for i := 0; i < 500; i++ {
		a, b, c := randomVersion(), randomVersion(), randomVersion()

		assert.Equal(t, -a.Compare(b), b.Compare(a), "antisymmetry for %s, %s", a, b)

		if a.Compare(b) <= 0 && b.Compare(c) <= 0 {
			assert.LessOrEqual(t, a.Compare(c), 0, "transitivity for %s, %s, %s", a, b, c)
		}
	}
}

func TestVersionEquals(t *testing.T) {
	assert.True(t, MustParseVersion("1.2.3").Equals(MustParseVersion("1.2.3")))
	assert.False(t, MustParseVersion("1.2.3").Equals(MustParseVersion("1.2.4")))
}

func TestMustParseVersionPanicsOnInvalidInput(t *testing.T) {
	assert.Panics(t, func() { MustParseVersion("not-a-version") })
}
