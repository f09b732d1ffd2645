package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile([]string{"AppID == "})
	assert.Error(t, err)

	// not a bool
	_, err = Compile([]string{"AppID + 1"})
	assert.Error(t, err)

	// unknown field
	_, err = Compile([]string{"Publisher == 'Valve'"})
	assert.Error(t, err)
}

func TestCheckSingleMatchWithReason(t *testing.T) {
	expressions, err := Compile([]string{
		`AppID == 760`,
		`Title contains "Demo"`,
		`FileName startsWith "440_2019"`,
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		env        Env
		wantMatch  bool
		wantReason string
	}{
		{
			name:       "app id",
			env:        Env{AppID: 760, FileName: "760_1.png"},
			wantMatch:  true,
			wantReason: `AppID == 760`,
		},
		{
			name:       "title",
			env:        Env{AppID: 1, Title: "Some Demo", Resolved: true},
			wantMatch:  true,
			wantReason: `Title contains "Demo"`,
		},
		{
			name:       "file name",
			env:        Env{AppID: 440, FileName: "440_20190101_1.png"},
			wantMatch:  true,
			wantReason: `FileName startsWith "440_2019"`,
		},
		{
			name:      "no match",
			env:       Env{AppID: 220, FileName: "220_1.png", Title: "Half-Life 2"},
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, reason, err := CheckSingleMatchWithReason(tt.env, expressions)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatch, match)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestCheckSingleMatch_NoExpressions(t *testing.T) {
	match, reason, err := CheckSingleMatchWithReason(Env{AppID: 1}, nil)
	require.NoError(t, err)
	assert.False(t, match)
	assert.Empty(t, reason)
}
