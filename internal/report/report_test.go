package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelescopeValid(t *testing.T) {
	assert.True(t, TelescopeAuxTel.Valid())
	assert.True(t, TelescopeSimonyi.Valid())
	assert.False(t, Telescope("Rubin").Valid())
	assert.False(t, Telescope("").Valid())
}

func TestOrderByValues(t *testing.T) {
	values := OrderByValues()
	require.Len(t, values, 2*len(FieldNames))
	assert.Contains(t, values, "day_obs")
	assert.Contains(t, values, "-day_obs")
	assert.Contains(t, values, "id")
	assert.Contains(t, values, "-date_added")
}

func TestValidateOrderBy(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []string
		wantErr bool
	}{
		{
			name:  "empty appends id",
			input: nil,
			want:  []string{"id"},
		},
		{
			name:  "keeps explicit id",
			input: []string{"id"},
			want:  []string{"id"},
		},
		{
			name:  "descending id counts as id",
			input: []string{"-id"},
			want:  []string{"-id"},
		},
		{
			name:  "appends id after other fields",
			input: []string{"day_obs", "-date_added"},
			want:  []string{"day_obs", "-date_added", "id"},
		},
		{
			name:    "unknown field",
			input:   []string{"telescope", "nope"},
			wantErr: true,
		},
		{
			name:    "bare dash",
			input:   []string{"-"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateOrderBy(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
