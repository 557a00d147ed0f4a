package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"11.50", "11.5", false},
		{"3", "3", false},
		{"2.500", "2.5", false},
		{"0", "", true},
		{"-1.00", "", true},
		{"1.999", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.Classify(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestCreateItemRequest_Validate(t *testing.T) {
	_, err := CreateItemRequest{Price: "1.00"}.Validate()
	assert.EqualError(t, err, "name is required")

	empty := ""
	it, err := CreateItemRequest{Name: "Soup", Price: "4.25", InventoryID: &empty}.Validate()
	require.NoError(t, err)
	assert.True(t, it.Available)
	assert.Nil(t, it.InventoryID)
	assert.Equal(t, "4.25", it.Price.StringFixed(2))

	off := false
	it, err = CreateItemRequest{Name: "Soup", Price: "4.25", Available: &off}.Validate()
	require.NoError(t, err)
	assert.False(t, it.Available)
}
