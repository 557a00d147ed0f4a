package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRequest_ValidateCreate(t *testing.T) {
	tests := []struct {
		name    string
		req     CustomerRequest
		wantErr string
	}{
		{"missing name", CustomerRequest{Email: "a@b.co"}, "name is required"},
		{"bad email", CustomerRequest{Name: "Ana", Email: "nope"}, "email is not valid"},
		{"ok without email", CustomerRequest{Name: "Ana"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.req.ValidateCreate()
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Nil(t, c.Email)
		})
	}
}

func TestCustomerRequest_NormalizesEmail(t *testing.T) {
	c, err := CustomerRequest{Name: "  Ana ", Email: " Ana@Example.COM "}.ValidateCreate()
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Name)
	require.NotNil(t, c.Email)
	assert.Equal(t, "ana@example.com", *c.Email)
}

func TestCustomerRequest_ValidateUpdateAllowsPartial(t *testing.T) {
	c, err := CustomerRequest{Phone: "123"}.ValidateUpdate("id-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", c.ID)
	assert.Empty(t, c.Name)
	assert.Equal(t, "123", c.Phone)
}
