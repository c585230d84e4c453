package apperrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrors_FirstMessageIsError(t *testing.T) {
	v := NewValidationErrors()
	v.Add("zip_code", "The zip code field is required.")
	v.Add("county", "The county field is required.")

	assert.Equal(t, "The zip code field is required.", v.Error())
	assert.Equal(t, []string{"zip_code", "county"}, v.Fields())
}

func TestValidationErrors_MultipleMessagesPerField(t *testing.T) {
	v := NewValidationErrors()
	v.Add("name", "first")
	v.Add("name", "second")

	assert.Equal(t, []string{"name"}, v.Fields())
	assert.Equal(t, []string{"first", "second"}, v.Messages("name"))
}

func TestValidationErrors_ErrOrNil(t *testing.T) {
	v := NewValidationErrors()
	assert.NoError(t, v.ErrOrNil())
	assert.True(t, v.Empty())

	v.Add("name", "The name field is required.")
	assert.Error(t, v.ErrOrNil())
	assert.False(t, v.Empty())
}
