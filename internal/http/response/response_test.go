package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

func TestStatusOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := StatusOKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
}

func TestValidationError_CollectsAllViolations(t *testing.T) {
	type TestStruct struct {
		Barcode string `validate:"required"`
		Email   string `validate:"required,email"`
	}

	v := validator.New()
	ts := TestStruct{
		Email: "not-an-email",
	}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	// Оба нарушения попадают в список, а не только первое.
	assert.Len(t, resp.Errors, 2)
	assert.Contains(t, resp.Errors, "field Barcode is a required field")
	assert.Contains(t, resp.Errors, "field Email must be a valid email")
}
