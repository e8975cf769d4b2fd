package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	OrgName  string `json:"orgName" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestValidateStructSuccess(t *testing.T) {
	payload := registerPayload{
		OrgName:  "Acme",
		Email:    "a@x.com",
		Password: "secret1",
	}

	require.NoError(t, ValidateStruct(payload))
}

func TestValidateStructFailures(t *testing.T) {
	payload := registerPayload{
		OrgName:  "   ",
		Email:    "invalid",
		Password: "short",
	}

	err := ValidateStruct(payload)
	require.Error(t, err)

	vErrs, ok := err.(ValidationErrors)
	require.True(t, ok, "expected ValidationErrors, got %T", err)
	require.Len(t, vErrs, 3)
	require.Equal(t, []string{"orgName", "email", "password"}, vErrs.Fields())
	require.Equal(t, "notblank", vErrs[0].Tag)
	require.Equal(t, "6", vErrs[2].Param)
}

func TestNotBlankSkipsNilPointers(t *testing.T) {
	type update struct {
		FirstName *string `json:"firstName" validate:"omitempty,notblank"`
	}

	require.NoError(t, ValidateStruct(update{}))

	blank := " "
	require.Error(t, ValidateStruct(update{FirstName: &blank}))

	name := "Jo"
	require.NoError(t, ValidateStruct(update{FirstName: &name}))
}

func TestRegisterValidation(t *testing.T) {
	err := RegisterValidation("hrms", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "hrms"
	})
	require.NoError(t, err)

	type custom struct {
		Value string `validate:"hrms"`
	}

	require.NoError(t, ValidateStruct(custom{Value: "hrms"}))
	require.Error(t, ValidateStruct(custom{Value: "other"}))
}
