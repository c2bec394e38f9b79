// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("utility", validateUtility)
		_ = v.RegisterValidation("assigned_utility", validateAssignedUtility)
	}
}

// validateUtility accepts any of the three utility states an expense can hold.
func validateUtility(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "aligned", "regret", "not assigned":
		return true
	}
	return false
}

// validateAssignedUtility accepts only the two states a client may assign.
// "not assigned" is the server-side default, never a client decision.
func validateAssignedUtility(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "aligned", "regret":
		return true
	}
	return false
}
