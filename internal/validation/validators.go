package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/taskpilot/taskpilot/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but panic loudly if they do
	if err := Validate.RegisterValidation("task_priority", validatePriority); err != nil {
		panic(fmt.Sprintf("failed to register task_priority validator: %v", err))
	}
	if err := Validate.RegisterValidation("intent", validateIntent); err != nil {
		panic(fmt.Sprintf("failed to register intent validator: %v", err))
	}
}

// validatePriority validates that an int is within the priority range
func validatePriority(fl validator.FieldLevel) bool {
	value := fl.Field().Int()
	return value >= models.PriorityHighest && value <= models.PriorityLowest
}

// validateIntent validates that a string is a classifiable intent label
func validateIntent(fl validator.FieldLevel) bool {
	return models.Intent(fl.Field().String()).IsClassifiable()
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidatePriority validates a priority value outside of struct validation
func ValidatePriority(value int) error {
	if value < models.PriorityHighest || value > models.PriorityLowest {
		return fmt.Errorf("invalid priority: %d (must be between %d and %d)",
			value, models.PriorityHighest, models.PriorityLowest)
	}
	return nil
}

// ValidateTask validates a task record before it is appended to a collection
func ValidateTask(task *models.Task) error {
	if err := Validate.Struct(task); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}
	return nil
}
