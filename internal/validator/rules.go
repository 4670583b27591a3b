package validator

import (
	"log"
	"regexp"

	"cardbox_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,28}[a-z0-9]$`)

// registerCustomRules wires the project's domain rules into the shared
// validator instance. A failed registration is a startup error.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-publish-status", validatePublishStatus)
	mustRegister("is-submission-status", validateSubmissionStatus)
	mustRegister("is-entry-state", validateEntryState)
	mustRegister("is-plan", validatePlan)
	mustRegister("is-username", validateUsername)
}

func validatePublishStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // emptiness is the job of 'required'
	}
	switch models.PublishStatus(value) {
	case models.PublishStatusDraft, models.PublishStatusPrivate, models.PublishStatusPublished:
		return true
	}
	return false
}

func validateSubmissionStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.SubmissionStatus(value) {
	case models.SubmissionStatusPending, models.SubmissionStatusApproved,
		models.SubmissionStatusRejected, models.SubmissionStatusWinner:
		return true
	}
	return false
}

func validateEntryState(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.EntryState(value) {
	case models.EntryStateOpen, models.EntryStateClosed:
		return true
	}
	return false
}

func validatePlan(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pro", "studio":
		return true
	}
	return false
}

func validateUsername(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return usernameRe.MatchString(value)
}
