package app

import "github.com/jojocoffee/serenity/internal/apperr"

var (
	errMissingDate = &apperr.Error{
		Message: "specify the day to delete (e.g. 2024-03-17 or 'yesterday')",
	}

	errConfirm = &apperr.Error{
		Message: "unable to confirm the deletion",
	}
)
