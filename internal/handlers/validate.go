package handlers

import "github.com/go-playground/validator/v10"

// validate checks request bodies against their `validate` tags.
var validate = validator.New()
