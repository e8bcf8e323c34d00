package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrBadRequest = errors.New("bad request")
)

var (
	ErrFormTemplateNotFound = fmt.Errorf("form template %w", ErrNotFound)
	ErrAppointmentNotFound  = fmt.Errorf("appointment %w", ErrNotFound)
	ErrSectionNotFound      = fmt.Errorf("section %w", ErrNotFound)
	ErrSectionDataNotFound  = fmt.Errorf("section data %w", ErrNotFound)

	ErrFormTemplateForbidden = fmt.Errorf("%w: you can only modify forms you created or forms from the base template", ErrForbidden)

	ErrNoChangesDetected   = fmt.Errorf("%w: no changes detected", ErrBadRequest)
	ErrInvalidSectionPatch = fmt.Errorf("%w: invalid section patch", ErrBadRequest)
)
