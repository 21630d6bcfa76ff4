package models

import "errors"

var (
	// ErrDataUnavailable means the source could not be read or lacks required columns.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrMissingColumn means the dataset schema lacks a column the analysis needs.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidAnalysis means the selection is not one of the fixed analyses.
	ErrInvalidAnalysis = errors.New("invalid analysis identifier")
)
