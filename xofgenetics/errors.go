package xofgenetics

import "github.com/cockroachdb/errors"

// Invariant-violation errors: programmer errors, rejected at construction boundaries.
var (
	ErrGenomeLength     = errors.New("xofgenetics: genome length does not match config")
	ErrMetaGenomeNeeded = errors.New("xofgenetics: dual-encoded mode requires a meta-genome")
	ErrMetaGenomeLength = errors.New("xofgenetics: meta-genome length does not match config")
	ErrMaskLength       = errors.New("xofgenetics: mutation mask length does not match genome length")
	ErrEmptyLibrary     = errors.New("xofgenetics: reproduction parameter library is empty")
	ErrNoPartner        = errors.New("xofgenetics: sexual reproduction requires a partner")
	ErrEmptyPopulation  = errors.New("xofgenetics: population must be non-empty")
	ErrInvalidConfig    = errors.New("xofgenetics: invalid configuration")
)
