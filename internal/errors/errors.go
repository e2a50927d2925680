// Package errors re-exports github.com/cockroachdb/errors for satbot.
//
// This gives every package in the module stack traces, wrapping with
// context, and PII-safe formatting without importing cockroachdb/errors
// directly everywhere.
//
// Usage:
//
//	err := errors.New("feed unavailable")
//	return errors.Wrapf(err, "fetching %s", url)
//	return errors.WithHint(err, "check network connectivity to amsat.org")
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSafeDetails    = crdb.WithSafeDetails
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapOnce    = crdb.UnwrapOnce
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Advanced features
var (
	Handled            = crdb.Handled
	HandledWithMessage = crdb.HandledWithMessage
	WithDomain         = crdb.WithDomain
	GetDomain          = crdb.GetDomain
	WithContextTags    = crdb.WithContextTags
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Assertions
var (
	AssertionFailedf                = crdb.AssertionFailedf
	NewAssertionErrorWithWrappedErrf = crdb.NewAssertionErrorWithWrappedErrf
)

// Sentinel errors shared across components. Check with errors.Is.
var (
	// ErrNotFound marks a lookup that found nothing (satellite, frequency row, cache entry).
	ErrNotFound = crdb.New("not found")
	// ErrStale marks data older than a caller's freshness requirement.
	ErrStale = crdb.New("stale")
	// ErrUnavailable marks a collaborator (feed, browser, renderer) that could not
	// be reached or produce a result within budget.
	ErrUnavailable = crdb.New("unavailable")
)
