package models

import (
	"errors"
	"fmt"
)

// Failure categories. Every error returned by the core wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrStateLocked        = errors.New("state locked")
	ErrVerificationFailed = errors.New("security check failed")
)

// Not found.
var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrPayerNotFound   = fmt.Errorf("payer %w", ErrNotFound)
	ErrGroupNotFound   = fmt.Errorf("group %w", ErrNotFound)
	ErrExpenseNotFound = fmt.Errorf("expense %w", ErrNotFound)
	ErrSplitNotFound   = fmt.Errorf("split %w", ErrNotFound)
)

// Not authorized.
var (
	ErrPayerNotMember     = fmt.Errorf("payer is not a group member: %w", ErrNotAuthorized)
	ErrNotPayer           = fmt.Errorf("only the payer may change an expense: %w", ErrNotAuthorized)
	ErrNotSplitOwner      = fmt.Errorf("only the owing member may settle a split: %w", ErrNotAuthorized)
	ErrNotGroupMember     = fmt.Errorf("requester is not a group member: %w", ErrNotAuthorized)
	ErrNotSelf            = fmt.Errorf("members may only remove themselves: %w", ErrNotAuthorized)
	ErrInvalidCredentials = fmt.Errorf("invalid username or password: %w", ErrNotAuthorized)
)

// Invalid input.
var (
	ErrInvalidAmount      = fmt.Errorf("amount must be a positive number: %w", ErrInvalidInput)
	ErrInvalidDate        = fmt.Errorf("unparsable date: %w", ErrInvalidInput)
	ErrInvalidDescription = fmt.Errorf("description is required: %w", ErrInvalidInput)
	ErrInvalidReceipt     = fmt.Errorf("receipt must be png, jpg, jpeg, gif or pdf: %w", ErrInvalidInput)
	ErrEmptyGroup         = fmt.Errorf("group has no members to split between: %w", ErrInvalidInput)
	ErrWeakPassword       = fmt.Errorf("password must be at least 8 characters: %w", ErrInvalidInput)
	ErrMissingField       = fmt.Errorf("required field missing: %w", ErrInvalidInput)
	ErrTooManyAmounts     = fmt.Errorf("at most three amounts may be given: %w", ErrInvalidInput)
)

// Conflict.
var (
	ErrAlreadyMember  = fmt.Errorf("user is already a member: %w", ErrConflict)
	ErrNotMember      = fmt.Errorf("user is not a member: %w", ErrConflict)
	ErrUsernameTaken  = fmt.Errorf("username already exists: %w", ErrConflict)
	ErrEmailTaken     = fmt.Errorf("email already exists: %w", ErrConflict)
	ErrGroupNameTaken = fmt.Errorf("group name already exists: %w", ErrConflict)
	ErrGroupTagTaken  = fmt.Errorf("group tag already exists: %w", ErrConflict)
	ErrAlreadySettled = fmt.Errorf("split is already settled: %w", ErrConflict)
)

// ErrSettlementLocked is returned when an expense has at least one settled
// split and therefore can no longer be edited.
var ErrSettlementLocked = fmt.Errorf("expense has settled splits: %w", ErrStateLocked)
