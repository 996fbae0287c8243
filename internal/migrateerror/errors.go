// Package migrateerror defines the error types raised by the
// reconciliation and normalization stages. Commands translate these into
// exit codes; no package below the command layer terminates the process.
package migrateerror

import (
	"fmt"
	"strings"
)

// MappingNotFoundError signals that a source name has no entry in the
// relevant mapping document. The run cannot continue until the user
// regenerates or extends the mapping.
type MappingNotFoundError struct {
	Kind string // "account" or "category"
	Name string
}

func (e *MappingNotFoundError) Error() string {
	return fmt.Sprintf("no %s mapping entry for '%s': regenerate the %s mapping before continuing",
		e.Kind, e.Name, e.Kind)
}

// MappingExistsError signals that mapping generation would overwrite an
// existing document that may contain user edits.
type MappingExistsError struct {
	Path string
}

func (e *MappingExistsError) Error() string {
	return fmt.Sprintf("mapping document already exists at %s: refusing to overwrite, delete it first to regenerate", e.Path)
}

// MappingMissingError signals that a full run was started without a
// required mapping document.
type MappingMissingError struct {
	Kind    string
	Command string // subcommand that generates the document
}

func (e *MappingMissingError) Error() string {
	return fmt.Sprintf("%s mapping document not found: run '%s' first and review the generated file", e.Kind, e.Command)
}

// UnmappedCategoriesError signals Mint categories that are covered neither
// by the user mapping nor by an existing Lunch Money category.
type UnmappedCategoriesError struct {
	Categories []string
}

func (e *UnmappedCategoriesError) Error() string {
	return fmt.Sprintf("%d categories left to map: %s", len(e.Categories), strings.Join(e.Categories, ", "))
}

// GroupConflictError signals category names that collide with category
// group names. Lunch Money keeps the two namespaces disjoint.
type GroupConflictError struct {
	Names []string
}

func (e *GroupConflictError) Error() string {
	return fmt.Sprintf("category names must be different from group names: %s", strings.Join(e.Names, ", "))
}

// MissingAccountsError signals Lunch Money assets referenced by the
// resolved transactions that do not exist remotely yet.
type MissingAccountsError struct {
	Names []string
}

func (e *MissingAccountsError) Error() string {
	return fmt.Sprintf("%d accounts missing on Lunch Money, create them before uploading: %s",
		len(e.Names), strings.Join(e.Names, ", "))
}

// ParseError signals a malformed source field, typically a date.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s='%s': %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
