package inventory

// Error codes handed to users alongside a message so support can trace them.
//
// Inventory errors (INV001-INV099)
//
//	INV001 - Book not found
//	INV002 - Blank record: at least one field must be filled
//
// Configuration errors (CFG001-CFG099)
//
//	CFG001 - Unknown search or sort column
//
// Database errors (DB001-DB099)
//
//	DB001 - Database locked by another writer
//	DB002 - Database file cannot be opened
//	DB003 - Constraint violated
//	DB004 - Database unavailable
//	DB005 - Connection interrupted
//	DB006 - Timeout
//
// File errors (FILE001-FILE099)
//
//	FILE001 - File too large
//	FILE002 - Unreadable spreadsheet
//	FILE003 - Unsupported file type
//	FILE004 - No file provided
//	FILE005 - Empty file
//
// Import errors (IMP001-IMP099)
//
//	IMP001 - Too many imports running
//	IMP002 - Request cancelled
//	IMP003 - Request timed out
//
// Request errors (REQ001-REQ099)
//
//	REQ001 - Invalid request body
//	REQ002 - Invalid id
//	RATE001 - Rate limited
//	SRV001 - Server shutting down
//
// ERR000 is the fallback; check the logs for the technical error.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage is what an adapter shows when an operation fails.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

// sentinelMessages is consulted before the text patterns.
var sentinelMessages = []struct {
	target error
	msg    UserMessage
}{
	{ErrNotFound, UserMessage{
		Message: "Book not found",
		Action:  "Refresh the list and pick an existing book",
		Code:    "INV001",
	}},
	{ErrBlankRecord, UserMessage{
		Message: "At least one field must be filled",
		Action:  "Enter a title or a number before saving",
		Code:    "INV002",
	}},
	{ErrUnknownColumn, UserMessage{
		Message: "Unknown column",
		Action:  "Choose one of the listed columns",
		Code:    "CFG001",
	}},
	{ErrStoreUnavailable, UserMessage{
		Message: "Unable to reach the inventory database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are matched case-insensitively; the first hit wins, so keep
// specific patterns ahead of general ones.
var errorPatterns = []errorPattern{
	{"database is locked", UserMessage{
		Message: "The database is busy",
		Action:  "Please try again",
		Code:    "DB001",
	}},
	{"unable to open database", UserMessage{
		Message: "The database file cannot be opened",
		Action:  "Check DB_PATH and its directory permissions",
		Code:    "DB002",
	}},
	{"constraint", UserMessage{
		Message: "The record violates a database constraint",
		Action:  "Review the values and try again",
		Code:    "DB003",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{"file too large", UserMessage{
		Message: "File exceeds the maximum size limit",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}},
	{"invalid spreadsheet", UserMessage{
		Message: "The spreadsheet could not be read",
		Action:  "Save the file as CSV (UTF-8) or XLSX and try again",
		Code:    "FILE002",
	}},
	{"unsupported file type", UserMessage{
		Message: "Unsupported file type",
		Action:  "Upload a .csv or .xlsx file",
		Code:    "FILE003",
	}},
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Please select a spreadsheet to import",
		Code:    "FILE004",
	}},
	{"empty file", UserMessage{
		Message: "The file has no data rows",
		Action:  "Add a header row and at least one book",
		Code:    "FILE005",
	}},
	{"too many imports", UserMessage{
		Message: "Other imports are still running",
		Action:  "Please wait a moment and try again",
		Code:    "IMP001",
	}},
	{"context canceled", UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "IMP002",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "IMP003",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Please try again later",
		Code:    "DB006",
	}},
	{"invalid request", UserMessage{
		Message: "The request body is invalid",
		Action:  "Check the field names and value types",
		Code:    "REQ001",
	}},
	{"invalid id", UserMessage{
		Message: "The book id is invalid",
		Action:  "Use the numeric id shown in the list",
		Code:    "REQ002",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
	{"shutting down", UserMessage{
		Message: "The server is restarting",
		Action:  "Please try again in a few moments",
		Code:    "SRV001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts err to a user-facing message. Sentinel errors are
// matched with errors.Is; anything else falls through to text patterns and
// finally to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.target) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders MapError as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
