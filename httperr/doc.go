// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package httperr attaches HTTP status codes to errors.

A CodedError carries the response code from the place a request is rejected
up to the handler that writes the response. It wraps the original error, so
errors.Is and errors.As see through it.

# Basic Usage

Create errors with HTTP status codes:

	// Create a new error with a status code
	err := httperr.New("resource not found", http.StatusNotFound)

	// Wrap an existing error with a status code
	err := httperr.WithCode(err, http.StatusBadRequest)

# Extracting Status Codes

Extract the HTTP status code from an error chain:

	code := httperr.Code(err)
	// Returns the code if err contains a CodedError
	// Returns http.StatusInternalServerError (500) if no CodedError found
	// Returns http.StatusOK (200) if err is nil

	// Format with wrapping and a code in one step
	err := httperr.Errorf(http.StatusBadRequest, "parsing body: %w", err)

# Error Wrapping

CodedError supports the standard Go error wrapping pattern:

	sentinel := errors.New("database connection failed")
	err := httperr.WithCode(sentinel, http.StatusServiceUnavailable)

	// errors.Is works through the wrapper
	if errors.Is(err, sentinel) {
		// handle specific error
	}

	// errors.As can extract the CodedError
	var coded *httperr.CodedError
	if errors.As(err, &coded) {
		log.Printf("HTTP %d: %s", coded.HTTPCode(), coded.Error())
	}

# HTTP Handler Example

Packages in this module attach codes where the failure is decided: the body
registry marks unparseable bodies 400 and oversized ones 413, and the authz
registry marks a missing Authorization header 401. Handlers answer with
[Write], which sends only the status text:

	func handler(w http.ResponseWriter, r *http.Request) {
		v, err := bodies.Content(r.Header, r.Body)
		if err != nil {
			httperr.Write(w, err)
			return
		}
		// ...
	}
*/
package httperr
