// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package proxytrust decides whether the forwarded headers of a request
(X-Forwarded-Host, X-Forwarded-Proto, X-Forwarded-Prefix) may be used when
building externally visible URLs.

A Policy is a CEL boolean expression compiled once and evaluated for every
resolution. Two variables are available:

  - server: map(string, string) of the request's server variables
  - remote_addr: the client address (REMOTE_ADDR)

The in_cidr(addr, cidr) function tests an address against a network.

# Basic Usage

	policy, err := proxytrust.Compile(`in_cidr(remote_addr, "10.0.0.0/8")`)
	if err != nil {
	    // handle compilation error
	}

	ok, err := policy.Allows(map[string]string{"REMOTE_ADDR": "10.1.2.3"})
	// ok == true

Map lookups of absent keys fail at evaluation time; guard them with "in":

	`"HTTP_X_FORWARDED_HOST" in server && server["HTTP_X_FORWARDED_HOST"].endsWith(".example.com")`

# Error Handling

Syntax and type errors are returned as a *CompileError naming the failing
stage and listing each issue with its line and column. It matches
ErrExpressionCheck:

	_, err := proxytrust.Compile(`remote_addr ==`)
	var compileErr *proxytrust.CompileError
	if errors.As(err, &compileErr) {
	    for _, issue := range compileErr.Issues {
	        fmt.Println(compileErr.Stage, issue)
	    }
	}

# Limits

Expressions longer than DefaultMaxExpressionLength are rejected and
evaluation is bounded by DefaultCostLimit. Both can be changed with
WithMaxExpressionLength and WithCostLimit.

A Policy is safe for concurrent use.
*/
package proxytrust
