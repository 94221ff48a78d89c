// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package response provides status class checks and helpers for redirect
// and file responses.
package response
