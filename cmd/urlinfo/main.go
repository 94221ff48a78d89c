// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Command urlinfo resolves the current, site and base URLs for a set of
// server variables, or serves them for live requests.
//
//	urlinfo -env server.env -set HTTPS=on -set REQUEST_URI=/app/index.php/users -path /login
//	urlinfo -serve :8080 -script /app -trust 'in_cidr(remote_addr, "10.0.0.0/8")'
//
// Without -env the file httputil/server.env is searched in the XDG config
// directories. HTTPUTIL_LOG_FORMAT and HTTPUTIL_LOG_LEVEL configure logging.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stacklok/toolhive-httputil/env"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, &env.OSReader{}); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "urlinfo:", err)
		os.Exit(1)
	}
}
