// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/adrg/xdg"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stacklok/toolhive-httputil/body"
	"github.com/stacklok/toolhive-httputil/env"
	"github.com/stacklok/toolhive-httputil/logging"
	"github.com/stacklok/toolhive-httputil/metrics"
	"github.com/stacklok/toolhive-httputil/proxytrust"
	"github.com/stacklok/toolhive-httputil/servervars"
	"github.com/stacklok/toolhive-httputil/siteurl"
	"github.com/stacklok/toolhive-httputil/uri"
)

// configFile is the dotenv file searched in the XDG config directories.
const configFile = "httputil/server.env"

var errUsage = errors.New("usage")

type options struct {
	envFile string
	set     servervars.Overrides
	trust   string
	path    string
	output  string
	serve   string
	script  string
	token   string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: servervars.Overrides{}}

	fs := flag.NewFlagSet("urlinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.envFile, "env", "", "dotenv file with server variables (default: XDG "+configFile+")")
	fs.Func("set", "server variable `KEY=VALUE`, may be repeated", func(s string) error {
		k, v, ok := strings.Cut(s, "=")
		if !ok || k == "" {
			return fmt.Errorf("expected KEY=VALUE, got %q", s)
		}
		opts.set[k] = v
		return nil
	})
	fs.StringVar(&opts.trust, "trust", "", "CEL expression deciding whether forwarded headers are trusted")
	fs.StringVar(&opts.path, "path", "", "path appended to the site and base URLs")
	fs.StringVar(&opts.output, "o", "text", "output format: text, json or yaml")
	fs.StringVar(&opts.serve, "serve", "", "serve resolved URLs over HTTP on `addr`")
	fs.StringVar(&opts.script, "script", "/", "SCRIPT_NAME of requests in serve mode")
	fs.StringVar(&opts.token, "token", "", "bearer token required by the serve mode")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %q", errUsage, fs.Args())
	}
	switch opts.output {
	case "text", "json", "yaml":
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", errUsage, opts.output)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, osEnv env.Reader) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logOpts, err := logging.FromEnv(osEnv)
	if err != nil {
		return err
	}
	logger := logging.New(append([]logging.Option{logging.WithFormat(logging.FormatText)},
		append(logOpts, logging.WithOutput(stderr))...)...)

	base, err := loadEnv(opts.envFile, osEnv, opts.serve != "", logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	resolverOpts := []siteurl.Option{
		siteurl.WithEnv(base),
		siteurl.WithLogger(logger),
		siteurl.WithURIFactory(uri.Parser{}),
		siteurl.WithMetrics(metrics.NewResolver(reg, metrics.DefaultNamespace)),
	}
	policy, err := trustPolicy(opts, logger)
	if err != nil {
		return err
	}
	if policy != nil {
		resolverOpts = append(resolverOpts, siteurl.WithTrustPolicy(policy))
	}
	resolver := siteurl.New(resolverOpts...)

	if opts.serve != "" {
		h := newHandler(resolver, reg, opts, logger)
		return serve(ctx, opts.serve, h, logger)
	}

	rep, err := buildReport(resolver, opts.set, opts.path, false)
	if err != nil {
		return err
	}
	return writeReport(stdout, opts.output, rep)
}

// denyForwarded is the policy of a server started without -trust.
const denyForwarded = "false"

// trustPolicy compiles -trust. Without it the server ignores forwarded
// headers and the one-shot report honours them.
func trustPolicy(opts *options, logger *slog.Logger) (*proxytrust.Policy, error) {
	expr := opts.trust
	if expr == "" {
		if opts.serve == "" {
			return nil, nil
		}
		logger.Info("ignoring forwarded headers, pass -trust to honour them")
		expr = denyForwarded
	}
	policy, err := proxytrust.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling trust policy: %w", err)
	}
	return policy, nil
}

// loadEnv returns the base server variables. An explicit file must exist;
// the XDG file is optional. Without a file the CLI reads the process
// environment and the server reads nothing.
func loadEnv(path string, osEnv env.Reader, serving bool, logger *slog.Logger) (env.Reader, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(configFile)
		if err != nil {
			logger.Debug("no server variables file found", slog.String("file", configFile))
			if serving {
				return env.NewMapReader(nil), nil
			}
			return osEnv, nil
		}
		path = found
	}

	vars, err := servervars.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded server variables", slog.String("file", path))
	return vars, nil
}

type report struct {
	Current  string `json:"current" yaml:"current"`
	Site     string `json:"site" yaml:"site"`
	Base     string `json:"base" yaml:"base"`
	PathInfo string `json:"path_info" yaml:"path_info"`
}

// buildReport resolves every URL for overrides. With cached set the current
// URL goes through the resolver cache; site and base URLs never do, since a
// populated cache would hand them the current request path.
func buildReport(r *siteurl.Resolver, overrides servervars.Overrides, path string, cached bool,
	opts ...siteurl.CallOption) (report, error) {
	var (
		rep report
		err error
	)

	currentOpts := opts
	if cached {
		currentOpts = append(slices.Clip(opts), siteurl.Cached())
	}
	current, err := r.CurrentURI(overrides, currentOpts...)
	if err != nil {
		return rep, fmt.Errorf("resolving current URL: %w", err)
	}
	rep.Current = current.String()

	if rep.Site, err = r.SiteURL(path, overrides, opts...); err != nil {
		return rep, fmt.Errorf("resolving site URL: %w", err)
	}
	if rep.Base, err = r.BaseURL(path, overrides, opts...); err != nil {
		return rep, fmt.Errorf("resolving base URL: %w", err)
	}
	rep.PathInfo = r.PathInfo(overrides, opts...)
	return rep, nil
}

func writeReport(w io.Writer, format string, rep report) error {
	if format == "text" {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "current\t%s\n", rep.Current)
		fmt.Fprintf(tw, "site\t%s\n", rep.Site)
		fmt.Fprintf(tw, "base\t%s\n", rep.Base)
		fmt.Fprintf(tw, "path info\t%s\n", rep.PathInfo)
		return tw.Flush()
	}

	b, err := body.NewDefaultRegistry().WithContent(http.Header{}, "application/"+format, rep)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	if format == "json" {
		_, err = io.WriteString(w, "\n")
	}
	return err
}
