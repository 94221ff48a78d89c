// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
)

// sniffLen is the number of bytes http.DetectContentType considers.
const sniffLen = 512

const octetStream = "application/octet-stream"

// ClientExt returns the extension of the client supplied file name without
// the dot, or "" when the name has none.
func ClientExt(fh *multipart.FileHeader) string {
	ext := path.Ext(fh.Filename)
	return strings.TrimPrefix(ext, ".")
}

// MediaType returns the media type of the uploaded content without
// parameters. The content is sniffed; when sniffing is inconclusive the
// type declared by the client is used.
func MediaType(fh *multipart.FileHeader) (string, error) {
	declared := declaredType(fh)

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading upload %q: %w", fh.Filename, err)
	}
	if n == 0 && declared != "" {
		return declared, nil
	}

	sniffed := baseType(http.DetectContentType(buf[:n]))
	if sniffed == octetStream && declared != "" {
		return declared, nil
	}
	return sniffed, nil
}

// IsFileType reports whether fh matches any of types. An empty types list
// matches nothing.
func IsFileType(fh *multipart.FileHeader, types ...string) (bool, error) {
	var exts, media []string
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if strings.Contains(t, "/") {
			media = append(media, t)
		} else if t != "" {
			exts = append(exts, strings.TrimPrefix(t, "."))
		}
	}

	if len(exts) > 0 {
		ext := strings.ToLower(ClientExt(fh))
		for _, e := range exts {
			if e == ext {
				return true, nil
			}
		}
	}

	if len(media) == 0 {
		return false, nil
	}
	mt, err := MediaType(fh)
	if err != nil {
		return false, err
	}
	for _, m := range media {
		if matchMediaType(m, mt) {
			return true, nil
		}
	}
	return false, nil
}

// ExceedsSize reports whether the upload is larger than maxSize bytes.
func ExceedsSize(fh *multipart.FileHeader, maxSize int64) bool {
	return fh.Size > maxSize
}

func declaredType(fh *multipart.FileHeader) string {
	if fh.Header == nil {
		return ""
	}
	return baseType(fh.Header.Get("Content-Type"))
}

func baseType(ct string) string {
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mt, _, _ = strings.Cut(ct, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

func matchMediaType(pattern, mt string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return strings.HasPrefix(mt, prefix+"/")
	}
	return pattern == mt
}
