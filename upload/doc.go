// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package upload inspects files received through multipart forms.

	_, fh, err := r.FormFile("avatar")
	if err != nil {
		return err
	}
	ok, err := upload.IsFileType(fh, "png", ".jpg", "image/webp")
	if err != nil {
		return err
	}
	if !ok || upload.ExceedsSize(fh, 2<<20) {
		return httperr.Errorf(http.StatusUnprocessableEntity, "unsupported avatar")
	}

Types containing a slash are compared against the sniffed media type and
may use a trailing wildcard such as "image/*". Other types are compared
against the client file extension, ignoring case and a leading dot.
*/
package upload
