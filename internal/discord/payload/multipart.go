// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package payload

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"go.astrophena.name/courier/internal/discord/attach"
)

// Encode writes a multipart request body for p and files to w and returns
// its content type. The payload goes into the payload_json field and file i
// into files[i].
func Encode(w io.Writer, p *Payload, files []attach.Resolved) (contentType string, err error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	mw := multipart.NewWriter(w)
	if err := mw.WriteField("payload_json", string(b)); err != nil {
		return "", err
	}
	for i, f := range files {
		part, err := mw.CreateFormFile(fmt.Sprintf("files[%d]", i), f.Name)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(part, f.Resource); err != nil {
			return "", fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	return mw.FormDataContentType(), nil
}
