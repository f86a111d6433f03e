package apiclient

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"

	"sportspace-admin/internal/model"
)

// encodeSpaceForm builds the multipart body for space creation: a "data"
// JSON part plus an optional "image" file part.
func encodeSpaceForm(req model.CreateSpaceRequest, image io.Reader, imageName string) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	data, err := json.Marshal(req)
	if err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("data", string(data)); err != nil {
		return nil, "", err
	}

	if image != nil {
		if imageName == "" {
			imageName = "image"
		}
		part, err := writer.CreateFormFile("image", imageName)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, image); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}
