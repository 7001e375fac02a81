package api

import (
	"context"
	"encoding/base64"
	"net/http"
)

// maxUploadFiles is the backend's per-call batch limit.
const maxUploadFiles = 5

// UploadFile is one image to send to POST /upload. Data is the raw
// file contents; encoding happens here.
type UploadFile struct {
	Name string
	Data []byte
}

type uploadFilePayload struct {
	Name   string `json:"name"`
	Base64 string `json:"base64"`
}

type uploadRequest struct {
	Files []uploadFilePayload `json:"files"`
}

type uploadResponse struct {
	Success bool `json:"success"`
	Files   []struct {
		Path string `json:"path"`
	} `json:"files"`
	Message string `json:"message"`
}

// UploadImages sends up to five images as base64 payloads and returns
// the server-side paths to reference from product listings. Extra
// files beyond the batch limit are silently dropped, matching the
// storefront's long-standing behavior.
func (c *Client) UploadImages(ctx context.Context, files []UploadFile) ([]string, error) {
	if len(files) > maxUploadFiles {
		files = files[:maxUploadFiles]
	}
	req := uploadRequest{Files: make([]uploadFilePayload, 0, len(files))}
	for _, f := range files {
		req.Files = append(req.Files, uploadFilePayload{
			Name:   f.Name,
			Base64: base64.StdEncoding.EncodeToString(f.Data),
		})
	}

	var out uploadResponse
	if err := c.do(ctx, http.MethodPost, "/upload", nil, req, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		msg := out.Message
		if msg == "" {
			msg = "upload rejected"
		}
		return nil, &Error{Status: http.StatusOK, Message: msg}
	}
	paths := make([]string, 0, len(out.Files))
	for _, f := range out.Files {
		paths = append(paths, f.Path)
	}
	return paths, nil
}
