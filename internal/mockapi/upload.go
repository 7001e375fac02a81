package mockapi

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
)

// UploadHandler accepts base64 image payloads and hands back paths.
// Nothing is written to disk; the paths only need to be stable
// references for product records.
type UploadHandler struct{}

// ----- DTOs -----

type uploadReq struct {
	Files []struct {
		Name   string `json:"name"`
		Base64 string `json:"base64"`
	} `json:"files"`
}

type uploadedFile struct {
	Path string `json:"path"`
}

// maxUploadFiles matches the production API's per-call batch limit.
const maxUploadFiles = 5

func (h *UploadHandler) Upload(c echo.Context) error {
	var req uploadReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Body tidak valid"})
	}
	if len(req.Files) > maxUploadFiles {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Maksimal 5 file per unggahan"})
	}
	files := make([]uploadedFile, 0, len(req.Files))
	for i, f := range req.Files {
		if _, err := base64.StdEncoding.DecodeString(f.Base64); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "File tidak valid"})
		}
		files = append(files, uploadedFile{Path: fmt.Sprintf("/uploads/%d-%s", i+1, path.Base(f.Name))})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "files": files})
}
