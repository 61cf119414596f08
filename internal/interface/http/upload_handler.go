package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/pkg/response"
)

// UploadHandler stores single files on local disk; they are served under /uploads.
type UploadHandler struct {
	Dir    string
	Logger *logrus.Logger
}

func NewUploadHandler(dir string, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{Dir: dir, Logger: logger}
}

var uploadExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// uploadName is "<unix millis>-<8 random hex><ext>"; unknown extensions
// become ".jpg". The suffix keeps uploads in the same millisecond apart.
func uploadName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	if !uploadExts[ext] {
		ext = ".jpg"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), suffix, ext)
}

func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "No file uploaded", map[string]string{"image": "is required"})
		return
	}
	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		writeError(c, h.Logger, err, "")
		return
	}

	name := uploadName(fh.Filename, time.Now())
	if err := c.SaveUploadedFile(fh, filepath.Join(h.Dir, name)); err != nil {
		writeError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusCreated, "/uploads/"+name, "file uploaded", nil)
}
