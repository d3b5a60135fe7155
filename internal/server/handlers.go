package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ai_text_detector/internal/aidetect"
	"ai_text_detector/internal/humanize"
	"ai_text_detector/internal/ingest"
	"ai_text_detector/internal/logging"
	"ai_text_detector/internal/workspace"
)

type TextRequest struct {
	Text *string `json:"text"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

const (
	msgInvalidBody    = "Invalid request body"
	msgMissingFile    = "No file uploaded"
	msgExtractFailure = "Failed to extract text from document"
	msgTooLarge       = "File too large"
	msgUploadFailure  = "Failed to store upload"
)

// bindText decodes {"text": ...}. A missing or non-string field is a 422.
func bindText(c *gin.Context) (string, bool) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: msgInvalidBody, Detail: err.Error()})
		return "", false
	}
	if req.Text == nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: msgInvalidBody, Detail: "field 'text' is required"})
		return "", false
	}
	return *req.Text, true
}

// handleDetect godoc
// @Summary      Classify text as AI-generated or human-written
// @Tags         Detector
// @Accept       json
// @Produce      json
// @Param        request  body      TextRequest  true  "Text to analyze"
// @Success      200      {object}  aidetect.Response  "Detection result, or an error message for empty input or failed analysis"
// @Failure      422      {object}  ErrorResponse      "Missing or malformed body"
// @Router       /api/detect [post]
func (s *Server) handleDetect(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	s.detect(c, text)
}

// detect runs the detector and renders its result. Empty input and a run with
// no successful chunk are reported in the body with 200.
func (s *Server) detect(c *gin.Context, text string) {
	resp, err := s.detector.Detect(c.Request.Context(), text)
	switch {
	case errors.Is(err, aidetect.ErrEmptyInput):
		c.JSON(http.StatusOK, ErrorResponse{Error: aidetect.MsgEmptyText})
	case errors.Is(err, aidetect.ErrClassificationFailed):
		c.JSON(http.StatusOK, ErrorResponse{Error: aidetect.MsgAnalyzeFailure})
	case err != nil:
		logging.FromContext(c, s.logger).Error("detect failed", zap.Error(err))
		c.JSON(http.StatusOK, ErrorResponse{Error: aidetect.MsgAnalyzeFailure})
	default:
		c.JSON(http.StatusOK, resp)
	}
}

// handleUpload godoc
// @Summary      Extract text from a .txt, .pdf or .docx upload and classify it
// @Tags         Upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Document to analyze"
// @Success      200   {object}  aidetect.Response  "Detection result, or an error message for unsupported formats"
// @Failure      413   {object}  ErrorResponse      "Upload too large"
// @Failure      422   {object}  ErrorResponse      "Missing file or extraction failure"
// @Router       /api/upload [post]
func (s *Server) handleUpload(c *gin.Context) {
	log := logging.FromContext(c, s.logger)

	path, err := s.receiveFile(c)
	switch {
	case errors.Is(err, errNoFile):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: msgMissingFile, Detail: "multipart field 'file' is required"})
		return
	case errors.Is(err, workspace.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: msgTooLarge, Detail: err.Error()})
		return
	case err != nil:
		log.Warn("upload rejected", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: msgUploadFailure, Detail: err.Error()})
		return
	}
	defer func() {
		if err := s.uploads.Delete(path); err != nil {
			log.Warn("delete upload", zap.String("path", path), zap.Error(err))
		}
	}()

	ext, err := ingest.Extract(path)
	if err != nil {
		log.Warn("extraction failed", zap.String("format", ext.Format), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: msgExtractFailure, Detail: err.Error()})
		return
	}
	if !ext.Supported {
		log.Info("unsupported upload format", zap.String("format", ext.Format), zap.Strings("supported", ingest.SupportedFormats()))
		c.JSON(http.StatusOK, ErrorResponse{Error: aidetect.MsgEmptyText, Detail: "unsupported file format: " + ext.Format})
		return
	}
	s.detect(c, ext.Text)
}

var errNoFile = errors.New("no file part")

// receiveFile streams the first "file" part of a multipart body into the
// upload directory.
func (s *Server) receiveFile(c *gin.Context) (string, error) {
	mr, err := c.Request.MultipartReader()
	if err != nil {
		return "", errNoFile
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return "", errNoFile
		}
		if err != nil {
			return "", err
		}
		if part.FormName() != "file" || part.FileName() == "" {
			_ = part.Close()
			continue
		}
		return saveAndClose(s.uploads, part)
	}
}

func saveAndClose(u *workspace.Uploads, part *multipart.Part) (string, error) {
	defer part.Close()
	return u.Save(part.FileName(), part)
}

// handleHumanize godoc
// @Summary      Paraphrase text so it reads more naturally
// @Tags         Humanizer
// @Accept       json
// @Produce      json
// @Param        request  body      TextRequest  true  "Text to rewrite"
// @Success      200      {object}  humanize.Result  "Rewritten text"
// @Failure      422      {object}  ErrorResponse    "Missing or malformed body"
// @Failure      500      {object}  DetailResponse   "Backend failure"
// @Router       /api/humanize [post]
func (s *Server) handleHumanize(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	res, err := s.humanizer.Humanize(c.Request.Context(), text)
	switch {
	case errors.Is(err, humanize.ErrEmptyInput):
		c.JSON(http.StatusOK, ErrorResponse{Error: aidetect.MsgEmptyText})
	case err != nil:
		logging.FromContext(c, s.logger).Error("humanize failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, DetailResponse{Detail: err.Error()})
	default:
		c.JSON(http.StatusOK, res)
	}
}
