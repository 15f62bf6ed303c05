// handlers.go - HTTP handlers for image upload and caption generation

package api

import (
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/bosocmputer/sar_caption_gemini/internal/ai"
	"github.com/bosocmputer/sar_caption_gemini/internal/common"
	"github.com/bosocmputer/sar_caption_gemini/internal/processor"
	"github.com/gin-gonic/gin"
)

// uploadField is the multipart form field carrying the image
const uploadField = "image"

// Handler serves the caption endpoints
type Handler struct {
	requester *ai.CaptionRequester
}

// NewHandler creates a handler backed by the given requester
func NewHandler(requester *ai.CaptionRequester) *Handler {
	return &Handler{requester: requester}
}

// ImageInfo describes the uploaded image in API responses
type ImageInfo struct {
	Filename  string `json:"filename"`
	MIMEType  string `json:"mime_type"`
	SizeBytes int    `json:"size_bytes"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// CaptionResponse is the JSON body returned by /api/v1/caption
type CaptionResponse struct {
	Status    string     `json:"status"` // "success" or "error"
	Caption   string     `json:"caption,omitempty"`
	Error     string     `json:"error,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
	Provider  string     `json:"provider,omitempty"`
	Model     string     `json:"model,omitempty"`
	Image     *ImageInfo `json:"image,omitempty"`
}

// pageData feeds templates/index.html
type pageData struct {
	Uploaded   bool
	Filename   string
	PreviewURI template.URL
	Success    bool
	Caption    string
	Error      string
	RequestID  string
}

// captionOutcome is the result of processing one upload
type captionOutcome struct {
	reqCtx  *common.RequestContext
	image   ai.Image
	preview *processor.Preview
	caption string
	err     error
}

// uploadError is returned when the request carries no usable upload
type uploadError struct {
	message string
}

func (e *uploadError) Error() string { return e.message }

// IndexHandler renders the empty upload page
func (h *Handler) IndexHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{})
}

// CaptionPageHandler handles form posts from the upload page and renders the
// uploaded image with its caption or the error string.
func (h *Handler) CaptionPageHandler(c *gin.Context) {
	outcome, err := h.readUpload(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "index.html", pageData{Error: err.Error()})
		return
	}

	h.generate(c, outcome)

	data := pageData{
		Uploaded:  true,
		Filename:  outcome.image.Filename,
		RequestID: outcome.reqCtx.RequestID,
	}
	if outcome.preview != nil {
		// Built from our own base64 encoding of a JPEG thumbnail
		data.PreviewURI = template.URL(outcome.preview.DataURI())
	}

	status := http.StatusOK
	if outcome.err != nil {
		data.Error = outcome.err.Error()
		status = http.StatusBadGateway
	} else {
		data.Success = true
		data.Caption = outcome.caption
	}

	c.HTML(status, "index.html", data)
}

// CaptionAPIHandler handles POST requests to /api/v1/caption
func (h *Handler) CaptionAPIHandler(c *gin.Context) {
	outcome, err := h.readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, CaptionResponse{
			Status: "error",
			Error:  err.Error(),
		})
		return
	}

	h.generate(c, outcome)

	info := &ImageInfo{
		Filename:  outcome.image.Filename,
		MIMEType:  outcome.image.MIMEType,
		SizeBytes: len(outcome.image.Data),
	}
	if outcome.preview != nil {
		info.Width = outcome.preview.Width
		info.Height = outcome.preview.Height
	}

	if outcome.err != nil {
		c.JSON(http.StatusBadGateway, CaptionResponse{
			Status:    "error",
			Error:     outcome.err.Error(),
			RequestID: outcome.reqCtx.RequestID,
			Provider:  h.requester.ProviderName(),
			Model:     h.requester.ModelName(),
			Image:     info,
		})
		return
	}

	c.JSON(http.StatusOK, CaptionResponse{
		Status:    "success",
		Caption:   outcome.caption,
		RequestID: outcome.reqCtx.RequestID,
		Provider:  h.requester.ProviderName(),
		Model:     h.requester.ModelName(),
		Image:     info,
	})
}

// readUpload pulls the image out of the multipart form. Only the file type
// is checked; size and content go to the model untouched.
func (h *Handler) readUpload(c *gin.Context) (*captionOutcome, error) {
	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		return nil, &uploadError{message: fmt.Sprintf("%s file is required", uploadField)}
	}

	if !processor.IsSupportedImage(fileHeader.Filename) {
		return nil, &uploadError{message: fmt.Sprintf("unsupported file type: %s (supported: jpg, jpeg, png)", fileHeader.Filename)}
	}

	reqCtx := common.NewRequestContext(h.requester.ProviderName())

	reqCtx.StartStep("read_upload")
	file, err := fileHeader.Open()
	if err != nil {
		reqCtx.EndStep("failed", err)
		return nil, &uploadError{message: fmt.Sprintf("failed to open upload: %v", err)}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		reqCtx.EndStep("failed", err)
		return nil, &uploadError{message: fmt.Sprintf("failed to read upload: %v", err)}
	}
	reqCtx.EndStep("success", nil)

	image := ai.Image{
		Filename: fileHeader.Filename,
		MIMEType: processor.DetectMIMEType(data, fileHeader.Filename, fileHeader.Header.Get("Content-Type")),
		Data:     data,
	}
	reqCtx.LogInfo("📄 %s | %s | %s", image.Filename, image.MIMEType, common.FormatBytes(len(data)))

	return &captionOutcome{reqCtx: reqCtx, image: image}, nil
}

// generate builds the display preview and asks the requester for a caption
func (h *Handler) generate(c *gin.Context, outcome *captionOutcome) {
	reqCtx := outcome.reqCtx

	reqCtx.StartStep("build_preview")
	preview, err := processor.BuildPreview(outcome.image.Data)
	if err != nil {
		reqCtx.LogWarning("Preview unavailable: %v", err)
		reqCtx.EndStep("skipped", nil)
	} else {
		outcome.preview = preview
		reqCtx.EndStep("success", nil)
	}

	reqCtx.StartStep("generate_caption")
	ctx := common.WithRequestContext(c.Request.Context(), reqCtx)
	outcome.caption, outcome.err = h.requester.Generate(ctx, outcome.image)
	if outcome.err != nil {
		reqCtx.EndStep("failed", outcome.err)
	} else {
		reqCtx.LogInfo("📝 Caption: %s", outcome.caption)
		reqCtx.EndStep("success", nil)
	}

	reqCtx.GetSummary()
}
