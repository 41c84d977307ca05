package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"truthscan/internal/config"
	"truthscan/internal/detect"
	"truthscan/internal/model"
)

// Upload limits per media type.
const (
	maxImageSize = 20 << 20  // 20MB
	maxAudioSize = 100 << 20 // 100MB
	maxVideoSize = 500 << 20 // 500MB
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Server wires the four per-media orchestrators behind the /detect routes.
type Server struct {
	text  *detect.TextService
	image *detect.ImageService
	audio *detect.AudioService
	video *detect.VideoService
}

// NewServer builds the orchestrators from the process configuration.
func NewServer(cfg *config.Config) *Server {
	return &Server{
		text:  detect.NewTextService(cfg),
		image: detect.NewImageService(cfg),
		audio: detect.NewAudioService(cfg),
		video: detect.NewVideoService(cfg),
	}
}

// RegisterRoutes attaches all routes to the gin engine.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/", root)
	r.GET("/health", healthCheck)

	d := r.Group("/detect")
	{
		d.POST("/text", s.detectText)
		d.POST("/image", s.detectImage)
		d.POST("/audio", s.detectAudio)
		d.POST("/video", s.detectVideo)
	}
}

func root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "TruthScan API is running"})
}

type textRequest struct {
	Text string `json:"text"`
}

// detectText handles POST /detect/text.
func (s *Server) detectText(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, s.text.Detect(c.Request.Context(), req.Text))
}

// detectImage handles POST /detect/image.
func (s *Server) detectImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required: "+err.Error())
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		fail(c, http.StatusUnprocessableEntity,
			fmt.Sprintf("Unsupported file type: %s. Allowed: JPG, PNG, WEBP, GIF", contentType))
		return
	}
	if file.Size > maxImageSize {
		fail(c, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 20MB.")
		return
	}

	data, err := readUpload(file)
	if err != nil {
		log.Printf("[Image] failed to read upload: %v", err)
		fail(c, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}

	req := model.DetectionRequest{
		Data:        data,
		Filename:    filenameOr(file.Filename, "image"),
		ContentType: contentType,
	}
	c.JSON(http.StatusOK, s.image.Detect(c.Request.Context(), req))
}

// detectAudio handles POST /detect/audio. Audio MIME types are messy in the
// wild, so the check is lenient: any audio/* plus octet-stream, which is
// sniffed to recover the real type for the provider call.
func (s *Server) detectAudio(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required: "+err.Error())
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "audio/") && contentType != "application/octet-stream" {
		fail(c, http.StatusUnprocessableEntity, "Unsupported file type. Allowed: MP3, WAV, AAC, FLAC")
		return
	}
	if file.Size > maxAudioSize {
		fail(c, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 100MB.")
		return
	}

	data, err := readUpload(file)
	if err != nil {
		log.Printf("[Audio] failed to read upload: %v", err)
		fail(c, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}

	if contentType == "application/octet-stream" {
		if sniffed := mimetype.Detect(data); strings.HasPrefix(sniffed.String(), "audio/") {
			contentType = sniffed.String()
		}
	}

	req := model.DetectionRequest{
		Data:        data,
		Filename:    filenameOr(file.Filename, "audio.wav"),
		ContentType: contentType,
	}
	c.JSON(http.StatusOK, s.audio.Detect(c.Request.Context(), req))
}

// detectVideo handles POST /detect/video.
func (s *Server) detectVideo(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required: "+err.Error())
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") && contentType != "application/octet-stream" {
		fail(c, http.StatusUnprocessableEntity, "Unsupported file type. Allowed: MP4, MOV, WEBM")
		return
	}
	if file.Size > maxVideoSize {
		fail(c, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 500MB.")
		return
	}

	data, err := readUpload(file)
	if err != nil {
		log.Printf("[Video] failed to read upload: %v", err)
		fail(c, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}

	req := model.DetectionRequest{
		Data:        data,
		Filename:    filenameOr(file.Filename, "video.mp4"),
		ContentType: contentType,
	}

	result, err := s.video.Detect(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, detect.ErrNoFrames) {
			fail(c, http.StatusUnprocessableEntity,
				"Could not extract frames from video. Ensure the file is a valid video.")
			return
		}
		log.Printf("[Video] detection failed: %v", err)
		fail(c, http.StatusInternalServerError, "video analysis failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}

func filenameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
