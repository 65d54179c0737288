package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"minidrive-api/internal/application/ports"
	"minidrive-api/internal/application/services"
	domain "minidrive-api/internal/domain/file"
	"minidrive-api/internal/interface/api/rest/dto/file"
	"minidrive-api/internal/interface/api/rest/middleware"
	"minidrive-api/internal/interface/api/rest/validator"
)

// room for multipart boundaries and part headers
const multipartOverhead = int64(1 << 20)

type FileController struct {
	fileService ports.FileService
	logger      *zap.Logger
}

func NewFileController(
	r gin.IRouter,
	fileService ports.FileService,
	logger *zap.Logger,
	authMiddleware gin.HandlerFunc,
	maxUploadBytes int64,
) *FileController {
	fc := &FileController{
		fileService: fileService,
		logger:      logger,
	}

	r.POST(RouteFiles, authMiddleware, middleware.BodySizeLimiter(maxUploadBytes+multipartOverhead), fc.UploadFileHandler)
	r.GET(RouteFiles, authMiddleware, fc.GetFilesHandler)
	r.GET(RouteFileContent, authMiddleware, fc.GetFileContentHandler)
	r.DELETE(RouteFile, authMiddleware, fc.DeleteFileHandler)

	return fc
}

func (fc *FileController) UploadFileHandler(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	src, err := fh.Open()
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to read upload"},
		)
		fc.logger.Error("FileHeader.Open() error", zap.Error(err))
		return
	}
	defer src.Close()

	f, err := fc.fileService.Upload(c.Request.Context(), identity, domain.Upload{
		OriginalName: fh.Filename,
		MediaType:    fh.Header.Get("Content-Type"),
		Size:         fh.Size,
		Body:         src,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedMediaType):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{
				"error":   "unsupported media type",
				"allowed": domain.AllowedMediaTypes(),
			})
		case errors.Is(err, domain.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		case errors.Is(err, domain.ErrEmptyFile):
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty"})
		case errors.Is(err, services.ErrOwnerNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		default:
			c.JSON(
				http.StatusInternalServerError,
				gin.H{"error": "failed to upload a file"},
			)
			fc.logger.Error("Upload() error", zap.Error(err), zap.Stringer("user_uuid", identity.UserID))
		}
		return
	}

	c.JSON(http.StatusCreated, file.ToResponseFile(*f, RouteFileContent))
}

func (fc *FileController) GetFilesHandler(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	files, err := fc.fileService.List(c.Request.Context(), identity)
	if err != nil {
		if errors.Is(err, services.ErrOwnerNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get files"},
		)
		fc.logger.Error("List() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, file.ResponseData{
		Data: file.ToResponseFiles(files, RouteFileContent),
	})
}

func (fc *FileController) GetFileContentHandler(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	ok, id := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	f, rc, err := fc.fileService.Open(c.Request.Context(), identity, middleware.IsAdmin(c), id)
	if err != nil {
		fc.writeAccessError(c, "Open()", err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, f.SizeBytes, f.MediaType, rc, map[string]string{
		"Content-Disposition": file.ContentDisposition(c.Query("disposition"), f.OriginalName),
		"Cache-Control":       "private, no-store",
	})
}

func (fc *FileController) DeleteFileHandler(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	ok, id := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	if err := fc.fileService.Delete(c.Request.Context(), identity, middleware.IsAdmin(c), id); err != nil {
		fc.writeAccessError(c, "Delete()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (fc *FileController) writeAccessError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrFileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, services.ErrOwnerNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
	default:
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "internal error"},
		)
		fc.logger.Error(op+" error", zap.Error(err))
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
