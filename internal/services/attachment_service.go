package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type AttachmentService struct {
	cld *cloudinary.Cloudinary
}

func NewAttachmentService() (*AttachmentService, error) {
	// Get Cloudinary configuration from environment
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("missing Cloudinary configuration")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &AttachmentService{cld: cld}, nil
}

// UploadDocumentScan uploads a scan of a vehicle document and returns its URL
func (s *AttachmentService) UploadDocumentScan(file multipart.File, filename string, documentID uint) (string, error) {
	// Validate file type
	allowedTypes := map[string]bool{
		".pdf":  true,
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedTypes[ext] {
		return "", fmt.Errorf("invalid file type: %s. Allowed types: pdf, jpg, jpeg, png, webp", ext)
	}

	// One scan per document; re-uploading replaces the previous one
	publicID := fmt.Sprintf("documents/doc_%d", documentID)

	uploadParams := uploader.UploadParams{
		PublicID:     publicID,
		Folder:       "fleetdocs/documents",
		Overwrite:    &[]bool{true}[0],
		ResourceType: "auto",
	}

	result, err := s.cld.Upload.Upload(context.Background(), file, uploadParams)
	if err != nil {
		return "", fmt.Errorf("failed to upload document scan: %w", err)
	}

	return result.SecureURL, nil
}

// DeleteDocumentScan deletes a previously uploaded scan
func (s *AttachmentService) DeleteDocumentScan(publicID string) error {
	_, err := s.cld.Upload.Destroy(context.Background(), uploader.DestroyParams{
		PublicID: publicID,
	})
	return err
}

// ValidateScanFile validates the uploaded file's size before sending it on
func (s *AttachmentService) ValidateScanFile(file multipart.File, maxSize int64) error {
	// Reset file pointer
	file.Seek(0, 0)

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if int64(len(data)) > maxSize {
		return fmt.Errorf("file too large: %d bytes (max %d bytes)", len(data), maxSize)
	}

	// Reset file pointer for later use
	file.Seek(0, 0)

	return nil
}
