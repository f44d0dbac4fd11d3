package main

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// mediaStore is the slice of the media provider the handlers need: put a
// file up, tear an asset down.
type mediaStore interface {
	upload(file multipart.File, folder, publicID string) (string, error)
	destroy(assetURL string) error
}

type cloudinaryMedia struct {
	cld *cloudinary.Cloudinary
}

func newCloudinaryMedia(cld *cloudinary.Cloudinary) *cloudinaryMedia {
	return &cloudinaryMedia{cld: cld}
}

func (m *cloudinaryMedia) upload(file multipart.File, folder, publicID string) (string, error) {
	resp, err := m.cld.Upload.Upload(
		context.Background(),
		file,
		uploader.UploadParams{
			Folder:   folder,
			PublicID: publicID,
		},
	)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, nil
}

func (m *cloudinaryMedia) destroy(assetURL string) error {
	publicID, err := extractPublicIDFromURL(assetURL)
	if err != nil {
		return fmt.Errorf("failed to extract public ID: %w", err)
	}

	_, err = m.cld.Upload.Destroy(context.Background(), uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete asset from Cloudinary: %w", err)
	}

	return nil
}

func extractPublicIDFromURL(assetURL string) (string, error) {
	parsedURL, err := url.Parse(assetURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	pathParts := strings.Split(parsedURL.Path, "/")
	for i, part := range pathParts {
		if part == "upload" && i+1 < len(pathParts) {
			return strings.Join(pathParts[i+1:], "/"), nil
		}
	}

	return "", errors.New("failed to extract public ID from URL")
}

func (app *application) uploadToCloudinary(file multipart.File, folder, publicID string) (string, error) {
	return app.media.upload(file, folder, publicID)
}

func (app *application) deleteFromCloudinary(assetURL string) error {
	return app.media.destroy(assetURL)
}

// deleteReviewMedia destroys every attachment of a review. Failures are
// logged, not surfaced: a dangling asset must not block the delete.
func (app *application) deleteReviewMedia(images, videos []string) {
	for _, u := range append(append([]string{}, images...), videos...) {
		if err := app.deleteFromCloudinary(u); err != nil {
			app.logger.Errorw("error deleting review media", "url", u, "error", err)
		}
	}
}

// uploadReviewMedia uploads the posted files, splitting image from video
// by the part's declared content type, and returns the stored URLs in
// posting order.
func (app *application) uploadReviewMedia(files []*multipart.FileHeader, reviewOwner int64) (images, videos []string, err error) {
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("open file: %w", err)
		}

		publicID := fmt.Sprintf("review_%d_%s", reviewOwner, uuid.New().String())
		assetURL, upErr := app.uploadToCloudinary(file, "reviews", publicID)
		file.Close()
		if upErr != nil {
			return nil, nil, upErr
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if strings.HasPrefix(contentType, "video/") {
			videos = append(videos, assetURL)
		} else {
			images = append(images, assetURL)
		}
	}
	return images, videos, nil
}
