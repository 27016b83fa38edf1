package handlers

import (
	"context"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// uploadImage sends the file to Cloudinary and returns the durable URL. The
// rest of the system only ever sees the returned path.
func uploadImage(ctx context.Context, file multipart.File, folder string) (string, error) {
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return "", err
	}

	result, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder,
		PublicID: uuid.New().String(),
	})
	if err != nil {
		return "", err
	}

	return result.SecureURL, nil
}
