package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"strings"
	"sync"

	gcs "cloud.google.com/go/storage"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Uploader stores a file under objectPath and returns the URL clients use
// to download it.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// FirebaseUploader writes to a Firebase Storage bucket and returns a
// token download URL, the same kind of URL the mobile SDK hands out.
type FirebaseUploader struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

func NewFirebaseUploader(bucket *gcs.BucketHandle, bucketName string) *FirebaseUploader {
	return &FirebaseUploader{bucket: bucket, bucketName: bucketName}
}

func (u *FirebaseUploader) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	token := uuid.NewString()

	writer := u.bucket.Object(objectPath).NewWriter(ctx)
	writer.ContentType = contentType
	writer.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}

	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		return "", fmt.Errorf("copy %s to storage: %w", objectPath, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close writer for %s: %w", objectPath, err)
	}

	downloadURL := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		u.bucketName, url.PathEscape(objectPath), token)
	log.Printf("File uploaded successfully: %s", objectPath)
	return downloadURL, nil
}

// CloudinaryUploader uses the object path, minus its extension, as the
// public ID.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudinaryURL string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	publicID := strings.TrimSuffix(objectPath, path.Ext(objectPath))
	overwrite := true
	res, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:  publicID,
		Overwrite: &overwrite,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload %s: %w", objectPath, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload %s: %s", objectPath, res.Error.Message)
	}
	log.Printf("File uploaded successfully: %s", res.SecureURL)
	return res.SecureURL, nil
}

// MemUploader keeps uploads in memory and serves fake URLs.
type MemUploader struct {
	mu      sync.Mutex
	Objects map[string][]byte
	// Fail makes every upload return this error when set.
	Fail error
}

func NewMemUploader() *MemUploader {
	return &MemUploader{Objects: make(map[string][]byte)}
}

func (u *MemUploader) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if u.Fail != nil {
		return "", u.Fail
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.mu.Lock()
	u.Objects[objectPath] = b
	u.mu.Unlock()
	return "mem://" + objectPath, nil
}

func (u *MemUploader) Has(objectPath string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.Objects[objectPath]
	return ok
}

// File is an uploaded file as received from a multipart form.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}
