package firebase

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

var App *firebase.App

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFilename removes special characters from filenames and limits length.
func sanitizeFilename(filename string) string {
	sanitized := unsafeChars.ReplaceAllString(filename, "_")

	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}

	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}

	return sanitized
}

func productImagePath(filename string, now time.Time) string {
	return fmt.Sprintf("products/%d_%s", now.Unix(), sanitizeFilename(filename))
}

// applicationFilePath files an upload under the designer's folder, prefixed
// with the form field it was sent in.
func applicationFilePath(folder, field, filename string, now time.Time) string {
	return fmt.Sprintf("applications/%s/%s_%d_%s",
		sanitizeFilename(folder), sanitizeFilename(field), now.Unix(), sanitizeFilename(filename))
}

func publicURL(bucketName, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectPath)
}

func Init() {
	credJSON := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")

	var opts []option.ClientOption

	if credJSON != "" {
		if strings.HasPrefix(credJSON, "{") {
			log.Println("Using Firebase credentials from environment variable")
			opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
		} else {
			log.Println("Using Firebase credentials from file:", credJSON)
			opts = append(opts, option.WithCredentialsFile(credJSON))
		}
	} else {
		log.Println("Warning: GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	}

	app, err := firebase.NewApp(context.Background(), nil, opts...)
	if err != nil {
		log.Fatalf("Firebase init failed: %v", err)
	}

	App = app
	log.Println("Firebase initialized successfully")
}

func bucket(ctx context.Context) (*storage.BucketHandle, string, error) {
	if App == nil {
		return nil, "", fmt.Errorf("firebase app not initialized")
	}

	bucketName := os.Getenv("FIREBASE_STORAGE_BUCKET")
	if bucketName == "" {
		return nil, "", fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}

	client, err := App.Storage(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get storage client: %w", err)
	}

	handle, err := client.Bucket(bucketName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get bucket: %w", err)
	}
	return handle, bucketName, nil
}

// upload writes r to objectPath and returns its public URL.
func upload(ctx context.Context, objectPath string, r io.Reader, contentType string, public bool) (string, error) {
	handle, bucketName, err := bucket(ctx)
	if err != nil {
		return "", err
	}

	obj := handle.Object(objectPath)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return "", err
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	if public {
		if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
			log.Printf("Warning: failed to set public ACL on %s: %v", objectPath, err)
		}
	}

	return publicURL(bucketName, objectPath), nil
}

// UploadProductImage stores a catalog image, readable by anyone.
func UploadProductImage(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	return upload(ctx, productImagePath(filename, time.Now()), file, contentType, true)
}

// UploadApplicationFile stores a designer's document in the folder named
// after their business. The object stays private.
func UploadApplicationFile(ctx context.Context, folder, field string, file io.Reader, filename, contentType string) (string, error) {
	return upload(ctx, applicationFilePath(folder, field, filename, time.Now()), file, contentType, false)
}

// DeleteFile deletes a file from Firebase Storage given its object path
func DeleteFile(ctx context.Context, objectPath string) error {
	handle, bucketName, err := bucket(ctx)
	if err != nil {
		return err
	}

	if err := handle.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectPath, err)
	}

	log.Printf("Deleted file %s from bucket %s", objectPath, bucketName)
	return nil
}
