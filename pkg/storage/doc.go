// Package storage publishes built sites to S3-compatible object storage.
//
// Create a client and upload a build directory:
//
//	store, err := storage.New(storage.Config{
//		Bucket:    "www.example.com",
//		AccessKey: os.Getenv("S3_ACCESS_KEY"),
//		SecretKey: os.Getenv("S3_SECRET_KEY"),
//	})
//	if err != nil {
//		return err
//	}
//
//	files, err := storage.Publish(ctx, store, "public",
//		storage.WithPrefix("v2"),
//		storage.WithDefaultCacheControl("public, max-age=300"),
//	)
//
// Object keys are the slash separated paths relative to the published
// directory. Content-Type is derived from the key's extension.
//
// Memory implements Storage in process for dry runs and tests.
//
// # Errors
//
// S3 failures are mapped onto sentinel errors (ErrNotFound,
// ErrAccessDenied, ErrUploadFailed and so on); match them with errors.Is.
package storage
