package connection

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

func FBApp(ctx context.Context, cfg *Config) (*firebase.App, error) {
	if cfg.FirebaseCreds == "" {
		return nil, fmt.Errorf("environment variable GOOGLE_APPLICATION_CREDENTIALS_1 is not set")
	}

	var fbConfig *firebase.Config
	if cfg.StorageBucket != "" {
		fbConfig = &firebase.Config{StorageBucket: cfg.StorageBucket}
	}
	app, err := firebase.NewApp(ctx, fbConfig, option.WithCredentialsFile(cfg.FirebaseCreds))
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %w", err)
	}
	return app, nil
}

func FBConnection(ctx context.Context, app *firebase.App) (*firestore.Client, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firestore client: %w", err)
	}
	log.Println("Firestore connection successful")
	return client, nil
}

func FBStorageBucket(ctx context.Context, app *firebase.App, name string) (*gcs.BucketHandle, error) {
	if name == "" {
		return nil, fmt.Errorf("environment variable FIREBASE_STORAGE_BUCKET is not set")
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Storage client: %w", err)
	}
	bucket, err := client.Bucket(name)
	if err != nil {
		return nil, fmt.Errorf("error opening bucket %s: %w", name, err)
	}
	if _, err := bucket.Attrs(ctx); err != nil {
		return nil, fmt.Errorf("bucket %s is not reachable: %w", name, err)
	}
	log.Printf("Bucket %s ready", name)
	return bucket, nil
}
