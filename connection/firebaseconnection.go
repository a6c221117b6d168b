package connection

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"

	"kalender/config"
)

func FBConnection(ctx context.Context, cfg config.StoreConfig) (*firestore.Client, error) {
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("environment variable GOOGLE_APPLICATION_CREDENTIALS is not set")
	}

	var fbConfig *firebase.Config
	if cfg.FirestoreProject != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.FirestoreProject}
	}

	// Initialize Firebase app with Firestore
	app, err := firebase.NewApp(ctx, fbConfig, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firestore client: %w", err)
	}
	return client, nil
}
