package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"bazaarbondhu/pkg/config"
	"bazaarbondhu/pkg/logger"
)

// Clients bundles the Firebase handles the server needs.
type Clients struct {
	App       *fbapp.App
	Auth      *auth.Client
	Firestore *firestore.Client
}

// credentialOption prefers the inline service account over the file path.
// With neither set, application default credentials are used.
func credentialOption(cfg *config.Config) ([]option.ClientOption, error) {
	if cfg.ServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON))}, nil
	}

	if cfg.ServiceAccountPath != "" {
		if _, err := os.Stat(cfg.ServiceAccountPath); err != nil {
			return nil, fmt.Errorf("service account file %s: %w", cfg.ServiceAccountPath, err)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.ServiceAccountPath)
		return []option.ClientOption{option.WithCredentialsFile(cfg.ServiceAccountPath)}, nil
	}

	logger.Warn("No service account configured, using application default credentials")
	return nil, nil
}

// NewClients initializes the Firebase app. Firestore is only opened when
// withFirestore is set.
func NewClients(ctx context.Context, cfg *config.Config, withFirestore bool) (*Clients, error) {
	opts, err := credentialOption(cfg)
	if err != nil {
		return nil, err
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase Auth: %w", err)
	}

	clients := &Clients{App: app, Auth: authClient}
	if !withFirestore {
		return clients, nil
	}

	clients.Firestore, err = firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return clients, nil
}

func (c *Clients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}

// Ping checks Firestore reachability for the health endpoint.
func (c *Clients) Ping(ctx context.Context) error {
	if c.Firestore == nil {
		return nil
	}
	_, err := c.Firestore.Collection("users").Limit(1).Documents(ctx).GetAll()
	return err
}
