package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bazaarbondhu/internal/adapter/cache"
	"bazaarbondhu/internal/adapter/repository"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/infrastructure/firebase"
	"bazaarbondhu/internal/infrastructure/redis"
	"bazaarbondhu/pkg/config"
	"bazaarbondhu/pkg/errors"
	"bazaarbondhu/pkg/logger"
)

func main() {
	email := flag.String("email", "", "Email of the account to update")
	roleFlag := flag.String("role", string(entity.RoleAdmin), "Role to set: user, vendor or admin")
	revoke := flag.Bool("revoke", false, "Revoke the account's refresh tokens so it signs in again")
	flag.Parse()

	if *email == "" {
		fmt.Println("Usage: setadmin -email=someone@example.com [-role=admin] [-revoke]")
		os.Exit(2)
	}

	role, err := entity.ParseRole(*roleFlag)
	if err != nil {
		fmt.Printf("Invalid role %q\n", *roleFlag)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init("bazaarbondhu-setadmin", cfg.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fb, err := firebase.NewClients(ctx, cfg, true)
	if err != nil {
		logger.Error("Failed to initialize Firebase: %v", err)
		os.Exit(1)
	}
	defer fb.Close()

	authClient := firebase.NewFirebaseAuthClient(fb.Auth)
	userRepo := repository.NewFirestoreUserRepository(fb.Firestore)

	user, err := userRepo.GetByEmail(ctx, *email)
	switch {
	case errors.IsNotFound(err):
		// the account signed up but never synced its record
		id, lookupErr := authClient.LookupEmail(ctx, *email)
		if lookupErr != nil {
			logger.Error("No account registered for %s: %v", *email, lookupErr)
			os.Exit(1)
		}
		now := time.Now()
		user = &entity.User{
			ID:          id.UID,
			Email:       id.Email,
			DisplayName: id.DisplayName,
			PhotoURL:    id.PhotoURL,
			Role:        role,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			logger.Error("Failed to create user record: %v", err)
			os.Exit(1)
		}
	case err != nil:
		logger.Error("Lookup failed: %v", err)
		os.Exit(1)
	default:
		if err := userRepo.UpdateRole(ctx, user.ID, role); err != nil {
			logger.Error("Update failed: %v", err)
			os.Exit(1)
		}
	}

	if cfg.RedisAddr != "" {
		redisClient, err := redis.NewClient(ctx, cfg)
		if err != nil {
			logger.Warn("Role cache not invalidated, Redis unreachable: %v", err)
		} else {
			defer redisClient.Close()
			if err := cache.NewRedisRoleCache(redisClient).Delete(ctx, user.Email); err != nil {
				logger.Warn("Role cache not invalidated: %v", err)
			}
		}
	}

	if *revoke {
		if err := authClient.RevokeSessions(ctx, user.ID); err != nil {
			logger.Warn("Failed to revoke sessions: %v", err)
		}
	}

	fmt.Printf("User %s is now %s\n", user.Email, role)
}
