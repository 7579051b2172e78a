package app

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/polestar/storefront/internal/domain"
	"github.com/polestar/storefront/internal/storage"
)

// checkAdmin creates the configured back-office account when it is missing.
// An existing account is never modified.
func (a *Application) checkAdmin(ctx context.Context) error {
	auth := a.appConfig.Auth
	if auth.AdminUsername == "" {
		return nil
	}

	_, err := a.store.GetUserByUsername(ctx, auth.AdminUsername)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return pkgerrors.Wrap(err, "query admin account")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return pkgerrors.Wrap(err, "hash admin password")
	}
	if err := a.store.CreateUser(ctx, &domain.User{
		Username: auth.AdminUsername,
		Password: string(hashedPassword),
		Role:     domain.RoleAdmin,
	}); err != nil {
		return pkgerrors.Wrap(err, "create admin account")
	}
	zap.L().Info("initialized default admin account", zap.String("username", auth.AdminUsername))
	return nil
}

// checkCatalog seeds the default categories and products into an empty catalog.
func (a *Application) checkCatalog(ctx context.Context) error {
	if err := storage.Seed(ctx, a.store); err != nil {
		return pkgerrors.Wrap(err, "seed catalog")
	}
	return nil
}
