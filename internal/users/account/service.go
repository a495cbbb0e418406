// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/dberr"
	"github.com/taibuivan/yomira-auth/internal/platform/validate"
	"github.com/taibuivan/yomira-auth/pkg/ids"
)

const minAdminPasswordLen = 8

// PasswordHasher produces password hashes for new accounts.
type PasswordHasher interface {
	Hash(plainTextPassword string) (string, error)
}

// Service holds account operations that sit outside the login flow.
type Service struct {
	repository Repository
	hasher     PasswordHasher
	logger     *slog.Logger
}

// NewService constructs the account service.
func NewService(repository Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{repository: repository, hasher: hasher, logger: logger}
}

/*
EnsureAdmin creates an ACTIVE administrator when no account with the given
username exists. An existing account is left untouched whatever its state.

Parameters:
  - context: context.Context
  - username: string
  - password: string (plain text, hashed here)

Returns:
  - bool: true when the account was created
  - error: VALIDATION_ERROR for a malformed username or a weak password,
    hashing or storage failures
*/
func (service *Service) EnsureAdmin(context context.Context, username, password string) (bool, error) {
	validator := &validate.Validator{}
	validator.Username(constants.FieldUsername, username).
		MinLen(constants.FieldPassword, password, minAdminPasswordLen).
		Password(constants.FieldPassword, password)
	if err := validator.Err(); err != nil {
		return false, err
	}

	_, err := service.repository.FindByUsername(context, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return false, err
	}

	hash, err := service.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	admin := &Account{
		ID:           ids.NewUUIDv7(),
		Username:     username,
		PasswordHash: hash,
		Status:       StatusActive,
	}
	if err := service.repository.Create(context, admin, []string{constants.RoleAdmin}); err != nil {
		// Another replica won the race
		if dberr.IsUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}

	service.logger.InfoContext(context, "bootstrap_admin_created", slog.String("username", username))
	return true, nil
}
