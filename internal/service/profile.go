package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/cride-server/internal/logger"
	"github.com/dtroode/cride-server/internal/model"
)

// MaxPictureSize bounds profile picture uploads.
const MaxPictureSize = 5 << 20

// Profile picture validation messages.
const (
	MsgInvalidImage   = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	MsgPictureTooBig  = "Ensure this file is no larger than 5 MB."
	MsgPictureMissing = "No file was submitted."
)

var pictureExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Profile serves the authenticated account's own data.
type Profile struct {
	accountStore model.AccountStore
	profileStore model.ProfileStore
	storage      model.Storage
	logger       *logger.Logger
}

func NewProfile(
	accountStore model.AccountStore,
	profileStore model.ProfileStore,
	storage model.Storage,
	logger *logger.Logger,
) *Profile {
	return &Profile{
		accountStore: accountStore,
		profileStore: profileStore,
		storage:      storage,
		logger:       logger,
	}
}

// Me returns the account and its profile.
func (p *Profile) Me(ctx context.Context, accountID uuid.UUID) (model.Account, model.Profile, error) {
	account, err := p.accountStore.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, model.Profile{}, model.ErrUnauthenticated
		}
		return model.Account{}, model.Profile{}, fmt.Errorf("failed to get account: %w", err)
	}

	profile, err := p.profileStore.GetByAccountID(ctx, accountID)
	if err != nil {
		return model.Account{}, model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	return account, profile, nil
}

// UpdatePicture stores a new profile picture and removes the previous one.
func (p *Profile) UpdatePicture(ctx context.Context, accountID uuid.UUID, upload model.Upload) (model.Profile, error) {
	if upload.Body == nil {
		return model.Profile{}, PictureError(MsgPictureMissing)
	}
	ext, ok := pictureExtensions[upload.ContentType]
	if !ok {
		return model.Profile{}, PictureError(MsgInvalidImage)
	}
	if upload.Size > MaxPictureSize {
		return model.Profile{}, PictureError(MsgPictureTooBig)
	}

	key := fmt.Sprintf("profiles/%s/%s%s", accountID, uuid.NewString(), ext)
	err := p.storage.Upload(ctx, model.Object{
		Key:         key,
		Size:        upload.Size,
		ContentType: upload.ContentType,
		Body:        upload.Body,
	})
	if err != nil {
		p.logger.Error("Profile service: failed to upload picture",
			"account_id", accountID,
			"error", err.Error())
		return model.Profile{}, fmt.Errorf("failed to upload picture: %w", err)
	}

	previous, err := p.profileStore.SetPicture(ctx, accountID, key)
	if err != nil {
		if delErr := p.storage.Delete(ctx, key); delErr != nil {
			p.logger.Warn("Profile service: failed to remove orphaned picture",
				"key", key,
				"error", delErr.Error())
		}
		return model.Profile{}, fmt.Errorf("failed to save picture: %w", err)
	}

	if previous != "" {
		if err := p.storage.Delete(ctx, previous); err != nil {
			p.logger.Warn("Profile service: failed to delete previous picture",
				"key", previous,
				"error", err.Error())
		}
	}

	p.logger.Info("Profile service: picture updated",
		"account_id", accountID,
		"key", key)

	return p.profileStore.GetByAccountID(ctx, accountID)
}

// PictureError reports msg against the picture field.
func PictureError(msg string) *model.ValidationError {
	verr := model.NewValidationError()
	verr.Add("picture", msg)
	return verr
}
