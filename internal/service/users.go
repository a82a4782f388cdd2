package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Tiliavir/activity-log/internal/model"
	"github.com/Tiliavir/activity-log/internal/storage"
)

var (
	// ErrUserExists is returned when registering a taken user ID.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidPhoto is returned for profile photos that are not jpg or png.
	ErrInvalidPhoto = errors.New("profile photo must be .jpg, .jpeg or .png")
)

// UserInput is the profile supplied at registration.
type UserInput struct {
	ID       string
	FullName string
	Email    string
}

// Register creates a user. The very first user becomes an admin.
func (s *Service) Register(ctx context.Context, in UserInput) (*model.User, error) {
	in.ID = strings.TrimSpace(in.ID)
	if in.ID == "" {
		return nil, errors.New("user id is required")
	}
	if _, err := s.users.Get(ctx, in.ID); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, in.ID)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	n, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:       in.ID,
		FullName: strings.TrimSpace(in.FullName),
		Email:    strings.TrimSpace(in.Email),
		Role:     model.RoleUser,
		Status:   model.StatusActive,
	}
	if n == 0 || in.ID == s.superAdmin {
		u.Role = model.RoleAdmin
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user", u.ID), zap.String("role", u.Role))
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// RemoveUser deletes a user with all their entries and their photo. Only
// admins may do it, never on themselves or the super admin.
func (s *Service) RemoveUser(ctx context.Context, actor *model.User, id string) error {
	if !s.IsAdmin(actor) {
		return fmt.Errorf("%w: only admins can remove users", ErrForbidden)
	}
	if id == actor.ID {
		return fmt.Errorf("%w: cannot remove yourself", ErrForbidden)
	}
	if s.superAdmin != "" && id == s.superAdmin {
		return fmt.Errorf("%w: cannot remove the super admin", ErrForbidden)
	}
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if u.PhotoPath != "" {
		if err := os.Remove(u.PhotoPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("removing profile photo", zap.String("path", u.PhotoPath), zap.Error(err))
		}
	}
	s.log.Info("user removed", zap.String("user", id), zap.String("by", actor.ID))
	return nil
}

// RequestAdmin flags the actor as wanting the admin role.
func (s *Service) RequestAdmin(ctx context.Context, actor *model.User) error {
	if s.IsAdmin(actor) {
		return fmt.Errorf("%s is already an admin", actor.ID)
	}
	actor.AdminRequested = true
	return s.users.Update(ctx, actor)
}

// ApproveAdmin grants a pending admin request. Only the super admin may.
func (s *Service) ApproveAdmin(ctx context.Context, actor *model.User, id string) (*model.User, error) {
	if !s.isSuperAdmin(actor) {
		return nil, fmt.Errorf("%w: only the super admin approves admin requests", ErrForbidden)
	}
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.AdminRequested {
		return nil, fmt.Errorf("%s has not requested admin rights", id)
	}
	u.Role = model.RoleAdmin
	u.AdminRequested = false
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("admin approved", zap.String("user", id))
	return u, nil
}

// SetPhoto copies the image at src into the photo directory as
// <id>.<ext> and records it on the user.
func (s *Service) SetPhoto(ctx context.Context, actor *model.User, id, src string) (*model.User, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(src), "."))
	switch ext {
	case "jpg", "jpeg", "png":
	default:
		return nil, ErrInvalidPhoto
	}
	if err := s.canModify(actor, id); err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.photoDir == "" {
		return nil, errors.New("no photo directory configured")
	}
	if err := os.MkdirAll(s.photoDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating photo directory: %w", err)
	}

	dst := filepath.Join(s.photoDir, id+"."+ext)
	if err := copyFile(src, dst); err != nil {
		return nil, err
	}
	if u.PhotoPath != "" && u.PhotoPath != dst {
		_ = os.Remove(u.PhotoPath)
	}
	u.PhotoPath = dst
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening photo: %w", err)
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing photo: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("writing photo: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing photo: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing photo: %w", err)
	}
	return nil
}
