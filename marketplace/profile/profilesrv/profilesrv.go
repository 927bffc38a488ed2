package profilesrv

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/fsx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/Abraxas-365/bitwork/pkg/logx"
	"github.com/google/uuid"
)

// MaxAvatarSize is the largest accepted avatar upload.
const MaxAvatarSize = 5 << 20

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ProfileService provides business operations for profiles and settings
type ProfileService struct {
	profileRepo profile.Repository
	prefsRepo   profile.PreferencesRepository
	fileSystem  fsx.FileSystem

	// known caches IDs already provisioned by this process.
	known sync.Map
}

// NewProfileService creates a new instance of the profile service
func NewProfileService(
	profileRepo profile.Repository,
	prefsRepo profile.PreferencesRepository,
	fileSystem fsx.FileSystem,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		prefsRepo:   prefsRepo,
		fileSystem:  fileSystem,
	}
}

// EnsureProfile creates the profile of a user seen for the first time. It is
// called on every authenticated request and is idempotent.
func (s *ProfileService) EnsureProfile(ctx context.Context, userID kernel.UserID, email kernel.Email) error {
	if _, ok := s.known.Load(userID); ok {
		return nil
	}

	created, err := s.profileRepo.Create(ctx, profile.NewFromIdentity(userID, email))
	if err != nil {
		return errx.Wrap(err, "failed to create profile", errx.TypeInternal)
	}
	if created {
		logx.Infof("created profile %s", userID)
	}

	s.known.Store(userID, struct{}{})
	return nil
}

// GetProfile returns the profile, or nil when it does not exist.
func (s *ProfileService) GetProfile(ctx context.Context, id kernel.UserID) (*profile.Profile, error) {
	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errx.IsCode(err, profile.CodeProfileNotFound) {
			return nil, nil
		}
		return nil, errx.Wrap(err, "failed to get profile", errx.TypeInternal)
	}
	return p, nil
}

// RoleOf returns the stored role of a user, empty when none was chosen.
func (s *ProfileService) RoleOf(ctx context.Context, id kernel.UserID) (kernel.Role, error) {
	p, err := s.GetProfile(ctx, id)
	if err != nil || p == nil {
		return "", err
	}
	return p.Role, nil
}

// UpdateProfile applies a partial update. Only the owner may update.
func (s *ProfileService) UpdateProfile(ctx context.Context, id, actorID kernel.UserID, req profile.UpdateProfileRequest) (*profile.Profile, error) {
	if id != actorID {
		return nil, profile.ErrUnauthorizedUpdate().WithDetail("profile_id", id.String())
	}

	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err, "failed to get profile", errx.TypeInternal)
	}

	if err := p.ApplyUpdate(req); err != nil {
		return nil, err
	}

	if err := s.profileRepo.Update(ctx, p); err != nil {
		return nil, errx.Wrap(err, "failed to update profile", errx.TypeInternal)
	}
	return p, nil
}

// UploadAvatar stores an image and points the profile at it. The previous
// avatar is removed on a best effort basis.
func (s *ProfileService) UploadAvatar(ctx context.Context, id, actorID kernel.UserID, upload profile.AvatarUpload) (*profile.Profile, error) {
	if id != actorID {
		return nil, profile.ErrUnauthorizedUpdate().WithDetail("profile_id", id.String())
	}
	if upload.Size > MaxAvatarSize {
		return nil, profile.ErrAvatarTooLarge().WithDetail("size", upload.Size)
	}

	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return nil, profile.ErrInvalidAvatar().WithDetail("content_type", upload.ContentType)
	}
	if e := strings.ToLower(filepath.Ext(upload.FileName)); e != "" && e != ext && !(ext == ".jpg" && e == ".jpeg") {
		return nil, profile.ErrInvalidAvatar().WithDetail("file_name", upload.FileName)
	}

	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err, "failed to get profile", errx.TypeInternal)
	}

	storagePath := s.fileSystem.Join("avatars", id.String(), uuid.NewString()+ext)
	if err := s.fileSystem.WriteFileStream(ctx, storagePath, upload.Body); err != nil {
		return nil, errx.Wrap(err, "failed to store avatar", errx.TypeExternal)
	}

	previous := p.AvatarURL
	url := s.fileSystem.URL(storagePath)
	p.AvatarURL = &url
	p.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, p); err != nil {
		_ = s.fileSystem.DeleteFile(context.Background(), storagePath)
		return nil, errx.Wrap(err, "failed to update profile", errx.TypeInternal)
	}

	if previous != nil {
		if old, ok := s.storagePath(*previous); ok {
			if err := s.fileSystem.DeleteFile(ctx, old); err != nil {
				logx.Warnf("failed to delete previous avatar %s: %v", old, err)
			}
		}
	}
	return p, nil
}

// storagePath recovers the storage path from an avatar URL written by this
// service.
func (s *ProfileService) storagePath(url string) (string, bool) {
	prefix := s.fileSystem.URL("")
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// GetPreferences returns the stored settings or the defaults.
func (s *ProfileService) GetPreferences(ctx context.Context, userID kernel.UserID) (*profile.Preferences, error) {
	prefs, err := s.prefsRepo.Get(ctx, userID)
	if err != nil {
		if errx.IsCode(err, profile.CodePrefsNotFound) {
			return profile.DefaultPreferences(userID), nil
		}
		return nil, errx.Wrap(err, "failed to get preferences", errx.TypeInternal)
	}
	return prefs, nil
}

func (s *ProfileService) UpdatePreferences(ctx context.Context, userID kernel.UserID, req profile.UpdatePreferencesRequest) (*profile.Preferences, error) {
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := prefs.ApplyUpdate(req); err != nil {
		return nil, err
	}
	if err := s.prefsRepo.Upsert(ctx, prefs); err != nil {
		return nil, errx.Wrap(err, "failed to save preferences", errx.TypeInternal)
	}
	return prefs, nil
}
