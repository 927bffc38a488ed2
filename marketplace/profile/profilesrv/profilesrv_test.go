package profilesrv_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Abraxas-365/bitwork/internal/memstore"
	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/marketplace/profile/profilesrv"
	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/fsx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

func setup(t *testing.T) (*profilesrv.ProfileService, *fsx.MemFS) {
	t.Helper()
	store := memstore.New()
	files := fsx.NewMemFS("/files")
	s := profilesrv.NewProfileService(store.Profiles(), store.Preferences(), files)
	if err := s.EnsureProfile(context.Background(), "alice", "alice@example.com"); err != nil {
		t.Fatal(err)
	}
	return s, files
}

func TestEnsureProfile(t *testing.T) {
	s, _ := setup(t)
	ctx := context.Background()

	// A second call with a different email must not overwrite the row.
	if err := s.EnsureProfile(ctx, "alice", "changed@example.com"); err != nil {
		t.Fatal(err)
	}
	p, err := s.GetProfile(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if p.Email != "alice@example.com" {
		t.Errorf("email = %s", p.Email)
	}
	if p.FullName == nil || *p.FullName != "alice" {
		t.Errorf("default name = %v", p.FullName)
	}

	missing, err := s.GetProfile(ctx, "nobody")
	if err != nil || missing != nil {
		t.Errorf("missing = (%v, %v), want (nil, nil)", missing, err)
	}
	if role, err := s.RoleOf(ctx, "nobody"); err != nil || role != "" {
		t.Errorf("RoleOf(nobody) = (%q, %v)", role, err)
	}
}

func TestUpdateProfile(t *testing.T) {
	s, _ := setup(t)
	ctx := context.Background()
	role := "provider"

	if _, err := s.UpdateProfile(ctx, "alice", "bob", profile.UpdateProfileRequest{Role: &role}); !errx.IsCode(err, profile.CodeUnauthorizedUpdate) {
		t.Errorf("foreign update: got %v", err)
	}
	bad := "admin"
	if _, err := s.UpdateProfile(ctx, "alice", "alice", profile.UpdateProfileRequest{Role: &bad}); !errx.IsCode(err, profile.CodeInvalidRole) {
		t.Errorf("bad role: got %v", err)
	}

	skills := []string{"Plumbing", "plumbing", " Tiling "}
	p, err := s.UpdateProfile(ctx, "alice", "alice", profile.UpdateProfileRequest{Role: &role, Skills: &skills})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if p.Role != kernel.RoleProvider || len(p.Skills) != 2 {
		t.Errorf("profile = %+v", p)
	}
	if got, _ := s.RoleOf(ctx, "alice"); got != kernel.RoleProvider {
		t.Errorf("RoleOf = %s", got)
	}
}

func TestUploadAvatar(t *testing.T) {
	s, files := setup(t)
	ctx := context.Background()
	upload := func(name, contentType, body string) (*profile.Profile, error) {
		return s.UploadAvatar(ctx, "alice", "alice", profile.AvatarUpload{
			FileName:    name,
			ContentType: contentType,
			Size:        int64(len(body)),
			Body:        strings.NewReader(body),
		})
	}

	if _, err := upload("me.pdf", "application/pdf", "x"); !errx.IsCode(err, profile.CodeInvalidAvatar) {
		t.Errorf("pdf: got %v", err)
	}
	if _, err := upload("me.png", "image/jpeg", "x"); !errx.IsCode(err, profile.CodeInvalidAvatar) {
		t.Errorf("mismatched extension: got %v", err)
	}
	_, err := s.UploadAvatar(ctx, "alice", "alice", profile.AvatarUpload{
		FileName: "big.png", ContentType: "image/png", Size: profilesrv.MaxAvatarSize + 1, Body: strings.NewReader(""),
	})
	if !errx.IsCode(err, profile.CodeAvatarTooLarge) {
		t.Errorf("oversized: got %v", err)
	}

	first, err := upload("me.jpeg", "image/jpeg", "first")
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	firstURL := *first.AvatarURL
	if !strings.HasPrefix(firstURL, "/files/avatars/alice/") || !strings.HasSuffix(firstURL, ".jpg") {
		t.Errorf("avatar url = %s", firstURL)
	}
	firstPath := strings.TrimPrefix(firstURL, "/files/")
	if data, err := files.ReadFile(ctx, firstPath); err != nil || string(data) != "first" {
		t.Fatalf("stored avatar = (%q, %v)", data, err)
	}

	second, err := upload("me.png", "image/png", "second")
	if err != nil {
		t.Fatal(err)
	}
	if *second.AvatarURL == firstURL {
		t.Error("avatar url not replaced")
	}
	if _, err := files.ReadFile(ctx, firstPath); err != fsx.ErrNotExist {
		t.Errorf("previous avatar not removed: %v", err)
	}

	if _, err := s.UploadAvatar(ctx, "alice", "bob", profile.AvatarUpload{ContentType: "image/png", Body: strings.NewReader("")}); !errx.IsCode(err, profile.CodeUnauthorizedUpdate) {
		t.Errorf("foreign upload: got %v", err)
	}
}

func TestPreferences(t *testing.T) {
	s, _ := setup(t)
	ctx := context.Background()

	prefs, err := s.GetPreferences(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if !prefs.EmailNotifications || !prefs.PushNotifications || prefs.Theme != profile.ThemeSystem {
		t.Errorf("defaults = %+v", prefs)
	}

	neon := "neon"
	if _, err := s.UpdatePreferences(ctx, "alice", profile.UpdatePreferencesRequest{Theme: &neon}); !errx.IsCode(err, profile.CodeInvalidTheme) {
		t.Errorf("bad theme: got %v", err)
	}

	dark, off := profile.ThemeDark, false
	if _, err := s.UpdatePreferences(ctx, "alice", profile.UpdatePreferencesRequest{Theme: &dark, EmailNotifications: &off}); err != nil {
		t.Fatal(err)
	}
	stored, err := s.GetPreferences(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Theme != profile.ThemeDark || stored.EmailNotifications || !stored.PushNotifications {
		t.Errorf("stored = %+v", stored)
	}
}
