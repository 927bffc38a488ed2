package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

func seed(t *testing.T, ctx context.Context, s *Store, ids ...kernel.UserID) {
	t.Helper()
	for _, id := range ids {
		if _, err := s.Profiles().Create(ctx, profile.NewFromIdentity(id, kernel.Email(string(id)+"@example.com"))); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWithinTx_RollsBack(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		seed(t, ctx, s, "alice")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if _, err := s.Profiles().GetByID(ctx, "alice"); !errx.IsCode(err, profile.CodeProfileNotFound) {
		t.Errorf("write survived rollback: %v", err)
	}

	if err := s.WithinTx(ctx, func(ctx context.Context) error {
		seed(t, ctx, s, "bob")
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Profiles().GetByID(ctx, "bob"); err != nil {
		t.Errorf("committed write lost: %v", err)
	}
}

func TestWithinTx_NestedJoinsOuter(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.WithinTx(ctx, func(ctx context.Context) error {
			seed(t, ctx, s, "alice")
			return nil
		}); err != nil {
			t.Fatalf("nested: %v", err)
		}
		return errors.New("outer fails")
	})
	if _, err := s.Profiles().GetByID(ctx, "alice"); err == nil {
		t.Error("inner write committed although the outer transaction failed")
	}
}

func TestWithinTx_RollbackKeepsOutsideWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	seed(t, ctx, s, "provider")
	j := &job.Job{ID: "j1", ProviderID: "provider", Status: job.StatusOpen}
	if err := s.Jobs().Create(ctx, j); err != nil {
		t.Fatal(err)
	}

	err := s.WithinTx(ctx, func(txCtx context.Context) error {
		seed(t, txCtx, s, "inside")
		if err := s.Jobs().IncrementViews(txCtx, "j1"); err != nil {
			return err
		}
		// Concurrent requests write through their own, non-transactional context.
		seed(t, ctx, s, "outside")
		if err := s.Jobs().Create(ctx, &job.Job{ID: "j2", ProviderID: "outside", Status: job.StatusOpen}); err != nil {
			return err
		}
		return errors.New("rejected")
	})
	if err == nil {
		t.Fatal("expected the transaction to fail")
	}

	if _, err := s.Profiles().GetByID(ctx, "outside"); err != nil {
		t.Errorf("outside write erased by rollback: %v", err)
	}
	if _, err := s.Profiles().GetByID(ctx, "inside"); !errx.IsCode(err, profile.CodeProfileNotFound) {
		t.Errorf("transactional write survived rollback: %v", err)
	}
	if _, err := s.Jobs().GetByID(ctx, "j2"); err != nil {
		t.Errorf("outside job erased by rollback: %v", err)
	}
	got, err := s.Jobs().GetByID(ctx, "j1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ViewCount != 0 {
		t.Errorf("view count = %d, want 0 after rollback", got.ViewCount)
	}
}

func TestWithinTx_PanicRollsBack(t *testing.T) {
	s := New()
	ctx := context.Background()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic swallowed")
			}
		}()
		_ = s.WithinTx(ctx, func(ctx context.Context) error {
			seed(t, ctx, s, "alice")
			panic("boom")
		})
	}()
	if _, err := s.Profiles().GetByID(ctx, "alice"); err == nil {
		t.Error("write survived a panic")
	}
}

func TestJobs_ForeignKeys(t *testing.T) {
	s := New()
	ctx := context.Background()
	j := &job.Job{ID: "j1", ProviderID: "ghost", Status: job.StatusOpen}

	if err := s.Jobs().Create(ctx, j); !errors.Is(err, errForeignKey) {
		t.Errorf("job without provider: got %v", err)
	}
	seed(t, ctx, s, "ghost")
	if err := s.Jobs().Create(ctx, j); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SavedJobs().Insert(ctx, &job.SavedJob{ID: "s1", UserID: "ghost", JobID: "nope"}); !errx.IsCode(err, job.CodeJobNotFound) {
		t.Errorf("bookmark of missing job: got %v", err)
	}
}

func TestListingCache_Generations(t *testing.T) {
	c := NewListingCache()
	ctx := context.Background()

	key, _ := c.Key(ctx, "s=open")
	page := kernel.NewPaginated([]job.Listing{{Job: job.Job{ID: "j1"}}}, kernel.PaginationOptions{Page: 1, PageSize: 12}, 1)
	if err := c.Set(ctx, key, page); err != nil {
		t.Fatal(err)
	}

	got, hit, err := c.Get(ctx, key)
	if err != nil || !hit || len(got.Items) != 1 {
		t.Fatalf("Get = (%v, %v, %v)", got, hit, err)
	}
	got.Items[0].IsSaved = true
	again, _, _ := c.Get(ctx, key)
	if again.Items[0].IsSaved {
		t.Error("cached page mutated through a returned copy")
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatal(err)
	}
	next, _ := c.Key(ctx, "s=open")
	if next == key {
		t.Error("key unchanged after invalidate")
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("old generation still served")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after invalidate", c.Len())
	}
}
