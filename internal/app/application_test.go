package app

import (
	"context"
	"testing"
)

func TestApplicationLifecycle(t *testing.T) {
	t.Setenv("UPLOAD_DIR", t.TempDir())

	application, err := New(Stores{}, nil)
	if err != nil {
		t.Fatalf("new application: %v", err)
	}

	ctx := context.Background()
	if err := application.Seed(ctx, "master@example.com", "master-secret"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Seeding twice must not duplicate anything.
	if err := application.Seed(ctx, "master@example.com", "master-secret"); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	packages, err := application.Catalog.Packages(ctx)
	if err != nil {
		t.Fatalf("list packages: %v", err)
	}
	if len(packages) != 4 {
		t.Fatalf("expected 4 seeded packages, got %d", len(packages))
	}

	masters, err := application.Admins.List(ctx, "master")
	if err != nil {
		t.Fatalf("list masters: %v", err)
	}
	if len(masters) != 1 {
		t.Fatalf("expected exactly one master admin, got %d", len(masters))
	}

	if err := application.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := application.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
