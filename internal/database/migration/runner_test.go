package migration

import (
	"testing"
	"testing/fstest"

	"peer-match/migrations"
)

func TestLoad_OrdersByVersionAndSkipsOtherFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"V10__later.sql":  {Data: []byte("SELECT 10;")},
		"V2__second.sql":  {Data: []byte("SELECT 2;")},
		"V1__first.sql":   {Data: []byte("  SELECT 1;  \n")},
		"README.md":       {Data: []byte("not a migration")},
		"V3_bad_name.sql": {Data: []byte("SELECT 3;")},
	}

	migs, err := Load(fsys)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migs))
	}
	want := []int64{1, 2, 10}
	for i, m := range migs {
		if m.Version != want[i] {
			t.Fatalf("idx=%d: expected version %d, got %d", i, want[i], m.Version)
		}
	}
	if migs[0].SQL != "SELECT 1;" {
		t.Fatalf("expected trimmed SQL, got %q", migs[0].SQL)
	}
	if migs[0].Checksum == "" {
		t.Fatalf("expected checksum")
	}
}

func TestLoad_RejectsDuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"V1__a.sql": {Data: []byte("SELECT 1;")},
		"V1__b.sql": {Data: []byte("SELECT 2;")},
	}
	if _, err := Load(fsys); err == nil {
		t.Fatalf("expected duplicate version error")
	}
}

func TestLoad_RejectsEmptyFile(t *testing.T) {
	fsys := fstest.MapFS{
		"V1__empty.sql": {Data: []byte("   \n")},
	}
	if _, err := Load(fsys); err == nil {
		t.Fatalf("expected empty file error")
	}
}

func TestLoad_EmbeddedSchema(t *testing.T) {
	migs, err := Load(migrations.FS)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) < 2 {
		t.Fatalf("expected embedded migrations, got %d", len(migs))
	}
	if migs[len(migs)-1].Name != "connections" {
		t.Fatalf("expected last migration to be connections, got %s", migs[len(migs)-1].Name)
	}
}
