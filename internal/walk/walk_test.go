package walk

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestList(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(in, "out")
	for _, dir := range []string{out, filepath.Join(in, "nested")} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	touch(t, in, "b.png", "a.jpg", ".DS_Store", "notes")
	touch(t, out, "old.png")

	jobs, err := List(in, out)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []Job{
		{Name: "a.jpg", Input: filepath.Join(in, "a.jpg"), Output: filepath.Join(out, "a.jpg"), MaskOutput: filepath.Join(out, "a.jpg.mask.png")},
		{Name: "b.png", Input: filepath.Join(in, "b.png"), Output: filepath.Join(out, "b.png"), MaskOutput: filepath.Join(out, "b.png.mask.png")},
		{Name: "notes", Input: filepath.Join(in, "notes"), Output: filepath.Join(out, "notes"), MaskOutput: filepath.Join(out, "notes.mask.png")},
	}
	if len(jobs) != len(want) {
		t.Fatalf("got %d jobs want %d: %+v", len(jobs), len(want), jobs)
	}
	for i := range want {
		if jobs[i] != want[i] {
			t.Fatalf("job %d: got %+v want %+v", i, jobs[i], want[i])
		}
	}
}

func TestListPathsAreUnique(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(in, "out")
	touch(t, in, "a.png", "a.jpg", "b.png", "b_mask.png", "b.png.mask.png", "b.png.mask2.png")

	jobs, err := List(in, out)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	owner := map[string]string{}
	claim := func(path, name string) {
		if prev, ok := owner[path]; ok {
			t.Fatalf("%s and %s both write %s", prev, name, filepath.Base(path))
		}
		owner[path] = name
	}
	for _, j := range jobs {
		claim(j.Output, j.Name)
		claim(j.MaskOutput, j.Name)
	}

	for _, j := range jobs {
		if j.Name == "b.png" && j.MaskOutput != filepath.Join(out, "b.png.mask3.png") {
			t.Fatalf("b.png mask: %s", j.MaskOutput)
		}
	}
}

func TestListMissingDir(t *testing.T) {
	if _, err := List(filepath.Join(t.TempDir(), "missing"), "out"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
