package dispatch

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"imgsorter/internal/tree"
)

func TestWriteCopyPass(t *testing.T) {
	cfg := dryRunConfig()
	cfg.DryRun = false
	cfg.CopyNotMove = true
	d, afs, st, out := testDispatcher(cfg)

	tr := tree.New()
	tr.Insert(addSource(t, afs, mediaFile("a.jpg", "2019.01.28", "")))
	d.Run(tr)

	content, err := afero.ReadFile(afs, "/target/2019.01.28/a.jpg")
	if err != nil {
		t.Fatalf("target file missing: %v", err)
	}
	if string(content) != "data" {
		t.Errorf("target content = %q", content)
	}
	if exists, _ := afero.Exists(afs, "/src/a.jpg"); !exists {
		t.Error("copy must keep the source")
	}
	if st.ImgCopied != 1 || st.ImgMoved != 0 {
		t.Errorf("copied/moved = %d/%d, want 1/0", st.ImgCopied, st.ImgMoved)
	}
	if st.DateDirsCreated != 1 {
		t.Errorf("DateDirsCreated = %d, want 1", st.DateDirsCreated)
	}
	if !strings.Contains(out.String(), "Starting to copy files...") {
		t.Errorf("missing pass header:\n%s", out.String())
	}
}

func TestWriteMovePass(t *testing.T) {
	cfg := dryRunConfig()
	cfg.DryRun = false
	cfg.CopyNotMove = false
	d, afs, st, out := testDispatcher(cfg)

	tr := tree.New()
	tr.Insert(addSource(t, afs, mediaFile("a.jpg", "2019.01.28", "")))
	d.Run(tr)

	if exists, _ := afero.Exists(afs, "/target/2019.01.28/a.jpg"); !exists {
		t.Error("target file missing after move")
	}
	if exists, _ := afero.Exists(afs, "/src/a.jpg"); exists {
		t.Error("move must remove the source")
	}
	if st.ImgMoved != 1 {
		t.Errorf("ImgMoved = %d, want 1", st.ImgMoved)
	}
	if !strings.Contains(out.String(), "ok (source file removed)") {
		t.Errorf("missing move status:\n%s", out.String())
	}
}

func TestWriteSkipsExistingTarget(t *testing.T) {
	cfg := dryRunConfig()
	cfg.DryRun = false
	d, afs, st, out := testDispatcher(cfg)

	f := addSource(t, afs, mediaFile("a.jpg", "2019.01.28", ""))
	if err := afero.WriteFile(afs, "/target/2019.01.28/a.jpg", []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	tr := tree.New()
	tr.Insert(f)
	d.Run(tr)

	content, _ := afero.ReadFile(afs, "/target/2019.01.28/a.jpg")
	if string(content) != "old" {
		t.Errorf("existing target overwritten: %q", content)
	}
	if st.ImgSkipped != 1 {
		t.Errorf("ImgSkipped = %d, want 1", st.ImgSkipped)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Errorf("missing skip status:\n%s", out.String())
	}
}

func TestWriteSecondRunSkipsEverything(t *testing.T) {
	run := func(afsShared afero.Fs) (*Dispatcher, *tree.TargetTree) {
		cfg := dryRunConfig()
		cfg.DryRun = false
		cfg.CopyNotMove = true
		d, _, _, _ := testDispatcher(cfg)
		d.FS = afsShared

		tr := tree.New()
		tr.Insert(mediaFile("a.jpg", "2019.01.28", ""))
		tr.Insert(mediaFile("b.jpg", "2019.01.28", ""))
		return d, tr
	}

	afs := afero.NewMemMapFs()
	for _, name := range []string{"a.jpg", "b.jpg"} {
		if err := afero.WriteFile(afs, "/src/"+name, []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	d1, tr1 := run(afs)
	d1.Run(tr1)
	if d1.Stats.ImgCopied != 2 {
		t.Fatalf("first run copied = %d, want 2", d1.Stats.ImgCopied)
	}

	d2, tr2 := run(afs)
	d2.Run(tr2)
	if d2.Stats.ImgCopied != 0 || d2.Stats.ImgSkipped != 2 {
		t.Errorf("second run copied/skipped = %d/%d, want 0/2",
			d2.Stats.ImgCopied, d2.Stats.ImgSkipped)
	}
}

// removeFailFs fails every Remove, standing in for read-only sources.
type removeFailFs struct {
	afero.Fs
}

func (f *removeFailFs) Remove(name string) error {
	return errors.New("operation not permitted")
}

func TestWriteMoveDeleteFailureDowngradesToCopy(t *testing.T) {
	cfg := dryRunConfig()
	cfg.DryRun = false
	cfg.CopyNotMove = false
	d, afs, st, out := testDispatcher(cfg)

	f := addSource(t, afs, mediaFile("a.jpg", "2019.01.28", ""))
	d.FS = &removeFailFs{Fs: afs}

	tr := tree.New()
	tr.Insert(f)
	d.Run(tr)

	if exists, _ := afero.Exists(afs, "/target/2019.01.28/a.jpg"); !exists {
		t.Error("target file missing")
	}
	if exists, _ := afero.Exists(afs, "/src/a.jpg"); !exists {
		t.Error("source should survive the failed delete")
	}
	if st.ImgMoved != 0 || st.ImgCopied != 1 || st.ErrorFileDelete != 1 {
		t.Errorf("moved/copied/deleteErrors = %d/%d/%d, want 0/1/1",
			st.ImgMoved, st.ImgCopied, st.ErrorFileDelete)
	}
	if !strings.Contains(out.String(), "ok (error removing source:") {
		t.Errorf("missing downgrade status:\n%s", out.String())
	}
}

// createFailFs fails every Create, standing in for a full or unwritable
// target.
type createFailFs struct {
	afero.Fs
}

func (f *createFailFs) Create(name string) (afero.File, error) {
	return nil, errors.New("no space left on device")
}

func TestWriteCreateFailure(t *testing.T) {
	cfg := dryRunConfig()
	cfg.DryRun = false
	d, afs, st, out := testDispatcher(cfg)

	f := addSource(t, afs, mediaFile("a.jpg", "2019.01.28", ""))
	d.FS = &createFailFs{Fs: afs}

	tr := tree.New()
	tr.Insert(f)
	d.Run(tr)

	if st.ErrorFileCreate != 1 {
		t.Errorf("ErrorFileCreate = %d, want 1", st.ErrorFileCreate)
	}
	if st.ImgCopied != 0 && st.ImgMoved != 0 {
		t.Error("failed create must not count as copied or moved")
	}
	if !strings.Contains(out.String(), "ERROR:") {
		t.Errorf("missing error status:\n%s", out.String())
	}
}

func TestWriteCreatesDeviceDirs(t *testing.T) {
	cfg := dryRunConfig()
	cfg.DryRun = false
	d, afs, st, out := testDispatcher(cfg)

	tr := tree.New()
	tr.Insert(addSource(t, afs, mediaFile("a.jpg", "2019.01.28", "Canon 100D")))
	tr.Insert(addSource(t, afs, mediaFile("b.jpg", "2019.01.28", "Canon 100D")))
	tr.Insert(addSource(t, afs, mediaFile("c.jpg", "2019.01.28", "")))
	d.Run(tr)

	if exists, _ := afero.Exists(afs, "/target/2019.01.28/Canon 100D/a.jpg"); !exists {
		t.Error("device subdir file missing")
	}
	if exists, _ := afero.Exists(afs, "/target/2019.01.28/c.jpg"); !exists {
		t.Error("loose file must land directly in the date dir")
	}
	if st.DeviceDirsCreated != 1 {
		t.Errorf("DeviceDirsCreated = %d, want 1", st.DeviceDirsCreated)
	}
	if !strings.Contains(out.String(), "[Created folder") {
		t.Errorf("missing folder creation line:\n%s", out.String())
	}
}
