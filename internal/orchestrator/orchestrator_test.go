package orchestrator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"imgsorter/internal/config"
)

func seedSources(t *testing.T, afs afero.Fs, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := afero.WriteFile(afs, "/photos/"+name, []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func testConfig() *config.Config {
	cfg := config.Default("/photos")
	cfg.TargetRoot = "/sorted"
	return cfg
}

func TestRunDryRun(t *testing.T) {
	afs := afero.NewMemMapFs()
	seedSources(t, afs, "a.jpg", "b.jpg", "notes.txt")

	out := &bytes.Buffer{}
	o := New(afs, testConfig(), strings.NewReader(""), out)

	st, err := o.Run()
	if err != nil {
		t.Fatal(err)
	}

	if st.FilesTotal != 3 {
		t.Errorf("FilesTotal = %d, want 3", st.FilesTotal)
	}
	if st.ImgCopied != 2 {
		t.Errorf("ImgCopied = %d, want 2", st.ImgCopied)
	}
	if st.UnknownSkipped != 1 {
		t.Errorf("UnknownSkipped = %d, want 1", st.UnknownSkipped)
	}
	if exists, _ := afero.DirExists(afs, "/sorted"); exists {
		t.Error("dry run must not create the target")
	}
	for _, want := range []string{
		"This is a simulation",
		"Unsupported extensions found: txt",
		"Total files:",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in output", want)
		}
	}
}

func TestRunBannerNotesCLISource(t *testing.T) {
	afs := afero.NewMemMapFs()
	seedSources(t, afs, "a.jpg")

	cfg := testConfig()
	if err := cfg.ApplyCLISource(afs, "/photos"); err != nil {
		t.Fatal(err)
	}

	out := &bytes.Buffer{}
	if _, err := New(afs, cfg, strings.NewReader(""), out).Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "(source taken from the command line)") {
		t.Error("banner should note the command-line source override")
	}
}

func TestRunWritePass(t *testing.T) {
	afs := afero.NewMemMapFs()
	seedSources(t, afs, "a.jpg", "b.jpg")

	cfg := testConfig()
	cfg.DryRun = false
	cfg.Silent = true // skip the prompt
	cfg.CopyNotMove = true

	o := New(afs, cfg, strings.NewReader(""), &bytes.Buffer{})
	st, err := o.Run()
	if err != nil {
		t.Fatal(err)
	}

	if st.ImgCopied != 2 {
		t.Errorf("ImgCopied = %d, want 2", st.ImgCopied)
	}
	// both files share one mod-time date bucket
	matches, _ := afero.Glob(afs, "/sorted/*/a.jpg")
	if len(matches) != 1 {
		t.Errorf("target file not written, glob = %v", matches)
	}
}

func TestRunFatalErrors(t *testing.T) {
	t.Run("no valid sources", func(t *testing.T) {
		afs := afero.NewMemMapFs()
		o := New(afs, testConfig(), strings.NewReader(""), &bytes.Buffer{})
		if _, err := o.Run(); !errors.Is(err, config.ErrNoValidSources) {
			t.Errorf("err = %v, want ErrNoValidSources", err)
		}
	})

	t.Run("no files", func(t *testing.T) {
		afs := afero.NewMemMapFs()
		if err := afs.MkdirAll("/photos", 0o755); err != nil {
			t.Fatal(err)
		}
		o := New(afs, testConfig(), strings.NewReader(""), &bytes.Buffer{})
		if _, err := o.Run(); !errors.Is(err, ErrNoFilesFound) {
			t.Errorf("err = %v, want ErrNoFilesFound", err)
		}
	})

	t.Run("only unsupported files", func(t *testing.T) {
		afs := afero.NewMemMapFs()
		seedSources(t, afs, "notes.txt", "report.pdf")
		o := New(afs, testConfig(), strings.NewReader(""), &bytes.Buffer{})
		if _, err := o.Run(); !errors.Is(err, ErrNoFilesFound) {
			t.Errorf("err = %v, want ErrNoFilesFound", err)
		}
	})
}

func TestConfirmPrompt(t *testing.T) {
	newWriteRun := func(input string) (*Orchestrator, afero.Fs) {
		afs := afero.NewMemMapFs()
		seedSources(t, afs, "a.jpg")
		cfg := testConfig()
		cfg.DryRun = false
		return New(afs, cfg, strings.NewReader(input), &bytes.Buffer{}), afs
	}

	t.Run("no cancels", func(t *testing.T) {
		o, afs := newWriteRun("n\n")
		if _, err := o.Run(); !errors.Is(err, ErrCancelled) {
			t.Errorf("err = %v, want ErrCancelled", err)
		}
		if exists, _ := afero.DirExists(afs, "/sorted"); exists {
			t.Error("cancelled run must not write")
		}
	})

	t.Run("yes proceeds", func(t *testing.T) {
		o, afs := newWriteRun("y\n")
		if _, err := o.Run(); err != nil {
			t.Fatal(err)
		}
		if exists, _ := afero.DirExists(afs, "/sorted"); !exists {
			t.Error("confirmed run must write")
		}
	})

	t.Run("d switches to simulation", func(t *testing.T) {
		o, afs := newWriteRun("d\n")
		st, err := o.Run()
		if err != nil {
			t.Fatal(err)
		}
		if exists, _ := afero.DirExists(afs, "/sorted"); exists {
			t.Error("dry run answer must not write")
		}
		if st.ImgCopied != 1 {
			t.Errorf("ImgCopied = %d, want simulated copy", st.ImgCopied)
		}
	})

	t.Run("garbage then yes", func(t *testing.T) {
		o, _ := newWriteRun("maybe\n\ny\n")
		if _, err := o.Run(); err != nil {
			t.Fatalf("prompt should re-ask until a valid answer: %v", err)
		}
	})

	t.Run("eof cancels", func(t *testing.T) {
		o, _ := newWriteRun("")
		if _, err := o.Run(); !errors.Is(err, ErrCancelled) {
			t.Errorf("err = %v, want ErrCancelled on EOF", err)
		}
	})
}

func TestRunConsolidatesSparseDates(t *testing.T) {
	afs := afero.NewMemMapFs()
	// one date-named file per day; each bucket alone is sparse
	seedSources(t, afs, "IMG_20190101_120000.jpg", "IMG_20190102_120000.jpg")

	cfg := testConfig()
	cfg.DryRun = false
	cfg.Silent = true
	cfg.MinFilesPerDir = 2

	o := New(afs, cfg, strings.NewReader(""), &bytes.Buffer{})
	if _, err := o.Run(); err != nil {
		t.Fatal(err)
	}

	if exists, _ := afero.Exists(afs, "/sorted/Miscellaneous/IMG_20190101_120000.jpg"); !exists {
		t.Error("sparse files should land in the overflow directory")
	}
	if exists, _ := afero.DirExists(afs, "/sorted/2019.01.01"); exists {
		t.Error("sparse date directory should not be created")
	}
}
