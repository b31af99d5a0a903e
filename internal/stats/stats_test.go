package stats

import (
	"strings"
	"testing"

	"imgsorter/internal/classify"
)

func TestCountersByType(t *testing.T) {
	s := New()
	s.IncCopiedByType(classify.TypeImage)
	s.IncCopiedByType(classify.TypeImage)
	s.IncMovedByType(classify.TypeVideo)
	s.IncSkippedByType(classify.TypeAudio)
	s.IncCopiedByType(classify.TypeUnknown) // must be ignored

	if s.ImgCopied != 2 || s.VidMoved != 1 || s.AudSkipped != 1 {
		t.Errorf("counters = img %d, vid %d, aud %d", s.ImgCopied, s.VidMoved, s.AudSkipped)
	}
	if s.VidCopied != 0 || s.ImgMoved != 0 {
		t.Error("unrelated counters touched")
	}
}

func TestDirCounters(t *testing.T) {
	s := New()
	s.IncDirTotal(DirDate)
	s.IncDirCreated(DirDate)
	s.IncDirTotal(DirDevice)
	s.IncErrorDirCreate(DirDevice)

	if s.DateDirsTotal != 1 || s.DateDirsCreated != 1 {
		t.Errorf("date dirs = %d/%d", s.DateDirsCreated, s.DateDirsTotal)
	}
	if s.DeviceDirsTotal != 1 || s.DeviceDirsCreated != 0 || s.ErrorDeviceDirCreate != 1 {
		t.Errorf("device dirs = %d/%d, errors %d",
			s.DeviceDirsCreated, s.DeviceDirsTotal, s.ErrorDeviceDirCreate)
	}
}

func TestRenderDryRun(t *testing.T) {
	s := New()
	s.IncFilesTotal(3)
	s.AddFileSize(1024)
	s.IncMovedByType(classify.TypeImage)

	out := s.Render(true, false)

	if !strings.Contains(out, "Total files:") {
		t.Errorf("missing total line:\n%s", out)
	}
	if !strings.Contains(out, "Images to move|copy|skip:") {
		t.Errorf("dry run must use prospective wording:\n%s", out)
	}
	if !strings.Contains(out, "File delete errors:           n/a") {
		t.Errorf("dry run error counters must be n/a:\n%s", out)
	}
}

func TestRenderWriteWarnings(t *testing.T) {
	t.Run("create errors", func(t *testing.T) {
		s := New()
		s.IncFilesTotal(2)
		s.IncMovedByType(classify.TypeImage)
		s.IncErrorFileCreate()

		out := s.Render(false, false)
		if !strings.Contains(out, "Images moved|copied|skipped:") {
			t.Errorf("write run must use past wording:\n%s", out)
		}
		if !strings.Contains(out, "Some files could not be created") {
			t.Errorf("missing create warning:\n%s", out)
		}
	})

	t.Run("delete errors on move", func(t *testing.T) {
		s := New()
		s.IncFilesTotal(1)
		s.IncCopiedByType(classify.TypeImage)
		s.IncErrorFileDelete()

		out := s.Render(false, false)
		if !strings.Contains(out, "could not be removed") {
			t.Errorf("missing delete warning:\n%s", out)
		}
		// a copy run never removes sources, so no warning applies
		if out := s.Render(false, true); strings.Contains(out, "could not be removed") {
			t.Errorf("delete warning on copy run:\n%s", out)
		}
	})

	t.Run("nothing supported", func(t *testing.T) {
		s := New()
		s.IncFilesTotal(4)
		for i := 0; i < 4; i++ {
			s.IncUnknownSkipped()
		}

		out := s.Render(false, true)
		if !strings.Contains(out, "No supported files found") {
			t.Errorf("missing all-unknown warning:\n%s", out)
		}
	})
}
