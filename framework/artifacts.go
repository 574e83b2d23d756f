package framework

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

// ArtifactPolicy decides which diagnostics survive a run. The defaults bound artifact
// volume while still capturing failure context: a full execution trace is expensive to
// store for every attempt, so it is kept only for the first retry of a failing
// scenario; still images and videos are kept only for scenarios that ultimately fail.
type ArtifactPolicy struct {
	TraceOnFirstRetry   bool
	ScreenshotOnFailure bool
	VideoOnFailure      bool
}

func DefaultArtifactPolicy() ArtifactPolicy {
	return ArtifactPolicy{
		TraceOnFirstRetry:   true,
		ScreenshotOnFailure: true,
		VideoOnFailure:      true,
	}
}

// CaptureTrace reports whether the execution trace of the given attempt should be
// persisted. Attempt 0 is the original run; attempt 1 is the first retry, the only
// attempt whose trace is kept under the default policy.
func (p ArtifactPolicy) CaptureTrace(attempt int) bool {
	return p.TraceOnFirstRetry && attempt == 1
}

// ArtifactSink receives the artifacts the policy decided to keep. Sinks must be safe
// for concurrent use; scenarios on different workers may persist artifacts at the
// same time.
type ArtifactSink interface {
	SaveTrace(id TestID, output CapturedOutput) error
	SaveScreenshot(id TestID, image []byte) error
	RetainVideo(id TestID, sourceFile string) error
}

type nullArtifactSink struct{}

func (n nullArtifactSink) SaveTrace(TestID, CapturedOutput) error { return nil }
func (n nullArtifactSink) SaveScreenshot(TestID, []byte) error    { return nil }
func (n nullArtifactSink) RetainVideo(TestID, string) error       { return nil }

func NullArtifactSink() ArtifactSink { return nullArtifactSink{} }

var artifactNameCleaner = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// DirArtifactSink writes artifacts into a directory, one file per artifact, with the
// scenario identifier embedded in the file name.
type DirArtifactSink struct {
	dir string
}

func NewDirArtifactSink(dir string) (*DirArtifactSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirArtifactSink{dir: dir}, nil
}

func (s *DirArtifactSink) SaveTrace(id TestID, output CapturedOutput) error {
	f, err := os.Create(s.path(id, "trace.log"))
	if err != nil {
		return err
	}
	defer f.Close()
	output.Dump(f, "")
	return nil
}

func (s *DirArtifactSink) SaveScreenshot(id TestID, image []byte) error {
	return os.WriteFile(s.path(id, "failure.png"), image, 0o644)
}

func (s *DirArtifactSink) RetainVideo(id TestID, sourceFile string) error {
	dest := s.path(id, "failure"+filepath.Ext(sourceFile))
	if err := os.Rename(sourceFile, dest); err == nil {
		return nil
	}
	// Rename fails across filesystems; fall back to a copy.
	in, err := os.Open(sourceFile)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

func (s *DirArtifactSink) path(id TestID, suffix string) string {
	name := artifactNameCleaner.ReplaceAllString(id.String(), "_")
	return filepath.Join(s.dir, fmt.Sprintf("%s-%s", name, suffix))
}
