// Package ingest downloads, persists and processes uploaded documents.
// CVs go through the external analyzer and the extracted profile is cached
// by stored file path; WBS files are read back and forwarded unmodified to
// the planning agent, never cached, since a re-uploaded plan may
// legitimately differ.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"zalo-hr-gateway/internal/faults"
	"zalo-hr-gateway/internal/models"
)

// documentExts are the formats the CV analyzer accepts.
var documentExts = mapset.NewSet(".pdf", ".docx")

// Downloader fetches attachment bytes from the messaging platform.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Analyzer extracts a structured profile from a stored CV file.
type Analyzer interface {
	Analyze(ctx context.Context, path string) (*models.CandidateProfile, error)
}

// TaskGenerator turns WBS file content into generated tasks.
type TaskGenerator interface {
	GenerateTasks(ctx context.Context, userID, fileContent string) (string, error)
}

type Pipeline struct {
	downloader Downloader
	analyzer   Analyzer
	planner    TaskGenerator
	cvDir      string
	wbsDir     string
	logger     *slog.Logger
	now        func() time.Time

	// profiles caches extraction results by stored file path. This is an
	// idempotence guarantee, not an optimization: the analyzer may be
	// nondeterministic, and a registration must be built from one profile.
	mu       sync.Mutex
	profiles map[string]models.CandidateProfile
}

func NewPipeline(downloader Downloader, analyzer Analyzer, planner TaskGenerator, uploadDir string, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		downloader: downloader,
		analyzer:   analyzer,
		planner:    planner,
		cvDir:      filepath.Join(uploadDir, "cvs"),
		wbsDir:     filepath.Join(uploadDir, "wbs"),
		logger:     logger,
		now:        time.Now,
		profiles:   make(map[string]models.CandidateProfile),
	}
}

// IngestCV downloads and stores a CV, then extracts the candidate profile.
// The extension is checked before the download so a rejected file leaves no
// side effect at all.
func (p *Pipeline) IngestCV(ctx context.Context, fileURL, senderID, filename string) (*models.CandidateProfile, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !documentExts.Contains(ext) {
		return nil, "", &faults.ErrUnsupportedInput{
			Detail: fmt.Sprintf("cv %q must be one of %v", filename, documentExts.ToSlice()),
		}
	}

	path, err := p.fetchAndStore(ctx, fileURL, senderID, filename, p.cvDir)
	if err != nil {
		return nil, "", err
	}

	profile, err := p.ExtractProfile(ctx, path)
	if err != nil {
		return nil, "", err
	}
	return profile, path, nil
}

// ExtractProfile returns the profile for a stored CV path, invoking the
// analyzer at most once per path.
func (p *Pipeline) ExtractProfile(ctx context.Context, path string) (*models.CandidateProfile, error) {
	p.mu.Lock()
	if cached, ok := p.profiles[path]; ok {
		p.mu.Unlock()
		profile := cached
		return &profile, nil
	}
	p.mu.Unlock()

	extracted, err := p.analyzer.Analyze(ctx, path)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// A concurrent extraction may have finished first; keep the winner so
	// every caller observes the same profile.
	if cached, ok := p.profiles[path]; ok {
		profile := cached
		return &profile, nil
	}
	p.profiles[path] = *extracted
	profile := *extracted
	return &profile, nil
}

// IngestWBS downloads and stores a project plan, reads it back as text and
// forwards it to the planning agent. Returns the agent's task summary.
func (p *Pipeline) IngestWBS(ctx context.Context, fileURL, senderID, filename string) (string, error) {
	path, err := p.fetchAndStore(ctx, fileURL, senderID, filename, p.wbsDir)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", &faults.ErrExternalService{Service: "storage", Err: err}
	}

	summary, err := p.planner.GenerateTasks(ctx, senderID, string(content))
	if err != nil {
		return "", err
	}
	p.logger.Info("WBS forwarded for task generation", "path", path, "sender_id", senderID)
	return summary, nil
}

// fetchAndStore downloads the attachment and writes it under dir with a
// collision-resistant name. Download failures leave nothing on disk.
func (p *Pipeline) fetchAndStore(ctx context.Context, fileURL, senderID, filename, dir string) (string, error) {
	data, err := p.downloader.Download(ctx, fileURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &faults.ErrExternalService{Service: "storage", Err: err}
	}

	stored := fmt.Sprintf("%s_%d_%s", senderID, p.now().UnixNano(), filepath.Base(filename))
	path := filepath.Join(dir, stored)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &faults.ErrExternalService{Service: "storage", Err: err}
	}

	p.logger.Info("Attachment stored", "path", path, "bytes", len(data))
	return path, nil
}
