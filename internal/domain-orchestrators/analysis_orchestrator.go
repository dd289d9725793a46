package orchestrators

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ochairo/netport/internal/domain/entities"
	"github.com/ochairo/netport/internal/domain/interfaces"
	"github.com/ochairo/netport/internal/domain/interfaces/gateways"
	"github.com/ochairo/netport/internal/domain/interfaces/services"
	domainservices "github.com/ochairo/netport/internal/domain/services"
)

// AnalysisOrchestrator runs one upload through the analysis pipeline:
// ingest, extract, scan and evaluate rules, then suggest.
// Only validation failures abort a run; later stages degrade report fields.
type AnalysisOrchestrator struct {
	ingestor      gateways.ArtifactIngestor
	manifests     services.ManifestService
	scanner       gateways.SourceScanner
	compatibility services.CompatibilityService
	suggestions   services.SuggestionService
	logger        interfaces.Logger
}

// NewAnalysisOrchestrator creates a new analysis orchestrator
func NewAnalysisOrchestrator(
	ingestor gateways.ArtifactIngestor,
	manifests services.ManifestService,
	scanner gateways.SourceScanner,
	compatibility services.CompatibilityService,
	suggestions services.SuggestionService,
	logger interfaces.Logger,
) *AnalysisOrchestrator {
	return &AnalysisOrchestrator{
		ingestor:      ingestor,
		manifests:     manifests,
		scanner:       scanner,
		compatibility: compatibility,
		suggestions:   suggestions,
		logger:        interfaces.OrNoOp(logger),
	}
}

// run carries the per-request state
type run struct {
	state  entities.PipelineState
	logger interfaces.Logger
	start  time.Time
}

func (r *run) enter(state entities.PipelineState) {
	r.logger.Info("pipeline state",
		interfaces.F("from", r.state),
		interfaces.F("state", state),
		interfaces.F("elapsed", time.Since(r.start)))
	r.state = state
}

func (r *run) fail(err error) error {
	r.logger.Warn("pipeline failed", interfaces.F("state", r.state), interfaces.Err(err))
	r.enter(entities.StateFailed)
	return err
}

// Analyze runs the pipeline for one upload. Uploaded temporaries and the
// working area are removed on every exit path.
func (o *AnalysisOrchestrator) Analyze(ctx context.Context, upload *entities.Upload) (*entities.Report, error) {
	r := &run{
		logger: o.logger.With(interfaces.F("request_id", uuid.NewString())),
		start:  time.Now(),
	}
	defer o.ingestor.ReleaseUploads(upload)

	// Step 1: Validating (no working area yet)
	r.enter(entities.StateValidating)
	if err := o.ingestor.Validate(upload); err != nil {
		return nil, r.fail(err)
	}

	// Step 2: Ingesting
	r.enter(entities.StateIngesting)
	area, err := o.ingestor.AcquireWorkArea()
	if err != nil {
		return nil, r.fail(errors.Wrap(err, "failed to acquire working area"))
	}
	defer area.Release()

	artifact, err := o.ingestor.Ingest(ctx, upload, area)
	if err != nil {
		return nil, r.fail(err)
	}
	o.ingestor.ReleaseUploads(upload)

	// Step 3: Extracting (never fails)
	r.enter(entities.StateExtracting)
	info := o.manifests.ExtractFile(artifact.ManifestPath)

	report := entities.NewReport()
	report.TargetFramework = info.TargetRuntime
	report.Dependencies = append(report.Dependencies, info.Dependencies...)

	// Step 4: Scanning, with rule evaluation alongside
	r.enter(entities.StateScanning)
	scan, scanErr := o.scanAndEvaluate(ctx, r.logger, artifact, info, report)

	// Step 5: Suggesting (failures are absorbed by the generator)
	r.enter(entities.StateSuggesting)
	var suggestion *entities.Suggestion
	if errors.Is(scanErr, entities.ErrScanOutput) {
		suggestion = o.suggestions.SuggestFromCode(ctx, domainservices.ScanOutputErrorCode, info.Dependencies)
	} else {
		suggestion = o.suggestions.Suggest(ctx, scan, info.Dependencies)
	}
	if suggestion.Degraded {
		r.logger.Warn("suggestions degraded")
	}

	report.GenAISuggestions = suggestion.Suggestions
	report.OriginalCode = suggestion.OriginalCode
	report.MigratedCode = suggestion.MigratedCode

	r.enter(entities.StateDone)
	return report, nil
}

// scanAndEvaluate runs the scanner and the rule engine concurrently. A scan
// failure is captured into the report's raw output; it never fails the run.
func (o *AnalysisOrchestrator) scanAndEvaluate(
	ctx context.Context,
	logger interfaces.Logger,
	artifact *entities.ProjectArtifact,
	info entities.ManifestInfo,
	report *entities.Report,
) (*entities.ScanResult, error) {
	var (
		scan    *entities.ScanResult
		scanErr error
		issues  []string
	)

	var g errgroup.Group
	g.Go(func() error {
		scan, scanErr = o.scanner.Scan(ctx, artifact)
		return nil
	})
	g.Go(func() error {
		issues = o.compatibility.Evaluate(info)
		return nil
	})
	_ = g.Wait()

	report.Issues = append(report.Issues, issues...)

	if scanErr != nil {
		logger.Warn("scan failed, continuing with no findings", interfaces.Err(scanErr))
		report.RawScanOutput = scanErr.Error()
		return &entities.ScanResult{Findings: []entities.Finding{}, Diagnostics: []string{}}, scanErr
	}

	for _, d := range scan.Diagnostics {
		logger.Debug("scan diagnostic", interfaces.F("diagnostic", d))
	}
	report.RawScanOutput = scan.Raw
	return scan, nil
}
