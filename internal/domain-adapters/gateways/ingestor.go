package gateways

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	getter "github.com/hashicorp/go-getter"

	"github.com/ochairo/netport/internal/domain/entities"
	"github.com/ochairo/netport/internal/domain/interfaces"
	"github.com/ochairo/netport/internal/domain/interfaces/gateways"
)

// Validation messages returned to clients
const (
	MsgUploadTypeMissing  = "Upload type not specified"
	MsgUploadTypeInvalid  = "Invalid upload type"
	MsgInvalidArchive     = "Invalid archive: please upload a single .zip, .tar.gz, .tgz or .tar file"
	MsgNoFiles            = "No files uploaded: please select files"
	MsgNoManifest         = "No .csproj file uploaded: a .csproj is required"
	MsgManyManifests      = "Multiple .csproj files uploaded: exactly one is required"
	MsgNoManifestArchive  = "No .csproj file found in archive: a .csproj is required"
	MsgManyManifestsInZip = "Multiple .csproj files found in archive: exactly one is required"
)

// archiveFormats maps accepted upload suffixes to go-getter decompressor keys.
// Longer suffixes come first so ".tar.gz" is not read as ".gz".
var archiveFormats = []struct {
	suffix string
	key    string
}{
	{".tar.gz", "tar.gz"},
	{".tgz", "tgz"},
	{".tar", "tar"},
	{".zip", "zip"},
}

// SignatureVerifier checks a detached signature of a file
type SignatureVerifier interface {
	VerifyDetachedFile(filePath, sigPath string) error
}

// IngestorConfig holds the ingest limits and trust settings
type IngestorConfig struct {
	WorkRoot         string // Parent of per-request working areas
	MaxFiles         int    // Extraction file-count limit, 0 = unlimited
	MaxBytes         int64  // Extraction size limit, 0 = unlimited
	RequireSignature bool   // Reject archives without a valid detached signature
}

// ingestor materializes uploads into working areas
type ingestor struct {
	config        IngestorConfig
	finder        *SourceFinder
	checksums     *checksumVerifier
	signatures    SignatureVerifier
	decompressors map[string]getter.Decompressor
	logger        interfaces.Logger
}

// NewIngestor creates the artifact ingestor. signatures may be nil when no
// keyring is configured.
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewIngestor(config IngestorConfig, rules *entities.RuleSet, signatures SignatureVerifier, logger interfaces.Logger) *ingestor {
	if config.WorkRoot == "" {
		config.WorkRoot = "Uploads"
	}
	return &ingestor{
		config:        config,
		finder:        NewSourceFinder(rules.Manifest.Extension, rules.Manifest.SourceExtensions),
		checksums:     NewChecksumVerifier(),
		signatures:    signatures,
		decompressors: getter.LimitedDecompressors(config.MaxFiles, config.MaxBytes),
		logger:        interfaces.OrNoOp(logger),
	}
}

// Validate checks the upload shape. It touches no files.
func (i *ingestor) Validate(upload *entities.Upload) error {
	if upload == nil || strings.TrimSpace(upload.Type) == "" {
		return entities.NewValidationError(MsgUploadTypeMissing)
	}

	uploadType, ok := entities.ParseUploadType(upload.Type)
	if !ok {
		return entities.NewValidationError(MsgUploadTypeInvalid)
	}

	switch uploadType {
	case entities.UploadArchive:
		if len(upload.Files) != 1 {
			return entities.NewValidationError(MsgInvalidArchive)
		}
		if _, ok := archiveKey(upload.Files[0].OriginalName); !ok {
			return entities.NewValidationError(MsgInvalidArchive)
		}
		if i.config.RequireSignature && upload.Signature == "" {
			return errors.WithHint(
				entities.NewValidationError("Archive signature required"),
				"upload a detached OpenPGP signature alongside the archive")
		}

	case entities.UploadFileSet:
		if len(upload.Files) == 0 {
			return entities.NewValidationError(MsgNoFiles)
		}
		manifests := 0
		for _, f := range upload.Files {
			name, err := safeBaseName(f.OriginalName)
			if err != nil {
				return err
			}
			if i.finder.IsManifest(name) {
				manifests++
			}
		}
		if manifests == 0 {
			return entities.NewValidationError(MsgNoManifest)
		}
		if manifests > 1 {
			return entities.NewValidationError(MsgManyManifests)
		}
	}

	return nil
}

// AcquireWorkArea creates a fresh working area below the configured root
func (i *ingestor) AcquireWorkArea() (gateways.WorkArea, error) {
	area, err := AcquireWorkArea(i.config.WorkRoot, i.logger)
	if err != nil {
		return nil, err
	}
	return area, nil
}

// Ingest materializes a validated upload into area and resolves the manifest.
// Every returned error is a validation error.
func (i *ingestor) Ingest(ctx context.Context, upload *entities.Upload, area gateways.WorkArea) (*entities.ProjectArtifact, error) {
	if err := i.Validate(upload); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, entities.AsValidation(err, "ingest canceled")
	}

	uploadType, _ := entities.ParseUploadType(upload.Type)
	if uploadType == entities.UploadArchive {
		return i.ingestArchive(upload, area.Path())
	}
	return i.ingestFileSet(upload, area.Path())
}

// ingestArchive verifies and extracts the single archive
func (i *ingestor) ingestArchive(upload *entities.Upload, root string) (*entities.ProjectArtifact, error) {
	file := upload.Files[0]

	// Step 1: integrity
	if file.SHA256 != "" {
		if err := i.checksums.VerifyChecksum(file.Path, file.SHA256); err != nil {
			return nil, entities.AsValidation(err, "Archive checksum verification failed")
		}
	}

	// Step 2: authenticity
	if upload.Signature != "" {
		if i.signatures == nil {
			return nil, entities.NewValidationError("Archive signature supplied but no trusted keyring is configured")
		}
		if err := i.signatures.VerifyDetachedFile(file.Path, upload.Signature); err != nil {
			return nil, entities.AsValidation(err, "Archive signature verification failed")
		}
		i.logger.Info("archive signature verified", interfaces.F("file", file.OriginalName))
	}

	// Step 3: extraction
	key, _ := archiveKey(file.OriginalName)
	decompressor, ok := i.decompressors[key]
	if !ok {
		return nil, entities.NewValidationError(MsgInvalidArchive)
	}
	if err := decompressor.Decompress(root, file.Path, true, 0); err != nil {
		return nil, entities.AsValidation(err, "Invalid archive: extraction failed")
	}

	// Step 4: manifest resolution
	files, err := i.finder.ListFiles(root)
	if err != nil {
		return nil, entities.AsValidation(err, "Invalid archive: cannot list extracted files")
	}

	manifests := i.finder.Manifests(files)
	switch {
	case len(manifests) == 0:
		return nil, entities.NewValidationError(MsgNoManifestArchive)
	case len(manifests) > 1:
		return nil, entities.NewValidationError(MsgManyManifestsInZip)
	}

	i.logger.Debug("archive extracted",
		interfaces.F("files", len(files)),
		interfaces.F("manifest", manifests[0]))

	return i.artifact(root, manifests[0], files), nil
}

// ingestFileSet copies each file into the area by its base name
func (i *ingestor) ingestFileSet(upload *entities.Upload, root string) (*entities.ProjectArtifact, error) {
	for _, f := range upload.Files {
		name, err := safeBaseName(f.OriginalName)
		if err != nil {
			return nil, err
		}
		if err := copyFile(f.Path, filepath.Join(root, name)); err != nil {
			return nil, entities.AsValidation(err, "Failed to store uploaded file "+name)
		}
	}

	files, err := i.finder.ListFiles(root)
	if err != nil {
		return nil, entities.AsValidation(err, "Failed to list uploaded files")
	}

	manifests := i.finder.Manifests(files)
	switch {
	case len(manifests) == 0:
		return nil, entities.NewValidationError(MsgNoManifest)
	case len(manifests) > 1:
		return nil, entities.NewValidationError(MsgManyManifests)
	}

	return i.artifact(root, manifests[0], files), nil
}

func (i *ingestor) artifact(root, manifest string, files []string) *entities.ProjectArtifact {
	return &entities.ProjectArtifact{
		Root:         root,
		ManifestPath: manifest,
		Files:        files,
		SourceFiles:  i.finder.SourcesUnder(filepath.Dir(manifest), files),
	}
}

// ReleaseUploads removes the spooled upload files and signature. Missing
// files are ignored; other failures are logged.
func (i *ingestor) ReleaseUploads(upload *entities.Upload) {
	if upload == nil {
		return
	}

	paths := make([]string, 0, len(upload.Files)+1)
	for _, f := range upload.Files {
		paths = append(paths, f.Path)
	}
	if upload.Signature != "" {
		paths = append(paths, upload.Signature)
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			i.logger.Warn("failed to remove uploaded file",
				interfaces.F("path", path),
				interfaces.Err(errors.Mark(err, entities.ErrCleanup)))
		}
	}
}

// archiveKey returns the decompressor key for an archive file name
func archiveKey(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, format := range archiveFormats {
		if strings.HasSuffix(lower, format.suffix) {
			return format.key, true
		}
	}
	return "", false
}

// safeBaseName reduces an uploaded name to a plain file name
func safeBaseName(original string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	switch name {
	case "", ".", "..", "/":
		return "", entities.NewValidationErrorf("Invalid file name %q", original)
	}
	return name, nil
}

func copyFile(src, dst string) error {
	//nolint:gosec // G304: src is a spooled upload
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "failed to open upload")
	}
	//nolint:errcheck // Defer close on read-only file
	defer in.Close()

	//nolint:gosec // G304: dst is inside the working area
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrap(err, "failed to write file")
	}
	return out.Close()
}
