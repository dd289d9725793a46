package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/ochairo/netport/internal/config"
	adapters "github.com/ochairo/netport/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/netport/internal/domain-orchestrators"
	"github.com/ochairo/netport/internal/domain/entities"
	"github.com/ochairo/netport/internal/domain/interfaces"
	"github.com/ochairo/netport/internal/domain/interfaces/gateways"
	"github.com/ochairo/netport/internal/domain/interfaces/repositories"
	"github.com/ochairo/netport/internal/domain/services"
	"github.com/ochairo/netport/internal/external-adapters/gpg"
	"github.com/ochairo/netport/internal/external-adapters/treesitter"
	"github.com/ochairo/netport/internal/external-adapters/yaml"
)

// loadRules reads rules_file, or the built-in rules when unset
func loadRules(ctx context.Context) (*entities.RuleSet, error) {
	var repo repositories.RuleSetRepository = yaml.NewRuleSetRepository(cfg.RulesFile)
	return repo.LoadRuleSet(ctx)
}

// newOrchestrator wires the analysis pipeline from configuration
func newOrchestrator(ctx context.Context) (*orchestrators.AnalysisOrchestrator, error) {
	// Layer 1: Rules (Data)
	rules, err := loadRules(ctx)
	if err != nil {
		return nil, err
	}

	// Layer 2: Gateways (Infrastructure)
	ingestor, err := newIngestor(rules)
	if err != nil {
		return nil, err
	}
	scanner, err := newScanner(rules)
	if err != nil {
		return nil, err
	}
	generator, err := newGenerator(ctx)
	if err != nil {
		return nil, err
	}

	// Layer 3: Services (Business Logic)
	manifests := services.NewManifestExtractor(logger)
	compatibility := services.NewCompatibilityService(rules)
	suggestions := services.NewSuggestionService(generator, services.SuggestionConfig{
		Destination: rules.Target.Destination,
		Timeout:     cfg.Suggest.Timeout,
	}, logger)

	// Layer 4: Orchestrator (Use Case)
	return orchestrators.NewAnalysisOrchestrator(ingestor, manifests, scanner, compatibility, suggestions, logger), nil
}

func newIngestor(rules *entities.RuleSet) (gateways.ArtifactIngestor, error) {
	var signatures adapters.SignatureVerifier
	if cfg.Ingest.Keyring != "" {
		verifier := gpg.NewVerifier()
		if err := verifier.ImportKeyFromFile(cfg.Ingest.Keyring); err != nil {
			return nil, errors.Wrap(err, "failed to load ingest.keyring")
		}
		if verifier.KeyCount() == 0 {
			return nil, errors.Newf("ingest.keyring %s holds no public keys", cfg.Ingest.Keyring)
		}
		logger.Info("loaded upload signing keys",
			interfaces.F("keyring", cfg.Ingest.Keyring),
			interfaces.F("keys", verifier.KeyCount()))
		signatures = verifier
	} else if cfg.Ingest.RequireSignature {
		return nil, errors.WithHint(errors.New("ingest.require_signature needs a keyring"), "set ingest.keyring to an OpenPGP public key file")
	}

	return adapters.NewIngestor(adapters.IngestorConfig{
		WorkRoot:         cfg.WorkDir,
		MaxFiles:         cfg.Ingest.MaxFiles,
		MaxBytes:         cfg.Ingest.MaxBytes,
		RequireSignature: cfg.Ingest.RequireSignature,
	}, rules, signatures, logger), nil
}

func newScanner(rules *entities.RuleSet) (gateways.SourceScanner, error) {
	if cfg.Scan.Mode == config.ScanInProcess {
		return adapters.NewStaticScanner(treesitter.NewCSharpParser(), rules, cfg.Scan.Workers, logger), nil
	}

	if cfg.Scan.Command != "" {
		return adapters.NewScanExecutor(cfg.Scan.Command, cfg.Scan.Timeout, logger), nil
	}

	argv, err := selfScanCommand()
	if err != nil {
		return nil, err
	}
	return adapters.NewScanExecutorArgs(argv, cfg.Scan.Timeout, logger), nil
}

// selfScanCommand runs this binary's scan command with the parent's config
// file and rule set, so both scan backends apply the same rules
func selfScanCommand() ([]string, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "failed to locate netport executable"), "set scan.command explicitly")
	}

	argv := []string{exe}
	if configFile != "" {
		path, err := filepath.Abs(configFile)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve %s", configFile)
		}
		argv = append(argv, "--config", path)
	}
	argv = append(argv, "scan")
	if cfg.RulesFile != "" {
		path, err := filepath.Abs(cfg.RulesFile)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve %s", cfg.RulesFile)
		}
		argv = append(argv, "--rules", path)
	}
	return argv, nil
}

func newGenerator(ctx context.Context) (gateways.TextGenerator, error) {
	if cfg.Suggest.Provider == config.ProviderGemini {
		gemini, err := adapters.NewGeminiGateway(ctx, adapters.GeminiConfig{
			APIKey:      cfg.Suggest.GeminiAPIKey,
			Model:       cfg.Suggest.Model,
			MaxTokens:   cfg.Suggest.MaxTokens,
			Temperature: cfg.Suggest.Temperature,
			RateLimit:   cfg.Suggest.RateLimit,
		})
		if err != nil {
			return nil, err
		}
		return gemini, nil
	}

	return adapters.NewChatGateway(adapters.ChatConfig{
		BaseURL:     cfg.Suggest.BaseURL,
		APIKey:      cfg.Suggest.APIKey,
		Model:       cfg.Suggest.Model,
		MaxTokens:   cfg.Suggest.MaxTokens,
		Temperature: cfg.Suggest.Temperature,
		RateLimit:   cfg.Suggest.RateLimit,
		Timeout:     cfg.Suggest.Timeout,
	}), nil
}
