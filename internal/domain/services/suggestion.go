package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ochairo/netport/internal/domain/entities"
	"github.com/ochairo/netport/internal/domain/interfaces"
	"github.com/ochairo/netport/internal/domain/interfaces/gateways"
	"github.com/ochairo/netport/internal/domain/interfaces/services"
)

// Placeholder texts surfaced in reports
const (
	NoDeprecatedAPIsCode   = "// No deprecated APIs found"
	ScanOutputErrorCode    = "// Error parsing scan output"
	MigratedCodeFailure    = "// Failed to fetch migrated code"
	suggestionErrorPrefix  = "API error: "
	defaultSuggestTimeout  = 60 * time.Second
	defaultDestinationName = ".NET Core 8"
)

// fencedCodePattern captures the body of the first fenced block, any language tag
var fencedCodePattern = regexp.MustCompile("(?s)```[A-Za-z0-9#+_-]*[ \t]*\r?\n(.*?)\r?\n[ \t]*```")

// SuggestionConfig holds the suggestion generator settings
type SuggestionConfig struct {
	Destination string        // Destination runtime label used in prompts
	Timeout     time.Duration // Upper bound of one text-generation call
}

// suggestionService builds prompts from findings and parses generated text
type suggestionService struct {
	generator   gateways.TextGenerator
	destination string
	timeout     time.Duration
	logger      interfaces.Logger
}

// NewSuggestionService creates a suggestion generator over a text-generation gateway
func NewSuggestionService(generator gateways.TextGenerator, config SuggestionConfig, logger interfaces.Logger) services.SuggestionService {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultSuggestTimeout
	}
	destination := config.Destination
	if destination == "" {
		destination = defaultDestinationName
	}

	return &suggestionService{
		generator:   generator,
		destination: destination,
		timeout:     timeout,
		logger:      interfaces.OrNoOp(logger),
	}
}

// Suggest derives the original-code snippet from the scan and asks for a refactoring
func (s *suggestionService) Suggest(ctx context.Context, scan *entities.ScanResult, dependencies []string) *entities.Suggestion {
	return s.SuggestFromCode(ctx, OriginalCodeSnippet(scan), dependencies)
}

// SuggestFromCode asks for a refactoring of code. Failures never escape:
// they are turned into placeholder suggestion fields.
func (s *suggestionService) SuggestFromCode(ctx context.Context, code string, dependencies []string) *entities.Suggestion {
	result := &entities.Suggestion{OriginalCode: code}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generate(callCtx, s.BuildPrompt(code, dependencies))
	if err != nil {
		s.logger.Warn("suggestion generation failed", interfaces.Err(err))
		result.Suggestions = []string{suggestionErrorPrefix + errorMessage(err)}
		result.MigratedCode = MigratedCodeFailure
		result.Degraded = true
		return result
	}

	result.Suggestions = SplitSuggestions(text)
	result.MigratedCode = ExtractMigratedCode(text)
	return result
}

// generate calls the gateway and converts panics and empty gateways into errors
func (s *suggestionService) generate(ctx context.Context, prompt gateways.Prompt) (text string, err error) {
	if s.generator == nil {
		return "", errors.Mark(errors.New("text generation is not configured"), entities.ErrSuggestionService)
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.Mark(errors.Newf("text generation panicked: %v", r), entities.ErrSuggestionService)
		}
	}()

	text, err = s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", errors.Mark(err, entities.ErrSuggestionService)
	}
	return text, nil
}

// BuildPrompt renders the fixed system role and the user message
func (s *suggestionService) BuildPrompt(code string, dependencies []string) gateways.Prompt {
	return gateways.Prompt{
		System: fmt.Sprintf("You are a .NET migration expert. Provide refactored %s code.", s.destination),
		User:   fmt.Sprintf("Refactor for %s:\n%s\nDependencies: %s", s.destination, code, strings.Join(dependencies, ", ")),
	}
}

// OriginalCodeSnippet renders the first deprecated API usage into a minimal
// class for context. This is a display heuristic, not the offending source.
func OriginalCodeSnippet(scan *entities.ScanResult) string {
	if scan == nil {
		return NoDeprecatedAPIsCode
	}
	finding, ok := scan.FirstOf(entities.DeprecatedAPIUsage)
	if !ok {
		return NoDeprecatedAPIsCode
	}

	return "using System.Web;\n\n" +
		"public class MyClass {\n" +
		"    public void MyMethod() {\n" +
		"        var context = " + finding.Text + ";\n" +
		"    }\n" +
		"}"
}

// SplitSuggestions returns the non-blank lines of a response
func SplitSuggestions(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// ExtractMigratedCode returns the first fenced code block, or the whole text
func ExtractMigratedCode(text string) string {
	if match := fencedCodePattern.FindStringSubmatch(text); match != nil {
		return match[1]
	}
	return text
}

func errorMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out: " + err.Error()
	}
	return err.Error()
}
