package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/netport/internal/domain/entities"
	"github.com/ochairo/netport/internal/domain/interfaces/gateways"
)

// mockTextGenerator records the prompt and replays a canned answer
type mockTextGenerator struct {
	response string
	err      error
	block    bool
	prompt   gateways.Prompt
	calls    int
}

func (m *mockTextGenerator) Generate(ctx context.Context, prompt gateways.Prompt) (string, error) {
	m.calls++
	m.prompt = prompt
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.response, m.err
}

type panickingGenerator struct{}

func (panickingGenerator) Generate(_ context.Context, _ gateways.Prompt) (string, error) {
	panic("boom")
}

func scanWithAPI(texts ...string) *entities.ScanResult {
	result := &entities.ScanResult{FileCount: 1}
	result.Findings = append(result.Findings, entities.Finding{Kind: entities.DeprecatedNamespace, Text: "System.Web", SourceFile: "a.cs"})
	for _, text := range texts {
		result.Findings = append(result.Findings, entities.Finding{Kind: entities.DeprecatedAPIUsage, Text: text, SourceFile: "a.cs"})
	}
	return result
}

func TestOriginalCodeSnippet(t *testing.T) {
	t.Run("first api usage is embedded", func(t *testing.T) {
		code := OriginalCodeSnippet(scanWithAPI("HttpContext.Current.Request", "HttpContext.Current"))
		assert.Contains(t, code, "var context = HttpContext.Current.Request;")
		assert.True(t, strings.HasPrefix(code, "using System.Web;\n\npublic class MyClass {"))
	})

	t.Run("namespace findings alone give sentinel", func(t *testing.T) {
		assert.Equal(t, NoDeprecatedAPIsCode, OriginalCodeSnippet(scanWithAPI()))
	})

	t.Run("nil scan gives sentinel", func(t *testing.T) {
		assert.Equal(t, NoDeprecatedAPIsCode, OriginalCodeSnippet(nil))
	})
}

func TestSplitSuggestions(t *testing.T) {
	text := "1. Replace HttpContext.Current\r\n\n   \n2. Inject IHttpContextAccessor\n"
	assert.Equal(t, []string{"1. Replace HttpContext.Current", "2. Inject IHttpContextAccessor"}, SplitSuggestions(text))
	assert.Empty(t, SplitSuggestions("\n\n"))
}

func TestExtractMigratedCode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "csharp fence",
			text: "Use the accessor:\n```csharp\npublic class MyClass { }\n```\nDone.",
			want: "public class MyClass { }",
		},
		{
			name: "untagged fence",
			text: "```\nvar x = 1;\nvar y = 2;\n```",
			want: "var x = 1;\nvar y = 2;",
		},
		{
			name: "first fence wins",
			text: "```cs\nfirst();\n```\n```csharp\nsecond();\n```",
			want: "first();",
		},
		{
			name: "no fence falls back to full text",
			text: "Just use IHttpContextAccessor.",
			want: "Just use IHttpContextAccessor.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMigratedCode(tt.text))
		})
	}
}

func TestSuggestionService_Suggest_Success(t *testing.T) {
	gen := &mockTextGenerator{response: "Inject IHttpContextAccessor.\n\n```csharp\nvar ctx = accessor.HttpContext;\n```"}
	svc := NewSuggestionService(gen, SuggestionConfig{}, nil)

	result := svc.Suggest(context.Background(), scanWithAPI("HttpContext.Current"), []string{"System.Web", "Newtonsoft.Json"})

	require.Equal(t, 1, gen.calls)
	assert.False(t, result.Degraded)
	assert.Equal(t, "var ctx = accessor.HttpContext;", result.MigratedCode)
	assert.Equal(t, []string{"Inject IHttpContextAccessor.", "```csharp", "var ctx = accessor.HttpContext;", "```"}, result.Suggestions)
	assert.Contains(t, result.OriginalCode, "HttpContext.Current")

	assert.Equal(t, "You are a .NET migration expert. Provide refactored .NET Core 8 code.", gen.prompt.System)
	assert.True(t, strings.HasPrefix(gen.prompt.User, "Refactor for .NET Core 8:\nusing System.Web;"))
	assert.True(t, strings.HasSuffix(gen.prompt.User, "\nDependencies: System.Web, Newtonsoft.Json"))
}

func TestSuggestionService_NeverFails(t *testing.T) {
	tests := []struct {
		name      string
		generator gateways.TextGenerator
		timeout   time.Duration
		wantMsg   string
	}{
		{
			name:      "service error",
			generator: &mockTextGenerator{err: errors.New("API request failed with status 500")},
			wantMsg:   "API error: API request failed with status 500",
		},
		{
			name:      "timeout",
			generator: &mockTextGenerator{block: true},
			timeout:   20 * time.Millisecond,
			wantMsg:   "API error: request timed out",
		},
		{
			name:      "not configured",
			generator: nil,
			wantMsg:   "API error: text generation is not configured",
		},
		{
			name:      "panic",
			generator: panickingGenerator{},
			wantMsg:   "API error: text generation panicked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSuggestionService(tt.generator, SuggestionConfig{Timeout: tt.timeout}, nil)

			result := svc.Suggest(context.Background(), scanWithAPI(), nil)

			require.Len(t, result.Suggestions, 1)
			assert.True(t, strings.HasPrefix(result.Suggestions[0], tt.wantMsg), result.Suggestions[0])
			assert.Equal(t, MigratedCodeFailure, result.MigratedCode)
			assert.Equal(t, NoDeprecatedAPIsCode, result.OriginalCode)
			assert.True(t, result.Degraded)
		})
	}
}

func TestSuggestionService_SuggestFromCode_UsesDestination(t *testing.T) {
	gen := &mockTextGenerator{response: "ok"}
	svc := NewSuggestionService(gen, SuggestionConfig{Destination: ".NET 8"}, nil)

	result := svc.SuggestFromCode(context.Background(), ScanOutputErrorCode, nil)

	assert.Equal(t, ScanOutputErrorCode, result.OriginalCode)
	assert.Equal(t, "Refactor for .NET 8:\n"+ScanOutputErrorCode+"\nDependencies: ", gen.prompt.User)
	assert.Equal(t, "ok", result.MigratedCode)
}
