package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/netport/internal/domain/entities"
)

const legacyManifest = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net48</TargetFramework>
  </PropertyGroup>
  <ItemGroup>
    <PackageReference Include="Newtonsoft.Json" Version="13.0.1" />
    <PackageReference Include="System.Web" Version="4.0.0" />
    <packagereference include="EntityFramework" version="6.4.4" />
    <PackageReference Version="1.0.0" Include="Swashbuckle" />
    <PackageReference Include="Microsoft.AspNet.Mvc">
      <Version>5.2.7</Version>
    </PackageReference>
  </ItemGroup>
</Project>`

func TestManifestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantRuntime string
		wantDeps    []string
	}{
		{
			name:        "sdk style project",
			content:     legacyManifest,
			wantRuntime: "net48",
			wantDeps:    []string{"Newtonsoft.Json", "System.Web", "EntityFramework", "Swashbuckle", "Microsoft.AspNet.Mvc"},
		},
		{
			name:        "missing runtime tag",
			content:     `<Project><ItemGroup><PackageReference Include="Dapper" Version="2.0.0" /></ItemGroup></Project>`,
			wantRuntime: entities.UnknownRuntime,
			wantDeps:    []string{"Dapper"},
		},
		{
			name:        "empty runtime tag",
			content:     `<Project><PropertyGroup><TargetFramework></TargetFramework></PropertyGroup></Project>`,
			wantRuntime: entities.UnknownRuntime,
			wantDeps:    []string{},
		},
		{
			name:        "malformed manifest",
			content:     `<Project><TargetFramework>net6.0`,
			wantRuntime: entities.UnknownRuntime,
			wantDeps:    []string{},
		},
		{
			name:        "runtime is kept verbatim",
			content:     `<TargetFramework> net48 </TargetFramework>`,
			wantRuntime: " net48 ",
			wantDeps:    []string{},
		},
		{
			name:        "runtime split across lines does not match",
			content:     "<TargetFramework>\nnet48\n</TargetFramework>",
			wantRuntime: entities.UnknownRuntime,
			wantDeps:    []string{},
		},
		{
			name:        "lowercase tag does not match",
			content:     `<targetframework>net48</targetframework>`,
			wantRuntime: entities.UnknownRuntime,
			wantDeps:    []string{},
		},
		{
			name:        "first match wins",
			content:     "<TargetFramework>net6.0</TargetFramework><TargetFramework>net48</TargetFramework>",
			wantRuntime: "net6.0",
			wantDeps:    []string{},
		},
		{
			name:        "empty include skipped",
			content:     `<PackageReference Include="" Version="1" /><PackageReference Include="Polly" Version="7" />`,
			wantRuntime: entities.UnknownRuntime,
			wantDeps:    []string{"Polly"},
		},
	}

	extractor := NewManifestExtractor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := extractor.Extract([]byte(tt.content))
			assert.Equal(t, tt.wantRuntime, info.TargetRuntime)
			assert.Equal(t, tt.wantDeps, info.Dependencies)
		})
	}
}

func TestManifestExtractor_PaddedRuntimeRaisesIssue(t *testing.T) {
	info := NewManifestExtractor(nil).Extract([]byte(`<Project><PropertyGroup><TargetFramework> net48 </TargetFramework></PropertyGroup></Project>`))

	issues := NewCompatibilityService(testRuleSet()).Evaluate(info)
	assert.Equal(t, []string{testRuleSet().Target.RuntimeIssue}, issues)
}

func TestManifestExtractor_ExtractFile(t *testing.T) {
	extractor := NewManifestExtractor(nil)

	t.Run("reads from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Legacy.csproj")
		require.NoError(t, os.WriteFile(path, []byte(legacyManifest), 0600))

		info := extractor.ExtractFile(path)
		assert.Equal(t, "net48", info.TargetRuntime)
		assert.Len(t, info.Dependencies, 5)
	})

	t.Run("unreadable file never fails", func(t *testing.T) {
		info := extractor.ExtractFile(filepath.Join(t.TempDir(), "missing.csproj"))
		assert.Equal(t, entities.UnknownRuntime, info.TargetRuntime)
		assert.Empty(t, info.Dependencies)
		assert.NotNil(t, info.Dependencies)
	})
}
