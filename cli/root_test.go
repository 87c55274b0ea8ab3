package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceManifest = `serviceName: orders
owner: payments-team
environment: dev
components:
  - name: pipeline
    type: deployment-bundle
    config:
      versionTag: "1.2.3"
      artifactoryHost: artifactory.example.com
  - name: main
    type: dynamodb-table
    config:
      partitionKey:
        name: id
        type: string
`

func writeServiceManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "service.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := RootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd(t *testing.T) {
	t.Run("Should register every subcommand", func(t *testing.T) {
		root := RootCmd()
		names := make([]string, 0)
		for _, sub := range root.Commands() {
			names = append(names, sub.Name())
		}
		for _, want := range []string{"resolve", "validate", "components", "schemas", "version"} {
			assert.Contains(t, names, want)
		}
	})

	t.Run("Should default the manifest path", func(t *testing.T) {
		root := RootCmd()
		flag := root.PersistentFlags().Lookup("manifest")
		require.NotNil(t, flag)
		assert.Equal(t, "service.yaml", flag.DefValue)
	})
}

func TestResolveCmd(t *testing.T) {
	t.Run("Should answer a query against a single component", func(t *testing.T) {
		path := writeServiceManifest(t, serviceManifest)
		out, err := executeCommand(t, "resolve", "pipeline", "-f", path, "--query", "signing.keyless")
		require.NoError(t, err)
		assert.Equal(t, "true", strings.TrimSpace(out))
	})

	t.Run("Should resolve every component as a JSON list", func(t *testing.T) {
		path := writeServiceManifest(t, serviceManifest)
		out, err := executeCommand(t, "resolve", "-f", path)
		require.NoError(t, err)

		var list []struct {
			Component string         `json:"component"`
			Name      string         `json:"name"`
			Config    map[string]any `json:"config"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &list))
		require.Len(t, list, 2)
		assert.Equal(t, "deployment-bundle", list[0].Component)
		assert.Equal(t, "pipeline", list[0].Name)
		assert.Equal(t, "dynamodb-table", list[1].Component)
		assert.Equal(t, "orders-main", list[1].Config["tableName"])
	})

	t.Run("Should include provenance with --explain", func(t *testing.T) {
		path := writeServiceManifest(t, serviceManifest)
		out, err := executeCommand(t, "resolve", "pipeline", "-f", path, "--explain")
		require.NoError(t, err)

		var doc struct {
			Config     map[string]any    `json:"config"`
			Provenance map[string]string `json:"provenance"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "environment", doc.Provenance["signing.keyless"])
		assert.Equal(t, "spec", doc.Provenance["versionTag"])
		assert.Equal(t, "derived", doc.Provenance["ociRepoImages"])
	})

	t.Run("Should render a provenance table", func(t *testing.T) {
		path := writeServiceManifest(t, serviceManifest)
		out, err := executeCommand(t, "resolve", "pipeline", "-f", path, "--format", "table", "--explain")
		require.NoError(t, err)
		assert.Contains(t, out, "# pipeline (deployment-bundle)")
		assert.Contains(t, out, "KEY")
		assert.Contains(t, out, "SOURCE")
		assert.Contains(t, out, "signing.keyless")
	})

	t.Run("Should emit YAML when asked", func(t *testing.T) {
		path := writeServiceManifest(t, serviceManifest)
		out, err := executeCommand(t, "resolve", "pipeline", "-f", path, "--format", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "component: deployment-bundle")
		assert.Contains(t, out, "name: pipeline")
	})

	t.Run("Should reject an unsupported format", func(t *testing.T) {
		path := writeServiceManifest(t, serviceManifest)
		_, err := executeCommand(t, "resolve", "pipeline", "-f", path, "--format", "toml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})

	t.Run("Should fail on an unknown component name", func(t *testing.T) {
		path := writeServiceManifest(t, serviceManifest)
		_, err := executeCommand(t, "resolve", "missing", "-f", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found in manifest")
	})

	t.Run("Should pick up platform settings from the environment", func(t *testing.T) {
		t.Setenv("ARTIFACTORY_HOST", "platform.example.com")
		manifest := `serviceName: orders
environment: dev
components:
  - name: pipeline
    type: deployment-bundle
    config:
      versionTag: "1.2.3"
`
		path := writeServiceManifest(t, manifest)
		out, err := executeCommand(t, "resolve", "pipeline", "-f", path, "--query", "artifactoryHost")
		require.NoError(t, err)
		assert.Equal(t, "platform.example.com", strings.TrimSpace(out))
	})

	t.Run("Should apply context overrides", func(t *testing.T) {
		path := writeServiceManifest(t, serviceManifest)
		out, err := executeCommand(t, "resolve", "pipeline", "-f", path,
			"--context", "complianceFramework=fedramp-high", "--query", "fipsMode")
		require.NoError(t, err)
		assert.Equal(t, "true", strings.TrimSpace(out))
	})
}

func TestValidateCmd(t *testing.T) {
	t.Run("Should report a valid manifest", func(t *testing.T) {
		path := writeServiceManifest(t, serviceManifest)
		out, err := executeCommand(t, "validate", "-f", path)
		require.NoError(t, err)

		var report struct {
			Valid      bool `json:"valid"`
			Components []struct {
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"components"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.True(t, report.Valid)
		require.Len(t, report.Components, 2)
		assert.Equal(t, "pipeline", report.Components[0].Name)
	})

	t.Run("Should surface the first violation", func(t *testing.T) {
		manifest := `serviceName: orders
environment: dev
components:
  - name: pipeline
    type: deployment-bundle
    config:
      versionTag: "1.2.3"
      artifactoryHost: artifactory.example.com
      signing:
        keyless: true
        kmsKeyId: "kms://alias/custom"
`
		path := writeServiceManifest(t, manifest)
		_, err := executeCommand(t, "validate", "-f", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot specify both keyless and KMS-based signing")
	})
}

func TestCatalogCmds(t *testing.T) {
	t.Run("Should list registered component types", func(t *testing.T) {
		out, err := executeCommand(t, "components")
		require.NoError(t, err)
		assert.Contains(t, out, "deployment-bundle")
		assert.Contains(t, out, "dynamodb-table")
	})

	t.Run("Should export the schema catalog", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "schemas")
		_, err := executeCommand(t, "schemas", "--out", dir)
		require.NoError(t, err)
		for _, name := range []string{"service-manifest.json", "deployment-bundle.json", "dynamodb-table.json"} {
			_, statErr := os.Stat(filepath.Join(dir, name))
			assert.NoError(t, statErr, name)
		}
	})

	t.Run("Should print version information", func(t *testing.T) {
		out, err := executeCommand(t, "version")
		require.NoError(t, err)
		assert.Contains(t, out, "gantry")
	})
}

func TestEnvFile(t *testing.T) {
	t.Run("Should load variables from an env file", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envPath, []byte("GANTRY_TEST_SENTINEL=loaded\n"), 0o600))
		t.Setenv("GANTRY_TEST_SENTINEL", "")
		require.NoError(t, os.Unsetenv("GANTRY_TEST_SENTINEL"))

		_, err := executeCommand(t, "version", "--env-file", envPath)
		require.NoError(t, err)
		assert.Equal(t, "loaded", os.Getenv("GANTRY_TEST_SENTINEL"))
	})

	t.Run("Should tolerate a missing env file", func(t *testing.T) {
		_, err := executeCommand(t, "version", "--env-file", filepath.Join(t.TempDir(), "absent.env"))
		require.NoError(t, err)
	})
}
