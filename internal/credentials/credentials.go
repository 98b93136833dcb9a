// Package credentials resolves the n8n API token and instance URL from
// the local .env.local.yml file, prompting the operator and writing the
// file back when no valid token is stored yet.
package credentials

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/binalyze/n8n-workflow-tool/internal/config"
	"github.com/binalyze/n8n-workflow-tool/internal/errors"
)

// PlaceholderToken is the sample value shipped in env.example; a stored
// token equal to it is treated as absent.
const PlaceholderToken = "your_n8n_api_token_here"

// Credentials is the resolved API token and instance URL, passed by
// value through the call chain.
type Credentials struct {
	APIToken    string
	InstanceURL string
}

// Source tags how credentials were obtained.
type Source int

const (
	// SourceFile means a valid token was loaded from the credentials file.
	SourceFile Source = iota
	// SourcePrompt means the token was prompted for and persisted.
	SourcePrompt
	// SourcePromptUnsaved means the token was prompted for but could not
	// be persisted; it is valid for this session only.
	SourcePromptUnsaved
)

// envFile mirrors the on-disk YAML schema. The legacy flat key
// "N8N:API_TOKEN" is read for the token only and never written back.
type envFile struct {
	N8N struct {
		APIToken    string `yaml:"API_TOKEN"`
		InstanceURL string `yaml:"INSTANCE_URL,omitempty"`
	} `yaml:"N8N"`
	LegacyToken string `yaml:"N8N:API_TOKEN,omitempty"`
}

// token returns the stored token, preferring the nested form over the
// legacy flat key when both are present.
func (f *envFile) token() string {
	if f.N8N.APIToken != "" {
		return f.N8N.APIToken
	}
	return f.LegacyToken
}

// read parses the credentials file. Returned errors wrap a sentinel per
// failure cause so callers can report them distinctly.
func read(fsys afero.Fs, path string) (envFile, error) {
	var f envFile

	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return f, fmt.Errorf("%w: %s: %s", errors.ErrCredentialsRead, path, err)
	}
	if !exists {
		return f, fmt.Errorf("%w: %s (see env.example for the required format)", errors.ErrCredentialsNotFound, path)
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return f, fmt.Errorf("%w: %s: %s", errors.ErrCredentialsRead, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return f, fmt.Errorf("%w: %s", errors.ErrCredentialsEmpty, path)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return f, fmt.Errorf("%w: %s: %s", errors.ErrCredentialsParse, path, err)
	}
	if len(doc) == 0 {
		return f, fmt.Errorf("%w: %s", errors.ErrCredentialsEmpty, path)
	}

	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("%w: %s: %s", errors.ErrCredentialsParse, path, err)
	}
	return f, nil
}

// Load returns the stored credentials or fails with a distinct error
// per cause: file missing, unreadable, unparseable, empty, or token
// absent. A placeholder token counts as absent. Never prompts.
func Load(fsys afero.Fs, path string) (Credentials, error) {
	f, err := read(fsys, path)
	if err != nil {
		return Credentials{}, err
	}

	token := f.token()
	if token == "" || token == PlaceholderToken {
		return Credentials{}, fmt.Errorf("%w in %s\nPlease add:\nN8N:\n  API_TOKEN: your_token_here", errors.ErrTokenMissing, path)
	}

	creds := Credentials{APIToken: token, InstanceURL: f.N8N.InstanceURL}
	if creds.InstanceURL == "" {
		creds.InstanceURL = config.DefaultInstanceURL
	}
	return creds, nil
}

// Save writes the credentials back in the nested form.
func Save(fsys afero.Fs, path string, creds Credentials) error {
	var f envFile
	f.N8N.APIToken = creds.APIToken
	f.N8N.InstanceURL = creds.InstanceURL

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("%w: %s", errors.ErrFileWriteError, err)
	}

	if err := afero.WriteFile(fsys, path, data, 0600); err != nil {
		return fmt.Errorf("%w: %s: %s", errors.ErrFileWriteError, path, err)
	}
	return nil
}

// Resolve is the interactive two-branch resolution: return stored
// credentials when a valid token exists, otherwise prompt for one and
// persist it. A failed write degrades to a session-only token with a
// warning rather than aborting. Guidance and warnings go to out.
func Resolve(fsys afero.Fs, path string, tokens TokenSource, out io.Writer) (Credentials, Source, error) {
	f, err := read(fsys, path)
	if err == nil {
		token := f.token()
		if token != "" && token != PlaceholderToken {
			creds := Credentials{APIToken: token, InstanceURL: f.N8N.InstanceURL}
			if creds.InstanceURL == "" {
				creds.InstanceURL = config.DefaultInstanceURL
			}
			return creds, SourceFile, nil
		}
	} else if !stderrors.Is(err, errors.ErrCredentialsNotFound) {
		fmt.Fprintf(out, "Warning: Error reading existing %s: %v\n", path, err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "🔑 N8N API Token Configuration")
	fmt.Fprintln(out, strings.Repeat("=", 40))
	fmt.Fprintf(out, "No valid API token found in %s\n", path)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "To get your API token:")
	fmt.Fprintf(out, "1. Open your n8n instance (default: %s)\n", config.DefaultInstanceURL)
	fmt.Fprintln(out, "2. Go to Settings → API")
	fmt.Fprintln(out, "3. Create a new API key or copy an existing one")
	fmt.Fprintln(out)

	token, err := tokens.ReadToken()
	if err != nil {
		return Credentials{}, SourcePromptUnsaved, fmt.Errorf("failed to read API token: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Credentials{}, SourcePromptUnsaved, errors.ErrTokenEmpty
	}

	creds := Credentials{APIToken: token, InstanceURL: f.N8N.InstanceURL}
	if creds.InstanceURL == "" {
		creds.InstanceURL = config.DefaultInstanceURL
	}

	if err := Save(fsys, path, creds); err != nil {
		fmt.Fprintf(out, "\n⚠️  Warning: Could not save API token to file: %v\n", err)
		fmt.Fprintln(out, "The token will be used for this session only.")
		return creds, SourcePromptUnsaved, nil
	}

	fmt.Fprintf(out, "\n✅ API token saved to %s\n", path)
	return creds, SourcePrompt, nil
}
