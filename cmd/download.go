package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/binalyze/n8n-workflow-tool/internal/config"
	"github.com/binalyze/n8n-workflow-tool/internal/credentials"
	"github.com/binalyze/n8n-workflow-tool/internal/errors"
	"github.com/binalyze/n8n-workflow-tool/internal/logger"
	"github.com/binalyze/n8n-workflow-tool/internal/n8n"
	"github.com/binalyze/n8n-workflow-tool/internal/workflow"
)

var (
	downloadURL  string
	downloadFile string
	downloadName string
)

// downloadCmd is the interactive variant: it bootstraps credentials,
// verifies connectivity, then downloads the requested workflow.
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download a workflow from the n8n instance",
	Long: `Download a workflow from the configured n8n instance and save it
as a pretty-printed JSON file. If no valid API token is stored in
.env.local.yml, you will be prompted for one and it will be saved for
later runs.`,
	Example: `  # Download workflow with default settings
  n8n-workflow-tool download

  # Use custom n8n URL
  n8n-workflow-tool download --url http://n8n.example.com:5678

  # Use custom workflow name and output file
  n8n-workflow-tool download --name my-workflow --file my-workflow.json`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVar(&downloadURL, "url", "", "n8n instance URL (overrides .env.local.yml)")
	downloadCmd.Flags().StringVar(&downloadFile, "file", config.DefaultOutputFile, "output workflow JSON file name")
	downloadCmd.Flags().StringVar(&downloadName, "name", config.DefaultWorkflowName, "workflow name to download")
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Println("🔧 n8n Workflow Download Tool")
	fmt.Println(strings.Repeat("=", 40))

	creds, source, err := credentials.Resolve(
		afero.NewOsFs(),
		cfg.N8N.CredentialsFile,
		credentials.TerminalTokenSource{},
		os.Stdout,
	)
	if err != nil {
		return err
	}
	logger.LogDebug("Credentials resolved", map[string]interface{}{
		"source": source,
		"file":   cfg.N8N.CredentialsFile,
	})

	// Flag beats credentials file beats built-in default
	baseURL := creds.InstanceURL
	if downloadURL != "" {
		baseURL = downloadURL
	}

	// Explicit flags win over config; the config defaults equal the
	// flag defaults, so the help text stays accurate either way
	name := cfg.N8N.Workflow
	if cmd.Flags().Changed("name") {
		name = downloadName
	}
	outputFile := cfg.N8N.OutputFile
	if cmd.Flags().Changed("file") {
		outputFile = downloadFile
	}

	client := n8n.NewClient(baseURL, creds.APIToken)

	fmt.Printf("\n🔌 Connecting to n8n at %s...\n", baseURL)
	if !client.Probe(ctx, os.Stdout) {
		fmt.Println("❌ Failed to connect to n8n. Please check:")
		fmt.Println("   - n8n is running at the specified URL")
		fmt.Println("   - The API token is valid")
		return errors.ErrConnectionFailed
	}
	fmt.Println("✅ Connected successfully!")

	fmt.Printf("\n📥 Downloading workflow '%s'...\n", name)
	doc, err := client.FetchWorkflowByName(ctx, name)
	if err != nil {
		return err
	}

	if err := workflow.Save(outputFile, doc); err != nil {
		return err
	}
	fmt.Printf("Workflow saved to: %s\n", outputFile)
	fmt.Println("✅ Download completed!")
	return nil
}
