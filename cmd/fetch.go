package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/binalyze/n8n-workflow-tool/internal/credentials"
	"github.com/binalyze/n8n-workflow-tool/internal/n8n"
	"github.com/binalyze/n8n-workflow-tool/internal/workflow"
)

// Fixed configuration of the scripted variant.
const (
	fetchBaseURL  = "http://localhost:5678"
	fetchWorkflow = "n8n-nodes-binalyze-air-spec"
	fetchOutput   = "n8n-nodes-binalyze-air-spec.json"
)

// fetchCmd is the scripted variant: fixed configuration, no prompts,
// no connectivity pre-check. It fails hard when the credentials file is
// missing, unparseable, empty, or holds no token.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the test-suite workflow using stored credentials only",
	Long: `Download the '` + fetchWorkflow + `' workflow from the local n8n
instance at ` + fetchBaseURL + ` and save it to ` + fetchOutput + `.
Unlike 'download', this command never prompts: a valid API token must
already be stored in .env.local.yml.`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Println("Loading API token from " + cfg.N8N.CredentialsFile + "...")
	creds, err := credentials.Load(afero.NewOsFs(), cfg.N8N.CredentialsFile)
	if err != nil {
		return err
	}

	fmt.Printf("Fetching workflow '%s' from %s...\n", fetchWorkflow, fetchBaseURL)
	client := n8n.NewClient(fetchBaseURL, creds.APIToken)
	doc, err := client.FetchWorkflowByName(ctx, fetchWorkflow)
	if err != nil {
		return err
	}

	fmt.Printf("Saving workflow to '%s'...\n", fetchOutput)
	if err := workflow.Save(fetchOutput, doc); err != nil {
		return err
	}
	fmt.Printf("Workflow saved to: %s\n", fetchOutput)
	fmt.Println("✅ Test Suite Workflow downloaded successfully!")
	return nil
}
