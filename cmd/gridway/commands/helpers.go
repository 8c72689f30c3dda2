// Package commands implements the gridway CLI commands.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gridway-io/transfer-client/pkg/gridclient"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	defaultJSONIndent = "  "
)

// Static errors for command validation.
var (
	ErrAPIEndpointRequired  = errors.New("API endpoint is required (use --api or set GRIDWAY_API)")
	ErrEndpointIDRequired   = errors.New("endpoint ID is required")
	ErrSourceRequired       = errors.New("source endpoint and path are required")
	ErrDestinationRequired  = errors.New("destination endpoint and path are required")
	ErrClientSecretRequired = errors.New("client secret is required")
)

// createClient builds a Transfer API client from the CLI configuration.
func createClient(ctx context.Context) (transfer.Client, error) {
	apiEndpoint := viper.GetString("api")
	if apiEndpoint == "" {
		return nil, ErrAPIEndpointRequired
	}

	config := &transfer.Config{
		APIEndpoint:   apiEndpoint,
		AccessToken:   viper.GetString("token"),
		ClientID:      viper.GetString("client-id"),
		ClientSecret:  viper.GetString("client-secret"),
		Scopes:        viper.GetString("scopes"),
		RefreshToken:  viper.GetString("refresh-token"),
		SkipTLSVerify: viper.GetBool("skip-ssl-validation"),
		Debug:         viper.GetBool("verbose"),
	}

	return gridclient.New(ctx, config)
}

// renderJSON writes v to stdout as indented JSON.
func renderJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", defaultJSONIndent)

	return encoder.Encode(v)
}

// renderYAML writes v to stdout as YAML.
func renderYAML(v interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer func() { _ = encoder.Close() }()

	return encoder.Encode(v)
}

// renderStructured writes v in the configured non-table format, reporting
// whether it handled the output.
func renderStructured(v interface{}) (bool, error) {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return true, renderJSON(v)
	case OutputFormatYAML:
		return true, renderYAML(v)
	default:
		return false, nil
	}
}

// yesNo renders a boolean the way the tables expect.
func yesNo(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}
