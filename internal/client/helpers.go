package client

import (
	"encoding/json"
	"fmt"

	"github.com/gridway-io/transfer-client/internal/constants"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// parseOperationResult decodes the common result envelope the service
// returns for mutations and lifecycle actions.
func parseOperationResult(body []byte) (*transfer.OperationResult, error) {
	var result transfer.OperationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing operation result: %w", err)
	}

	return &result, nil
}

// resolveNumResults maps the numResults convention used by list methods
// onto pagination options: zero means the default cap, negative means
// unbounded, positive is taken as-is.
func resolveNumResults(numResults int) *int {
	if numResults < 0 {
		return nil
	}

	if numResults == 0 {
		numResults = constants.DefaultNumResults
	}

	return &numResults
}
