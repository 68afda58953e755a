// =============================================================================
// Workshop Receipts - Main Entry Point
// =============================================================================
//
// USAGE:
//   recibos folder init     - Open the work folder, creating missing files
//   recibos issue           - Issue a receipt and record the payment
//   recibos workshops ...   - Manage workshops
//   recibos students ...    - List students and edit their tags
//   recibos log ...         - Show or save the payment log
//   recibos import ...      - Load a workshops, students or log file
//   recibos logo ...        - Manage the letterhead image
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core business logic (not for external import)
//   - pkg/       : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/workshop-receipts/cmd"
)

func main() {
	cmd.Execute()
}
