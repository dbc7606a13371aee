package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `cabinet keeps the working state of an accounting firm: clients, missions and
their tasks, a single time-tracking session, regulatory deadlines, and billing
documents.

Core concepts:
- Mission: a client engagement with a budget in hours. progress = consumed / budget, not clamped.
- Completed is terminal: only reopen_mission (with a reason) leaves it.
- Timer: one session at a time (idle → running ⇄ paused → idle). Paused time is not billed.
- Deadline: "overdue" is derived from the due date at read time; completed always wins.
- Billing: VAT is charged at the document rate on non-expense lines only.

Rules of engagement:
1) Orient: list_clients, list_missions, deadline_board.
2) Track time: timer_start → timer_pause/timer_resume → timer_stop. timer_stop saves a draft entry
   and adds its hours to the mission.
3) Close work: complete_task, then complete_mission. If it returns INCOMPLETE_TASKS, confirm with the
   user before retrying with confirm=true.
4) Bill: compute_totals to preview, then save_invoice. Surface any warnings (free zone, persistence).

Acting user:
- HTTP: pass the user ID via the X-Cabinet-Actor header.
- Stdio: pass it via _meta.actor_id, or give actor_id on the tools that accept it.

Docs:
- cabinet://docs/index
- cabinet://docs/concepts
- cabinet://docs/workflows/time-tracking
- cabinet://docs/workflows/billing
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "cabinet://docs/index",
		Name:        "index",
		Title:       "Docs index",
		Description: "What to read when",
		Content: `# cabinet docs

- cabinet://docs/concepts: entities, statuses, and the rules the server enforces.
- cabinet://docs/workflows/time-tracking: timer lifecycle and review of time entries.
- cabinet://docs/workflows/billing: VAT, totals, numbering, and credit notes.
`,
	},
	{
		URI:         "cabinet://docs/concepts",
		Name:        "concepts",
		Title:       "Concepts",
		Description: "Glossary and invariants",
		Content: `# Concepts

## Missions

Statuses in order: todo, in_progress, review, client_waiting, completed.

- Progress is consumed_hours / budget_hours × 100. It can exceed 100; over_budget is then true.
- A zero budget reports 0% and is over budget as soon as any time is consumed.
- completed is terminal. update_mission cannot enter or leave it.
- complete_mission sets the completion date and appends a history entry.
- reopen_mission requires a reason and returns the mission to in_progress.
- Only admins, managers, and the mission's manager may complete; only admins and managers may reopen.

## Deadlines

- The stored status is pending, in_progress, or completed.
- The effective status is overdue when the due date has passed and the deadline is not completed.
- days_until_due counts calendar days; urgency is critical at 3 or fewer days, warning at 7 or fewer.

## Clients

- Deleting a client that is still referenced fails with CLIENT_IN_USE unless force=true.
- Records pointing at a deleted client display "Client inconnu".

## Persistence

Every change is written through to storage. When a write fails the change is kept in memory and
the tool result carries a warning.
`,
	},
	{
		URI:         "cabinet://docs/workflows/time-tracking",
		Name:        "workflow-time-tracking",
		Title:       "Workflow: time tracking",
		Description: "Timer lifecycle and time-entry review",
		Content: `# Time tracking

1. timer_start with mission_id (and user_id unless the request actor is set).
   A second start while a session exists fails with TIMER_CONFLICT.
2. timer_pause / timer_resume as needed. Elapsed time freezes while paused.
3. timer_stop saves a draft time entry (duration in whole minutes, paused minutes as break_duration)
   and adds the hours to the mission's consumed hours.
4. timer_discard drops the session without recording anything.

Review: submit_time_entry (draft → submitted), then review_time_entry to approve or reject.
Reviewers must be admin, manager, or quality_control. Durations are never recomputed.
`,
	},
	{
		URI:         "cabinet://docs/workflows/billing",
		Name:        "workflow-billing",
		Title:       "Workflow: billing",
		Description: "VAT, totals, numbering and credit notes",
		Content: `# Billing

- Line total = quantity × unit_price.
- VAT = (sum of non-expense line totals) × document vat_rate / 100.
- Expense lines are zero-rated. A line rate different from the document rate is rejected (MIXED_VAT_RATES).
- When vat_rate is omitted the configured default applies.
- Free-zone clients: saving a taxed document succeeds with a warning.
- Numbers are generated as FAC-YYYY-NNN, DEV-YYYY-NNN, and AV-YYYY-NNN.
- A credit note must reference an existing invoice of the same client and give a reason.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
