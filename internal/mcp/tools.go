package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes one tool in the catalog.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

func object(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func enum(desc string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": desc, "enum": values}
}

func num(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

func integer(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}

func boolean(desc string) map[string]any {
	return map[string]any{"type": "boolean", "description": desc}
}

func stringList(desc string) map[string]any {
	return map[string]any{"type": "array", "description": desc, "items": map[string]any{"type": "string"}}
}

func arrayOf(desc string, items map[string]any) map[string]any {
	return map[string]any{"type": "array", "description": desc, "items": items}
}

const dateHint = " (YYYY-MM-DD or RFC 3339)"

var (
	addressSchema = object(map[string]any{
		"street":      str("Street"),
		"city":        str("City"),
		"postal_code": str("Postal code"),
		"country":     str("Country"),
	})
	itemSchema = object(map[string]any{
		"id":          str("Line ID (kept on update)"),
		"description": str("Line description"),
		"quantity":    num("Quantity"),
		"unit_price":  num("Unit price"),
		"vat_rate":    num("Line VAT rate in percent; must equal the document rate when set"),
		"is_expense":  boolean("Expense lines are never taxed"),
	}, "description", "quantity", "unit_price")
	actorField   = str("Acting user ID (defaults to the request actor)")
	vatRateField = num("Document VAT rate in percent (defaults to the configured rate)")
)

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Users
		{
			Name:        "list_users",
			Description: "List the firm's users and their roles",
			InputSchema: object(map[string]any{}),
		},

		// Clients
		{
			Name:        "list_clients",
			Description: "List clients",
			InputSchema: object(map[string]any{
				"active_only": boolean("Only return active clients"),
			}),
		},
		{
			Name:        "get_client",
			Description: "Get a client with contacts and contracts",
			InputSchema: object(map[string]any{"id": str("Client ID")}, "id"),
		},
		{
			Name:        "create_client",
			Description: "Create a client company",
			InputSchema: object(map[string]any{
				"company_name":      str("Company name"),
				"rc":                str("Trade register number"),
				"ice":               str("Common company identifier"),
				"if":                str("Tax identifier"),
				"cnss":              str("Social security number"),
				"vat_regime":        enum("VAT regime", "normal", "simplified", "exempt"),
				"vat_periodicity":   enum("VAT filing periodicity", "monthly", "quarterly"),
				"fiscal_year_start": str("Fiscal year start" + dateHint),
				"fiscal_year_end":   str("Fiscal year end" + dateHint),
				"sector":            str("Business sector"),
				"is_free_zone":      boolean("Client operates in a free zone"),
				"currency":          enum("Billing currency", "MAD", "EUR", "USD"),
				"address":           addressSchema,
				"contacts": arrayOf("Contacts", object(map[string]any{
					"first_name": str("First name"),
					"last_name":  str("Last name"),
					"email":      str("Email"),
					"phone":      str("Phone"),
					"position":   str("Position"),
					"is_primary": boolean("Primary contact"),
				}, "first_name", "last_name")),
			}, "company_name"),
		},
		{
			Name:        "update_client",
			Description: "Update a client; omitted fields are unchanged",
			InputSchema: object(map[string]any{
				"id":              str("Client ID"),
				"company_name":    str("Company name"),
				"rc":              str("Trade register number"),
				"ice":             str("Common company identifier"),
				"if":              str("Tax identifier"),
				"cnss":            str("Social security number"),
				"vat_regime":      enum("VAT regime", "normal", "simplified", "exempt"),
				"vat_periodicity": enum("VAT filing periodicity", "monthly", "quarterly"),
				"sector":          str("Business sector"),
				"is_free_zone":    boolean("Client operates in a free zone"),
				"is_active":       boolean("Client is active"),
				"currency":        enum("Billing currency", "MAD", "EUR", "USD"),
				"address":         addressSchema,
			}, "id"),
		},
		{
			Name:        "delete_client",
			Description: "Delete a client. Fails while missions, time entries, deadlines or documents reference it unless force=true",
			InputSchema: object(map[string]any{
				"id":       str("Client ID"),
				"actor_id": actorField,
				"force":    boolean("Delete even when referenced"),
			}, "id"),
		},

		// Missions
		{
			Name:        "list_missions",
			Description: "List missions, optionally filtered by client, assigned user, or status",
			InputSchema: object(map[string]any{
				"client_id": str("Client ID"),
				"user_id":   str("Assigned user or manager ID"),
				"status":    enum("Mission status", "todo", "in_progress", "review", "client_waiting", "completed"),
			}),
		},
		{
			Name:        "get_mission",
			Description: "Get a mission with tasks and history",
			InputSchema: object(map[string]any{"id": str("Mission ID")}, "id"),
		},
		{
			Name:        "create_mission",
			Description: "Create a mission in todo status, with optional tasks",
			InputSchema: object(map[string]any{
				"client_id":    str("Client ID"),
				"title":        str("Mission title"),
				"description":  str("Mission description"),
				"type":         enum("Mission type", "accounting", "vat", "corporate_tax", "income_tax", "cnss", "payroll", "audit", "legal", "incorporation"),
				"priority":     enum("Priority", "low", "medium", "high", "urgent"),
				"start_date":   str("Start date" + dateHint),
				"end_date":     str("Planned end date" + dateHint),
				"budget_hours": num("Budgeted hours"),
				"manager_id":   str("Managing user ID"),
				"assigned_to":  stringList("Assigned user IDs"),
				"tags":         stringList("Tags"),
				"tasks": arrayOf("Tasks", object(map[string]any{
					"title":           str("Task title"),
					"description":     str("Task description"),
					"end_date":        str("Task due date" + dateHint),
					"assigned_to":     str("Assigned user ID"),
					"priority":        enum("Priority", "low", "medium", "high", "urgent"),
					"estimated_hours": num("Estimated hours"),
					"checklist":       stringList("Checklist item texts"),
				}, "title")),
			}, "client_id", "title"),
		},
		{
			Name:        "update_mission",
			Description: "Update a mission's editable fields. Use complete_mission/reopen_mission to enter or leave completed",
			InputSchema: object(map[string]any{
				"id":           str("Mission ID"),
				"title":        str("Mission title"),
				"description":  str("Mission description"),
				"status":       enum("Mission status", "todo", "in_progress", "review", "client_waiting"),
				"priority":     enum("Priority", "low", "medium", "high", "urgent"),
				"end_date":     str("Planned end date" + dateHint),
				"budget_hours": num("Budgeted hours"),
				"manager_id":   str("Managing user ID"),
				"assigned_to":  stringList("Assigned user IDs"),
				"tags":         stringList("Tags"),
			}, "id"),
		},
		{
			Name:        "mission_progress",
			Description: "Budget consumption, task counts, blocking tasks and overdue flag for a mission",
			InputSchema: object(map[string]any{"id": str("Mission ID")}, "id"),
		},
		{
			Name:        "complete_mission",
			Description: "Complete a mission. Returns INCOMPLETE_TASKS with the open tasks unless confirm=true",
			InputSchema: object(map[string]any{
				"id":       str("Mission ID"),
				"actor_id": actorField,
				"confirm":  boolean("Complete even with open tasks"),
			}, "id"),
		},
		{
			Name:        "reopen_mission",
			Description: "Reopen a completed mission into in_progress",
			InputSchema: object(map[string]any{
				"id":       str("Mission ID"),
				"actor_id": actorField,
				"reason":   str("Why the mission is reopened"),
			}, "id", "reason"),
		},
		{
			Name:        "complete_task",
			Description: "Mark a task done; suggest_complete is true when it was the last open task",
			InputSchema: object(map[string]any{
				"mission_id": str("Mission ID"),
				"task_id":    str("Task ID"),
				"actor_id":   actorField,
			}, "mission_id", "task_id"),
		},

		// Timer
		{
			Name:        "timer_start",
			Description: "Start the single timer session. Fails with TIMER_CONFLICT while one is active",
			InputSchema: object(map[string]any{
				"user_id":     str("User ID (defaults to the request actor)"),
				"client_id":   str("Client ID"),
				"mission_id":  str("Mission ID"),
				"task_id":     str("Task ID"),
				"description": str("Work description"),
				"tags":        stringList("Tags"),
			}, "mission_id"),
		},
		{
			Name:        "timer_pause",
			Description: "Pause the running timer; paused time is not billed",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "timer_resume",
			Description: "Resume the paused timer",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "timer_stop",
			Description: "Stop the timer, save a draft time entry and add its hours to the mission",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "timer_discard",
			Description: "Drop the current session without recording time",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "timer_status",
			Description: "Current timer session and elapsed seconds",
			InputSchema: object(map[string]any{}),
		},

		// Time entries
		{
			Name:        "list_time_entries",
			Description: "List time entries, newest first, with the total minutes",
			InputSchema: object(map[string]any{
				"user_id":    str("User ID"),
				"mission_id": str("Mission ID"),
				"client_id":  str("Client ID"),
				"status":     enum("Review status", "draft", "submitted", "approved", "rejected"),
			}),
		},
		{
			Name:        "submit_time_entry",
			Description: "Submit a draft time entry for review",
			InputSchema: object(map[string]any{
				"id":       str("Time entry ID"),
				"actor_id": actorField,
			}, "id"),
		},
		{
			Name:        "review_time_entry",
			Description: "Approve or reject a submitted time entry",
			InputSchema: object(map[string]any{
				"id":       str("Time entry ID"),
				"actor_id": str("Reviewer user ID (defaults to the request actor)"),
				"approve":  boolean("true to approve, false to reject"),
				"comment":  str("Review comment"),
			}, "id", "approve"),
		},

		// Deadlines
		{
			Name:        "deadline_board",
			Description: "Deadlines annotated with effective status, days until due and urgency",
			InputSchema: object(map[string]any{
				"client_id": str("Client ID"),
				"type":      enum("Deadline type", "vat", "corporate_tax", "income_tax", "cnss", "amo", "cimr"),
				"status":    enum("Effective status", "pending", "in_progress", "completed", "overdue"),
				"view":      enum("list (default), matrix (per client and type) or stats", "list", "matrix", "stats"),
				"now":       str("Evaluate at this instant instead of the current time" + dateHint),
			}),
		},
		{
			Name:        "create_deadline",
			Description: "Create a pending regulatory deadline",
			InputSchema: object(map[string]any{
				"client_id":   str("Client ID"),
				"type":        enum("Deadline type", "vat", "corporate_tax", "income_tax", "cnss", "amo", "cimr"),
				"title":       str("Title"),
				"description": str("Description"),
				"due_date":    str("Due date" + dateHint),
				"period":      str("Declared period, e.g. 2024-Q1"),
				"priority":    enum("Priority", "low", "medium", "high", "urgent"),
				"assigned_to": str("Assigned user ID"),
			}, "client_id", "type", "title", "due_date"),
		},
		{
			Name:        "update_deadline",
			Description: "Update a deadline; omitted fields are unchanged",
			InputSchema: object(map[string]any{
				"id":          str("Deadline ID"),
				"title":       str("Title"),
				"description": str("Description"),
				"due_date":    str("Due date" + dateHint),
				"status":      enum("Stored status", "pending", "in_progress", "completed"),
				"priority":    enum("Priority", "low", "medium", "high", "urgent"),
				"assigned_to": str("Assigned user ID"),
			}, "id"),
		},

		// Billing
		{
			Name:        "save_invoice",
			Description: "Create (no id) or replace an invoice. Totals are recomputed; free-zone clients get a warning when VAT applies",
			InputSchema: object(map[string]any{
				"id":             str("Invoice ID (omit to create)"),
				"client_id":      str("Client ID"),
				"invoice_number": str("Invoice number (generated when omitted)"),
				"date":           str("Issue date" + dateHint),
				"due_date":       str("Due date" + dateHint),
				"currency":       enum("Currency", "MAD", "EUR", "USD"),
				"items":          arrayOf("Invoice lines", itemSchema),
				"vat_rate":       vatRateField,
				"status":         enum("Status", "draft", "sent", "paid", "overdue", "cancelled"),
				"actor_id":       actorField,
			}, "client_id", "items"),
		},
		{
			Name:        "save_quote",
			Description: "Create (no id) or replace a quote. Totals are recomputed",
			InputSchema: object(map[string]any{
				"id":           str("Quote ID (omit to create)"),
				"client_id":    str("Client ID"),
				"quote_number": str("Quote number (generated when omitted)"),
				"date":         str("Issue date" + dateHint),
				"valid_until":  str("Validity end" + dateHint),
				"currency":     enum("Currency", "MAD", "EUR", "USD"),
				"items":        arrayOf("Quote lines", itemSchema),
				"vat_rate":     vatRateField,
				"status":       enum("Status", "draft", "sent", "accepted", "rejected", "expired"),
				"actor_id":     actorField,
			}, "client_id", "items"),
		},
		{
			Name:        "save_credit_note",
			Description: "Create (no id) or replace a credit note against an existing invoice",
			InputSchema: object(map[string]any{
				"id":                  str("Credit note ID (omit to create)"),
				"client_id":           str("Client ID (defaults to the invoice's client)"),
				"original_invoice_id": str("Credited invoice ID"),
				"credit_note_number":  str("Credit note number (generated when omitted)"),
				"date":                str("Issue date" + dateHint),
				"currency":            enum("Currency", "MAD", "EUR", "USD"),
				"items":               arrayOf("Credited lines", itemSchema),
				"vat_rate":            vatRateField,
				"reason":              str("Reason for the credit"),
				"status":              enum("Status", "draft", "sent", "processed"),
				"actor_id":            actorField,
			}, "original_invoice_id", "items", "reason"),
		},
		{
			Name:        "compute_totals",
			Description: "Compute subtotal, VAT and total for lines without saving",
			InputSchema: object(map[string]any{
				"items":    arrayOf("Lines", itemSchema),
				"vat_rate": vatRateField,
			}, "items"),
		},
		{
			Name:        "list_invoices",
			Description: "List billing documents of one kind, newest first",
			InputSchema: object(map[string]any{
				"kind":      enum("Document kind (default invoice)", "invoice", "quote", "credit_note"),
				"client_id": str("Client ID"),
				"status":    str("Document status"),
			}),
		},

		// Activity
		{
			Name:        "recent_activity",
			Description: "Recent audit log entries, newest first",
			InputSchema: object(map[string]any{
				"subject_id": str("Only entries about this record"),
				"actor_id":   str("Only entries by this user"),
				"type":       str("Activity type, e.g. mission_completed"),
				"limit":      integer("Maximum number of entries"),
				"offset":     integer("Entries to skip"),
			}),
		},
	}
}

// registerTools adds every catalog tool to server, dispatching to h.
func registerTools(server *sdkmcp.Server, h *Handler, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := h.Handle(ctx, getActorID(ctx), name, args)
			if err != nil {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					logger.Error("tool failed", "tool", name, "error", err)
					apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
				}
				return errorResult(apiErr), nil
			}
			return jsonResult(result)
		})
	}
}

func jsonResult(v any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func errorResult(apiErr *APIError) *sdkmcp.CallToolResult {
	data, err := json.Marshal(apiErr)
	if err != nil {
		data = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
