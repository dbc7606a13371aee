package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/cabinet/internal/domain/activity"
	"github.com/rpggio/cabinet/internal/domain/billing"
	"github.com/rpggio/cabinet/internal/domain/client"
	"github.com/rpggio/cabinet/internal/domain/deadline"
	"github.com/rpggio/cabinet/internal/domain/mission"
	"github.com/rpggio/cabinet/internal/domain/timeentry"
	"github.com/rpggio/cabinet/internal/domain/timer"
	"github.com/rpggio/cabinet/internal/store"
)

// Handler dispatches MCP tool calls to domain services.
type Handler struct {
	svc Services
	now func() time.Time
}

// NewHandler creates a new MCP handler. A nil clock uses time.Now.
func NewHandler(svc Services, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{svc: svc, now: now}
}

// Handle dispatches a tool call. actorID is the request-level actor used when
// the arguments don't name one.
func (h *Handler) Handle(ctx context.Context, actorID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "list_users":
		return h.svc.Users.List(ctx), nil

	// Clients
	case "list_clients":
		var req ListClientsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Clients.List(ctx, req.ActiveOnly), nil
	case "get_client":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, err := h.svc.Clients.Get(ctx, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return c, nil
	case "create_client":
		var req CreateClientParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.createClient(ctx, req)
	case "update_client":
		var req UpdateClientParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.updateClient(ctx, req)
	case "delete_client":
		var req DeleteClientParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		warnings, err := persistWarnings(h.svc.Clients.Delete(ctx, req.ID, pick(req.ActorID, actorID), req.Force))
		if err != nil {
			return nil, mapError(err)
		}
		return DeleteResponse{ID: req.ID, Deleted: true, Warnings: warnings}, nil

	// Missions
	case "list_missions":
		var req ListMissionsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Missions.List(ctx, mission.ListOptions{
			ClientID: req.ClientID,
			UserID:   req.UserID,
			Status:   mission.Status(req.Status),
		}), nil
	case "get_mission":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		m, err := h.svc.Missions.Get(ctx, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return m, nil
	case "create_mission":
		var req CreateMissionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		cr, err := createMissionRequest(req)
		if err != nil {
			return nil, mapError(err)
		}
		return missionResult(h.svc.Missions.Create(ctx, cr))
	case "update_mission":
		var req UpdateMissionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.updateMission(ctx, req)
	case "mission_progress":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.missionProgress(ctx, req.ID)
	case "complete_mission":
		var req CompleteMissionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return missionResult(h.svc.Missions.CompleteMission(ctx, req.ID, pick(req.ActorID, actorID), req.Confirm))
	case "reopen_mission":
		var req ReopenMissionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return missionResult(h.svc.Missions.ReopenMission(ctx, req.ID, pick(req.ActorID, actorID), req.Reason))
	case "complete_task":
		var req CompleteTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		m, suggest, err := h.svc.Missions.CompleteTask(ctx, req.MissionID, req.TaskID, pick(req.ActorID, actorID))
		warnings, err := persistWarnings(err)
		if err != nil {
			return nil, mapError(err)
		}
		return CompleteTaskResponse{Mission: m, SuggestComplete: suggest, Warnings: warnings}, nil

	// Timer
	case "timer_start":
		var req TimerStartParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sess, err := h.svc.Timer.Start(ctx, timer.Context{
			UserID:      pick(req.UserID, actorID),
			ClientID:    req.ClientID,
			MissionID:   req.MissionID,
			TaskID:      req.TaskID,
			Description: req.Description,
			Tags:        req.Tags,
		})
		return h.timerResult(ctx, sess, err)
	case "timer_pause":
		sess, err := h.svc.Timer.Pause(ctx)
		return h.timerResult(ctx, sess, err)
	case "timer_resume":
		sess, err := h.svc.Timer.Resume(ctx)
		return h.timerResult(ctx, sess, err)
	case "timer_discard":
		sess, err := h.svc.Timer.Discard(ctx)
		return h.timerResult(ctx, sess, err)
	case "timer_status":
		sess, elapsed := h.svc.Timer.Status(ctx)
		return TimerStatusResponse{Session: sess, ElapsedSeconds: elapsed}, nil
	case "timer_stop":
		result, err := h.svc.Timer.Stop(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return result, nil

	// Time entries
	case "list_time_entries":
		var req ListTimeEntriesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := timeentry.ListOptions{
			UserID:    req.UserID,
			MissionID: req.MissionID,
			ClientID:  req.ClientID,
			Status:    timeentry.Status(req.Status),
		}
		return TimeEntriesResponse{
			Entries:      h.svc.TimeEntries.List(ctx, opts),
			TotalMinutes: h.svc.TimeEntries.TotalMinutes(ctx, opts),
		}, nil
	case "submit_time_entry":
		var req SubmitTimeEntryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return entryResult(h.svc.TimeEntries.Submit(ctx, req.ID, pick(req.ActorID, actorID)))
	case "review_time_entry":
		var req ReviewTimeEntryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return entryResult(h.svc.TimeEntries.Review(ctx, req.ID, pick(req.ActorID, actorID), req.Approve, req.Comment))

	// Deadlines
	case "deadline_board":
		var req DeadlineBoardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.deadlineBoard(ctx, req)
	case "create_deadline":
		var req CreateDeadlineParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		due, err := parseDate("due_date", req.DueDate)
		if err != nil {
			return nil, mapError(err)
		}
		d, err := h.svc.Deadlines.Create(ctx, deadline.CreateRequest{
			ClientID:    req.ClientID,
			Type:        deadline.Type(req.Type),
			Title:       req.Title,
			Description: req.Description,
			DueDate:     due,
			Period:      req.Period,
			Priority:    req.Priority,
			AssignedTo:  req.AssignedTo,
		})
		return documentResult(d, err)
	case "update_deadline":
		var req UpdateDeadlineParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.updateDeadline(ctx, req)

	// Billing
	case "save_invoice":
		var req SaveInvoiceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.saveInvoice(ctx, pick(req.ActorID, actorID), req)
	case "save_quote":
		var req SaveQuoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.saveQuote(ctx, pick(req.ActorID, actorID), req)
	case "save_credit_note":
		var req SaveCreditNoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.saveCreditNote(ctx, pick(req.ActorID, actorID), req)
	case "compute_totals":
		var req ComputeTotalsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		rate := h.vatRate(req.VATRate)
		items, err := billingItems(req.Items, rate)
		if err != nil {
			return nil, mapError(err)
		}
		if err := billing.ValidateUniformRates(items, rate); err != nil {
			return nil, mapError(err)
		}
		items = billing.Normalize(items, rate)
		return TotalsResponse{Items: items, VATRate: rate, Totals: billing.DocumentTotals(items, rate)}, nil
	case "list_invoices":
		var req ListDocumentsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := billing.ListOptions{ClientID: req.ClientID, Status: req.Status}
		switch billing.Kind(req.Kind) {
		case "", billing.KindInvoice:
			return h.svc.Billing.ListInvoices(ctx, opts), nil
		case billing.KindQuote:
			return h.svc.Billing.ListQuotes(ctx, opts), nil
		case billing.KindCreditNote:
			return h.svc.Billing.ListCreditNotes(ctx, opts), nil
		default:
			return nil, mapError(fmt.Errorf("%w: kind must be invoice, quote or credit_note", errInvalidArgument))
		}

	// Activity
	case "recent_activity":
		var req RecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListActivityOptions{
			SubjectID: req.SubjectID,
			ActorID:   req.ActorID,
			Limit:     req.Limit,
			Offset:    req.Offset,
		}
		if req.Type != "" {
			typ := activity.ActivityType(req.Type)
			opts.ActivityType = &typ
		}
		entries, err := h.svc.Activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, mapError(err)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func (h *Handler) createClient(ctx context.Context, req CreateClientParams) (any, error) {
	start, err := parseDate("fiscal_year_start", req.FiscalYearStart)
	if err != nil {
		return nil, mapError(err)
	}
	end, err := parseDate("fiscal_year_end", req.FiscalYearEnd)
	if err != nil {
		return nil, mapError(err)
	}
	contacts := make([]client.Contact, 0, len(req.Contacts))
	for _, c := range req.Contacts {
		contacts = append(contacts, client.Contact{
			ID:        uuid.NewString(),
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Position:  c.Position,
			IsPrimary: c.IsPrimary,
		})
	}
	c, err := h.svc.Clients.Create(ctx, client.CreateRequest{
		CompanyName:     req.CompanyName,
		RC:              req.RC,
		ICE:             req.ICE,
		IF:              req.IF,
		CNSS:            req.CNSS,
		VATRegime:       client.VATRegime(req.VATRegime),
		VATPeriodicity:  client.VATPeriodicity(req.VATPeriodicity),
		FiscalYearStart: start,
		FiscalYearEnd:   end,
		Contacts:        contacts,
		Address:         req.Address,
		Sector:          req.Sector,
		IsFreeZone:      req.IsFreeZone,
		Currency:        client.Currency(req.Currency),
	})
	return clientResult(c, err)
}

func (h *Handler) updateClient(ctx context.Context, req UpdateClientParams) (any, error) {
	c, err := h.svc.Clients.Get(ctx, req.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if req.CompanyName != nil {
		c.CompanyName = *req.CompanyName
	}
	if req.RC != nil {
		c.RC = *req.RC
	}
	if req.ICE != nil {
		c.ICE = *req.ICE
	}
	if req.IF != nil {
		c.IF = *req.IF
	}
	if req.CNSS != nil {
		c.CNSS = *req.CNSS
	}
	if req.VATRegime != nil {
		c.VATRegime = client.VATRegime(*req.VATRegime)
	}
	if req.VATPeriodicity != nil {
		c.VATPeriodicity = client.VATPeriodicity(*req.VATPeriodicity)
	}
	if req.Sector != nil {
		c.Sector = *req.Sector
	}
	if req.IsFreeZone != nil {
		c.IsFreeZone = *req.IsFreeZone
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.Currency != nil {
		c.Currency = client.Currency(*req.Currency)
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	return clientResult(h.svc.Clients.Update(ctx, *c))
}

func createMissionRequest(req CreateMissionParams) (mission.CreateRequest, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return mission.CreateRequest{}, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return mission.CreateRequest{}, err
	}
	tasks := make([]mission.TaskInput, 0, len(req.Tasks))
	for i, t := range req.Tasks {
		due, err := parseOptionalDate(fmt.Sprintf("tasks[%d].end_date", i), &t.EndDate)
		if err != nil {
			return mission.CreateRequest{}, err
		}
		tasks = append(tasks, mission.TaskInput{
			Title:          t.Title,
			Description:    t.Description,
			EndDate:        due,
			AssignedTo:     t.AssignedTo,
			Priority:       mission.Priority(t.Priority),
			EstimatedHours: t.EstimatedHours,
			Checklist:      t.Checklist,
		})
	}
	return mission.CreateRequest{
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		Type:        mission.Type(req.Type),
		Priority:    mission.Priority(req.Priority),
		StartDate:   start,
		EndDate:     end,
		BudgetHours: req.BudgetHours,
		ManagerID:   req.ManagerID,
		AssignedTo:  req.AssignedTo,
		Tags:        req.Tags,
		Tasks:       tasks,
	}, nil
}

func (h *Handler) updateMission(ctx context.Context, req UpdateMissionParams) (any, error) {
	m, err := h.svc.Missions.Get(ctx, req.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Status != nil {
		m.Status = mission.Status(*req.Status)
	}
	if req.Priority != nil {
		m.Priority = mission.Priority(*req.Priority)
	}
	if req.EndDate != nil {
		end, err := parseDate("end_date", *req.EndDate)
		if err != nil {
			return nil, mapError(err)
		}
		m.EndDate = end
	}
	if req.BudgetHours != nil {
		if *req.BudgetHours < 0 {
			return nil, mapError(fmt.Errorf("%w: budget_hours must be >= 0", errInvalidArgument))
		}
		m.BudgetHours = *req.BudgetHours
	}
	if req.ManagerID != nil {
		m.ManagerID = *req.ManagerID
	}
	if req.AssignedTo != nil {
		m.AssignedTo = req.AssignedTo
	}
	if req.Tags != nil {
		m.Tags = req.Tags
	}
	return missionResult(h.svc.Missions.Update(ctx, *m))
}

func (h *Handler) missionProgress(ctx context.Context, id string) (any, error) {
	m, err := h.svc.Missions.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	p, err := h.svc.Missions.Progress(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	blocking := []string{}
	for _, t := range mission.BlockingTasks(*m) {
		blocking = append(blocking, t.Title)
	}
	checklists := []ChecklistStatus{}
	for _, t := range m.Tasks {
		if len(t.Checklist) == 0 {
			continue
		}
		checklists = append(checklists, ChecklistStatus{TaskID: t.ID, Title: t.Title, Percent: mission.ChecklistProgress(t)})
	}
	return MissionProgressResponse{
		MissionID:     m.ID,
		Percent:       p.Percent,
		OverBudget:    p.OverBudget,
		BudgetHours:   m.BudgetHours,
		ConsumedHours: m.ConsumedHours,
		Tasks:         mission.TaskCompletion(*m),
		BlockingTasks: blocking,
		Checklists:    checklists,
		Overdue:       mission.IsOverdue(*m, h.now()),
	}, nil
}

func (h *Handler) timerResult(ctx context.Context, sess timer.Session, err error) (any, error) {
	if err != nil {
		return nil, mapError(err)
	}
	_, elapsed := h.svc.Timer.Status(ctx)
	return TimerStatusResponse{Session: sess, ElapsedSeconds: elapsed}, nil
}

// DeadlineBoardResponse is the deadline view at a given instant.
type DeadlineBoardResponse struct {
	Now     time.Time            `json:"now"`
	Entries []deadline.Entry     `json:"entries,omitempty"`
	Stats   deadline.Stats       `json:"stats"`
	Matrix  []deadline.MatrixRow `json:"matrix,omitempty"`
}

func (h *Handler) deadlineBoard(ctx context.Context, req DeadlineBoardParams) (any, error) {
	now := h.now()
	if req.Now != "" {
		t, err := parseDate("now", req.Now)
		if err != nil {
			return nil, mapError(err)
		}
		now = t
	}
	opts := deadline.BoardOptions{
		ClientID: req.ClientID,
		Type:     deadline.Type(req.Type),
		Status:   deadline.Status(req.Status),
	}
	resp := DeadlineBoardResponse{Now: now, Stats: h.svc.Deadlines.Stats(ctx, now, opts)}
	switch req.View {
	case "", "list":
		resp.Entries = h.svc.Deadlines.Board(ctx, now, opts)
		if resp.Entries == nil {
			resp.Entries = []deadline.Entry{}
		}
	case "matrix":
		resp.Matrix = h.svc.Deadlines.Matrix(ctx, now, opts)
	case "stats":
	default:
		return nil, mapError(fmt.Errorf("%w: view must be list, matrix or stats", errInvalidArgument))
	}
	return resp, nil
}

func (h *Handler) updateDeadline(ctx context.Context, req UpdateDeadlineParams) (any, error) {
	d, err := h.svc.Deadlines.Get(ctx, req.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.DueDate != nil {
		due, err := parseDate("due_date", *req.DueDate)
		if err != nil {
			return nil, mapError(err)
		}
		d.DueDate = due
	}
	if req.Status != nil {
		d.Status = deadline.Status(*req.Status)
	}
	if req.Priority != nil {
		d.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		d.AssignedTo = *req.AssignedTo
	}
	return documentResult(h.svc.Deadlines.Update(ctx, *d))
}

func (h *Handler) vatRate(rate *float64) float64 {
	if rate == nil {
		return h.svc.Billing.DefaultVATRate()
	}
	return *rate
}

// billingItems converts tool lines. An explicit 0% on a taxed line of a
// taxed document is a mixed rate, not an omitted one.
func billingItems(in []ItemParams, documentVATRate float64) ([]billing.Item, error) {
	items := make([]billing.Item, 0, len(in))
	for i, p := range in {
		item := billing.Item{
			ID:          p.ID,
			Description: p.Description,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			IsExpense:   p.IsExpense,
		}
		if p.VATRate != nil {
			if *p.VATRate == 0 && !p.IsExpense && documentVATRate != 0 {
				return nil, fmt.Errorf("%w: line %d has 0.00%%, document has %.2f%%", billing.ErrMixedVATRates, i+1, documentVATRate)
			}
			item.VATRate = *p.VATRate
		}
		items = append(items, item)
	}
	return items, nil
}

func (h *Handler) saveInvoice(ctx context.Context, actorID string, req SaveInvoiceParams) (any, error) {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, mapError(err)
	}
	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		return nil, mapError(err)
	}
	rate := h.vatRate(req.VATRate)
	items, err := billingItems(req.Items, rate)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := h.svc.Billing.SaveInvoice(ctx, actorID, billing.Invoice{
		ID:            req.ID,
		ClientID:      req.ClientID,
		InvoiceNumber: req.InvoiceNumber,
		Date:          date,
		DueDate:       due,
		Currency:      client.Currency(req.Currency),
		Items:         items,
		VATRate:       rate,
		Status:        billing.InvoiceStatus(req.Status),
	})
	return savedResult(saved, err)
}

func (h *Handler) saveQuote(ctx context.Context, actorID string, req SaveQuoteParams) (any, error) {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, mapError(err)
	}
	validUntil, err := parseDate("valid_until", req.ValidUntil)
	if err != nil {
		return nil, mapError(err)
	}
	rate := h.vatRate(req.VATRate)
	items, err := billingItems(req.Items, rate)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := h.svc.Billing.SaveQuote(ctx, actorID, billing.Quote{
		ID:          req.ID,
		ClientID:    req.ClientID,
		QuoteNumber: req.QuoteNumber,
		Date:        date,
		ValidUntil:  validUntil,
		Currency:    client.Currency(req.Currency),
		Items:       items,
		VATRate:     rate,
		Status:      billing.QuoteStatus(req.Status),
	})
	return savedResult(saved, err)
}

func (h *Handler) saveCreditNote(ctx context.Context, actorID string, req SaveCreditNoteParams) (any, error) {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, mapError(err)
	}
	rate := h.vatRate(req.VATRate)
	items, err := billingItems(req.Items, rate)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := h.svc.Billing.SaveCreditNote(ctx, actorID, billing.CreditNote{
		ID:                req.ID,
		ClientID:          req.ClientID,
		OriginalInvoiceID: req.OriginalInvoiceID,
		CreditNoteNumber:  req.CreditNoteNumber,
		Date:              date,
		Currency:          client.Currency(req.Currency),
		Items:             items,
		VATRate:           rate,
		Reason:            req.Reason,
		Status:            billing.CreditNoteStatus(req.Status),
	})
	return savedResult(saved, err)
}

// persistWarnings splits off write-through failures, which leave the
// in-memory change applied and are reported as warnings.
func persistWarnings(err error) ([]string, error) {
	if err == nil {
		return nil, nil
	}
	if errors.Is(err, store.ErrPersistence) {
		return []string{err.Error()}, nil
	}
	return nil, err
}

func missionResult(m *mission.Mission, err error) (any, error) {
	warnings, err := persistWarnings(err)
	if err != nil {
		return nil, mapError(err)
	}
	return MissionResponse{Mission: m, Warnings: warnings}, nil
}

func clientResult(c *client.Client, err error) (any, error) {
	warnings, err := persistWarnings(err)
	if err != nil {
		return nil, mapError(err)
	}
	return ClientResponse{Client: c, Warnings: warnings}, nil
}

func entryResult(e *timeentry.TimeEntry, err error) (any, error) {
	warnings, err := persistWarnings(err)
	if err != nil {
		return nil, mapError(err)
	}
	return TimeEntryResponse{Entry: e, Warnings: warnings}, nil
}

func documentResult[T any](doc *T, err error) (any, error) {
	warnings, err := persistWarnings(err)
	if err != nil {
		return nil, mapError(err)
	}
	return DocumentResponse{Document: doc, Warnings: warnings}, nil
}

func savedResult[T any](saved *billing.Saved[T], err error) (any, error) {
	warnings, err := persistWarnings(err)
	if err != nil {
		return nil, mapError(err)
	}
	if saved.Warning != "" {
		warnings = append(warnings, saved.Warning)
	}
	return DocumentResponse{Document: saved.Document, Warnings: warnings}, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return mapError(fmt.Errorf("%w: %v", errInvalidArgument, err))
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

func pick(explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	return fallback
}
