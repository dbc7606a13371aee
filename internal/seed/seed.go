// Package seed holds the built-in dataset loaded on first run and whenever
// stored data can't be read.
package seed

import (
	"time"

	"github.com/rpggio/cabinet/internal/domain/billing"
	"github.com/rpggio/cabinet/internal/domain/client"
	"github.com/rpggio/cabinet/internal/domain/deadline"
	"github.com/rpggio/cabinet/internal/domain/mission"
	"github.com/rpggio/cabinet/internal/domain/timeentry"
	"github.com/rpggio/cabinet/internal/domain/user"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// Users returns the default team.
func Users() []user.User {
	return []user.User{
		{
			ID:           "1",
			Email:        "admin@4aconsulting.ma",
			FirstName:    "Ahmed",
			LastName:     "Bennani",
			Role:         user.RoleAdmin,
			Team:         "Direction",
			InternalCost: 800,
			IsActive:     true,
			LastLogin:    ptr(at(2024, time.January, 15, 9, 0)),
		},
		{
			ID:           "2",
			Email:        "fatima.alami@4aconsulting.ma",
			FirstName:    "Fatima",
			LastName:     "Alami",
			Role:         user.RoleManager,
			Team:         "Fiscal",
			InternalCost: 600,
			IsActive:     true,
			LastLogin:    ptr(at(2024, time.January, 15, 8, 30)),
		},
		{
			ID:           "3",
			Email:        "youssef.tahiri@4aconsulting.ma",
			FirstName:    "Youssef",
			LastName:     "Tahiri",
			Role:         user.RoleCollaborator,
			Team:         "Comptabilité",
			InternalCost: 400,
			IsActive:     true,
			LastLogin:    ptr(at(2024, time.January, 15, 9, 15)),
		},
	}
}

// Clients returns the default client portfolio.
func Clients() []client.Client {
	return []client.Client{
		{
			ID:              "1",
			CompanyName:     "TechnoMaroc SARL",
			RC:              "123456",
			ICE:             "001234567890123",
			IF:              "12345678",
			CNSS:            "1234567",
			VATRegime:       client.VATRegimeNormal,
			VATPeriodicity:  client.VATMonthly,
			FiscalYearStart: date(2024, time.January, 1),
			FiscalYearEnd:   date(2024, time.December, 31),
			Contacts: []client.Contact{{
				ID:        "1",
				FirstName: "Hassan",
				LastName:  "Kettani",
				Email:     "h.kettani@technomaroc.ma",
				Phone:     "+212 5 22 34 56 78",
				Position:  "Directeur Général",
				IsPrimary: true,
			}},
			Address: client.Address{
				Street:     "123 Boulevard Mohammed V",
				City:       "Casablanca",
				PostalCode: "20000",
				Country:    "Maroc",
			},
			Sector:    "Technologie",
			Currency:  client.CurrencyMAD,
			CreatedAt: date(2023, time.June, 1),
			IsActive:  true,
			Contracts: []client.Contract{{
				ID:        "1",
				ClientID:  "1",
				Name:      "Contrat Comptabilité 2024",
				Type:      "accounting",
				StartDate: date(2024, time.January, 1),
				EndDate:   ptr(date(2024, time.December, 31)),
				Items: []client.ContractItem{
					{ID: "1", Description: "Tenue de comptabilité mensuelle", Type: client.ItemFixed, Amount: 3000},
					{ID: "2", Description: "Conseil fiscal", Type: client.ItemUnitPrice, Amount: 500, Unit: "heure"},
				},
				TotalAmount: 3000,
				Currency:    client.CurrencyMAD,
				Status:      "active",
				CreatedAt:   date(2023, time.December, 1),
			}},
		},
		{
			ID:              "2",
			CompanyName:     "AtlasExport SA",
			RC:              "789012",
			ICE:             "001789012345678",
			IF:              "87901234",
			CNSS:            "7890123",
			VATRegime:       client.VATRegimeNormal,
			VATPeriodicity:  client.VATQuarterly,
			FiscalYearStart: date(2024, time.January, 1),
			FiscalYearEnd:   date(2024, time.December, 31),
			Contacts: []client.Contact{{
				ID:        "2",
				FirstName: "Aicha",
				LastName:  "Benali",
				Email:     "a.benali@atlasexport.ma",
				Phone:     "+212 5 37 12 34 56",
				Position:  "Directrice Financière",
				IsPrimary: true,
			}},
			Address: client.Address{
				Street:     "45 Avenue des FAR",
				City:       "Rabat",
				PostalCode: "10000",
				Country:    "Maroc",
			},
			Sector:     "Export",
			IsFreeZone: true,
			Currency:   client.CurrencyEUR,
			CreatedAt:  date(2023, time.August, 15),
			IsActive:   true,
			Contracts: []client.Contract{{
				ID:        "2",
				ClientID:  "2",
				Name:      "Contrat Paie 2024",
				Type:      "payroll",
				StartDate: date(2024, time.January, 1),
				EndDate:   ptr(date(2024, time.December, 10)),
				Items: []client.ContractItem{{
					ID:          "3",
					Description: "Paie mensuelle",
					Type:        client.ItemTiered,
					Amount:      2000,
					Tiers: []client.ContractTier{
						{From: 1, To: ptr(20.0), Price: 2000},
						{From: 21, Price: 30},
					},
				}},
				TotalAmount: 2000,
				Currency:    client.CurrencyMAD,
				Status:      "active",
				CreatedAt:   date(2023, time.December, 1),
			}},
		},
	}
}

// Missions returns the default missions.
func Missions() []mission.Mission {
	return []mission.Mission{
		{
			ID:          "1",
			ClientID:    "1",
			Title:       "Déclaration TVA Janvier 2024",
			Description: "Préparation et dépôt de la déclaration TVA mensuelle",
			Type:        mission.TypeVAT,
			Status:      mission.StatusInProgress,
			Priority:    mission.PriorityHigh,
			StartDate:   date(2024, time.January, 15),
			EndDate:     date(2024, time.February, 1),
			BudgetHours: 8,
			ManagerID:   "2",
			AssignedTo:  []string{"3"},
			Tasks: []mission.Task{
				{
					ID:             "1",
					MissionID:      "1",
					Title:          "Collecte des factures",
					AssignedTo:     "3",
					Status:         mission.TaskDone,
					Priority:       mission.PriorityHigh,
					EstimatedHours: 2,
					DateFin:        ptr(at(2024, time.January, 18, 17, 0)),
					Checklist: []mission.ChecklistItem{
						{ID: "1", Text: "Factures d'achat", Completed: true},
						{ID: "2", Text: "Factures de vente", Completed: true},
					},
					CreatedAt: date(2024, time.January, 15),
					UpdatedAt: date(2024, time.January, 18),
				},
				{
					ID:             "2",
					MissionID:      "1",
					Title:          "Dépôt SIMPL-TVA",
					AssignedTo:     "3",
					Status:         mission.TaskTodo,
					Priority:       mission.PriorityHigh,
					EstimatedHours: 1,
					EndDate:        ptr(date(2024, time.February, 1)),
					CreatedAt:      date(2024, time.January, 15),
					UpdatedAt:      date(2024, time.January, 15),
				},
			},
			CreatedAt: date(2024, time.January, 15),
			UpdatedAt: date(2024, time.January, 15),
		},
		{
			ID:            "2",
			ClientID:      "2",
			Title:         "Audit Comptable Q4 2023",
			Description:   "Révision des comptes du quatrième trimestre",
			Type:          mission.TypeAudit,
			Status:        mission.StatusTodo,
			Priority:      mission.PriorityMedium,
			BudgetHours:   40,
			ConsumedHours: 35,
			StartDate:     date(2024, time.January, 5),
			EndDate:       date(2024, time.January, 25),
			ManagerID:     "2",
			AssignedTo:    []string{"3"},
			CreatedAt:     date(2024, time.January, 5),
			UpdatedAt:     date(2024, time.January, 15),
		},
	}
}

// TimeEntries returns the default time entries.
func TimeEntries() []timeentry.TimeEntry {
	return []timeentry.TimeEntry{{
		ID:            "1",
		UserID:        "3",
		ClientID:      "1",
		MissionID:     "1",
		StartTime:     at(2024, time.January, 15, 9, 0),
		EndTime:       ptr(at(2024, time.January, 15, 12, 30)),
		Duration:      210,
		BreakDuration: 15,
		Description:   "Saisie des écritures comptables",
		Tags:          []string{"saisie", "comptabilité"},
		Status:        timeentry.StatusApproved,
		CreatedAt:     at(2024, time.January, 15, 12, 30),
	}}
}

// Deadlines returns the default statutory calendar.
func Deadlines() []deadline.Deadline {
	mk := func(id, clientID string, typ deadline.Type, title, period string, due time.Time, status deadline.Status, priority, assignee string, docs ...string) deadline.Deadline {
		return deadline.Deadline{
			ID:         id,
			ClientID:   clientID,
			Type:       typ,
			Title:      title,
			DueDate:    due,
			Period:     period,
			Status:     status,
			Priority:   priority,
			AssignedTo: assignee,
			Documents:  docs,
			CreatedAt:  date(2024, time.January, 15),
			UpdatedAt:  date(2024, time.January, 15),
		}
	}
	return []deadline.Deadline{
		mk("1", "1", deadline.TypeVAT, "Déclaration TVA Janvier 2024", "Janvier 2024", date(2024, time.February, 20), deadline.StatusInProgress, "high", "3"),
		mk("2", "2", deadline.TypeCorporateTax, "Acompte IS Q1 2024", "Q1 2024", date(2024, time.March, 31), deadline.StatusPending, "medium", "2"),
		mk("3", "1", deadline.TypeCNSS, "Déclaration CNSS Janvier 2024", "Janvier 2024", date(2024, time.February, 15), deadline.StatusOverdue, "urgent", "3", "doc1.pdf"),
		mk("4", "2", deadline.TypeIncomeTax, "IR Salaires Janvier 2024", "Janvier 2024", date(2024, time.February, 28), deadline.StatusCompleted, "medium", "2", "ir_jan.pdf", "attestation.pdf"),
		mk("5", "1", deadline.TypeVAT, "Déclaration TVA Février 2024", "Février 2024", date(2024, time.March, 20), deadline.StatusPending, "high", "3"),
	}
}

// Invoices returns the default invoices.
func Invoices() []billing.Invoice {
	items := billing.Normalize([]billing.Item{
		{ID: "1", Description: "Tenue de comptabilité janvier", Quantity: 1, UnitPrice: 3000},
		{ID: "2", Description: "Frais de timbre", Quantity: 1, UnitPrice: 100, IsExpense: true},
	}, 20)
	return []billing.Invoice{{
		ID:            "1",
		ClientID:      "1",
		InvoiceNumber: "FAC-2024-001",
		Date:          date(2024, time.January, 31),
		DueDate:       date(2024, time.February, 29),
		Currency:      client.CurrencyMAD,
		Items:         items,
		VATRate:       20,
		Totals:        billing.DocumentTotals(items, 20),
		Status:        billing.InvoiceSent,
		CreatedAt:     date(2024, time.January, 31),
		UpdatedAt:     date(2024, time.January, 31),
	}}
}

// Quotes returns the default quotes.
func Quotes() []billing.Quote {
	return []billing.Quote{}
}

// CreditNotes returns the default credit notes.
func CreditNotes() []billing.CreditNote {
	return []billing.CreditNote{}
}
