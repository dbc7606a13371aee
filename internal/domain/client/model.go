package client

import "time"

// VATRegime is the client's VAT regime.
type VATRegime string

const (
	VATRegimeNormal     VATRegime = "normal"
	VATRegimeSimplified VATRegime = "simplified"
	VATRegimeExempt     VATRegime = "exempt"
)

// VATPeriodicity is how often the client files VAT.
type VATPeriodicity string

const (
	VATMonthly   VATPeriodicity = "monthly"
	VATQuarterly VATPeriodicity = "quarterly"
)

// Currency is an ISO currency code used across billing.
type Currency string

const (
	CurrencyMAD Currency = "MAD"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// UnknownName is displayed when a reference points to no client.
const UnknownName = "Client inconnu"

// Client is a company served by the firm.
type Client struct {
	ID              string         `json:"id"`
	CompanyName     string         `json:"company_name"`
	RC              string         `json:"rc,omitempty"`
	ICE             string         `json:"ice,omitempty"`
	IF              string         `json:"if,omitempty"`
	CNSS            string         `json:"cnss,omitempty"`
	VATRegime       VATRegime      `json:"vat_regime"`
	VATPeriodicity  VATPeriodicity `json:"vat_periodicity,omitempty"`
	FiscalYearStart time.Time      `json:"fiscal_year_start"`
	FiscalYearEnd   time.Time      `json:"fiscal_year_end"`
	Contacts        []Contact      `json:"contacts"`
	Address         Address        `json:"address"`
	Sector          string         `json:"sector,omitempty"`
	IsFreeZone      bool           `json:"is_free_zone"`
	Currency        Currency       `json:"currency"`
	Contracts       []Contract     `json:"contracts"`
	CreatedAt       time.Time      `json:"created_at"`
	IsActive        bool           `json:"is_active"`
}

// Contact is a person at the client company.
type Contact struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Position  string `json:"position,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

// Address is a postal address.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// ItemType describes how a contract item is priced.
type ItemType string

const (
	ItemFixed     ItemType = "fixed"
	ItemUnitPrice ItemType = "unit_price"
	ItemTiered    ItemType = "tiered"
)

// Contract is a billing agreement with a client.
type Contract struct {
	ID          string         `json:"id"`
	ClientID    string         `json:"client_id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     *time.Time     `json:"end_date,omitempty"`
	Items       []ContractItem `json:"items"`
	TotalAmount float64        `json:"total_amount"`
	Currency    Currency       `json:"currency"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ContractItem is one billable component of a contract.
type ContractItem struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Type        ItemType       `json:"type"`
	Amount      float64        `json:"amount"`
	Quantity    *float64       `json:"quantity,omitempty"`
	Unit        string         `json:"unit,omitempty"`
	Tiers       []ContractTier `json:"tiers"`
}

// ContractTier prices a quantity band. A nil To is unbounded.
type ContractTier struct {
	From  float64  `json:"from"`
	To    *float64 `json:"to,omitempty"`
	Price float64  `json:"price"`
}

func (c Client) EntityID() string { return c.ID }

// Normalized returns c with every nested list non-nil.
func (c Client) Normalized() Client {
	if c.Contacts == nil {
		c.Contacts = []Contact{}
	}
	if c.Contracts == nil {
		c.Contracts = []Contract{}
	}
	for i := range c.Contracts {
		ct := &c.Contracts[i]
		if ct.Items == nil {
			ct.Items = []ContractItem{}
		}
		for j := range ct.Items {
			if ct.Items[j].Tiers == nil {
				ct.Items[j].Tiers = []ContractTier{}
			}
		}
	}
	return c
}

// PrimaryContact returns the contact flagged primary, or the first one.
func (c Client) PrimaryContact() (Contact, bool) {
	for _, ct := range c.Contacts {
		if ct.IsPrimary {
			return ct, true
		}
	}
	if len(c.Contacts) > 0 {
		return c.Contacts[0], true
	}
	return Contact{}, false
}
