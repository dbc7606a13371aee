// Package billing computes document totals and stores invoices, quotes and
// credit notes.
package billing

import (
	"fmt"

	"github.com/rpggio/cabinet/internal/domain/client"
)

// FreeZoneWarningText is shown when VAT is applied to a free-zone client.
const FreeZoneWarningText = "Attention : ce client est en Zone Franche. Êtes-vous sûr de vouloir appliquer la TVA ?"

// LineTotal is quantity times unit price. Negative amounts pass through.
func LineTotal(item Item) float64 {
	return item.Quantity * item.UnitPrice
}

// EffectiveVATRate is 0 for expense lines and the line rate otherwise.
func EffectiveVATRate(item Item) float64 {
	if item.IsExpense {
		return 0
	}
	return item.VATRate
}

// DocumentTotals sums the lines. VAT is charged at the document rate on
// non-expense lines only.
func DocumentTotals(items []Item, documentVATRate float64) Totals {
	var subtotal, taxable float64
	for _, item := range items {
		line := LineTotal(item)
		subtotal += line
		if !item.IsExpense {
			taxable += line
		}
	}
	vat := taxable * documentVATRate / 100
	return Totals{
		Subtotal:  subtotal,
		VATAmount: vat,
		Total:     subtotal + vat,
	}
}

// ValidateUniformRates rejects non-expense lines carrying a non-zero rate
// different from the document rate. A zero line rate means the line has no
// rate of its own and inherits the document rate in Normalize.
func ValidateUniformRates(items []Item, documentVATRate float64) error {
	for i, item := range items {
		if item.IsExpense || item.VATRate == 0 {
			continue
		}
		if item.VATRate != documentVATRate {
			return fmt.Errorf("%w: line %d has %.2f%%, document has %.2f%%", ErrMixedVATRates, i+1, item.VATRate, documentVATRate)
		}
	}
	return nil
}

// Normalize returns a copy of items with cached totals recomputed, expense
// lines zero-rated and every other line carrying the document rate, so each
// line reports the rate DocumentTotals charges it.
func Normalize(items []Item, documentVATRate float64) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		item.Total = LineTotal(item)
		if item.IsExpense {
			item.VATRate = 0
		} else {
			item.VATRate = documentVATRate
		}
		out[i] = item
	}
	return out
}

// FreeZoneWarning returns an advisory when a free-zone client would be
// charged VAT, or "" otherwise. The lines are not changed.
func FreeZoneWarning(c client.Client, items []Item, documentVATRate float64) string {
	if !c.IsFreeZone {
		return ""
	}
	for _, item := range items {
		if item.IsExpense {
			continue
		}
		if EffectiveVATRate(item) > 0 || documentVATRate > 0 {
			return FreeZoneWarningText
		}
	}
	return ""
}
