package pricing

import "strings"

// refurbishedTerms mark listings that are not sold brand new
var refurbishedTerms = []string{
	"refurbished", "restored", "renewed", "pre-owned",
	"used", "like new", "open box", "b-grade",
	"condition: good", "condition: fair", "previously owned",
	"second hand", "reconditioned",
}

// carrierTerms mark carrier-locked phones, including the HTML-escaped AT&T
var carrierTerms = []string{"at&t", "at&amp;t", "verizon", "sprint", "tmobile", "t-mobile"}

// IsBrandNew reports whether the title carries no refurbished/used marker
func IsBrandNew(title string) bool {
	return !containsAny(title, refurbishedTerms)
}

// IsValidPrice reports whether a raw price representation is an outright
// sale price. An empty representation is never valid.
func IsValidPrice(text string) bool {
	if text == "" {
		return false
	}
	return !ContainsFinancingTerms(text)
}

// IsCarrierLocked reports whether the title names a mobile carrier
func IsCarrierLocked(title string) bool {
	return containsAny(title, carrierTerms)
}

func containsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
