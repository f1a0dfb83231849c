// Package accounts maps free-text account mentions onto real accounts.
package accounts

import "github.com/chatledger/chatledger/internal/domain/recon/textscan"

// brandAliases lists the spellings users actually type for well-known
// account and brand names: handles, transliteration variants, common
// misspellings. Keys and values are stored folded.
var brandAliases = map[string][]string{
	"monobank":   {"моно", "монобанк", "mono", "mono bank", "манобанк"},
	"privatbank": {"приват", "приват24", "privat", "privat24", "приватбанк"},
	"tinkoff":    {"тинькофф", "тиньков", "тинек", "tinkov"},
	"sberbank":   {"сбер", "сбербанк", "sber"},
	"revolut":    {"револют", "революта", "revoult"},
	"wise":       {"вайз", "уайз", "transferwise"},
	"binance":    {"бинанс", "бинанc", "бинанса"},
	"bybit":      {"байбит", "бабит"},
	"kaspi":      {"каспи", "каспий"},
	"pumb":       {"пумб"},
	"cash":       {"наличные", "наличка", "нал", "кэш", "кеш"},
}

// aliasesFor returns the extra spellings that apply to an account whose
// folded name matches (or fuzzily matches) a known brand.
func aliasesFor(foldedName string) []string {
	if list, ok := brandAliases[foldedName]; ok {
		return list
	}
	for brand, list := range brandAliases {
		if textscan.FuzzyEqual(foldedName, brand, 2) {
			return list
		}
		for _, alias := range list {
			if textscan.Fold(alias) == foldedName {
				return append([]string{brand}, list...)
			}
		}
	}
	return nil
}
