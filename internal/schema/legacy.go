package schema

// LegacyVariant is an older column layout that is accepted with reduced data
// instead of being rejected. Each variant is a predicate over the parsed
// header plus a relaxation of the missing-column rule.
type LegacyVariant struct {
	Name        string
	Description string

	// Applies reports whether the variant matches a header for a schema.
	Applies func(s Schema, h Header) bool

	// Tolerates reports whether a missing schema column is acceptable.
	Tolerates func(column string) bool
}

// ToleratesAll reports whether every missing column is tolerated.
func (v *LegacyVariant) ToleratesAll(missing []string) bool {
	for _, col := range missing {
		if !v.Tolerates(col) {
			return false
		}
	}
	return true
}

// LegacyPaymentLog is the payment log written before the monthly breakdown
// existed: it has a "paymentMonth" column and none of the current detail
// column. Its fields used English names, which the decoder reads as aliases,
// so any current column may be missing.
var LegacyPaymentLog = LegacyVariant{
	Name:        "legacy payment log",
	Description: "older payment log layout, some fields may be empty",
	Applies: func(s Schema, h Header) bool {
		return s.Name == PaymentLog.Name &&
			h.Has("paymentmonth") &&
			!h.Has("detalle_meses_pagados")
	},
	Tolerates: func(string) bool { return true },
}

// LegacyRoster is the roster written before tags existed: workshop id and
// student name only.
var LegacyRoster = LegacyVariant{
	Name:        "legacy roster",
	Description: "roster without a tags column, tags will be empty",
	Applies: func(s Schema, h Header) bool {
		return s.Name == Roster.Name &&
			h.Has("nombre_alumno") &&
			!h.Has("tags_alumno")
	},
	Tolerates: func(column string) bool { return column == "tags_alumno" },
}

// KnownLegacyVariants is the closed set of tolerated layouts.
var KnownLegacyVariants = []*LegacyVariant{&LegacyPaymentLog, &LegacyRoster}

// MatchLegacyVariant returns the first known variant that applies, or nil.
func MatchLegacyVariant(s Schema, h Header) *LegacyVariant {
	for _, v := range KnownLegacyVariants {
		if v.Applies(s, h) {
			return v
		}
	}
	return nil
}
