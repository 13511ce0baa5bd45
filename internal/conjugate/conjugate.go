// Package conjugate resolves a grammar.TextValue — a plain string, an
// inflection-table object, or a sequence of either — against whatever
// grammatical properties are in scope at a given point in a derivation.
package conjugate

import (
	"github.com/dekarrin/unambig/internal/ambigerr"
	"github.com/dekarrin/unambig/internal/grammar"
	"github.com/dekarrin/unambig/internal/pnlist"

	"golang.org/x/text/cases"
)

var foldKey = cases.Fold()

// Resolve runs the four-step resolution order: required tense, then
// accepted-tense match, then grammatical case, then person-number.
// gramProps and pn may both be nil; tense may be empty. A TextPlain value
// is already resolved and is returned unchanged. A TextTable value is
// matched, in order, against gram_props.tense, then the supplied tense
// compared to gram_props.accepted_tense, then gram_props.case, then the
// head of the person-number list; the first hit wins. A TextSequence is
// resolved element-wise and re-joined into a single plain string only if
// every element resolved.
//
// If none of the four governing properties are available at all, the
// table is passed through unresolved — enumeration can begin below the
// ordinary start symbol, where no property has been seen yet, and that is
// not an error. If at least one property is available but matches no
// form in the table, that is a fatal conjugation failure.
func Resolve(text grammar.TextValue, pn *pnlist.Entry, gramProps *grammar.GramProps, tense string) (grammar.TextValue, error) {
	switch text.Kind {
	case grammar.TextNone, grammar.TextPlain:
		return text, nil
	case grammar.TextTable:
		return resolveTable(text, pn, gramProps, tense)
	case grammar.TextSequence:
		return resolveSequence(text, pn, gramProps, tense)
	default:
		return text, nil
	}
}

func resolveTable(text grammar.TextValue, pn *pnlist.Entry, gramProps *grammar.GramProps, tense string) (grammar.TextValue, error) {
	personNumber := pnlist.Head(pn)

	var requiredTense, acceptedTense, gramCase string
	if gramProps != nil {
		requiredTense = gramProps.RequiredTense
		acceptedTense = gramProps.AcceptedTense
		gramCase = gramProps.Case
	}

	available := requiredTense != "" || tense != "" || gramCase != "" || personNumber != ""
	if !available {
		return text, nil
	}

	if requiredTense != "" {
		if form, ok := lookupFolded(text.Table, requiredTense); ok {
			return grammar.PlainText(form), nil
		}
	}
	if tense != "" && acceptedTense != "" && tense == acceptedTense {
		if form, ok := lookupFolded(text.Table, tense); ok {
			return grammar.PlainText(form), nil
		}
	}
	if gramCase != "" {
		if form, ok := lookupFolded(text.Table, gramCase); ok {
			return grammar.PlainText(form), nil
		}
	}
	if personNumber != "" {
		if form, ok := lookupFolded(text.Table, personNumber); ok {
			return grammar.PlainText(form), nil
		}
	}

	return grammar.TextValue{}, ambigerr.ConjugationFailure("no inflected form matched an available grammatical property")
}

func resolveSequence(text grammar.TextValue, pn *pnlist.Entry, gramProps *grammar.GramProps, tense string) (grammar.TextValue, error) {
	resolved := make([]grammar.TextValue, len(text.Seq))
	allPlain := true
	for i, elem := range text.Seq {
		r, err := Resolve(elem, pn, gramProps, tense)
		if err != nil {
			return grammar.TextValue{}, err
		}
		resolved[i] = r
		if r.Kind != grammar.TextPlain {
			allPlain = false
		}
	}
	if allPlain {
		var joined string
		for _, r := range resolved {
			joined += r.Plain
		}
		return grammar.PlainText(joined), nil
	}
	return grammar.SeqText(resolved...), nil
}

// lookupFolded looks up key in table, case-folding both the query key and
// every table key before comparing. The underlying grammar data may mix
// case conventions across rule sources; the resolved *values* still
// compare exactly, only the lookup key folds case.
func lookupFolded(table map[string]string, key string) (string, bool) {
	if v, ok := table[key]; ok {
		return v, true
	}
	folded := foldKey.String(key)
	for k, v := range table {
		if foldKey.String(k) == folded {
			return v, true
		}
	}
	return "", false
}
