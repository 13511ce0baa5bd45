// Package testgrammar builds the built-in grammar used by --use-test-rules
// (a 24-scenario coverage suite) and six literal end-to-end scenarios.
// Every coverage nonterminal is named "[ambig-*]" or "[unambig-*]" so
// internal/driver's coverage-checking mode can verify each is classified
// correctly.
package testgrammar

import (
	"github.com/dekarrin/unambig/internal/grammar"
	"github.com/dekarrin/unambig/internal/semalg"
)

// term builds a terminal rule whose display text is the token itself, the
// way a compiled word rule carries its own surface form.
func term(lit string) grammar.Rule {
	return grammar.Rule{IsTerminal: true, Literal: lit, Text: grammar.PlainText(lit)}
}

func termText(lit string, text grammar.TextValue) grammar.Rule {
	return grammar.Rule{IsTerminal: true, Literal: lit, Text: text}
}

func termTense(lit, tense string, text grammar.TextValue) grammar.Rule {
	return grammar.Rule{IsTerminal: true, Literal: lit, Tense: tense, Text: text}
}

func placeholder(sym string) grammar.Rule {
	return grammar.Rule{IsTerminal: true, Literal: sym, IsPlaceholder: true}
}

func unary(sym string) grammar.Rule {
	return grammar.Rule{RHS: []string{sym}}
}

func unarySem(sym string, sem grammar.SemanticValue) grammar.Rule {
	return grammar.Rule{RHS: []string{sym}, Semantic: sem}
}

func unaryPN(sym, pn string) grammar.Rule {
	return grammar.Rule{RHS: []string{sym}, PersonNumber: pn}
}

func binary(a, b string) grammar.Rule {
	return grammar.Rule{RHS: []string{a, b}}
}

func binarySem(a, b string, sem grammar.SemanticValue, secondCanProduce bool) grammar.Rule {
	return grammar.Rule{RHS: []string{a, b}, Semantic: sem, SecondRHSCanProduceSemantic: secondCanProduce, RHSCanProduceSemantic: secondCanProduce}
}

func insertLeft(sym string, text grammar.TextValue) grammar.Rule {
	idx := 0
	return grammar.Rule{RHS: []string{sym}, InsertedSymIndex: &idx, Text: text}
}

func insertRight(sym string, text grammar.TextValue) grammar.Rule {
	idx := 1
	return grammar.Rule{RHS: []string{sym}, InsertedSymIndex: &idx, Text: text}
}

func insertSem(idx int, sym string, text grammar.TextValue, sem grammar.SemanticValue) grammar.Rule {
	i := idx
	return grammar.Rule{RHS: []string{sym}, InsertedSymIndex: &i, Text: text, Semantic: sem}
}

func node(name string, maxParams int, args ...semalg.Node) semalg.Node {
	return semalg.Node{Name: name, MaxParams: maxParams, Args: args}
}

func merge(g grammar.Grammar, pieces ...grammar.Grammar) grammar.Grammar {
	for _, p := range pieces {
		for k, v := range p {
			g[k] = v
		}
	}
	return g
}

// primitives builds the shared symbols: x, xDup, xPar, xParPar, xToY,
// xToYDup, the {pl, threeSg} verb, the insertion fragments
// xInsert/yInsert, and the two multi-word terminals xySingle (literal
// "x y") and xyTermInsert (literal "x", display "x y", as a prior
// insertion compilation would leave it).
func primitives() grammar.Grammar {
	return grammar.Grammar{
		"x":       {term("x")},
		"xDup":    {term("x")},
		"xPar":    {unary("x")},
		"xParPar": {unary("xPar")},

		"xToY":    {termText("x", grammar.PlainText("y"))},
		"xToYDup": {termText("x", grammar.PlainText("y"))},
		"xToZ":    {termText("x", grammar.PlainText("z"))},

		"verb": {termText("verb", grammar.TableText(map[string]string{
			"pl":      "x",
			"threeSg": "y",
		}))},

		"xInsert":      {term("x")},
		"yInsert":      {term("y")},
		"xySingle":     {term("x y")},
		"xyTermInsert": {termText("x", grammar.PlainText("x y"))},
	}
}

// Build returns the bundled --use-test-rules grammar: 24 scenario
// families, each a nonterminal prefixed "[ambig-" or "[unambig-", plus
// the shared primitives they're built from.
func Build() grammar.Grammar {
	g := grammar.Grammar{}
	merge(g, primitives())

	// 1. terminal symbols at equal depths (ambig): two single-rule-depth
	// terminal rules producing the same literal.
	g["[ambig-term-equal-depth]"] = []grammar.Rule{term("x"), term("x")}

	// 2. terminal symbols at different depths (ambig): one rule reaches the
	// terminal directly, the other through an intervening unary nonterminal,
	// same terminals string either way.
	g["depthWrap"] = []grammar.Rule{term("x")}
	g["[ambig-term-diff-depth]"] = []grammar.Rule{term("x"), unary("depthWrap")}

	// 3. nonterminals at equal depths (ambig): xPar and a second rule
	// wrapping the same x symbol through an equally deep nonterminal.
	g["xParDup"] = []grammar.Rule{unary("x")}
	g["[ambig-nt-equal-depth]"] = []grammar.Rule{unary("xPar"), unary("xParDup")}

	// 4. nonterminals at different depths (ambig): xPar vs xParPar.
	g["[ambig-nt-diff-depth]"] = []grammar.Rule{unary("xPar"), unary("xParPar")}

	// 5. binary-rule ambiguity: two different binary splits of "x y".
	g["xyLeft"] = []grammar.Rule{binary("x", "yInsert")}
	g["xyRight"] = []grammar.Rule{binary("xInsert", "y")}
	g["y"] = []grammar.Rule{term("y")}
	g["[ambig-binary]"] = []grammar.Rule{unary("xyLeft"), unary("xyRight")}

	// 6. same-number-of-terminals ambiguity: both sides apply exactly two
	// terminal rules to reach "x y".
	g["[ambig-same-term-count]"] = []grammar.Rule{unary("xyLeft"), unary("xyRight")}

	// 7. different-number-of-terminals ambiguity: one side reaches "x y"
	// via a single multi-word terminal rule, the other via two terminal
	// rules — different terminal-rule counts, identical Terminals string.
	g["[ambig-diff-term-count]"] = []grammar.Rule{unary("xySingle"), unary("xyLeft")}

	// 8. dedupe-by-trim case: three rules all reducing to the same trimmed
	// tree pair under --find-all; reported once per pair regardless.
	g["[ambig-dedupe-trim]"] = []grammar.Rule{term("x"), term("x"), unary("depthWrap")}

	// 9. ambiguity reusing a previously ambiguous path: a third rule that is
	// ambiguous against a path already reported ambiguous with a different
	// rule.
	g["[ambig-reuse-path]"] = []grammar.Rule{term("x"), term("x"), unary("xPar")}

	// 10. multiple ambiguities from one pair of start rules: both rules
	// recurse into sub-nonterminals that are themselves ambiguous, so a
	// single (i,j) rule pair yields more than one ambiguous path pair under
	// --find-all.
	g["dup1"] = []grammar.Rule{term("x"), term("x")}
	g["dup2"] = []grammar.Rule{term("y"), term("y")}
	g["[ambig-multi-from-pair]"] = []grammar.Rule{binary("dup1", "dup2"), binary("dup1", "dup2")}

	// 11. left- and right-recursive rule ambiguity.
	g["leftRec"] = []grammar.Rule{binary("leftRec", "xInsert"), term("x")}
	g["rightRec"] = []grammar.Rule{binary("xInsert", "rightRec"), term("x")}
	g["[ambig-left-right-recursive]"] = []grammar.Rule{unary("leftRec"), unary("rightRec")}

	// 12. recursion inside RHS ambiguity: both start rules recurse through a
	// wrapper whose RHS contains an independently ambiguous symbol, so the
	// ambiguity surfaces below the recursion rather than at the start rules
	// themselves.
	g["recWrapA"] = []grammar.Rule{binary("[ambig-term-equal-depth]", "recWrapA"), term("y")}
	g["recWrapB"] = []grammar.Rule{binary("[ambig-term-equal-depth]", "recWrapB"), term("y")}
	g["[ambig-recursion-in-rhs]"] = []grammar.Rule{unary("recWrapA"), unary("recWrapB")}

	// 13. recursive start rule with repeated rule: the start symbol itself
	// has a self-recursive rule appearing identically twice.
	g["[ambig-recursive-start-repeated]"] = []grammar.Rule{
		binary("[ambig-recursive-start-repeated]", "xInsert"),
		binary("[ambig-recursive-start-repeated]", "xInsert"),
		term("x"),
	}

	// 14. sub-ambiguous RHS producing multiple instances: a binary rule
	// whose second branch is independently ambiguous, so the ambiguity
	// recurs once per instance of the branch.
	g["[ambig-sub-rhs-multi]"] = []grammar.Rule{
		binary("xInsert", "[ambig-term-equal-depth]"),
		binary("xInsert", "[ambig-term-equal-depth]"),
	}

	// 15. ambiguity of one path with two others at different rightmost
	// symbols: rule 0 is ambiguous against rule 1 (which closes) and
	// separately against rule 2 (whose continuation differs).
	g["closesWithX"] = []grammar.Rule{term("x")}
	g["closesWithXDup"] = []grammar.Rule{term("x")}
	g["[ambig-one-vs-two-others]"] = []grammar.Rule{
		unary("closesWithX"),
		unary("closesWithXDup"),
		binary("closesWithXDup", "yInsert"),
	}

	// 16. pair with each path ambiguous against a third: rules 0 and 1 are
	// each independently ambiguous against rule 2, but not (necessarily)
	// against each other.
	g["[ambig-each-vs-third]"] = []grammar.Rule{
		term("x"),
		unary("depthWrap"),
		unary("xParDup"),
	}

	// 17. text-substitution ambig vs. unambig: identical substituted
	// surfaces are ambiguous on their own, but distinguishing semantics on
	// the parent rules override the matching text.
	g["[ambig-text-sub]"] = []grammar.Rule{unary("xToY"), unary("xToYDup")}
	g["xToYSubjA"] = []grammar.Rule{unarySem("xToY", grammar.RHSSemantic(node("subjA", 0)))}
	g["xToYSubjB"] = []grammar.Rule{unarySem("xToYDup", grammar.RHSSemantic(node("subjB", 0)))}
	g["[unambig-text-sub]"] = []grammar.Rule{unary("xToYSubjA"), unary("xToYSubjB")}

	// 18. conjugated-text ambig vs. unambig via person_number: the same tag
	// on both parents resolves both verbs to the same form; distinguishing
	// tags plus distinguishing semantics do not collide.
	g["vSlot"] = []grammar.Rule{unary("verb")}
	g["[ambig-conjugated-text]"] = []grammar.Rule{
		unaryPN("vSlot", "pl"),
		unaryPN("vSlot", "pl"),
	}
	g["vSlotSemA"] = []grammar.Rule{unarySem("verb", grammar.RHSSemantic(node("subjA", 0)))}
	g["vSlotSemB"] = []grammar.Rule{unarySem("verb", grammar.RHSSemantic(node("subjB", 0)))}
	g["[unambig-conjugated-text]"] = []grammar.Rule{
		unaryPN("vSlotSemA", "pl"),
		unaryPN("vSlotSemB", "threeSg"),
	}

	// 19. unconjugated-text ambiguity: enumeration starts below the usual
	// start symbol so no person_number has been seen yet; both paths carry
	// the identical unresolved inflection table and must be compared by
	// deep object equality rather than by resolved string.
	g["[ambig-unconjugated-text]"] = []grammar.Rule{unary("verb"), unary("verb")}

	// 20. inserted-text ambig vs. unambig.
	g["insA"] = []grammar.Rule{insertRight("xInsert", grammar.PlainText("z"))}
	g["insB"] = []grammar.Rule{insertRight("xInsert", grammar.PlainText("z"))}
	g["[ambig-inserted-text]"] = []grammar.Rule{unary("insA"), unary("insB")}
	g["insC"] = []grammar.Rule{insertRight("xInsert", grammar.PlainText("q"))}
	g["[unambig-inserted-text]"] = []grammar.Rule{unary("insA"), unary("insC")}

	// 21. inserted-text spanning multiple rules: one side emits "x" then an
	// inserted "y" via two rules, the other a single terminal whose display
	// text is already "x y" — ambiguous only once adjacent flattened
	// strings are merged.
	g["insMulti"] = []grammar.Rule{insertRight("xInsert", grammar.PlainText("y"))}
	g["[ambig-inserted-text-multi-rule]"] = []grammar.Rule{unary("insMulti"), unary("xyTermInsert")}

	// 22. semantics-over-substitution ambig vs. unambig: equal semantics
	// make a pair ambiguous even when the substituted surfaces differ, and
	// distinct semantics keep a pair unambiguous even when they match.
	g["subSemSameY"] = []grammar.Rule{unarySem("xToY", grammar.RHSSemantic(node("same", 0)))}
	g["subSemSameZ"] = []grammar.Rule{unarySem("xToZ", grammar.RHSSemantic(node("same", 0)))}
	g["[ambig-semantics-over-sub]"] = []grammar.Rule{unary("subSemSameY"), unary("subSemSameZ")}
	g["subSemOtherY"] = []grammar.Rule{unarySem("xToYDup", grammar.RHSSemantic(node("other", 0)))}
	g["[unambig-semantics-over-sub]"] = []grammar.Rule{unary("subSemSameY"), unary("subSemOtherY")}

	// 23. semantics-across-multiple-rules: the same reduced semantic is
	// assembled via a different sequence of Append/Reduce calls (and at a
	// different depth) on each side, so equality can only be checked after
	// forced completion.
	g["semLeaf"] = []grammar.Rule{unarySem("x", grammar.RHSSemantic(node("leaf", 0)))}
	g["semLeafDup"] = []grammar.Rule{unarySem("xDup", grammar.RHSSemantic(node("leaf", 0)))}
	g["semWrapA"] = []grammar.Rule{unarySem("semLeaf", grammar.LHSSemantic(node("wrap", 1)))}
	g["semMid"] = []grammar.Rule{unary("semLeafDup")}
	g["semWrapB"] = []grammar.Rule{unarySem("semMid", grammar.LHSSemantic(node("wrap", 1)))}
	g["[ambig-semantics-multi-rule]"] = []grammar.Rule{unary("semWrapA"), unary("semWrapB")}

	// 24. inserted-semantic ambig vs. unambig.
	g["insSemA"] = []grammar.Rule{insertSem(1, "xInsert", grammar.PlainText("z"), grammar.SemanticValue{})}
	g["insSemA"][0].InsertedSemantic = grammar.RHSSemantic(node("ins", 0))
	g["insSemB"] = []grammar.Rule{insertSem(1, "xInsert", grammar.PlainText("z"), grammar.SemanticValue{})}
	g["insSemB"][0].InsertedSemantic = grammar.RHSSemantic(node("ins", 0))
	g["[ambig-inserted-semantic]"] = []grammar.Rule{unary("insSemA"), unary("insSemB")}
	g["insSemC"] = []grammar.Rule{insertSem(1, "xInsert", grammar.PlainText("z"), grammar.SemanticValue{})}
	g["insSemC"][0].InsertedSemantic = grammar.RHSSemantic(node("other", 0))
	g["[unambig-inserted-semantic]"] = []grammar.Rule{unary("insSemA"), unary("insSemC")}

	// 25. semantics-sorted: the same two-functor array is assembled in
	// opposite orders on each side; only equal after ForceComplete's
	// canonical sort.
	g["ordAlphaX"] = []grammar.Rule{unarySem("x", grammar.RHSSemantic(node("alpha", 0)))}
	g["ordBetaX"] = []grammar.Rule{unarySem("xDup", grammar.RHSSemantic(node("beta", 0)))}
	g["ordAlphaY"] = []grammar.Rule{unarySem("yInsert", grammar.RHSSemantic(node("alpha", 0)))}
	g["ordBetaY"] = []grammar.Rule{unarySem("yInsert", grammar.RHSSemantic(node("beta", 0)))}
	g["ordLeft"] = []grammar.Rule{binarySem("ordAlphaX", "ordBetaY", grammar.SemanticValue{}, true)}
	g["ordRight"] = []grammar.Rule{binarySem("ordBetaX", "ordAlphaY", grammar.SemanticValue{}, true)}
	g["[ambig-semantics-sorted]"] = []grammar.Rule{unary("ordLeft"), unary("ordRight")}

	// 26. empty-terminal semantic: both sides yield a fully-reduced, empty
	// semantic array over an empty terminal, so they're only ambiguous if
	// ArraysEqual treats both-empty as equal.
	g["emptyTerm"] = []grammar.Rule{{IsTerminal: true, Literal: ""}}
	g["emptySemA"] = []grammar.Rule{unarySem("emptyTerm", grammar.RHSSemantic())}
	g["emptySemB"] = []grammar.Rule{unarySem("emptyTerm", grammar.RHSSemantic())}
	g["[ambig-empty-terminal-semantic]"] = []grammar.Rule{unary("emptySemA"), unary("emptySemB")}

	return g
}

// ScenarioA builds Scenario A: S -> xPar | xDup, budget 9 should
// report exactly one ambiguous pair whose Terminals is " x".
func ScenarioA() grammar.Grammar {
	g := primitives()
	g["S"] = []grammar.Rule{unary("xPar"), unary("xDup")}
	return g
}

// ScenarioB builds Scenario B: S -> "x" | xParPar, where
// xParPar -> xPar -> x. The trimmed trees differ in depth, not in
// terminals.
func ScenarioB() grammar.Grammar {
	g := primitives()
	g["S"] = []grammar.Rule{term("x"), unary("xParPar")}
	return g
}

// ScenarioC builds Scenario C: S -> x | xDup | "x". Without
// --find-all exactly one pair is reported; with it, three are.
func ScenarioC() grammar.Grammar {
	g := primitives()
	g["S"] = []grammar.Rule{unary("x"), unary("xDup"), term("x")}
	return g
}

// ScenarioD builds Scenario D (text substitution): xToY -> "x"
// with surface "y", xToYDup -> "x" with surface "y". S -> xToY | xToYDup is
// ambiguous by the matching substituted text, since neither side carries a
// distinguishing semantic.
func ScenarioD() grammar.Grammar {
	g := primitives()
	g["S"] = []grammar.Rule{unary("xToY"), unary("xToYDup")}
	return g
}

// ScenarioE builds Scenario E (conjugation): a verb with forms
// {pl: "x", threeSg: "y"}; parent1/parent2 both tag person_number=pl (S1,
// ambiguous), while parent3/parent4 tag pl vs threeSg with distinguishing
// semantics (S2, not ambiguous).
func ScenarioE() grammar.Grammar {
	g := primitives()
	g["S1"] = []grammar.Rule{unaryPN("verb", "pl"), unaryPN("verb", "pl")}
	g["verbSemA"] = []grammar.Rule{unarySem("verb", grammar.RHSSemantic(node("subjA", 0)))}
	g["verbSemB"] = []grammar.Rule{unarySem("verb", grammar.RHSSemantic(node("subjB", 0)))}
	g["S2"] = []grammar.Rule{unaryPN("verbSemA", "pl"), unaryPN("verbSemB", "threeSg")}
	return g
}

// ScenarioF builds Scenario F (inserted text across rules): one rule
// reaches terminal "x" and then emits an inserted "y", the other reaches a
// single terminal "x" whose compiled display text is already "x y";
// ambiguous only after the flattening-merge of adjacent strings.
func ScenarioF() grammar.Grammar {
	g := primitives()
	g["insertedXY"] = []grammar.Rule{insertRight("xInsert", grammar.PlainText("y"))}
	g["S"] = []grammar.Rule{unary("insertedXY"), unary("xyTermInsert")}
	return g
}
