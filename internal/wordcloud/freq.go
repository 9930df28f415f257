package wordcloud

import (
	"sort"
	"strings"
	"unicode"
)

// minSourceWords is the smallest filtered token stream worth rendering.
const minSourceWords = 3

const maxBigrams = 30

// englishStopwords is the usual function-word list.
var englishStopwords = map[string]bool{}

// domainStopwords are words so common in consultation feedback that they
// drown out everything informative in a cloud.
var domainStopwords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`the and for with this that from are was were been being have has had
		not but all any can could should would will shall may might must our your their its his her was
		who whom whose which what when where why how there here than then them they you she him one two
		also into out about above below over under again further more most other some such only own same
		too very just because while during before after between both each few once these those does did
		doing off nor until against per via upon within without among although however therefore thus`) {
		englishStopwords[w] = true
	}
	for _, w := range strings.Fields(`user comment suggestion propose draft legislation amendment provision
		section act rule mca stakeholder company government clause say recommend proviso submit state`) {
		domainStopwords[w] = true
	}
}

func keep(token string) bool {
	if len(token) < 3 {
		return false
	}
	return !englishStopwords[token] && !domainStopwords[token]
}

// tokenize lowercases the texts and splits on everything that is not a
// letter or digit.
func tokenize(texts []string) []string {
	var tokens []string
	for _, text := range texts {
		fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, f := range fields {
			if keep(f) {
				tokens = append(tokens, f)
			}
		}
	}
	return tokens
}

// BuildFrequencies turns raw texts into a word-frequency table: unigram
// counts over the filtered token stream, plus the top repeated bigrams
// folded in as "first_second". Returns nil when there is too little text
// to render anything meaningful.
func BuildFrequencies(texts []string) map[string]int {
	tokens := tokenize(texts)
	if len(tokens) < minSourceWords {
		return nil
	}

	freqs := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		freqs[tok]++
	}

	bigrams := make(map[string]int)
	for i := 0; i+1 < len(tokens); i++ {
		bigrams[tokens[i]+"_"+tokens[i+1]]++
	}
	type pair struct {
		gram  string
		count int
	}
	var repeated []pair
	for gram, count := range bigrams {
		if count > 1 {
			repeated = append(repeated, pair{gram, count})
		}
	}
	sort.Slice(repeated, func(i, j int) bool {
		if repeated[i].count != repeated[j].count {
			return repeated[i].count > repeated[j].count
		}
		return repeated[i].gram < repeated[j].gram
	})
	if len(repeated) > maxBigrams {
		repeated = repeated[:maxBigrams]
	}
	for _, p := range repeated {
		freqs[p.gram] = p.count
	}

	return freqs
}
