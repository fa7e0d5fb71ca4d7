package enrich

import (
	"strings"
	"unicode"

	prose "github.com/jdkato/prose/v2"

	"github.com/chadBookW/email-final/pkg/logger"
)

// genericKeywords returns up to max non-stopword, non-punctuation tokens in
// document order, lowercased and deduplicated.
func genericKeywords(text string, max int) []string {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false))
	if err != nil {
		logger.WithError(err).Warn("Keyword tokenization failed")
		return []string{}
	}

	seen := make(map[string]struct{})
	keywords := make([]string, 0, max)
	for _, tok := range doc.Tokens() {
		word := strings.ToLower(tok.Text)
		if !isWord(word) {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) >= max {
			break
		}
	}
	return keywords
}

// domainKeywords unions named-organization mentions with requested-topic
// matches, deduplicated, bounded by max.
func domainKeywords(text string, max int) []string {
	seen := make(map[string]struct{})
	keywords := make([]string, 0, max)

	add := func(word string) {
		if len(keywords) >= max {
			return
		}
		key := strings.ToLower(word)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		keywords = append(keywords, word)
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		logger.WithError(err).Warn("Entity extraction failed")
	} else {
		for _, ent := range doc.Entities() {
			if _, ok := orgEntityLabels[ent.Label]; ok {
				add(ent.Text)
			}
		}
	}

	lowered := strings.ToLower(text)
	for _, topic := range topicVocabulary {
		if strings.Contains(lowered, topic) {
			add(topic)
		}
	}

	return keywords
}

// isWord reports whether a token carries at least one letter or digit, which
// filters out bare punctuation tokens.
func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
