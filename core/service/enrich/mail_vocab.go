// Package enrich computes derived sentiment/keyword/category metadata from
// message bodies. Enrichment is recomputed on read and never authoritative.
package enrich

// stopwords filtered out of generic keyword extraction.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "all": {}, "also": {}, "an": {},
	"and": {}, "any": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"because": {}, "been": {}, "but": {}, "by": {}, "can": {}, "could": {},
	"did": {}, "do": {}, "does": {}, "for": {}, "from": {}, "get": {},
	"had": {}, "has": {}, "have": {}, "he": {}, "her": {}, "here": {},
	"him": {}, "his": {}, "how": {}, "i": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "its": {}, "just": {}, "let": {},
	"me": {}, "more": {}, "my": {}, "no": {}, "not": {}, "of": {},
	"on": {}, "or": {}, "our": {}, "out": {}, "please": {}, "so": {},
	"some": {}, "than": {}, "that": {}, "the": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {}, "to": {},
	"up": {}, "us": {}, "was": {}, "we": {}, "were": {}, "what": {},
	"when": {}, "which": {}, "who": {}, "will": {}, "with": {}, "would": {},
	"you": {}, "your": {},
}

// topicVocabulary lists the fixed "requested topic" terms matched against the
// lowercased body in the domain-aware strategy.
var topicVocabulary = []string{
	"meeting", "invoice", "deadline", "report", "schedule",
	"payment", "review", "interview", "project", "budget",
	"contract", "proposal", "presentation", "launch",
}

// workVocabulary decides the work category; it takes precedence over
// personalVocabulary when both match.
var workVocabulary = []string{
	"meeting", "project", "deadline", "client", "report",
	"invoice", "budget", "office", "manager", "standup",
	"sprint", "quarterly", "contract",
}

// personalVocabulary decides the personal category.
var personalVocabulary = []string{
	"family", "birthday", "vacation", "dinner", "party",
	"weekend", "friend", "holiday", "wedding", "lunch",
	"movie", "trip",
}

// orgEntityLabels are the prose entity labels treated as organization-like
// mentions for domain-aware keyword extraction.
var orgEntityLabels = map[string]struct{}{
	"ORG":          {},
	"ORGANIZATION": {},
	"GPE":          {},
}
