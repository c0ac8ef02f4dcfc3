package service

import "github.com/samber/lo"

// stopWords are common English function words never used as search terms.
// Tokens shorter than three runes are dropped before this lookup, so only longer words are listed.
var stopWords = lo.Keyify([]string{
	"about", "above", "after", "again", "against", "all", "also", "and", "any", "are", "aren't",
	"because", "been", "before", "being", "below", "between", "both", "but",
	"can", "can't", "cannot", "could", "couldn't",
	"did", "didn't", "does", "doesn't", "doing", "don't", "down", "during",
	"each", "even", "ever", "every",
	"few", "for", "from", "further",
	"get", "gets", "got",
	"had", "hadn't", "has", "hasn't", "have", "haven't", "having", "her", "here", "here's", "hers",
	"herself", "him", "himself", "his", "how", "how's",
	"i'd", "i'll", "i'm", "i've", "into", "isn't", "it's", "its", "itself",
	"just",
	"let's",
	"may", "might", "more", "most", "much", "must", "mustn't", "myself",
	"nor", "not", "now",
	"off", "once", "one", "only", "other", "ought", "our", "ours", "ourselves", "out", "over", "own",
	"same", "shall", "shan't", "she", "she'd", "she'll", "she's", "should", "shouldn't", "since",
	"some", "such",
	"than", "that", "that's", "the", "their", "theirs", "them", "themselves", "then", "there",
	"there's", "these", "they", "they'd", "they'll", "they're", "they've", "this", "those", "through",
	"too",
	"under", "until", "upon", "use", "used", "using",
	"very",
	"was", "wasn't", "way", "we'd", "we'll", "we're", "we've", "well", "were", "weren't", "what",
	"what's", "when", "when's", "where", "where's", "which", "while", "who", "who's", "whom", "why",
	"why's", "will", "with", "won't", "would", "wouldn't",
	"yet", "you", "you'd", "you'll", "you're", "you've", "your", "yours", "yourself", "yourselves",
})
