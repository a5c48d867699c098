package mapping

import (
	"strings"

	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/types"
)

// Cover-letter placeholders.
const (
	FallbackGreeting = "Dear Hiring Manager,"
	FallbackClosing  = "Sincerely,"
)

// mapCoverLetterBody lays out the letter below the sender header: date,
// recipient, subject, greeting, paragraphs, closing and signature.
func mapCoverLetterBody(m *mapper) []document.Section {
	var letter types.CoverLetterContent
	if m.in.Letter != nil {
		letter = *m.in.Letter
	}
	var app types.ApplicationLink
	if m.in.Application != nil {
		app = *m.in.Application
	}

	var blocks []document.Block
	if date := CleanText(letter.Date); date != "" {
		blocks = append(blocks, document.TextRun{Text: date, Style: document.StyleCaption})
	}

	recipient := CleanLines([]string{
		joinNonEmpty(", ", app.ContactName, app.ContactTitle),
		app.Company,
		app.CompanyAddress,
	})
	if len(recipient) > 0 {
		blocks = append(blocks, document.TextRun{Text: strings.Join(recipient, "\n"), Style: document.StyleBody})
	}

	subject := CleanText(letter.Subject)
	if subject == "" {
		if pos := CleanText(app.Position); pos != "" {
			subject = "Application for " + pos
		}
	}
	if subject != "" {
		blocks = append(blocks, document.TextRun{Text: subject, Style: document.StyleEntryTitle, KeepWithNext: true})
	}

	greeting := CleanText(letter.Greeting)
	if greeting == "" {
		if contact := CleanText(app.ContactName); contact != "" {
			greeting = "Dear " + contact + ","
		} else {
			greeting = m.fallback("letter.greeting", FallbackGreeting)
		}
	}
	blocks = append(blocks, document.TextRun{Text: greeting, Style: document.StyleBody, KeepWithNext: true})

	for _, p := range CleanLines(letter.Paragraphs) {
		blocks = append(blocks, document.TextRun{Text: p, Style: document.StyleBody})
	}

	closing := CleanText(letter.Closing)
	if closing == "" {
		closing = m.fallback("letter.closing", FallbackClosing)
	}
	signature := joinNonEmpty(" ", m.in.Profile.Personal.FirstName, m.in.Profile.Personal.LastName)
	if signature == "" {
		signature = m.fallback("letter.signature", FallbackName)
	}
	blocks = append(blocks,
		document.TextRun{Text: closing, Style: document.StyleBody, KeepWithNext: true},
		document.TextRun{Text: signature, Style: document.StyleSignature},
	)

	return []document.Section{{Kind: types.SectionCoverLetterBody, Blocks: blocks}}
}
