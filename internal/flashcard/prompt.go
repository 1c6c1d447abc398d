// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package flashcard

import (
	"bytes"
	"text/template"
)

// primaryPromptTmpl is sent to the primary model with the full corpus.
var primaryPromptTmpl = template.Must(template.New("primary").Parse(`You will create flashcards from lecture notes. Each flashcard should be on a new line in this format: Term:::Definition

For example:
Bit:::The smallest unit of digital information, representing either 0 or 1
Byte:::A unit of digital information consisting of 8 bits
Resolution:::The amount of detail in a digital image, measured in pixels

Now, create flashcards from these lecture notes:

{{.Notes}}

Remember: Each line must be in the format Term:::Definition with no extra text or formatting.`))

// fallbackPromptTmpl is the shorter prompt for the simpler fallback model.
var fallbackPromptTmpl = template.Must(template.New("fallback").Parse(`Create flashcards from these lecture notes. Use exactly this format:
Term:::Definition

Example:
Bit:::The smallest unit of digital information (0 or 1)
Binary:::A number system using only 0s and 1s

Now create flashcards from these notes:

{{.Notes}}`))

func renderPrompt(tmpl *template.Template, notes string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Notes string }{Notes: notes}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
