package symptom

import (
	"regexp"
	"strings"
)

// ValidationResult is the verdict of the pre-flight symptom text check that
// runs before any model call is made.
type ValidationResult struct {
	Valid   bool
	Message string
}

// Patterns that mark input as clearly non-medical: greetings, test strings,
// keyboard mash, bare numbers, punctuation-only input.
var invalidPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(hi|hello|hey|test|testing|abc|123|\d+)$`),
	regexp.MustCompile(`(?i)^(nothing|none|no symptoms?)$`),
	regexp.MustCompile(`(?i)^(how are you|what|why|when|where).*\?$`),
	regexp.MustCompile(`(?i)^(good|bad|fine|ok|okay)$`),
	regexp.MustCompile(`(?i)^random.*text`),
	regexp.MustCompile(`(?i)^(asdf|qwerty|lorem ipsum)`),
	regexp.MustCompile(`^[\W_]*$`),
}

// Positive indicators that the text plausibly describes a medical complaint.
var medicalKeywords = []string{
	"pain", "ache", "hurt", "sore", "fever", "temperature", "hot", "cold",
	"nausea", "vomit", "throw up", "sick", "dizzy", "headache", "migraine",
	"cough", "sneeze", "runny nose", "congestion", "throat", "swallow",
	"stomach", "belly", "abdomen", "chest", "breathing", "breath", "tired",
	"fatigue", "weakness", "swelling", "rash", "itch", "burn", "sting",
	"bleed", "discharge", "diarrhea", "constipation", "cramp", "spasm",
	"stiff", "joint", "muscle", "bone", "skin", "eye", "ear", "nose",
	"mouth", "tongue", "tooth", "gum", "urinate", "pee", "bowel", "sleep",
	"appetite", "weight", "pressure", "palpitation", "irregular", "fast",
	"slow", "numbness", "tingling", "sensation", "feeling", "allergy",
	"infection", "inflammation", "wound", "injury", "bruise", "cut",
	"backache", "shoulder", "knee", "ankle", "wrist", "neck", "spine",
	"heartburn", "indigestion", "bloating", "gas", "hiccup", "burp",
	"insomnia", "restless", "anxiety", "stress", "depression", "mood",
	"memory", "concentration", "vision", "hearing", "balance", "coordination",
}

// Validate decides whether free text is a plausible medical complaint worth
// forwarding to the model. It is a shallow rule table: length floor, a
// reject-pattern list, and a medical keyword scan with leniency for short
// keyword-bearing inputs like "headache".
func Validate(input string) ValidationResult {
	cleaned := strings.ToLower(strings.TrimSpace(input))

	if len(cleaned) < 3 {
		return ValidationResult{Message: "Please provide a symptom description (at least 3 characters)"}
	}

	for _, pattern := range invalidPatterns {
		if pattern.MatchString(cleaned) {
			return ValidationResult{Message: "Please describe your actual medical symptoms"}
		}
	}

	hasKeyword := false
	for _, keyword := range medicalKeywords {
		if strings.Contains(cleaned, keyword) {
			hasKeyword = true
			break
		}
	}

	if len(cleaned) <= 15 && hasKeyword {
		return ValidationResult{Valid: true, Message: "Valid symptom description"}
	}
	if !hasKeyword && len(cleaned) < 10 {
		return ValidationResult{Message: "Please describe specific symptoms you are experiencing"}
	}

	return ValidationResult{Valid: true, Message: "Valid symptom description"}
}
