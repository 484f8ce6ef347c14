package services

import "strings"

// PromptKind tags a generation request so the fallback path can route it
// without sniffing prompt wording.
type PromptKind int

const (
	KindUserAck PromptKind = iota
	KindSummary
	KindActions
	KindInsights
)

func (k PromptKind) String() string {
	switch k {
	case KindUserAck:
		return "user_ack"
	case KindSummary:
		return "summary"
	case KindActions:
		return "actions"
	case KindInsights:
		return "insights"
	}
	return "unknown"
}

const (
	ackPositive = "Thank you for your positive feedback! We're delighted to hear about your great experience. Your satisfaction is our top priority!"
	ackNeutral  = "Thank you for your feedback. We appreciate your input and are always looking for ways to improve our service."
	ackNegative = "Thank you for sharing your experience with us. We take your feedback seriously and will work to address your concerns."
	ackGeneric  = "Thank you for your feedback! We truly appreciate you taking the time to share your thoughts with us."

	// SummaryEmptySentinel is returned for empty reviews regardless of
	// whether the model is enabled.
	SummaryEmptySentinel = "No review text provided."

	actionsMaintain = "1. Send thank you message\n2. Maintain current service quality\n3. Consider requesting testimonial"
	actionsFollowUp = "1. Follow up with customer to understand concerns\n2. Review service processes\n3. Implement improvements"
	actionsEscalate = "1. Immediate follow-up required\n2. Investigate issues mentioned\n3. Offer resolution or compensation\n4. Prevent similar issues"

	fallbackGeneric = "Thank you for your feedback! We appreciate your input."
)

// Fallback produces deterministic rule-based text when the model is disabled
// or a call fails. Pure function of its inputs: identical arguments always
// yield byte-identical output. A rating of 0 means "not applicable".
func Fallback(kind PromptKind, rating int, reviewText string) string {
	switch kind {
	case KindUserAck:
		switch rating {
		case 4, 5:
			return ackPositive
		case 3:
			return ackNeutral
		case 1, 2:
			return ackNegative
		default:
			return ackGeneric
		}

	case KindSummary:
		text := strings.TrimSpace(reviewText)
		if text == "" {
			return SummaryEmptySentinel
		}
		// Thresholds count characters, not bytes.
		if runes := []rune(text); len(runes) > 200 {
			return "Detailed customer feedback: " + string(runes[:150]) + "..."
		}
		return "Customer feedback: " + text

	case KindActions:
		switch rating {
		case 4, 5:
			return actionsMaintain
		case 3:
			return actionsFollowUp
		default:
			return actionsEscalate
		}
	}

	return fallbackGeneric
}
