package usecase

import (
	"github.com/coparenthq/feishu-moderator/internal/biz/domain"
)

// scopeStatement opens every warning message.
const scopeStatement = "This group is for co-parenting logistics only (health, education, scheduling, logistics)."

// categoryMessages maps block categories to user-facing explanations, used
// when the classifier gave no usable reason of its own.
var categoryMessages = map[string]string{
	"performative":       "Your message appeared to be performative posturing rather than actionable co-parenting communication.",
	"manipulation":       "Your message seemed to deflect from logistics to emotional manipulation.",
	"narrative":          "Your message appeared to craft a narrative rather than address children's needs.",
	"grandstanding":      "Your message seemed to be grandstanding without substance about children's welfare.",
	"off_topic":          "Your message was off-topic for this co-parenting logistics group.",
	"emotional_pressure": "Your message used emotional pressure instead of focusing on factual logistics.",
	"deflection":         "Your message deflected from actual logistics to other topics.",
}

// ComposeWarning renders the user-facing explanation for a blocked message.
//
// The decision's reason is used verbatim unless it is one of the two generic
// fallback strings and the category maps to a canned explanation; only then
// is the canned text substituted. When neither a specific reason nor a mapped
// category exists, the generic reason is shown as-is rather than fabricating
// specificity.
func ComposeWarning(decision domain.Decision) string {
	reason := decision.Reason

	if reason == domain.ReasonNoReason || reason == domain.ReasonUnparseable {
		if msg, ok := categoryMessages[decision.Category]; ok {
			reason = msg
		}
	}

	return scopeStatement + " " + reason
}
