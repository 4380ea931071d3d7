// Package chat implements the clinic's assistant widget: canned replies picked
// by keyword, delivered after a short delay.
package chat

import "strings"

const (
	// Greeting opens every conversation.
	Greeting = "Hello! I'm Synapse AI. How can I help you today?"

	// DefaultReply answers anything no rule matches.
	DefaultReply = "I'm not sure about that. For specific questions about your health or astrology reading, it's best to consult with Dr. Sharma directly through an appointment."
)

// Rule pairs a keyword with its canned reply.
type Rule struct {
	Keyword string `json:"keyword"`
	Reply   string `json:"reply"`
}

// DefaultRules is the ordered rule table. When a message contains several
// keywords the earliest rule wins.
var DefaultRules = []Rule{
	{"appointment", "You can book an appointment from the 'Appointments' section of your dashboard, or I can guide you there. Would you like to book an appointment now?"},
	{"service", "We offer various neurological and astrological services including consultations, diagnostics, and personalized treatment plans. You can view all our services in the Services section."},
	{"payment", "We accept UPI, net banking, and cash payments at the clinic. All payments are secure and receipts are provided automatically."},
	{"report", "Your reports can be accessed from your dashboard under the 'Reports' section once they're uploaded by Dr. Sharma."},
	{"headache", "Recurring headaches could be due to various factors including stress, dehydration, or other neurological conditions. It's best to book a consultation with Dr. Sharma for proper diagnosis."},
	{"birth chart", "A birth chart analysis examines the positions of celestial bodies at the time of your birth to provide insights into your personality, strengths, and life path. Would you like to book an astrology session?"},
	{"astrology", "Our astrology services include birth chart analysis, transit forecasts, compatibility readings, and career guidance based on celestial influences."},
	{"neurology", "Our neurology services include consultations, diagnostic tests, treatment plans, and follow-ups for various neurological conditions."},
	{"reschedule", "To reschedule an appointment, please go to the Appointments section in your dashboard and select the reschedule option next to your appointment."},
	{"fee", "Our consultation fees range from ₹2,000 to ₹5,000 depending on the service. You can find detailed pricing on the Services page."},
	{"doctor", "Dr. Sharma is a board-certified neurologist with over 15 years of experience, specializing in neurological disorders and integrative medicine that incorporates astrological insights."},
	{"help", "I can help you with information about our services, appointment booking, payments, and general queries about neurology and astrology. What would you like to know?"},
}

// Responder picks replies by substring match over an ordered rule list.
type Responder struct {
	rules    []Rule
	fallback string
}

// NewResponder copies rules, lower-casing keywords. An empty fallback uses
// DefaultReply.
func NewResponder(rules []Rule, fallback string) *Responder {
	cp := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kw := strings.ToLower(r.Keyword)
		if kw == "" {
			continue
		}
		cp = append(cp, Rule{Keyword: kw, Reply: r.Reply})
	}
	if fallback == "" {
		fallback = DefaultReply
	}
	return &Responder{rules: cp, fallback: fallback}
}

// DefaultResponder uses DefaultRules.
func DefaultResponder() *Responder {
	return NewResponder(DefaultRules, DefaultReply)
}

// Match returns the first rule whose keyword occurs in text. Matching is by
// substring, so "headaches" matches "headache".
func (r *Responder) Match(text string) (Rule, bool) {
	lower := strings.ToLower(text)
	for _, rule := range r.rules {
		if strings.Contains(lower, rule.Keyword) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Respond returns the reply for text.
func (r *Responder) Respond(text string) string {
	if rule, ok := r.Match(text); ok {
		return rule.Reply
	}
	return r.fallback
}
