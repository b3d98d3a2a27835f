// Package seed produces synthetic email records for the simulated inbox:
// generic sample messages from fixed pools and templated bank messages from
// two banks across several scenarios.
package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/dstoyanov/agentbox/internal/mailbox"
)

var sampleSenders = []string{
	"john.doe@company.com",
	"sarah.wilson@bank.com",
	"notifications@amazon.com",
	"team@slack.com",
	"billing@netflix.com",
	"support@github.com",
	"newsletter@techcrunch.com",
	"alerts@creditcard.com",
	"hr@company.com",
	"boss@company.com",
}

var sampleSubjects = []string{
	"Quarterly Financial Report",
	"Your Amazon order has shipped",
	"Weekly team standup notes",
	"Credit card statement available",
	"New GitHub notifications",
	"Your Netflix payment failed",
	"Tech industry news digest",
	"Urgent: Security alert",
	"Meeting reminder: 1:1 with manager",
	"Expense report approval needed",
}

var sampleBodies = []string{
	"Please review the attached quarterly financial report. The numbers look good this quarter with 15% growth.",
	"Your order #12345 has been shipped and will arrive by tomorrow. Track your package using the link below.",
	"Here are the notes from our weekly standup. Please review action items and update your status.",
	"Your credit card statement for December is now available. You have a balance of $1,247.83.",
	"You have 3 new notifications on GitHub. Check your repositories for recent activity.",
	"We were unable to process your Netflix payment. Please update your payment method to continue service.",
	"This week in tech: AI breakthroughs, new startup funding, and industry analysis.",
	"We detected unusual activity on your account. Please verify your recent transactions immediately.",
	"Don't forget about our 1:1 meeting scheduled for tomorrow at 2 PM. Come prepared with your updates.",
	"Your expense report from last month is pending approval. Please review and submit any missing receipts.",
}

// Generator creates synthetic emails and inserts them into a store.
type Generator struct {
	store       *mailbox.Store
	userAddress string
	rand        *rand.Rand
	logger      *slog.Logger
}

// New creates a generator addressing all generated mail to userAddress.
func New(store *mailbox.Store, userAddress string, logger *slog.Logger) *Generator {
	return &Generator{
		store:       store,
		userAddress: userAddress,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      logger.With("component", "seed-generator"),
	}
}

// UserAddress returns the inbox owner address generated mail is addressed to.
func (g *Generator) UserAddress() string {
	return g.userAddress
}

// Samples generates n generic emails from the sample pools and adds them to
// the store. Timestamps fall within the last 7 days; priority is weighted
// toward normal.
func (g *Generator) Samples(n int) []*mailbox.Email {
	out := make([]*mailbox.Email, 0, n)
	for i := 0; i < n; i++ {
		email := &mailbox.Email{
			Subject:    sampleSubjects[g.rand.Intn(len(sampleSubjects))],
			Sender:     sampleSenders[g.rand.Intn(len(sampleSenders))],
			Recipients: []string{g.userAddress},
			Body:       sampleBodies[g.rand.Intn(len(sampleBodies))],
			Timestamp:  g.recentTimestamp(7),
			Priority:   g.samplePriority(),
		}
		g.store.Add(email)
		out = append(out, email)
	}
	g.logger.Info("generated sample emails", "count", n)
	return out
}

// BankEmails generates n templated bank emails, randomly picking a bank and
// scenario for each, and adds them to the store.
func (g *Generator) BankEmails(n int) []*mailbox.Email {
	out := make([]*mailbox.Email, 0, n)
	for i := 0; i < n; i++ {
		bank := banks[g.rand.Intn(len(banks))]
		scenario := scenarios[g.rand.Intn(len(scenarios))]
		email := g.bankEmail(scenario, bank)
		g.store.Add(email)
		out = append(out, email)
	}
	g.logger.Info("generated bank emails", "count", n)
	return out
}

// bankEmail renders one bank email for the given scenario and bank.
func (g *Generator) bankEmail(scenario, bank string) *mailbox.Email {
	tpl := bankTemplates[scenario]
	data := g.scenarioData(scenario, bank)

	subject := substitute(tpl.subjects[g.rand.Intn(len(tpl.subjects))], data)
	bodies := tpl.bodies[bank]
	body := substitute(bodies[g.rand.Intn(len(bodies))], data)

	senders := bankSenders[bank]
	priority := mailbox.PriorityNormal
	switch scenario {
	case scenarioOverdraft, scenarioSecurity:
		if g.rand.Intn(2) == 0 {
			priority = mailbox.PriorityHigh
		} else {
			priority = mailbox.PriorityUrgent
		}
	case scenarioTerms:
		priority = mailbox.PriorityHigh
	}

	return &mailbox.Email{
		Subject:    subject,
		Sender:     senders[g.rand.Intn(len(senders))],
		Recipients: []string{g.userAddress},
		Body:       body,
		Timestamp:  g.recentTimestamp(14),
		Priority:   priority,
		Tags:       []string{"banking", strings.ToLower(bank), scenario},
	}
}

// scenarioData builds the substitution values for one rendered email.
func (g *Generator) scenarioData(scenario, bank string) map[string]string {
	bankName := "RBS"
	if bank == BankFI {
		bankName = "FI Bank"
	}

	data := map[string]string{
		"bank_name":      bankName,
		"account_number": fmt.Sprintf("****%d", 1000+g.rand.Intn(9000)),
		"last_four":      fmt.Sprintf("%d", 1000+g.rand.Intn(9000)),
	}

	now := time.Now()
	switch scenario {
	case scenarioOverdraft:
		creditLimit := 1000 + g.rand.Intn(9001)
		balance := creditLimit + 50 + g.rand.Intn(451)
		fee := []int{25, 35, 50}[g.rand.Intn(3)]
		data["balance"] = formatAmount(balance)
		data["credit_limit"] = formatAmount(creditLimit)
		data["overlimit_amount"] = formatAmount(balance - creditLimit)
		data["fee"] = fmt.Sprintf("%d.00", fee)
	case scenarioTerms:
		effective := now.AddDate(0, 0, 30+g.rand.Intn(31))
		data["effective_date"] = effective.Format("02 January 2006")
	case scenarioSecurity:
		locations := []string{"London, UK", "Manchester, UK", "Edinburgh, UK", "Sofia, Bulgaria", "Plovdiv, Bulgaria", "Varna, Bulgaria"}
		merchants := []string{"Amazon UK", "Tesco", "Sainsbury's", "Shell", "McDonald's", "Zara", "H&M", "Kaufland", "Billa"}
		merchant := merchants[g.rand.Intn(len(merchants))]
		data["amount"] = fmt.Sprintf("%d.00", 50+g.rand.Intn(1951))
		data["transaction_date"] = now.AddDate(0, 0, -g.rand.Intn(4)).Format("02/01/2006")
		data["location"] = locations[g.rand.Intn(len(locations))]
		data["merchant"] = merchant
		data["description"] = "Card payment at " + merchant
	case scenarioStatements:
		month := time.Month(1 + g.rand.Intn(12)).String()
		opening := 500 + g.rand.Intn(4501)
		closing := opening - 200 + g.rand.Intn(501)
		data["statement_month"] = month
		data["statement_year"] = "2024"
		data["start_date"] = fmt.Sprintf("01 %s 2024", month)
		data["end_date"] = fmt.Sprintf("%d %s 2024", 28+g.rand.Intn(4), month)
		data["opening_balance"] = formatAmount(opening)
		data["closing_balance"] = formatAmount(closing)
		data["transaction_count"] = fmt.Sprintf("%d", 15+g.rand.Intn(31))
		data["fees"] = fmt.Sprintf("%d.00", g.rand.Intn(26))
		data["interest"] = fmt.Sprintf("%d.00", g.rand.Intn(16))
	case scenarioPromotional:
		data["credit_limit"] = formatThousands(2000 + g.rand.Intn(13001))
		data["expiry_date"] = now.AddDate(0, 0, 14+g.rand.Intn(32)).Format("02 January 2006")
	}
	return data
}

func (g *Generator) samplePriority() mailbox.Priority {
	// Weighted: 10% low, 70% normal, 15% high, 5% urgent.
	switch n := g.rand.Intn(100); {
	case n < 10:
		return mailbox.PriorityLow
	case n < 80:
		return mailbox.PriorityNormal
	case n < 95:
		return mailbox.PriorityHigh
	default:
		return mailbox.PriorityUrgent
	}
}

func (g *Generator) recentTimestamp(maxDaysAgo int) time.Time {
	days := g.rand.Intn(maxDaysAgo + 1)
	hours := g.rand.Intn(24)
	return time.Now().Add(-time.Duration(days*24+hours) * time.Hour)
}

// substitute replaces {placeholder} markers with their values.
func substitute(tpl string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// formatAmount renders an integer amount as "1,234.00".
func formatAmount(n int) string {
	return formatThousands(n) + ".00"
}

func formatThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
