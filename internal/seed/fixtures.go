package seed

import (
	"time"

	"github.com/dstoyanov/agentbox/internal/mailbox"
)

// InitResult reports what initializing fixtures did.
type InitResult struct {
	Applied       bool
	TotalEmails   int
	BankEmails    int
	RegularEmails int
}

// InitializeFixtures loads the fixed demo emails into the store if it is
// empty. A non-empty store is left untouched.
func (g *Generator) InitializeFixtures() InitResult {
	totals := g.store.TotalCounts(BankRBS, BankFI)
	if totals.Emails > 0 {
		g.logger.Info("inbox already populated, skipping fixtures", "emails", totals.Emails)
		return InitResult{
			Applied:       false,
			TotalEmails:   totals.Emails,
			BankEmails:    totals.Tagged[BankRBS] + totals.Tagged[BankFI],
			RegularEmails: totals.Emails - totals.Tagged[BankRBS] - totals.Tagged[BankFI],
		}
	}

	fixtures := Fixtures(g.userAddress)
	for _, email := range fixtures {
		g.store.Add(email)
	}

	totals = g.store.TotalCounts(BankRBS, BankFI)
	bank := totals.Tagged[BankRBS] + totals.Tagged[BankFI]
	g.logger.Info("initialized fixture emails",
		"total", totals.Emails, "bank", bank, "regular", totals.Emails-bank)
	return InitResult{
		Applied:       true,
		TotalEmails:   totals.Emails,
		BankEmails:    bank,
		RegularEmails: totals.Emails - bank,
	}
}

// Fixtures returns the fixed demo emails: three regular messages plus eight
// bank messages covering both banks. IDs are stable so demo flows can refer
// to specific emails.
func Fixtures(userAddress string) []*mailbox.Email {
	now := time.Now()
	recipients := []string{userAddress}
	return []*mailbox.Email{
		{
			ID:         "email-001-regular",
			Subject:    "Quarterly Financial Report",
			Sender:     "john.doe@company.com",
			Recipients: recipients,
			Body:       "Please review the attached quarterly financial report. The numbers look good this quarter with 15% growth. We've seen significant improvements in our revenue streams and cost management.",
			Timestamp:  now.Add(-(2*24 + 3) * time.Hour),
			Priority:   mailbox.PriorityNormal,
		},
		{
			ID:         "email-002-regular",
			Subject:    "Meeting reminder: 1:1 with manager",
			Sender:     "boss@company.com",
			Recipients: recipients,
			Body:       "Don't forget about our 1:1 meeting scheduled for tomorrow at 2 PM. Come prepared with your updates on the current projects and any blockers you're facing.",
			Timestamp:  now.Add(-(1*24 + 5) * time.Hour),
			Priority:   mailbox.PriorityHigh,
		},
		{
			ID:         "email-003-regular",
			Subject:    "Your Amazon order has shipped",
			Sender:     "notifications@amazon.com",
			Recipients: recipients,
			Body:       "Your order #AMZ-12345 has been shipped and will arrive by tomorrow. Track your package using the link below. Thank you for shopping with Amazon.",
			Timestamp:  now.Add(-(3*24 + 1) * time.Hour),
			Priority:   mailbox.PriorityLow,
		},
		{
			ID:         "rbs-001-overdraft",
			Subject:    "URGENT: Credit Card Overdraft Notice - Account ****4527",
			Sender:     "overdrafts@rbs.co.uk",
			Recipients: recipients,
			Body: `Dear Valued Customer,

We are writing to inform you that your RBS Credit Card account ****4527 has exceeded its credit limit.

Current Balance: £2,750.00
Credit Limit: £2,500.00
Overlimit Amount: £250.00
Overlimit Fee: £35.00

To avoid additional charges, please make a payment immediately. You can:
- Pay online at rbs.co.uk
- Call our 24/7 helpline: 0345 724 2424
- Visit any RBS branch

Please note that interest will continue to accrue on the outstanding balance until paid in full.

If you have any questions, please contact our Customer Service team.

Kind regards,
RBS Credit Card Services

This is an automated message. Please do not reply to this email.`,
			Timestamp: now.Add(-6 * time.Hour),
			Priority:  mailbox.PriorityUrgent,
			Tags:      []string{"banking", BankRBS, scenarioOverdraft},
		},
		{
			ID:         "rbs-002-security",
			Subject:    "URGENT: Verify Your Recent Transaction",
			Sender:     "security@rbs.co.uk",
			Recipients: recipients,
			Body: `SECURITY ALERT

Dear Customer,

We have detected unusual activity on your RBS account ending in 4527.

Transaction Details:
Date: 25/01/2025
Amount: £450.00
Location: London, UK
Merchant: Amazon UK

If you recognize this transaction, no action is required.

If you DO NOT recognize this transaction:
1. Call us immediately: 0345 724 2424
2. Log into online banking to review your account
3. Consider temporarily blocking your card

Your security is our priority. We monitor accounts 24/7 to protect against fraud.

Never share your PIN, passwords, or security details with anyone.

RBS Fraud Prevention Team

This is an automated security alert.`,
			Timestamp: now.Add(-(1*24 + 2) * time.Hour),
			Priority:  mailbox.PriorityUrgent,
			Tags:      []string{"banking", BankRBS, scenarioSecurity},
		},
		{
			ID:         "rbs-003-statement",
			Subject:    "Your RBS Monthly Statement is Ready",
			Sender:     "statements@rbs.co.uk",
			Recipients: recipients,
			Body: `Dear Customer,

Your RBS monthly statement for January 2025 is now available.

Account Summary:
Account Number: ****4527
Statement Period: 01 January 2025 to 31 January 2025
Opening Balance: £1,250.00
Closing Balance: £2,750.00
Total Transactions: 28

To view your statement:
- Log in to RBS online banking
- Use the RBS mobile app
- Visit rbs.co.uk/statements

Important Reminders:
- Review all transactions carefully
- Report any discrepancies within 60 days
- Keep statements for your records

If you have questions about your statement, please contact us at 0345 724 2424.

Thank you for banking with RBS.

RBS Customer Services`,
			Timestamp: now.Add(-(3*24 + 8) * time.Hour),
			Priority:  mailbox.PriorityNormal,
			Tags:      []string{"banking", BankRBS, scenarioStatements},
		},
		{
			ID:         "rbs-004-terms",
			Subject:    "Important Changes to Your RBS Account Terms and Conditions",
			Sender:     "customerservice@rbs.co.uk",
			Recipients: recipients,
			Body: `Dear Customer,

We are writing to inform you of important changes to the terms and conditions of your RBS account(s), effective from 15 March 2025.

Key Changes Include:
• Updated overdraft fees and charges
• Changes to international transaction fees
• Modified dispute resolution procedures
• Updated data protection policies

What You Need to Do:
If you are happy with these changes, you don't need to do anything. The new terms will automatically apply from 15 March 2025.

If you don't agree with the changes, you have the right to close your account without charge before 15 March 2025.

Full Details:
The complete updated terms and conditions are available:
- Online at rbs.co.uk/terms
- At any RBS branch
- By calling 0345 724 2424

We value your business and thank you for choosing RBS.

Yours sincerely,
RBS Customer Services

Royal Bank of Scotland plc. Registered in Scotland No. SC083026.`,
			Timestamp: now.Add(-(5*24 + 4) * time.Hour),
			Priority:  mailbox.PriorityHigh,
			Tags:      []string{"banking", BankRBS, scenarioTerms},
		},
		{
			ID:         "fibank-001-overdraft",
			Subject:    "URGENT: Credit Card Overdraft Notice - Account ****8194",
			Sender:     "overdrafts@fibank.bg",
			Recipients: recipients,
			Body: `Уважаеми клиент,

Информираме Ви, че кредитната Ви карта с номер ****8194 е надвишила разрешения кредитен лимит.

Текущо салдо: 3,250.00 лв.
Кредитен лимит: 3,000.00 лв.
Надвишение: 250.00 лв.
Такса за надвишение: 50.00 лв.

За да избегнете допълнителни такси, моля извършете плащане незабавно:
- Онлайн банкиране: fibank.bg
- Мобилно приложение: Fibank Mobile
- Телефон: 0700 11 011

Лихвите ще продължат да се начисляват върху неплатената сума.

С уважение,
Екип Кредитни карти
Първа инвестиционна банка`,
			Timestamp: now.Add(-12 * time.Hour),
			Priority:  mailbox.PriorityUrgent,
			Tags:      []string{"banking", BankFI, scenarioOverdraft},
		},
		{
			ID:         "fibank-002-security",
			Subject:    "Security Alert: Unusual Activity on Your FI Bank Account",
			Sender:     "security@fibank.bg",
			Recipients: recipients,
			Body: `СИГУРНОСТ НА СМЕТКАТА

Уважаеми клиент,

Засякохме необичайна активност на Вашата сметка в Първа инвестиционна банка.

Детайли за транзакцията:
Дата: 24/01/2025
Сума: 320.00 лв.
Локация: Sofia, Bulgaria
Търговец: Kaufland

Ако разпознавате тази транзакция, не е необходимо да предприемате действия.

Ако НЕ разпознавате транзакцията:
1. Обадете се незабавно: 0700 11 011
2. Влезте в интернет банкирането
3. Помислете за временно блокиране на картата

Вашата сигурност е наш приоритет.

Екип за сигурност
Първа инвестиционна банка`,
			Timestamp: now.Add(-(1*24 + 8) * time.Hour),
			Priority:  mailbox.PriorityHigh,
			Tags:      []string{"banking", BankFI, scenarioSecurity},
		},
		{
			ID:         "fibank-003-statement",
			Subject:    "Account Statement Available - January 2025",
			Sender:     "statements@fibank.bg",
			Recipients: recipients,
			Body: `Уважаеми клиент,

Месечната Ви банкова сметка за January 2025 е готова за преглед.

Обобщение на сметката:
Номер на сметка: ****8194
Период: 01 January 2025 до 31 January 2025
Начално салдо: 2,500.00 лв.
Крайно салдо: 3,250.00 лв.
Общо транзакции: 22

За да видите сметката:
- Влезте в интернет банкирането на fibank.bg
- Използвайте мобилното приложение Fibank
- Посетете клон на банката

Важно:
- Прегледайте внимателно всички транзакции
- Съобщете за неточности в рамките на 60 дни

За въпроси: 0700 11 011

С уважение,
Първа инвестиционна банка`,
			Timestamp: now.Add(-(4*24 + 6) * time.Hour),
			Priority:  mailbox.PriorityNormal,
			Tags:      []string{"banking", BankFI, scenarioStatements},
		},
		{
			ID:         "fibank-004-promotional",
			Subject:    "Exclusive Offer: New FI Bank Credit Card with 0% APR",
			Sender:     "creditcards@fibank.bg",
			Recipients: recipients,
			Body: `Специално предложение за Вас

Уважаеми клиент,

Имаме удоволствието да Ви предложим ексклузивни условия за нова кредитна карта от Първа инвестиционна банка.

Специални условия:
• 0% лихва за първите 12 месеца
• Без годишна такса за първата година
• До 2% кешбек от покупките
• Безплатно теглене на кеш в банкомати на ПИБ

Предварително одобрена сума: до 5,000 лв.

Кандидатствайте:
- Онлайн на fibank.bg
- Телефон: 0700 11 011
- В клон на банката

Офертата е валидна до 28 February 2025.

Представителен ГПР: 24.9% променлив.

С уважение,
Екип Кредитни карти
Първа инвестиционна банка`,
			Timestamp: now.Add(-(6*24 + 2) * time.Hour),
			Priority:  mailbox.PriorityNormal,
			Tags:      []string{"banking", BankFI, scenarioPromotional},
		},
	}
}
