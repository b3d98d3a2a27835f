package seed

// Bank identifiers used in template lookups and email tags.
const (
	BankRBS = "rbs"
	BankFI  = "fi_bank"
)

// Scenario identifiers. Each maps to one template set.
const (
	scenarioOverdraft   = "credit_card_overdraft"
	scenarioTerms       = "terms_conditions"
	scenarioSecurity    = "security_alerts"
	scenarioStatements  = "statements"
	scenarioPromotional = "promotional"
)

var banks = []string{BankRBS, BankFI}

var scenarios = []string{
	scenarioOverdraft,
	scenarioTerms,
	scenarioSecurity,
	scenarioStatements,
	scenarioPromotional,
}

var bankSenders = map[string][]string{
	BankRBS: {
		"noreply@rbs.co.uk",
		"creditcards@rbs.co.uk",
		"customerservice@rbs.co.uk",
		"alerts@rbs.co.uk",
		"statements@rbs.co.uk",
		"security@rbs.co.uk",
		"overdrafts@rbs.co.uk",
	},
	BankFI: {
		"noreply@fibank.bg",
		"creditcards@fibank.bg",
		"customercare@fibank.bg",
		"alerts@fibank.bg",
		"statements@fibank.bg",
		"security@fibank.bg",
		"overdrafts@fibank.bg",
	},
}

// bankTemplate holds subject and per-bank body variants for one scenario.
// Placeholders are written as {name} and filled in by the generator.
type bankTemplate struct {
	subjects []string
	bodies   map[string][]string
}

var bankTemplates = map[string]bankTemplate{
	scenarioOverdraft: {
		subjects: []string{
			"URGENT: Credit Card Overdraft Notice - Account {account_number}",
			"Credit Card Limit Exceeded - Immediate Action Required",
			"Overdraft Alert: Your Credit Card Account {account_number}",
			"Important: Credit Card Overdraft Fees Applied",
		},
		bodies: map[string][]string{
			BankRBS: {
				`Dear Valued Customer,

We are writing to inform you that your RBS Credit Card account {account_number} has exceeded its credit limit.

Current Balance: £{balance}
Credit Limit: £{credit_limit}
Overlimit Amount: £{overlimit_amount}
Overlimit Fee: £{fee}

To avoid additional charges, please make a payment immediately. You can:
- Pay online at rbs.co.uk
- Call our 24/7 helpline: 0345 724 2424
- Visit any RBS branch

Please note that interest will continue to accrue on the outstanding balance until paid in full.

If you have any questions, please contact our Customer Service team.

Kind regards,
RBS Credit Card Services

This is an automated message. Please do not reply to this email.`,
				`Dear Customer,

Your RBS Credit Card ending in {last_four} has gone over its credit limit.

Account Details:
- Account Number: {account_number}
- Current Balance: £{balance}
- Available Credit: £0.00
- Overlimit Fee Charged: £{fee}

Immediate payment is required to bring your account back within the credit limit. Failure to do so may result in:
- Additional overlimit fees
- Increased interest rates
- Suspension of card privileges

Make a payment now:
- Online Banking: rbs.co.uk
- Mobile App: RBS Mobile
- Phone: 0345 724 2424

Thank you for your immediate attention to this matter.

RBS Customer Services`,
			},
			BankFI: {
				`Уважаеми клиент,

Информираме Ви, че кредитната Ви карта с номер {account_number} е надвишила разрешения кредитен лимит.

Текущо салдо: {balance} лв.
Кредитен лимит: {credit_limit} лв.
Надвишение: {overlimit_amount} лв.
Такса за надвишение: {fee} лв.

За да избегнете допълнителни такси, моля извършете плащане незабавно:
- Онлайн банкиране: fibank.bg
- Мобилно приложение: Fibank Mobile
- Телефон: 0700 11 011

Лихвите ще продължат да се начисляват върху неплатената сума.

С уважение,
Екип Кредитни карти
Първа инвестиционна банка`,
				`Dear Customer,

Your FI Bank Credit Card account {account_number} has exceeded the approved credit limit.

Current Balance: BGN {balance}
Credit Limit: BGN {credit_limit}
Overlimit Amount: BGN {overlimit_amount}
Overlimit Fee: BGN {fee}

To restore your account to good standing, please make an immediate payment:
- Online: fibank.bg
- Mobile App: Fibank Mobile
- Phone: +359 2 800 2000

Interest charges will continue to accrue until the balance is paid.

Best regards,
FI Bank Credit Card Services`,
			},
		},
	},
	scenarioTerms: {
		subjects: []string{
			"Important Changes to Your {bank_name} Account Terms and Conditions",
			"Updated Terms and Conditions - Action Required",
			"Notice of Changes to Your Banking Agreement",
			"Your {bank_name} Account Terms - Important Updates",
		},
		bodies: map[string][]string{
			BankRBS: {
				`Dear Customer,

We are writing to inform you of important changes to the terms and conditions of your RBS account(s), effective from {effective_date}.

Key Changes Include:
• Updated overdraft fees and charges
• Changes to international transaction fees
• Modified dispute resolution procedures
• Updated data protection policies

What You Need to Do:
If you are happy with these changes, you don't need to do anything. The new terms will automatically apply from {effective_date}.

If you don't agree with the changes, you have the right to close your account without charge before {effective_date}.

Full Details:
The complete updated terms and conditions are available:
- Online at rbs.co.uk/terms
- At any RBS branch
- By calling 0345 724 2424

We value your business and thank you for choosing RBS.

Yours sincerely,
RBS Customer Services

Royal Bank of Scotland plc. Registered in Scotland No. SC083026.`,
			},
			BankFI: {
				`Уважаеми клиент,

Уведомяваме Ви за важни промени в общите условия на Вашата банкова сметка в Първа инвестиционна банка, които влизат в сила от {effective_date}.

Основни промени:
• Актуализирани такси за овърдрафт
• Промени в таксите за международни транзакции
• Обновени условия за дебитни и кредитни карти
• Актуализирана политика за защита на данните

Какво трябва да направите:
Ако сте съгласни с промените, не е необходимо да предприемате действия. Новите условия ще влязат в сила автоматично от {effective_date}.

Ако не сте съгласни с промените, имате право да закриете сметката си без такса преди {effective_date}.

Пълните условия можете да намерите на fibank.bg или в клон на банката.

За въпроси: 0700 11 011

С уважение,
Първа инвестиционна банка`,
				`Dear Valued Customer,

We are writing to inform you of important updates to the terms and conditions governing your FI Bank account, effective {effective_date}.

Changes Include:
• Revised fee structure for account maintenance
• Updated international transfer charges
• Modified credit card terms and conditions
• Enhanced security measures and procedures

Your Options:
- Accept changes: Continue using your account normally
- Decline changes: Close account before {effective_date} without penalty

Complete terms available at fibank.bg/terms or any FI Bank branch.

Questions? Contact us at +359 2 800 2000

Best regards,
First Investment Bank`,
			},
		},
	},
	scenarioSecurity: {
		subjects: []string{
			"Security Alert: Unusual Activity on Your {bank_name} Account",
			"URGENT: Verify Your Recent Transaction",
			"Account Security Notice - Action Required",
			"Suspicious Activity Detected on Account {account_number}",
		},
		bodies: map[string][]string{
			BankRBS: {
				`SECURITY ALERT

Dear Customer,

We have detected unusual activity on your RBS account ending in {last_four}.

Transaction Details:
Date: {transaction_date}
Amount: £{amount}
Location: {location}
Merchant: {merchant}

If you recognize this transaction, no action is required.

If you DO NOT recognize this transaction:
1. Call us immediately: 0345 724 2424
2. Log into online banking to review your account
3. Consider temporarily blocking your card

Your security is our priority. We monitor accounts 24/7 to protect against fraud.

Never share your PIN, passwords, or security details with anyone.

RBS Fraud Prevention Team

This is an automated security alert.`,
				`Account Security Notice

Dear RBS Customer,

Our fraud monitoring systems have flagged potential unauthorized activity on your account {account_number}.

Flagged Transaction:
- Amount: £{amount}
- Date: {transaction_date}
- Description: {description}
- Status: PENDING VERIFICATION

Immediate Action Required:
Please verify this transaction by:
- Calling 0345 724 2424
- Logging into RBS online banking
- Visiting your nearest branch

Your card may be temporarily restricted until verification is complete.

If this transaction is fraudulent, we will:
- Block your card immediately
- Investigate the transaction
- Issue a replacement card
- Refund unauthorized charges

Stay vigilant against fraud.

RBS Security Team`,
			},
			BankFI: {
				`СИГУРНОСТ НА СМЕТКАТА

Уважаеми клиент,

Засякохме необичайна активност на Вашата сметка в Първа инвестиционна банка.

Детайли за транзакцията:
Дата: {transaction_date}
Сума: {amount} лв.
Локация: {location}
Търговец: {merchant}

Ако разпознавате тази транзакция, не е необходимо да предприемате действия.

Ако НЕ разпознавате транзакцията:
1. Обадете се незабавно: 0700 11 011
2. Влезте в интернет банкирането
3. Помислете за временно блокиране на картата

Вашата сигурност е наш приоритет.

Екип за сигурност
Първа инвестиционна банка`,
				`Security Alert - FI Bank

Dear Customer,

Our security systems have detected suspicious activity on your FI Bank account {account_number}.

Transaction Under Review:
Amount: BGN {amount}
Date: {transaction_date}
Location: {location}
Status: BLOCKED PENDING VERIFICATION

Required Action:
Please contact us immediately to verify this transaction:
- Phone: +359 2 800 2000
- Visit any FI Bank branch
- Use FI Bank mobile app

Your card has been temporarily blocked for security.

If verified as fraud, we will:
- Investigate immediately
- Issue new card within 3 business days
- Reverse unauthorized charges

FI Bank Security Department`,
			},
		},
	},
	scenarioStatements: {
		subjects: []string{
			"Your {bank_name} Monthly Statement is Ready",
			"Account Statement Available - {statement_month} {statement_year}",
			"Monthly Statement for Account {account_number}",
			"{bank_name} Statement - Please Review",
		},
		bodies: map[string][]string{
			BankRBS: {
				`Dear Customer,

Your RBS monthly statement for {statement_month} {statement_year} is now available.

Account Summary:
Account Number: {account_number}
Statement Period: {start_date} to {end_date}
Opening Balance: £{opening_balance}
Closing Balance: £{closing_balance}
Total Transactions: {transaction_count}

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
				`Monthly Statement Available

Dear RBS Customer,

Your account statement for {statement_month} {statement_year} is ready for review.

Key Information:
- Account: {account_number}
- Period: {start_date} - {end_date}
- Transactions: {transaction_count}
- Fees Charged: £{fees}
- Interest Earned: £{interest}

Access Your Statement:
1. RBS Online Banking: rbs.co.uk
2. RBS Mobile App
3. Call 0345 724 2424 for postal copy

Please review your statement promptly and contact us if you notice any unauthorized transactions.

Going paperless? Switch to e-statements at rbs.co.uk/paperless

RBS - Here for you`,
			},
			BankFI: {
				`Уважаеми клиент,

Месечната Ви банкова сметка за {statement_month} {statement_year} е готова за преглед.

Обобщение на сметката:
Номер на сметка: {account_number}
Период: {start_date} до {end_date}
Начално салдо: {opening_balance} лв.
Крайно салдо: {closing_balance} лв.
Общо транзакции: {transaction_count}

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
				`Monthly Statement - FI Bank

Dear Customer,

Your FI Bank account statement for {statement_month} {statement_year} is now available.

Account Details:
- Account Number: {account_number}
- Statement Period: {start_date} to {end_date}
- Opening Balance: BGN {opening_balance}
- Closing Balance: BGN {closing_balance}
- Number of Transactions: {transaction_count}

View Your Statement:
- Online banking: fibank.bg
- Mobile app: Fibank Mobile
- Branch visit for printed copy

Please review all transactions and report any discrepancies within 60 days.

For assistance: +359 2 800 2000

Best regards,
First Investment Bank`,
			},
		},
	},
	scenarioPromotional: {
		subjects: []string{
			"Exclusive Offer: New {bank_name} Credit Card with 0% APR",
			"Limited Time: Increase Your Credit Limit",
			"Special Rates on {bank_name} Personal Loans",
			"Invitation: Premium Banking Benefits",
		},
		bodies: map[string][]string{
			BankRBS: {
				`Dear Valued Customer,

We're pleased to offer you an exclusive opportunity to apply for the new RBS Rewards Credit Card.

Special Launch Offer:
• 0% APR for 18 months on purchases
• 0% APR for 12 months on balance transfers
• No annual fee for the first year
• Earn 2% cashback on all purchases

Why Choose RBS Rewards Card:
- Competitive rates after promotional period
- 24/7 customer support
- Comprehensive fraud protection
- Mobile app with spending insights

Pre-approved Amount: Up to £{credit_limit}

Apply now:
- Online at rbs.co.uk/creditcards
- Call 0345 724 2424
- Visit any RBS branch

This offer expires on {expiry_date}.

Terms and conditions apply. Representative APR 22.9% variable.

RBS Credit Card Team`,
			},
			BankFI: {
				`Специално предложение за Вас

Уважаеми клиент,

Имаме удоволствието да Ви предложим ексклузивни условия за нова кредитна карта от Първа инвестиционна банка.

Специални условия:
• 0% лихва за първите 12 месеца
• Без годишна такса за първата година
• До 2% кешбек от покупките
• Безплатно теглене на кеш в банкомати на ПИБ

Предварително одобрена сума: до {credit_limit} лв.

Кандидатствайте:
- Онлайн на fibank.bg
- Телефон: 0700 11 011
- В клон на банката

Офертата е валидна до {expiry_date}.

Представителен ГПР: 24.9% променлив.

С уважение,
Екип Кредитни карти
Първа инвестиционна банка`,
			},
		},
	},
}
