package normalizer

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/money"
)

// Input holds the already-fetched debt sources of one household
type Input struct {
	HouseholdID uuid.UUID
	Accounts    []domain.LiabilityAccount
	Bills       []domain.DebtBill
	Records     []domain.DebtRecord
	Payments    []domain.PaymentEvent
}

// Normalize maps the three debt sources into canonical debts.
//
// Logic:
//  1. Keep only the household's rows that are debts and still open:
//     credit card / line of credit accounts that are not closed, active bills
//     flagged as debt, debt records with status active
//  2. Drop a bill whose LinkedAccountID names an included account (the account wins);
//     payments recorded against the dropped bill move to the account
//  3. Fill defaults and attach each debt's payments in chronological order
//  4. Validate everything; all issues are reported together
//
// Output order is accounts, then bills, then records, each in input order.
// Normalize has no side effects: the same input always yields the same output.
func Normalize(in Input) ([]domain.Debt, error) {
	var issues []domain.Issue
	debts := make([]domain.Debt, 0, len(in.Accounts)+len(in.Bills)+len(in.Records))

	includedAccounts := make(map[uuid.UUID]bool)
	// dropped bill ID -> account that absorbed it
	absorbed := make(map[uuid.UUID]uuid.UUID)
	for _, acc := range in.Accounts {
		if acc.HouseholdID != in.HouseholdID || acc.IsClosed || !acc.Type.IsLiability() {
			continue
		}
		d, errs := fromAccount(acc)
		issues = append(issues, errs...)
		debts = append(debts, d)
		includedAccounts[acc.ID] = true
	}

	for _, bill := range in.Bills {
		if bill.HouseholdID != in.HouseholdID || !bill.IsActive || !bill.IsDebt {
			continue
		}
		if bill.LinkedAccountID != nil && includedAccounts[*bill.LinkedAccountID] {
			absorbed[bill.ID] = *bill.LinkedAccountID
			continue
		}
		d, errs := fromBill(bill)
		issues = append(issues, errs...)
		debts = append(debts, d)
	}

	for _, rec := range in.Records {
		if rec.HouseholdID != in.HouseholdID || rec.Status != domain.DebtStatusActive {
			continue
		}
		d, errs := fromRecord(rec)
		issues = append(issues, errs...)
		debts = append(debts, d)
	}

	issues = append(issues, attachPayments(debts, in.Payments, absorbed)...)

	if err := domain.ValidateDebts(debts); err != nil {
		if ve, ok := err.(*domain.ValidationError); ok {
			issues = append(issues, ve.Issues...)
		}
	}
	if len(issues) > 0 {
		return nil, &domain.ValidationError{Issues: dedupeIssues(issues)}
	}

	return debts, nil
}

func fromAccount(acc domain.LiabilityAccount) (domain.Debt, []domain.Issue) {
	var issues []domain.Issue
	compounding, err := domain.ParseCompoundingFrequency(acc.CompoundingFrequency)
	if err != nil {
		issues = append(issues, sourceIssue(domain.SourceAccount, acc.ID, "compounding_frequency", err.Error()))
	}
	if compounding == "" {
		// card issuers accrue on the average daily balance
		compounding = domain.CompoundingDaily
	}

	return domain.Debt{
		ID:                       acc.ID,
		Name:                     acc.Name,
		RemainingBalance:         acc.Balance,
		OriginalBalance:          originalOrCurrent(acc.OriginalBalance, acc.Balance),
		MinimumPayment:           acc.MinimumPayment,
		AdditionalMonthlyPayment: acc.AdditionalMonthlyPayment,
		InterestRate:             acc.InterestRate,
		LoanType:                 domain.LoanTypeRevolving,
		CompoundingFrequency:     compounding,
		BillingCycleDays:         acc.BillingCycleDays,
		Source:                   domain.SourceAccount,
	}, issues
}

func fromBill(bill domain.DebtBill) (domain.Debt, []domain.Issue) {
	loanType, compounding, issues := parseTerms(domain.SourceBill, bill.ID, bill.LoanType, bill.CompoundingFrequency)
	return domain.Debt{
		ID:                       bill.ID,
		Name:                     bill.Name,
		RemainingBalance:         bill.RemainingBalance,
		OriginalBalance:          originalOrCurrent(bill.OriginalBalance, bill.RemainingBalance),
		MinimumPayment:           bill.Amount,
		AdditionalMonthlyPayment: bill.AdditionalMonthlyPayment,
		InterestRate:             bill.InterestRate,
		LoanType:                 loanType,
		CompoundingFrequency:     compounding,
		BillingCycleDays:         bill.BillingCycleDays,
		Source:                   domain.SourceBill,
	}, issues
}

func fromRecord(rec domain.DebtRecord) (domain.Debt, []domain.Issue) {
	loanType, compounding, issues := parseTerms(domain.SourceDebt, rec.ID, rec.LoanType, rec.CompoundingFrequency)
	return domain.Debt{
		ID:                       rec.ID,
		Name:                     rec.Name,
		RemainingBalance:         rec.RemainingBalance,
		OriginalBalance:          originalOrCurrent(rec.OriginalBalance, rec.RemainingBalance),
		MinimumPayment:           rec.MinimumPayment,
		AdditionalMonthlyPayment: rec.AdditionalMonthlyPayment,
		InterestRate:             rec.InterestRate,
		LoanType:                 loanType,
		CompoundingFrequency:     compounding,
		BillingCycleDays:         rec.BillingCycleDays,
		Source:                   domain.SourceDebt,
	}, issues
}

// parseTerms parses loan type and compounding, defaulting to installment / monthly
func parseTerms(src domain.Source, id uuid.UUID, rawLoanType, rawCompounding string) (domain.LoanType, domain.CompoundingFrequency, []domain.Issue) {
	var issues []domain.Issue

	loanType, err := domain.ParseLoanType(rawLoanType)
	if err != nil {
		issues = append(issues, sourceIssue(src, id, "loan_type", err.Error()))
	}
	if loanType == "" {
		loanType = domain.LoanTypeInstallment
	}

	compounding, err := domain.ParseCompoundingFrequency(rawCompounding)
	if err != nil {
		issues = append(issues, sourceIssue(src, id, "compounding_frequency", err.Error()))
	}
	if compounding == "" {
		compounding = domain.CompoundingMonthly
	}

	return loanType, compounding, issues
}

// originalOrCurrent treats an unknown (zero) original balance as the current one,
// and lifts an original balance that a revolving balance has grown past.
// A negative current balance is left for validation to reject.
func originalOrCurrent(original, current money.Cents) money.Cents {
	if current < 0 {
		return original
	}
	return money.Max(original, current)
}

// attachPayments assigns payment events to their debts in chronological order.
// Events on an absorbed bill count toward its account.
// Events for debts that were not included are ignored.
func attachPayments(debts []domain.Debt, events []domain.PaymentEvent, absorbed map[uuid.UUID]uuid.UUID) []domain.Issue {
	if len(events) == 0 {
		return nil
	}
	index := make(map[uuid.UUID]int, len(debts))
	for i, d := range debts {
		index[d.ID] = i
	}

	var issues []domain.Issue
	grouped := make(map[uuid.UUID][]domain.Payment)
	for _, ev := range events {
		debtID := ev.DebtID
		if accountID, ok := absorbed[debtID]; ok {
			debtID = accountID
		}
		i, ok := index[debtID]
		if !ok {
			continue
		}
		if ev.Date.IsZero() {
			issues = append(issues, sourceIssue(debts[i].Source, debtID, "payment.date", fmt.Sprintf("payment %s has no date", ev.ID)))
			continue
		}
		grouped[debtID] = append(grouped[debtID], domain.Payment{Date: ev.Date, PrincipalAmount: ev.PrincipalAmount})
	}

	for id, payments := range grouped {
		sort.SliceStable(payments, func(a, b int) bool {
			return payments[a].Date.Before(payments[b].Date)
		})
		debts[index[id]].Payments = payments
	}
	return issues
}

func sourceIssue(src domain.Source, id uuid.UUID, field, msg string) domain.Issue {
	return domain.Issue{Source: src, RecordID: id.String(), Field: field, Message: msg}
}

// dedupeIssues drops repeats of the same issue, keeping first-seen order
func dedupeIssues(issues []domain.Issue) []domain.Issue {
	seen := make(map[domain.Issue]bool, len(issues))
	out := make([]domain.Issue, 0, len(issues))
	for _, issue := range issues {
		if seen[issue] {
			continue
		}
		seen[issue] = true
		out = append(out, issue)
	}
	return out
}
