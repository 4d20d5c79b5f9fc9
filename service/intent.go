package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"loan-eligibility/domain"
)

const monthWords = `one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve`

var (
	// ₦20,000 | NGN 20000 | N20,000 | 20,000 naira | 20000 NGN
	prefixedAmount = regexp.MustCompile(`(?i)(?:₦|\bNGN\s?|\bN)\s?(\d[\d,]*(?:\.\d+)?)`)
	suffixedAmount = regexp.MustCompile(`(?i)\b(\d[\d,]*(?:\.\d+)?)\s*(?:naira|NGN)\b`)

	numericTerm = regexp.MustCompile(`(?i)\b(\d+)\s*months?\b`)
	writtenTerm = regexp.MustCompile(`(?i)\b(` + monthWords + `)\s*months?\b`)

	purposeStopwords = regexp.MustCompile(`(?i)\b(can|i|make|a|loan|get|need|want|request|apply|for|my|to|of|the|is|period|over|repaid|be|naira|ngn)\b`)
	whitespace       = regexp.MustCompile(`\s+`)
)

var spelledMonths = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

// intentFields is what one message said; zero values mean "not mentioned".
type intentFields struct {
	amount    decimal.Decimal
	hasAmount bool
	term      int
	purpose   string
}

func scanIntent(message string) intentFields {
	var f intentFields

	if amount, ok := matchAmount(message); ok {
		f.amount, f.hasAmount = amount, true
	}

	if m := numericTerm.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			f.term = n
		}
	} else if m := writtenTerm.FindStringSubmatch(message); m != nil {
		f.term = spelledMonths[strings.ToLower(m[1])]
	}

	purpose := strings.ToLower(message)
	purpose = prefixedAmount.ReplaceAllString(purpose, " ")
	purpose = suffixedAmount.ReplaceAllString(purpose, " ")
	purpose = writtenTerm.ReplaceAllString(purpose, " ")
	purpose = numericTerm.ReplaceAllString(purpose, " ")
	purpose = purposeStopwords.ReplaceAllString(purpose, " ")
	purpose = strings.Trim(whitespace.ReplaceAllString(purpose, " "), " ?!.,")
	if len(purpose) >= 3 {
		f.purpose = purpose
	}
	return f
}

func matchAmount(message string) (decimal.Decimal, bool) {
	m := prefixedAmount.FindStringSubmatch(message)
	if m == nil {
		m = suffixedAmount.FindStringSubmatch(message)
	}
	if m == nil {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount, true
}

// ExtractLoanIntent reads amount, purpose and term out of a single
// message. It fails rather than guess when no amount is present.
func ExtractLoanIntent(message string) (domain.LoanIntent, error) {
	f := scanIntent(message)
	if !f.hasAmount {
		return domain.LoanIntent{}, fmt.Errorf("%w: %q", domain.ErrAmountNotUnderstood, message)
	}
	return fieldsToIntent(f.amount, f.purpose, f.term), nil
}

// FoldIntent merges one more chat message into the accumulated state.
// Fields the message does not mention keep their earlier values.
func FoldIntent(state domain.IntentState, message string) domain.IntentState {
	f := scanIntent(message)
	next := state
	next.Turns++
	if f.hasAmount {
		next.Amount, next.HasAmount = f.amount, true
	}
	if f.term > 0 {
		next.TermMonths = f.term
	}
	// A turn without an amount only fills a missing purpose.
	if f.purpose != "" && (f.hasAmount || next.Purpose == "") {
		next.Purpose = f.purpose
	}
	return next
}

// IntentFromState turns accumulated state into a request-ready intent.
func IntentFromState(state domain.IntentState) (domain.LoanIntent, error) {
	if !state.HasAmount {
		return domain.LoanIntent{}, domain.ErrAmountNotUnderstood
	}
	return fieldsToIntent(state.Amount, state.Purpose, state.TermMonths), nil
}

func fieldsToIntent(amount decimal.Decimal, purpose string, term int) domain.LoanIntent {
	if purpose == "" {
		purpose = DefaultPurpose
	}
	if term <= 0 {
		term = DefaultTermMonths
	}
	return domain.LoanIntent{Amount: amount, Purpose: purpose, TermMonths: term}
}
