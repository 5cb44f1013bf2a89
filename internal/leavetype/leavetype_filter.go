package leavetype

import "github.com/shopspring/decimal"

const (
	ReasonNoBalance        = "no balance record"
	ReasonBalanceExhausted = "balance exhausted"
	ReasonManualAssignment = "requires manual assignment by an administrator"
	ReasonMaternityOnly    = "available only to female employees"
	ReasonPaternityOnly    = "available only to male employees"
)

// Balance is the part of a leave balance row the filter reads.
type Balance struct {
	LeaveTypeID  string
	EntitledDays decimal.Decimal
	UsedDays     decimal.Decimal
}

func (b Balance) Remaining() decimal.Decimal {
	return b.EntitledDays.Sub(b.UsedDays)
}

// Subject is the profile the types are being offered to.
type Subject struct {
	Gender *string
}

type Availability struct {
	Disabled bool
	Reason   string
}

type Option struct {
	Type      LeaveType
	Balance   *Balance
	Available Availability
}

// IsDisabled evaluates the rules in order and returns the first that applies.
// A zero requestedDays skips the sufficiency comparison.
func IsDisabled(t LeaveType, balance *Balance, subject Subject, requestedDays decimal.Decimal) Availability {
	if t.RequiresBalance {
		if balance == nil {
			return Availability{Disabled: true, Reason: ReasonNoBalance}
		}
		remaining := balance.Remaining()
		if !remaining.IsPositive() || requestedDays.GreaterThan(remaining) {
			return Availability{Disabled: true, Reason: ReasonBalanceExhausted}
		}
	}

	if subject.Gender != nil {
		switch {
		case t.LeaveCategory == CategoryMaternity && *subject.Gender != "female":
			return Availability{Disabled: true, Reason: ReasonMaternityOnly}
		case t.LeaveCategory == CategoryPaternity && *subject.Gender != "male":
			return Availability{Disabled: true, Reason: ReasonPaternityOnly}
		}
	}

	if ManualAssignment(t.LeaveCategory) && balance == nil {
		return Availability{Disabled: true, Reason: ReasonManualAssignment}
	}

	return Availability{}
}

// Enumerate lists every type of the organization with its availability, in
// input order.
func Enumerate(subject Subject, types []LeaveType, balances []Balance, organizationID string, requestedDays decimal.Decimal) []Option {
	byType := make(map[string]*Balance, len(balances))
	for i := range balances {
		byType[balances[i].LeaveTypeID] = &balances[i]
	}

	options := make([]Option, 0, len(types))
	for _, t := range types {
		if t.OrganizationID.String() != organizationID {
			continue
		}
		b := byType[t.ID.String()]
		options = append(options, Option{
			Type:      t,
			Balance:   b,
			Available: IsDisabled(t, b, subject, requestedDays),
		})
	}
	return options
}

// ApplicableTypes is the selectable subset of Enumerate.
func ApplicableTypes(subject Subject, types []LeaveType, balances []Balance, organizationID string, requestedDays decimal.Decimal) []LeaveType {
	var out []LeaveType
	for _, o := range Enumerate(subject, types, balances, organizationID, requestedDays) {
		if !o.Available.Disabled {
			out = append(out, o.Type)
		}
	}
	return out
}
